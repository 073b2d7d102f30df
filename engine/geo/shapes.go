package geo

import (
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/model"
)

// Shape is a procedural polyhedron.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeTetrahedron
	ShapeOctahedron
	ShapeIcosahedron
)

// Shapes lists every Shape in declaration order.
var Shapes = []Shape{ShapeBox, ShapeTetrahedron, ShapeOctahedron, ShapeIcosahedron}

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeTetrahedron:
		return "tetrahedron"
	case ShapeOctahedron:
		return "octahedron"
	case ShapeIcosahedron:
		return "icosahedron"
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// Vertex is the interleaved layout of model.VertexStride.
type Vertex struct {
	Position common.Vec3
	Normal   common.Vec3
}

type polyhedron struct {
	points []common.Vec3
	faces  [][]int
}

var golden = float32((1 + math.Sqrt(5)) / 2)

var polyhedra = map[Shape]polyhedron{
	ShapeBox: {
		points: []common.Vec3{
			{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
			{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
		},
		faces: [][]int{
			{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4},
			{2, 3, 7, 6}, {1, 2, 6, 5}, {0, 4, 7, 3},
		},
	},
	ShapeTetrahedron: {
		points: []common.Vec3{{1, 1, 1}, {-1, -1, 1}, {-1, 1, -1}, {1, -1, -1}},
		faces:  [][]int{{2, 1, 0}, {0, 3, 2}, {1, 3, 0}, {2, 3, 1}},
	},
	ShapeOctahedron: {
		points: []common.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}},
		faces: [][]int{
			{0, 2, 4}, {0, 4, 3}, {0, 3, 5}, {0, 5, 2},
			{1, 2, 5}, {1, 5, 3}, {1, 3, 4}, {1, 4, 2},
		},
	},
	ShapeIcosahedron: {
		points: []common.Vec3{
			{-1, golden, 0}, {1, golden, 0}, {-1, -golden, 0}, {1, -golden, 0},
			{0, -1, golden}, {0, 1, golden}, {0, -1, -golden}, {0, 1, -golden},
			{golden, 0, -1}, {golden, 0, 1}, {-golden, 0, -1}, {-golden, 0, 1},
		},
		faces: [][]int{
			{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
			{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
			{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
			{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
		},
	},
}

var (
	cacheMu sync.Mutex
	cache   = make(map[Shape]model.Model)
)

// Model returns the shared unit-radius model of a shape. Models are built once and cached.
//
// Parameters:
//   - s: the shape
//
// Returns:
//   - model.Model: the flat-shaded model
func Model(s Shape) model.Model {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if m, ok := cache[s]; ok {
		return m
	}
	vertices, indices := Build(s)
	m := model.NewModel(
		model.WithName(s.String()),
		model.WithBoundingRadius(1),
		model.WithMesh(vertices, indices),
	)
	cache[s] = m
	return m
}

// Build triangulates a shape on the unit sphere with one normal per face.
// Faces are wound counter-clockwise seen from outside.
//
// Parameters:
//   - s: the shape
//
// Returns:
//   - []Vertex: the vertices, three per triangle
//   - []uint32: the triangle indices
func Build(s Shape) ([]Vertex, []uint32) {
	p, ok := polyhedra[s]
	if !ok {
		panic(fmt.Sprintf("geo: unknown shape %d", int(s)))
	}

	points := make([]common.Vec3, len(p.points))
	for i, pt := range p.points {
		points[i] = pt.Normalize()
	}

	var vertices []Vertex
	var indices []uint32
	for _, face := range p.faces {
		// Fan triangulation; every face is convex.
		for i := 1; i+1 < len(face); i++ {
			a, b, c := points[face[0]], points[face[i]], points[face[i+1]]
			n := b.Sub(a).Cross(c.Sub(a)).Normalize()
			centroid := common.Vec3{(a[0] + b[0] + c[0]) / 3, (a[1] + b[1] + c[1]) / 3, (a[2] + b[2] + c[2]) / 3}
			if n.Dot(centroid) < 0 {
				b, c = c, b
				n = common.Vec3{-n[0], -n[1], -n[2]}
			}
			for _, v := range []common.Vec3{a, b, c} {
				indices = append(indices, uint32(len(vertices)))
				vertices = append(vertices, Vertex{Position: v, Normal: n})
			}
		}
	}
	return vertices, indices
}
