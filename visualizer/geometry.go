package visualizer

import (
	"math"
	"math/rand"
	"sync"

	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/game_object"
	"github.com/Carmen-Shannon/oxy-pulse/engine/geo"
	"github.com/Carmen-Shannon/oxy-pulse/engine/scene"
)

// MaxObjects bounds how many meshes the scene holds; the oldest is dropped first.
const MaxObjects = 24

type geometry struct {
	mu *sync.Mutex

	scn      scene.Scene
	rng      *rand.Rand
	palettes []common.Palette
	palette  common.Palette
	paletteI int
	objects  []game_object.GameObject
	onFocus  func(game_object.GameObject)
}

// Geometry owns the procedural meshes and palette of the scene.
type Geometry interface {
	// NextGeometry adds a random shape colored from the current palette and makes it the focus.
	NextGeometry()

	// NextPalette switches to a different random palette from the table.
	NextPalette()

	// ClearGeometry removes every mesh added by NextGeometry.
	ClearGeometry()

	// SetPalette applies a palette to the background and every mesh.
	//
	// Parameters:
	//   - p: the palette; the first color is the background
	SetPalette(p common.Palette)

	// Palette returns the current palette.
	Palette() common.Palette

	// Objects returns the meshes in insertion order.
	Objects() []game_object.GameObject
}

var _ Geometry = &geometry{}

// NewGeometry creates a Geometry over the scene.
//
// Parameters:
//   - scn: the scene meshes are added to
//   - rng: the random source for shapes, placement and palettes
//   - palettes: the table NextPalette draws from
//   - onFocus: called with the newest mesh, or nil after ClearGeometry; may be nil
//
// Returns:
//   - Geometry: the newly created geometry
func NewGeometry(scn scene.Scene, rng *rand.Rand, palettes []common.Palette, onFocus func(game_object.GameObject)) Geometry {
	if onFocus == nil {
		onFocus = func(game_object.GameObject) {}
	}
	return &geometry{
		mu:       &sync.Mutex{},
		scn:      scn,
		rng:      rng,
		palettes: palettes,
		palette:  InitialPalette,
		paletteI: -1,
		onFocus:  onFocus,
	}
}

func (g *geometry) NextGeometry() {
	g.mu.Lock()
	shape := geo.Shapes[g.rng.Intn(len(geo.Shapes))]
	obj := game_object.NewGameObject(
		game_object.WithModel(geo.Model(shape)),
		game_object.WithColor(g.colorAt(len(g.objects))),
	)
	if len(g.objects) == 0 {
		obj.SetPosition(0, 1, 0)
		obj.SetScale(0.8, 0.8, 0.8)
	} else {
		angle := g.rng.Float64() * 2 * math.Pi
		dist := 1.5 + g.rng.Float64()*2.5
		obj.SetPosition(float32(math.Cos(angle)*dist), float32(g.rng.Float64()*2), float32(math.Sin(angle)*dist))
		s := float32(0.2 + g.rng.Float64()*0.6)
		obj.SetScale(s, s, s)
	}
	obj.SetRotation(float32(g.rng.Float64()*math.Pi), float32(g.rng.Float64()*math.Pi), 0)

	g.objects = append(g.objects, obj)
	var dropped game_object.GameObject
	if len(g.objects) > MaxObjects {
		dropped = g.objects[0]
		g.objects = g.objects[1:]
	}
	g.mu.Unlock()

	if dropped != nil {
		g.scn.Remove(dropped)
	}
	g.scn.Add(obj)
	logger.Debugf("geometry %s (%d meshes)", shape, len(g.Objects()))
	g.onFocus(obj)
}

func (g *geometry) NextPalette() {
	g.mu.Lock()
	if len(g.palettes) == 0 {
		g.mu.Unlock()
		return
	}
	i := g.rng.Intn(len(g.palettes))
	if len(g.palettes) > 1 && i == g.paletteI {
		i = (i + 1) % len(g.palettes)
	}
	g.paletteI = i
	p := g.palettes[i]
	g.mu.Unlock()

	logger.Debugf("palette %d", i)
	g.SetPalette(p)
}

func (g *geometry) ClearGeometry() {
	g.mu.Lock()
	objects := g.objects
	g.objects = nil
	g.mu.Unlock()

	for _, obj := range objects {
		g.scn.Remove(obj)
	}
	g.onFocus(nil)
}

func (g *geometry) SetPalette(p common.Palette) {
	if len(p) == 0 {
		return
	}
	g.mu.Lock()
	g.palette = p
	for i, obj := range g.objects {
		obj.SetColor(g.colorAt(i))
	}
	g.mu.Unlock()

	g.scn.SetBackground(p[0])
}

func (g *geometry) Palette() common.Palette {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.palette
}

func (g *geometry) Objects() []game_object.GameObject {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]game_object.GameObject, len(g.objects))
	copy(out, g.objects)
	return out
}

// colorAt picks the mesh color for slot i, skipping the background color when the palette has more.
func (g *geometry) colorAt(i int) common.Color {
	if len(g.palette) == 1 {
		return g.palette[0]
	}
	return g.palette[1+i%(len(g.palette)-1)]
}
