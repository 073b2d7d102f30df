package model

import (
	"fmt"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-pulse/common"
)

// ModelBuilderOption is a functional option applied to a model during construction via NewModel.
type ModelBuilderOption func(*model)

// WithName sets the model identifier.
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithBoundingRadius sets the radius of the bounding sphere.
func WithBoundingRadius(radius float32) ModelBuilderOption {
	return func(m *model) {
		m.boundingRadius = radius
	}
}

// WithMesh packs the vertices and indices of the model. V must be exactly VertexStride bytes.
//
// Parameters:
//   - vertices: the interleaved vertices
//   - indices: the triangle-list indices
//
// Returns:
//   - ModelBuilderOption: option function to apply
func WithMesh[V any](vertices []V, indices []uint32) ModelBuilderOption {
	var zero V
	if size := unsafe.Sizeof(zero); size != VertexStride {
		panic(fmt.Sprintf("model: vertex type is %d bytes, want %d", size, VertexStride))
	}
	return func(m *model) {
		m.vertexData = common.SliceToBytes(vertices)
		m.indexData = common.SliceToBytes(indices)
		m.indexCount = len(indices)
	}
}
