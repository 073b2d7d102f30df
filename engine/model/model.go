// Package model holds static triangle meshes ready for upload.
package model

import "sync/atomic"

// modelCount gives every model a unique key for GPU buffer caching.
var modelCount atomic.Uint64

// VertexStride is the size in bytes of one interleaved vertex: position (vec3<f32>) followed by normal (vec3<f32>).
const VertexStride = 6 * 4

type model struct {
	key            uint64
	name           string
	boundingRadius float32
	vertexData     []byte
	indexData      []byte
	indexCount     int
}

// Model is an immutable triangle-list mesh.
// Vertex data is laid out per VertexStride; indices are uint32.
type Model interface {
	// Key returns the process-unique key of this model. Backends cache GPU buffers by it.
	Key() uint64

	// Name returns the model identifier, used in GPU labels and logs.
	Name() string

	// BoundingRadius returns the radius of the origin-centered sphere enclosing the mesh.
	BoundingRadius() float32

	// VertexData returns the raw interleaved vertex bytes.
	VertexData() []byte

	// IndexData returns the raw uint32 index bytes.
	IndexData() []byte

	// IndexCount returns the number of indices drawn.
	IndexCount() int
}

var _ Model = &model{}

// NewModel creates a new Model with the provided options.
//
// Parameters:
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the newly created model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		key: modelCount.Add(1),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *model) Key() uint64 {
	return m.key
}

func (m *model) Name() string {
	return m.name
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return m.indexCount
}
