// Package game_object holds the drawable entities of a scene.
package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/model"
)

// objectCount assigns unique object IDs. Renderers key per-object GPU state by them.
var objectCount atomic.Uint64

// Transform places an object in the world. Rotation holds Euler angles in radians.
type Transform struct {
	Position common.Vec3
	Rotation common.Vec3
	Scale    common.Vec3
}

// Matrix returns the model matrix of t.
func (t Transform) Matrix() common.Mat4 {
	return common.Compose(t.Position, t.Rotation, t.Scale)
}

type gameObject struct {
	id        uint64
	enabled   atomic.Bool
	mdl       model.Model
	color     common.Color
	transform Transform
}

// GameObject is a model placed in the world with a flat surface color.
// Objects are mutated from the frame goroutine only.
type GameObject interface {
	// ID returns the object's unique identifier.
	ID() uint64

	// Enabled returns whether this object is drawn.
	Enabled() bool

	// Model returns the mesh drawn for this object, or nil if not set.
	Model() model.Model

	// Color returns the object's surface color.
	Color() common.Color

	// Transform returns the object's placement.
	Transform() Transform

	// Position returns the object's world-space position.
	Position() (x, y, z float32)

	// Rotation returns the object's Euler rotation in radians.
	Rotation() (rx, ry, rz float32)

	// ModelMatrix returns the column-major world transform.
	ModelMatrix() common.Mat4

	// SetEnabled toggles drawing of this object.
	//
	// Parameters:
	//   - enabled: true to draw the object
	SetEnabled(enabled bool)

	// SetColor sets the object's surface color. Palette changes recolor live objects through it.
	//
	// Parameters:
	//   - c: the new color
	SetColor(c common.Color)

	// SetPosition sets the object's world-space position.
	SetPosition(x, y, z float32)

	// SetRotation sets the object's Euler rotation in radians.
	SetRotation(rx, ry, rz float32)

	// SetScale sets the object's scale factors.
	SetScale(sx, sy, sz float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates an enabled white GameObject at the origin with unit scale.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	g := &gameObject{
		id:        objectCount.Add(1),
		color:     common.White,
		transform: Transform{Scale: common.Vec3{1, 1, 1}},
	}
	g.enabled.Store(true)
	for _, option := range options {
		option(g)
	}
	return g
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Color() common.Color {
	return g.color
}

func (g *gameObject) Transform() Transform {
	return g.transform
}

func (g *gameObject) Position() (x, y, z float32) {
	p := g.transform.Position
	return p[0], p[1], p[2]
}

func (g *gameObject) Rotation() (rx, ry, rz float32) {
	r := g.transform.Rotation
	return r[0], r[1], r[2]
}

func (g *gameObject) ModelMatrix() common.Mat4 {
	return g.transform.Matrix()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetColor(c common.Color) {
	g.color = c
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.transform.Position = common.Vec3{x, y, z}
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.transform.Rotation = common.Vec3{rx, ry, rz}
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.transform.Scale = common.Vec3{sx, sy, sz}
}
