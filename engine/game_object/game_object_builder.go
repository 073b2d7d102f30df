package game_object

import (
	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/model"
)

// GameObjectBuilderOption is a functional option applied to a game object during construction via NewGameObject.
type GameObjectBuilderOption func(*gameObject)

// WithModel sets the mesh drawn for this object.
//
// Parameters:
//   - m: the model
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.mdl = m
	}
}

// WithColor sets the initial surface color.
func WithColor(c common.Color) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.color = c
	}
}

// WithPosition sets the initial world-space position.
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.transform.Position = common.Vec3{x, y, z}
	}
}

// WithTransform replaces the whole initial placement.
//
// Parameters:
//   - t: the transform; a zero Scale collapses the object
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithTransform(t Transform) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.transform = t
	}
}
