package frame

import (
	"github.com/Carmen-Shannon/oxy-pulse/engine/depth"
	"github.com/Carmen-Shannon/oxy-pulse/engine/game_object"
)

// DriverBuilderOption is a functional option applied to a Driver on creation.
type DriverBuilderOption func(*driver)

// WithDepthCapture runs the depth stage before the main render every tick.
//
// Parameters:
//   - c: the resolved depth stage
//
// Returns:
//   - DriverBuilderOption: option function to apply
func WithDepthCapture(c depth.Capture) DriverBuilderOption {
	return func(d *driver) {
		d.depth = c
	}
}

// WithFocus sets the initial focal object.
//
// Parameters:
//   - obj: the focal object
//
// Returns:
//   - DriverBuilderOption: option function to apply
func WithFocus(obj game_object.GameObject) DriverBuilderOption {
	return func(d *driver) {
		d.focus = obj
	}
}
