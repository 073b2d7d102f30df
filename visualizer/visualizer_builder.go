package visualizer

import (
	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/interaction"
	"github.com/Carmen-Shannon/oxy-pulse/engine/timeline"
)

// VisualizerBuilderOption is a functional option applied to a Visualizer on creation.
type VisualizerBuilderOption func(*visualizer)

// WithFloatDepth captures depth into a float color target instead of the native depth texture.
//
// Parameters:
//   - enabled: whether float depth capture is used
//
// Returns:
//   - VisualizerBuilderOption: option function to apply
func WithFloatDepth(enabled bool) VisualizerBuilderOption {
	return func(v *visualizer) {
		v.floatDepth = enabled
	}
}

// WithSeed sets the seed of the geometry and palette generator.
//
// Parameters:
//   - seed: the seed text; empty keeps DefaultSeed
//
// Returns:
//   - VisualizerBuilderOption: option function to apply
func WithSeed(seed string) VisualizerBuilderOption {
	return func(v *visualizer) {
		v.seed = common.Coalesce(seed, v.seed)
	}
}

// WithPalettes replaces the palette table.
func WithPalettes(palettes ...common.Palette) VisualizerBuilderOption {
	return func(v *visualizer) {
		if len(palettes) > 0 {
			v.palettes = palettes
		}
	}
}

// WithSchedule replaces the per-track timeline builder. Track i of the result pairs with track i
// of the audio playlist.
//
// Parameters:
//   - schedule: builds the timeline tracks for the geometry
//
// Returns:
//   - VisualizerBuilderOption: option function to apply
func WithSchedule(schedule func(Geometry) []*timeline.Track) VisualizerBuilderOption {
	return func(v *visualizer) {
		if schedule != nil {
			v.schedule = schedule
		}
	}
}

// WithBridgeOptions passes options through to the interaction bridge.
func WithBridgeOptions(options ...interaction.BridgeBuilderOption) VisualizerBuilderOption {
	return func(v *visualizer) {
		v.bridgeOpts = append(v.bridgeOpts, options...)
	}
}
