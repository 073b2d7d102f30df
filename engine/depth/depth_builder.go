package depth

// CaptureBuilderOption is a functional option applied to the depth stage during Resolve.
type CaptureBuilderOption func(*capture)

// WithFloatDepth enables the per-frame float depth capture pass.
//
// Parameters:
//   - enabled: true to capture depth into a dedicated float target each frame
//
// Returns:
//   - CaptureBuilderOption: option function to apply
func WithFloatDepth(enabled bool) CaptureBuilderOption {
	return func(c *capture) {
		c.floatDepth = enabled
	}
}
