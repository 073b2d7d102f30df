package backend

// BackendBuilderOption is a functional option applied to a Backend on creation.
type BackendBuilderOption func(*backend)

// WithPresentMode sets how frames are delivered to the display.
// Modes the surface does not support fall back to PresentModeVSync.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - BackendBuilderOption: option function to apply
func WithPresentMode(mode PresentMode) BackendBuilderOption {
	return func(b *backend) {
		b.presentMode = mode
	}
}

// WithForceSoftwareRenderer requests the CPU fallback adapter instead of hardware acceleration.
// Requires a software Vulkan ICD such as lavapipe or SwiftShader.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - BackendBuilderOption: option function to apply
func WithForceSoftwareRenderer(force bool) BackendBuilderOption {
	return func(b *backend) {
		b.forceFallbackAdapter = force
	}
}

// WithDepthTextureDisabled makes the backend report no depth texture support, so the pipeline
// takes its fallback paths.
//
// Parameters:
//   - disabled: true to hide depth texture support
//
// Returns:
//   - BackendBuilderOption: option function to apply
func WithDepthTextureDisabled(disabled bool) BackendBuilderOption {
	return func(b *backend) {
		b.depthTextures = !disabled
	}
}
