package target

import "github.com/Carmen-Shannon/oxy-pulse/engine/renderer"

// targetBuilder collects the options of a single Create call.
type targetBuilder struct {
	desc        renderer.TargetDescriptor
	attachments int
}

// TargetBuilderOption is a functional option applied to a target created via Manager.Create.
type TargetBuilderOption func(*targetBuilder)

// WithLabel names the target for logs and GPU debug tooling.
//
// Parameters:
//   - label: the target label
//
// Returns:
//   - TargetBuilderOption: option function to apply
func WithLabel(label string) TargetBuilderOption {
	return func(b *targetBuilder) {
		b.desc.Label = label
	}
}

// WithAttachments requests a multi-attachment target. Counts above one add a floating-point
// RGBA normal/roughness buffer per extra attachment; zero and one leave a single color texture.
//
// Parameters:
//   - count: the total number of color attachments
//
// Returns:
//   - TargetBuilderOption: option function to apply
func WithAttachments(count int) TargetBuilderOption {
	return func(b *targetBuilder) {
		b.attachments = count
	}
}

// WithFormat overrides the color format, e.g. renderer.FormatRGBAFloat for float depth capture.
//
// Parameters:
//   - format: the color texture format
//
// Returns:
//   - TargetBuilderOption: option function to apply
func WithFormat(format renderer.TextureFormat) TargetBuilderOption {
	return func(b *targetBuilder) {
		b.desc.Format = format
	}
}
