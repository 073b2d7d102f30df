package interaction

// BridgeBuilderOption is a functional option applied to a Bridge on creation.
type BridgeBuilderOption func(*bridge)

// WithIntro replaces the default intro overlay.
//
// Parameters:
//   - i: the intro overlay
//
// Returns:
//   - BridgeBuilderOption: option function to apply
func WithIntro(i Intro) BridgeBuilderOption {
	return func(b *bridge) {
		if i != nil {
			b.intro = i
		}
	}
}

// WithReplaySteps sets how many forward geometry steps the first stop replays. Defaults to 10.
//
// Parameters:
//   - n: the number of steps
//
// Returns:
//   - BridgeBuilderOption: option function to apply
func WithReplaySteps(n int) BridgeBuilderOption {
	return func(b *bridge) {
		b.replay = n
	}
}

// WithStartHandler sets the persistent start handler. It also runs on the first start.
//
// Parameters:
//   - h: the handler
//
// Returns:
//   - BridgeBuilderOption: option function to apply
func WithStartHandler(h Handler) BridgeBuilderOption {
	return func(b *bridge) {
		if h != nil {
			b.onStart = h
		}
	}
}

// WithStopHandler sets the persistent stop handler. It also runs on the first stop.
//
// Parameters:
//   - h: the handler
//
// Returns:
//   - BridgeBuilderOption: option function to apply
func WithStopHandler(h Handler) BridgeBuilderOption {
	return func(b *bridge) {
		if h != nil {
			b.onStop = h
		}
	}
}
