package audio

// ServiceBuilderOption is a functional option applied to a Service on creation.
type ServiceBuilderOption func(*service)

// WithDecoder replaces DecodeFile.
//
// Parameters:
//   - d: the decoder
//
// Returns:
//   - ServiceBuilderOption: option function to apply
func WithDecoder(d Decoder) ServiceBuilderOption {
	return func(s *service) {
		if d != nil {
			s.decode = d
		}
	}
}

// WithOutput plays through o instead of opening the system device.
//
// Parameters:
//   - o: the output
//
// Returns:
//   - ServiceBuilderOption: option function to apply
func WithOutput(o Output) ServiceBuilderOption {
	return func(s *service) {
		s.out = o
	}
}

// WithSilentOutput plays without a device. The transport clock runs in real time.
//
// Returns:
//   - ServiceBuilderOption: option function to apply
func WithSilentOutput() ServiceBuilderOption {
	return func(s *service) {
		s.out = silentOutput{}
	}
}

// WithDecodeWorkers sets the maximum number of tracks decoded in parallel. Defaults to 2.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - ServiceBuilderOption: option function to apply
func WithDecodeWorkers(n int) ServiceBuilderOption {
	return func(s *service) {
		if n > 0 {
			s.workers = n
		}
	}
}
