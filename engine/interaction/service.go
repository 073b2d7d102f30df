package interaction

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-pulse/log"
)

var logger = log.New("interaction")

const (
	// EventStart is emitted when the pointer goes down while the service is enabled.
	EventStart = "start"

	// EventStop is emitted when the pointer is released after a start.
	EventStop = "stop"
)

type service struct {
	Emitter

	mu      *sync.Mutex
	enabled bool
	pressed bool
}

// Service turns raw pointer press and release signals into start and stop notifications.
// A disabled service emits nothing.
type Service interface {
	Emitter

	// Enable starts emitting notifications.
	Enable()

	// Disable stops emitting notifications and forgets any press in progress.
	Disable()

	// Enabled reports whether the service emits notifications.
	Enabled() bool

	// PointerDown feeds a press of the primary pointer.
	PointerDown()

	// PointerUp feeds a release of the primary pointer.
	PointerUp()
}

var _ Service = &service{}

// NewService creates a disabled Service.
//
// Returns:
//   - Service: the newly created service
func NewService() Service {
	return &service{
		Emitter: NewEmitter(),
		mu:      &sync.Mutex{},
	}
}

func (s *service) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		logger.Debug("interactions enabled")
	}
	s.enabled = true
}

func (s *service) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		logger.Debug("interactions disabled")
	}
	s.enabled = false
	s.pressed = false
}

func (s *service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *service) PointerDown() {
	s.mu.Lock()
	if !s.enabled || s.pressed {
		s.mu.Unlock()
		return
	}
	s.pressed = true
	s.mu.Unlock()

	s.Emit(EventStart)
}

func (s *service) PointerUp() {
	s.mu.Lock()
	if !s.enabled || !s.pressed {
		s.mu.Unlock()
		return
	}
	s.pressed = false
	s.mu.Unlock()

	s.Emit(EventStop)
}
