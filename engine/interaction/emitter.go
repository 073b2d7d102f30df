package interaction

import "sync"

// Handler is a subscriber callback.
type Handler func()

type subscription struct {
	handler Handler
	once    bool
}

type emitter struct {
	mu        *sync.Mutex
	listeners map[string][]*subscription
}

// Emitter delivers named notifications to subscribers in registration order.
type Emitter interface {
	// On subscribes h to every future emission of event.
	//
	// Parameters:
	//   - event: the event name
	//   - h: the handler
	On(event string, h Handler)

	// Once subscribes h to the next emission of event only.
	//
	// Parameters:
	//   - event: the event name
	//   - h: the handler
	Once(event string, h Handler)

	// Emit calls every subscriber of event registered before the call, in registration order.
	// Once subscribers are dropped before any handler runs, so they fire at most once even when
	// a handler emits the same event again.
	//
	// Parameters:
	//   - event: the event name
	Emit(event string)

	// Listeners returns the number of subscribers of event.
	Listeners(event string) int
}

var _ Emitter = &emitter{}

// NewEmitter creates an Emitter without subscribers.
//
// Returns:
//   - Emitter: the newly created emitter
func NewEmitter() Emitter {
	return &emitter{
		mu:        &sync.Mutex{},
		listeners: make(map[string][]*subscription),
	}
}

func (e *emitter) On(event string, h Handler) {
	e.add(event, &subscription{handler: h})
}

func (e *emitter) Once(event string, h Handler) {
	e.add(event, &subscription{handler: h, once: true})
}

func (e *emitter) add(event string, s *subscription) {
	if s.handler == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], s)
}

func (e *emitter) Emit(event string) {
	e.mu.Lock()
	subs := e.listeners[event]
	snapshot := make([]*subscription, len(subs))
	copy(snapshot, subs)
	kept := subs[:0:0]
	for _, s := range subs {
		if !s.once {
			kept = append(kept, s)
		}
	}
	e.listeners[event] = kept
	e.mu.Unlock()

	for _, s := range snapshot {
		s.handler()
	}
}

func (e *emitter) Listeners(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}
