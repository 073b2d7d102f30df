package interaction

import "sync"

// State is the stage of the first-interaction sequence.
type State int

const (
	// StateDisabled is the state before Start.
	StateDisabled State = iota

	// StateEnabled waits for the first start notification.
	StateEnabled

	// StateFirstConsumed waits for the stop that ends the first interaction.
	StateFirstConsumed

	// StateSteady is final. The service is disabled and only the persistent handlers remain.
	StateSteady
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateEnabled:
		return "enabled"
	case StateFirstConsumed:
		return "first-interaction-consumed"
	case StateSteady:
		return "steady"
	}
	return "unknown"
}

// Geometry is the set of scene transitions the bridge drives.
type Geometry interface {
	NextGeometry()
	ClearGeometry()
}

// Intro is the overlay shown until the first interaction.
type Intro interface {
	AnimateIn()
	AnimateOut()
}

type bridge struct {
	mu *sync.Mutex

	svc     Service
	geo     Geometry
	intro   Intro
	replay  int
	onStart Handler
	onStop  Handler
	state   State
}

// Bridge runs the one-shot first-interaction sequence on top of a Service.
//
// The first start hides the intro and advances the geometry. The stop that follows clears the
// geometry, replays a fixed number of forward steps and disables the service for good.
type Bridge interface {
	// Start shows the intro, enables the service and registers the handlers.
	// Calls after the first are ignored.
	Start()

	// State returns the current stage of the sequence.
	State() State
}

var _ Bridge = &bridge{}

// NewBridge creates a Bridge in StateDisabled.
//
// Parameters:
//   - svc: the interaction service
//   - geo: the geometry transitions to drive
//   - options: functional options for the bridge
//
// Returns:
//   - Bridge: the newly created bridge
func NewBridge(svc Service, geo Geometry, options ...BridgeBuilderOption) Bridge {
	b := &bridge{
		mu:      &sync.Mutex{},
		svc:     svc,
		geo:     geo,
		intro:   NewIntro(),
		replay:  10,
		onStart: func() {},
		onStop:  func() {},
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *bridge) Start() {
	b.mu.Lock()
	if b.state != StateDisabled {
		b.mu.Unlock()
		return
	}
	b.state = StateEnabled
	b.mu.Unlock()

	b.intro.AnimateIn()
	b.svc.Enable()
	b.svc.Once(EventStart, b.firstStart)
	b.svc.On(EventStart, b.onStart)
	b.svc.On(EventStop, b.onStop)
}

func (b *bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *bridge) firstStart() {
	b.setState(StateFirstConsumed)
	b.intro.AnimateOut()
	b.geo.NextGeometry()
	b.svc.Once(EventStop, b.firstStop)
}

func (b *bridge) firstStop() {
	b.geo.ClearGeometry()
	for i := 0; i < b.replay; i++ {
		b.geo.NextGeometry()
	}
	b.svc.Disable()
	b.setState(StateSteady)
}

func (b *bridge) setState(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	logger.Debugf("bridge %s -> %s", b.state, s)
	b.state = s
}

type intro struct {
	mu      *sync.Mutex
	visible bool
}

// NewIntro creates the default intro overlay. It has no visuals of its own and only
// records its visibility.
//
// Returns:
//   - Intro: the intro overlay
func NewIntro() Intro {
	return &intro{mu: &sync.Mutex{}}
}

func (i *intro) AnimateIn() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.visible {
		logger.Info("intro in")
	}
	i.visible = true
}

func (i *intro) AnimateOut() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.visible {
		logger.Info("intro out")
	}
	i.visible = false
}
