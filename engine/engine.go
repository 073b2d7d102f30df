package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-pulse/engine/frame"
	"github.com/Carmen-Shannon/oxy-pulse/engine/profiler"
	"github.com/Carmen-Shannon/oxy-pulse/engine/window"
	"github.com/Carmen-Shannon/oxy-pulse/log"
)

var logger = log.New("engine")

// TickListener receives the elapsed time since the previous tick in milliseconds.
type TickListener func(dt float64) error

// engine implements the Engine interface.
// Everything runs on the window's message loop goroutine, one tick per loop iteration.
type engine struct {
	mu *sync.Mutex

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickListeners   []TickListener
	resizeListeners []func(width, height int)

	lastTick    time.Time
	frameLimit  time.Duration
	ticks       uint64
	failedTicks uint64

	quitOnce sync.Once
}

// Engine drives the per-frame tick from the window's message loop.
//
// Listeners run in registration order and to completion within a tick. A listener error is
// logged and the tick carries on with the next listener; the following tick starts clean.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// OnTick registers a listener called once per tick.
	//
	// Parameters:
	//   - listener: the tick listener
	OnTick(listener TickListener)

	// OnResize registers a listener called when the window size changes.
	//
	// Parameters:
	//   - listener: function receiving the logical width and height
	OnResize(listener func(width, height int))

	// Tick runs every tick listener once.
	//
	// Parameters:
	//   - dt: the elapsed time since the previous tick in milliseconds
	Tick(dt float64)

	// Ticks returns the number of completed ticks and how many of them had a listener error.
	Ticks() (total, failed uint64)

	// Run starts the message loop. Blocks until the window closes.
	Run()

	// Quit closes the window, which ends Run. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:       &sync.Mutex{},
		profiler: profiler.NewProfiler(time.Second, frame.MaxStep),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) OnTick(listener TickListener) {
	if listener == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickListeners = append(e.tickListeners, listener)
}

func (e *engine) OnResize(listener func(width, height int)) {
	if listener == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resizeListeners = append(e.resizeListeners, listener)
}

func (e *engine) Tick(dt float64) {
	e.mu.Lock()
	listeners := make([]TickListener, len(e.tickListeners))
	copy(listeners, e.tickListeners)
	profiling := e.profilingEnabled
	e.mu.Unlock()

	failed := false
	for i, l := range listeners {
		if err := e.runListener(l, dt); err != nil {
			logger.Errorf("tick listener %d: %v", i, err)
			failed = true
		}
	}

	e.mu.Lock()
	e.ticks++
	if failed {
		e.failedTicks++
	}
	e.mu.Unlock()

	if profiling {
		e.profiler.Tick(dt)
	}
}

func (e *engine) Ticks() (total, failed uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks, e.failedTicks
}

func (e *engine) Run() {
	if e.window == nil {
		logger.Error("no window to run")
		return
	}
	e.lastTick = time.Now()
	e.window.SetUpdateCallback(e.update)
	e.window.ProcessMessages()
	e.Quit()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		if e.window == nil {
			return
		}
		if err := e.window.Close(); err != nil {
			logger.Warningf("failed to close window: %v", err)
		}
	})
}

// update is the window message loop callback.
func (e *engine) update() {
	now := time.Now()
	dt := float64(now.Sub(e.lastTick).Microseconds()) / 1000
	e.lastTick = now

	e.Tick(dt)

	if e.frameLimit > 0 {
		if remaining := e.frameLimit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// runListener calls l, turning a panic into an error so one bad frame cannot end the loop.
func (e *engine) runListener(l TickListener, dt float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered from panic: %v", r)
		}
	}()
	return l(dt)
}

func (e *engine) resize(width, height int) {
	e.mu.Lock()
	listeners := make([]func(int, int), len(e.resizeListeners))
	copy(listeners, e.resizeListeners)
	e.mu.Unlock()

	logger.Debugf("window resized to %dx%d", width, height)
	for _, l := range listeners {
		l(width, height)
	}
}
