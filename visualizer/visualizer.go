// Package visualizer wires the render pipeline, the audio timeline and the interaction bridge
// into the audio-reactive scene.
package visualizer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/audio"
	"github.com/Carmen-Shannon/oxy-pulse/engine/camera"
	"github.com/Carmen-Shannon/oxy-pulse/engine/composer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/depth"
	"github.com/Carmen-Shannon/oxy-pulse/engine/frame"
	"github.com/Carmen-Shannon/oxy-pulse/engine/interaction"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/scene"
	"github.com/Carmen-Shannon/oxy-pulse/engine/target"
	"github.com/Carmen-Shannon/oxy-pulse/engine/timeline"
	"github.com/Carmen-Shannon/oxy-pulse/log"
)

var logger = log.New("visualizer")

// ResizeSource delivers viewport resize notifications. engine.Engine satisfies it.
type ResizeSource interface {
	OnResize(listener func(width, height int))
}

type visualizer struct {
	r     renderer.Renderer
	audio audio.Service

	manager      target.Manager
	scn          scene.Scene
	cam          camera.Camera
	depth        depth.Capture
	comp         composer.Composer
	driver       frame.Driver
	geo          Geometry
	sync         timeline.Synchronizer
	interactions interaction.Service
	bridge       interaction.Bridge

	resizeOnce sync.Once

	floatDepth bool
	seed       string
	palettes   []common.Palette
	schedule   func(Geometry) []*timeline.Track
	bridgeOpts []interaction.BridgeBuilderOption
}

// Visualizer is the assembled scene. Tick drives it once per frame.
type Visualizer interface {
	// Tick renders a frame, advances the audio service and fires due timeline cues.
	//
	// Parameters:
	//   - dt: the elapsed time since the previous tick in milliseconds
	//
	// Returns:
	//   - error: error if the frame could not be rendered; audio and cues still advance
	Tick(dt float64) error

	// Resize resizes every render target to the current viewport.
	Resize()

	// BindResize subscribes Resize to src. Only the first call subscribes.
	//
	// Parameters:
	//   - src: the resize notification source
	//
	// Returns:
	//   - bool: true if this call subscribed
	BindResize(src ResizeSource) bool

	// Interactions returns the pointer interaction service. The window feeds it.
	Interactions() interaction.Service

	// Bridge returns the first-interaction state machine.
	Bridge() interaction.Bridge

	// Geometry returns the mesh and palette controller.
	Geometry() Geometry

	// Composer returns the post-processing pipeline.
	Composer() composer.Composer

	// Depth returns the resolved depth stage.
	Depth() depth.Capture

	// Targets returns the render target manager.
	Targets() target.Manager

	// Driver returns the frame driver.
	Driver() frame.Driver

	// Close stops audio playback.
	//
	// Returns:
	//   - error: error if the audio service fails to stop
	Close() error
}

var _ Visualizer = &visualizer{}

// New assembles the visualizer: render targets, depth stage, post-processing pipeline, frame
// driver, geometry, timeline and interaction bridge. Audio decoding is queued immediately and
// playback starts once the service reports ready.
//
// Parameters:
//   - r: the rendering service
//   - a: the audio service; its playlist must pair by index with the schedule
//   - options: functional options for the visualizer
//
// Returns:
//   - Visualizer: the assembled visualizer
//   - error: error if a render target cannot be allocated or the pipeline cannot be built
func New(r renderer.Renderer, a audio.Service, options ...VisualizerBuilderOption) (Visualizer, error) {
	v := &visualizer{
		r:        r,
		audio:    a,
		seed:     DefaultSeed,
		palettes: Palettes,
		schedule: Schedule,
	}
	for _, opt := range options {
		opt(v)
	}

	v.manager = target.NewManager(r, r)
	rt1, err := v.manager.Create(target.WithLabel("rt1"))
	if err != nil {
		return nil, err
	}
	rt2, err := v.manager.Create(target.WithLabel("rt2"))
	if err != nil {
		return nil, err
	}
	initial, err := v.manager.Create(target.WithLabel("initial"))
	if err != nil {
		return nil, err
	}

	v.scn = scene.NewScene("pulse", scene.WithBackground(Background))
	v.cam = camera.NewCamera(
		camera.WithPosition(0, 1.5, 6),
		camera.WithTarget(0, 1, 0),
	)
	r.SetClearColor(Background)

	v.depth, err = depth.Resolve(r, v.manager, initial, v.scn, v.cam, depth.WithFloatDepth(v.floatDepth))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve depth stage: %w", err)
	}

	v.comp = composer.NewComposer(r, rt1, rt2, initial)
	if err := composer.Setup(v.comp, v.scn, v.cam, v.depth.Source()); err != nil {
		return nil, fmt.Errorf("failed to set up post-processing: %w", err)
	}
	v.driver = frame.NewDriver(r, v.scn, v.cam, v.comp, initial, frame.WithDepthCapture(v.depth))

	v.geo = NewGeometry(v.scn, NewRand(v.seed), v.palettes, v.driver.SetFocus)
	v.geo.SetPalette(InitialPalette)

	v.sync = timeline.NewSynchronizer(v.schedule(v.geo)...)

	a.Queue()
	a.OnReady(func() {
		if err := a.PlayQueued(); err != nil {
			logger.Errorf("failed to start playback: %v", err)
		}
	})

	v.interactions = interaction.NewService()
	v.bridge = interaction.NewBridge(v.interactions, v.geo, v.bridgeOpts...)
	v.bridge.Start()

	logger.Infof("visualizer ready (seed %q, %d passes)", v.seed, v.comp.Len())
	return v, nil
}

func (v *visualizer) Tick(dt float64) error {
	err := v.driver.Tick(dt)
	v.audio.Update(dt)
	v.sync.Sync(v.audio.CurrentTrackIndex(), v.audio.CurrentTime())
	return err
}

func (v *visualizer) Resize() {
	w, h := v.manager.Resize()
	logger.Debugf("targets resized to %dx%d", w, h)
}

func (v *visualizer) BindResize(src ResizeSource) bool {
	bound := false
	v.resizeOnce.Do(func() {
		src.OnResize(func(int, int) {
			v.Resize()
		})
		bound = true
	})
	if !bound {
		logger.Warning("resize already bound, ignoring")
	}
	return bound
}

func (v *visualizer) Interactions() interaction.Service {
	return v.interactions
}

func (v *visualizer) Bridge() interaction.Bridge {
	return v.bridge
}

func (v *visualizer) Geometry() Geometry {
	return v.geo
}

func (v *visualizer) Composer() composer.Composer {
	return v.comp
}

func (v *visualizer) Depth() depth.Capture {
	return v.depth
}

func (v *visualizer) Targets() target.Manager {
	return v.manager
}

func (v *visualizer) Driver() frame.Driver {
	return v.driver
}

func (v *visualizer) Close() error {
	return v.audio.Close()
}
