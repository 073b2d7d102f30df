package frame

import (
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-pulse/engine/camera"
	"github.com/Carmen-Shannon/oxy-pulse/engine/composer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/depth"
	"github.com/Carmen-Shannon/oxy-pulse/engine/game_object"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/scene"
)

// MaxStep is the largest animation step in milliseconds a single tick may apply.
const MaxStep = 30.0

type driver struct {
	mu *sync.Mutex

	r       renderer.Renderer
	scn     scene.Scene
	cam     camera.Camera
	comp    composer.Composer
	depth   depth.Capture
	initial renderer.Target

	time  float64
	focus game_object.GameObject
}

// Driver advances animation state and renders one frame per tick.
type Driver interface {
	// Tick advances the animation clock and renders a frame.
	//
	// Parameters:
	//   - dt: the elapsed time since the previous tick in milliseconds
	//
	// Returns:
	//   - error: error if depth capture or the render fails; the next tick starts clean
	Tick(dt float64) error

	// Time returns the animation clock in seconds.
	Time() float64

	// Focus returns the focal object, or nil when none is set.
	Focus() game_object.GameObject

	// SetFocus sets the object that bobs and spins with the animation clock.
	//
	// Parameters:
	//   - obj: the focal object, or nil to clear it
	SetFocus(obj game_object.GameObject)
}

var _ Driver = &driver{}

// NewDriver creates a new frame Driver.
//
// Parameters:
//   - r: the rendering service
//   - scn: the scene
//   - cam: the camera
//   - comp: the post-processing pipeline
//   - initial: the target the scene pass draws into; its size feeds the resolution uniforms
//   - options: functional options for the driver
//
// Returns:
//   - Driver: the newly created driver
func NewDriver(r renderer.Renderer, scn scene.Scene, cam camera.Camera, comp composer.Composer, initial renderer.Target, options ...DriverBuilderOption) Driver {
	d := &driver{
		mu:      &sync.Mutex{},
		r:       r,
		scn:     scn,
		cam:     cam,
		comp:    comp,
		initial: initial,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *driver) Tick(dt float64) error {
	d.mu.Lock()
	d.time += math.Min(MaxStep, dt) / 1000
	if d.focus != nil {
		x, _, z := d.focus.Position()
		d.focus.SetPosition(x, float32(math.Sin(d.time)*0.25+1), z)
		rx, ry, rz := d.focus.Rotation()
		d.focus.SetRotation(rx, ry+float32(dt*0.00005), rz)
	}
	d.mu.Unlock()

	d.cam.UpdateProjection(d.r.Size())

	oldClear := d.r.ClearColor()
	if d.depth != nil {
		if err := d.depth.Capture(); err != nil {
			return fmt.Errorf("frame: %w", err)
		}
	}

	d.comp.UpdateResolution(d.initial.Width(), d.initial.Height())

	d.r.SetRenderTarget(nil)
	d.r.SetClearColor(oldClear)
	d.scn.SetOverrideMaterial(scene.MaterialNone)

	if d.comp.Len() > 1 {
		if err := d.comp.Render(); err != nil {
			return fmt.Errorf("frame: %w", err)
		}
	} else if err := d.r.Render(d.scn, d.cam, nil); err != nil {
		return fmt.Errorf("frame: %w", err)
	}

	d.r.Present()
	return nil
}

func (d *driver) Time() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.time
}

func (d *driver) Focus() game_object.GameObject {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focus
}

func (d *driver) SetFocus(obj game_object.GameObject) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.focus = obj
}
