package composer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-pulse/engine/camera"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/scene"
	"github.com/Carmen-Shannon/oxy-pulse/log"
)

var logger = log.New("composer")

var (
	// ErrNilPass is returned when AddPass is given a nil pass.
	ErrNilPass = errors.New("composer: nil pass")

	// ErrSealed is returned when a pass is appended after the terminal pass.
	ErrSealed = errors.New("composer: pipeline already ends in a terminal pass")

	// ErrEmpty is returned when SetTerminal or Render runs on a pipeline without passes.
	ErrEmpty = errors.New("composer: pipeline has no passes")

	// ErrNoTerminal is returned when Render runs before a terminal pass was marked.
	ErrNoTerminal = errors.New("composer: pipeline has no terminal pass")

	// ErrTerminalNotLast is returned when Render finds a terminal pass ahead of the last pass.
	ErrTerminalNotLast = errors.New("composer: terminal pass is not the last pass")
)

type composer struct {
	r       renderer.Renderer
	initial renderer.Target
	buffers [2]renderer.Target
	passes  []Pass
}

// Composer runs an ordered, append-only pipeline of passes once per frame.
//
// The scene pass draws into the initial target. Every pass that needs a swap reads the previous
// output and writes into one of two ping-pong buffers. The terminal pass, always the last one,
// writes to the screen.
type Composer interface {
	// AddPass appends a pass to the pipeline.
	//
	// Parameters:
	//   - p: the pass to append
	//
	// Returns:
	//   - error: ErrNilPass, or ErrSealed if the pipeline already ends in a terminal pass
	AddPass(p Pass) error

	// SetTerminal marks the last pass as the one writing to the screen.
	//
	// Returns:
	//   - error: ErrEmpty if there are no passes
	SetTerminal() error

	// Passes returns the pipeline in order.
	//
	// Returns:
	//   - []Pass: a copy of the pass list
	Passes() []Pass

	// Len returns the number of passes.
	Len() int

	// UpdateResolution writes the given size into every pass exposing a "resolution" uniform.
	// Must run every frame since targets can be resized between frames.
	//
	// Parameters:
	//   - width: the width in device pixels
	//   - height: the height in device pixels
	UpdateResolution(width, height int)

	// Render runs every pass in order.
	//
	// Returns:
	//   - error: error if the pipeline is incomplete or a pass fails
	Render() error
}

var _ Composer = &composer{}

// NewComposer creates an empty Composer.
//
// Parameters:
//   - r: the rendering service
//   - rt1: the first ping-pong buffer
//   - rt2: the second ping-pong buffer
//   - initial: the target the scene pass draws into
//
// Returns:
//   - Composer: the newly created composer
func NewComposer(r renderer.Renderer, rt1, rt2, initial renderer.Target) Composer {
	return &composer{
		r:       r,
		initial: initial,
		buffers: [2]renderer.Target{rt1, rt2},
	}
}

func (c *composer) AddPass(p Pass) error {
	if p == nil {
		return ErrNilPass
	}
	if n := len(c.passes); n > 0 && c.passes[n-1].Terminal() {
		return fmt.Errorf("cannot add pass %q: %w", p.Name(), ErrSealed)
	}
	c.passes = append(c.passes, p)
	return nil
}

func (c *composer) SetTerminal() error {
	if len(c.passes) == 0 {
		return ErrEmpty
	}
	c.passes[len(c.passes)-1].SetTerminal(true)
	return nil
}

func (c *composer) Passes() []Pass {
	out := make([]Pass, len(c.passes))
	copy(out, c.passes)
	return out
}

func (c *composer) Len() int {
	return len(c.passes)
}

func (c *composer) UpdateResolution(width, height int) {
	for _, p := range c.passes {
		u := p.Uniforms()
		if u == nil {
			continue
		}
		if res, ok := u["resolution"]; ok {
			res.Value = [2]float32{float32(width), float32(height)}
		}
	}
}

func (c *composer) Render() error {
	if len(c.passes) == 0 {
		return ErrEmpty
	}
	if !c.passes[len(c.passes)-1].Terminal() {
		return ErrNoTerminal
	}
	for _, p := range c.passes[:len(c.passes)-1] {
		if p.Terminal() {
			return fmt.Errorf("%w: %s", ErrTerminalNotLast, p.Name())
		}
	}

	read, write, next := c.initial, c.buffers[0], 1
	for _, p := range c.passes {
		dst := write
		if p.Terminal() {
			dst = nil
		}
		if err := p.Render(c.r, read, dst); err != nil {
			return fmt.Errorf("pass %q failed: %w", p.Name(), err)
		}
		if p.NeedsSwap() && dst != nil {
			read, write = write, c.buffers[next]
			next = 1 - next
		}
	}
	return nil
}

// Setup appends the fixed pipeline: the scene pass, ambient occlusion when a depth source
// exists, and the bloom pass marked terminal.
//
// Parameters:
//   - c: an empty composer
//   - scn: the scene to draw
//   - cam: the camera whose planes feed the ambient occlusion pass
//   - depthSource: the depth texture for ambient occlusion, or nil to skip it
//
// Returns:
//   - error: error if the composer rejects a pass
func Setup(c Composer, scn scene.Scene, cam camera.Camera, depthSource renderer.Texture) error {
	if err := c.AddPass(NewRenderPass(scn, cam)); err != nil {
		return err
	}
	if depthSource != nil {
		if err := c.AddPass(NewSSAOPass(depthSource, cam.Near(), cam.Far())); err != nil {
			return err
		}
	} else {
		logger.Info("no depth source, skipping ambient occlusion")
	}
	if err := c.AddPass(NewBloomPass()); err != nil {
		return err
	}
	if err := c.SetTerminal(); err != nil {
		return err
	}

	names := make([]string, 0, c.Len())
	for _, p := range c.Passes() {
		names = append(names, p.Name())
	}
	logger.Debugf("pipeline: %v", names)
	return nil
}
