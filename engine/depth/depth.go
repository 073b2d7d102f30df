package depth

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/camera"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/scene"
	"github.com/Carmen-Shannon/oxy-pulse/engine/target"
	"github.com/Carmen-Shannon/oxy-pulse/log"
)

var logger = log.New("depth")

// ClearColor is the color the float depth target is cleared to before capture.
// Basic depth packing never produces pure white for geometry in front of the far plane.
var ClearColor = common.White

type capture struct {
	r      renderer.Renderer
	scn    scene.Scene
	cam    camera.Camera
	target renderer.Target
	source renderer.Texture

	floatDepth bool
	supported  bool
}

// Capture produces the depth buffer consumed by depth-dependent post-processing passes.
//
// Depth comes from one of two places: a dedicated floating-point target the scene is
// re-rendered into with a depth-encoding material (float capture), or the native depth
// texture of the initial scene target. When neither is possible the stage reports itself
// unavailable and those passes are skipped.
type Capture interface {
	// Available reports whether a depth source exists for later passes.
	Available() bool

	// FloatDepth reports whether float depth capture runs each frame.
	FloatDepth() bool

	// Supported reports the result of the depth texture capability probe.
	Supported() bool

	// Source returns the depth texture later passes should read, or nil when unavailable.
	//
	// Returns:
	//   - renderer.Texture: the depth source
	Source() renderer.Texture

	// Target returns the float capture target, or nil when float capture is disabled.
	//
	// Returns:
	//   - renderer.Target: the capture target
	Target() renderer.Target

	// Capture renders the scene with the depth material into the capture target.
	// A no-op when float capture is disabled. The material override is removed before
	// returning, even when the render fails.
	//
	// Returns:
	//   - error: error if the scene render fails
	Capture() error
}

var _ Capture = &capture{}

// Resolve probes depth texture support once and sets up the depth source.
// A missing capability is logged a single time here and is not an error.
//
// Parameters:
//   - r: the rendering service
//   - m: the target manager; the float capture target is created through it so resizes reach it
//   - initial: the target the scene pass renders into; its depth texture is enabled when used
//   - scn: the scene re-rendered during float capture
//   - cam: the camera used during float capture
//   - options: functional options for the stage
//
// Returns:
//   - Capture: the resolved depth stage
//   - error: error if the float capture target cannot be allocated
func Resolve(r renderer.Renderer, m target.Manager, initial renderer.Target, scn scene.Scene, cam camera.Camera, options ...CaptureBuilderOption) (Capture, error) {
	c := &capture{
		r:   r,
		scn: scn,
		cam: cam,
	}
	for _, opt := range options {
		opt(c)
	}

	c.supported = r.SupportsDepthTexture()
	if !c.supported {
		logger.Warning("renderer lacks depth texture support; depth-dependent post-processing is limited")
	}

	switch {
	case c.floatDepth:
		t, err := m.Create(target.WithLabel("depth capture"), target.WithFormat(renderer.FormatRGBAFloat))
		if err != nil {
			return nil, fmt.Errorf("failed to create depth capture target: %w", err)
		}
		c.target = t
		c.source = t.Texture()
	case c.supported:
		initial.EnableDepthTexture()
		c.source = initial.DepthTexture()
	}

	return c, nil
}

func (c *capture) Available() bool {
	return c.source != nil
}

func (c *capture) FloatDepth() bool {
	return c.floatDepth
}

func (c *capture) Supported() bool {
	return c.supported
}

func (c *capture) Source() renderer.Texture {
	return c.source
}

func (c *capture) Target() renderer.Target {
	return c.target
}

func (c *capture) Capture() error {
	if !c.floatDepth {
		return nil
	}

	c.scn.SetOverrideMaterial(scene.MaterialDepth)
	defer c.scn.SetOverrideMaterial(scene.MaterialNone)

	c.r.SetRenderTarget(c.target)
	c.r.SetClearColor(ClearColor)
	c.r.Clear(true, true, true)
	if err := c.r.Render(c.scn, c.cam, c.target); err != nil {
		return fmt.Errorf("depth capture: %w", err)
	}
	return nil
}
