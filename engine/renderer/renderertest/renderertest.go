// Package renderertest provides a recording renderer.Renderer for tests that must not touch a GPU.
package renderertest

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/camera"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/scene"
)

// ErrAllocate is returned by AllocateTarget when FailAllocate is set.
var ErrAllocate = errors.New("renderertest: allocation refused")

// Texture is a recorded texture.
type Texture struct {
	W, H  int
	Depth bool
	Owner *Target
}

func (t *Texture) Width() int { return t.W }
func (t *Texture) Height() int { return t.H }
func (t *Texture) IsDepth() bool { return t.Depth }

// Target is a recorded render target.
type Target struct {
	Desc         renderer.TargetDescriptor
	Color        *Texture
	Aux          []*Texture
	Depth        *Texture
	Reallocation int
}

func (t *Target) Width() int { return t.Desc.Width }
func (t *Target) Height() int { return t.Desc.Height }
func (t *Target) Descriptor() renderer.TargetDescriptor { return t.Desc }
func (t *Target) Texture() renderer.Texture { return t.Color }
func (t *Target) DepthTexture() renderer.Texture {
	if t.Depth == nil {
		return nil
	}
	return t.Depth
}

func (t *Target) Attachments() []renderer.Texture {
	if len(t.Aux) == 0 {
		return nil
	}
	out := make([]renderer.Texture, len(t.Aux))
	for i, a := range t.Aux {
		out[i] = a
	}
	return out
}

func (t *Target) SetSize(width, height int) {
	if width == t.Desc.Width && height == t.Desc.Height {
		return
	}
	t.Desc.Width, t.Desc.Height = width, height
	t.Color.W, t.Color.H = width, height
	for _, a := range t.Aux {
		a.W, a.H = width, height
	}
	if t.Depth != nil {
		t.Depth.W, t.Depth.H = width, height
	}
	t.Reallocation++
}

func (t *Target) EnableDepthTexture() {
	if t.Depth == nil {
		t.Depth = &Texture{W: t.Desc.Width, H: t.Desc.Height, Depth: true, Owner: t}
	}
}

// RenderCall records one Render invocation.
type RenderCall struct {
	Target   renderer.Target
	Override scene.Material
	Clear    common.Color
}

// ProgramCall records one RenderProgram invocation.
type ProgramCall struct {
	Program  string
	Target   renderer.Target
	Textures map[string]renderer.Texture
	Floats   map[string]float32
	Vec2s    map[string][2]float32
}

// Renderer records every call made against it.
type Renderer struct {
	W, H         int
	DPR          float64
	DepthSupport bool
	FailAllocate bool

	Allocated []*Target
	Renders   []RenderCall
	Programs  []ProgramCall
	Clears    []common.Color
	Presents  int

	// Calls is the ordered log of method names, for sequencing assertions.
	Calls []string

	active renderer.Target
	clear  common.Color
}

var _ renderer.Renderer = &Renderer{}

// New creates a recording renderer with the given logical size and pixel ratio.
func New(width, height int, dpr float64) *Renderer {
	return &Renderer{W: width, H: height, DPR: dpr, DepthSupport: true, clear: common.Black}
}

func (r *Renderer) AllocateTarget(desc renderer.TargetDescriptor) (renderer.Target, error) {
	r.Calls = append(r.Calls, "AllocateTarget")
	if r.FailAllocate {
		return nil, ErrAllocate
	}
	t := &Target{Desc: desc}
	t.Color = &Texture{W: desc.Width, H: desc.Height, Owner: t}
	for range desc.Attachments {
		t.Aux = append(t.Aux, &Texture{W: desc.Width, H: desc.Height, Owner: t})
	}
	r.Allocated = append(r.Allocated, t)
	return t, nil
}

func (r *Renderer) SetRenderTarget(t renderer.Target) {
	r.Calls = append(r.Calls, "SetRenderTarget")
	r.active = t
}

func (r *Renderer) RenderTarget() renderer.Target { return r.active }

func (r *Renderer) SetClearColor(c common.Color) {
	r.Calls = append(r.Calls, "SetClearColor")
	r.clear = c
}

func (r *Renderer) ClearColor() common.Color { return r.clear }

func (r *Renderer) Clear(color, depth, stencil bool) {
	r.Calls = append(r.Calls, "Clear")
	r.Clears = append(r.Clears, r.clear)
}

func (r *Renderer) Render(s scene.Scene, c camera.Camera, t renderer.Target) error {
	r.Calls = append(r.Calls, "Render")
	r.Renders = append(r.Renders, RenderCall{Target: t, Override: s.OverrideMaterial(), Clear: r.clear})
	return nil
}

func (r *Renderer) RenderProgram(p *renderer.Program, u renderer.Uniforms, t renderer.Target) error {
	r.Calls = append(r.Calls, "RenderProgram")
	call := ProgramCall{
		Program:  p.Name,
		Target:   t,
		Textures: map[string]renderer.Texture{},
		Floats:   map[string]float32{},
		Vec2s:    map[string][2]float32{},
	}
	for _, name := range p.Textures {
		call.Textures[name] = u.Texture(name)
	}
	for _, name := range p.Params {
		if p.Vec2Params[name] {
			call.Vec2s[name] = u.Vec2(name)
		} else {
			call.Floats[name] = u.Float(name)
		}
	}
	r.Programs = append(r.Programs, call)
	return nil
}

func (r *Renderer) SupportsDepthTexture() bool { return r.DepthSupport }

func (r *Renderer) Size() (width, height int) { return r.W, r.H }

func (r *Renderer) PixelRatio() float64 { return r.DPR }

func (r *Renderer) Present() {
	r.Calls = append(r.Calls, "Present")
	r.Presents++
}

// Count returns how many times the named method was called.
func (r *Renderer) Count(method string) int {
	n := 0
	for _, c := range r.Calls {
		if c == method {
			n++
		}
	}
	return n
}
