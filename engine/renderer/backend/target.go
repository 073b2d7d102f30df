package backend

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// gpuTexture is updated in place on resize, so passes holding it keep reading the live texture.
type gpuTexture struct {
	width, height int
	depth         bool
	format        wgpu.TextureFormat
	texture       *wgpu.Texture
	view          *wgpu.TextureView
}

var _ renderer.Texture = &gpuTexture{}

func (t *gpuTexture) Width() int {
	return t.width
}

func (t *gpuTexture) Height() int {
	return t.height
}

func (t *gpuTexture) IsDepth() bool {
	return t.depth
}

func (t *gpuTexture) release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// createTexture (re)creates the GPU texture behind t at the given size.
func (b *backend) createTexture(t *gpuTexture, label string, width, height int, usage wgpu.TextureUsage) error {
	t.release()
	texture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(max(width, 1)),
			Height:             uint32(max(height, 1)),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        t.format,
		Usage:         usage,
	})
	if err != nil {
		return fmt.Errorf("failed to create texture %q: %w", label, err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return fmt.Errorf("failed to create view of %q: %w", label, err)
	}
	t.texture, t.view = texture, view
	t.width, t.height = width, height
	return nil
}

// colorFormat maps a target format to the GPU format. WebGPU has no packed RGB format.
func colorFormat(f renderer.TextureFormat) wgpu.TextureFormat {
	if f == renderer.FormatRGBAFloat {
		return wgpu.TextureFormatRGBA32Float
	}
	return wgpu.TextureFormatRGBA8Unorm
}

// depthFormat picks Depth32Float, the only format readable through texture_depth_2d without a
// depth-only view, unless a stencil buffer is requested.
func depthFormat(desc renderer.TargetDescriptor) wgpu.TextureFormat {
	if desc.StencilBuffer {
		return wgpu.TextureFormatDepth24PlusStencil8
	}
	return wgpu.TextureFormatDepth32Float
}

type gpuTarget struct {
	b    *backend
	desc renderer.TargetDescriptor

	color         *gpuTexture
	aux           []*gpuTexture
	depth         *gpuTexture
	depthReadable bool
}

var _ renderer.Target = &gpuTarget{}

// allocate creates every texture of the target at desc's size. Must be called with b.mu held.
// Filters and mipmaps are not applied: programs read pixels with textureLoad.
func (t *gpuTarget) allocate() error {
	colorUsage := wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding
	w, h := t.desc.Width, t.desc.Height

	if t.color == nil {
		t.color = &gpuTexture{format: colorFormat(t.desc.Format)}
	}
	if err := t.b.createTexture(t.color, t.desc.Label, w, h, colorUsage); err != nil {
		return err
	}

	for i, a := range t.desc.Attachments {
		if i >= len(t.aux) {
			t.aux = append(t.aux, &gpuTexture{format: colorFormat(a.Format)})
		}
		if err := t.b.createTexture(t.aux[i], fmt.Sprintf("%s attachment %d", t.desc.Label, i+1), w, h, colorUsage); err != nil {
			return err
		}
	}

	if t.desc.DepthBuffer {
		usage := wgpu.TextureUsageRenderAttachment
		if t.b.depthTextures {
			usage |= wgpu.TextureUsageTextureBinding
		}
		if t.depth == nil {
			t.depth = &gpuTexture{depth: true, format: depthFormat(t.desc)}
		}
		if err := t.b.createTexture(t.depth, t.desc.Label+" depth", w, h, usage); err != nil {
			return err
		}
	}
	return nil
}

func (t *gpuTarget) release() {
	for _, tex := range append([]*gpuTexture{t.color, t.depth}, t.aux...) {
		if tex != nil {
			tex.release()
		}
	}
}

func (t *gpuTarget) Width() int {
	return t.desc.Width
}

func (t *gpuTarget) Height() int {
	return t.desc.Height
}

func (t *gpuTarget) Descriptor() renderer.TargetDescriptor {
	return t.desc
}

func (t *gpuTarget) SetSize(width, height int) {
	t.b.mu.Lock()
	defer t.b.mu.Unlock()

	if width == t.desc.Width && height == t.desc.Height {
		return
	}
	t.desc.Width, t.desc.Height = width, height
	if err := t.allocate(); err != nil {
		logger.Errorf("failed to resize target %q: %v", t.desc.Label, err)
	}
}

func (t *gpuTarget) Texture() renderer.Texture {
	return t.color
}

func (t *gpuTarget) Attachments() []renderer.Texture {
	if len(t.aux) == 0 {
		return nil
	}
	out := make([]renderer.Texture, len(t.aux))
	for i, a := range t.aux {
		out[i] = a
	}
	return out
}

func (t *gpuTarget) EnableDepthTexture() {
	if t.depth == nil || !t.b.depthTextures || t.depth.format != wgpu.TextureFormatDepth32Float {
		logger.Warningf("target %q has no readable depth buffer", t.desc.Label)
		return
	}
	t.depthReadable = true
}

func (t *gpuTarget) DepthTexture() renderer.Texture {
	if !t.depthReadable {
		return nil
	}
	return t.depth
}

// destination is the set of attachments one pass draws into.
type destination struct {
	colors      []*wgpu.TextureView
	formats     []wgpu.TextureFormat
	depth       *wgpu.TextureView
	depthFormat wgpu.TextureFormat
	stencil     bool
}

// destination resolves t, or the screen when t is nil. Must be called with mu held.
func (b *backend) destination(t renderer.Target) (destination, error) {
	if t == nil {
		view, err := b.acquireScreen()
		if err != nil {
			return destination{}, err
		}
		return destination{
			colors:      []*wgpu.TextureView{view},
			formats:     []wgpu.TextureFormat{b.surfaceFormat},
			depth:       b.screenDepth.view,
			depthFormat: b.screenDepth.format,
		}, nil
	}

	gt, ok := t.(*gpuTarget)
	if !ok {
		return destination{}, fmt.Errorf("target %T was not allocated by this backend", t)
	}
	d := destination{
		colors:  []*wgpu.TextureView{gt.color.view},
		formats: []wgpu.TextureFormat{gt.color.format},
	}
	for _, a := range gt.aux {
		d.colors = append(d.colors, a.view)
		d.formats = append(d.formats, a.format)
	}
	if gt.depth != nil {
		d.depth = gt.depth.view
		d.depthFormat = gt.depth.format
		d.stencil = gt.desc.StencilBuffer
	}
	return d, nil
}

// primary drops auxiliary and depth attachments.
func (d destination) primary() destination {
	return destination{colors: d.colors[:1], formats: d.formats[:1]}
}

// key identifies the attachment layout for pipeline caching.
func (d destination) key() string {
	return fmt.Sprintf("%v|%v", d.formats, d.depthFormat)
}

func clearValue(c common.Color) wgpu.Color {
	return wgpu.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}

// passDescriptor builds a render pass over d. Auxiliary attachments are cleared to zero with the
// primary color.
func (d destination) passDescriptor(c common.Color, color, depth, stencil bool) *wgpu.RenderPassDescriptor {
	load := func(clear bool) wgpu.LoadOp {
		if clear {
			return wgpu.LoadOpClear
		}
		return wgpu.LoadOpLoad
	}

	desc := &wgpu.RenderPassDescriptor{}
	for i, view := range d.colors {
		value := wgpu.Color{}
		if i == 0 {
			value = clearValue(c)
		}
		desc.ColorAttachments = append(desc.ColorAttachments, wgpu.RenderPassColorAttachment{
			View:       view,
			LoadOp:     load(color),
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: value,
		})
	}
	if d.depth != nil {
		att := &wgpu.RenderPassDepthStencilAttachment{
			View:            d.depth,
			DepthLoadOp:     load(depth),
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		}
		if d.stencil {
			att.StencilLoadOp = load(stencil)
			att.StencilStoreOp = wgpu.StoreOpStore
		}
		desc.DepthStencilAttachment = att
	}
	return desc
}
