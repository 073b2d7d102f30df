// Package backend implements renderer.Renderer on WebGPU.
//
// Every Clear, Render and RenderProgram call records and submits its own command buffer, so passes
// reach the GPU in call order and a pass may read what the previous one wrote. The screen texture
// is acquired by the first draw to the screen in a frame and released by Present.
package backend

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/log"
	"github.com/cogentcore/webgpu/wgpu"
)

var logger = log.New("backend")

// errNoScreen is returned internally when the surface has no area, e.g. while minimized.
var errNoScreen = errors.New("surface has no area")

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank. Always supported.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately. May tear.
	PresentModeUncapped
)

// Surface is the window the backend presents to. window.Window satisfies it.
type Surface interface {
	// SurfaceDescriptor returns the platform surface descriptor.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Size returns the window size in logical pixels.
	Size() (width, height int)

	// FramebufferSize returns the drawable size in device pixels.
	FramebufferSize() (width, height int)

	// PixelRatio returns the ratio of device pixels to logical pixels.
	PixelRatio() float64
}

// Info describes the adapter and surface the backend runs on.
type Info struct {
	Adapter        string
	Vendor         string
	Driver         string
	AdapterType    string
	BackendType    string
	SurfaceFormat  string
	PresentModes   []string
	DepthTextures  bool
	FallbackForced bool
}

type backend struct {
	mu *sync.Mutex

	win      Surface
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	surfaceWidth  int
	surfaceHeight int
	screenDepth   *gpuTexture

	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	active renderer.Target
	clear  common.Color

	meshes   *meshRenderer
	programs map[string]*programPipeline

	presentMode          PresentMode
	forceFallbackAdapter bool
	depthTextures        bool
}

// Backend is a renderer.Renderer drawing to a window surface through WebGPU.
type Backend interface {
	renderer.Renderer

	// Info reports the adapter and surface capabilities.
	//
	// Returns:
	//   - Info: the capability summary
	Info() Info

	// Release frees every GPU resource owned by the backend.
	Release()
}

var _ Backend = &backend{}

// NewBackend creates the WebGPU instance, adapter, device and surface for the window.
// The calling goroutine is locked to its OS thread.
//
// Parameters:
//   - win: the window to present to
//   - options: functional options for the backend
//
// Returns:
//   - Backend: the newly created backend
//   - error: error if no adapter or device is available
func NewBackend(win Surface, options ...BackendBuilderOption) (Backend, error) {
	runtime.LockOSThread()
	b := &backend{
		mu:            &sync.Mutex{},
		win:           win,
		clear:         common.Black,
		programs:      make(map[string]*programPipeline),
		presentMode:   PresentModeUncapped,
		depthTextures: true,
	}
	for _, opt := range options {
		opt(b)
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(win.SurfaceDescriptor())

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "pulse device"})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	b.device = device
	b.queue = device.GetQueue()

	caps := b.surface.GetCapabilities(b.adapter)
	if len(caps.Formats) == 0 {
		b.Release()
		return nil, errors.New("surface reports no formats")
	}
	b.surfaceFormat = caps.Formats[0]
	b.meshes = newMeshRenderer(b)

	info := b.adapter.GetInfo()
	logger.Infof("adapter %s (%v, %v), surface format %v", info.Name, info.AdapterType, info.BackendType, b.surfaceFormat)
	return b, nil
}

// configureSurface (re)configures the swapchain at the framebuffer size.
// Must be called with mu held.
func (b *backend) configureSurface(width, height int) error {
	caps := b.surface.GetCapabilities(b.adapter)
	mode := wgpu.PresentModeFifo
	if b.presentMode == PresentModeUncapped {
		for _, m := range caps.PresentModes {
			if m == wgpu.PresentModeImmediate {
				mode = m
				break
			}
		}
	}
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: mode,
		AlphaMode:   caps.AlphaModes[0],
	})

	if b.screenDepth == nil {
		b.screenDepth = &gpuTexture{depth: true, format: wgpu.TextureFormatDepth32Float}
	}
	if err := b.createTexture(b.screenDepth, "screen depth", width, height, wgpu.TextureUsageRenderAttachment); err != nil {
		return err
	}
	b.surfaceWidth, b.surfaceHeight = width, height
	logger.Debugf("surface configured %dx%d", width, height)
	return nil
}

// acquireScreen returns the current swapchain view, reconfiguring the surface first when the
// framebuffer size changed. Must be called with mu held.
func (b *backend) acquireScreen() (*wgpu.TextureView, error) {
	if b.frameView != nil {
		return b.frameView, nil
	}
	width, height := b.win.FramebufferSize()
	if width <= 0 || height <= 0 {
		return nil, errNoScreen
	}
	if width != b.surfaceWidth || height != b.surfaceHeight {
		if err := b.configureSurface(width, height); err != nil {
			return nil, err
		}
	}

	texture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("failed to create surface view: %w", err)
	}
	b.frameSurface = texture
	b.frameView = view
	return view, nil
}

// submit finishes the encoder and submits it. The encoder is released either way.
func (b *backend) submit(encoder *wgpu.CommandEncoder) error {
	defer encoder.Release()
	commands, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish commands: %w", err)
	}
	defer commands.Release()
	b.queue.Submit(commands)
	return nil
}

func (b *backend) AllocateTarget(desc renderer.TargetDescriptor) (renderer.Target, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := &gpuTarget{b: b, desc: desc}
	if err := t.allocate(); err != nil {
		t.release()
		return nil, fmt.Errorf("failed to allocate target %q: %w", desc.Label, err)
	}
	return t, nil
}

func (b *backend) SetRenderTarget(t renderer.Target) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = t
}

func (b *backend) RenderTarget() renderer.Target {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

func (b *backend) SetClearColor(c common.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clear = c
}

func (b *backend) ClearColor() common.Color {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clear
}

func (b *backend) Clear(color, depth, stencil bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	dst, err := b.destination(b.active)
	if err != nil {
		if !errors.Is(err, errNoScreen) {
			logger.Errorf("clear: %v", err)
		}
		return
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		logger.Errorf("clear: %v", err)
		return
	}
	desc := dst.passDescriptor(b.clear, color, depth, stencil)
	pass := encoder.BeginRenderPass(desc)
	if err := pass.End(); err != nil {
		logger.Errorf("clear: %v", err)
	}
	pass.Release()
	if err := b.submit(encoder); err != nil {
		logger.Errorf("clear: %v", err)
	}
}

func (b *backend) SupportsDepthTexture() bool {
	return b.depthTextures
}

func (b *backend) Size() (width, height int) {
	return b.win.Size()
}

func (b *backend) PixelRatio() float64 {
	return b.win.PixelRatio()
}

func (b *backend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.frameView.Release()
	b.frameSurface.Release()
	b.frameView = nil
	b.frameSurface = nil
}

func (b *backend) Info() Info {
	info := b.adapter.GetInfo()
	caps := b.surface.GetCapabilities(b.adapter)
	out := Info{
		Adapter:        info.Name,
		Vendor:         info.VendorName,
		Driver:         info.DriverDescription,
		AdapterType:    fmt.Sprint(info.AdapterType),
		BackendType:    fmt.Sprint(info.BackendType),
		SurfaceFormat:  fmt.Sprint(b.surfaceFormat),
		DepthTextures:  b.depthTextures,
		FallbackForced: b.forceFallbackAdapter,
	}
	for _, m := range caps.PresentModes {
		out.PresentModes = append(out.PresentModes, fmt.Sprint(m))
	}
	return out
}

func (b *backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.programs {
		p.release()
	}
	b.programs = map[string]*programPipeline{}
	if b.meshes != nil {
		b.meshes.release()
	}
	if b.screenDepth != nil {
		b.screenDepth.release()
	}
	if b.frameView != nil {
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameView, b.frameSurface = nil, nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
