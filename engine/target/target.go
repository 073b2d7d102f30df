package target

import (
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/log"
)

var logger = log.New("target")

// Allocator creates render targets. renderer.Renderer satisfies it.
type Allocator interface {
	AllocateTarget(desc renderer.TargetDescriptor) (renderer.Target, error)
}

// Viewport reports the output size. renderer.Renderer satisfies it.
type Viewport interface {
	// Size returns the output size in logical pixels.
	Size() (width, height int)

	// PixelRatio returns the ratio of device pixels to logical pixels.
	PixelRatio() float64
}

type manager struct {
	mu *sync.Mutex

	allocator Allocator
	viewport  Viewport
	targets   []renderer.Target
}

// Manager owns the off-screen targets of the post-processing pipeline and keeps them
// sized to the viewport in device pixels.
type Manager interface {
	// Create allocates a target sized to the current viewport in device pixels and tracks it.
	// Targets use a fixed layout: no mipmaps, nearest filtering, depth buffer on, stencil off.
	//
	// Parameters:
	//   - options: functional options for the target
	//
	// Returns:
	//   - renderer.Target: the allocated target
	//   - error: error if the allocator fails
	Create(options ...TargetBuilderOption) (renderer.Target, error)

	// Track adds an externally allocated target so that Resize keeps it in sync.
	// Nil targets and targets already tracked are ignored.
	//
	// Parameters:
	//   - t: the target to track
	Track(t renderer.Target)

	// Targets returns the tracked targets in creation order.
	//
	// Returns:
	//   - []renderer.Target: the tracked targets
	Targets() []renderer.Target

	// PixelSize returns the current viewport size multiplied by the pixel ratio.
	//
	// Returns:
	//   - width, height: the size in device pixels
	PixelSize() (width, height int)

	// Resize recomputes the viewport size in device pixels and applies it to every tracked target.
	// Must run on every viewport change. Re-applying the same size leaves targets unchanged.
	//
	// Returns:
	//   - width, height: the applied size in device pixels
	Resize() (width, height int)
}

var _ Manager = &manager{}

// NewManager creates a new Manager.
//
// Parameters:
//   - allocator: the service that allocates GPU targets
//   - viewport: the source of the output size and pixel ratio
//
// Returns:
//   - Manager: the newly created manager
func NewManager(allocator Allocator, viewport Viewport) Manager {
	return &manager{
		mu:        &sync.Mutex{},
		allocator: allocator,
		viewport:  viewport,
	}
}

func (m *manager) Create(options ...TargetBuilderOption) (renderer.Target, error) {
	width, height := m.PixelSize()

	desc := renderer.TargetDescriptor{
		Width:           width,
		Height:          height,
		Format:          renderer.FormatRGB,
		MinFilter:       renderer.FilterNearest,
		MagFilter:       renderer.FilterNearest,
		GenerateMipmaps: false,
		DepthBuffer:     true,
		StencilBuffer:   false,
	}
	b := &targetBuilder{desc: desc}
	for _, opt := range options {
		opt(b)
	}
	if b.attachments > 1 {
		// The primary texture counts as the first attachment.
		for i := 1; i < b.attachments; i++ {
			b.desc.Attachments = append(b.desc.Attachments, renderer.AttachmentDescriptor{
				Format: renderer.FormatRGBAFloat,
			})
		}
	}

	t, err := m.allocator.AllocateTarget(b.desc)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate render target %q: %w", b.desc.Label, err)
	}
	m.Track(t)
	logger.Debugf("allocated target %q %dx%d", b.desc.Label, width, height)
	return t, nil
}

func (m *manager) Track(t renderer.Target) {
	if t == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.targets {
		if existing == t {
			return
		}
	}
	m.targets = append(m.targets, t)
}

func (m *manager) Targets() []renderer.Target {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]renderer.Target, len(m.targets))
	copy(out, m.targets)
	return out
}

func (m *manager) PixelSize() (width, height int) {
	w, h := m.viewport.Size()
	dpr := m.viewport.PixelRatio()
	if dpr <= 0 {
		dpr = 1
	}
	return int(math.Round(float64(w) * dpr)), int(math.Round(float64(h) * dpr))
}

func (m *manager) Resize() (width, height int) {
	width, height = m.PixelSize()
	targets := m.Targets()
	for _, t := range targets {
		t.SetSize(width, height)
	}
	logger.Debugf("resized %d targets to %dx%d", len(targets), width, height)
	return width, height
}
