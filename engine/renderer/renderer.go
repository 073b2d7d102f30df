package renderer

import (
	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/camera"
	"github.com/Carmen-Shannon/oxy-pulse/engine/scene"
)

// TextureFormat is the pixel format of a render target's color texture.
type TextureFormat int

const (
	// FormatRGB is an 8-bit per channel color format. Backends without a packed RGB format store it as RGBA.
	FormatRGB TextureFormat = iota

	// FormatRGBA is an 8-bit per channel color format with alpha.
	FormatRGBA

	// FormatRGBAFloat is a floating-point color format, used for depth capture and auxiliary G-buffers.
	FormatRGBAFloat
)

// FilterMode controls how a texture is sampled when magnified or minified.
type FilterMode int

const (
	// FilterNearest selects the closest texel.
	FilterNearest FilterMode = iota

	// FilterLinear blends neighboring texels.
	FilterLinear
)

// AttachmentDescriptor describes an auxiliary color attachment on a multi-attachment target.
type AttachmentDescriptor struct {
	// Format is the pixel format of the attachment.
	Format TextureFormat
}

// TargetDescriptor holds the allocation parameters of a render target.
type TargetDescriptor struct {
	// Label identifies the target in GPU debug tooling and logs.
	Label string

	// Width and Height are the target dimensions in device pixels.
	Width, Height int

	// Format is the pixel format of the primary color texture.
	Format TextureFormat

	// MinFilter and MagFilter are the sampling filters of the color texture.
	MinFilter, MagFilter FilterMode

	// GenerateMipmaps requests a full mip chain for the color texture.
	GenerateMipmaps bool

	// DepthBuffer attaches a depth buffer used for depth testing while rendering into the target.
	DepthBuffer bool

	// StencilBuffer attaches a stencil buffer.
	StencilBuffer bool

	// Attachments lists auxiliary color attachments (e.g. a normal/roughness buffer).
	Attachments []AttachmentDescriptor
}

// Texture is a GPU image that passes can read from.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int

	// IsDepth reports whether the texture holds native depth values rather than color.
	IsDepth() bool
}

// Target is an off-screen buffer the renderer can draw into instead of the screen.
type Target interface {
	// Width returns the target width in device pixels.
	Width() int

	// Height returns the target height in device pixels.
	Height() int

	// Descriptor returns the allocation parameters, including the current size.
	Descriptor() TargetDescriptor

	// SetSize reallocates the target's textures at the new dimensions.
	// Calling it with the current size is a no-op.
	//
	// Parameters:
	//   - width: the new width in device pixels
	//   - height: the new height in device pixels
	SetSize(width, height int)

	// Texture returns the primary color texture.
	//
	// Returns:
	//   - Texture: the color texture
	Texture() Texture

	// Attachments returns the auxiliary color textures, in descriptor order.
	//
	// Returns:
	//   - []Texture: the auxiliary textures, or nil when the target has none
	Attachments() []Texture

	// EnableDepthTexture makes the target's depth buffer readable by later passes.
	// Only meaningful when the renderer reports depth texture support.
	EnableDepthTexture()

	// DepthTexture returns the readable depth texture, or nil if EnableDepthTexture was never called.
	//
	// Returns:
	//   - Texture: the depth texture or nil
	DepthTexture() Texture
}

// Uniform is a single named value bound to a full-screen program.
// Supported value types are float32, [2]float32 and Texture.
type Uniform struct {
	Value any
}

// Uniforms is the set of named uniform bindings of a program.
type Uniforms map[string]*Uniform

// Float returns the named float32 uniform, or 0 when it is missing or of another type.
//
// Parameters:
//   - name: the uniform name
//
// Returns:
//   - float32: the uniform value
func (u Uniforms) Float(name string) float32 {
	if v, ok := u[name]; ok {
		if f, ok := v.Value.(float32); ok {
			return f
		}
	}
	return 0
}

// Vec2 returns the named [2]float32 uniform, or the zero vector when it is missing or of another type.
//
// Parameters:
//   - name: the uniform name
//
// Returns:
//   - [2]float32: the uniform value
func (u Uniforms) Vec2(name string) [2]float32 {
	if v, ok := u[name]; ok {
		if f, ok := v.Value.([2]float32); ok {
			return f
		}
	}
	return [2]float32{}
}

// Texture returns the named texture uniform, or nil when it is missing or unset.
//
// Parameters:
//   - name: the uniform name
//
// Returns:
//   - Texture: the bound texture or nil
func (u Uniforms) Texture(name string) Texture {
	if v, ok := u[name]; ok {
		if t, ok := v.Value.(Texture); ok {
			return t
		}
	}
	return nil
}

// Program is a full-screen fragment program run by shader passes.
//
// The program source is WGSL and may use include directives. It must declare a fragment entry
// point taking the fragment position, a `Params` uniform struct at @group(0) @binding(0) with one
// member per entry of Params, and one texture per entry of Textures at bindings 1..n. Backends
// place each param at the member offset of the same name; Vec2Params marks the two-component ones.
type Program struct {
	// Name uniquely identifies the program; backends cache compiled pipelines by it.
	Name string

	// Source is the WGSL fragment source.
	Source string

	// Params lists the packed uniform fields in declaration order.
	Params []string

	// Vec2Params marks which entries of Params are two-component vectors.
	Vec2Params map[string]bool

	// Textures lists the texture uniforms in binding order.
	Textures []string
}

// Renderer is the rendering service the pipeline core is written against.
// All methods are called from the single frame goroutine.
type Renderer interface {
	// AllocateTarget creates a new off-screen target.
	//
	// Parameters:
	//   - desc: the target allocation parameters
	//
	// Returns:
	//   - Target: the allocated target
	//   - error: error if allocation fails
	AllocateTarget(desc TargetDescriptor) (Target, error)

	// SetRenderTarget sets the active target. Nil selects the screen.
	//
	// Parameters:
	//   - t: the target to draw into, or nil for the screen
	SetRenderTarget(t Target)

	// RenderTarget returns the active target, or nil when drawing to the screen.
	RenderTarget() Target

	// SetClearColor sets the color used when a target is cleared.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c common.Color)

	// ClearColor returns the current clear color.
	ClearColor() common.Color

	// Clear clears the requested buffers of the active target.
	//
	// Parameters:
	//   - color: clear the color buffer
	//   - depth: clear the depth buffer
	//   - stencil: clear the stencil buffer
	Clear(color, depth, stencil bool)

	// Render draws the scene from the camera into t, or into the screen when t is nil.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - c: the camera to draw from
	//   - t: the destination target, or nil for the screen
	//
	// Returns:
	//   - error: error if the frame could not be encoded
	Render(s scene.Scene, c camera.Camera, t Target) error

	// RenderProgram runs a full-screen program into t, or into the screen when t is nil.
	//
	// Parameters:
	//   - p: the program to run
	//   - u: the program's uniform bindings
	//   - t: the destination target, or nil for the screen
	//
	// Returns:
	//   - error: error if the program could not be compiled or encoded
	RenderProgram(p *Program, u Uniforms, t Target) error

	// SupportsDepthTexture probes whether depth buffers can be sampled by later passes.
	SupportsDepthTexture() bool

	// Size returns the output size in logical (window) pixels.
	Size() (width, height int)

	// PixelRatio returns the ratio of device pixels to logical pixels.
	PixelRatio() float64

	// Present shows the frame drawn to the screen, if any.
	Present()
}
