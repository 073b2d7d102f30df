// Package window opens the GLFW window the visualizer presents to and forwards its input.
package window

import (
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Sizes are reported in logical (screen) pixels; PixelRatio converts them to framebuffer pixels.
// Every callback runs on the goroutine that called ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window size or its content scale changes.
	//
	// Parameters:
	//   - callback: function receiving the new logical width and height
	SetResizeCallback(callback func(width, height int))

	// SetPointerDownCallback sets the callback for presses of the primary pointer button.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in logical pixels
	SetPointerDownCallback(callback func(x, y float64))

	// SetPointerUpCallback sets the callback for releases of the primary pointer button.
	SetPointerUpCallback(callback func(x, y float64))

	// SetKeyDownCallback sets the callback for key presses.
	// Escape closes the window and the space bar is swallowed; neither reaches the callback.
	SetKeyDownCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns the descriptor for creating a WebGPU surface on this window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the surface descriptor, or nil once the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	IsRunning() bool

	// Close destroys the window. Closing twice is an error.
	Close() error

	// ProcessMessages runs the message loop until the window closes, calling the update
	// callback once per iteration.
	ProcessMessages()

	// Size returns the client area size in logical pixels.
	Size() (width, height int)

	// FramebufferSize returns the client area size in framebuffer pixels.
	FramebufferSize() (width, height int)

	// PixelRatio returns the ratio of framebuffer pixels to logical pixels.
	PixelRatio() float64
}

type engineWindow struct {
	title string

	minWidth, minHeight int
	maxWidth, maxHeight int

	width, height     int
	fbWidth, fbHeight int

	native *glfwWindow

	onUpdate      func()
	onResize      func(width, height int)
	onPointerDown func(x, y float64)
	onPointerUp   func(x, y float64)
	onKeyDown     func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow opens a visible window. The calling goroutine is locked to its OS thread and must
// also run ProcessMessages.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:     "oxy-pulse",
		minWidth:  320,
		minHeight: 240,
		maxWidth:  3840,
		maxHeight: 2160,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	native, err := openGLFW(w)
	if err != nil {
		panic(err)
	}
	w.native = native
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetPointerDownCallback(callback func(x, y float64)) {
	w.onPointerDown = callback
}

func (w *engineWindow) SetPointerUpCallback(callback func(x, y float64)) {
	w.onPointerUp = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.native == nil {
		return nil
	}
	return w.native.surfaceDescriptor()
}

func (w *engineWindow) IsRunning() bool {
	return w.native != nil && w.native.open()
}

func (w *engineWindow) Close() error {
	if w.native == nil {
		return errClosed
	}
	w.native.destroy()
	w.native = nil
	return nil
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		w.native.poll()
		if !w.IsRunning() {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Size() (width, height int) {
	return w.width, w.height
}

func (w *engineWindow) FramebufferSize() (width, height int) {
	return w.fbWidth, w.fbHeight
}

func (w *engineWindow) PixelRatio() float64 {
	return pixelRatio(w.width, w.fbWidth)
}

// setSize stores new sizes and notifies the resize callback when any of them changed.
func (w *engineWindow) setSize(width, height, fbWidth, fbHeight int) {
	if width == w.width && height == w.height && fbWidth == w.fbWidth && fbHeight == w.fbHeight {
		return
	}
	w.width, w.height = width, height
	w.fbWidth, w.fbHeight = fbWidth, fbHeight
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// key routes a key press. It reports whether the window should close.
func (w *engineWindow) key(keyCode uint32) (quit bool) {
	switch {
	case keyCode == keyEscape:
		return true
	case swallowed(keyCode):
	case w.onKeyDown != nil:
		w.onKeyDown(keyCode)
	}
	return false
}

// pixelRatio derives the device pixel ratio from the logical and framebuffer widths.
func pixelRatio(logical, framebuffer int) float64 {
	if logical <= 0 || framebuffer <= 0 {
		return 1
	}
	return float64(framebuffer) / float64(logical)
}

// swallowed reports whether a key is consumed by the window and never forwarded.
func swallowed(keyCode uint32) bool {
	return keyCode == keySpace
}
