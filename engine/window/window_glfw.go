package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	keySpace  = uint32(glfw.KeySpace)
	keyEscape = uint32(glfw.KeyEscape)
)

var errClosed = errors.New("window is closed")

type glfwWindow struct {
	window *glfw.Window
	closed bool
}

// openGLFW creates the GLFW window for w and routes its events into w.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func openGLFW(w *engineWindow) (*glfwWindow, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// The surface is driven through WebGPU; no GL context.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)
	gw := &glfwWindow{window: win}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if w.key(uint32(key)) {
			gw.closed = true
			win.SetShouldClose(true)
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		x, y := win.GetCursorPos()
		switch {
		case action == glfw.Press && w.onPointerDown != nil:
			w.onPointerDown(x, y)
		case action == glfw.Release && w.onPointerUp != nil:
			w.onPointerUp(x, y)
		}
	})

	// The logical and framebuffer sizes change independently when the window moves to a
	// monitor with another content scale.
	sync := func(*glfw.Window, int, int) {
		width, height := win.GetSize()
		fbWidth, fbHeight := win.GetFramebufferSize()
		w.setSize(width, height, fbWidth, fbHeight)
	}
	win.SetFramebufferSizeCallback(sync)
	win.SetSizeCallback(sync)

	w.width, w.height = win.GetSize()
	w.fbWidth, w.fbHeight = win.GetFramebufferSize()
	return gw, nil
}

// surfaceDescriptor wraps the native handle for wgpu.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func (gw *glfwWindow) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func (gw *glfwWindow) open() bool {
	return !gw.closed && !gw.window.ShouldClose()
}

// poll dispatches pending events without blocking.
func (gw *glfwWindow) poll() {
	glfw.PollEvents()
}

func (gw *glfwWindow) destroy() {
	gw.closed = true
	gw.window.Destroy()
	glfw.Terminate()
}
