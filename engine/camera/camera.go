// Package camera holds the perspective camera the scene and depth passes are drawn from.
package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-pulse/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	position common.Vec3
	target   common.Vec3
	up       common.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	view           common.Mat4
	projection     common.Mat4
	viewProjection common.Mat4
}

// Camera is a perspective camera with a fixed look-at pose.
//
// Near and Far also feed the ambient occlusion pass, which linearizes depth with them, so they
// are fixed at construction.
type Camera interface {
	// Position returns the eye position in world space.
	Position() common.Vec3

	// Target returns the look-at point in world space.
	Target() common.Vec3

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// View returns the world-to-view matrix.
	View() common.Mat4

	// Projection returns the projection matrix.
	Projection() common.Mat4

	// ViewProjection returns Projection * View.
	ViewProjection() common.Mat4

	// SetPosition moves the eye and recomputes the matrices.
	//
	// Parameters:
	//   - p: the new eye position
	SetPosition(p common.Vec3)

	// SetTarget moves the look-at point and recomputes the matrices.
	//
	// Parameters:
	//   - p: the new look-at point
	SetTarget(p common.Vec3)

	// UpdateProjection derives the aspect ratio from a viewport size and recomputes matrices.
	// Zero-sized viewports (minimized windows) leave the projection untouched.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	UpdateProjection(width, height int)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with a 45 degree field of view looking at the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		position: common.Vec3{0, 1, 5},
		up:       common.Vec3{0, 1, 0},
		fov:      math.Pi / 4,
		aspect:   1,
		near:     0.1,
		far:      100,
	}
	for _, option := range options {
		option(c)
	}
	c.update()
	return c
}

func (c *cameraImpl) Position() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) View() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *cameraImpl) Projection() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ViewProjection() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjection
}

func (c *cameraImpl) SetPosition(p common.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
	c.update()
}

func (c *cameraImpl) SetTarget(p common.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = p
	c.update()
}

func (c *cameraImpl) UpdateProjection(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	aspect := float32(width) / float32(height)
	if aspect == c.aspect {
		return
	}
	c.aspect = aspect
	c.update()
}

// update recomputes the matrices. Caller must hold the mutex.
func (c *cameraImpl) update() {
	c.view = common.LookAt(c.position, c.target, c.up)
	c.projection = common.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjection = c.projection.Mul(c.view)
}
