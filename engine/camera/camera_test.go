package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-pulse/common"
)

func TestUpdateProjectionTracksViewport(t *testing.T) {
	c := NewCamera(WithAspect(1))

	c.UpdateProjection(1920, 1080)
	if got, want := c.Aspect(), float32(1920)/float32(1080); got != want {
		t.Fatalf("aspect = %v, want %v", got, want)
	}

	before := c.Projection()
	c.UpdateProjection(0, 1080)
	if c.Projection() != before {
		t.Fatal("zero-sized viewport must not change the projection")
	}
}

func TestPlanesOption(t *testing.T) {
	c := NewCamera(WithPlanes(0.01, 1000))
	if c.Near() != 0.01 || c.Far() != 1000 {
		t.Fatalf("near/far = %v/%v, want 0.01/1000", c.Near(), c.Far())
	}
}

func TestTargetAtScreenCenter(t *testing.T) {
	c := NewCamera(WithPosition(0, 1.5, 6), WithTarget(0, 1, 0))
	c.UpdateProjection(1280, 720)

	p := c.ViewProjection().Project(c.Target())
	if math.Abs(float64(p[0])) > 1e-5 || math.Abs(float64(p[1])) > 1e-5 {
		t.Errorf("target projects to (%v, %v), want (0, 0)", p[0], p[1])
	}

	c.SetTarget(common.Vec3{1, 1, 0})
	if p := c.ViewProjection().Project(common.Vec3{0, 1, 0}); p[0] >= 0 {
		t.Errorf("old target x = %v after panning right, want < 0", p[0])
	}
}
