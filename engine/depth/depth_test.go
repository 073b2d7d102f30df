package depth

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/camera"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-pulse/engine/scene"
	"github.com/Carmen-Shannon/oxy-pulse/engine/target"
	"github.com/Carmen-Shannon/oxy-pulse/log"
)

type fixture struct {
	r       *renderertest.Renderer
	m       target.Manager
	initial renderer.Target
	scn     scene.Scene
	cam     camera.Camera
}

func newFixture(t *testing.T, depthSupport bool) *fixture {
	t.Helper()
	r := renderertest.New(320, 240, 1)
	r.DepthSupport = depthSupport
	m := target.NewManager(r, r)
	initial, err := m.Create(target.WithLabel("initial"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return &fixture{r: r, m: m, initial: initial, scn: scene.NewScene("test"), cam: camera.NewCamera()}
}

func (f *fixture) resolve(t *testing.T, options ...CaptureBuilderOption) Capture {
	t.Helper()
	c, err := Resolve(f.r, f.m, f.initial, f.scn, f.cam, options...)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return c
}

func TestResolveNativeDepth(t *testing.T) {
	f := newFixture(t, true)
	c := f.resolve(t)

	if !c.Available() {
		t.Fatal("expected depth to be available")
	}
	if c.Source() == nil || !c.Source().IsDepth() {
		t.Fatalf("source = %v, want the initial target's depth texture", c.Source())
	}
	if c.Source() != f.initial.DepthTexture() {
		t.Error("source is not the initial target's depth texture")
	}
	if c.Target() != nil {
		t.Error("native depth must not allocate a capture target")
	}
}

func TestResolveFloatDepth(t *testing.T) {
	f := newFixture(t, false)
	c := f.resolve(t, WithFloatDepth(true))

	if !c.Available() || c.Target() == nil {
		t.Fatal("expected a float capture target")
	}
	if got := c.Target().Descriptor().Format; got != renderer.FormatRGBAFloat {
		t.Errorf("format = %v, want FormatRGBAFloat", got)
	}
	if len(f.m.Targets()) != 2 {
		t.Errorf("tracked = %d, want 2", len(f.m.Targets()))
	}
	if f.initial.DepthTexture() != nil {
		t.Error("float capture must leave the initial depth texture alone")
	}
}

func TestResolveWithoutDepthWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	log.SetSink(&buf)
	defer log.SetSink(&bytes.Buffer{})

	f := newFixture(t, false)
	c := f.resolve(t)

	if c.Available() || c.Source() != nil {
		t.Fatal("expected depth to be unavailable")
	}
	if n := strings.Count(buf.String(), "depth texture support"); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}
	if err := c.Capture(); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if f.r.Count("Render") != 0 {
		t.Error("capture without float depth must not render")
	}
}

func TestCaptureOverridesMaterialAndRestores(t *testing.T) {
	f := newFixture(t, true)
	c := f.resolve(t, WithFloatDepth(true))

	if err := c.Capture(); err != nil {
		t.Fatalf("Capture: %v", err)
	}

	if len(f.r.Renders) != 1 {
		t.Fatalf("renders = %d, want 1", len(f.r.Renders))
	}
	call := f.r.Renders[0]
	if call.Override != scene.MaterialDepth {
		t.Errorf("override during render = %v, want depth", call.Override)
	}
	if call.Target != c.Target() {
		t.Error("capture rendered into the wrong target")
	}
	if call.Clear != common.White {
		t.Errorf("clear color = %+v, want white", call.Clear)
	}
	if f.scn.OverrideMaterial() != scene.MaterialNone {
		t.Error("override was not removed after capture")
	}
}

func TestCaptureTargetFollowsResize(t *testing.T) {
	f := newFixture(t, true)
	c := f.resolve(t, WithFloatDepth(true))

	f.r.W, f.r.H = 640, 480
	f.m.Resize()

	if c.Target().Width() != 640 || c.Target().Height() != 480 {
		t.Errorf("capture target = %dx%d, want 640x480", c.Target().Width(), c.Target().Height())
	}
}
