package frame

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/camera"
	"github.com/Carmen-Shannon/oxy-pulse/engine/composer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/depth"
	"github.com/Carmen-Shannon/oxy-pulse/engine/game_object"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-pulse/engine/scene"
	"github.com/Carmen-Shannon/oxy-pulse/engine/target"
)

type fixture struct {
	r        *renderertest.Renderer
	m        target.Manager
	rt1, rt2 renderer.Target
	initial  renderer.Target
	scn      scene.Scene
	cam      camera.Camera
	comp     composer.Composer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r := renderertest.New(200, 100, 2)
	m := target.NewManager(r, r)
	f := &fixture{r: r, m: m, scn: scene.NewScene("test"), cam: camera.NewCamera()}
	var err error
	for _, dst := range []*renderer.Target{&f.rt1, &f.rt2, &f.initial} {
		if *dst, err = m.Create(); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	f.comp = composer.NewComposer(r, f.rt1, f.rt2, f.initial)
	return f
}

func TestTickClampsAnimationStep(t *testing.T) {
	f := newFixture(t)
	_ = f.comp.AddPass(composer.NewRenderPass(f.scn, f.cam))
	d := NewDriver(f.r, f.scn, f.cam, f.comp, f.initial)

	steps := []struct {
		dt   float64
		want float64
	}{
		{dt: 16, want: 0.016},
		{dt: 30, want: 0.046},
		{dt: 5000, want: 0.076},
	}
	for _, s := range steps {
		if err := d.Tick(s.dt); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		if math.Abs(d.Time()-s.want) > 1e-9 {
			t.Errorf("after dt=%v time = %v, want %v", s.dt, d.Time(), s.want)
		}
	}
}

func TestTickAnimatesFocus(t *testing.T) {
	f := newFixture(t)
	_ = f.comp.AddPass(composer.NewRenderPass(f.scn, f.cam))
	obj := game_object.NewGameObject(game_object.WithPosition(3, 0, -2))
	d := NewDriver(f.r, f.scn, f.cam, f.comp, f.initial, WithFocus(obj))

	if err := d.Tick(20); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	x, y, z := obj.Position()
	wantY := float32(math.Sin(0.02)*0.25 + 1)
	if x != 3 || z != -2 || math.Abs(float64(y-wantY)) > 1e-6 {
		t.Errorf("position = (%v, %v, %v), want (3, %v, -2)", x, y, z, wantY)
	}
	_, ry, _ := obj.Rotation()
	if math.Abs(float64(ry)-20*0.00005) > 1e-9 {
		t.Errorf("rotation y = %v, want %v", ry, 20*0.00005)
	}
}

func TestTickDirectRenderWithSinglePass(t *testing.T) {
	f := newFixture(t)
	_ = f.comp.AddPass(composer.NewRenderPass(f.scn, f.cam))
	_ = f.comp.SetTerminal()
	d := NewDriver(f.r, f.scn, f.cam, f.comp, f.initial)

	if err := d.Tick(16); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if f.r.Count("RenderProgram") != 0 {
		t.Error("single pass pipeline must not run the composed path")
	}
	if len(f.r.Renders) != 1 || f.r.Renders[0].Target != nil {
		t.Fatalf("expected one direct render to the screen, got %+v", f.r.Renders)
	}
	if f.r.Presents != 1 {
		t.Errorf("presents = %d, want 1", f.r.Presents)
	}
}

func TestTickComposedRenderWithPipeline(t *testing.T) {
	f := newFixture(t)
	if err := composer.Setup(f.comp, f.scn, f.cam, nil); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	d := NewDriver(f.r, f.scn, f.cam, f.comp, f.initial)

	if err := d.Tick(16); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if f.r.Count("RenderProgram") != 1 {
		t.Errorf("programs = %d, want 1", f.r.Count("RenderProgram"))
	}
	if len(f.r.Renders) != 1 || f.r.Renders[0].Target != f.initial {
		t.Fatal("composed path must render the scene into the initial target")
	}
	res := f.r.Programs[0].Vec2s["resolution"]
	if res != [2]float32{400, 200} {
		t.Errorf("resolution = %v, want [400 200]", res)
	}
}

func TestTickTracksResize(t *testing.T) {
	f := newFixture(t)
	if err := composer.Setup(f.comp, f.scn, f.cam, nil); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	d := NewDriver(f.r, f.scn, f.cam, f.comp, f.initial)
	_ = d.Tick(16)

	f.r.W, f.r.H = 300, 300
	f.m.Resize()
	_ = d.Tick(16)

	res := f.r.Programs[len(f.r.Programs)-1].Vec2s["resolution"]
	if res != [2]float32{600, 600} {
		t.Errorf("resolution = %v, want [600 600]", res)
	}
	if f.cam.Aspect() != 1 {
		t.Errorf("aspect = %v, want 1", f.cam.Aspect())
	}
}

func TestTickRestoresStateAfterDepthCapture(t *testing.T) {
	f := newFixture(t)
	f.r.SetClearColor(common.Color{R: 0.1, G: 0.2, B: 0.3, A: 1})
	capture, err := depth.Resolve(f.r, f.m, f.initial, f.scn, f.cam, depth.WithFloatDepth(true))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := composer.Setup(f.comp, f.scn, f.cam, capture.Source()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	d := NewDriver(f.r, f.scn, f.cam, f.comp, f.initial, WithDepthCapture(capture))

	if err := d.Tick(16); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if len(f.r.Renders) != 2 {
		t.Fatalf("renders = %d, want 2", len(f.r.Renders))
	}
	captured, main := f.r.Renders[0], f.r.Renders[1]
	if captured.Override != scene.MaterialDepth || captured.Clear != common.White {
		t.Errorf("capture render = %+v, want depth material on white", captured)
	}
	if main.Override != scene.MaterialNone {
		t.Error("main render still uses the depth material")
	}
	if main.Clear != (common.Color{R: 0.1, G: 0.2, B: 0.3, A: 1}) {
		t.Errorf("clear color = %+v, want the previous clear color", main.Clear)
	}
	if f.r.RenderTarget() != nil {
		t.Error("default target was not restored")
	}
}
