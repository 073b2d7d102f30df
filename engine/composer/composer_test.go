package composer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-pulse/engine/camera"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-pulse/engine/scene"
)

type fixture struct {
	r             *renderertest.Renderer
	rt1, rt2, ini renderer.Target
	scn           scene.Scene
	cam           camera.Camera
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r := renderertest.New(64, 32, 1)
	f := &fixture{r: r, scn: scene.NewScene("test"), cam: camera.NewCamera()}
	targets := make([]renderer.Target, 3)
	for i := range targets {
		tgt, err := r.AllocateTarget(renderer.TargetDescriptor{Width: 64, Height: 32, DepthBuffer: true})
		if err != nil {
			t.Fatalf("AllocateTarget: %v", err)
		}
		targets[i] = tgt
	}
	f.rt1, f.rt2, f.ini = targets[0], targets[1], targets[2]
	return f
}

func (f *fixture) composer() Composer {
	return NewComposer(f.r, f.rt1, f.rt2, f.ini)
}

func TestAddPassAfterTerminal(t *testing.T) {
	f := newFixture(t)
	c := f.composer()

	if err := c.AddPass(NewRenderPass(f.scn, f.cam)); err != nil {
		t.Fatalf("AddPass: %v", err)
	}
	if err := c.SetTerminal(); err != nil {
		t.Fatalf("SetTerminal: %v", err)
	}
	if err := c.AddPass(NewBloomPass()); !errors.Is(err, ErrSealed) {
		t.Fatalf("err = %v, want ErrSealed", err)
	}
	if err := c.AddPass(nil); !errors.Is(err, ErrNilPass) {
		t.Fatalf("err = %v, want ErrNilPass", err)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestSetTerminalOnEmpty(t *testing.T) {
	c := newFixture(t).composer()
	if err := c.SetTerminal(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
	if err := c.Render(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
}

func TestRenderRequiresTerminal(t *testing.T) {
	f := newFixture(t)
	c := f.composer()
	_ = c.AddPass(NewRenderPass(f.scn, f.cam))
	if err := c.Render(); !errors.Is(err, ErrNoTerminal) {
		t.Fatalf("err = %v, want ErrNoTerminal", err)
	}
}

func TestRenderRejectsEarlyTerminal(t *testing.T) {
	f := newFixture(t)
	c := f.composer()
	if err := Setup(c, f.scn, f.cam, nil); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	c.Passes()[0].SetTerminal(true)

	if err := c.Render(); !errors.Is(err, ErrTerminalNotLast) {
		t.Fatalf("err = %v, want ErrTerminalNotLast", err)
	}
	if len(f.r.Renders) != 0 || len(f.r.Programs) != 0 {
		t.Errorf("passes ran before the pipeline was rejected: %d renders, %d programs", len(f.r.Renders), len(f.r.Programs))
	}
}

func TestSetupSkipsAmbientOcclusionWithoutDepth(t *testing.T) {
	f := newFixture(t)
	c := f.composer()

	if err := Setup(c, f.scn, f.cam, nil); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	passes := c.Passes()
	if len(passes) != 2 {
		t.Fatalf("passes = %d, want 2", len(passes))
	}
	for _, p := range passes {
		if p.Name() == SSAODepthProgram.Name || p.Name() == SSAOPackedProgram.Name {
			t.Fatalf("ambient occlusion pass appended without a depth source")
		}
	}
	if !passes[1].Terminal() || passes[0].Terminal() {
		t.Error("only the last pass must be terminal")
	}
}

func TestSetupWiresDepthSource(t *testing.T) {
	tests := []struct {
		name    string
		native  bool
		program string
	}{
		{name: "native depth texture", native: true, program: SSAODepthProgram.Name},
		{name: "float depth target", native: false, program: SSAOPackedProgram.Name},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			c := f.composer()
			src := &renderertest.Texture{W: 64, H: 32, Depth: tt.native}

			if err := Setup(c, f.scn, f.cam, src); err != nil {
				t.Fatalf("Setup: %v", err)
			}
			passes := c.Passes()
			if len(passes) != 3 {
				t.Fatalf("passes = %d, want 3", len(passes))
			}
			ssao := passes[1]
			if ssao.Name() != tt.program {
				t.Errorf("program = %q, want %q", ssao.Name(), tt.program)
			}
			u := ssao.Uniforms()
			if u.Texture("tDepth") != src {
				t.Error("tDepth is not bound to the depth source")
			}
			if u.Float("cameraNear") != f.cam.Near() || u.Float("cameraFar") != f.cam.Far() {
				t.Errorf("planes = %v/%v, want %v/%v", u.Float("cameraNear"), u.Float("cameraFar"), f.cam.Near(), f.cam.Far())
			}
		})
	}
}

func TestUpdateResolution(t *testing.T) {
	f := newFixture(t)
	c := f.composer()
	if err := Setup(c, f.scn, f.cam, &renderertest.Texture{Depth: true}); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	c.UpdateResolution(640, 480)
	c.UpdateResolution(1280, 720)

	for _, p := range c.Passes() {
		u := p.Uniforms()
		if u == nil {
			continue
		}
		if got := u.Vec2("resolution"); got != [2]float32{1280, 720} {
			t.Errorf("%s resolution = %v, want [1280 720]", p.Name(), got)
		}
	}
}

func TestRenderPingPong(t *testing.T) {
	f := newFixture(t)
	c := f.composer()
	if err := Setup(c, f.scn, f.cam, &renderertest.Texture{Depth: true}); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	if err := c.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(f.r.Renders) != 1 || f.r.Renders[0].Target != f.ini {
		t.Fatalf("scene pass must draw into the initial target, got %+v", f.r.Renders)
	}
	if len(f.r.Programs) != 2 {
		t.Fatalf("programs = %d, want 2", len(f.r.Programs))
	}

	ssao, bloom := f.r.Programs[0], f.r.Programs[1]
	if ssao.Textures["tDiffuse"] != f.ini.Texture() || ssao.Target != f.rt1 {
		t.Error("ambient occlusion must read the initial target and write rt1")
	}
	if bloom.Textures["tDiffuse"] != f.rt1.Texture() {
		t.Error("bloom must read the ambient occlusion output")
	}
	if bloom.Target != nil {
		t.Error("terminal pass must write to the screen")
	}
	if bloom.Floats["gamma"] != 2.2 {
		t.Errorf("gamma = %v, want 2.2", bloom.Floats["gamma"])
	}
}

func TestRenderSwapsAcrossBuffers(t *testing.T) {
	f := newFixture(t)
	c := f.composer()
	passes := []Pass{
		NewRenderPass(f.scn, f.cam),
		NewShaderPass(BloomProgram, WithName("a")),
		NewShaderPass(BloomProgram, WithName("b")),
		NewShaderPass(BloomProgram, WithName("c")),
	}
	for _, p := range passes {
		if err := c.AddPass(p); err != nil {
			t.Fatalf("AddPass: %v", err)
		}
	}
	_ = c.SetTerminal()

	if err := c.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := []struct {
		read  renderer.Texture
		write renderer.Target
	}{
		{read: f.ini.Texture(), write: f.rt1},
		{read: f.rt1.Texture(), write: f.rt2},
		{read: f.rt2.Texture(), write: nil},
	}
	for i, w := range want {
		got := f.r.Programs[i]
		if got.Textures["tDiffuse"] != w.read || got.Target != w.write {
			t.Errorf("program %d read/write mismatch", i)
		}
	}
}
