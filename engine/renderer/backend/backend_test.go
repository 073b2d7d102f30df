package backend

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/composer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func floatAt(buf []byte, offset uint64) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestComposerProgramsCompile(t *testing.T) {
	programs := []*renderer.Program{
		composer.SSAODepthProgram,
		composer.SSAOPackedProgram,
		composer.BloomProgram,
	}
	for _, p := range programs {
		t.Run(p.Name, func(t *testing.T) {
			sh, params, err := compileProgram(p)
			if err != nil {
				t.Fatalf("compileProgram: %v", err)
			}
			if sh.EntryPoint(shader.StageVertex) != "vs_main" {
				t.Errorf("vertex entry = %q, want vs_main", sh.EntryPoint(shader.StageVertex))
			}
			for _, name := range p.Params {
				if _, ok := params.Field(name); !ok {
					t.Errorf("param %q has no member", name)
				}
			}
			if len(sh.BindGroupLayoutDescriptors()[0].Entries) != len(p.Textures)+1 {
				t.Errorf("group 0 has %d entries, want %d", len(sh.BindGroupLayoutDescriptors()[0].Entries), len(p.Textures)+1)
			}
		})
	}
}

func TestSSAODepthVariants(t *testing.T) {
	tests := []struct {
		program *renderer.Program
		want    wgpu.TextureSampleType
	}{
		{program: composer.SSAODepthProgram, want: wgpu.TextureSampleTypeDepth},
		{program: composer.SSAOPackedProgram, want: wgpu.TextureSampleTypeUnfilterableFloat},
	}
	for _, tt := range tests {
		sh, _, err := compileProgram(tt.program)
		if err != nil {
			t.Fatalf("%s: %v", tt.program.Name, err)
		}
		b, _ := sh.Binding("tDepth")
		if b.Entry.Texture.SampleType != tt.want {
			t.Errorf("%s: tDepth sample type = %v, want %v", tt.program.Name, b.Entry.Texture.SampleType, tt.want)
		}
	}
}

func TestPackParams(t *testing.T) {
	_, layout, err := compileProgram(composer.BloomProgram)
	if err != nil {
		t.Fatalf("compileProgram: %v", err)
	}
	u := renderer.Uniforms{
		"resolution": {Value: [2]float32{640, 480}},
		"threshold":  {Value: float32(0.8)},
		"strength":   {Value: float32(0.6)},
		"radius":     {Value: float32(1.5)},
		"gamma":      {Value: float32(2.2)},
	}
	buf, err := packParams(layout, composer.BloomProgram, u)
	if err != nil {
		t.Fatalf("packParams: %v", err)
	}
	if uint64(len(buf)) != layout.Size {
		t.Fatalf("len = %d, want %d", len(buf), layout.Size)
	}
	for name, want := range map[string]float32{"threshold": 0.8, "strength": 0.6, "radius": 1.5, "gamma": 2.2} {
		f, _ := layout.Field(name)
		if got := floatAt(buf, f.Offset); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	res, _ := layout.Field("resolution")
	if floatAt(buf, res.Offset) != 640 || floatAt(buf, res.Offset+4) != 480 {
		t.Errorf("resolution = (%v, %v), want (640, 480)", floatAt(buf, res.Offset), floatAt(buf, res.Offset+4))
	}
}

func TestPackParamsErrors(t *testing.T) {
	layout := shader.StructLayout{
		Name: "Params",
		Size: 16,
		Fields: []shader.FieldLayout{
			{Name: "resolution", Type: "vec2<f32>", Offset: 0, Size: 8},
			{Name: "gamma", Type: "f32", Offset: 8, Size: 4},
		},
	}
	tests := []struct {
		name string
		p    *renderer.Program
	}{
		{name: "missing member", p: &renderer.Program{Name: "p", Params: []string{"strength"}}},
		{name: "scalar into vec2", p: &renderer.Program{Name: "p", Params: []string{"resolution"}}},
		{name: "vec2 into scalar", p: &renderer.Program{Name: "p", Params: []string{"gamma"}, Vec2Params: map[string]bool{"gamma": true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := packParams(layout, tt.p, renderer.Uniforms{}); err == nil {
				t.Error("packParams succeeded")
			}
		})
	}
}

func TestFormats(t *testing.T) {
	if got := colorFormat(renderer.FormatRGB); got != wgpu.TextureFormatRGBA8Unorm {
		t.Errorf("RGB -> %v", got)
	}
	if got := colorFormat(renderer.FormatRGBAFloat); got != wgpu.TextureFormatRGBA32Float {
		t.Errorf("RGBAFloat -> %v", got)
	}
	if got := depthFormat(renderer.TargetDescriptor{DepthBuffer: true}); got != wgpu.TextureFormatDepth32Float {
		t.Errorf("depth -> %v", got)
	}
	if got := depthFormat(renderer.TargetDescriptor{DepthBuffer: true, StencilBuffer: true}); got != wgpu.TextureFormatDepth24PlusStencil8 {
		t.Errorf("depth+stencil -> %v", got)
	}
}

func TestPassDescriptor(t *testing.T) {
	d := destination{
		colors:      []*wgpu.TextureView{nil, nil},
		formats:     []wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA32Float},
		depth:       &wgpu.TextureView{},
		depthFormat: wgpu.TextureFormatDepth32Float,
	}
	desc := d.passDescriptor(common.White, true, false, false)
	if len(desc.ColorAttachments) != 2 {
		t.Fatalf("color attachments = %d, want 2", len(desc.ColorAttachments))
	}
	if desc.ColorAttachments[0].LoadOp != wgpu.LoadOpClear || desc.ColorAttachments[0].ClearValue.R != 1 {
		t.Errorf("primary = %+v, want white clear", desc.ColorAttachments[0])
	}
	if desc.ColorAttachments[1].ClearValue != (wgpu.Color{}) {
		t.Errorf("aux clear = %+v, want zero", desc.ColorAttachments[1].ClearValue)
	}
	if desc.DepthStencilAttachment.DepthLoadOp != wgpu.LoadOpLoad {
		t.Errorf("depth load = %v, want load", desc.DepthStencilAttachment.DepthLoadOp)
	}
	if desc.DepthStencilAttachment.StencilLoadOp != 0 {
		t.Errorf("stencil ops set on a depth-only format")
	}

	p := d.primary()
	if len(p.colors) != 1 || p.depth != nil {
		t.Errorf("primary = %+v, want one color and no depth", p)
	}
	if p.key() == d.key() {
		t.Error("primary shares the pipeline key of the full destination")
	}
}
