package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const programSource = `
//@oxy:include fullscreen
//@oxy:include depth_pack

struct Params {
    resolution: vec2<f32>,
    cameraNear: f32, // near plane
    cameraFar: f32,
    tint: vec3<f32>,
    gamma: f32,
};

/* bindings */
@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(2) var tDepth: texture_depth_2d;
@group(0) @binding(1) var tDiffuse: texture_2d<f32>;

@fragment
fn fs_main(@builtin(position) p: vec4<f32>) -> @location(0) vec4<f32> {
    return textureLoad(tDiffuse, vec2<i32>(p.xy), 0);
}
`

func TestNewShaderReflectsProgram(t *testing.T) {
	s, err := NewShader("test", programSource)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if got := s.EntryPoint(StageVertex); got != "vs_main" {
		t.Errorf("vertex entry = %q, want vs_main", got)
	}
	if got := s.EntryPoint(StageFragment); got != "fs_main" {
		t.Errorf("fragment entry = %q, want fs_main", got)
	}
	if strings.Contains(s.Source(), "@oxy:include") {
		t.Error("include directive left in source")
	}
	if !strings.Contains(s.Source(), "fn unpackDepth") {
		t.Error("depth_pack chunk not injected")
	}

	names := []string{}
	for _, b := range s.Bindings() {
		names = append(names, b.Name)
	}
	if got := strings.Join(names, ","); got != "params,tDiffuse,tDepth" {
		t.Errorf("bindings = %s, want params,tDiffuse,tDepth", got)
	}

	depth, _ := s.Binding("tDepth")
	if depth.Entry.Texture.SampleType != wgpu.TextureSampleTypeDepth {
		t.Errorf("tDepth sample type = %v, want depth", depth.Entry.Texture.SampleType)
	}
	diffuse, _ := s.Binding("tDiffuse")
	if diffuse.Entry.Texture.SampleType != wgpu.TextureSampleTypeUnfilterableFloat {
		t.Errorf("tDiffuse sample type = %v, want unfilterable float", diffuse.Entry.Texture.SampleType)
	}
	params, _ := s.Binding("params")
	if params.Entry.Buffer.Type != wgpu.BufferBindingTypeUniform || params.Entry.Buffer.MinBindingSize != 32 {
		t.Errorf("params entry = %+v, want 32-byte uniform", params.Entry.Buffer)
	}
	if got := len(s.BindGroupLayoutDescriptors()[0].Entries); got != 3 {
		t.Errorf("group 0 entries = %d, want 3", got)
	}
}

func TestStructLayoutOffsets(t *testing.T) {
	s, err := NewShader("test", programSource)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	layout, ok := s.Struct("Params")
	if !ok {
		t.Fatal("Params not reflected")
	}
	want := map[string]uint64{
		"resolution": 0,
		"cameraNear": 8,
		"cameraFar":  12,
		"tint":       16,
		"gamma":      28,
	}
	for name, offset := range want {
		f, ok := layout.Field(name)
		if !ok {
			t.Errorf("field %s missing", name)
			continue
		}
		if f.Offset != offset {
			t.Errorf("%s offset = %d, want %d", name, f.Offset, offset)
		}
	}
	if layout.Size != 32 {
		t.Errorf("size = %d, want 32", layout.Size)
	}
}

func TestVertexLayouts(t *testing.T) {
	src := `
struct VertexIn {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
};
struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) normal: vec3<f32>,
};
@vertex fn vs_main(v: VertexIn) -> VertexOut { var o: VertexOut; return o; }
@fragment fn fs_main(o: VertexOut) -> @location(0) vec4<f32> { return vec4<f32>(1.0); }
`
	s, err := NewShader("mesh", src)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	layouts := s.VertexLayouts()
	if len(layouts) != 1 {
		t.Fatalf("layouts = %d, want 1", len(layouts))
	}
	if layouts[0].ArrayStride != 24 || len(layouts[0].Attributes) != 2 {
		t.Errorf("layout = %+v, want stride 24 with 2 attributes", layouts[0])
	}
	if layouts[0].Attributes[1].Offset != 12 {
		t.Errorf("normal offset = %d, want 12", layouts[0].Attributes[1].Offset)
	}
}

func TestPreprocessErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "unknown chunk", src: "//@oxy:include nope"},
		{name: "missing name", src: "//@oxy:include"},
		{name: "extra args", src: "//@oxy:include fullscreen depth_pack"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Preprocess(tt.src); err == nil {
				t.Error("Preprocess succeeded")
			}
		})
	}
}

func TestPreprocessIncludesOnce(t *testing.T) {
	out, err := Preprocess("//@oxy:include fullscreen\n//@oxy:include fullscreen\n")
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if n := strings.Count(out, "fn vs_main"); n != 1 {
		t.Errorf("vs_main injected %d times, want 1", n)
	}
}

func TestNewShaderRequiresFragment(t *testing.T) {
	if _, err := NewShader("vertex only", "//@oxy:include fullscreen"); err == nil {
		t.Error("NewShader accepted a module without a fragment stage")
	}
}
