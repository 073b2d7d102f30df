package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// vertexFormats maps WGSL vertex input types to their wgpu format and byte size.
var vertexFormats = map[string]struct {
	format wgpu.VertexFormat
	size   uint64
}{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"i32":       {wgpu.VertexFormatSint32, 4},
}

// hostLayouts holds size and alignment of the host-shareable WGSL types uniforms are built from.
// See https://www.w3.org/TR/WGSL/#alignment-and-size.
var hostLayouts = map[string]TypeLayout{
	"f32":         {Size: 4, Align: 4},
	"i32":         {Size: 4, Align: 4},
	"u32":         {Size: 4, Align: 4},
	"vec2f":       {Size: 8, Align: 8},
	"vec2<f32>":   {Size: 8, Align: 8},
	"vec3f":       {Size: 12, Align: 16},
	"vec3<f32>":   {Size: 12, Align: 16},
	"vec4f":       {Size: 16, Align: 16},
	"vec4<f32>":   {Size: 16, Align: 16},
	"mat3x3<f32>": {Size: 48, Align: 16},
	"mat4x4<f32>": {Size: 64, Align: 16},
	"mat4x4f":     {Size: 64, Align: 16},
}

// sampleTypes maps the scalar parameter of a sampled texture to its sample type.
// Float textures bind as unfilterable so RGBA32Float targets can be read with textureLoad.
var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeUnfilterableFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

var (
	structRegex   = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRegex  = regexp.MustCompile(`@builtin\(\w+\)`)
	fieldRegex    = regexp.MustCompile(`(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)`)
	vertexEntry   = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)
	fragmentEntry = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindingRegex captures group, binding, address space, name and type of a resource, e.g.
	// @group(0) @binding(1) var tDiffuse: texture_2d<f32>;
	bindingRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// TypeLayout is the host-shareable size and alignment of a WGSL type.
type TypeLayout struct {
	Size  uint64
	Align uint64
}

// FieldLayout is the placement of one struct member in a uniform buffer.
type FieldLayout struct {
	Name   string
	Type   string
	Offset uint64
	Size   uint64
}

// StructLayout is the buffer layout of a WGSL struct.
type StructLayout struct {
	Name   string
	Size   uint64
	Align  uint64
	Fields []FieldLayout
}

// Field returns the named member.
//
// Parameters:
//   - name: the member name
//
// Returns:
//   - FieldLayout: the member layout
//   - bool: false if the struct has no such member
func (s StructLayout) Field(name string) (FieldLayout, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldLayout{}, false
}

// Binding is one reflected resource declaration.
type Binding struct {
	Group   int
	Binding int
	Name    string
	Type    string
	Entry   wgpu.BindGroupLayoutEntry
}

type field struct {
	name     string
	typeName string
	location int
	builtin  bool
}

type structDecl struct {
	name   string
	fields []field
}

func roundUp(align, v uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

func parseStructs(source string) []structDecl {
	matches := structRegex.FindAllStringSubmatch(source, -1)
	out := make([]structDecl, 0, len(matches))
	for _, m := range matches {
		out = append(out, structDecl{name: m[1], fields: parseFields(m[2])})
	}
	return out
}

func parseFields(body string) []field {
	var fields []field
	for _, part := range splitTopLevel(body) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fm := fieldRegex.FindStringSubmatch(part)
		if fm == nil {
			continue
		}
		f := field{name: fm[1], typeName: strings.TrimSpace(fm[2]), location: -1}
		f.builtin = builtinRegex.MatchString(part)
		if lm := locationRegex.FindStringSubmatch(part); lm != nil {
			f.location, _ = strconv.Atoi(lm[1])
		}
		fields = append(fields, f)
	}
	return fields
}

// resolveLayout returns the layout of a primitive, a known struct or a fixed-size array of either.
func resolveLayout(typeName string, known map[string]StructLayout) (TypeLayout, bool) {
	if l, ok := hostLayouts[typeName]; ok {
		return l, true
	}
	if s, ok := known[typeName]; ok {
		return TypeLayout{Size: s.Size, Align: s.Align}, true
	}
	if strings.HasPrefix(typeName, "array<") && strings.HasSuffix(typeName, ">") {
		elem, count, ok := strings.Cut(typeName[6:len(typeName)-1], ",")
		if !ok {
			return TypeLayout{}, false
		}
		el, ok := resolveLayout(strings.TrimSpace(elem), known)
		if !ok {
			return TypeLayout{}, false
		}
		n, err := strconv.ParseUint(strings.TrimSpace(count), 10, 64)
		if err != nil {
			return TypeLayout{}, false
		}
		return TypeLayout{Size: n * roundUp(el.Align, el.Size), Align: el.Align}, true
	}
	return TypeLayout{}, false
}

func layoutStruct(d structDecl, known map[string]StructLayout) (StructLayout, bool) {
	s := StructLayout{Name: d.name, Align: 1}
	var offset uint64
	for _, f := range d.fields {
		if f.builtin || f.location >= 0 {
			// Stage IO structs are not host-shareable.
			return StructLayout{}, false
		}
		l, ok := resolveLayout(f.typeName, known)
		if !ok {
			return StructLayout{}, false
		}
		offset = roundUp(l.Align, offset)
		s.Fields = append(s.Fields, FieldLayout{Name: f.name, Type: f.typeName, Offset: offset, Size: l.Size})
		offset += l.Size
		if l.Align > s.Align {
			s.Align = l.Align
		}
	}
	s.Size = roundUp(s.Align, offset)
	return s, true
}

// parseStructLayouts lays out every host-shareable struct in the source. Structs that nest other
// structs are resolved once their members are known.
func parseStructLayouts(source string) map[string]StructLayout {
	remaining := parseStructs(source)
	known := make(map[string]StructLayout, len(remaining))
	for len(remaining) > 0 {
		next := remaining[:0]
		for _, d := range remaining {
			if s, ok := layoutStruct(d, known); ok {
				known[d.name] = s
			} else {
				next = append(next, d)
			}
		}
		if len(next) == len(remaining) {
			break
		}
		remaining = next
	}
	return known
}

// parseVertexLayouts builds one vertex buffer layout per pure vertex input struct, i.e. structs with
// @location members and no @builtin member.
func parseVertexLayouts(source string) []wgpu.VertexBufferLayout {
	var out []wgpu.VertexBufferLayout
structs:
	for _, d := range parseStructs(source) {
		hasLocation := false
		for _, f := range d.fields {
			if f.builtin {
				continue structs
			}
			hasLocation = hasLocation || f.location >= 0
		}
		if !hasLocation {
			continue
		}

		var offset uint64
		attrs := make([]wgpu.VertexAttribute, 0, len(d.fields))
		for _, f := range d.fields {
			vf, ok := vertexFormats[f.typeName]
			if !ok {
				continue structs
			}
			attrs = append(attrs, wgpu.VertexAttribute{
				Format:         vf.format,
				Offset:         offset,
				ShaderLocation: uint32(f.location),
			})
			offset += vf.size
		}
		out = append(out, wgpu.VertexBufferLayout{
			ArrayStride: offset,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes:  attrs,
		})
	}
	return out
}

// parseBindings reflects every @group/@binding declaration, sorted by group then binding.
// Uniform buffers get their MinBindingSize from the bound struct.
func parseBindings(source string, visibility wgpu.ShaderStage, structs map[string]StructLayout) []Binding {
	var out []Binding
	for _, m := range bindingRegex.FindAllStringSubmatch(source, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		b := Binding{
			Group:   group,
			Binding: binding,
			Name:    m[4],
			Type:    strings.TrimSpace(m[5]),
		}
		b.Entry = classify(uint32(binding), visibility, strings.TrimSpace(m[3]), b.Type)
		if b.Entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := resolveLayout(b.Type, structs); ok {
				b.Entry.Buffer.MinBindingSize = l.Size
			}
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Binding < out[j].Binding
	})
	return out
}

func classify(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}
	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.Contains(addressSpace, "read_write") {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeNonFiltering
	case typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case typeName == "texture_depth_2d":
		entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	case strings.HasPrefix(typeName, "texture_2d<"):
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
		_, param, _ := strings.Cut(strings.TrimSuffix(typeName, ">"), "<")
		entry.Texture.SampleType = sampleTypes[strings.TrimSpace(param)]
	}
	return entry
}

func parseEntryPoint(source string, stage Stage) string {
	re := fragmentEntry
	if stage == StageVertex {
		re = vertexEntry
	}
	if m := re.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	return ""
}

// splitTopLevel splits at commas outside angle brackets, so array<T, N> stays whole.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// stripComments removes line comments and nested block comments.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			case depth == 0 && source[i] == '/' && source[i+1] == '/':
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
