// Package shader reflects WGSL modules: entry points, vertex inputs, resource bindings and uniform
// struct layouts, so pipelines and bind groups can be built without hand-written descriptors.
package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota

	// StageFragment is the fragment stage.
	StageFragment
)

type shader struct {
	key         string
	source      string
	entryPoints map[Stage]string
	vertex      []wgpu.VertexBufferLayout
	bindings    []Binding
	structs     map[string]StructLayout
	module      *wgpu.ShaderModuleDescriptor
}

// Shader is a preprocessed and reflected WGSL module holding a vertex and a fragment stage.
type Shader interface {
	// Key returns the unique identifier of the shader, used for caching and labels.
	Key() string

	// Source returns the preprocessed WGSL source.
	Source() string

	// EntryPoint returns the entry point name of a stage, or an empty string if the module has none.
	//
	// Parameters:
	//   - stage: the pipeline stage
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint(stage Stage) string

	// VertexLayouts returns one buffer layout per vertex input struct, in declaration order.
	VertexLayouts() []wgpu.VertexBufferLayout

	// Bindings returns every resource binding sorted by group and binding index.
	Bindings() []Binding

	// Binding looks up a resource binding by variable name.
	//
	// Parameters:
	//   - name: the WGSL variable name
	//
	// Returns:
	//   - Binding: the reflected binding
	//   - bool: false if no resource has that name
	Binding(name string) (Binding, bool)

	// BindGroupLayoutDescriptors groups the binding layout entries by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: the layout descriptors keyed by group
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// Struct returns the buffer layout of a host-shareable struct.
	//
	// Parameters:
	//   - name: the struct name
	//
	// Returns:
	//   - StructLayout: the computed layout
	//   - bool: false if the struct is unknown or not host-shareable
	Struct(name string) (StructLayout, bool)

	// Module returns the shader module descriptor for the preprocessed source.
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader preprocesses and reflects a WGSL module.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: the WGSL source, possibly with include directives
//
// Returns:
//   - Shader: the reflected shader
//   - error: error if preprocessing fails or the module has no fragment entry point
func NewShader(key string, source string) (Shader, error) {
	processed, err := Preprocess(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	cleaned := stripComments(processed)

	s := &shader{
		key:    key,
		source: processed,
		entryPoints: map[Stage]string{
			StageVertex:   parseEntryPoint(cleaned, StageVertex),
			StageFragment: parseEntryPoint(cleaned, StageFragment),
		},
		vertex:  parseVertexLayouts(cleaned),
		structs: parseStructLayouts(cleaned),
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: processed},
		},
	}
	if s.entryPoints[StageFragment] == "" {
		return nil, fmt.Errorf("shader %s: no @fragment entry point", key)
	}
	s.bindings = parseBindings(cleaned, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, s.structs)
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint(stage Stage) string {
	return s.entryPoints[stage]
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertex
}

func (s *shader) Bindings() []Binding {
	return s.bindings
}

func (s *shader) Binding(name string) (Binding, bool) {
	for _, b := range s.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	out := make(map[int]wgpu.BindGroupLayoutDescriptor)
	for _, b := range s.bindings {
		desc := out[b.Group]
		desc.Label = fmt.Sprintf("%s group %d", s.key, b.Group)
		desc.Entries = append(desc.Entries, b.Entry)
		out[b.Group] = desc
	}
	return out
}

func (s *shader) Struct(name string) (StructLayout, bool) {
	l, ok := s.structs[name]
	return l, ok
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
