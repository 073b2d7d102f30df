package backend

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// paramsStruct is the uniform struct every program declares at binding 0.
const paramsStruct = "Params"

// programPipeline is a compiled full-screen program for one destination format.
type programPipeline struct {
	shader   shader.Shader
	params   shader.StructLayout
	layout   *wgpu.BindGroupLayout
	plLayout *wgpu.PipelineLayout
	pipeline *wgpu.RenderPipeline
	uniform  *wgpu.Buffer
}

// compileProgram reflects p, prepends the full-screen vertex stage and checks that every declared
// texture is bound by the source.
func compileProgram(p *renderer.Program) (shader.Shader, shader.StructLayout, error) {
	sh, err := shader.NewShader(p.Name, "//@oxy:include fullscreen\n"+p.Source)
	if err != nil {
		return nil, shader.StructLayout{}, err
	}
	params, ok := sh.Struct(paramsStruct)
	if !ok {
		return nil, shader.StructLayout{}, fmt.Errorf("program %s: no host-shareable %s struct", p.Name, paramsStruct)
	}
	if _, ok := paramsBinding(sh); !ok {
		return nil, shader.StructLayout{}, fmt.Errorf("program %s: %s is not bound as a uniform", p.Name, paramsStruct)
	}
	for _, name := range p.Textures {
		if _, ok := sh.Binding(name); !ok {
			return nil, shader.StructLayout{}, fmt.Errorf("program %s: texture %q is not bound", p.Name, name)
		}
	}
	return sh, params, nil
}

func paramsBinding(sh shader.Shader) (shader.Binding, bool) {
	for _, b := range sh.Bindings() {
		if b.Type == paramsStruct && b.Entry.Buffer.Type == wgpu.BufferBindingTypeUniform {
			return b, true
		}
	}
	return shader.Binding{}, false
}

func (b *backend) program(p *renderer.Program, format wgpu.TextureFormat) (*programPipeline, error) {
	key := fmt.Sprintf("%s|%v", p.Name, format)
	if pp, ok := b.programs[key]; ok {
		return pp, nil
	}

	sh, params, err := compileProgram(p)
	if err != nil {
		return nil, err
	}
	pp := &programPipeline{shader: sh, params: params}

	desc := sh.BindGroupLayoutDescriptors()[0]
	if pp.layout, err = b.device.CreateBindGroupLayout(&desc); err != nil {
		return nil, fmt.Errorf("program %s: %w", p.Name, err)
	}
	pp.plLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.Name,
		BindGroupLayouts: []*wgpu.BindGroupLayout{pp.layout},
	})
	if err != nil {
		pp.release()
		return nil, fmt.Errorf("program %s: %w", p.Name, err)
	}

	module, err := b.device.CreateShaderModule(sh.Module())
	if err != nil {
		pp.release()
		return nil, fmt.Errorf("program %s: failed to compile: %w", p.Name, err)
	}
	defer module.Release()

	pp.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  key,
		Layout: pp.plLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: sh.EntryPoint(shader.StageVertex),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: sh.EntryPoint(shader.StageFragment),
			Targets: []wgpu.ColorTargetState{
				{Format: format, WriteMask: wgpu.ColorWriteMaskAll},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
			CullMode: wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		pp.release()
		return nil, fmt.Errorf("program %s: failed to create pipeline: %w", p.Name, err)
	}

	pp.uniform, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: p.Name + " params",
		Size:  (params.Size + 15) &^ 15,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		pp.release()
		return nil, fmt.Errorf("program %s: %w", p.Name, err)
	}

	b.programs[key] = pp
	logger.Debugf("created program pipeline %s", key)
	return pp, nil
}

func (pp *programPipeline) release() {
	if pp.uniform != nil {
		pp.uniform.Release()
	}
	if pp.pipeline != nil {
		pp.pipeline.Release()
	}
	if pp.plLayout != nil {
		pp.plLayout.Release()
	}
	if pp.layout != nil {
		pp.layout.Release()
	}
}

// textureEntries binds each program texture to its reflected binding.
func textureEntries(sh shader.Shader, p *renderer.Program, u renderer.Uniforms) ([]wgpu.BindGroupEntry, error) {
	entries := make([]wgpu.BindGroupEntry, 0, len(p.Textures))
	for _, name := range p.Textures {
		binding, _ := sh.Binding(name)
		tex, ok := u.Texture(name).(*gpuTexture)
		if !ok || tex == nil || tex.view == nil {
			return nil, fmt.Errorf("program %s: texture %q is unbound", p.Name, name)
		}
		if wantDepth := binding.Entry.Texture.SampleType == wgpu.TextureSampleTypeDepth; tex.depth != wantDepth {
			return nil, fmt.Errorf("program %s: texture %q depth=%t, binding expects depth=%t", p.Name, name, tex.depth, wantDepth)
		}
		entries = append(entries, wgpu.BindGroupEntry{Binding: uint32(binding.Binding), TextureView: tex.view})
	}
	return entries, nil
}

func (b *backend) RenderProgram(p *renderer.Program, u renderer.Uniforms, t renderer.Target) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	dst, err := b.destination(t)
	if errors.Is(err, errNoScreen) {
		return nil
	}
	if err != nil {
		return err
	}
	dst = dst.primary()

	pp, err := b.program(p, dst.formats[0])
	if err != nil {
		return err
	}
	data, err := packParams(pp.params, p, u)
	if err != nil {
		return err
	}
	entries, err := textureEntries(pp.shader, p, u)
	if err != nil {
		return err
	}
	params, _ := paramsBinding(pp.shader)
	entries = append(entries, wgpu.BindGroupEntry{Binding: uint32(params.Binding), Buffer: pp.uniform, Size: wgpu.WholeSize})

	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.Name,
		Layout:  pp.layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("program %s: %w", p.Name, err)
	}
	defer group.Release()
	b.queue.WriteBuffer(pp.uniform, 0, data)

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	pass := encoder.BeginRenderPass(dst.passDescriptor(b.clear, true, false, false))
	pass.SetPipeline(pp.pipeline)
	pass.SetBindGroup(0, group, nil)
	pass.Draw(3, 1, 0, 0)
	endErr := pass.End()
	pass.Release()
	if endErr != nil {
		encoder.Release()
		return fmt.Errorf("program %s: %w", p.Name, endErr)
	}
	return b.submit(encoder)
}
