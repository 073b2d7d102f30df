package backend

import (
	_ "embed"
	"errors"
	"fmt"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/camera"
	"github.com/Carmen-Shannon/oxy-pulse/engine/game_object"
	"github.com/Carmen-Shannon/oxy-pulse/engine/model"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-pulse/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/mesh.wgsl
var meshSource string

// lightDir is the direction towards the key light in world space.
var lightDir = [4]float32{0.5, 1, 0.75, 0}

// objectUniform mirrors the Object struct of mesh.wgsl.
type objectUniform struct {
	ViewProjection common.Mat4
	Model          common.Mat4
	Color          [4]float32
	LightDir       [4]float32
}

type meshBuffers struct {
	vertex *wgpu.Buffer
	index  *wgpu.Buffer
	count  uint32
}

type objectBinding struct {
	uniform *wgpu.Buffer
	group   *wgpu.BindGroup
}

// meshRenderer draws scene objects. GPU buffers are cached per model key and per object ID.
type meshRenderer struct {
	b        *backend
	err      error
	shader   shader.Shader
	layout   *wgpu.BindGroupLayout
	plLayout *wgpu.PipelineLayout

	pipelines map[string]*wgpu.RenderPipeline
	models    map[uint64]*meshBuffers
	objects   map[uint64]*objectBinding
}

func newMeshRenderer(b *backend) *meshRenderer {
	m := &meshRenderer{
		b:         b,
		pipelines: make(map[string]*wgpu.RenderPipeline),
		models:    make(map[uint64]*meshBuffers),
		objects:   make(map[uint64]*objectBinding),
	}
	m.err = m.init()
	if m.err != nil {
		logger.Errorf("mesh renderer unavailable: %v", m.err)
	}
	return m
}

func (m *meshRenderer) init() error {
	sh, err := shader.NewShader("mesh", meshSource)
	if err != nil {
		return err
	}
	obj, ok := sh.Struct("Object")
	if !ok || obj.Size != uint64(unsafe.Sizeof(objectUniform{})) {
		return fmt.Errorf("Object uniform is %d bytes in WGSL, %d in Go", obj.Size, unsafe.Sizeof(objectUniform{}))
	}
	m.shader = sh

	desc, ok := sh.BindGroupLayoutDescriptors()[0]
	if !ok {
		return errors.New("mesh shader declares no group 0")
	}
	m.layout, err = m.b.device.CreateBindGroupLayout(&desc)
	if err != nil {
		return fmt.Errorf("failed to create mesh bind group layout: %w", err)
	}
	m.plLayout, err = m.b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "mesh",
		BindGroupLayouts: []*wgpu.BindGroupLayout{m.layout},
	})
	if err != nil {
		return fmt.Errorf("failed to create mesh pipeline layout: %w", err)
	}
	return nil
}

// pipeline returns the pipeline for a material and attachment layout, creating it on first use.
func (m *meshRenderer) pipeline(material scene.Material, dst destination) (*wgpu.RenderPipeline, error) {
	key := material.String() + "|" + dst.key()
	if p, ok := m.pipelines[key]; ok {
		return p, nil
	}

	entry := "fs_main"
	switch {
	case material == scene.MaterialDepth:
		entry = "fs_depth"
	case len(dst.formats) > 1:
		entry = "fs_gbuffer"
	}
	targets := make([]wgpu.ColorTargetState, len(dst.formats))
	for i, f := range dst.formats {
		mask := wgpu.ColorWriteMaskAll
		if (entry == "fs_gbuffer" && i > 1) || (entry != "fs_gbuffer" && i > 0) {
			mask = wgpu.ColorWriteMaskNone
		}
		targets[i] = wgpu.ColorTargetState{Format: f, WriteMask: mask}
	}

	module, err := m.b.device.CreateShaderModule(m.shader.Module())
	if err != nil {
		return nil, fmt.Errorf("failed to compile mesh shader: %w", err)
	}
	defer module.Release()

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  "mesh " + key,
		Layout: m.plLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: m.shader.EntryPoint(shader.StageVertex),
			Buffers:    m.shader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: entry,
			Targets:    targets,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if dst.depth != nil {
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            dst.depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
	}
	p, err := m.b.device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create mesh pipeline %s: %w", key, err)
	}
	m.pipelines[key] = p
	logger.Debugf("created mesh pipeline %s", key)
	return p, nil
}

func (m *meshRenderer) buffers(mdl model.Model) (*meshBuffers, error) {
	if mb, ok := m.models[mdl.Key()]; ok {
		return mb, nil
	}
	vertex, err := m.b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: mdl.Name() + " vertices",
		Size:  uint64(len(mdl.VertexData())),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	index, err := m.b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: mdl.Name() + " indices",
		Size:  uint64(len(mdl.IndexData())),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vertex.Release()
		return nil, err
	}
	m.b.queue.WriteBuffer(vertex, 0, mdl.VertexData())
	m.b.queue.WriteBuffer(index, 0, mdl.IndexData())

	mb := &meshBuffers{vertex: vertex, index: index, count: uint32(mdl.IndexCount())}
	m.models[mdl.Key()] = mb
	return mb, nil
}

func (m *meshRenderer) binding(obj game_object.GameObject) (*objectBinding, error) {
	if ob, ok := m.objects[obj.ID()]; ok {
		return ob, nil
	}
	uniform, err := m.b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: fmt.Sprintf("object %d", obj.ID()),
		Size:  uint64(unsafe.Sizeof(objectUniform{})),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	group, err := m.b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  fmt.Sprintf("object %d", obj.ID()),
		Layout: m.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: uniform, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		uniform.Release()
		return nil, err
	}
	ob := &objectBinding{uniform: uniform, group: group}
	m.objects[obj.ID()] = ob
	return ob, nil
}

// prune releases the bindings of objects no longer in the scene.
func (m *meshRenderer) prune(live []game_object.GameObject) {
	keep := make(map[uint64]bool, len(live))
	for _, obj := range live {
		keep[obj.ID()] = true
	}
	for id, ob := range m.objects {
		if !keep[id] {
			ob.group.Release()
			ob.uniform.Release()
			delete(m.objects, id)
		}
	}
}

func (m *meshRenderer) release() {
	for _, p := range m.pipelines {
		p.Release()
	}
	for _, mb := range m.models {
		mb.vertex.Release()
		mb.index.Release()
	}
	m.prune(nil)
	if m.plLayout != nil {
		m.plLayout.Release()
	}
	if m.layout != nil {
		m.layout.Release()
	}
}

func (b *backend) Render(s scene.Scene, c camera.Camera, t renderer.Target) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.meshes.err != nil {
		return b.meshes.err
	}
	dst, err := b.destination(t)
	if errors.Is(err, errNoScreen) {
		return nil
	}
	if err != nil {
		return err
	}

	material := s.OverrideMaterial()
	pipeline, err := b.meshes.pipeline(material, dst)
	if err != nil {
		return err
	}

	// The override path clears with the renderer clear color, the scene path with its background.
	bg := b.clear
	if material == scene.MaterialNone {
		bg = s.Background()
	}

	objects := s.Objects()
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	pass := encoder.BeginRenderPass(dst.passDescriptor(bg, true, true, true))
	pass.SetPipeline(pipeline)

	vp := c.ViewProjection()
	var drawErr error
	for _, obj := range objects {
		if !obj.Enabled() || obj.Model() == nil {
			continue
		}
		mb, err := b.meshes.buffers(obj.Model())
		if err != nil {
			drawErr = err
			break
		}
		ob, err := b.meshes.binding(obj)
		if err != nil {
			drawErr = err
			break
		}
		col := obj.Color()
		u := objectUniform{
			ViewProjection: vp,
			Model:          obj.ModelMatrix(),
			Color:          [4]float32{col.R, col.G, col.B, col.A},
			LightDir:       lightDir,
		}
		b.queue.WriteBuffer(ob.uniform, 0, common.StructToBytes(&u))

		pass.SetBindGroup(0, ob.group, nil)
		pass.SetVertexBuffer(0, mb.vertex, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(mb.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(mb.count, 1, 0, 0, 0)
	}
	if err := pass.End(); err != nil && drawErr == nil {
		drawErr = err
	}
	pass.Release()
	if drawErr != nil {
		encoder.Release()
		return fmt.Errorf("failed to encode scene %s: %w", s.Name(), drawErr)
	}
	if err := b.submit(encoder); err != nil {
		return err
	}
	if material == scene.MaterialNone {
		b.meshes.prune(objects)
	}
	return nil
}
