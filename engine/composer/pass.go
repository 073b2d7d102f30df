package composer

import (
	"github.com/Carmen-Shannon/oxy-pulse/engine/camera"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/scene"
)

// Pass is one stage of the post-processing pipeline.
type Pass interface {
	// Name identifies the pass in logs and errors.
	Name() string

	// Uniforms returns the pass' uniform bindings, or nil when it has none.
	// The composer writes the "resolution" entry every frame when present.
	//
	// Returns:
	//   - renderer.Uniforms: the uniform bindings
	Uniforms() renderer.Uniforms

	// Terminal reports whether the pass writes to the screen.
	Terminal() bool

	// SetTerminal marks the pass as the one writing to the screen.
	//
	// Parameters:
	//   - terminal: true to render to the screen
	SetTerminal(terminal bool)

	// NeedsSwap reports whether the pass writes into the write buffer, after which the composer
	// swaps read and write. Passes that draw into the read buffer return false.
	NeedsSwap() bool

	// Render runs the pass.
	//
	// Parameters:
	//   - r: the rendering service
	//   - read: the buffer holding the previous stage's output
	//   - write: the destination buffer, or nil when the pass is terminal
	//
	// Returns:
	//   - error: error if the underlying render fails
	Render(r renderer.Renderer, read, write renderer.Target) error
}

type renderPass struct {
	scn      scene.Scene
	cam      camera.Camera
	terminal bool
}

var _ Pass = &renderPass{}

// NewRenderPass creates the base pass that draws the scene into the read buffer.
//
// Parameters:
//   - scn: the scene to draw
//   - cam: the camera to draw from
//
// Returns:
//   - Pass: the scene pass
func NewRenderPass(scn scene.Scene, cam camera.Camera) Pass {
	return &renderPass{scn: scn, cam: cam}
}

func (p *renderPass) Name() string {
	return "render"
}

func (p *renderPass) Uniforms() renderer.Uniforms {
	return nil
}

func (p *renderPass) Terminal() bool {
	return p.terminal
}

func (p *renderPass) SetTerminal(terminal bool) {
	p.terminal = terminal
}

func (p *renderPass) NeedsSwap() bool {
	return false
}

func (p *renderPass) Render(r renderer.Renderer, read, write renderer.Target) error {
	dst := read
	if p.terminal {
		dst = nil
	}
	return r.Render(p.scn, p.cam, dst)
}

type shaderPass struct {
	name      string
	program   *renderer.Program
	uniforms  renderer.Uniforms
	textureID string
	terminal  bool
}

var _ Pass = &shaderPass{}

// NewShaderPass creates a full-screen pass running program over the read buffer.
// Every program param and texture gets a zero-valued uniform entry; the read buffer's
// color texture is bound to the "tDiffuse" texture unless WithTextureID says otherwise.
//
// Parameters:
//   - program: the full-screen program
//   - options: functional options for the pass
//
// Returns:
//   - Pass: the shader pass
func NewShaderPass(program *renderer.Program, options ...ShaderPassBuilderOption) Pass {
	p := &shaderPass{
		name:      program.Name,
		program:   program,
		uniforms:  make(renderer.Uniforms, len(program.Params)+len(program.Textures)),
		textureID: "tDiffuse",
	}
	for _, name := range program.Params {
		if program.Vec2Params[name] {
			p.uniforms[name] = &renderer.Uniform{Value: [2]float32{}}
		} else {
			p.uniforms[name] = &renderer.Uniform{Value: float32(0)}
		}
	}
	for _, name := range program.Textures {
		p.uniforms[name] = &renderer.Uniform{}
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *shaderPass) Name() string {
	return p.name
}

func (p *shaderPass) Uniforms() renderer.Uniforms {
	return p.uniforms
}

func (p *shaderPass) Terminal() bool {
	return p.terminal
}

func (p *shaderPass) SetTerminal(terminal bool) {
	p.terminal = terminal
}

func (p *shaderPass) NeedsSwap() bool {
	return true
}

func (p *shaderPass) Render(r renderer.Renderer, read, write renderer.Target) error {
	if u, ok := p.uniforms[p.textureID]; ok && read != nil {
		u.Value = read.Texture()
	}
	return r.RenderProgram(p.program, p.uniforms, write)
}

// NewSSAOPass creates the ambient occlusion pass bound to a depth source and the camera planes.
// Native depth textures and float-encoded depth targets use different program variants.
//
// Parameters:
//   - depth: the depth source texture
//   - near: the camera near plane
//   - far: the camera far plane
//
// Returns:
//   - Pass: the ambient occlusion pass
func NewSSAOPass(depth renderer.Texture, near, far float32) Pass {
	program := SSAOPackedProgram
	if depth.IsDepth() {
		program = SSAODepthProgram
	}
	return NewShaderPass(program,
		WithUniform("tDepth", depth),
		WithUniform("cameraNear", near),
		WithUniform("cameraFar", far),
		WithUniform("radius", float32(24)),
		WithUniform("aoClamp", float32(0.25)),
		WithUniform("lumInfluence", float32(0.7)),
	)
}

// NewBloomPass creates the bloom pass. Its program also applies the output gamma,
// so it is expected to be the terminal pass.
//
// Parameters:
//   - options: functional options overriding the bloom defaults
//
// Returns:
//   - Pass: the bloom pass
func NewBloomPass(options ...ShaderPassBuilderOption) Pass {
	defaults := []ShaderPassBuilderOption{
		WithUniform("threshold", float32(0.8)),
		WithUniform("strength", float32(0.6)),
		WithUniform("radius", float32(1.5)),
		WithUniform("gamma", float32(2.2)),
	}
	return NewShaderPass(BloomProgram, append(defaults, options...)...)
}
