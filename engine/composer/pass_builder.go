package composer

// ShaderPassBuilderOption is a functional option applied to a shader pass on creation.
type ShaderPassBuilderOption func(*shaderPass)

// WithUniform sets the initial value of a uniform. Names the program does not declare are ignored.
//
// Parameters:
//   - name: the uniform name
//   - value: a float32, [2]float32 or renderer.Texture
//
// Returns:
//   - ShaderPassBuilderOption: option function to apply
func WithUniform(name string, value any) ShaderPassBuilderOption {
	return func(p *shaderPass) {
		if u, ok := p.uniforms[name]; ok {
			u.Value = value
		}
	}
}

// WithTextureID sets which texture uniform receives the read buffer.
//
// Parameters:
//   - id: the texture uniform name
//
// Returns:
//   - ShaderPassBuilderOption: option function to apply
func WithTextureID(id string) ShaderPassBuilderOption {
	return func(p *shaderPass) {
		p.textureID = id
	}
}

// WithName overrides the pass name, which defaults to the program name.
//
// Parameters:
//   - name: the pass name
//
// Returns:
//   - ShaderPassBuilderOption: option function to apply
func WithName(name string) ShaderPassBuilderOption {
	return func(p *shaderPass) {
		p.name = name
	}
}

