package composer

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
)

//go:embed assets/ssao_common.wgsl
var ssaoCommonSource string

//go:embed assets/ssao_depth.wgsl
var ssaoDepthSource string

//go:embed assets/ssao_packed.wgsl
var ssaoPackedSource string

//go:embed assets/bloom.wgsl
var bloomSource string

// SSAODepthProgram reads depth straight from a native depth texture.
var SSAODepthProgram = &renderer.Program{
	Name:       "ssao.depth",
	Source:     ssaoCommonSource + "\n" + ssaoDepthSource,
	Params:     []string{"resolution", "cameraNear", "cameraFar", "radius", "aoClamp", "lumInfluence"},
	Vec2Params: map[string]bool{"resolution": true},
	Textures:   []string{"tDiffuse", "tDepth"},
}

// SSAOPackedProgram reads depth from a float color target written by the depth material.
var SSAOPackedProgram = &renderer.Program{
	Name:       "ssao.packed",
	Source:     ssaoCommonSource + "\n" + ssaoPackedSource,
	Params:     []string{"resolution", "cameraNear", "cameraFar", "radius", "aoClamp", "lumInfluence"},
	Vec2Params: map[string]bool{"resolution": true},
	Textures:   []string{"tDiffuse", "tDepth"},
}

// BloomProgram thresholds, blurs and adds the bright parts of the input, then applies output gamma.
var BloomProgram = &renderer.Program{
	Name:       "bloom",
	Source:     bloomSource,
	Params:     []string{"resolution", "threshold", "strength", "radius", "gamma"},
	Vec2Params: map[string]bool{"resolution": true},
	Textures:   []string{"tDiffuse"},
}
