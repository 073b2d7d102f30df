package backend

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer/shader"
)

// packParams lays out the program's scalar and vec2 params at the member offsets of its Params
// struct. Members without a matching param stay zero.
//
// Parameters:
//   - layout: the reflected Params struct
//   - p: the program declaring the params
//   - u: the uniform values
//
// Returns:
//   - []byte: the uniform buffer contents, layout.Size bytes long
//   - error: error if a param has no member or the member has the wrong size
func packParams(layout shader.StructLayout, p *renderer.Program, u renderer.Uniforms) ([]byte, error) {
	buf := make([]byte, layout.Size)
	put := func(offset uint64, v float32) {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
	}
	for _, name := range p.Params {
		f, ok := layout.Field(name)
		if !ok {
			return nil, fmt.Errorf("program %s: param %q has no member in %s", p.Name, name, layout.Name)
		}
		if p.Vec2Params[name] {
			if f.Size != 8 {
				return nil, fmt.Errorf("program %s: param %q is a vec2 but %s is %s", p.Name, name, f.Name, f.Type)
			}
			v := u.Vec2(name)
			put(f.Offset, v[0])
			put(f.Offset+4, v[1])
			continue
		}
		if f.Size != 4 {
			return nil, fmt.Errorf("program %s: param %q is a scalar but %s is %s", p.Name, name, f.Name, f.Type)
		}
		put(f.Offset, u.Float(name))
	}
	return buf, nil
}
