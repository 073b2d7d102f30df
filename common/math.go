package common

import (
	"math"
	"unsafe"
)

// Vec3 is a three-component vector.
type Vec3 [3]float32

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := float32(math.Sqrt(float64(v.Dot(v))))
	if l == 0 {
		return v
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// Mat4 is a 4x4 matrix stored column-major, the layout WGSL mat4x4<f32> expects.
type Mat4 [16]float32

// Identity4 returns the identity matrix.
func Identity4() Mat4 {
	return Mat4{0: 1, 5: 1, 10: 1, 15: 1}
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Project transforms the point p by m and applies the perspective divide.
//
// Parameters:
//   - p: the point, with an implied w of 1
//
// Returns:
//   - Vec3: the transformed point in normalized device coordinates
func (m Mat4) Project(p Vec3) Vec3 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		out[row] = m[row]*p[0] + m[4+row]*p[1] + m[8+row]*p[2] + m[12+row]
	}
	if out[3] == 0 {
		return Vec3{out[0], out[1], out[2]}
	}
	return Vec3{out[0] / out[3], out[1] / out[3], out[2] / out[3]}
}

// Perspective builds a right-handed projection that maps view depth in [-near, -far] onto the
// WebGPU clip range [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width / height)
//   - near: near plane distance, > 0
//   - far: far plane distance, > near
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / float32(math.Tan(float64(fovY)/2))
	return Mat4{
		0:  f / aspect,
		5:  f,
		10: far / (near - far),
		11: -1,
		14: near * far / (near - far),
	}
}

// LookAt builds the view matrix of an eye at eye looking at center.
// Degenerate inputs (eye on center, up parallel to the view direction) leave the affected axis zero.
//
// Parameters:
//   - eye: the eye position
//   - center: the point looked at
//   - up: the approximate up direction
//
// Returns:
//   - Mat4: the world-to-view matrix
func LookAt(eye, center, up Vec3) Mat4 {
	z := eye.Sub(center).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)
	return Mat4{
		x[0], y[0], z[0], 0,
		x[1], y[1], z[1], 0,
		x[2], y[2], z[2], 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// Compose builds a model matrix T * Ry * Rx * Rz * S.
//
// Parameters:
//   - position: the translation
//   - rotation: Euler angles in radians around x, y and z
//   - scale: the per-axis scale
//
// Returns:
//   - Mat4: the model matrix
func Compose(position, rotation, scale Vec3) Mat4 {
	sx, cx := math.Sincos(float64(rotation[0]))
	sy, cy := math.Sincos(float64(rotation[1]))
	sz, cz := math.Sincos(float64(rotation[2]))
	rx := Mat4{0: 1, 5: float32(cx), 6: float32(sx), 9: float32(-sx), 10: float32(cx), 15: 1}
	ry := Mat4{0: float32(cy), 2: float32(-sy), 5: 1, 8: float32(sy), 10: float32(cy), 15: 1}
	rz := Mat4{0: float32(cz), 1: float32(sz), 4: float32(-sz), 5: float32(cz), 10: 1, 15: 1}

	m := ry.Mul(rx).Mul(rz)
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			m[col*4+row] *= scale[col]
		}
	}
	m[12], m[13], m[14] = position[0], position[1], position[2]
	return m
}

// SliceToBytes views a slice as raw bytes for buffer uploads. The result aliases data.
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(zero))*len(data))
}

// StructToBytes views *v as raw bytes for uniform uploads. The result aliases v.
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}
