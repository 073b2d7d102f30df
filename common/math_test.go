package common

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func nearVec(a, b Vec3) bool {
	return near(a[0], b[0]) && near(a[1], b[1]) && near(a[2], b[2])
}

func TestIdentityMul(t *testing.T) {
	m := Compose(Vec3{1, 2, 3}, Vec3{0.3, 0.5, 0.7}, Vec3{2, 2, 2})
	if got := Identity4().Mul(m); got != m {
		t.Errorf("I * m = %v, want %v", got, m)
	}
	if got := m.Mul(Identity4()); got != m {
		t.Errorf("m * I = %v, want %v", got, m)
	}
}

func TestLookAtCentersTarget(t *testing.T) {
	eye, center := Vec3{0, 1.5, 6}, Vec3{0, 1, 0}
	vp := Perspective(math.Pi/4, 16.0/9, 0.1, 100).Mul(LookAt(eye, center, Vec3{0, 1, 0}))

	p := vp.Project(center)
	if !near(p[0], 0) || !near(p[1], 0) {
		t.Errorf("target projects to (%v, %v), want screen center", p[0], p[1])
	}
	if p[2] <= 0 || p[2] >= 1 {
		t.Errorf("target depth = %v, want in (0, 1)", p[2])
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(math.Pi/4, 1, 0.1, 100)
	if got := proj.Project(Vec3{0, 0, -0.1})[2]; !near(got, 0) {
		t.Errorf("near plane depth = %v, want 0", got)
	}
	if got := proj.Project(Vec3{0, 0, -100})[2]; !near(got, 1) {
		t.Errorf("far plane depth = %v, want 1", got)
	}
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name     string
		position Vec3
		rotation Vec3
		scale    Vec3
		in, want Vec3
	}{
		{name: "translate", position: Vec3{1, 2, 3}, scale: Vec3{1, 1, 1}, in: Vec3{0, 0, 0}, want: Vec3{1, 2, 3}},
		{name: "scale", scale: Vec3{2, 3, 4}, in: Vec3{1, 1, 1}, want: Vec3{2, 3, 4}},
		{name: "yaw", rotation: Vec3{0, math.Pi / 2, 0}, scale: Vec3{1, 1, 1}, in: Vec3{1, 0, 0}, want: Vec3{0, 0, -1}},
		{name: "pitch", rotation: Vec3{math.Pi / 2, 0, 0}, scale: Vec3{1, 1, 1}, in: Vec3{0, 1, 0}, want: Vec3{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(tt.position, tt.rotation, tt.scale).Project(tt.in)
			if !nearVec(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize(0) = %v, want 0", got)
	}
}
