package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-pulse/common"
)

func TestNewGameObjectDefaults(t *testing.T) {
	a := NewGameObject()
	b := NewGameObject(WithPosition(1, 2, 3), WithColor(common.Black))

	if a.ID() == b.ID() {
		t.Fatalf("IDs collide: %d", a.ID())
	}
	if !a.Enabled() || a.Color() != common.White {
		t.Errorf("defaults = enabled %t color %v, want enabled white", a.Enabled(), a.Color())
	}
	if a.ModelMatrix() != common.Identity4() {
		t.Errorf("default model matrix = %v, want identity", a.ModelMatrix())
	}
	if x, y, z := b.Position(); x != 1 || y != 2 || z != 3 {
		t.Errorf("position = (%v, %v, %v), want (1, 2, 3)", x, y, z)
	}
}

func TestModelMatrixFollowsTransform(t *testing.T) {
	g := NewGameObject(WithTransform(Transform{Scale: common.Vec3{2, 2, 2}}))
	g.SetPosition(0, 1, 0)

	got := g.ModelMatrix().Project(common.Vec3{1, 0, 0})
	if got != (common.Vec3{2, 1, 0}) {
		t.Errorf("transformed point = %v, want (2, 1, 0)", got)
	}
	if g.ModelMatrix() != g.Transform().Matrix() {
		t.Error("ModelMatrix disagrees with Transform().Matrix()")
	}
}
