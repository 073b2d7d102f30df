package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-pulse/engine/game_object"
)

func TestAddIgnoresDuplicates(t *testing.T) {
	a := game_object.NewGameObject()
	b := game_object.NewGameObject()
	s := NewScene("test", WithObjects(a))

	s.Add(a, b, a)
	if got := len(s.Objects()); got != 2 {
		t.Fatalf("objects = %d, want 2", got)
	}

	s.Remove(a)
	objs := s.Objects()
	if len(objs) != 1 || objs[0].ID() != b.ID() {
		t.Fatalf("remove left %v", objs)
	}

	s.Clear()
	if len(s.Objects()) != 0 {
		t.Fatal("clear left objects behind")
	}
}

func TestOverrideMaterial(t *testing.T) {
	s := NewScene("test")
	if s.OverrideMaterial() != MaterialNone {
		t.Fatal("new scene must not override materials")
	}
	s.SetOverrideMaterial(MaterialDepth)
	if s.OverrideMaterial() != MaterialDepth {
		t.Fatalf("override = %v, want depth", s.OverrideMaterial())
	}
}
