package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-pulse/common"
	"github.com/Carmen-Shannon/oxy-pulse/engine/game_object"
)

// Material selects how the renderer shades scene objects.
type Material int

const (
	// MaterialNone means no override: every object is drawn with its own lit surface color.
	MaterialNone Material = iota

	// MaterialDepth encodes per-pixel depth into the color output (basic depth packing, no blending).
	MaterialDepth
)

// String returns the material name used in logs.
func (m Material) String() string {
	switch m {
	case MaterialDepth:
		return "depth"
	default:
		return "none"
	}
}

type scene struct {
	mu *sync.Mutex

	name       string
	objects    []game_object.GameObject
	override   Material
	background common.Color
}

// Scene is the ordered collection of objects the renderer draws, plus the global
// material override used by depth capture.
type Scene interface {
	// Name returns the scene name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Add appends objects to the scene. Objects already present are ignored.
	//
	// Parameters:
	//   - objects: the objects to add
	Add(objects ...game_object.GameObject)

	// Remove removes an object from the scene. Missing objects are ignored.
	//
	// Parameters:
	//   - obj: the object to remove
	Remove(obj game_object.GameObject)

	// Clear removes every object from the scene.
	Clear()

	// Objects returns a snapshot of the scene objects in insertion order.
	//
	// Returns:
	//   - []game_object.GameObject: the objects
	Objects() []game_object.GameObject

	// OverrideMaterial returns the material every object is currently drawn with.
	//
	// Returns:
	//   - Material: the override, MaterialNone when objects use their own material
	OverrideMaterial() Material

	// SetOverrideMaterial globally overrides the material of every object.
	//
	// Parameters:
	//   - m: the override, MaterialNone to remove it
	SetOverrideMaterial(m Material)

	// Background returns the scene background color.
	//
	// Returns:
	//   - common.Color: the background color
	Background() common.Color

	// SetBackground sets the scene background color.
	//
	// Parameters:
	//   - c: the background color
	SetBackground(c common.Color)
}

var _ Scene = &scene{}

// NewScene creates a new, empty Scene.
//
// Parameters:
//   - name: the scene name
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:         &sync.Mutex{},
		name:       name,
		background: common.White,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Add(objects ...game_object.GameObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, obj := range objects {
		if obj == nil || s.indexOf(obj) >= 0 {
			continue
		}
		s.objects = append(s.objects, obj)
	}
}

func (s *scene) Remove(obj game_object.GameObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(obj); i >= 0 {
		s.objects = append(s.objects[:i], s.objects[i+1:]...)
	}
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = nil
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]game_object.GameObject, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *scene) OverrideMaterial() Material {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.override
}

func (s *scene) SetOverrideMaterial(m Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = m
}

func (s *scene) Background() common.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.background
}

func (s *scene) SetBackground(c common.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = c
}

// indexOf returns the position of obj in the object list, or -1.
// Caller must hold the mutex.
func (s *scene) indexOf(obj game_object.GameObject) int {
	for i, o := range s.objects {
		if o.ID() == obj.ID() {
			return i
		}
	}
	return -1
}
