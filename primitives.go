package oasis

import (
	"fmt"

	"github.com/akmonengine/oasis/actor"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Default primitive size matches a 1x1x1 cube
const primitiveHalfSize = 0.5

var primitiveColors = map[actor.Kind]mgl64.Vec3{
	actor.KindBox:    {0.76, 0.6, 0.42},
	actor.KindSphere: {0.3, 0.6, 0.9},
	actor.KindPlane:  {0.87, 0.72, 0.53},
}

// AddPrimitive places a box or sphere at position. An empty name is replaced
// by "<kind>-<n>"; an explicit name that is already taken is rejected.
func (s *Scene) AddPrimitive(kind actor.Kind, name string, position mgl64.Vec3) (*actor.Object, error) {
	var shape actor.ShapeInterface
	switch kind {
	case actor.KindBox:
		shape = &actor.Box{HalfExtents: mgl64.Vec3{primitiveHalfSize, primitiveHalfSize, primitiveHalfSize}}
	case actor.KindSphere:
		shape = &actor.Sphere{Radius: primitiveHalfSize}
	default:
		return nil, s.fail(fmt.Errorf("%w: %s", ErrUnsupported, kind))
	}

	if name == "" {
		name = s.nextName(kind)
	}

	object := actor.NewObject(name, kind, actor.NewTransformAt(position), shape, primitiveColors[kind])
	if err := s.Register(object); err != nil {
		return nil, err
	}
	return object, nil
}

// Register adds a pickable object and appends it to both UI pickers
func (s *Scene) Register(object *actor.Object) error {
	if _, exists := s.index[object.Name]; exists {
		return s.fail(fmt.Errorf("%w: %q", ErrDuplicateName, object.Name))
	}

	s.Objects = append(s.Objects, object)
	s.index[object.Name] = object
	s.Menu.TextureTargets = append(s.Menu.TextureTargets, object.Name)
	s.Menu.SpinTargets = append(s.Menu.SpinTargets, object.Name)

	s.logger.Debug("object registered",
		zap.String("name", object.Name),
		zap.Stringer("kind", object.Kind),
		zap.Int("count", len(s.Objects)),
	)
	s.Events.emit(ObjectRegisteredEvent{Object: object})
	return nil
}

// AddGround lays the desert floor at height. It is drawn but never picked.
func (s *Scene) AddGround(height float64) *actor.Object {
	ground := actor.NewObject("ground", actor.KindPlane, actor.NewTransformAt(mgl64.Vec3{0, height, 0}),
		&actor.Plane{Normal: mgl64.Vec3{0, 1, 0}}, primitiveColors[actor.KindPlane])
	s.Scenery = append(s.Scenery, ground)
	return ground
}

// Object looks up a registered object by name
func (s *Scene) Object(name string) (*actor.Object, bool) {
	object, ok := s.index[name]
	return object, ok
}

// ToggleSpin flips spinning on the named object, or on the selection when
// name is empty, and returns the new state
func (s *Scene) ToggleSpin(name string) (bool, error) {
	object, err := s.target(name)
	if err != nil {
		return false, s.fail(err)
	}

	object.Spin = !object.Spin
	s.logger.Debug("spin toggled", zap.String("object", object.Name), zap.Bool("spin", object.Spin))
	return object.Spin, nil
}

// target resolves a picker value: a name, or the current selection when empty
func (s *Scene) target(name string) (*actor.Object, error) {
	if name == "" {
		if selected := s.Selector.Selected(); selected != nil {
			return selected, nil
		}
		return nil, ErrNoSelection
	}

	object, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownObject, name)
	}
	return object, nil
}

func (s *Scene) nextName(kind actor.Kind) string {
	for n := len(s.Objects) + 1; ; n++ {
		name := fmt.Sprintf("%s-%d", kind, n)
		if _, taken := s.index[name]; !taken {
			return name
		}
	}
}
