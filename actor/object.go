package actor

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Kind is the primitive an object was created from
type Kind int

const (
	KindBox Kind = iota
	KindSphere
	KindPlane
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindSphere:
		return "sphere"
	case KindPlane:
		return "plane"
	default:
		return "unknown"
	}
}

// Highlight is the visual state driven by hover and selection
type Highlight uint8

const (
	HighlightNone Highlight = iota
	HighlightHovered
	HighlightSelected
)

func (h Highlight) String() string {
	switch h {
	case HighlightHovered:
		return "hovered"
	case HighlightSelected:
		return "selected"
	default:
		return "none"
	}
}

// Texture is an image bound to a material. Renderers resolve it by ID.
type Texture interface {
	TextureID() string
}

type Material struct {
	Color    mgl64.Vec3 // albedo, 0-1 per channel
	Emissive mgl64.Vec3 // additive tint used for highlights
	Texture  Texture
}

// Object is a named, pickable primitive placed in the scene
type Object struct {
	Name      string
	Kind      Kind
	Transform Transform
	Material  Material
	Highlight Highlight

	// Spin makes the scene rotate the object around world Y every tick
	Spin bool

	Shape ShapeInterface
}

// NewObject creates an object and computes its bounds
func NewObject(name string, kind Kind, transform Transform, shape ShapeInterface, color mgl64.Vec3) *Object {
	if transform.Rotation == (mgl64.Quat{}) {
		transform.SetRotation(mgl64.QuatIdent())
	}

	o := &Object{
		Name:      name,
		Kind:      kind,
		Transform: transform,
		Material:  Material{Color: color},
		Shape:     shape,
	}
	o.Shape.ComputeAABB(o.Transform)

	return o
}

// SetHighlight applies a highlight level with its emissive tint.
// Re-applying the current state is a no-op and reports false.
func (o *Object) SetHighlight(level Highlight, emissive mgl64.Vec3) bool {
	if o.Highlight == level && o.Material.Emissive == emissive {
		return false
	}
	o.Highlight = level
	o.Material.Emissive = emissive
	return true
}

// Rotate turns the object around a world axis and refreshes its bounds
func (o *Object) Rotate(angle float64, axis mgl64.Vec3) {
	o.Transform.Rotate(angle, axis)
	o.Shape.ComputeAABB(o.Transform)
}

// MoveTo places the object at position and refreshes its bounds
func (o *Object) MoveTo(position mgl64.Vec3) {
	o.Transform.Position = position
	o.Shape.ComputeAABB(o.Transform)
}

// Raycast tests the ray against the cached AABB first, then the exact shape
func (o *Object) Raycast(ray Ray) (float64, bool) {
	aabb := o.Shape.GetAABB()
	if !aabb.IsUnbounded() {
		if _, _, ok := aabb.IntersectRay(ray); !ok {
			return 0, false
		}
	}
	return o.Shape.Raycast(ray, o.Transform)
}
