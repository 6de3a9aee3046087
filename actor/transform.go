package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and orientation in 3D space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// NewTransformAt creates a transform at position with no rotation
func NewTransformAt(position mgl64.Vec3) Transform {
	t := NewTransform()
	t.Position = position
	return t
}

// SetRotation replaces the orientation and keeps InverseRotation in sync
func (t *Transform) SetRotation(rotation mgl64.Quat) {
	t.Rotation = rotation.Normalize()
	t.InverseRotation = t.Rotation.Inverse()
}

// Rotate applies a world-space rotation of angle radians around axis
func (t *Transform) Rotate(angle float64, axis mgl64.Vec3) {
	t.SetRotation(mgl64.QuatRotate(angle, axis).Mul(t.Rotation))
}

// ToLocal converts a world-space ray into the transform's local space
func (t Transform) ToLocal(ray Ray) Ray {
	return Ray{
		Origin:    t.InverseRotation.Rotate(ray.Origin.Sub(t.Position)),
		Direction: t.InverseRotation.Rotate(ray.Direction),
	}
}
