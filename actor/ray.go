package actor

import "github.com/go-gl/mathgl/mgl64"

// Ray is a half-line starting at Origin. Direction is expected to be normalized,
// so the ray parameter returned by intersection tests is a world distance.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay creates a ray and normalizes its direction
func NewRay(origin, direction mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
