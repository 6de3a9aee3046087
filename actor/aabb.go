package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// unboundedExtent is the half-size past which an AABB is treated as infinite
const unboundedExtent = 1e9

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// IsUnbounded reports whether the box extends to "infinity" on any axis (planes)
func (a AABB) IsUnbounded() bool {
	for i := 0; i < 3; i++ {
		if a.Max[i]-a.Min[i] >= unboundedExtent {
			return true
		}
	}
	return false
}

// IntersectRay runs the slab test and returns the entry and exit parameters.
// ok is false when the ray misses or the box lies entirely behind the origin.
func (a AABB) IntersectRay(ray Ray) (tNear, tFar float64, ok bool) {
	tNear = math.Inf(-1)
	tFar = math.Inf(1)

	for i := 0; i < 3; i++ {
		o, d := ray.Origin[i], ray.Direction[i]
		if math.Abs(d) < mgl64.Epsilon {
			// Parallel to the slab: must already be inside it
			if o < a.Min[i] || o > a.Max[i] {
				return 0, 0, false
			}
			continue
		}

		inv := 1.0 / d
		t1 := (a.Min[i] - o) * inv
		t2 := (a.Max[i] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)
		if tNear > tFar {
			return 0, 0, false
		}
	}

	if tFar < 0 {
		return 0, 0, false
	}
	return tNear, tFar, true
}
