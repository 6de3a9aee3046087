package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of pickable shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypePlane
)

// ShapeInterface is the interface that all pickable shapes must implement
type ShapeInterface interface {
	Type() ShapeType
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// Raycast returns the distance along the world-space ray to the first
	// surface hit, for the shape placed at transform
	Raycast(ray Ray, transform Transform) (float64, bool)
}

// Box represents an oriented box shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

func (b *Box) Type() ShapeType {
	return ShapeTypeBox
}

// ComputeAABB projects the rotated half-extents onto the world axes
func (b *Box) ComputeAABB(transform Transform) {
	rotation := transform.Rotation.Mat4().Mat3()

	var extent mgl64.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			extent[i] += math.Abs(rotation.At(i, j)) * b.HalfExtents[j]
		}
	}

	b.aabb = AABB{
		Min: transform.Position.Sub(extent),
		Max: transform.Position.Add(extent),
	}
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

// Raycast moves the ray into box space and runs a slab test against the half-extents.
// Rotation preserves length, so the local parameter is also the world distance.
func (b *Box) Raycast(ray Ray, transform Transform) (float64, bool) {
	local := transform.ToLocal(ray)
	box := AABB{Min: b.HalfExtents.Mul(-1), Max: b.HalfExtents}

	tNear, tFar, ok := box.IntersectRay(local)
	if !ok {
		return 0, false
	}
	if tNear >= 0 {
		return tNear, true
	}
	// Origin inside the box
	return tFar, true
}

// Sphere represents a spherical shape
type Sphere struct {
	Radius float64
	aabb   AABB
}

func (s *Sphere) Type() ShapeType {
	return ShapeTypeSphere
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	s.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

func (s *Sphere) Raycast(ray Ray, transform Transform) (float64, bool) {
	// |o + t*d - c|² = r², with |d| = 1
	oc := ray.Origin.Sub(transform.Position)
	b := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - c
	if discriminant < 0 {
		return 0, false
	}

	sq := math.Sqrt(discriminant)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Plane is an infinite surface through the transform position. Normal is
// given in local space and turned by the transform rotation:
// n · (p - position) + Distance = 0, with n the world normal
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64 // offset along Normal
	aabb     AABB
}

func (p *Plane) Type() ShapeType {
	return ShapeTypePlane
}

// ComputeAABB is a thin slab along an axis-aligned normal and infinite
// everywhere else. Tilted planes are infinite on every axis.
func (p *Plane) ComputeAABB(transform Transform) {
	const thickness = 1e-3
	const infinity = 1e10

	normal := p.worldNormal(transform)
	// Closest point of the surface to the transform origin
	surface := transform.Position.Sub(normal.Mul(p.Distance))

	for i := 0; i < 3; i++ {
		if math.Abs(normal[i]) > 1-mgl64.Epsilon {
			p.aabb.Min[i] = surface[i] - thickness
			p.aabb.Max[i] = surface[i] + thickness
			continue
		}
		p.aabb.Min[i] = -infinity
		p.aabb.Max[i] = infinity
	}
}

func (p *Plane) worldNormal(transform Transform) mgl64.Vec3 {
	if transform.Rotation == (mgl64.Quat{}) {
		return p.Normal
	}
	return transform.Rotation.Rotate(p.Normal).Normalize()
}

func (p *Plane) GetAABB() AABB {
	return p.aabb
}

// Raycast hits the plane from either side
func (p *Plane) Raycast(ray Ray, transform Transform) (float64, bool) {
	normal := p.worldNormal(transform)
	denom := normal.Dot(ray.Direction)
	if math.Abs(denom) < mgl64.Epsilon {
		return 0, false
	}

	origin := ray.Origin.Sub(transform.Position)
	t := -(normal.Dot(origin) + p.Distance) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}
