// Package camera holds the perspective camera moved by the joystick and used
// to cast picking rays through the viewport.
package camera

import (
	"math"

	"github.com/akmonengine/oasis/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera looks down its local -Z axis
type Camera struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Up       mgl64.Vec3

	Fovy          float64 // vertical field of view, degrees
	Near, Far     float64
	Width, Height float64 // viewport size in pixels
}

// New places a camera at position looking at target
func New(position, target mgl64.Vec3, fovy, near, far, width, height float64) *Camera {
	c := &Camera{
		Position: position,
		Rotation: mgl64.QuatIdent(),
		Up:       mgl64.Vec3{0, 1, 0},
		Fovy:     fovy,
		Near:     near,
		Far:      far,
		Width:    width,
		Height:   height,
	}
	c.LookAt(target)
	return c
}

// LookAt orients the camera towards target, keeping Up as the vertical reference
func (c *Camera) LookAt(target mgl64.Vec3) {
	f := target.Sub(c.Position)
	if f.Len() < mgl64.Epsilon {
		return
	}
	f = f.Normalize()

	r := f.Cross(c.Up)
	if r.Len() < mgl64.Epsilon {
		// Looking straight along Up: any horizontal right vector will do
		r = f.Cross(mgl64.Vec3{0, 0, -1})
	}
	r = r.Normalize()
	u := r.Cross(f)

	// Columns are the camera's local X, Y and Z axes in world space
	basis := mgl64.Mat3FromCols(r, u, f.Mul(-1))
	c.Rotation = mgl64.Mat4ToQuat(basis.Mat4()).Normalize()
}

// Forward is the world-space view direction
func (c *Camera) Forward() mgl64.Vec3 {
	return c.Rotation.Rotate(mgl64.Vec3{0, 0, -1})
}

// Aspect is the viewport width over height
func (c *Camera) Aspect() float64 {
	if c.Height == 0 {
		return 1
	}
	return c.Width / c.Height
}

// Resize updates the viewport after the window changed
func (c *Camera) Resize(width, height float64) {
	c.Width = width
	c.Height = height
}

func (c *Camera) ViewMatrix() mgl64.Mat4 {
	up := c.Rotation.Rotate(mgl64.Vec3{0, 1, 0})
	return mgl64.LookAtV(c.Position, c.Position.Add(c.Forward()), up)
}

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.Fovy), c.Aspect(), c.Near, c.Far)
}

// Center is the middle of the viewport, used for gaze aiming
func (c *Camera) Center() (float64, float64) {
	return c.Width / 2, c.Height / 2
}

// RayThrough casts a world-space ray from the camera through a pixel.
// Pixel coordinates grow right and down from the top-left corner.
func (c *Camera) RayThrough(x, y float64) actor.Ray {
	ndcX, ndcY := 0.0, 0.0
	if c.Width > 0 && c.Height > 0 {
		ndcX = 2*x/c.Width - 1
		ndcY = 1 - 2*y/c.Height
	}

	tanHalf := math.Tan(mgl64.DegToRad(c.Fovy) / 2)
	local := mgl64.Vec3{ndcX * tanHalf * c.Aspect(), ndcY * tanHalf, -1}

	return actor.NewRay(c.Position, c.Rotation.Rotate(local))
}

// HorizontalBasis returns the forward direction flattened onto the ground and
// the matching right direction, both normalized.
func (c *Camera) HorizontalBasis() (forward, right mgl64.Vec3) {
	forward = c.Forward()
	forward[1] = 0
	if forward.Len() < mgl64.Epsilon {
		// Looking straight down or up: the top of the screen points forward
		forward = c.Rotation.Rotate(mgl64.Vec3{0, 1, 0})
		if c.Forward().Y() > 0 {
			forward = forward.Mul(-1)
		}
		forward[1] = 0
	}
	forward = forward.Normalize()
	right = forward.Cross(c.Up).Normalize()
	return forward, right
}

// ApplyMovement translates the camera from a joystick direction.
// A negative delta.Y moves forward, a positive delta.X moves right. The height
// is clamped to floor afterwards. An idle joystick leaves the camera untouched
// and reports false.
func ApplyMovement(c *Camera, delta mgl64.Vec2, speed, floor float64) bool {
	if delta == (mgl64.Vec2{}) {
		return false
	}

	forward, right := c.HorizontalBasis()
	c.Position = c.Position.
		Add(forward.Mul(-delta.Y() * speed)).
		Add(right.Mul(delta.X() * speed))

	if c.Position.Y() < floor {
		c.Position[1] = floor
	}
	return true
}
