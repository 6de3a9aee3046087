// Package input maps touch pointers on an on-screen joystick to a 2D direction.
package input

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Phase is the lifecycle step of a pointer event
type Phase uint8

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	PhaseCancel
)

// PointerEvent is a platform touch/pointer event decoded once at the boundary
type PointerEvent struct {
	ID    int64
	X, Y  float64
	Phase Phase
}

// PointerState tracks the single pointer currently driving the joystick
type PointerState struct {
	Active    bool
	PointerID int64
	Origin    mgl64.Vec2
	Offset    mgl64.Vec2
}

// Joystick converts pointer drags around Center into a direction of magnitude <= 1.
// Screen convention: +X right, +Y down, so dragging up yields a negative Y.
type Joystick struct {
	Center mgl64.Vec2
	Radius float64

	state     PointerState
	direction mgl64.Vec2
}

func NewJoystick(center mgl64.Vec2, radius float64) *Joystick {
	return &Joystick{Center: center, Radius: radius}
}

// Handle dispatches a decoded event and reports whether it changed the joystick
func (j *Joystick) Handle(event PointerEvent) bool {
	switch event.Phase {
	case PhaseDown:
		return j.PointerDown(event.ID, event.X, event.Y)
	case PhaseMove:
		return j.PointerMove(event.ID, event.X, event.Y)
	case PhaseUp:
		return j.PointerUp(event.ID)
	case PhaseCancel:
		j.PointerCancel()
		return true
	default:
		return false
	}
}

// PointerDown starts tracking id unless another pointer is already active.
// The origin is the control's center, not the touch point.
func (j *Joystick) PointerDown(id int64, x, y float64) bool {
	if j.state.Active {
		return false
	}

	j.state = PointerState{
		Active:    true,
		PointerID: id,
		Origin:    j.Center,
	}
	j.direction = mgl64.Vec2{}
	return true
}

func (j *Joystick) PointerMove(id int64, x, y float64) bool {
	if !j.state.Active || j.state.PointerID != id {
		return false
	}

	raw := mgl64.Vec2{x, y}.Sub(j.state.Origin)
	j.state.Offset = ClampPolar(raw, j.Radius)

	if j.Radius > 0 {
		j.direction = j.state.Offset.Mul(1 / j.Radius)
	}
	return true
}

func (j *Joystick) PointerUp(id int64) bool {
	if !j.state.Active || j.state.PointerID != id {
		return false
	}
	j.reset()
	return true
}

// PointerCancel releases whichever pointer is active
func (j *Joystick) PointerCancel() {
	j.reset()
}

func (j *Joystick) reset() {
	j.state = PointerState{}
	j.direction = mgl64.Vec2{}
}

// Direction is the current offset normalized by Radius, zero when idle
func (j *Joystick) Direction() mgl64.Vec2 {
	return j.direction
}

func (j *Joystick) State() PointerState {
	return j.state
}

// Idle reports whether there is nothing to apply this frame
func (j *Joystick) Idle() bool {
	return j.direction == (mgl64.Vec2{})
}

// ClampPolar rescales v to length r when it is longer, keeping its angle
func ClampPolar(v mgl64.Vec2, r float64) mgl64.Vec2 {
	length := v.Len()
	if length <= r || length == 0 {
		return v
	}
	return v.Mul(r / length)
}
