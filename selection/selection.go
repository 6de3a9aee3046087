// Package selection tracks which object the player is aiming at (hover) and
// which one they picked (selection), and keeps the highlights in step.
//
// An object shows at most one highlight level. Selection always wins: a
// selected object keeps its selected tint while hovered, and only returns to
// hover or none when it is deselected or another object is selected.
package selection

import (
	"github.com/akmonengine/oasis/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Palette maps highlight levels to emissive tints
type Palette struct {
	Tint     mgl64.Vec3
	Hover    float64 // lower intensity
	Selected float64 // full intensity
}

func DefaultPalette() Palette {
	return Palette{
		Tint:     mgl64.Vec3{1, 0.85, 0.4},
		Hover:    0.35,
		Selected: 1.0,
	}
}

func (p Palette) Emissive(level actor.Highlight) mgl64.Vec3 {
	switch level {
	case actor.HighlightHovered:
		return p.Tint.Mul(p.Hover)
	case actor.HighlightSelected:
		return p.Tint.Mul(p.Selected)
	default:
		return mgl64.Vec3{}
	}
}

func (p Palette) apply(o *actor.Object, level actor.Highlight) {
	o.SetHighlight(level, p.Emissive(level))
}

// Transition describes what changed during one Hover, Select or Deselect call.
// Nil fields mean "no change".
type Transition struct {
	HoverExited  *actor.Object
	HoverEntered *actor.Object
	Deselected   *actor.Object
	Selected     *actor.Object
}

func (t Transition) Empty() bool {
	return t == Transition{}
}

// Selector owns the hover and selection references
type Selector struct {
	Palette Palette

	hovered  *actor.Object
	selected *actor.Object
}

func NewSelector(palette Palette) *Selector {
	return &Selector{Palette: palette}
}

func (s *Selector) Hovered() *actor.Object {
	return s.hovered
}

func (s *Selector) Selected() *actor.Object {
	return s.selected
}

// Hover makes candidate the hovered object; nil means the ray hit nothing.
func (s *Selector) Hover(candidate *actor.Object) Transition {
	if candidate == s.hovered {
		return Transition{}
	}

	previous := s.hovered
	if previous != nil && previous != s.selected {
		s.Palette.apply(previous, actor.HighlightNone)
	}

	s.hovered = candidate
	if candidate != nil && candidate != s.selected {
		s.Palette.apply(candidate, actor.HighlightHovered)
	}

	return Transition{HoverExited: previous, HoverEntered: candidate}
}

// Select runs on a discrete tap or click. The hovered object becomes the
// selection; tapping empty space clears the selection.
func (s *Selector) Select() Transition {
	if s.hovered == nil {
		return s.Deselect()
	}
	if s.hovered == s.selected {
		return Transition{}
	}

	previous := s.selected
	if previous != nil {
		s.Palette.apply(previous, actor.HighlightNone)
	}

	s.selected = s.hovered
	s.Palette.apply(s.selected, actor.HighlightSelected)

	return Transition{Deselected: previous, Selected: s.selected}
}

// Deselect clears the selection. If the player is still aiming at the object
// it falls back to the hover highlight.
func (s *Selector) Deselect() Transition {
	previous := s.selected
	if previous == nil {
		return Transition{}
	}

	s.selected = nil
	if previous == s.hovered {
		s.Palette.apply(previous, actor.HighlightHovered)
	} else {
		s.Palette.apply(previous, actor.HighlightNone)
	}

	return Transition{Deselected: previous}
}
