package oasis

import (
	"context"

	"github.com/akmonengine/oasis/texture"
	"go.uber.org/zap"
)

// LoadTexture starts loading a file, URL or data: URL. The result becomes the
// current texture on a later Tick; it is attached to nothing until ApplyTexture.
func (s *Scene) LoadTexture(ctx context.Context, source string) *texture.Future {
	f := s.loader.Load(ctx, source)
	s.pending = append(s.pending, f)
	return f
}

// CaptureTexture snapshots one camera frame into a texture
func (s *Scene) CaptureTexture(ctx context.Context, capturer texture.Capturer) *texture.Future {
	f := s.loader.Capture(ctx, capturer)
	s.pending = append(s.pending, f)
	return f
}

// Poll consumes finished loads, in the order they were started. A failure
// keeps the previous texture current.
func (s *Scene) Poll() {
	n := 0
	for _, f := range s.pending {
		if !f.Ready() {
			s.pending[n] = f
			n++
			continue
		}

		tex, err := f.Result()
		if err != nil {
			_ = s.fail(err)
			s.Events.emit(TextureFailedEvent{Err: err})
			continue
		}

		s.texture = tex
		s.logger.Debug("texture ready", zap.String("id", tex.ID), zap.Int("width", tex.Width()), zap.Int("height", tex.Height()))
		s.Events.emit(TextureReadyEvent{Texture: tex})
	}
	clear(s.pending[n:])
	s.pending = s.pending[:n]
}

// PendingLoads is the number of loads not yet consumed by Poll
func (s *Scene) PendingLoads() int {
	return len(s.pending)
}

// Texture is the most recently loaded texture, nil before the first success
func (s *Scene) Texture() *texture.Texture {
	return s.texture
}

// ApplyTexture attaches the current texture to the named object, or to the
// selection when name is empty
func (s *Scene) ApplyTexture(name string) error {
	object, err := s.target(name)
	if err != nil {
		return s.fail(err)
	}
	if s.texture == nil {
		return s.fail(ErrNoTexture)
	}

	object.Material.Texture = s.texture
	s.logger.Debug("texture applied", zap.String("object", object.Name), zap.String("texture", s.texture.ID))
	return nil
}
