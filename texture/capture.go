package texture

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// ErrCameraUnavailable covers a denied permission or a missing capture device
var ErrCameraUnavailable = errors.New("texture: camera unavailable")

// Stream is an open video stream
type Stream interface {
	// Snapshot copies the current frame into a pixel buffer
	Snapshot() (image.Image, error)
	Stop()
}

// Capturer opens the device stream; it fails when the user denies access
type Capturer interface {
	Open(ctx context.Context) (Stream, error)
}

// Capture grabs a single frame in the background. The stream is always
// stopped once the frame is taken, whether or not the snapshot succeeded.
func (l *Loader) Capture(ctx context.Context, capturer Capturer) *Future {
	f := newFuture()
	go func() {
		f.resolve(l.CaptureSync(ctx, capturer))
	}()
	return f
}

func (l *Loader) CaptureSync(ctx context.Context, capturer Capturer) (*Texture, error) {
	stream, err := capturer.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	defer stream.Stop()

	frame, err := stream.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot: %v", ErrCameraUnavailable, err)
	}
	return l.FromImage(frame, "camera")
}
