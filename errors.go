package oasis

import (
	"errors"

	"github.com/akmonengine/oasis/texture"
)

var (
	// ErrMissingCollaborator aborts setup: the scene cannot run without a renderer
	ErrMissingCollaborator = errors.New("oasis: renderer is required")

	ErrNoSelection   = errors.New("oasis: no object selected")
	ErrNoTexture     = errors.New("oasis: no texture loaded")
	ErrUnknownObject = errors.New("oasis: unknown object")
	ErrDuplicateName = errors.New("oasis: object name already registered")
	ErrUnsupported   = errors.New("oasis: unsupported primitive")
)

// Notifier shows a blocking notice to the user (alert dialog, toast, ...)
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

type silentNotifier struct{}

func (silentNotifier) Notify(string) {}

// noticeMessage turns a recoverable error into user-facing text
func noticeMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoSelection):
		return "Select an object first."
	case errors.Is(err, ErrNoTexture):
		return "Load a texture from a file or the camera first."
	case errors.Is(err, ErrUnknownObject):
		return "That object does not exist."
	case errors.Is(err, ErrDuplicateName):
		return "An object with that name already exists."
	case errors.Is(err, texture.ErrCameraUnavailable):
		return "The camera is unavailable or access was denied."
	case errors.Is(err, texture.ErrTooLarge):
		return "The image is too large."
	case errors.Is(err, texture.ErrDecode), errors.Is(err, texture.ErrSource):
		return "The image could not be loaded."
	default:
		return err.Error()
	}
}
