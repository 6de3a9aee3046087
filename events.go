package oasis

import (
	"github.com/akmonengine/oasis/actor"
	"github.com/akmonengine/oasis/texture"
)

const (
	HOVER_ENTER EventType = iota
	HOVER_EXIT
	SELECT
	DESELECT
	OBJECT_REGISTERED
	TEXTURE_READY
	TEXTURE_FAILED
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Hover events
type HoverEnterEvent struct {
	Object *actor.Object
}

func (e HoverEnterEvent) Type() EventType { return HOVER_ENTER }

type HoverExitEvent struct {
	Object *actor.Object
}

func (e HoverExitEvent) Type() EventType { return HOVER_EXIT }

// Selection events
type SelectEvent struct {
	Object *actor.Object
}

func (e SelectEvent) Type() EventType { return SELECT }

type DeselectEvent struct {
	Object *actor.Object
}

func (e DeselectEvent) Type() EventType { return DESELECT }

// Registry events
type ObjectRegisteredEvent struct {
	Object *actor.Object
}

func (e ObjectRegisteredEvent) Type() EventType { return OBJECT_REGISTERED }

// Texture events
type TextureReadyEvent struct {
	Texture *texture.Texture
}

func (e TextureReadyEvent) Type() EventType { return TEXTURE_READY }

type TextureFailedEvent struct {
	Err error
}

func (e TextureFailedEvent) Type() EventType { return TEXTURE_FAILED }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 16),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// flush sends all buffered events in emission order and clears the buffer
func (e *Events) flush() {
	// Listeners may emit; those events go out on the next flush
	pending := e.buffer
	e.buffer = make([]Event, 0, cap(pending))

	for _, event := range pending {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
}
