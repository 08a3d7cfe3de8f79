// Package input turns SDL2 events into viewer events and tracks held keys
// and buttons.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType tags an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
	EventFileDrop
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	// DeltaX and DeltaY are the relative motion of a mouse move, or the wheel
	// steps of a wheel event.
	DeltaX int
	DeltaY int
	Button uint8
	Path   string
}

// Input collects the events of one frame.
type Input struct {
	events  []Event
	keys    map[sdl.Scancode]bool
	buttons map[uint8]bool
	quit    bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		keys:    make(map[sdl.Scancode]bool),
		buttons: make(map[uint8]bool),
	}
}

// Update polls pending SDL events. Returns true once a quit was requested.
func (i *Input) Update() bool {
	i.Begin()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.Handle(event)
	}
	return i.quit
}

// Begin discards the previous frame's events.
func (i *Input) Begin() {
	i.events = i.events[:0]
}

// Handle translates one SDL event, updating held state.
func (i *Input) Handle(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.quit = true
		i.push(Event{Type: EventQuit})

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.push(Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)})
		}

	case *sdl.KeyboardEvent:
		code := e.Keysym.Scancode
		switch e.Type {
		case sdl.KEYDOWN:
			i.keys[code] = true
			i.push(Event{Type: EventKeyDown, Key: code, Repeat: e.Repeat != 0})
		case sdl.KEYUP:
			delete(i.keys, code)
			i.push(Event{Type: EventKeyUp, Key: code})
		}

	case *sdl.MouseMotionEvent:
		i.push(Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		})

	case *sdl.MouseButtonEvent:
		ev := Event{MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			i.buttons[e.Button] = true
			ev.Type = EventMouseDown
		case sdl.MOUSEBUTTONUP:
			delete(i.buttons, e.Button)
			ev.Type = EventMouseUp
		default:
			return
		}
		i.push(ev)

	case *sdl.MouseWheelEvent:
		dx, dy := int(e.X), int(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dx, dy = -dx, -dy
		}
		i.push(Event{Type: EventMouseWheel, DeltaX: dx, DeltaY: dy})

	case *sdl.DropEvent:
		if e.Type == sdl.DROPFILE {
			i.push(Event{Type: EventFileDrop, Path: e.File})
		}
	}
}

func (i *Input) push(e Event) {
	i.events = append(i.events, e)
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode && !e.Repeat {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether a key is currently held.
func (i *Input) IsKeyDown(scancode sdl.Scancode) bool {
	return i.keys[scancode]
}

// IsButtonDown reports whether a mouse button is currently held.
func (i *Input) IsButtonDown(button uint8) bool {
	return i.buttons[button]
}

// Axis returns 1 when positive is held, -1 when negative is held and 0 for
// neither or both.
func (i *Input) Axis(negative, positive sdl.Scancode) float32 {
	var v float32
	if i.keys[positive] {
		v++
	}
	if i.keys[negative] {
		v--
	}
	return v
}

// Quit reports whether a quit event has been received.
func (i *Input) Quit() bool {
	return i.quit
}
