package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestKeyState(t *testing.T) {
	in := New()
	in.Begin()
	in.Handle(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}})

	if !in.IsKeyPressed(sdl.SCANCODE_W) {
		t.Error("W should be pressed this frame")
	}
	if !in.IsKeyDown(sdl.SCANCODE_W) {
		t.Error("W should be held")
	}

	in.Begin()
	if in.IsKeyPressed(sdl.SCANCODE_W) {
		t.Error("pressed should only last one frame")
	}
	if !in.IsKeyDown(sdl.SCANCODE_W) {
		t.Error("W should still be held")
	}

	in.Handle(&sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}})
	if in.IsKeyDown(sdl.SCANCODE_W) {
		t.Error("W should be released")
	}
}

func TestKeyRepeat(t *testing.T) {
	in := New()
	in.Handle(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_G}})
	if in.IsKeyPressed(sdl.SCANCODE_G) {
		t.Error("repeats should not count as presses")
	}
	if len(in.Events()) != 1 || !in.Events()[0].Repeat {
		t.Errorf("events = %+v", in.Events())
	}
}

func TestAxis(t *testing.T) {
	in := New()
	if got := in.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W); got != 0 {
		t.Errorf("idle axis = %v", got)
	}
	in.Handle(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}})
	if got := in.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W); got != 1 {
		t.Errorf("forward axis = %v", got)
	}
	in.Handle(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_S}})
	if got := in.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W); got != 0 {
		t.Errorf("opposed axis = %v", got)
	}
}

func TestMouse(t *testing.T) {
	in := New()
	in.Handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 10, Y: 20})
	in.Handle(&sdl.MouseMotionEvent{X: 15, Y: 18, XRel: 5, YRel: -2})
	in.Handle(&sdl.MouseWheelEvent{Y: 1, Direction: sdl.MOUSEWHEEL_FLIPPED})

	if !in.IsButtonDown(sdl.BUTTON_LEFT) {
		t.Error("left button should be held")
	}
	events := in.Events()
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Type != EventMouseDown || events[0].MouseX != 10 {
		t.Errorf("down event = %+v", events[0])
	}
	if events[1].DeltaX != 5 || events[1].DeltaY != -2 {
		t.Errorf("move delta = %d,%d", events[1].DeltaX, events[1].DeltaY)
	}
	if events[2].Type != EventMouseWheel || events[2].DeltaY != -1 {
		t.Errorf("wheel event = %+v", events[2])
	}

	in.Handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT})
	if in.IsButtonDown(sdl.BUTTON_LEFT) {
		t.Error("left button should be released")
	}
}

func TestWindowAndQuit(t *testing.T) {
	in := New()
	in.Handle(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 640, Data2: 480})
	in.Handle(&sdl.QuitEvent{})

	if !in.Quit() {
		t.Error("Quit should be set")
	}
	events := in.Events()
	if events[0].Type != EventWindowResize || events[0].Width != 640 || events[0].Height != 480 {
		t.Errorf("resize event = %+v", events[0])
	}
	if events[1].Type != EventQuit {
		t.Errorf("quit event = %+v", events[1])
	}
}
