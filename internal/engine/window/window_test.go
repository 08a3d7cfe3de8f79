package window

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/x3d/internal/config"
)

func TestWindowFlags(t *testing.T) {
	cfg := config.Default().Window
	flags := windowFlags(cfg)
	for _, want := range []uint32{sdl.WINDOW_OPENGL, sdl.WINDOW_RESIZABLE, sdl.WINDOW_ALLOW_HIGHDPI} {
		if flags&want == 0 {
			t.Errorf("flags %#x missing %#x", flags, want)
		}
	}
	if flags&sdl.WINDOW_FULLSCREEN_DESKTOP == sdl.WINDOW_FULLSCREEN_DESKTOP {
		t.Error("windowed config requested fullscreen")
	}

	cfg.Fullscreen = true
	if windowFlags(cfg)&sdl.WINDOW_FULLSCREEN_DESKTOP != sdl.WINDOW_FULLSCREEN_DESKTOP {
		t.Error("fullscreen config missing WINDOW_FULLSCREEN_DESKTOP")
	}
}

func TestSwapInterval(t *testing.T) {
	if swapInterval(true) != 1 || swapInterval(false) != 0 {
		t.Error("vsync should map to interval 1, off to 0")
	}
}
