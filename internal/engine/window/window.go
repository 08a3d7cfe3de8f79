// Package window opens the SDL2 window the viewer renders into.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/x3d/internal/config"
	"github.com/Faultbox/x3d/internal/logger"
)

func init() {
	// SDL and OpenGL must stay on the main thread.
	runtime.LockOSThread()
}

// glAttributes select an OpenGL 4.1 core context, the newest macOS offers,
// with a 24-bit depth buffer.
var glAttributes = []struct {
	attr  sdl.GLattr
	value int
}{
	{sdl.GL_CONTEXT_MAJOR_VERSION, 4},
	{sdl.GL_CONTEXT_MINOR_VERSION, 1},
	{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
	{sdl.GL_DOUBLEBUFFER, 1},
	{sdl.GL_DEPTH_SIZE, 24},
}

// Window is an SDL2 window with a current OpenGL context.
type Window struct {
	win *sdl.Window
	ctx sdl.GLContext
	log *zap.Logger
}

func windowFlags(cfg config.WindowConfig) uint32 {
	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	return flags
}

func swapInterval(vsync bool) int {
	if vsync {
		return 1
	}
	return 0
}

// New initializes SDL video and creates the window. The GL context is made
// current on the calling thread.
func New(cfg config.WindowConfig) (*Window, error) {
	w := &Window{log: logger.Named("window")}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}
	for _, a := range glAttributes {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			sdl.Quit()
			return nil, fmt.Errorf("SDL_GL_SetAttribute(%d) failed: %w", a.attr, err)
		}
	}

	var err error
	w.win, err = sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), windowFlags(cfg))
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}
	if w.ctx, err = w.win.GLCreateContext(); err != nil {
		w.win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if interval := swapInterval(cfg.VSync); sdl.GLSetSwapInterval(interval) != nil {
		w.log.Warn("swap interval not supported", zap.Int("interval", interval))
	}

	dw, dh := w.DrawableSize()
	w.log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("drawableWidth", dw),
		zap.Int("drawableHeight", dh),
		zap.Bool("fullscreen", cfg.Fullscreen),
	)
	return w, nil
}

// Close releases the context and the window, then shuts SDL down.
func (w *Window) Close() {
	if w.ctx != nil {
		sdl.GLDeleteContext(w.ctx)
	}
	if w.win != nil {
		w.win.Destroy()
	}
	sdl.Quit()
	w.log.Debug("window closed")
}

func (w *Window) SwapBuffers() {
	w.win.GLSwap()
}

// Size returns the window size in screen coordinates, the unit of mouse
// events.
func (w *Window) Size() (int, int) {
	width, height := w.win.GetSize()
	return int(width), int(height)
}

// DrawableSize returns the framebuffer size in pixels. It is larger than
// Size on high-DPI displays.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.win.GLGetDrawableSize()
	return int(width), int(height)
}

// PixelScale returns DrawableSize divided by Size along x.
func (w *Window) PixelScale() float32 {
	sw, _ := w.Size()
	dw, _ := w.DrawableSize()
	if sw == 0 {
		return 1
	}
	return float32(dw) / float32(sw)
}

func (w *Window) SetTitle(title string) {
	w.win.SetTitle(title)
}
