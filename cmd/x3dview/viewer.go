package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/chewxy/math32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/x3d/internal/assets"
	"github.com/Faultbox/x3d/internal/config"
	"github.com/Faultbox/x3d/internal/engine/animate"
	"github.com/Faultbox/x3d/internal/engine/camera"
	"github.com/Faultbox/x3d/internal/engine/collision"
	"github.com/Faultbox/x3d/internal/engine/debug"
	"github.com/Faultbox/x3d/internal/engine/glrender"
	"github.com/Faultbox/x3d/internal/engine/input"
	"github.com/Faultbox/x3d/internal/engine/lightmap"
	"github.com/Faultbox/x3d/internal/engine/picking"
	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/internal/engine/window"
	"github.com/Faultbox/x3d/internal/logger"
	"github.com/Faultbox/x3d/pkg/geom"
	"github.com/Faultbox/x3d/pkg/math"
)

// lightMapTexture is the asset name baked light maps are saved under.
const lightMapTexture = "lightmap.png"

// clickSlop is how far in pixels the mouse may move before a press becomes
// a drag.
const clickSlop = 3

type viewer struct {
	cfg      *config.Config
	window   *window.Window
	renderer *glrender.Renderer
	input    *input.Input
	assets   *assets.Manager
	watcher  *assets.Watcher
	shots    *debug.Screenshots

	scene     *scene.Scene
	sceneName string
	controls  camera.Controls

	grid     *debug.Grid
	bounds   *debug.BoundsOverlay
	selected *scene.Node

	// Screen overlay, drawn after the scene with its own pixel projection.
	overlay *scene.Scene
	hud     *debug.HUD
	fps     float64
	stats   glrender.Stats

	// Walk mode
	mover     *collision.Mover
	triangles []geom.Triangle

	dragging   bool
	pressX     int
	pressY     int
	screenshot bool
	running    bool
}

func newViewer(cfg *config.Config) (*viewer, error) {
	dir, name, err := assetRoot(cfg.Scene)
	if err != nil {
		return nil, err
	}

	v := &viewer{
		cfg:       cfg,
		input:     input.New(),
		assets:    assets.NewManager(dir, animate.Registry()),
		shots:     debug.NewScreenshots(cfg.Debug.ScreenshotDir, "x3d"),
		sceneName: name,
		controls:  cfg.Camera.Controls(),
		grid:      debug.NewGrid(cfg.Debug.GridSize, cfg.Debug.GridSpacing),
		bounds:    debug.NewBoundsOverlay(),
		overlay:   scene.New(),
		hud:       debug.NewHUD(),
	}
	hudNode := scene.NewNode("hud")
	hudNode.SetEncodable(v.hud)
	v.overlay.Root.AddChild(hudNode)

	v.window, err = window.New(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := v.window.DrawableSize()
	v.renderer, err = glrender.New(glrender.Config{Width: w, Height: h}, v.assets)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if v.scene, err = loadScene(v.assets, name, cfg); err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	v.window.SetTitle(windowTitle(cfg.Window.Title, name))

	if cfg.Scene.Watch && name != "" {
		delay := time.Duration(cfg.Scene.ReloadDelayMS) * time.Millisecond
		if v.watcher, err = assets.NewWatcher(delay); err != nil {
			logger.Warn("scene reload disabled", zap.Error(err))
		} else if err := v.assets.Watch(v.watcher, name); err != nil {
			logger.Warn("scene reload disabled", zap.Error(err))
		}
	}

	logger.Info("viewer initialized",
		zap.String("assets", dir),
		zap.String("scene", name),
		zap.Int("triangles", len(collision.Gather(nil, v.scene.Root))),
	)
	return v, nil
}

// Close releases the window, renderer and watcher.
func (v *viewer) Close() {
	if v.watcher != nil {
		v.watcher.Close()
		v.watcher = nil
	}
	if v.renderer != nil {
		v.renderer.Close()
		v.renderer = nil
	}
	if v.window != nil {
		v.window.Close()
		v.window = nil
	}
}

// Run drives the frame loop until the window closes.
func (v *viewer) Run() error {
	v.running = true
	last := time.Now()
	fpsTimer := last
	frames := 0

	var minFrame time.Duration
	if v.cfg.Window.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(v.cfg.Window.FPSLimit)
	}

	logger.Info("starting frame loop")
	for v.running {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		if v.input.Update() {
			break
		}
		v.handleEvents()
		v.handleReload()
		v.update(dt)

		if err := v.draw(); err != nil {
			return fmt.Errorf("draw: %w", err)
		}
		if v.screenshot {
			v.screenshot = false
			v.capture()
		}
		v.window.SwapBuffers()

		frames++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			v.fps = float64(frames) / elapsed.Seconds()
			v.stats = v.renderer.Stats()
			frames = 0
			fpsTimer = time.Now()
		}

		if minFrame > 0 {
			if spent := time.Since(now); spent < minFrame {
				time.Sleep(minFrame - spent)
			}
		}
	}
	return nil
}

func (v *viewer) handleEvents() {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			w, h := v.window.DrawableSize()
			v.renderer.Resize(w, h)

		case input.EventMouseDown:
			if e.Button == sdl.BUTTON_LEFT {
				v.pressX, v.pressY = e.MouseX, e.MouseY
				v.dragging = false
			}

		case input.EventMouseMove:
			if !v.input.IsButtonDown(sdl.BUTTON_LEFT) {
				continue
			}
			if !v.dragging && (abs(e.MouseX-v.pressX) > clickSlop || abs(e.MouseY-v.pressY) > clickSlop) {
				v.dragging = true
			}
			if v.dragging {
				v.controls.HandleDrag(v.scene.Camera, float32(e.DeltaX), float32(e.DeltaY))
			}

		case input.EventMouseUp:
			if e.Button == sdl.BUTTON_LEFT && !v.dragging {
				v.pick(e.MouseX, e.MouseY)
			}
			v.dragging = false

		case input.EventMouseWheel:
			v.controls.HandleZoom(v.scene.Camera, float32(e.DeltaY))

		case input.EventFileDrop:
			v.open(e.Path)

		case input.EventKeyDown:
			if !e.Repeat {
				v.handleKey(e.Key)
			}
		}
	}
}

func (v *viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_G:
		v.cfg.Debug.ShowGrid = !v.cfg.Debug.ShowGrid
	case sdl.SCANCODE_B:
		v.cfg.Debug.ShowBounds = !v.cfg.Debug.ShowBounds
	case sdl.SCANCODE_H:
		v.cfg.Debug.ShowFPS = !v.cfg.Debug.ShowFPS
	case sdl.SCANCODE_F:
		v.frame()
	case sdl.SCANCODE_R:
		v.reload()
	case sdl.SCANCODE_L:
		v.bake()
	case sdl.SCANCODE_P, sdl.SCANCODE_F12:
		v.screenshot = true
	case sdl.SCANCODE_TAB:
		v.toggleWalk()
	case sdl.SCANCODE_SPACE:
		if v.mover != nil {
			v.mover.Jump(v.cfg.Physics.JumpSpeed)
		}
	}
}

func (v *viewer) update(dt float32) {
	forward := v.input.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W)
	right := v.input.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D)
	cam := v.scene.Camera

	if v.mover != nil {
		v.walk(forward, right, dt)
	} else {
		v.controls.HandleMovement(cam, forward, right, dt)
		if up := v.input.Axis(sdl.SCANCODE_Q, sdl.SCANCODE_E); up != 0 {
			cam.MoveUp(up * v.controls.PanSpeed * dt)
		}
	}

	v.scene.Update(dt)
	if v.cfg.Debug.ShowBounds {
		v.bounds.Rebuild(v.scene.Root, v.selected)
	}
}

func (v *viewer) draw() error {
	v.renderer.Begin(v.scene.BackgroundColor)
	w, h := v.window.DrawableSize()
	if err := v.scene.Encode(v.renderer, w, h); err != nil {
		return err
	}

	cam := v.scene.Camera
	ctx := render.Context{
		Encoder:    v.renderer,
		Projection: cam.Projection(),
		View:       cam.View(),
		Model:      math.Identity(),
		Time:       v.scene.Time,
	}
	if v.cfg.Debug.ShowGrid {
		if err := v.grid.Encode(&ctx); err != nil {
			return err
		}
	}
	if v.cfg.Debug.ShowBounds {
		if err := v.bounds.Encode(&ctx); err != nil {
			return err
		}
	}
	if v.cfg.Debug.ShowFPS {
		v.hud.SetText(hudText(v.fps, v.stats, v.sceneName, v.mover != nil, v.selected))
		v.overlay.Update(0)
		if err := v.overlay.Encode(v.renderer, w, h); err != nil {
			return err
		}
	}
	return nil
}

func windowTitle(title, sceneName string) string {
	if sceneName == "" {
		return title
	}
	return title + " - " + sceneName
}

// hudText formats the overlay: frame statistics, the camera mode and the
// selected node.
func hudText(fps float64, stats glrender.Stats, sceneName string, walking bool, selected *scene.Node) string {
	if sceneName == "" {
		sceneName = "demo"
	}
	mode := "orbit"
	if walking {
		mode = "walk"
	}
	sel := "none"
	if selected != nil {
		sel = selected.Name
	}
	return fmt.Sprintf("%.0f fps  %d batches  %d vertices\nscene: %s\nmode: %s\nselected: %s",
		fps, stats.Batches, stats.Vertices, sceneName, mode, sel)
}

// pick selects the node under a window position. Mouse events arrive in
// screen coordinates, the camera works in drawable pixels.
func (v *viewer) pick(x, y int) {
	w, h := v.window.DrawableSize()
	scale := v.window.PixelScale()
	ray := picking.CameraRay(v.scene.Camera, float32(x)*scale, float32(y)*scale, float32(w), float32(h))
	hit, ok := picking.Pick(v.scene.Root, ray)
	if !ok {
		v.selected = nil
		return
	}
	v.selected = hit.Node
	logger.Info("picked",
		zap.String("node", hit.Node.Name),
		zap.Float32("distance", hit.Distance),
		zap.Float32("x", hit.Point.X), zap.Float32("y", hit.Point.Y), zap.Float32("z", hit.Point.Z),
	)
}

// frame fits the camera to the selection, or to the whole scene.
func (v *viewer) frame() {
	b := v.scene.Root.TreeBounds()
	if v.selected != nil {
		b = v.selected.Bounds()
	}
	v.scene.Camera.FitToBounds(b)
}

func (v *viewer) toggleWalk() {
	if v.mover != nil {
		v.mover = nil
		logger.Info("orbit mode")
		return
	}
	v.mover = v.cfg.Physics.NewMover(v.scene.Camera.Target)
	logger.Info("walk mode", zap.Float32("radius", v.mover.Radius))
}

// walk moves the mover along the camera's ground axes and keeps the camera
// orbiting it.
func (v *viewer) walk(forward, right, dt float32) {
	cam := v.scene.Camera
	ahead := cam.Target.Sub(cam.Eye)
	ahead.Y = 0
	ahead = ahead.Normalize()
	side := ahead.Cross(math.Vec3UnitY).Normalize()

	speed := v.cfg.Physics.WalkSpeed
	velocity := ahead.Scale(forward * speed).Add(side.Scale(right * speed))

	reach := v.mover.Radius + (speed+math32.Abs(v.mover.FallSpeed()))*dt
	box := geom.NewBoundingBox(v.mover.Position, v.mover.Position).
		Buffer(math.Vec3{X: reach, Y: reach, Z: reach})
	v.triangles = collision.GatherTouching(v.triangles[:0], v.scene.Root, box)
	v.mover.Step(v.triangles, velocity, dt)

	offset := cam.Offset()
	cam.Target = v.mover.Position
	cam.Eye = cam.Target.Add(offset)
}

func (v *viewer) handleReload() {
	if v.watcher == nil {
		return
	}
	for {
		select {
		case path := <-v.watcher.Changes():
			logger.Info("scene changed on disk", zap.String("path", path))
			v.reload()
		default:
			return
		}
	}
}

// reload loads the current scene again, keeping the view.
func (v *viewer) reload() {
	v.assets.Clear()
	v.renderer.ClearTextures()
	s, err := loadScene(v.assets, v.sceneName, v.cfg)
	if err != nil {
		logger.Error("reload failed", zap.String("scene", v.sceneName), zap.Error(err))
		return
	}
	old := v.scene.Camera
	s.Camera.Eye, s.Camera.Target, s.Camera.Up = old.Eye, old.Target, old.Up
	v.scene = s
	v.selected = nil
	logger.Info("scene reloaded", zap.String("scene", v.sceneName))
}

// open replaces the scene with a dropped file from the asset directory.
func (v *viewer) open(path string) {
	root, err := filepath.Abs(v.assets.Root())
	if err != nil {
		logger.Error("open failed", zap.Error(err))
		return
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		logger.Warn("dropped file is outside the asset directory", zap.String("path", path))
		return
	}
	name := filepath.ToSlash(rel)
	s, err := loadScene(v.assets, name, v.cfg)
	if err != nil {
		logger.Error("open failed", zap.String("path", path), zap.Error(err))
		return
	}
	v.scene = s
	v.sceneName = name
	v.selected = nil
	v.window.SetTitle(windowTitle(v.cfg.Window.Title, name))
	if v.watcher != nil {
		if err := v.assets.Watch(v.watcher, name); err != nil {
			logger.Warn("cannot watch scene", zap.Error(err))
		}
	}
}

// bake renders the light map on the CPU and hands it to the renderer.
func (v *viewer) bake() {
	opts := lightmap.OptionsFromScene(v.scene)
	if v.cfg.LightMap.Scale > 0 {
		opts.Scale = v.cfg.LightMap.Scale
	}
	opts.Texture = lightMapTexture

	start := time.Now()
	res, err := lightmap.Bake(v.scene, opts, lightmap.CPUTracer{})
	if err != nil {
		logger.Error("light map bake failed", zap.Error(err))
		return
	}
	if err := v.assets.SaveImage(lightMapTexture, res.Image); err != nil {
		logger.Error("failed to save light map", zap.Error(err))
		return
	}
	v.renderer.InvalidateTexture(lightMapTexture)
	logger.Info("light map ready", zap.Duration("took", time.Since(start)), zap.Int("tiles", res.Tiles))
}

func (v *viewer) capture() {
	pixels, w, h := v.renderer.ReadPixels()
	if _, err := v.shots.CapturePixels(pixels, w, h); err != nil {
		logger.Error("screenshot failed", zap.Error(err))
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
