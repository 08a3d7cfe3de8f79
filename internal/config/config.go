// Package config handles viewer and tool configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all settings.
type Config struct {
	Window   WindowConfig   `yaml:"window" toml:"window"`
	Scene    SceneConfig    `yaml:"scene" toml:"scene"`
	Camera   CameraConfig   `yaml:"camera" toml:"camera"`
	LightMap LightMapConfig `yaml:"lightmap" toml:"lightmap"`
	Physics  PhysicsConfig  `yaml:"physics" toml:"physics"`
	Debug    DebugConfig    `yaml:"debug" toml:"debug"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title" toml:"title"`
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
	FPSLimit   int    `yaml:"fps_limit" toml:"fps_limit"`
}

// SceneConfig selects the scene and where its assets live.
type SceneConfig struct {
	// File is a .x3d scene or an .obj, .gltf or .glb model.
	File string `yaml:"file" toml:"file"`
	// AssetDir defaults to the directory of File.
	AssetDir string `yaml:"asset_dir" toml:"asset_dir"`
	// Watch reloads the scene when File changes.
	Watch bool `yaml:"watch" toml:"watch"`
	// ReloadDelayMS debounces bursts of file events.
	ReloadDelayMS int `yaml:"reload_delay_ms" toml:"reload_delay_ms"`
}

// CameraConfig holds lens and orbit control settings.
type CameraConfig struct {
	FieldOfView     float32 `yaml:"fov" toml:"fov"`
	Near            float32 `yaml:"near" toml:"near"`
	Far             float32 `yaml:"far" toml:"far"`
	DragSensitivity float32 `yaml:"drag_sensitivity" toml:"drag_sensitivity"`
	ZoomSensitivity float32 `yaml:"zoom_sensitivity" toml:"zoom_sensitivity"`
	PanSpeed        float32 `yaml:"pan_speed" toml:"pan_speed"`
	MinDistance     float32 `yaml:"min_distance" toml:"min_distance"`
	MaxDistance     float32 `yaml:"max_distance" toml:"max_distance"`
}

// LightMapConfig holds bake settings used when a scene does not carry its own.
type LightMapConfig struct {
	Width        int     `yaml:"width" toml:"width"`
	Height       int     `yaml:"height" toml:"height"`
	Samples      int     `yaml:"samples" toml:"samples"`
	SampleRadius float32 `yaml:"sample_radius" toml:"sample_radius"`
	AOStrength   float32 `yaml:"ao_strength" toml:"ao_strength"`
	AOLength     float32 `yaml:"ao_length" toml:"ao_length"`
	Scale        float32 `yaml:"scale" toml:"scale"`
}

// PhysicsConfig holds the walking sphere settings.
type PhysicsConfig struct {
	Gravity         float32 `yaml:"gravity" toml:"gravity"`
	Radius          float32 `yaml:"radius" toml:"radius"`
	MaxSlopeDegrees float32 `yaml:"max_slope_degrees" toml:"max_slope_degrees"`
	Iterations      int     `yaml:"iterations" toml:"iterations"`
	JumpSpeed       float32 `yaml:"jump_speed" toml:"jump_speed"`
	WalkSpeed       float32 `yaml:"walk_speed" toml:"walk_speed"`
}

// DebugConfig holds debug overlay settings.
type DebugConfig struct {
	ShowBounds    bool    `yaml:"show_bounds" toml:"show_bounds"`
	ShowGrid      bool    `yaml:"show_grid" toml:"show_grid"`
	GridSize      float32 `yaml:"grid_size" toml:"grid_size"`
	GridSpacing   float32 `yaml:"grid_spacing" toml:"grid_spacing"`
	ScreenshotDir string  `yaml:"screenshot_dir" toml:"screenshot_dir"`
	ShowFPS       bool    `yaml:"show_fps" toml:"show_fps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "x3d",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Scene: SceneConfig{
			ReloadDelayMS: 200,
		},
		Camera: CameraConfig{
			FieldOfView:     60,
			Near:            0.2,
			Far:             10000,
			DragSensitivity: 0.005,
			ZoomSensitivity: 0.1,
			PanSpeed:        200,
			MinDistance:     1,
			MaxDistance:     5000,
		},
		LightMap: LightMapConfig{
			Width:        128,
			Height:       128,
			Samples:      16,
			SampleRadius: 32,
			AOLength:     16,
			Scale:        16,
		},
		Physics: PhysicsConfig{
			Gravity:         9.81,
			Radius:          16,
			MaxSlopeDegrees: 60,
			Iterations:      3,
			JumpSpeed:       8,
			WalkSpeed:       100,
		},
		Debug: DebugConfig{
			GridSize:      500,
			GridSpacing:   16,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every setting that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip range %g..%g", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.FieldOfView <= 0 || c.Camera.FieldOfView >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %g", c.Camera.FieldOfView))
	}
	if c.LightMap.Width <= 0 || c.LightMap.Height <= 0 {
		errs = append(errs, fmt.Errorf("lightmap size %dx%d", c.LightMap.Width, c.LightMap.Height))
	}
	if c.LightMap.Samples < 0 {
		errs = append(errs, fmt.Errorf("lightmap samples %d", c.LightMap.Samples))
	}
	if c.Physics.Radius <= 0 {
		errs = append(errs, fmt.Errorf("physics radius %g", c.Physics.Radius))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
