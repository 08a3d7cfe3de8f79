package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/x3d/internal/engine/camera"
	"github.com/Faultbox/x3d/pkg/math"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test camera defaults, matching camera.New
	cam := camera.New()
	if cfg.Camera.FieldOfView != cam.FieldOfView || cfg.Camera.Near != cam.Near || cfg.Camera.Far != cam.Far {
		t.Errorf("camera lens %v/%v/%v differs from camera.New", cfg.Camera.FieldOfView, cfg.Camera.Near, cfg.Camera.Far)
	}
	if cfg.Camera.Controls() != camera.DefaultControls() {
		t.Errorf("controls %+v differ from camera.DefaultControls", cfg.Camera.Controls())
	}

	// Test lightmap defaults
	if cfg.LightMap.Width != 128 || cfg.LightMap.Height != 128 {
		t.Errorf("expected 128x128 lightmap, got %dx%d", cfg.LightMap.Width, cfg.LightMap.Height)
	}
	if cfg.LightMap.Samples != 16 {
		t.Errorf("expected 16 samples, got %d", cfg.LightMap.Samples)
	}

	// Test physics defaults
	if cfg.Physics.MaxSlopeDegrees != 60 {
		t.Errorf("expected 60 degree slopes, got %f", cfg.Physics.MaxSlopeDegrees)
	}
	if cfg.Physics.Iterations != 3 {
		t.Errorf("expected 3 iterations, got %d", cfg.Physics.Iterations)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

scene:
  file: "levels/room.x3d"
  watch: true

camera:
  fov: 75
  max_distance: 800

lightmap:
  width: 256
  ao_strength: 0.5

physics:
  radius: 8

logging:
  level: "debug"
  log_file: "x3d.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := decodeFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Window.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Window.FPSLimit)
	}

	if cfg.Scene.File != "levels/room.x3d" || !cfg.Scene.Watch {
		t.Errorf("unexpected scene config %+v", cfg.Scene)
	}
	if cfg.Camera.FieldOfView != 75 {
		t.Errorf("expected fov 75, got %f", cfg.Camera.FieldOfView)
	}
	// Keys not in the file keep their defaults.
	if cfg.Camera.Near != 0.2 {
		t.Errorf("expected near 0.2, got %f", cfg.Camera.Near)
	}
	if cfg.LightMap.Width != 256 || cfg.LightMap.Height != 128 {
		t.Errorf("expected 256x128 lightmap, got %dx%d", cfg.LightMap.Width, cfg.LightMap.Height)
	}
	if cfg.LightMap.AOStrength != 0.5 {
		t.Errorf("expected ao strength 0.5, got %f", cfg.LightMap.AOStrength)
	}
	if cfg.Physics.Radius != 8 {
		t.Errorf("expected radius 8, got %f", cfg.Physics.Radius)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "x3d.log" {
		t.Errorf("expected log file 'x3d.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
[window]
width = 800
title = "preview"

[lightmap]
samples = 4
sample_radius = 8.5
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := decodeFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Window.Width != 800 || cfg.Window.Title != "preview" {
		t.Errorf("unexpected window config %+v", cfg.Window)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected default height 720, got %d", cfg.Window.Height)
	}
	if cfg.LightMap.Samples != 4 || cfg.LightMap.SampleRadius != 8.5 {
		t.Errorf("unexpected lightmap config %+v", cfg.LightMap)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "invalid yaml",
			file: "invalid.yaml",
			content: `
window:
  width: not a number
  invalid syntax here
`,
		},
		{
			name:    "unknown yaml key",
			file:    "unknown.yaml",
			content: "window:\n  colour: red\n",
		},
		{
			name:    "invalid toml",
			file:    "invalid.toml",
			content: "[window\nwidth = 1\n",
		},
		{
			name:    "unknown toml key",
			file:    "unknown.toml",
			content: "[graphics]\nwidth = 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			// Try to load - should error
			cfg := Default()
			if err := decodeFile(cfg, configPath); err == nil {
				t.Error("expected error loading config, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg := Default()
	if err := decodeFile(cfg, configPath); err != nil {
		t.Errorf("empty file should load, got %v", err)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := decodeFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  near: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	_, err := LoadFile(configPath)
	if err == nil || !strings.Contains(err.Error(), "camera clip range") {
		t.Errorf("expected clip range error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"window", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"far before near", func(c *Config) { c.Camera.Far = 0.1 }, "camera clip range"},
		{"fov", func(c *Config) { c.Camera.FieldOfView = 180 }, "camera fov"},
		{"lightmap", func(c *Config) { c.LightMap.Height = -1 }, "lightmap size"},
		{"samples", func(c *Config) { c.LightMap.Samples = -1 }, "lightmap samples"},
		{"radius", func(c *Config) { c.Physics.Radius = 0 }, "physics radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Keep the user's real config out of the search
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// A TOML file is found too
	if err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[window]\nwidth = 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path = findConfigFile(); filepath.Base(path) != "config.toml" {
		t.Errorf("expected config.toml, got %q", path)
	}

	// YAML wins when both exist
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("expected to find config.yaml in current directory, got %q", path)
	}
}

func parseFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := flag.NewFlagSet("x3dview", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return f
}

func TestFlagsApply(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *Config)
	}{
		{"none", nil, func(t *testing.T, cfg *Config) {
			if *cfg != *Default() {
				t.Errorf("no flags changed the config: %+v", cfg)
			}
		}},
		{"debug", []string{"-debug"}, func(t *testing.T, cfg *Config) {
			if cfg.Logging.Level != "debug" || !cfg.Debug.ShowFPS || !cfg.Debug.ShowBounds {
				t.Errorf("debug overlays not enabled: %+v %+v", cfg.Logging, cfg.Debug)
			}
		}},
		{"scene", []string{"-scene", "room.x3d", "ignored.x3d"}, func(t *testing.T, cfg *Config) {
			if cfg.Scene.File != "room.x3d" {
				t.Errorf("scene = %q", cfg.Scene.File)
			}
		}},
		{"positional scene", []string{"-watch", "crate.obj"}, func(t *testing.T, cfg *Config) {
			if cfg.Scene.File != "crate.obj" || !cfg.Scene.Watch {
				t.Errorf("scene = %+v", cfg.Scene)
			}
		}},
		{"window", []string{"-fullscreen", "-width", "2560", "-height=1440"}, func(t *testing.T, cfg *Config) {
			w := cfg.Window
			if !w.Fullscreen || w.Width != 2560 || w.Height != 1440 {
				t.Errorf("window = %+v", w)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			parseFlags(t, tt.args...).Apply(cfg)
			tt.check(t, cfg)
		})
	}
}

func TestLoadWithFlagsPriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "window:\n  width: 1600\n  height: 900\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadWithFlags(parseFlags(t, "-config", path, "-width", "1920"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Window.Width != 1920 {
		t.Errorf("width = %d, want the flag's 1920", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("height = %d, want the file's 900", cfg.Window.Height)
	}

	if _, err := LoadWithFlags(parseFlags(t, "-config", filepath.Join(t.TempDir(), "missing.yaml"))); err == nil {
		t.Error("expected an error for a missing explicit config")
	}
}

func TestSaveTo(t *testing.T) {
	for _, name := range []string{"out/config.yaml", "out/config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := Default()
			cfg.Scene.File = "room.x3d"
			cfg.LightMap.AOStrength = 0.75
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("save failed: %v", err)
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if *loaded != *cfg {
				t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", cfg, loaded)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Camera.FieldOfView = 45
	cfg.LightMap.Scale = 8
	cfg.Physics.Gravity = 20

	cam := camera.New()
	cfg.Camera.ApplyLens(cam)
	if cam.FieldOfView != 45 {
		t.Errorf("expected fov 45, got %f", cam.FieldOfView)
	}

	opts := cfg.LightMap.Options()
	if opts.Width != 128 || opts.SampleCount != 16 || opts.Scale != 8 {
		t.Errorf("unexpected bake options %+v", opts)
	}

	m := cfg.Physics.NewMover(math.Vec3{Y: 10})
	if m.Radius != cfg.Physics.Radius || m.Gravity != 20 || m.Iterations != 3 {
		t.Errorf("unexpected mover %+v", m)
	}
}
