package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load builds the configuration from the process flags. See LoadWithFlags.
func Load() (*Config, error) {
	return LoadWithFlags(cli)
}

// LoadWithFlags layers defaults, then the config file, then f. The file is
// f.Config when given, otherwise the first config.yaml or config.toml found
// in the working directory or ConfigDir.
func LoadWithFlags(f *Flags) (*Config, error) {
	cfg := Default()
	path := f.Config
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := decodeFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	f.Apply(cfg)
	return cfg, cfg.Validate()
}

// LoadFile returns the defaults overlaid with one file, ignoring flags.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func findConfigFile() string {
	for _, dir := range []string{".", ConfigDir()} {
		for _, name := range []string{"config.yaml", "config.toml"} {
			path := filepath.Join(dir, name)
			if st, err := os.Stat(path); err == nil && !st.IsDir() {
				return path
			}
		}
	}
	return ""
}

// ConfigDir returns the per-user configuration directory.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "X3D")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "X3D")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "x3d")
	}
	return filepath.Join(home, ".config", "x3d")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// decodeFile merges a YAML or TOML file into cfg. Unknown keys are errors,
// an empty file is not.
func decodeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isTOML(path) {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
