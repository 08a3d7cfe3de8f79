package config

import "flag"

// Flags are the command-line overrides for a Config. The zero value of
// each field means "not given".
type Flags struct {
	Config     string
	Debug      bool
	Scene      string
	Watch      bool
	Fullscreen bool
	Width      int
	Height     int

	fs *flag.FlagSet
}

// RegisterFlags defines the override flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.Config, "config", "", "Path to config file (.yaml or .toml)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging and overlays")
	fs.StringVar(&f.Scene, "scene", "", "Scene or model file to open")
	fs.BoolVar(&f.Watch, "watch", false, "Reload the scene when it changes")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	return f
}

var cli = RegisterFlags(flag.CommandLine)

// ParseFlags parses the process command line. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Apply overlays the given flags on cfg. A positional argument names the
// scene when -scene is absent.
func (f *Flags) Apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
		cfg.Debug.ShowFPS = true
		cfg.Debug.ShowBounds = true
	}
	switch {
	case f.Scene != "":
		cfg.Scene.File = f.Scene
	case f.fs != nil && f.fs.NArg() > 0:
		cfg.Scene.File = f.fs.Arg(0)
	}
	cfg.Scene.Watch = cfg.Scene.Watch || f.Watch
	cfg.Window.Fullscreen = cfg.Window.Fullscreen || f.Fullscreen
	if f.Width > 0 {
		cfg.Window.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Window.Height = f.Height
	}
}
