// x3dtool converts models to scenes, bakes light maps and inspects scenes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/x3d/internal/assets"
	"github.com/Faultbox/x3d/internal/config"
	"github.com/Faultbox/x3d/internal/engine/animate"
	"github.com/Faultbox/x3d/internal/engine/lighting"
	"github.com/Faultbox/x3d/internal/engine/lightmap"
	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/internal/logger"
	"github.com/Faultbox/x3d/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "import":
		err = cmdImport(args)
	case "bake":
		err = cmdBake(args)
	case "info":
		err = cmdInfo(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`x3dtool - x3d scene utility

Usage:
  x3dtool <command> [options]

Commands:
  import <model> <out.x3d>     Wrap an OBJ, glTF or GLB model in a lit scene
  bake <scene.x3d> <out.png>   Bake the scene's light map
  info <scene.x3d|model>       Print the node tree

Examples:
  x3dtool import crate.obj crate.x3d
  x3dtool bake -save room.x3d lightmap.png
  x3dtool info room.x3d`)
}

// initLogging sends warnings, or everything with -v, to stderr.
func initLogging(verbose bool) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.Init(level, "")
}

// openAsset returns a manager rooted at the file's directory and the file's
// asset name.
func openAsset(path string) (*assets.Manager, string) {
	return assets.NewManager(filepath.Dir(path), animate.Registry()), filepath.Base(path)
}

func cmdImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file supplying light map defaults")
	noLights := fs.Bool("no-lights", false, "Do not add the default ambient and sun lights")
	collidable := fs.Bool("collide", true, "Mark imported meshes collidable")
	lightMapped := fs.Bool("lightmap", true, "Enable light mapping on imported meshes")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: x3dtool import [options] <model> <out.x3d>")
		os.Exit(1)
	}
	if err := initLogging(*verbose); err != nil {
		return err
	}
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			return err
		}
	}

	m, name := openAsset(fs.Arg(0))
	node, err := m.LoadNode(name)
	if err != nil {
		return err
	}
	node.Traverse(func(n *scene.Node) bool {
		if n.Mesh() != nil {
			n.Collidable = *collidable
			n.LightMapEnabled = *lightMapped
		}
		return true
	})

	s := scene.New()
	s.LightMap = cfg.LightMap.Settings()
	cfg.Camera.ApplyLens(s.Camera)
	if !*noLights {
		s.Root.AddChild(scene.NewLight("Ambient", lighting.Light{
			Type:  lighting.Ambient,
			Color: math.Vec4{X: 0.25, Y: 0.25, Z: 0.25, W: 1},
		}))
		s.Root.AddChild(scene.NewLight("Sun", lighting.Sun(45, 50, math.Vec4{X: 0.8, Y: 0.8, Z: 0.75, W: 1})))
	}
	s.Root.AddChild(node)
	s.Root.CalcTransform()
	s.Camera.FitToBounds(s.Root.TreeBounds())

	if err := s.Save(fs.Arg(1)); err != nil {
		return err
	}
	fmt.Printf("Imported: %s -> %s (%d nodes)\n", fs.Arg(0), fs.Arg(1), countNodes(s.Root))
	return nil
}

func cmdBake(args []string) error {
	fs := flag.NewFlagSet("bake", flag.ExitOnError)
	width := fs.Int("width", 0, "Override light map width")
	height := fs.Int("height", 0, "Override light map height")
	samples := fs.Int("samples", -1, "Override shadow sample count")
	scale := fs.Float64("scale", lightmap.DefaultScale, "World units per texel")
	save := fs.Bool("save", false, "Write the light map reference and coordinates back into the scene")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: x3dtool bake [options] <scene.x3d> <out.png>")
		os.Exit(1)
	}
	if err := initLogging(*verbose); err != nil {
		return err
	}

	scenePath, outPath := fs.Arg(0), fs.Arg(1)
	m, name := openAsset(scenePath)
	s, err := m.LoadScene(name)
	if err != nil {
		return err
	}

	opts := lightmap.OptionsFromScene(s)
	if *width > 0 {
		opts.Width = *width
	}
	if *height > 0 {
		opts.Height = *height
	}
	if *samples >= 0 {
		opts.SampleCount = *samples
	}
	opts.Scale = float32(*scale)
	if *save {
		opts.Texture = textureName(scenePath, outPath)
	}

	res, err := lightmap.Bake(s, opts, lightmap.CPUTracer{})
	if err != nil {
		return err
	}
	if err := res.SavePNG(outPath); err != nil {
		return err
	}
	fmt.Printf("Baked: %s (%dx%d, %d meshes, %d tiles, %d skipped faces, %d shadow triangles)\n",
		outPath, opts.Width, opts.Height, res.Meshes, res.Tiles, res.Skipped, res.Triangles)

	if *save {
		if err := s.Save(scenePath); err != nil {
			return err
		}
		fmt.Printf("Updated: %s\n", scenePath)
	}
	return nil
}

// textureName returns the light map path as an asset name relative to the
// scene, falling back to the base name when it lies elsewhere.
func textureName(scenePath, texturePath string) string {
	rel, err := filepath.Rel(filepath.Dir(scenePath), texturePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(texturePath)
	}
	return filepath.ToSlash(rel)
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	depth := fs.Int("depth", 0, "Limit the printed tree depth (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: x3dtool info <scene.x3d|model>")
		os.Exit(1)
	}
	if err := initLogging(false); err != nil {
		return err
	}

	m, name := openAsset(fs.Arg(0))
	var s *scene.Scene
	if strings.EqualFold(filepath.Ext(name), ".x3d") {
		var err error
		if s, err = m.LoadScene(name); err != nil {
			return err
		}
	} else {
		node, err := m.LoadNode(name)
		if err != nil {
			return err
		}
		s = scene.New()
		s.Root.AddChild(node)
	}
	s.Update(0)

	fmt.Printf("Scene:     %s\n", fs.Arg(0))
	printInfo(os.Stdout, s, *depth)
	return nil
}

func countNodes(root *scene.Node) int {
	n := 0
	root.Traverse(func(*scene.Node) bool {
		n++
		return true
	})
	return n
}
