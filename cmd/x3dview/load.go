package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/x3d/internal/assets"
	"github.com/Faultbox/x3d/internal/config"
	"github.com/Faultbox/x3d/internal/engine/lighting"
	"github.com/Faultbox/x3d/internal/engine/mesh"
	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/pkg/math"
)

// assetRoot returns the asset directory and the scene file name relative to it.
func assetRoot(cfg config.SceneConfig) (dir, name string, err error) {
	dir = cfg.AssetDir
	if cfg.File == "" {
		if dir == "" {
			dir = "."
		}
		return dir, "", nil
	}
	if dir == "" {
		dir = filepath.Dir(cfg.File)
	}
	rel, err := filepath.Rel(dir, cfg.File)
	if err != nil {
		return "", "", fmt.Errorf("scene %s is outside %s: %w", cfg.File, dir, err)
	}
	return dir, filepath.ToSlash(rel), nil
}

// loadScene opens name from m. Models are wrapped in a lit scene framed by
// the camera; an empty name yields the demo scene.
func loadScene(m *assets.Manager, name string, cfg *config.Config) (*scene.Scene, error) {
	if name == "" {
		return demoScene(cfg), nil
	}
	if strings.EqualFold(filepath.Ext(name), ".x3d") {
		s, err := m.LoadScene(name)
		if err != nil {
			return nil, err
		}
		cfg.Camera.ApplyLens(s.Camera)
		return s, nil
	}

	node, err := m.LoadNode(name)
	if err != nil {
		return nil, err
	}
	s := newLitScene(cfg)
	s.Root.AddChild(node)
	s.Root.CalcTransform()
	s.Camera.FitToBounds(s.Root.TreeBounds())
	return s, nil
}

func newLitScene(cfg *config.Config) *scene.Scene {
	s := scene.New()
	s.LightMap = cfg.LightMap.Settings()
	cfg.Camera.ApplyLens(s.Camera)
	s.Root.AddChild(scene.NewLight("Ambient", lighting.Light{
		Type:  lighting.Ambient,
		Color: math.Vec4{X: 0.25, Y: 0.25, Z: 0.25, W: 1},
	}))
	s.Root.AddChild(scene.NewLight("Sun", lighting.Sun(45, 50, math.Vec4{X: 0.8, Y: 0.8, Z: 0.75, W: 1})))
	return s
}

// demoScene is a floor with a few crates, enough to try the camera, walking
// and the light map bake.
func demoScene(cfg *config.Config) *scene.Scene {
	s := newLitScene(cfg)

	floor := mesh.New()
	floor.Material.LightingEnabled = true
	floor.PushBox(math.Vec3{X: 512, Y: 8, Z: 512}, math.Vec3{Y: -4}, math.Vec3{}, false)
	floor.CalcTextureCoordinates(64)
	fn := scene.NewMeshNode("Floor", floor)
	fn.Collidable = true
	fn.LightMapEnabled = true
	s.Root.AddChild(fn)

	crates := []struct {
		pos  math.Vec3
		size float32
		yaw  float32
	}{
		{math.Vec3{X: 0, Y: 32, Z: 0}, 64, 0},
		{math.Vec3{X: 96, Y: 16, Z: -48}, 32, 30},
		{math.Vec3{X: -80, Y: 24, Z: 72}, 48, -15},
	}
	for i, c := range crates {
		m := mesh.New()
		m.Material.LightingEnabled = true
		m.Material.DiffuseColor = math.Vec4{X: 0.8, Y: 0.6, Z: 0.4, W: 1}
		m.PushBox(math.Vec3{X: c.size, Y: c.size, Z: c.size}, math.Vec3{}, math.Vec3{}, false)
		n := scene.NewMeshNode(fmt.Sprintf("Crate%d", i+1), m)
		n.SetPosition(c.pos)
		n.SetRotationDegrees(0, c.yaw, 0)
		n.Collidable = true
		s.Root.AddChild(n)
	}

	s.Camera.Eye = math.Vec3{X: 250, Y: 200, Z: 250}
	s.Camera.Target = math.Vec3{}
	return s
}
