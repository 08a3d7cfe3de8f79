package config

import (
	"github.com/Faultbox/x3d/internal/engine/camera"
	"github.com/Faultbox/x3d/internal/engine/collision"
	"github.com/Faultbox/x3d/internal/engine/lightmap"
	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/pkg/math"
)

// ApplyLens sets the camera's field of view and clip planes.
func (c CameraConfig) ApplyLens(cam *camera.Camera) {
	cam.FieldOfView = c.FieldOfView
	cam.Near = c.Near
	cam.Far = c.Far
}

// Controls returns the orbit controls.
func (c CameraConfig) Controls() camera.Controls {
	return camera.Controls{
		DragSensitivity: c.DragSensitivity,
		ZoomSensitivity: c.ZoomSensitivity,
		PanSpeed:        c.PanSpeed,
		MinDistance:     c.MinDistance,
		MaxDistance:     c.MaxDistance,
	}
}

// Settings returns the bake parameters stored with new scenes.
func (c LightMapConfig) Settings() scene.LightMapSettings {
	return scene.LightMapSettings{
		Width:        c.Width,
		Height:       c.Height,
		SampleCount:  c.Samples,
		SampleRadius: c.SampleRadius,
		AOStrength:   c.AOStrength,
		AOLength:     c.AOLength,
	}
}

// Options returns bake options, with the texel scale from the config.
func (c LightMapConfig) Options() lightmap.Options {
	opts := lightmap.OptionsFromSettings(c.Settings())
	if c.Scale > 0 {
		opts.Scale = c.Scale
	}
	return opts
}

// NewMover creates a walking sphere at position.
func (c PhysicsConfig) NewMover(position math.Vec3) *collision.Mover {
	m := collision.NewMover(position, c.Radius)
	m.Gravity = c.Gravity
	m.MaxSlopeDegrees = c.MaxSlopeDegrees
	if c.Iterations > 0 {
		m.Iterations = c.Iterations
	}
	return m
}
