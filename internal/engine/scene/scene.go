// Package scene implements the node tree, its per-frame update and encoding,
// and the scene file format.
package scene

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/x3d/internal/engine/camera"
	"github.com/Faultbox/x3d/internal/engine/lighting"
	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/internal/logger"
	"github.com/Faultbox/x3d/pkg/math"
)

// LightMapSettings are the bake parameters stored with a scene.
type LightMapSettings struct {
	Width        int
	Height       int
	SampleCount  int
	SampleRadius float32
	AOStrength   float32 // 0 disables ambient occlusion
	AOLength     float32
}

// DefaultLightMapSettings returns a 128x128 target with 16 shadow samples.
func DefaultLightMapSettings() LightMapSettings {
	return LightMapSettings{
		Width:        128,
		Height:       128,
		SampleCount:  16,
		SampleRadius: 32,
		AOLength:     16,
	}
}

// drawItem is a visible encodable collected during Update.
type drawItem struct {
	node     *Node
	distance float32
}

type lightItem struct {
	light    lighting.Light
	distance float32
}

// Scene owns one node tree and one camera.
type Scene struct {
	Root            *Node
	Camera          *camera.Camera
	BackgroundColor math.Vec4
	LightMap        LightMapSettings

	// Time is the scene clock in seconds, advanced by Update.
	Time float32

	draw   []drawItem
	lights []lightItem
	packed []lighting.Light
}

// New creates a scene with an empty root node and a default camera.
func New() *Scene {
	return &Scene{
		Root:            NewNode("Root"),
		Camera:          camera.New(),
		BackgroundColor: math.Vec4{X: 0.2, Y: 0.2, Z: 0.2, W: 1},
		LightMap:        DefaultLightMapSettings(),
	}
}

// Update advances animators, recomputes transforms and collects the visible
// encodables and lights for the frame.
//
// Encodables are ordered by ZOrder, then far to near from the camera eye.
// Lights are ordered near to far and capped at lighting.MaxLights.
func (s *Scene) Update(dt float32) {
	s.Time += dt

	s.Root.Traverse(func(n *Node) bool {
		if err := n.animate(dt); err != nil {
			logger.Warn("animator removed", zap.Error(err))
		}
		return true
	})

	s.Root.CalcTransform()

	s.draw = s.draw[:0]
	s.lights = s.lights[:0]
	eye := s.Camera.Eye
	s.Root.Traverse(func(n *Node) bool {
		if !n.Visible {
			return false
		}
		if n.encodable != nil {
			d := n.AbsolutePosition().Distance(eye)
			if !n.LocalBounds().IsEmpty() {
				d = n.Bounds().Center().Distance(eye)
			}
			s.draw = append(s.draw, drawItem{node: n, distance: d})
		}
		if n.Light != nil {
			s.lights = append(s.lights, s.placeLight(n, eye))
		}
		return true
	})

	slices.SortStableFunc(s.draw, func(a, b drawItem) int {
		if c := cmp.Compare(a.node.ZOrder, b.node.ZOrder); c != 0 {
			return c
		}
		return cmp.Compare(b.distance, a.distance)
	})
	slices.SortStableFunc(s.lights, func(a, b lightItem) int {
		return cmp.Compare(a.distance, b.distance)
	})

	s.packed = s.packed[:0]
	for _, l := range s.lights {
		if len(s.packed) == lighting.MaxLights {
			break
		}
		s.packed = append(s.packed, l.light)
	}
}

// placeLight resolves a light node into world space. Lights without a
// position sort before every point light.
func (s *Scene) placeLight(n *Node, eye math.Vec3) lightItem {
	l, _ := n.WorldLight()
	if l.Type == lighting.Point {
		return lightItem{light: l, distance: l.Vector.Distance(eye)}
	}
	return lightItem{light: l, distance: -1}
}

// Lights returns the lights collected by the last Update, nearest first.
func (s *Scene) Lights() []lighting.Light {
	return s.packed
}

// DrawList returns the nodes drawn by the next Encode, in draw order.
func (s *Scene) DrawList() []*Node {
	nodes := make([]*Node, len(s.draw))
	for i, d := range s.draw {
		nodes[i] = d.node
	}
	return nodes
}

// Encode draws everything collected by the last Update into enc for a
// viewport of width by height pixels. Sprites get a pixel orthographic
// projection with the origin at the top left and an identity view.
func (s *Scene) Encode(enc render.Encoder, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("encode scene: invalid viewport %dx%d", width, height)
	}
	s.Camera.CalcTransforms(float32(width) / float32(height))
	ortho := math.Ortho(0, float32(width), float32(height), 0, -1, 1)

	for _, d := range s.draw {
		e := d.node.encodable
		ctx := render.Context{
			Encoder:    enc,
			Projection: s.Camera.Projection(),
			View:       s.Camera.View(),
			Model:      d.node.Model(),
			Lights:     s.packed,
			Time:       s.Time,
		}
		if e.Kind() == render.KindSprite {
			ctx.Projection = ortho
			ctx.View = math.Identity()
		}
		if err := e.Encode(&ctx); err != nil {
			return fmt.Errorf("encode %q: %w", d.node.Name, err)
		}
	}
	return nil
}
