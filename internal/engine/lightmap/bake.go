package lightmap

import (
	"errors"
	"fmt"
	"image"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/x3d/internal/engine/debug"
	"github.com/Faultbox/x3d/internal/engine/lighting"
	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/internal/logger"
	"github.com/Faultbox/x3d/pkg/math"
)

// DefaultScale is the number of world units covered by one texel.
const DefaultScale = 16

// Options configure Bake.
type Options struct {
	Width        int
	Height       int
	SampleCount  int
	SampleRadius float32
	AOStrength   float32
	AOLength     float32
	Scale        float32
	Seed         uint64
	// Texture is assigned to Material.Texture2 of every baked mesh when set.
	Texture string
}

// DefaultOptions returns a 128x128 bake with 16 shadow samples.
func DefaultOptions() Options {
	return OptionsFromSettings(scene.DefaultLightMapSettings())
}

// OptionsFromSettings builds options from the settings saved with a scene.
func OptionsFromSettings(s scene.LightMapSettings) Options {
	return Options{
		Width:        s.Width,
		Height:       s.Height,
		SampleCount:  s.SampleCount,
		SampleRadius: s.SampleRadius,
		AOStrength:   s.AOStrength,
		AOLength:     s.AOLength,
		Scale:        DefaultScale,
		Seed:         1,
	}
}

// OptionsFromScene returns the bake options stored with sc.
func OptionsFromScene(sc *scene.Scene) Options {
	return OptionsFromSettings(sc.LightMap)
}

// Result summarizes a bake.
type Result struct {
	Image     *image.RGBA
	Meshes    int
	Tiles     int
	Skipped   int // Faces that were not quads
	Triangles int // Shadow casting triangles
}

// Bake packs every quad of the light mapped meshes under sc.Root into one
// texture and traces it. Faces that are not quads are logged and skipped. A
// full atlas aborts the bake; mesh coordinates written before the failure
// are kept.
func Bake(sc *scene.Scene, opts Options, tracer Tracer) (*Result, error) {
	if tracer == nil {
		return nil, errors.New("lightmap: nil tracer")
	}
	session, err := BeginSession(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	session.SampleRadius = opts.SampleRadius
	session.AOStrength = opts.AOStrength
	session.AOLength = opts.AOLength

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	for i := 0; i < opts.SampleCount; i++ {
		session.PushSample(math.Vec3{
			X: rng.Float32()*2 - 1,
			Y: rng.Float32()*2 - 1,
			Z: rng.Float32()*2 - 1,
		})
	}

	sc.Root.CalcTransform()

	var (
		lights    []lighting.Light
		targets   []*scene.Node
		positions []math.Vec3
		indices   []int
	)
	sc.Root.Traverse(func(n *scene.Node) bool {
		if l, ok := n.WorldLight(); ok {
			lights = append(lights, l)
		}
		m := n.Mesh()
		if !n.LightMapEnabled || m == nil || m.IndexCount() == 0 {
			return true
		}
		targets = append(targets, n)
		if n.CastsShadow {
			p, idx := m.AccelGeometry(n.Model())
			base := len(positions)
			positions = append(positions, p...)
			for _, i := range idx {
				indices = append(indices, base+i)
			}
		}
		return true
	})

	accel, err := tracer.Build(positions, indices)
	if err != nil {
		return nil, fmt.Errorf("lightmap build: %w", err)
	}

	res := &Result{Meshes: len(targets), Triangles: len(indices) / 3}
	packer := NewPacker(opts.Width, opts.Height)
	for _, n := range targets {
		m := n.Mesh()
		model := n.Model()
		for i := 0; i < m.FaceCount(); i++ {
			tw, th, err := QuadFootprint(i, m, model, opts.Scale)
			if errors.Is(err, ErrNotQuad) {
				logger.Warn("light map face is not a quad",
					zap.String("node", n.Name), zap.Int("face", i), zap.Int("vertices", m.FaceVertexCount(i)))
				res.Skipped++
				continue
			}
			x, y, err := packer.Alloc(tw, th)
			if err != nil {
				return nil, fmt.Errorf("bake %q face %d: %w", n.Name, i, err)
			}
			logger.Debug("mapping tile", zap.Int("x", x), zap.Int("y", y), zap.Int("w", tw), zap.Int("h", th))
			if _, _, err := session.PushQuad(i, m, model, x, y, m.Material.AmbientColor, m.Material.DiffuseColor, opts.Scale, n.ReceivesShadow); err != nil {
				return nil, fmt.Errorf("bake %q face %d: %w", n.Name, i, err)
			}
			res.Tiles++
		}
	}

	session.Buffer()
	if err := session.Render(tracer, accel, lights); err != nil {
		return nil, err
	}

	if opts.Texture != "" {
		for _, n := range targets {
			n.Mesh().Material.Texture2 = opts.Texture
		}
	}
	res.Image = session.Image()
	logger.Info("light map baked",
		zap.Int("width", opts.Width), zap.Int("height", opts.Height),
		zap.Int("meshes", res.Meshes), zap.Int("tiles", res.Tiles), zap.Int("skipped", res.Skipped))
	return res, nil
}

// SavePNG writes the baked image to path.
func (r *Result) SavePNG(path string) error {
	return debug.SavePNG(path, r.Image)
}
