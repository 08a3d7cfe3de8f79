package render

import (
	"fmt"

	"github.com/Faultbox/x3d/pkg/math"
	"github.com/Faultbox/x3d/pkg/tokens"
)

func writeVec4(w *tokens.Writer, v math.Vec4) {
	w.Floats(v.X, v.Y, v.Z, v.W)
}

func readVec4(r *tokens.Reader) (math.Vec4, error) {
	var f [4]float32
	if err := r.Floats(f[:]); err != nil {
		return math.Vec4{}, err
	}
	return math.Vec4{X: f[0], Y: f[1], Z: f[2], W: f[3]}, nil
}

// WriteTokens serializes the material as a "material ... end" block.
func (m Material) WriteTokens(w *tokens.Writer) {
	w.Keyword("material")
	w.Keyword("ambient")
	writeVec4(w, m.AmbientColor)
	w.Keyword("diffuse")
	writeVec4(w, m.DiffuseColor)
	w.Keyword("color")
	writeVec4(w, m.Color)
	w.Keyword("lighting")
	w.Bool(m.LightingEnabled)
	w.Bool(m.VertexColorEnabled)
	w.Keyword("textures")
	w.String(m.Texture)
	w.Int(int(m.TextureSampler))
	w.String(m.Texture2)
	w.Int(int(m.Texture2Sampler))
	w.Keyword("depth")
	w.Bool(m.DepthTestEnabled)
	w.Bool(m.DepthWriteEnabled)
	w.Keyword("blend")
	w.Bool(m.BlendEnabled)
	w.Bool(m.AdditiveBlend)
	w.Keyword("cull")
	w.Bool(m.CullEnabled)
	w.Bool(m.CullBack)
	w.Keyword("warp")
	w.Bool(m.WarpEnabled)
	w.Floats(m.WarpAmplitudes.X, m.WarpAmplitudes.Y, m.WarpAmplitudes.Z, m.WarpFrequency, m.WarpSpeed)
	w.Keyword("end")
}

// ReadMaterial parses a block written by Material.WriteTokens.
func ReadMaterial(r *tokens.Reader) (Material, error) {
	var m Material
	var err error

	fail := func(section string, err error) (Material, error) {
		return Material{}, fmt.Errorf("material %s: %w", section, err)
	}

	if err = r.Expect("material"); err != nil {
		return fail("header", err)
	}
	if err = r.Expect("ambient"); err != nil {
		return fail("ambient", err)
	}
	if m.AmbientColor, err = readVec4(r); err != nil {
		return fail("ambient", err)
	}
	if err = r.Expect("diffuse"); err != nil {
		return fail("diffuse", err)
	}
	if m.DiffuseColor, err = readVec4(r); err != nil {
		return fail("diffuse", err)
	}
	if err = r.Expect("color"); err != nil {
		return fail("color", err)
	}
	if m.Color, err = readVec4(r); err != nil {
		return fail("color", err)
	}

	flags := func(keyword string, a, b *bool) error {
		if err := r.Expect(keyword); err != nil {
			return err
		}
		var err error
		if *a, err = r.Bool(); err != nil {
			return err
		}
		*b, err = r.Bool()
		return err
	}

	if err = flags("lighting", &m.LightingEnabled, &m.VertexColorEnabled); err != nil {
		return fail("lighting", err)
	}

	if err = r.Expect("textures"); err != nil {
		return fail("textures", err)
	}
	var sampler int
	if m.Texture, err = r.String(); err != nil {
		return fail("textures", err)
	}
	if sampler, err = r.Int(); err != nil {
		return fail("textures", err)
	}
	m.TextureSampler = Sampler(sampler)
	if m.Texture2, err = r.String(); err != nil {
		return fail("textures", err)
	}
	if sampler, err = r.Int(); err != nil {
		return fail("textures", err)
	}
	m.Texture2Sampler = Sampler(sampler)

	if err = flags("depth", &m.DepthTestEnabled, &m.DepthWriteEnabled); err != nil {
		return fail("depth", err)
	}
	if err = flags("blend", &m.BlendEnabled, &m.AdditiveBlend); err != nil {
		return fail("blend", err)
	}
	if err = flags("cull", &m.CullEnabled, &m.CullBack); err != nil {
		return fail("cull", err)
	}

	if err = r.Expect("warp"); err != nil {
		return fail("warp", err)
	}
	if m.WarpEnabled, err = r.Bool(); err != nil {
		return fail("warp", err)
	}
	var warp [5]float32
	if err = r.Floats(warp[:]); err != nil {
		return fail("warp", err)
	}
	m.WarpAmplitudes = math.Vec3{X: warp[0], Y: warp[1], Z: warp[2]}
	m.WarpFrequency, m.WarpSpeed = warp[3], warp[4]

	if err = r.Expect("end"); err != nil {
		return fail("end", err)
	}
	return m, nil
}
