package render

import "github.com/Faultbox/x3d/pkg/math"

// Sampler selects texture filtering and wrapping.
type Sampler int

const (
	LinearClampToEdge Sampler = iota + 1
	LinearRepeat
	NearestClampToEdge
	NearestRepeat
)

// Linear reports whether the sampler filters bilinearly.
func (s Sampler) Linear() bool {
	return s == LinearClampToEdge || s == LinearRepeat
}

// Repeat reports whether the sampler wraps.
func (s Sampler) Repeat() bool {
	return s == LinearRepeat || s == NearestRepeat
}

// Material is the fixed-function state attached to a batch.
// Texture and Texture2 are asset names resolved by the backend; Texture2 is
// the baked light map sampled with TexCoord2.
type Material struct {
	AmbientColor math.Vec4
	DiffuseColor math.Vec4
	Color        math.Vec4

	LightingEnabled    bool
	VertexColorEnabled bool

	Texture         string
	Texture2        string
	TextureSampler  Sampler
	Texture2Sampler Sampler

	DepthTestEnabled  bool
	DepthWriteEnabled bool
	BlendEnabled      bool
	AdditiveBlend     bool
	CullEnabled       bool
	CullBack          bool

	// Vertex warp, a sine displacement used for water and foliage.
	WarpEnabled    bool
	WarpAmplitudes math.Vec3
	WarpFrequency  float32
	WarpSpeed      float32
}

// DefaultMaterial returns opaque, depth-tested, back-face culled white.
func DefaultMaterial() Material {
	return Material{
		AmbientColor:      math.Vec4{X: 0, Y: 0, Z: 0, W: 1},
		DiffuseColor:      math.White,
		Color:             math.White,
		TextureSampler:    LinearRepeat,
		Texture2Sampler:   LinearClampToEdge,
		DepthTestEnabled:  true,
		DepthWriteEnabled: true,
		AdditiveBlend:     true,
		CullEnabled:       true,
		CullBack:          true,
	}
}
