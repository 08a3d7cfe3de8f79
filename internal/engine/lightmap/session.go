// Package lightmap bakes static lighting for mesh quads into a texture.
//
// A bake runs in three steps. Each quad face is given a tile in the atlas by
// a Packer and pushed into a Session, which writes the tile's light map
// coordinates into the mesh and records one Vertex per texel. The session is
// then buffered and handed to a Tracer, which computes the colour of every
// texel against the shadow geometry and the scene lights.
package lightmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/x3d/internal/engine/lighting"
	"github.com/Faultbox/x3d/internal/engine/mesh"
	"github.com/Faultbox/x3d/pkg/math"
)

var (
	// ErrNotQuad is returned by PushQuad for faces without four vertices.
	ErrNotQuad = errors.New("light map face is not a quad")
	// ErrNotBuffered is returned by Render before Buffer is called.
	ErrNotBuffered = errors.New("lightmap: session not buffered")
)

// Vertex is the tracer input for one texel.
type Vertex struct {
	// Coord is the texel column and row.
	Coord    [2]int
	Position math.Vec3
	Normal   math.Vec3
	Ambient  math.Vec4
	Diffuse  math.Vec4
	// ReceivesShadow enables shadow rays for this texel.
	ReceivesShadow bool
}

// Session accumulates texels for one bake.
type Session struct {
	Width  int
	Height int

	SampleRadius float32
	AOLength     float32
	AOStrength   float32

	vertices []Vertex
	samples  []math.Vec3
	texels   []math.Vec4
	job      *Job
}

// BeginSession starts a bake into a width x height texture.
func BeginSession(width, height int) (*Session, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("lightmap: invalid size %dx%d", width, height)
	}
	s := &Session{Width: width, Height: height, SampleRadius: 32}
	s.Clear()
	return s, nil
}

// Clear drops pushed vertices and samples and resets every texel to white.
func (s *Session) Clear() {
	s.vertices = s.vertices[:0]
	s.samples = s.samples[:0]
	s.texels = make([]math.Vec4, s.Width*s.Height)
	for i := range s.texels {
		s.texels[i] = math.White
	}
	s.job = nil
}

// PushVertex adds one texel for the tracer.
func (s *Session) PushVertex(v Vertex) {
	s.vertices = append(s.vertices, v)
	s.job = nil
}

// PushSample adds a unit offset used to jitter shadow and occlusion rays.
func (s *Session) PushSample(sample math.Vec3) {
	if sample.LengthSquared() < 1e-12 {
		sample = math.Vec3UnitY
	}
	s.samples = append(s.samples, sample.Normalize())
	s.job = nil
}

// VertexCount returns the number of texels pushed.
func (s *Session) VertexCount() int {
	return len(s.vertices)
}

// SampleCount returns the number of samples pushed.
func (s *Session) SampleCount() int {
	return len(s.samples)
}

// QuadFootprint returns the tile size in texels for face i of m under model.
// The tile spans the first edge horizontally and the second vertically, one
// texel per scale units, at least one texel each way.
func QuadFootprint(i int, m *mesh.Mesh, model math.Mat4, scale float32) (int, int, error) {
	if m.FaceVertexCount(i) != 4 {
		return 0, 0, ErrNotQuad
	}
	p := quadPoints(i, m, model)
	return footprint(p[1].Sub(p[0]).Length(), scale), footprint(p[2].Sub(p[1]).Length(), scale), nil
}

func footprint(length, scale float32) int {
	if scale <= 0 {
		scale = 1
	}
	return max(int(length/scale), 1)
}

func quadPoints(i int, m *mesh.Mesh, model math.Mat4) [4]math.Vec3 {
	var p [4]math.Vec3
	for j := range p {
		p[j] = model.TransformPoint(m.VertexAt(m.FaceVertexAt(i, j)).Position)
	}
	return p
}

// PushQuad maps face i of m to the tile at texel (x, y) and pushes one
// vertex per texel of the tile. The light map coordinates of the four face
// vertices are inset by half a texel so filtering stays inside the tile.
// It returns the tile size.
func (s *Session) PushQuad(i int, m *mesh.Mesh, model math.Mat4, x, y int, ambient, diffuse math.Vec4, scale float32, receivesShadow bool) (int, int, error) {
	tw, th, err := QuadFootprint(i, m, model, scale)
	if err != nil {
		return 0, 0, err
	}
	if x < 0 || y < 0 || x+tw > s.Width || y+th > s.Height {
		return 0, 0, fmt.Errorf("%w at %d,%d size %dx%d", ErrTileAllocation, x, y, tw, th)
	}

	w, h := float32(s.Width), float32(s.Height)
	x0, y0 := float32(x), float32(y)
	x1, y1 := float32(x+tw), float32(y+th)
	uv2 := [4]math.Vec2{
		{X: (x0 + 0.5) / w, Y: (y0 + 0.5) / h},
		{X: (x1 - 0.5) / w, Y: (y0 + 0.5) / h},
		{X: (x1 - 0.5) / w, Y: (y1 - 0.5) / h},
		{X: (x0 + 0.5) / w, Y: (y1 - 0.5) / h},
	}
	for j := range uv2 {
		k := m.FaceVertexAt(i, j)
		v := m.VertexAt(k)
		v.TexCoord2 = uv2[j]
		m.SetVertex(k, v)
	}

	p := quadPoints(i, m, model)
	n := model.NormalMatrix().TransformNormal(m.VertexAt(m.FaceVertexAt(i, 0)).Normal).Normalize()

	for col := 0; col < tw; col++ {
		for row := 0; row < th; row++ {
			tx := (float32(col) + 0.5) / float32(tw)
			ty := (float32(row) + 0.5) / float32(th)
			a := p[0].Lerp(p[1], tx)
			b := p[3].Lerp(p[2], tx)
			s.PushVertex(Vertex{
				Coord:          [2]int{x + col, y + row},
				Position:       a.Lerp(b, ty),
				Normal:         n,
				Ambient:        ambient,
				Diffuse:        diffuse,
				ReceivesShadow: receivesShadow,
			})
		}
	}
	return tw, th, nil
}

// Buffer freezes the pushed vertices and samples into the job handed to the
// tracer. Pushing again invalidates it.
func (s *Session) Buffer() *Job {
	s.job = &Job{
		Width:        s.Width,
		Height:       s.Height,
		Vertices:     s.vertices,
		Samples:      s.samples,
		SampleRadius: s.SampleRadius,
		AOLength:     s.AOLength,
		AOStrength:   s.AOStrength,
		Texels:       s.texels,
	}
	return s.job
}

// Render traces the buffered job against accel with the given world-space
// lights, filling the session's texels.
func (s *Session) Render(tracer Tracer, accel Accel, lights []lighting.Light) error {
	if s.job == nil {
		return ErrNotBuffered
	}
	s.job.Accel = accel
	s.job.Lights = lights
	if err := tracer.Trace(s.job); err != nil {
		return fmt.Errorf("lightmap trace: %w", err)
	}
	return nil
}

// Texels returns the texel colours, row-major from the top-left.
func (s *Session) Texels() []math.Vec4 {
	return s.texels
}

// Image converts the texels to an opaque 8-bit image.
func (s *Session) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			c := s.texels[y*s.Width+x]
			img.SetRGBA(x, y, color.RGBA{R: channel(c.X), G: channel(c.Y), B: channel(c.Z), A: 255})
		}
	}
	return img
}

func channel(v float32) uint8 {
	return uint8(math32.Round(math.Clamp(v, 0, 1) * 255))
}
