package mesh

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/pkg/math"
	"github.com/Faultbox/x3d/pkg/tokens"
)

func vertexAt(x, y, z float32) render.Vertex {
	return render.Vertex{Position: math.Vec3{X: x, Y: y, Z: z}, Color: math.White}
}

// quad returns a 2x2 floor quad at height y facing +Y.
func quad(y float32) *Mesh {
	m := New()
	m.PushVertex(vertexAt(-1, y, -1))
	m.PushVertex(vertexAt(-1, y, 1))
	m.PushVertex(vertexAt(1, y, 1))
	m.PushVertex(vertexAt(1, y, -1))
	m.PushFace([]int{0, 1, 2, 3}, false)
	return m
}

func TestVertexRoundTrip(t *testing.T) {
	m := New()
	const n = 50
	want := make([]render.Vertex, n)
	for i := range want {
		f := float32(i)
		want[i] = render.NewVertex(f, f*2, -f, f/n, 1-f/n, 0.5, 0.25, 0, 1, 0, 1, f/n, 0, 1)
		assert.Equal(t, i, m.PushVertex(want[i]))
	}
	require.Equal(t, n, m.VertexCount())
	for i := range want {
		assert.Equal(t, want[i], m.VertexAt(i))
	}
}

func TestPushFaceFanTriangulation(t *testing.T) {
	m := New()
	for i := 0; i < 5; i++ {
		m.PushVertex(vertexAt(float32(i), 0, 0))
	}
	m.PushFace([]int{0, 1, 2, 3, 4}, false)

	assert.Equal(t, 1, m.FaceCount())
	assert.Equal(t, 5, m.FaceVertexCount(0))
	assert.Equal(t, 3, m.TriangleCount())
	want := []int{0, 1, 2, 0, 2, 3, 0, 3, 4}
	require.Equal(t, len(want), m.IndexCount())
	for i, idx := range want {
		assert.Equal(t, idx, m.IndexAt(i), "index %d", i)
	}
}

func TestPushFaceSwapWinding(t *testing.T) {
	m := quad(0)
	assert.InDelta(t, 1, m.TriangleAt(0).N.Y, 1e-6)

	m.ClearFaces()
	m.PushFace([]int{0, 1, 2, 3}, true)
	assert.Equal(t, 3, m.FaceVertexAt(0, 0))
	assert.InDelta(t, -1, m.TriangleAt(0).N.Y, 1e-6)
}

func TestPushFacePanics(t *testing.T) {
	m := quad(0)
	assert.Panics(t, func() { m.PushFace([]int{0, 1, 4}, false) })
	assert.Panics(t, func() { m.PushFace([]int{0, 1}, false) })
	assert.Panics(t, func() { m.PushFace([]int{-1, 1, 2}, false) })
}

func TestPopAndClear(t *testing.T) {
	m := quad(0)
	m.PushFace([]int{0, 1, 2}, false)
	require.Equal(t, 3, m.TriangleCount())

	assert.True(t, m.PopFace())
	assert.Equal(t, 1, m.FaceCount())
	assert.Equal(t, 6, m.IndexCount())

	m.Clear()
	assert.Equal(t, 0, m.VertexCount())
	assert.Equal(t, 0, m.FaceCount())
	assert.False(t, m.PopFace())
}

func TestRevisionChangesOnEdit(t *testing.T) {
	m := quad(0)
	r := m.Revision()
	m.SetVertex(0, vertexAt(0, 5, 0))
	assert.Greater(t, m.Revision(), r)
}

func TestCalcNormalsAreaWeighted(t *testing.T) {
	m := New()
	// A large floor triangle and a small wall triangle share vertex 0.
	m.PushVertex(vertexAt(0, 0, 0))
	m.PushVertex(vertexAt(0, 0, 10))
	m.PushVertex(vertexAt(10, 0, 0))
	m.PushVertex(vertexAt(0, 1, 0))
	m.PushFace([]int{0, 1, 2}, false)
	m.PushFace([]int{0, 3, 1}, false)
	m.CalcNormals()

	n := m.VertexAt(0).Normal
	assert.InDelta(t, 1, n.Length(), 1e-5)
	// Floor contributes 100 toward +Y, wall contributes 10 toward +X.
	assert.Greater(t, n.Y, float32(0.99))
	assert.Greater(t, n.X, float32(0))

	assert.InDelta(t, 1, m.VertexAt(2).Normal.Y, 1e-5)
	assert.InDelta(t, 1, m.VertexAt(3).Normal.X, 1e-5)
}

func TestFaceIsConvex(t *testing.T) {
	m := quad(0)
	assert.True(t, m.FaceIsConvex(0))

	// An arrowhead: vertex 2 pokes inward.
	c := New()
	c.PushVertex(vertexAt(0, 0, 0))
	c.PushVertex(vertexAt(0, 0, 4))
	c.PushVertex(vertexAt(1, 0, 2))
	c.PushVertex(vertexAt(4, 0, 4))
	c.PushVertex(vertexAt(4, 0, 0))
	c.PushFace([]int{0, 1, 2, 3, 4}, false)
	assert.False(t, c.FaceIsConvex(0))
}

func TestCalcBounds(t *testing.T) {
	m := quad(3)
	m.PushVertex(vertexAt(100, 100, 100)) // unused
	b := m.CalcBounds()
	assert.Equal(t, math.Vec3{X: -1, Y: 3, Z: -1}, b.Min)
	assert.Equal(t, math.Vec3{X: 1, Y: 3, Z: 1}, b.Max)

	assert.True(t, New().CalcBounds().IsEmpty())
}

func TestCalcTextureCoordinates(t *testing.T) {
	m := quad(0)
	m.CalcTextureCoordinates(2)
	assert.Equal(t, math.Vec2{X: 0.5, Y: 0.5}, m.VertexAt(2).TexCoord)
}

func TestPushBox(t *testing.T) {
	m := New()
	m.PushBox(math.Vec3{X: 2, Y: 4, Z: 6}, math.Vec3{X: 10}, math.Vec3{}, false)
	require.Equal(t, 24, m.VertexCount())
	require.Equal(t, 6, m.FaceCount())
	assert.Equal(t, 12, m.TriangleCount())

	b := m.CalcBounds()
	assert.Equal(t, math.Vec3{X: 9, Y: -2, Z: -3}, b.Min)
	assert.Equal(t, math.Vec3{X: 11, Y: 2, Z: 3}, b.Max)

	// Every face points away from the centre and matches its vertex normals.
	centre := b.Center()
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.TriangleAt(i)
		out := tri.Centroid().Sub(centre)
		assert.Greater(t, tri.N.Dot(out), float32(0), "triangle %d faces inward", i)
		assert.InDelta(t, 1, tri.N.Dot(m.VertexAt(m.IndexAt(i*3)).Normal), 1e-5)
	}

	room := New()
	room.PushBox(math.Vec3{X: 2, Y: 2, Z: 2}, math.Vec3{}, math.Vec3{Y: 45}, true)
	for i := 0; i < room.TriangleCount(); i++ {
		tri := room.TriangleAt(i)
		assert.Less(t, tri.N.Dot(tri.Centroid()), float32(0), "triangle %d faces outward", i)
		assert.InDelta(t, 1, tri.N.Dot(room.VertexAt(room.IndexAt(i*3)).Normal), 1e-5)
	}
}

func TestAccelGeometry(t *testing.T) {
	m := quad(0)
	positions, indices := m.AccelGeometry(math.Translate(0, 2, 0))
	require.Len(t, positions, 4)
	assert.Equal(t, float32(2), positions[0].Y)
	assert.Equal(t, []int{0, 1, 2, 0, 2, 3}, indices)
}

func TestEncode(t *testing.T) {
	m := quad(0)
	rec := &render.Recorder{}
	ctx := &render.Context{Encoder: rec, Model: math.Identity()}
	require.NoError(t, m.Encode(ctx))
	require.Len(t, rec.Batches, 1)
	assert.Len(t, rec.Batches[0].Vertices, 6)
	assert.Equal(t, render.KindMesh, m.Kind())

	m.SetVertex(2, vertexAt(1, 7, 1))
	rec.Reset()
	require.NoError(t, m.Encode(ctx))
	assert.Equal(t, float32(7), rec.Batches[0].Vertices[2].Position.Y)
}

func TestTokensRoundTrip(t *testing.T) {
	m := New()
	m.PushBox(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: 0.5}, math.Vec3{Z: 30}, false)
	m.PushFace([]int{0, 5, 9}, true)
	m.Material.Texture = "crate.png"

	var buf bytes.Buffer
	w := tokens.NewWriter(&buf)
	m.WriteTokens(w)
	require.NoError(t, w.Flush())

	got, err := Read(tokens.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, m.Material, got.Material)
	require.Equal(t, m.VertexCount(), got.VertexCount())
	for i := 0; i < m.VertexCount(); i++ {
		assert.Equal(t, m.VertexAt(i), got.VertexAt(i))
	}
	require.Equal(t, m.IndexCount(), got.IndexCount())
	for i := 0; i < m.IndexCount(); i++ {
		assert.Equal(t, m.IndexAt(i), got.IndexAt(i))
	}
}

func TestReadRejectsBadIndex(t *testing.T) {
	m := quad(0)
	var buf bytes.Buffer
	w := tokens.NewWriter(&buf)
	m.WriteTokens(w)
	require.NoError(t, w.Flush())

	text := bytes.Replace(buf.Bytes(), []byte("4 0 1 2 3"), []byte("4 0 1 2 9"), 1)
	_, err := Read(tokens.NewReader(bytes.NewReader(text)))
	assert.Error(t, err)
}

func TestReadRejectsOversizedCounts(t *testing.T) {
	m := quad(0)
	var buf bytes.Buffer
	w := tokens.NewWriter(&buf)
	m.WriteTokens(w)
	require.NoError(t, w.Flush())

	for name, edit := range map[string][2]string{
		"vertices":   {"vertices 4", "vertices 9000000000000000"},
		"face width": {"4 0 1 2 3", "9000000000000000 0 1 2 3"},
	} {
		t.Run(name, func(t *testing.T) {
			text := bytes.Replace(buf.Bytes(), []byte(edit[0]), []byte(edit[1]), 1)
			require.NotEqual(t, buf.Bytes(), text)
			assert.NotPanics(t, func() {
				_, err := Read(tokens.NewReader(bytes.NewReader(text)))
				assert.Error(t, err)
			})
		})
	}
}
