package assets

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/pkg/math"
)

const cubeOBJ = `# two materials
mtllib cube.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl brick
f 1/1/1 2/2/1 3/3/1 4/4/1
usemtl plain
f 1/1/1 3/3/1 4/4/1
f -4 -3 -2
`

const cubeMTL = `newmtl brick
Ka 0.1 0.2 0.3
Kd 0.5 0.5 0.5
map_Kd textures/brick.png
newmtl plain
Kd 1 0 0
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return dir
}

func TestLoadOBJ(t *testing.T) {
	fsys := fstest.MapFS{
		"models/cube.obj": {Data: []byte(cubeOBJ)},
		"models/cube.mtl": {Data: []byte(cubeMTL)},
	}
	root, err := LoadOBJ(fsys, "models/cube.obj")
	require.NoError(t, err)

	assert.Equal(t, "cube", root.Name)
	require.Equal(t, 2, root.ChildCount())

	brick := root.ChildAt(0)
	assert.Equal(t, "brick", brick.Name, "named after the texture")
	m := brick.Mesh()
	require.NotNil(t, m)
	assert.Equal(t, "models/textures/brick.png", m.Material.Texture)
	assert.Equal(t, math.Vec4{X: 0.1, Y: 0.2, Z: 0.3, W: 1}, m.Material.AmbientColor)
	assert.Equal(t, 1, m.FaceCount())
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, math.Vec2{X: 0, Y: 1}, m.VertexAt(0).TexCoord, "v is flipped")
	assert.Equal(t, math.Vec2{X: 1, Y: 0}, m.VertexAt(2).TexCoord)

	plain := root.ChildAt(1)
	assert.Equal(t, "plain", plain.Name)
	pm := plain.Mesh()
	assert.Equal(t, math.Vec4{X: 1, W: 1}, pm.Material.DiffuseColor)
	assert.Equal(t, 2, pm.FaceCount())
	assert.Equal(t, 6, pm.VertexCount(), "every face gets its own vertices")
	// The last face has no normals, so they are computed from its winding.
	assert.True(t, pm.VertexAt(5).Normal.ApproxEqual(math.Vec3UnitZ, 1e-5), "%v", pm.VertexAt(5).Normal)
}

func TestLoadOBJWithoutMaterials(t *testing.T) {
	fsys := fstest.MapFS{"tri.obj": {Data: []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")}}
	root, err := LoadOBJ(fsys, "tri.obj")
	require.NoError(t, err)
	require.Equal(t, 1, root.ChildCount())
	assert.Equal(t, "default", root.ChildAt(0).Name)
	assert.Equal(t, 1, root.ChildAt(0).Mesh().TriangleCount())
}

func TestLoadOBJErrors(t *testing.T) {
	cases := map[string]string{
		"short vertex":    "v 1 2\n",
		"bad number":      "v 1 x 3\n",
		"index range":     "v 0 0 0\nf 1 2 3\n",
		"short face":      "v 0 0 0\nf 1 1\n",
		"missing mtllib":  "mtllib nope.mtl\n",
		"bad texcoord ix": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/9 2/9 3/9\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadOBJ(fstest.MapFS{"bad.obj": {Data: []byte(body)}}, "bad.obj")
			assert.Error(t, err)
		})
	}

	_, err := LoadOBJ(fstest.MapFS{"bad.obj": {Data: []byte("v 0 0 0\n\nv 1\n")}}, "bad.obj")
	assert.ErrorContains(t, err, "bad.obj:3:")
}

func TestManagerCachesAndClones(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"cube.obj": cubeOBJ,
		"cube.mtl": cubeMTL,
	})
	m := NewManager(dir, nil)

	a, err := m.LoadNode("cube.obj")
	require.NoError(t, err)
	b, err := m.LoadNode("cube.obj")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.NotSame(t, a.ChildAt(0).Mesh(), b.ChildAt(0).Mesh())

	hits, misses := m.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	m.Unload("cube.obj")
	_, err = m.Load("cube.obj")
	require.NoError(t, err)
	_, misses = m.Stats()
	assert.Equal(t, 2, misses)

	_, err = m.Load("readme.txt")
	assert.ErrorIs(t, err, ErrNoLoader)

	_, err = m.LoadImage("cube.obj")
	assert.ErrorContains(t, err, "want image")
}

func TestManagerImages(t *testing.T) {
	m := NewManager(t.TempDir(), nil)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(1, 1, color.RGBA{R: 200, A: 255})
	require.NoError(t, m.SaveImage("lm.png", img))

	got, err := m.LoadImage("lm.png")
	require.NoError(t, err)
	r, _, _, _ := got.At(1, 1).RGBA()
	assert.Equal(t, uint32(200)*0x101, r)
}

func TestManagerBMP(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(1, 0, color.RGBA{G: 90, A: 255})
	f, err := os.Create(filepath.Join(dir, "t.bmp"))
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, img))
	require.NoError(t, f.Close())

	got, err := NewManager(dir, nil).LoadImage("t.bmp")
	require.NoError(t, err)
	_, g, _, _ := got.At(1, 0).RGBA()
	assert.Equal(t, uint32(90)*0x101, g)
}

func TestManagerTGA(t *testing.T) {
	dir := t.TempDir()
	// 1x1 uncompressed 24-bit, stored as BGR.
	data := make([]byte, 18)
	data[2] = 2
	data[12], data[14], data[16] = 1, 1, 24
	data = append(data, 10, 20, 30)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "t.tga"), data, 0644))

	m := NewManager(dir, nil)
	img, err := m.LoadImage("t.tga")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 30, G: 20, B: 10, A: 255}, img.At(0, 0))
}

func TestManagerLoaderFunc(t *testing.T) {
	m := NewManager(t.TempDir(), nil)
	calls := 0
	m.Register("TXT", LoaderFunc(func(*Manager, string) (any, error) {
		calls++
		return "hello", nil
	}))
	v, err := m.Load("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
	_, _ = m.Load("a.txt")
	assert.Equal(t, 1, calls)
	m.Clear()
	_, _ = m.Load("a.txt")
	assert.Equal(t, 2, calls)
}

func TestManagerScenes(t *testing.T) {
	dir := t.TempDir()
	sc := scene.New()
	sc.Root.AddChild(scene.NewNode("child"))
	require.NoError(t, sc.Save(filepath.Join(dir, "level.x3d")))

	m := NewManager(dir, nil)
	got, err := m.LoadScene("level.x3d")
	require.NoError(t, err)
	assert.NotNil(t, got.Root.Find("child"))
}

func triangleDoc() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Materials = []*gltf.Material{{
		Name:                 "red",
		DoubleSided:          true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 0, 0, 1}},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos},
			Indices:    gltf.Index(idx),
			Material:   gltf.Index(0),
		}},
	}}
	parent := &gltf.Node{Name: "parent", Children: []int{1}}
	parent.Translation[0] = 5
	child := &gltf.Node{Name: "child", Mesh: gltf.Index(0)}
	child.Scale[0], child.Scale[1], child.Scale[2] = 2, 2, 2
	doc.Nodes = []*gltf.Node{parent, child}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
	doc.Scene = gltf.Index(0)
	return doc
}

func TestFromGLTF(t *testing.T) {
	root, err := FromGLTF(triangleDoc(), "model")
	require.NoError(t, err)
	assert.Equal(t, "model", root.Name)

	parent := root.Find("parent")
	require.NotNil(t, parent)
	assert.Equal(t, math.Vec3{X: 5}, parent.Position())

	child := root.Find("child")
	require.NotNil(t, child)
	assert.Same(t, parent, child.Parent())
	assert.Equal(t, math.Vec3{X: 2, Y: 2, Z: 2}, child.Scale())

	m := child.Mesh()
	require.NotNil(t, m)
	assert.Equal(t, 1, m.TriangleCount())
	assert.Equal(t, math.Vec4{X: 1, W: 1}, m.Material.DiffuseColor)
	assert.False(t, m.Material.CullEnabled)
	assert.True(t, m.VertexAt(0).Normal.ApproxEqual(math.Vec3UnitZ, 1e-5), "computed normal %v", m.VertexAt(0).Normal)

	root.CalcTransform()
	assert.True(t, child.AbsolutePosition().ApproxEqual(math.Vec3{X: 5}, 1e-5))
}

func TestFromGLTFRejectsCycles(t *testing.T) {
	doc := triangleDoc()
	doc.Nodes[1].Children = []int{0}
	_, err := FromGLTF(doc, "model")
	assert.Error(t, err)
}

func TestDecompose(t *testing.T) {
	want := math.Translate(1, 2, 3).Mul(math.RotateY(90)).Mul(math.Scale(2, 3, 4))
	pos, scale, rot := decompose(want)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, pos)
	assert.True(t, scale.ApproxEqual(math.Vec3{X: 2, Y: 3, Z: 4}, 1e-5), "%v", scale)
	got := math.TranslateVec3(pos).Mul(rot).Mul(math.ScaleVec3(scale))
	assert.True(t, want.ApproxEqual(got, 1e-5))
}
