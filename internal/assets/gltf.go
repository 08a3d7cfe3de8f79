package assets

import (
	"fmt"
	"path"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/x3d/internal/engine/mesh"
	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/internal/logger"
	"github.com/Faultbox/x3d/pkg/math"
)

// GLTFLoader reads .gltf and .glb files, external buffers included.
type GLTFLoader struct{}

// Load implements Loader.
func (GLTFLoader) Load(m *Manager, name string) (any, error) {
	doc, err := gltf.Open(m.Path(name))
	if err != nil {
		return nil, err
	}
	base := path.Base(name)
	n, err := FromGLTF(doc, base[:len(base)-len(path.Ext(base))])
	if err != nil {
		return nil, err
	}
	relativeTextures(n, path.Dir(name))
	return n, nil
}

// relativeTextures makes texture names resolve from the asset root.
func relativeTextures(root *scene.Node, dir string) {
	root.Traverse(func(n *scene.Node) bool {
		if m := n.Mesh(); m != nil && m.Material.Texture != "" {
			m.Material.Texture = path.Join(dir, m.Material.Texture)
		}
		return true
	})
}

// FromGLTF converts the default scene of doc into a node tree under a root
// called name. Each glTF mesh becomes a node per triangle primitive.
// Cameras and skins are ignored; KHR_lights_punctual lights are not read.
func FromGLTF(doc *gltf.Document, name string) (*scene.Node, error) {
	meshes := make([][]*mesh.Mesh, len(doc.Meshes))
	for i, gm := range doc.Meshes {
		for j, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				logger.Warn("skipping non-triangle primitive",
					zap.String("mesh", gm.Name), zap.Int("primitive", j))
				continue
			}
			m, err := gltfPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", gm.Name, j, err)
			}
			meshes[i] = append(meshes[i], m)
		}
	}

	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		n := scene.NewNode(gn.Name)
		if n.Name == "" {
			n.Name = fmt.Sprintf("node%d", i)
		}
		setTransform(n, gn)
		if gn.Mesh != nil {
			ms := meshes[*gn.Mesh]
			if len(ms) == 1 {
				n.SetEncodable(ms[0])
			} else {
				for j, m := range ms {
					n.AddChild(scene.NewMeshNode(fmt.Sprintf("%s.%d", n.Name, j), m))
				}
			}
		}
		nodes[i] = n
	}
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if int(c) < 0 || int(c) >= len(nodes) || nodes[c].Parent() != nil || nodes[c].IsAncestorOf(nodes[i]) {
				return nil, fmt.Errorf("node %d has invalid child %d", i, c)
			}
			nodes[i].AddChild(nodes[c])
		}
	}

	root := scene.NewNode(name)
	var roots []int
	switch {
	case doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes):
		for _, r := range doc.Scenes[*doc.Scene].Nodes {
			roots = append(roots, int(r))
		}
	case len(doc.Scenes) > 0:
		for _, r := range doc.Scenes[0].Nodes {
			roots = append(roots, int(r))
		}
	default:
		for i, n := range nodes {
			if n.Parent() == nil {
				roots = append(roots, i)
			}
		}
	}
	for _, r := range roots {
		if r < 0 || r >= len(nodes) {
			return nil, fmt.Errorf("scene node %d out of range", r)
		}
		root.AddChild(nodes[r])
	}
	return root, nil
}

// setTransform copies translation, rotation and scale. A non-identity matrix
// takes precedence and is decomposed. Zero scale or rotation means the field
// was left empty.
func setTransform(n *scene.Node, gn *gltf.Node) {
	var mat math.Mat4
	for i := range mat {
		mat[i] = float32(gn.Matrix[i])
	}
	if mat != (math.Mat4{}) && mat != math.Identity() {
		pos, scale, rot := decompose(mat)
		n.SetPosition(pos)
		n.SetScale(scale)
		n.SetRotation(rot)
		return
	}

	n.SetPosition(math.Vec3{X: float32(gn.Translation[0]), Y: float32(gn.Translation[1]), Z: float32(gn.Translation[2])})
	scale := math.Vec3{X: float32(gn.Scale[0]), Y: float32(gn.Scale[1]), Z: float32(gn.Scale[2])}
	if scale == (math.Vec3{}) {
		scale = math.Vec3One
	}
	n.SetScale(scale)
	q := math.Quat{X: float32(gn.Rotation[0]), Y: float32(gn.Rotation[1]), Z: float32(gn.Rotation[2]), W: float32(gn.Rotation[3])}
	if q != (math.Quat{}) {
		n.SetRotation(q.ToMat4())
	}
}

// decompose splits an affine matrix without shear into translation, scale
// and rotation.
func decompose(m math.Mat4) (math.Vec3, math.Vec3, math.Mat4) {
	pos := math.Vec3{X: m[12], Y: m[13], Z: m[14]}
	axes := [3]math.Vec3{
		{X: m[0], Y: m[1], Z: m[2]},
		{X: m[4], Y: m[5], Z: m[6]},
		{X: m[8], Y: m[9], Z: m[10]},
	}
	scale := math.Vec3{X: axes[0].Length(), Y: axes[1].Length(), Z: axes[2].Length()}
	if axes[0].Cross(axes[1]).Dot(axes[2]) < 0 {
		scale.X = -scale.X
		axes[0] = axes[0].Neg()
	}
	rot := math.Identity()
	for i, a := range axes {
		a = a.Normalize()
		rot[i*4], rot[i*4+1], rot[i*4+2] = a.X, a.Y, a.Z
	}
	return pos, scale, rot
}

func gltfPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*mesh.Mesh, error) {
	posAccessor, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no %s attribute", gltf.POSITION)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posAccessor], nil)
	if err != nil {
		return nil, err
	}

	m := mesh.New()
	verts := make([]render.Vertex, len(positions))
	for i, p := range positions {
		verts[i] = render.Vertex{Position: math.Vec3{X: p[0], Y: p[1], Z: p[2]}, Color: math.White}
	}

	hasNormals := false
	if a, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[a], nil)
		if err != nil {
			return nil, err
		}
		for i := 0; i < len(normals) && i < len(verts); i++ {
			verts[i].Normal = math.Vec3{X: normals[i][0], Y: normals[i][1], Z: normals[i][2]}
		}
		hasNormals = true
	}
	if a, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[a], nil)
		if err != nil {
			return nil, err
		}
		for i := 0; i < len(uvs) && i < len(verts); i++ {
			verts[i].TexCoord = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
	}
	if a, ok := prim.Attributes[gltf.TEXCOORD_1]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[a], nil)
		if err != nil {
			return nil, err
		}
		for i := 0; i < len(uvs) && i < len(verts); i++ {
			verts[i].TexCoord2 = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
	}
	for _, v := range verts {
		m.PushVertex(v)
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, err
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%d indices is not a triangle list", len(indices))
	}
	for i := 0; i < len(indices); i += 3 {
		face := []int{int(indices[i]), int(indices[i+1]), int(indices[i+2])}
		for _, k := range face {
			if k >= len(verts) {
				return nil, fmt.Errorf("index %d out of range", k)
			}
		}
		m.PushFace(face, false)
	}
	if !hasNormals {
		m.CalcNormals()
	}

	if prim.Material != nil && int(*prim.Material) < len(doc.Materials) {
		applyMaterial(doc, doc.Materials[*prim.Material], &m.Material)
	}
	return m, nil
}

func applyMaterial(doc *gltf.Document, gm *gltf.Material, mat *render.Material) {
	mat.CullEnabled = !gm.DoubleSided
	if gm.AlphaMode == gltf.AlphaBlend {
		mat.BlendEnabled = true
		mat.AdditiveBlend = false
		mat.DepthWriteEnabled = false
	}
	pbr := gm.PBRMetallicRoughness
	if pbr == nil {
		return
	}
	if c := pbr.BaseColorFactor; c != nil {
		mat.DiffuseColor = math.Vec4{X: float32(c[0]), Y: float32(c[1]), Z: float32(c[2]), W: float32(c[3])}
	}
	if t := pbr.BaseColorTexture; t != nil && int(t.Index) < len(doc.Textures) {
		if src := doc.Textures[t.Index].Source; src != nil && int(*src) < len(doc.Images) {
			if uri := doc.Images[*src].URI; uri != "" && !doc.Images[*src].IsEmbeddedResource() {
				mat.Texture = uri
			}
		}
	}
}
