package assets

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/Faultbox/x3d/internal/engine/mesh"
	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/pkg/math"
)

// OBJLoader reads Wavefront OBJ files. The result is a node named after the
// file with one mesh child per material, in order of first use.
type OBJLoader struct{}

// Load implements Loader.
func (OBJLoader) Load(m *Manager, name string) (any, error) {
	return LoadOBJ(m.FS(), name)
}

// objMaterial is the subset of an MTL material the loader keeps.
type objMaterial struct {
	texture string
	ambient math.Vec4
	diffuse math.Vec4
	hasKa   bool
	hasKd   bool
}

type objGroup struct {
	node   *scene.Node
	mesh   *mesh.Mesh
	smooth bool // some face had no normals
}

type objParser struct {
	fsys      fs.FS
	dir       string
	positions []math.Vec3
	texCoords []math.Vec2
	normals   []math.Vec3
	materials map[string]*objMaterial
	groups    map[string]*objGroup
	order     []*objGroup
	root      *scene.Node
	current   string
}

// LoadOBJ reads name from fsys. Material libraries and textures are resolved
// relative to the OBJ file. Texture V coordinates are flipped so rows run top
// down, and faces without normals get computed ones.
func LoadOBJ(fsys fs.FS, name string) (*scene.Node, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	base := path.Base(name)
	p := &objParser{
		fsys:      fsys,
		dir:       path.Dir(name),
		materials: make(map[string]*objMaterial),
		groups:    make(map[string]*objGroup),
		root:      scene.NewNode(strings.TrimSuffix(base, path.Ext(base))),
	}
	if err := p.parse(f, name); err != nil {
		return nil, err
	}
	for _, g := range p.order {
		if g.smooth {
			g.mesh.CalcNormals()
		}
	}
	return p.root, nil
}

func (p *objParser) parse(r io.Reader, name string) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := p.statement(fields); err != nil {
			return fmt.Errorf("%s:%d: %w", name, line, err)
		}
	}
	return sc.Err()
}

func (p *objParser) statement(fields []string) error {
	args := fields[1:]
	switch fields[0] {
	case "v":
		v, err := parseFloats(args, 3)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, math.Vec3{X: v[0], Y: v[1], Z: v[2]})
	case "vt":
		v, err := parseFloats(args, 2)
		if err != nil {
			return err
		}
		p.texCoords = append(p.texCoords, math.Vec2{X: v[0], Y: 1 - v[1]})
	case "vn":
		v, err := parseFloats(args, 3)
		if err != nil {
			return err
		}
		p.normals = append(p.normals, math.Vec3{X: v[0], Y: v[1], Z: v[2]})
	case "mtllib":
		for _, lib := range args {
			if err := p.readMaterials(path.Join(p.dir, lib)); err != nil {
				return err
			}
		}
	case "usemtl":
		p.current = strings.Join(args, " ")
		p.group()
	case "f":
		return p.face(args)
	}
	return nil
}

func parseFloats(args []string, n int) ([]float32, error) {
	if len(args) < n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}
	out := make([]float32, n)
	for i := range out {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// group returns the mesh node for the current material, creating it on first use.
func (p *objParser) group() *objGroup {
	if g := p.groups[p.current]; g != nil {
		return g
	}
	m := mesh.New()
	nodeName := p.current
	if nodeName == "" {
		nodeName = "default"
	}
	if mat := p.materials[p.current]; mat != nil {
		if mat.texture != "" {
			m.Material.Texture = mat.texture
			base := path.Base(mat.texture)
			nodeName = strings.TrimSuffix(base, path.Ext(base))
		}
		if mat.hasKa {
			m.Material.AmbientColor = mat.ambient
		}
		if mat.hasKd {
			m.Material.DiffuseColor = mat.diffuse
		}
	}
	g := &objGroup{node: scene.NewMeshNode(nodeName, m), mesh: m}
	// Two materials can share a texture; keep node names unique.
	if p.root.Find(nodeName) != nil {
		g.node.Name = fmt.Sprintf("%s.%d", nodeName, len(p.order))
	}
	p.root.AddChild(g.node)
	p.groups[p.current] = g
	p.order = append(p.order, g)
	return g
}

// index resolves a 1-based, possibly negative, OBJ index against n elements.
func index(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i += n
	} else {
		i--
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %s out of range", s)
	}
	return i, nil
}

// face appends a polygon with its own vertices. Each corner is v, v/t, v//n
// or v/t/n.
func (p *objParser) face(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("face needs 3 vertices, got %d", len(args))
	}
	g := p.group()
	indices := make([]int, 0, len(args))
	for _, corner := range args {
		parts := strings.Split(corner, "/")
		v := render.Vertex{Color: math.White}

		pi, err := index(parts[0], len(p.positions))
		if err != nil {
			return err
		}
		v.Position = p.positions[pi]

		if len(parts) > 1 && parts[1] != "" {
			ti, err := index(parts[1], len(p.texCoords))
			if err != nil {
				return err
			}
			v.TexCoord = p.texCoords[ti]
		}
		if len(parts) > 2 && parts[2] != "" {
			ni, err := index(parts[2], len(p.normals))
			if err != nil {
				return err
			}
			v.Normal = p.normals[ni]
		} else {
			g.smooth = true
		}
		indices = append(indices, g.mesh.PushVertex(v))
	}
	g.mesh.PushFace(indices, false)
	return nil
}

func (p *objParser) readMaterials(name string) error {
	f, err := p.fsys.Open(name)
	if err != nil {
		return fmt.Errorf("mtllib: %w", err)
	}
	defer f.Close()

	dir := path.Dir(name)
	var cur *objMaterial
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "newmtl":
			cur = &objMaterial{}
			p.materials[strings.Join(fields[1:], " ")] = cur
		case "map_Kd":
			if cur != nil {
				// Options such as -s come before the file name.
				cur.texture = path.Join(dir, fields[len(fields)-1])
			}
		case "Ka", "Kd":
			if cur == nil {
				continue
			}
			c, err := parseFloats(fields[1:], 3)
			if err != nil {
				return fmt.Errorf("%s %s: %w", name, fields[0], err)
			}
			color := math.Vec4{X: c[0], Y: c[1], Z: c[2], W: 1}
			if fields[0] == "Ka" {
				cur.ambient, cur.hasKa = color, true
			} else {
				cur.diffuse, cur.hasKd = color, true
			}
		}
	}
	return sc.Err()
}
