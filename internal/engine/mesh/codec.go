package mesh

import (
	"fmt"

	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/pkg/tokens"
)

// WriteTokens serializes the mesh as
// "mesh <material> vertices n (14 floats)* faces n (k i*)* end".
func (m *Mesh) WriteTokens(w *tokens.Writer) {
	w.Keyword("mesh")
	w.Indent(1)
	w.Newline()
	m.Material.WriteTokens(w)
	w.Newline()
	w.Keyword("vertices")
	w.Int(len(m.vertices))
	for _, v := range m.vertices {
		w.Newline()
		p := v.Pack()
		w.Floats(p[:]...)
	}
	w.Newline()
	w.Keyword("faces")
	w.Int(len(m.faces))
	for _, f := range m.faces {
		w.Newline()
		w.Int(len(f))
		for _, i := range f {
			w.Int(i)
		}
	}
	w.Indent(-1)
	w.Newline()
	w.Keyword("end")
}

// maxPrealloc bounds the capacity Read reserves from a count in the input.
// Larger meshes still load, growing as their data arrives.
const maxPrealloc = 1 << 16

// Read parses a mesh written by WriteTokens. Faces are validated like PushFace
// but reported as errors, since the input is untrusted.
func Read(r *tokens.Reader) (*Mesh, error) {
	if err := r.Expect("mesh"); err != nil {
		return nil, err
	}
	mat, err := render.ReadMaterial(r)
	if err != nil {
		return nil, err
	}
	m := New()
	m.Material = mat

	if err := r.Expect("vertices"); err != nil {
		return nil, err
	}
	n, err := r.Int()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("mesh: negative vertex count %d", n)
	}
	m.vertices = make([]render.Vertex, 0, min(n, maxPrealloc))
	var packed [render.VertexFloats]float32
	for i := 0; i < n; i++ {
		if err := r.Floats(packed[:]); err != nil {
			return nil, fmt.Errorf("mesh vertex %d: %w", i, err)
		}
		m.vertices = append(m.vertices, render.UnpackVertex(packed))
	}

	if err := r.Expect("faces"); err != nil {
		return nil, err
	}
	if n, err = r.Int(); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		k, err := r.Int()
		if err != nil {
			return nil, fmt.Errorf("mesh face %d: %w", i, err)
		}
		if k < 3 {
			return nil, fmt.Errorf("mesh face %d: %d indices", i, k)
		}
		face := make([]int, 0, min(k, maxPrealloc))
		for j := 0; j < k; j++ {
			idx, err := r.Int()
			if err != nil {
				return nil, fmt.Errorf("mesh face %d: %w", i, err)
			}
			if idx < 0 || idx >= len(m.vertices) {
				return nil, fmt.Errorf("mesh face %d: index %d out of range", i, idx)
			}
			face = append(face, idx)
		}
		m.PushFace(face, false)
	}

	if err := r.Expect("end"); err != nil {
		return nil, err
	}
	return m, nil
}
