// Package mesh stores indexed polygon geometry for rendering, collision and light mapping.
//
// Faces are ordered lists of vertex indices of any length from three up.
// They are triangulated as a fan from their first vertex when pushed, so
// IndexAt and TriangleAt are stable between edits. A fan is only correct
// for convex planar faces; FaceIsConvex reports faces that break this.
package mesh

import (
	"fmt"

	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/pkg/geom"
)

// Mesh holds vertices, polygon faces and the triangle indices derived from them.
type Mesh struct {
	Material render.Material

	vertices []render.Vertex
	faces    [][]int
	indices  []int

	revision int

	// expanded vertices for Encode, rebuilt when drawnRev != revision
	draw     []render.Vertex
	drawnRev int
	hasDrawn bool
}

// New creates an empty mesh with the default material.
func New() *Mesh {
	return &Mesh{Material: render.DefaultMaterial()}
}

// Clone returns a deep copy of the mesh. The copy starts with revision zero.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Material: m.Material,
		vertices: append([]render.Vertex(nil), m.vertices...),
		indices:  append([]int(nil), m.indices...),
		faces:    make([][]int, len(m.faces)),
	}
	for i, f := range m.faces {
		c.faces[i] = append([]int(nil), f...)
	}
	return c
}

// Revision increases on every edit. Callers caching derived data compare it.
func (m *Mesh) Revision() int {
	return m.revision
}

func (m *Mesh) touch() {
	m.revision++
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.vertices)
}

// VertexAt returns vertex i.
func (m *Mesh) VertexAt(i int) render.Vertex {
	return m.vertices[i]
}

// SetVertex replaces vertex i in place. Topology is unchanged.
func (m *Mesh) SetVertex(i int, v render.Vertex) {
	m.vertices[i] = v
	m.touch()
}

// PushVertex appends a vertex and returns its index.
func (m *Mesh) PushVertex(v render.Vertex) int {
	m.vertices = append(m.vertices, v)
	m.touch()
	return len(m.vertices) - 1
}

// PushFace appends a polygon. When swapWinding is set the index order is
// reversed, flipping the face. It panics if the face has fewer than three
// indices or references a vertex that does not exist.
func (m *Mesh) PushFace(indices []int, swapWinding bool) {
	if len(indices) < 3 {
		panic(fmt.Sprintf("mesh: face needs at least 3 indices, got %d", len(indices)))
	}
	face := make([]int, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(m.vertices) {
			panic(fmt.Sprintf("mesh: face index %d out of range [0, %d)", idx, len(m.vertices)))
		}
		if swapWinding {
			face[len(indices)-1-i] = idx
		} else {
			face[i] = idx
		}
	}

	for i := 1; i+1 < len(face); i++ {
		m.indices = append(m.indices, face[0], face[i], face[i+1])
	}
	m.faces = append(m.faces, face)
	m.touch()
}

// PopFace removes the last face. It reports false when there are no faces.
func (m *Mesh) PopFace() bool {
	if len(m.faces) == 0 {
		return false
	}
	last := m.faces[len(m.faces)-1]
	m.faces = m.faces[:len(m.faces)-1]
	m.indices = m.indices[:len(m.indices)-(len(last)-2)*3]
	m.touch()
	return true
}

// ClearFaces removes all faces, keeping vertices.
func (m *Mesh) ClearFaces() {
	m.faces = m.faces[:0]
	m.indices = m.indices[:0]
	m.touch()
}

// Clear removes all vertices and faces.
func (m *Mesh) Clear() {
	m.vertices = m.vertices[:0]
	m.ClearFaces()
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.faces)
}

// FaceVertexCount returns the number of indices in face i.
func (m *Mesh) FaceVertexCount(i int) int {
	return len(m.faces[i])
}

// FaceVertexAt returns index j of face i.
func (m *Mesh) FaceVertexAt(i, j int) int {
	return m.faces[i][j]
}

// IndexCount returns the number of triangle indices, three per triangle.
func (m *Mesh) IndexCount() int {
	return len(m.indices)
}

// IndexAt returns triangle index i.
func (m *Mesh) IndexAt(i int) int {
	return m.indices[i]
}

// TriangleCount returns the number of triangles after fan triangulation.
func (m *Mesh) TriangleCount() int {
	return len(m.indices) / 3
}

// TriangleAt returns triangle i in mesh space.
func (m *Mesh) TriangleAt(i int) geom.Triangle {
	return geom.NewTriangle(
		m.vertices[m.indices[i*3+0]].Position,
		m.vertices[m.indices[i*3+1]].Position,
		m.vertices[m.indices[i*3+2]].Position,
	)
}

// Kind implements render.Encodable.
func (m *Mesh) Kind() render.Kind {
	return render.KindMesh
}

// Encode implements render.Encodable. Triangles are expanded into a vertex
// list that is reused until the mesh changes.
func (m *Mesh) Encode(ctx *render.Context) error {
	if len(m.indices) == 0 {
		return nil
	}
	if !m.hasDrawn || m.drawnRev != m.revision {
		m.draw = m.draw[:0]
		for _, i := range m.indices {
			m.draw = append(m.draw, m.vertices[i])
		}
		m.drawnRev = m.revision
		m.hasDrawn = true
	}
	return ctx.Draw(render.Triangles, m.draw, m.Material)
}
