package geom

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/x3d/pkg/math"
)

const (
	// parallelEpsilon is the |n·dir| below which a ray counts as parallel to a plane.
	parallelEpsilon = 1e-7
	// contactSlop absorbs rounding when a sphere rests exactly on a surface.
	contactSlop = 1e-5
)

// Triangle is the collision primitive. N and D describe its supporting plane
// N·x = D and are derived from the points; use SetPoints or Transform to change
// the triangle so they stay in sync.
type Triangle struct {
	P1, P2, P3 math.Vec3
	N          math.Vec3
	D          float32
	Tag        int
}

// NewTriangle builds a triangle and its plane. N is normalize((p2-p1) x (p3-p1));
// a zero-area triangle gets a zero normal and never reports a hit.
func NewTriangle(p1, p2, p3 math.Vec3) Triangle {
	t := Triangle{}
	t.SetPoints(p1, p2, p3)
	return t
}

// SetPoints replaces the vertices and recomputes the plane.
func (t *Triangle) SetPoints(p1, p2, p3 math.Vec3) {
	t.P1, t.P2, t.P3 = p1, p2, p3
	t.N = p2.Sub(p1).Cross(p3.Sub(p1)).Normalize()
	t.D = t.N.Dot(p1)
}

// Transform returns the triangle with every point transformed by m. The plane is
// re-derived from the transformed points, so m need not be orthonormal. Tag is kept.
func (t Triangle) Transform(m math.Mat4) Triangle {
	r := Triangle{Tag: t.Tag}
	r.SetPoints(m.TransformPoint(t.P1), m.TransformPoint(t.P2), m.TransformPoint(t.P3))
	return r
}

// PointAt returns P1, P2 or P3 for i = 0, 1, 2. Any other index panics.
func (t Triangle) PointAt(i int) math.Vec3 {
	switch i {
	case 0:
		return t.P1
	case 1:
		return t.P2
	case 2:
		return t.P3
	}
	panic("geom: triangle point index out of range")
}

// Centroid returns the average of the three points.
func (t Triangle) Centroid() math.Vec3 {
	return t.P1.Add(t.P2).Add(t.P3).Scale(1.0 / 3.0)
}

// Degenerate reports whether the triangle has no area.
func (t Triangle) Degenerate() bool {
	return t.N == (math.Vec3{})
}

// Contains reports whether point, assumed to lie on or near the plane, is inside
// all three edges. Each edge test allows buffer units of slack outward.
func (t Triangle) Contains(point math.Vec3, buffer float32) bool {
	if t.Degenerate() {
		return false
	}
	for i := 0; i < 3; i++ {
		a := t.PointAt(i)
		b := t.PointAt((i + 1) % 3)
		inward := t.N.Cross(b.Sub(a)).Normalize()
		if inward.Dot(point.Sub(a))+buffer < 0 {
			return false
		}
	}
	return true
}

// RayIntersectsPlane solves N·(origin + t*dir) = D.
// time is in and out: on entry it bounds the accepted distance (pass
// math32.MaxFloat32 for an unbounded ray); on success it receives t.
// It fails when the ray is parallel to the plane, when t < 0, or when t
// already exceeds the bound.
func (t Triangle) RayIntersectsPlane(origin, dir math.Vec3, time *float32) bool {
	denom := t.N.Dot(dir)
	if math32.Abs(denom) < parallelEpsilon {
		return false
	}
	hit := (t.D - t.N.Dot(origin)) / denom
	if hit < 0 || hit > *time {
		return false
	}
	*time = hit
	return true
}

// RayIntersects is the ray/triangle test used by picking and collision casts.
// The plane hit must fall inside the triangle grown by buffer. time follows
// RayIntersectsPlane and is only written on success.
func (t Triangle) RayIntersects(origin, dir math.Vec3, buffer float32, time *float32) bool {
	hit := *time
	if !t.RayIntersectsPlane(origin, dir, &hit) {
		return false
	}
	if !t.Contains(origin.Add(dir.Scale(hit)), buffer) {
		return false
	}
	*time = hit
	return true
}

// ClosestEdgePoint returns the point on the triangle's boundary nearest to point,
// clamping the projection onto each edge segment.
func (t Triangle) ClosestEdgePoint(point math.Vec3) math.Vec3 {
	best := t.P1
	var bestDist float32 = math32.MaxFloat32

	for i := 0; i < 3; i++ {
		a := t.PointAt(i)
		b := t.PointAt((i + 1) % 3)
		c := closestPointOnSegment(a, b, point)
		if d := point.Sub(c).LengthSquared(); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func closestPointOnSegment(a, b, p math.Vec3) math.Vec3 {
	ab := b.Sub(a)
	lenSq := ab.LengthSquared()
	if lenSq == 0 {
		return a
	}
	s := math.Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Scale(s))
}

// Contact describes a sphere/triangle collision.
type Contact struct {
	// Point is where the sphere touches the triangle.
	Point math.Vec3
	// Normal is the unit direction pushing the sphere out.
	Normal math.Vec3
	// Position is the resolved sphere centre, Point + Normal*radius.
	Position math.Vec3
	// Time is the distance from the sphere centre to Point. Resolve treats it
	// as a running minimum: only closer contacts are accepted.
	Time float32
}

// NewContact returns a contact ready for Resolve with a sphere of the given radius.
func NewContact(radius float32) Contact {
	return Contact{Time: radius}
}

// Fraction reports how far into the sphere the contact lies, 0 at the centre
// and 1 at the surface.
func (c Contact) Fraction(radius float32) float32 {
	if radius <= 0 {
		return 0
	}
	return c.Time / radius
}

// Resolve tests a sphere against the triangle placed in world space by transform.
//
// The sphere must be on the front side of the plane. When its centre projects
// inside the triangle and lies within c.Time of the plane, the contact is the
// projection and the normal is the triangle normal. Otherwise the nearest edge
// point is used, with the normal pointing from that point to the centre.
// c is only written when a contact closer than c.Time is found; start from
// NewContact(radius) and reuse c across triangles to keep the nearest.
func (t Triangle) Resolve(transform math.Mat4, position math.Vec3, radius float32, c *Contact) bool {
	w := t.Transform(transform)
	if w.Degenerate() {
		return false
	}

	dist := w.N.Dot(position) - w.D
	if dist < -contactSlop || dist > c.Time+contactSlop {
		return false
	}

	projected := position.Sub(w.N.Scale(dist))
	if w.Contains(projected, 0) {
		c.Point = projected
		c.Normal = w.N
		c.Position = projected.Add(w.N.Scale(radius))
		c.Time = dist
		return true
	}

	edge := w.ClosestEdgePoint(position)
	offset := position.Sub(edge)
	length := offset.Length()
	if length <= 1e-7 || length > c.Time+contactSlop {
		return false
	}
	c.Point = edge
	c.Normal = offset.Scale(1 / length)
	c.Position = edge.Add(c.Normal.Scale(radius))
	c.Time = length
	return true
}
