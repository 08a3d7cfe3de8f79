// Package collision answers sphere and ray queries against the collidable
// triangles of a scene tree.
//
// Triangles are gathered in world space, so CalcTransform must have run on
// the tree first. Queries are self-contained: nothing is retained between calls.
package collision

import (
	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/pkg/geom"
	"github.com/Faultbox/x3d/pkg/math"
)

// Gather appends the world triangles of every collidable node under root to
// dst and returns it.
func Gather(dst []geom.Triangle, root *scene.Node) []geom.Triangle {
	root.Traverse(func(n *scene.Node) bool {
		for i := 0; i < n.TriangleCount(); i++ {
			dst = append(dst, n.TriangleAt(i))
		}
		return true
	})
	return dst
}

// GatherTouching is Gather restricted to nodes whose world bounds touch box.
func GatherTouching(dst []geom.Triangle, root *scene.Node, box geom.BoundingBox) []geom.Triangle {
	root.Traverse(func(n *scene.Node) bool {
		if n.TriangleCount() == 0 || !n.Bounds().Touch(box) {
			return true
		}
		for i := 0; i < n.TriangleCount(); i++ {
			dst = append(dst, n.TriangleAt(i))
		}
		return true
	})
	return dst
}

// ResolveSphere returns the nearest contact between a sphere and triangles.
func ResolveSphere(triangles []geom.Triangle, position math.Vec3, radius float32) (geom.Contact, bool) {
	c := geom.NewContact(radius)
	hit := false
	identity := math.Identity()
	for _, t := range triangles {
		if t.Resolve(identity, position, radius, &c) {
			hit = true
		}
	}
	return c, hit
}

// Hit is the result of a raycast.
type Hit struct {
	Point    math.Vec3
	Normal   math.Vec3
	Distance float32
	Tag      int
}

// Raycast returns the nearest triangle hit along direction within maxDistance.
// buffer widens every triangle's edges.
func Raycast(triangles []geom.Triangle, origin, direction math.Vec3, buffer, maxDistance float32) (Hit, bool) {
	dir := direction.Normalize()
	if dir == (math.Vec3{}) {
		return Hit{}, false
	}
	best := maxDistance
	var hit Hit
	found := false
	for _, t := range triangles {
		if t.RayIntersects(origin, dir, buffer, &best) {
			hit = Hit{Normal: t.N, Distance: best, Tag: t.Tag}
			found = true
		}
	}
	if found {
		hit.Point = origin.Add(dir.Scale(hit.Distance))
	}
	return hit, found
}
