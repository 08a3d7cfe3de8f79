// Package picking turns screen positions into world rays and finds the nodes
// they hit.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/x3d/internal/engine/camera"
	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/pkg/geom"
	"github.com/Faultbox/x3d/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	nearWorld := unproject(invViewProj, math.Vec4{X: ndcX, Y: ndcY, Z: -1, W: 1})
	farWorld := unproject(invViewProj, math.Vec4{X: ndcX, Y: ndcY, Z: 1, W: 1})

	return Ray{Origin: nearWorld, Direction: farWorld.Sub(nearWorld).Normalize()}
}

func unproject(inv math.Mat4, ndc math.Vec4) math.Vec3 {
	p := inv.MulVec4(ndc)
	if p.W != 0 {
		return p.XYZ().Scale(1 / p.W)
	}
	return p.XYZ()
}

// CameraRay casts a ray through a pixel of cam's view. CalcTransforms must
// have run for the same viewport.
func CameraRay(cam *camera.Camera, screenX, screenY, viewportW, viewportH float32) Ray {
	return ScreenToRay(screenX, screenY, viewportW, viewportH, cam.ViewProjection().Inverse())
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point (X, Z) and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if math32.Abs(r.Direction.Y) < 0.001 {
		return 0, 0, false // Ray parallel to plane
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, 0, false // Intersection behind ray origin
	}

	p := r.At(t)
	return p.X, p.Z, true
}

// Result describes the nearest node under a ray.
type Result struct {
	Node     *scene.Node
	Point    math.Vec3
	Distance float32
	Triangle geom.Triangle // World space
}

// Pick returns the nearest visible node whose geometry the ray hits.
// Node bounds are tested first; only nodes whose box the ray enters closer
// than the current best hit have their triangles tested.
func Pick(root *scene.Node, r Ray) (Result, bool) {
	var best Result
	best.Distance = math32.MaxFloat32
	found := false

	root.Traverse(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		g := n.Geometry()
		if g == nil {
			return true
		}
		var entry float32
		if !n.Bounds().IntersectsRay(r.Origin, r.Direction, &entry) || entry > best.Distance {
			return true
		}
		model := n.Model()
		for i := 0; i < g.TriangleCount(); i++ {
			t := g.TriangleAt(i).Transform(model)
			d := best.Distance
			if t.RayIntersects(r.Origin, r.Direction, 0, &d) {
				best = Result{Node: n, Distance: d, Triangle: t}
				found = true
			}
		}
		return true
	})

	if found {
		best.Point = r.At(best.Distance)
	}
	return best, found
}
