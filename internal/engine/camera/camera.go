// Package camera provides the scene camera and its orbit controls.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/x3d/pkg/geom"
	"github.com/Faultbox/x3d/pkg/math"
)

const minDistance = 0.1

// Camera is a look-at camera with a perspective projection.
type Camera struct {
	Eye    math.Vec3
	Target math.Vec3
	Up     math.Vec3

	FieldOfView float32 // Vertical, in degrees
	Near        float32
	Far         float32

	projection math.Mat4
	view       math.Mat4
}

// New creates a camera looking at the origin from (100, 100, 100).
func New() *Camera {
	return &Camera{
		Eye:         math.Vec3{X: 100, Y: 100, Z: 100},
		Up:          math.Vec3UnitY,
		FieldOfView: 60,
		Near:        0.2,
		Far:         10000,
		projection:  math.Identity(),
		view:        math.Identity(),
	}
}

// CalcTransforms rebuilds the projection and view matrices.
func (c *Camera) CalcTransforms(aspectRatio float32) {
	if aspectRatio <= 0 {
		aspectRatio = 1
	}
	c.projection = math.PerspectiveDegrees(c.FieldOfView, aspectRatio, c.Near, c.Far)
	c.view = math.LookAt(c.Eye, c.Target, c.Up)
}

// Projection returns the projection matrix from the last CalcTransforms.
func (c *Camera) Projection() math.Mat4 {
	return c.projection
}

// View returns the view matrix from the last CalcTransforms.
func (c *Camera) View() math.Mat4 {
	return c.view
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.projection.Mul(c.view)
}

// Offset returns Eye - Target.
func (c *Camera) Offset() math.Vec3 {
	return c.Eye.Sub(c.Target)
}

// Distance returns the distance from the eye to the target.
func (c *Camera) Distance() float32 {
	return c.Offset().Length()
}

// Rotate orbits the eye around the target: dx radians about world Y, then dy
// radians about the camera's right axis. Up is rebuilt from the new basis.
func (c *Camera) Rotate(dx, dy float32) {
	m := math.RotateAxis(math.Vec3UnitY, dx)
	offset := c.Offset()
	right := m.TransformNormal(offset.Cross(c.Up)).Normalize()
	if right == (math.Vec3{}) {
		return
	}

	offset = m.TransformNormal(offset)
	m = math.RotateAxis(right, dy)
	c.Up = m.TransformNormal(right.Cross(offset)).Normalize()
	c.Eye = c.Target.Add(m.TransformNormal(offset))
}

// Zoom moves the eye amount units away from the target, or toward it when
// amount is negative. The eye never reaches the target.
func (c *Camera) Zoom(amount float32) {
	offset := c.Offset()
	d := offset.Length()
	if d == 0 {
		return
	}
	c.Eye = c.Target.Add(offset.Normalize().Scale(max(d+amount, minDistance)))
}

// groundAxes returns the forward and right directions of the view on the XZ plane.
func (c *Camera) groundAxes() (forward, right math.Vec3, ok bool) {
	f := c.Offset().Mul(math.Vec3{X: -1, Y: 0, Z: -1})
	if f.Length() <= 1e-7 {
		return math.Vec3{}, math.Vec3{}, false
	}
	f = f.Normalize()
	return f, f.Cross(math.Vec3UnitY).Normalize(), true
}

// Move pans target and eye along the ground: dy forward, dx to the right.
func (c *Camera) Move(dx, dy float32) {
	offset := c.Offset()
	if f, r, ok := c.groundAxes(); ok {
		c.Target = c.Target.Add(f.Scale(dy)).Add(r.Scale(dx))
	}
	c.Eye = c.Target.Add(offset)
}

// MoveUp raises target and eye by dy.
func (c *Camera) MoveUp(dy float32) {
	offset := c.Offset()
	c.Target = c.Target.Add(math.Vec3{Y: dy})
	c.Eye = c.Target.Add(offset)
}

// MovePoint returns point moved along the camera's ground axes, dy forward and
// dx right, with the direction carried through transform. It steers objects
// relative to the view.
func (c *Camera) MovePoint(point math.Vec3, dx, dy float32, transform math.Mat4) math.Vec3 {
	f, r, ok := c.groundAxes()
	if !ok {
		return point
	}
	return point.Add(transform.TransformNormal(f.Scale(dy).Add(r.Scale(dx))))
}

// FitToBounds aims the camera at the centre of b from the current direction,
// far enough back to frame the whole box.
func (c *Camera) FitToBounds(b geom.BoundingBox) {
	if b.IsEmpty() {
		return
	}
	dir := c.Offset().Normalize()
	if dir == (math.Vec3{}) {
		dir = math.Vec3{X: 1, Y: 1, Z: 1}.Normalize()
	}
	radius := b.Size().Length() * 0.5
	half := math.Radians(c.FieldOfView) * 0.5
	dist := radius / math32.Sin(half)
	if dist < 1 {
		dist = 1
	}
	c.Target = b.Center()
	c.Eye = c.Target.Add(dir.Scale(dist))
}

// Follow places the eye behind and above target. yaw turns around world Y,
// pitch tilts down from the horizon, both in radians.
func (c *Camera) Follow(target math.Vec3, yaw, pitch, distance float32) {
	horiz := distance * math32.Cos(pitch)
	c.Target = target
	c.Eye = math.Vec3{
		X: target.X - horiz*math32.Sin(yaw),
		Y: target.Y + distance*math32.Sin(pitch),
		Z: target.Z - horiz*math32.Cos(yaw),
	}
	c.Up = math.Vec3UnitY
}
