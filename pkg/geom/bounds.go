// Package geom holds the collision primitives: axis-aligned boxes and triangles.
//
// Every function is total. Degenerate input yields a documented sentinel and
// queries report success through their boolean result.
package geom

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/x3d/pkg/math"
)

// BoundingBox is an axis-aligned bounding box.
// The empty box has Min at +MaxFloat32 and Max at -MaxFloat32 on every axis.
type BoundingBox struct {
	Min math.Vec3
	Max math.Vec3
}

// NewBoundingBox builds a box from its corners without validating them.
func NewBoundingBox(min, max math.Vec3) BoundingBox {
	return BoundingBox{Min: min, Max: max}
}

// EmptyBoundingBox returns the empty sentinel, the identity of Combine.
func EmptyBoundingBox() BoundingBox {
	return BoundingBox{
		Min: math.Vec3{X: math32.MaxFloat32, Y: math32.MaxFloat32, Z: math32.MaxFloat32},
		Max: math.Vec3{X: -math32.MaxFloat32, Y: -math32.MaxFloat32, Z: -math32.MaxFloat32},
	}
}

// IsEmpty reports whether the box encloses nothing.
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// AddPoint grows the box to include p. On an empty box the result is {p, p}.
func (b BoundingBox) AddPoint(p math.Vec3) BoundingBox {
	return BoundingBox{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Combine returns the union of two boxes.
func (b BoundingBox) Combine(other BoundingBox) BoundingBox {
	return BoundingBox{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// Buffer expands the box by amount on each axis, in both directions.
func (b BoundingBox) Buffer(amount math.Vec3) BoundingBox {
	if b.IsEmpty() {
		return b
	}
	return BoundingBox{Min: b.Min.Sub(amount), Max: b.Max.Add(amount)}
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box on each axis.
func (b BoundingBox) Size() math.Vec3 {
	if b.IsEmpty() {
		return math.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Corners returns the eight corners of the box.
func (b BoundingBox) Corners() [8]math.Vec3 {
	lo, hi := b.Min, b.Max
	return [8]math.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
	}
}

// Transform returns the box enclosing all eight corners transformed by m.
// The empty box stays empty.
func (b BoundingBox) Transform(m math.Mat4) BoundingBox {
	if b.IsEmpty() {
		return b
	}
	result := EmptyBoundingBox()
	for _, c := range b.Corners() {
		result = result.AddPoint(m.TransformPoint(c))
	}
	return result
}

// ContainsPoint reports whether p lies inside the box, faces included.
func (b BoundingBox) ContainsPoint(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Touch reports whether two boxes overlap. Boxes sharing only a face touch.
func (b BoundingBox) Touch(other BoundingBox) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return false
	}
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// IntersectsRay tests the ray origin + t*direction against the box with the slab method.
// On a hit, time receives the nearest non-negative entry parameter (0 when the
// origin is inside). On a miss, or when the box is entirely behind the origin,
// time is left untouched.
func (b BoundingBox) IntersectsRay(origin, direction math.Vec3, time *float32) bool {
	if b.IsEmpty() {
		return false
	}

	var tmin float32 = -math32.MaxFloat32
	var tmax float32 = math32.MaxFloat32

	o := [3]float32{origin.X, origin.Y, origin.Z}
	d := [3]float32{direction.X, direction.Y, direction.Z}
	lo := [3]float32{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float32{b.Max.X, b.Max.Y, b.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if d[axis] == 0 {
			if o[axis] < lo[axis] || o[axis] > hi[axis] {
				return false
			}
			continue
		}
		t1 := (lo[axis] - o[axis]) / d[axis]
		t2 := (hi[axis] - o[axis]) / d[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmax < tmin {
			return false
		}
	}

	if tmax < 0 {
		return false
	}
	*time = max(tmin, 0)
	return true
}
