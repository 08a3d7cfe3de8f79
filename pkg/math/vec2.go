// Package math provides the vector, matrix and quaternion types the engine is built on.
//
// Matrices are column-major with column vectors: a.Mul(b) applies b first, and
// translation lives in elements 12, 13 and 14.
package math

import "github.com/chewxy/math32"

// Vec2 holds texture coordinates, sprite sizes and ground-plane positions.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Mul multiplies component-wise.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{X: v.X * o.X, Y: v.Y * o.Y} }

func (v Vec2) Scale(s float32) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3D cross product, positive when o
// lies counter-clockwise of v.
func (v Vec2) Cross(o Vec2) float32 { return v.X*o.Y - v.Y*o.X }

func (v Vec2) Length() float32 { return math32.Sqrt(v.Dot(v)) }

// Normalize returns a unit vector, or the zero vector when v has no length.
func (v Vec2) Normalize() Vec2 {
	if l := v.Length(); l > 0 {
		return v.Scale(1 / l)
	}
	return Vec2{}
}

func (v Vec2) Distance(o Vec2) float32 { return v.Sub(o).Length() }

// Lerp moves t of the way from v to o.
func (v Vec2) Lerp(o Vec2, t float32) Vec2 { return v.Add(o.Sub(v).Scale(t)) }
