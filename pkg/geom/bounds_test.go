package geom

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/x3d/pkg/math"
)

const eps = 1e-4

func assertVec3(t *testing.T, want, got math.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
	assert.InDelta(t, want.Z, got.Z, eps, "z")
}

func TestEmptyBoundingBox(t *testing.T) {
	b := EmptyBoundingBox()
	assert.True(t, b.IsEmpty())
	assert.Equal(t, math.Vec3{}, b.Size())
	assert.False(t, b.ContainsPoint(math.Vec3{}))
}

func TestCombineWithEmpty(t *testing.T) {
	boxes := []BoundingBox{
		NewBoundingBox(math.Vec3{X: -1, Y: -2, Z: -3}, math.Vec3{X: 4, Y: 5, Z: 6}),
		NewBoundingBox(math.Vec3{X: 2, Y: 2, Z: 2}, math.Vec3{X: 2, Y: 2, Z: 2}),
		NewBoundingBox(math.Vec3{X: -100, Y: 0, Z: 0.5}, math.Vec3{X: -50, Y: 0.25, Z: 9}),
		EmptyBoundingBox(),
	}
	for _, b := range boxes {
		assert.Equal(t, b, b.Combine(EmptyBoundingBox()))
		assert.Equal(t, b, EmptyBoundingBox().Combine(b))
	}
}

func TestAddPoint(t *testing.T) {
	p := math.Vec3{X: 1, Y: 2, Z: 3}
	b := EmptyBoundingBox().AddPoint(p)
	assert.Equal(t, NewBoundingBox(p, p), b)
	assert.False(t, b.IsEmpty())

	b = b.AddPoint(math.Vec3{X: -1, Y: 5, Z: 0})
	assert.Equal(t, math.Vec3{X: -1, Y: 2, Z: 0}, b.Min)
	assert.Equal(t, math.Vec3{X: 1, Y: 5, Z: 3}, b.Max)
}

func TestBuffer(t *testing.T) {
	b := NewBoundingBox(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})
	g := b.Buffer(math.Vec3{X: 1, Y: 2, Z: 3})
	assert.Equal(t, math.Vec3{X: -1, Y: -2, Z: -3}, g.Min)
	assert.Equal(t, math.Vec3{X: 2, Y: 3, Z: 4}, g.Max)

	assert.True(t, EmptyBoundingBox().Buffer(math.Vec3{X: 1, Y: 1, Z: 1}).IsEmpty())
}

func TestTouch(t *testing.T) {
	a := NewBoundingBox(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})
	tests := []struct {
		name  string
		other BoundingBox
		want  bool
	}{
		{"overlap", NewBoundingBox(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, math.Vec3{X: 2, Y: 2, Z: 2}), true},
		{"shared face", NewBoundingBox(math.Vec3{X: 1}, math.Vec3{X: 2, Y: 1, Z: 1}), true},
		{"shared corner", NewBoundingBox(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: 2, Y: 2, Z: 2}), true},
		{"separated on y", NewBoundingBox(math.Vec3{Y: 1.01}, math.Vec3{X: 1, Y: 2, Z: 1}), false},
		{"empty", EmptyBoundingBox(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Touch(tt.other))
			assert.Equal(t, tt.want, tt.other.Touch(a))
		})
	}
}

func TestTransformAsymmetricBox(t *testing.T) {
	b := NewBoundingBox(math.Vec3{X: -1, Y: -2, Z: -3}, math.Vec3{X: 4, Y: 5, Z: 6})
	m := math.RotateY(math32.Pi / 2)

	// Hull of the rotated corners, computed independently.
	want := EmptyBoundingBox()
	for _, c := range b.Corners() {
		want = want.AddPoint(m.TransformPoint(c))
	}

	got := b.Transform(m)
	assertVec3(t, want.Min, got.Min)
	assertVec3(t, want.Max, got.Max)

	// RotateY(90) maps (x, y, z) to (z, y, -x).
	assertVec3(t, math.Vec3{X: -3, Y: -2, Z: -4}, got.Min)
	assertVec3(t, math.Vec3{X: 6, Y: 5, Z: 1}, got.Max)
}

func TestTransformTranslatesAndKeepsEmpty(t *testing.T) {
	b := NewBoundingBox(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})
	got := b.Transform(math.Translate(10, 0, -5))
	assertVec3(t, math.Vec3{X: 10, Y: 0, Z: -5}, got.Min)
	assertVec3(t, math.Vec3{X: 11, Y: 1, Z: -4}, got.Max)

	assert.True(t, EmptyBoundingBox().Transform(math.Translate(1, 1, 1)).IsEmpty())
}

func TestIntersectsRay(t *testing.T) {
	b := NewBoundingBox(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
	tests := []struct {
		name     string
		origin   math.Vec3
		dir      math.Vec3
		hit      bool
		wantTime float32
	}{
		{"front", math.Vec3{Z: 5}, math.Vec3{Z: -1}, true, 4},
		{"inside", math.Vec3{}, math.Vec3{X: 1}, true, 0},
		{"behind", math.Vec3{Z: 5}, math.Vec3{Z: 1}, false, 0},
		{"miss", math.Vec3{X: 3, Z: 5}, math.Vec3{Z: -1}, false, 0},
		{"parallel outside", math.Vec3{Y: 2}, math.Vec3{X: 1}, false, 0},
		{"parallel on face", math.Vec3{X: -5, Y: 1}, math.Vec3{X: 1}, true, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var time float32 = 42
			got := b.IntersectsRay(tt.origin, tt.dir, &time)
			require.Equal(t, tt.hit, got)
			if tt.hit {
				assert.InDelta(t, tt.wantTime, time, eps)
			} else {
				assert.Equal(t, float32(42), time, "time must be untouched on a miss")
			}
		})
	}
}

func TestEmptyBoxNeverIntersects(t *testing.T) {
	var time float32 = 1
	assert.False(t, EmptyBoundingBox().IntersectsRay(math.Vec3{}, math.Vec3{X: 1}, &time))
	assert.Equal(t, float32(1), time)
}
