package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestMulOrder(t *testing.T) {
	// T * S scales first, then translates.
	m := Translate(10, 0, 0).Mul(Scale(2, 2, 2))
	got := m.TransformPoint(Vec3{1, 0, 0})
	want := Vec3{12, 0, 0}
	if got != want {
		t.Errorf("(T*S).TransformPoint() = %v, want %v", got, want)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
	if m.Translation() != (Vec3{5, 10, 15}) {
		t.Errorf("Translation() = %v", m.Translation())
	}
}

func TestTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		p    Vec3
		want Vec3
	}{
		{"translate", Translate(10, 20, 30), Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"scale", Scale(2, 2, 2), Vec3{1, 2, 3}, Vec3{2, 4, 6}},
		{"identity", Identity(), Vec3{-1, 0, 4}, Vec3{-1, 0, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformPoint(tt.p); got != tt.want {
				t.Errorf("TransformPoint() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformNormalIgnoresTranslation(t *testing.T) {
	m := Translate(100, 100, 100)
	got := m.TransformNormal(Vec3{0, 1, 0})
	if got != (Vec3{0, 1, 0}) {
		t.Errorf("TransformNormal() = %v, want (0, 1, 0)", got)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(math32.Pi / 2)
	result := m.TransformPoint(Vec3{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) becomes (0,0,-1).
	if !result.ApproxEqual(Vec3{0, 0, -1}, 0.001) {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestRotateAxisMatchesRotateX(t *testing.T) {
	a := RotateAxis(Vec3{2, 0, 0}, 0.7)
	b := RotateX(0.7)
	if !a.ApproxEqual(b, 1e-5) {
		t.Errorf("RotateAxis(X) = %v, want %v", a, b)
	}
	if RotateAxis(Vec3{}, 1) != Identity() {
		t.Error("RotateAxis with zero axis should be identity")
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(math32.Pi/4, 1, 0.1, 100)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}

	// Near and far planes map to -1 and 1.
	near := m.TransformPoint(Vec3{0, 0, -0.1})
	far := m.TransformPoint(Vec3{0, 0, -100})
	if abs(near.Z+1) > 0.001 || abs(far.Z-1) > 0.001 {
		t.Errorf("Perspective depth: near %v far %v", near.Z, far.Z)
	}
}

func TestOrtho(t *testing.T) {
	m := Ortho(0, 800, 600, 0, -1, 1)
	topLeft := m.TransformPoint(Vec3{0, 0, 0})
	bottomRight := m.TransformPoint(Vec3{800, 600, 0})

	if !topLeft.ApproxEqual(Vec3{-1, 1, 0}, 1e-5) {
		t.Errorf("Ortho top-left = %v, want (-1, 1, 0)", topLeft)
	}
	if !bottomRight.ApproxEqual(Vec3{1, -1, 0}, 1e-5) {
		t.Errorf("Ortho bottom-right = %v, want (1, -1, 0)", bottomRight)
	}
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 0, 5}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	if m[15] != 1 {
		t.Errorf("LookAt [15] should be 1, got %f", m[15])
	}
	// The eye maps to the view origin and the target lies on -Z.
	if got := m.TransformPoint(eye); !got.ApproxEqual(Vec3{}, 1e-5) {
		t.Errorf("LookAt eye -> %v, want origin", got)
	}
	if got := m.TransformPoint(Vec3{}); !got.ApproxEqual(Vec3{0, 0, -5}, 1e-5) {
		t.Errorf("LookAt target -> %v, want (0, 0, -5)", got)
	}
}

func TestLookAtDegenerateUp(t *testing.T) {
	tests := []struct {
		name        string
		eye, center Vec3
		up          Vec3
	}{
		{"up parallel to forward", Vec3{0, 10, 0}, Vec3{}, Vec3{0, 1, 0}},
		{"zero up", Vec3{0, 0, 5}, Vec3{}, Vec3{}},
		{"eye equals center", Vec3{1, 1, 1}, Vec3{1, 1, 1}, Vec3{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := LookAt(tt.eye, tt.center, tt.up)
			for i, v := range m {
				if math32.IsNaN(v) || math32.IsInf(v, 0) {
					t.Fatalf("element %d is not finite: %v", i, v)
				}
			}
			// The basis must stay orthonormal.
			s := Vec3{m[0], m[4], m[8]}
			if abs(s.Length()-1) > 1e-4 {
				t.Errorf("side axis length = %v, want 1", s.Length())
			}
		})
	}
}

func TestInverse(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"affine", Translate(1, 2, 3).Mul(RotateY(0.5)).Mul(Scale(2, 3, 4))},
		{"perspective", Perspective(1, 1.5, 0.2, 1000)},
		{"view", LookAt(Vec3{3, 4, 5}, Vec3{}, Vec3{0, 1, 0})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.Mul(tt.m.Inverse())
			if !got.ApproxEqual(Identity(), 1e-3) {
				t.Errorf("M * M^-1 = %v, want identity", got)
			}
		})
	}
}

func TestInverseSingular(t *testing.T) {
	if got := Scale(0, 1, 1).Inverse(); got != Identity() {
		t.Errorf("singular Inverse() = %v, want identity", got)
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(1, 2, 3)
	tr := m.Transpose()
	if tr[3] != 1 || tr[7] != 2 || tr[11] != 3 {
		t.Errorf("Transpose() = %v", tr)
	}
	if tr.Transpose() != m {
		t.Error("Transpose twice should give the same matrix back")
	}
}

func TestFromMat3x3(t *testing.T) {
	m3 := [9]float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	m4 := FromMat3x3(m3)

	if m4[0] != 1 || m4[1] != 2 || m4[2] != 3 {
		t.Error("FromMat3x3 column 0 incorrect")
	}
	if m4[4] != 4 || m4[5] != 5 || m4[6] != 6 {
		t.Error("FromMat3x3 column 1 incorrect")
	}
	if m4[15] != 1 {
		t.Errorf("FromMat3x3 [15] should be 1, got %f", m4[15])
	}
	if m4.Mat3x3() != m3 {
		t.Error("Mat3x3 should round-trip FromMat3x3")
	}
}

func BenchmarkInverse(b *testing.B) {
	m := Translate(1, 2, 3).Mul(RotateY(0.5)).Mul(Scale(2, 3, 4))
	for i := 0; i < b.N; i++ {
		_ = m.Inverse()
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
