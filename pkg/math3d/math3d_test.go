package math3d

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		expected  float64
	}{
		{"inside", 0.4, 0, 1, 0.4},
		{"below", -2, 0, 1, 0},
		{"above", 3, 0, 1, 1},
		{"at lower edge", 0, 0, 1, 0},
		{"at upper edge", 1, 0, 1, 1},
		{"nan collapses to lo", math.NaN(), -1, 1, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.expected {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.v, tc.lo, tc.hi, got, tc.expected)
			}
		})
	}
}

func TestMapLinear(t *testing.T) {
	// Terminal columns 0..79 onto the pointer range.
	for _, tc := range []struct{ col, want float64 }{{0, -1}, {79, 1}, {39.5, 0}, {158, 3}} {
		if got := MapLinear(tc.col, 0, 79, -1, 1); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("MapLinear(%v) = %v, want %v", tc.col, got, tc.want)
		}
	}
	if got := Lerp(2, 4, 0.25); got != 2.5 {
		t.Errorf("Lerp = %v, want 2.5", got)
	}
}

func TestSmoothStepFalling(t *testing.T) {
	// Reversed edges produce a falling curve.
	if got := SmoothStep(0.8, 0.08, 0); got != 1 {
		t.Errorf("SmoothStep at x=0 = %v, want 1", got)
	}
	if got := SmoothStep(0.8, 0.08, 0.9); got != 0 {
		t.Errorf("SmoothStep past edge0 = %v, want 0", got)
	}
}

func TestComposeMatchesManualProduct(t *testing.T) {
	pos := V3(1, 2, 3)
	rot := V3(0.3, -0.7, 1.1)
	scale := V3(2, 0.5, 1)

	manual := Translate(pos).Mul(RotateX(rot.X)).Mul(RotateY(rot.Y)).Mul(RotateZ(rot.Z)).Mul(Scale(scale))
	got := Compose(pos, rot, scale)

	for i := range got {
		if math.Abs(got[i]-manual[i]) > 1e-12 {
			t.Fatalf("element %d = %v, want %v", i, got[i], manual[i])
		}
	}

	if tr := got.Translation(); tr != pos {
		t.Errorf("Translation() = %v, want %v", tr, pos)
	}
}

func TestComposeIdentity(t *testing.T) {
	m := Compose(Zero3(), Zero3(), One3())
	p := V3(4, -5, 6)
	if got := m.MulVec3(p); got.Distance(p) > 1e-12 {
		t.Errorf("identity compose moved point: got %v, want %v", got, p)
	}
}
