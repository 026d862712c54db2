package math3d

// Clamp restricts v to [lo, hi]. NaN inputs collapse to lo.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		return hi
	}
	if v >= lo {
		return v
	}
	return lo
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// MapLinear maps v from the range [a1, a2] to [b1, b2] without clamping.
func MapLinear(v, a1, a2, b1, b2 float64) float64 {
	return b1 + (v-a1)*(b2-b1)/(a2-a1)
}

// SmoothStep is the GLSL smoothstep. edge0 may be greater than edge1, in which
// case the curve falls instead of rising.
func SmoothStep(edge0, edge1, x float64) float64 {
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}
