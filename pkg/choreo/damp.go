package choreo

import (
	"math"

	"github.com/taigrr/parallax/pkg/math3d"
)

// Damp moves current toward target with frame-rate independent exponential
// decay: after any sequence of steps totalling T seconds the remaining gap is
// exactly gap*exp(-lambda*T). Non-positive delta or lambda leaves current as is.
func Damp(current, target, lambda, delta float64) float64 {
	if !(delta > 0) || !(lambda > 0) {
		return current
	}
	return math3d.Lerp(current, target, 1-math.Exp(-lambda*delta))
}

// Convergence returns the fraction of a gap closed after window seconds at
// the given lambda.
func Convergence(lambda, window float64) float64 {
	return 1 - math.Exp(-lambda*window)
}

// DampedScalar is one smoothed camera axis. Current is mutated in place by
// Step; Target is rewritten every tick by the choreographer.
type DampedScalar struct {
	Current float64
	Target  float64
	Lambda  float64
}

// Step advances Current toward Target by delta seconds and returns it.
func (d *DampedScalar) Step(delta float64) float64 {
	d.Current = Damp(d.Current, d.Target, d.Lambda, delta)
	return d.Current
}

// Settle jumps Current to Target.
func (d *DampedScalar) Settle() {
	d.Current = d.Target
}
