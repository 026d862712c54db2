// Package choreo maps the scroll offset onto a camera path and tracks that
// path with exponential damping so the camera carries weight.
package choreo

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/parallax/pkg/math3d"
)

// ErrLambda reports a damping constant that cannot settle the camera in time.
var ErrLambda = errors.New("choreo: damping lambda")

// minConvergence is the share of a section transition the camera must
// complete within one settle window.
const minConvergence = 0.99

// Rig holds the constants of the camera path. TotalTravel must equal the
// depth of the last section's scene group; see scene.Layout.Validate.
type Rig struct {
	TotalTravel   float64 // World units of Y travel across the full scroll
	BaseZ         float64 // Resting distance from the Z=0 plane
	ZoomAmplitude float64 // Extra Z at offset 0.5
	Parallax      float64 // X travel per unit of pointer X
	LambdaX       float64 // Pointer axis damping
	LambdaY       float64 // Scroll axis damping; larger is snappier
	LambdaZ       float64 // Zoom damping; Z eases like X and Y instead of tracking the arc
}

// DefaultRig returns the tuned camera constants.
func DefaultRig() Rig {
	return Rig{
		TotalTravel:   25,
		BaseZ:         5,
		ZoomAmplitude: 2,
		Parallax:      0.5,
		LambdaX:       2,
		LambdaY:       5,
		LambdaZ:       5,
	}
}

// Validate checks that every lambda is positive and that the scroll-driven
// axes close at least 99% of a jump within window seconds.
func (r Rig) Validate(window float64) error {
	if !(r.TotalTravel > 0) {
		return fmt.Errorf("choreo: total travel must be positive, got %v", r.TotalTravel)
	}
	for _, ax := range []struct {
		name   string
		lambda float64
		settle bool
	}{
		{"x", r.LambdaX, false},
		{"y", r.LambdaY, true},
		{"z", r.LambdaZ, true},
	} {
		if !(ax.lambda > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrLambda, ax.name, ax.lambda)
		}
		if ax.settle && Convergence(ax.lambda, window) < minConvergence {
			return fmt.Errorf("%w: %s=%v settles only %.1f%% within %vs",
				ErrLambda, ax.name, ax.lambda, 100*Convergence(ax.lambda, window), window)
		}
	}
	return nil
}

// Pose is a camera position plus the point it looks at.
type Pose struct {
	Position math3d.Vec3
	LookAt   math3d.Vec3
}

// Target computes the undamped pose for a scroll offset and pointer X. Both
// inputs are clamped: offset to [0,1], pointer to [-1,1].
func (r Rig) Target(offset, pointerX float64) Pose {
	offset = math3d.Clamp(offset, 0, 1)
	pointerX = math3d.Clamp(pointerX, -1, 1)

	y := -offset * r.TotalTravel
	pos := math3d.V3(
		pointerX*r.Parallax,
		y,
		r.BaseZ+math.Sin(offset*math.Pi)*r.ZoomAmplitude,
	)
	return Pose{Position: pos, LookAt: math3d.V3(0, y, 0)}
}

// Camera is the sink the choreographer writes to once per tick.
type Camera interface {
	SetPosition(pos math3d.Vec3)
	LookAt(target math3d.Vec3)
}

// Frame is the per-tick input to Update.
type Frame struct {
	Offset   float64 // Scroll offset in [0,1]
	PointerX float64 // Pointer X in [-1,1]
	Delta    float64 // Seconds since the previous tick
}

// Choreographer owns the camera pose. It is the only writer of the bound
// camera's transform; run at most one per camera.
type Choreographer struct {
	rig     Rig
	x, y, z DampedScalar
	camera  Camera
	pose    Pose
}

// New creates a choreographer resting at the offset 0 pose.
func New(rig Rig) *Choreographer {
	c := &Choreographer{
		rig: rig,
		x:   DampedScalar{Lambda: rig.LambdaX},
		y:   DampedScalar{Lambda: rig.LambdaY},
		z:   DampedScalar{Lambda: rig.LambdaZ},
	}
	c.Snap(0, 0)
	return c
}

// Rig returns the camera constants.
func (c *Choreographer) Rig() Rig {
	return c.rig
}

// Bind attaches the camera to drive. Bind(nil) detaches it, after which
// Update keeps tracking but writes nothing.
func (c *Choreographer) Bind(cam Camera) {
	c.camera = cam
	c.apply()
}

// Snap places the camera exactly on the target for offset, with no easing.
func (c *Choreographer) Snap(offset, pointerX float64) {
	c.retarget(offset, pointerX)
	c.x.Settle()
	c.y.Settle()
	c.z.Settle()
	c.apply()
}

// Update retargets from f and advances each axis by f.Delta seconds.
func (c *Choreographer) Update(f Frame) Pose {
	c.retarget(f.Offset, f.PointerX)
	c.x.Step(f.Delta)
	c.y.Step(f.Delta)
	c.z.Step(f.Delta)
	c.apply()
	return c.pose
}

// Pose returns the pose written by the last Update or Snap.
func (c *Choreographer) Pose() Pose {
	return c.pose
}

// Target returns the pose the camera is heading toward.
func (c *Choreographer) Target() Pose {
	return Pose{
		Position: math3d.V3(c.x.Target, c.y.Target, c.z.Target),
		LookAt:   math3d.V3(0, c.y.Target, 0),
	}
}

func (c *Choreographer) retarget(offset, pointerX float64) {
	t := c.rig.Target(offset, pointerX)
	c.x.Target = t.Position.X
	c.y.Target = t.Position.Y
	c.z.Target = t.Position.Z
}

// apply writes the current pose. The camera looks at the horizontal centre
// of wherever it currently is, not at the target.
func (c *Choreographer) apply() {
	c.pose = Pose{
		Position: math3d.V3(c.x.Current, c.y.Current, c.z.Current),
		LookAt:   math3d.V3(0, c.y.Current, 0),
	}
	if c.camera == nil {
		return
	}
	c.camera.SetPosition(c.pose.Position)
	c.camera.LookAt(c.pose.LookAt)
}
