package choreo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/parallax/pkg/math3d"
)

type recordingCamera struct {
	pos, look math3d.Vec3
	writes    int
}

func (c *recordingCamera) SetPosition(p math3d.Vec3) { c.pos = p; c.writes++ }
func (c *recordingCamera) LookAt(t math3d.Vec3)      { c.look = t }

func TestDampStepInvariance(t *testing.T) {
	one := Damp(0, 10, 5, 1)
	many := 0.0
	for range 100 {
		many = Damp(many, 10, 5, 0.01)
	}
	assert.InDelta(t, one, many, 1e-9)
}

func TestDampIgnoresBadInputs(t *testing.T) {
	tests := []struct {
		name          string
		lambda, delta float64
	}{
		{"zero delta", 5, 0},
		{"negative delta", 5, -1},
		{"nan delta", 5, math.NaN()},
		{"zero lambda", 0, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 3.0, Damp(3, 10, tt.lambda, tt.delta))
		})
	}
}

func TestTargetBoundaries(t *testing.T) {
	r := DefaultRig()

	start := r.Target(0, 0)
	assert.Equal(t, math3d.V3(0, 0, 5), start.Position)
	assert.Equal(t, math3d.V3(0, 0, 0), start.LookAt)

	mid := r.Target(0.5, 0)
	assert.InDelta(t, -12.5, mid.Position.Y, 1e-9)
	assert.InDelta(t, 7, mid.Position.Z, 1e-9)

	end := r.Target(1, 0)
	assert.InDelta(t, -25, end.Position.Y, 1e-9)
	assert.InDelta(t, 5, end.Position.Z, 1e-9)
}

func TestTargetClampsInputs(t *testing.T) {
	r := DefaultRig()
	assert.Equal(t, r.Target(1, 1), r.Target(3, 9))
	assert.Equal(t, r.Target(0, -1), r.Target(-2, -4))
	assert.InDelta(t, 0.5, r.Target(0, 1).Position.X, 1e-9)
}

func TestSettledAtBoundaries(t *testing.T) {
	for _, offset := range []float64{0, 1} {
		c := New(DefaultRig())
		var pose Pose
		for range 600 {
			pose = c.Update(Frame{Offset: offset, Delta: 1.0 / 60})
		}
		want := DefaultRig().Target(offset, 0)
		assert.InDelta(t, want.Position.Y, pose.Position.Y, 1e-6)
		assert.InDelta(t, want.Position.Z, pose.Position.Z, 1e-6)
	}
}

func TestJumpHasNoTeleport(t *testing.T) {
	c := New(DefaultRig())
	delta := 1.0 / 60
	pose := c.Update(Frame{Offset: 1, Delta: delta})

	// One tick closes exactly 1-exp(-5/60) of the 25-unit gap.
	want := -25 * (1 - math.Exp(-5*delta))
	assert.InDelta(t, want, pose.Position.Y, 1e-9)
	assert.Greater(t, pose.Position.Y, -2.5)

	prev := pose.Position.Y
	for range 300 {
		pose = c.Update(Frame{Offset: 1, Delta: delta})
		assert.LessOrEqual(t, pose.Position.Y, prev, "approach must be monotonic")
		prev = pose.Position.Y
	}
	assert.InDelta(t, -25, pose.Position.Y, 0.01)
}

func TestZoomEases(t *testing.T) {
	c := New(DefaultRig())
	pose := c.Update(Frame{Offset: 0.5, Delta: 0.1})

	// Z closes 1-exp(-LambdaZ*dt) of the gap from 5 to 7, like X and Y.
	want := 5 + 2*(1-math.Exp(-5*0.1))
	assert.InDelta(t, want, pose.Position.Z, 1e-9)
	assert.Less(t, pose.Position.Z, c.Target().Position.Z)
}

func TestReversalIsContinuous(t *testing.T) {
	c := New(DefaultRig())
	delta := 1.0 / 60
	offsets := []float64{}
	for i := 0; i <= 30; i++ {
		offsets = append(offsets, float64(i)/30*0.6)
	}
	for i := 30; i >= 0; i-- {
		offsets = append(offsets, float64(i)/30*0.6)
	}

	prev := c.Pose().Position
	maxStep := 0.0
	for _, o := range offsets {
		pose := c.Update(Frame{Offset: o, Delta: delta})
		maxStep = max(maxStep, pose.Position.Distance(prev))
		prev = pose.Position

		// The target depends on offset alone, whichever way it is moving.
		assert.Equal(t, DefaultRig().Target(o, 0), c.Target())
	}
	assert.Less(t, maxStep, 1.0)
}

func TestLookAtFollowsCurrentNotTarget(t *testing.T) {
	cam := &recordingCamera{}
	c := New(DefaultRig())
	c.Bind(cam)
	c.Update(Frame{Offset: 1, Delta: 0.1})

	assert.Equal(t, cam.pos.Y, cam.look.Y)
	assert.NotEqual(t, -25.0, cam.look.Y)
	assert.Zero(t, cam.look.X)
	assert.Zero(t, cam.look.Z)
}

func TestUnboundIsNoop(t *testing.T) {
	cam := &recordingCamera{}
	c := New(DefaultRig())
	c.Bind(cam)
	writes := cam.writes
	c.Bind(nil)
	c.Update(Frame{Offset: 0.5, Delta: 0.1})
	assert.Equal(t, writes, cam.writes)
}

func TestSnap(t *testing.T) {
	c := New(DefaultRig())
	c.Snap(0.5, -1)
	want := DefaultRig().Target(0.5, -1)
	assert.Equal(t, want, c.Pose())
}

func TestConvergenceWithinWindow(t *testing.T) {
	r := DefaultRig()
	require.NoError(t, r.Validate(1))
	assert.GreaterOrEqual(t, Convergence(r.LambdaY, 1), 0.99)
	assert.GreaterOrEqual(t, Convergence(r.LambdaZ, 1), 0.99)

	// Simulated: a full-range jump is 99% complete after one second.
	c := New(r)
	var pose Pose
	for range 60 {
		pose = c.Update(Frame{Offset: 1, Delta: 1.0 / 60})
	}
	assert.Less(t, math.Abs(pose.Position.Y+25), 0.25)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Rig)
	}{
		{"zero y", func(r *Rig) { r.LambdaY = 0 }},
		{"negative x", func(r *Rig) { r.LambdaX = -1 }},
		{"slow z", func(r *Rig) { r.LambdaZ = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRig()
			tt.mutate(&r)
			assert.ErrorIs(t, r.Validate(1), ErrLambda)
		})
	}

	r := DefaultRig()
	r.TotalTravel = 0
	assert.Error(t, r.Validate(1))
}
