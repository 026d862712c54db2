package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/parallax/pkg/math3d"
)

// ErrAnimatorConflict reports two animators on one node writing the same
// field.
var ErrAnimatorConflict = errors.New("scene: animators write the same field")

// Kind selects an animator's behaviour.
type Kind int

const (
	// Spin sets rotation to Rest + elapsed*Rate per axis.
	Spin Kind = iota + 1
	// Bob sets position Y to Rest.Y + sin(elapsed+Phase)*Amplitude.
	Bob
	// Float drifts rotation and height on a slow sine, scaled by
	// RotationIntensity and FloatIntensity.
	Float
	// GroupSpin turns a whole group about Y at Rate.Y.
	GroupSpin
	// Distort drives the material's vertex displacement.
	Distort
	// Twinkle drives the material's brightness pulse.
	Twinkle
)

func (k Kind) String() string {
	switch k {
	case Spin:
		return "spin"
	case Bob:
		return "bob"
	case Float:
		return "float"
	case GroupSpin:
		return "group-spin"
	case Distort:
		return "distort"
	case Twinkle:
		return "twinkle"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Animator is a tagged descriptor; which fields matter depends on Kind.
type Animator struct {
	Kind              Kind
	Rate              math3d.Vec3 // Spin, GroupSpin: radians per second
	Amplitude         float64     // Bob, Distort, Twinkle
	Phase             float64     // Bob, Float, Twinkle
	Speed             float64     // Float, Distort, Twinkle
	RotationIntensity float64     // Float
	FloatIntensity    float64     // Float
}

// SpinBy spins a node at rate radians per second on each axis.
func SpinBy(rate math3d.Vec3) Animator {
	return Animator{Kind: Spin, Rate: rate}
}

// BobBy bobs a node vertically. Use the node's index as phase to keep
// similar nodes out of step.
func BobBy(amplitude, phase float64) Animator {
	return Animator{Kind: Bob, Amplitude: amplitude, Phase: phase}
}

// FloatBy makes a node drift like it is floating.
func FloatBy(speed, rotationIntensity, floatIntensity, phase float64) Animator {
	return Animator{
		Kind:              Float,
		Speed:             speed,
		RotationIntensity: rotationIntensity,
		FloatIntensity:    floatIntensity,
		Phase:             phase,
	}
}

// GroupSpinBy turns a group rigidly about Y.
func GroupSpinBy(rate float64) Animator {
	return Animator{Kind: GroupSpin, Rate: math3d.V3(0, rate, 0)}
}

// DistortBy wobbles a mesh's surface with the given strength and speed.
func DistortBy(amplitude, speed float64) Animator {
	return Animator{Kind: Distort, Amplitude: amplitude, Speed: speed}
}

// TwinkleBy pulses a point cloud's brightness.
func TwinkleBy(amplitude, speed float64) Animator {
	return Animator{Kind: Twinkle, Amplitude: amplitude, Speed: speed}
}

type field uint8

const (
	fieldRotation field = 1 << iota
	fieldPositionY
	fieldDistort
	fieldPulse
)

func (a Animator) fields() field {
	switch a.Kind {
	case Spin, GroupSpin:
		return fieldRotation
	case Bob:
		return fieldPositionY
	case Float:
		return fieldRotation | fieldPositionY
	case Distort:
		return fieldDistort
	case Twinkle:
		return fieldPulse
	}
	return 0
}

func checkAnimators(as []Animator) error {
	var seen field
	for _, a := range as {
		f := a.fields()
		if f == 0 {
			return fmt.Errorf("scene: unknown animator %v", a.Kind)
		}
		if seen&f != 0 {
			return fmt.Errorf("%w: %v", ErrAnimatorConflict, a.Kind)
		}
		seen |= f
	}
	return nil
}

// Tick is the per-frame input to the animators.
type Tick struct {
	Elapsed float64 // Seconds since start, monotonic
	Delta   float64 // Seconds since the previous tick
}

// Animate applies every animator of every mounted node for t.
func (s *Scene) Animate(t Tick) {
	for i := range s.Nodes {
		s.AnimateNode(i, t)
	}
}

// AnimateNode applies node i's animators. Out-of-range or unmounted nodes
// are skipped.
func (s *Scene) AnimateNode(i int, t Tick) {
	n := s.Node(i)
	if n == nil || !n.Mounted() {
		return
	}
	for _, a := range n.Animators {
		a.apply(n, t.Elapsed)
	}
}

// apply writes the animator's fields on n as a pure function of elapsed.
func (a Animator) apply(n *Node, elapsed float64) {
	rest := n.Rest
	switch a.Kind {
	case Spin, GroupSpin:
		n.Local.Rotation = rest.Rotation.Add(a.Rate.Scale(elapsed))

	case Bob:
		n.Local.Position.Y = rest.Position.Y + math.Sin(elapsed+a.Phase)*a.Amplitude

	case Float:
		t := (a.Phase + elapsed) / 4 * a.Speed
		s, c := math.Sin(t), math.Cos(t)
		n.Local.Rotation = rest.Rotation.Add(math3d.V3(
			c/8*a.RotationIntensity,
			s/8*a.RotationIntensity,
			s/20*a.RotationIntensity,
		))
		n.Local.Position.Y = rest.Position.Y + s/10*a.FloatIntensity

	case Distort:
		if n.Mesh == nil {
			return
		}
		n.Material.DistortAmount = a.Amplitude
		n.Material.DistortPhase = elapsed * a.Speed

	case Twinkle:
		if len(n.Points) == 0 {
			return
		}
		n.Material.PulseAmount = a.Amplitude
		n.Material.PulsePhase = elapsed * a.Speed
	}
}
