package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/parallax/pkg/choreo"
	"github.com/taigrr/parallax/pkg/math3d"
)

// ErrLayout reports anchors that do not agree with the camera's travel.
var ErrLayout = errors.New("scene: layout does not match camera travel")

// FibonacciSphere spreads n points over a sphere of radius r. Point i sits
// at polar angle acos(-1 + 2i/n) and azimuth sqrt(n*pi) times that angle.
// The result depends only on n and r.
func FibonacciSphere(n int, r float64) []math3d.Vec3 {
	if n <= 0 {
		return nil
	}
	pts := make([]math3d.Vec3, n)
	spiral := math.Sqrt(float64(n) * math.Pi)
	for i := range pts {
		phi := math.Acos(-1 + 2*float64(i)/float64(n))
		theta := spiral * phi
		pts[i] = math3d.V3(
			r*math.Cos(theta)*math.Sin(phi),
			r*math.Sin(theta)*math.Sin(phi),
			r*math.Cos(phi),
		)
	}
	return pts
}

// StarField configures the background point cloud.
type StarField struct {
	Radius float64 // Inner radius of the shell
	Depth  float64 // Shell thickness
	Count  int
	Seed   uint64
}

// Layout holds the hand-tuned anchors of every section. Each anchor is
// independent, but all of them must sit along the camera's vertical path;
// Validate checks that.
type Layout struct {
	HeroPosition math3d.Vec3
	HeroScale    float64
	HeroDetail   int // Icosphere subdivisions for the built-in hero

	AboutAnchor math3d.Vec3

	ProjectsAnchor math3d.Vec3
	CardBaseY      float64 // First card, relative to ProjectsAnchor
	CardSpacing    float64 // Vertical gap between consecutive cards
	CardOffsetX    float64 // Cards alternate between -X and +X
	CardTilt       float64 // Z tilt, alternating sign
	CardBob        float64

	SkillsAnchor math3d.Vec3
	OrbitRadius  float64
	OrbitRate    float64

	ContactAnchor    math3d.Vec3
	ContactClearance float64 // Minimum gap between the last card and contact

	Stars StarField

	// Margin is how far above the start or below the end of the camera
	// path an anchor may sit.
	Margin float64
}

// DefaultLayout returns the tuned anchors.
func DefaultLayout() Layout {
	return Layout{
		HeroPosition: math3d.V3(2, 0, 0),
		HeroScale:    1.5,
		HeroDetail:   1,

		AboutAnchor: math3d.V3(-3, -6, -2),

		ProjectsAnchor: math3d.V3(0, -5, 0),
		CardBaseY:      -6,
		CardSpacing:    3,
		CardOffsetX:    1.5,
		CardTilt:       0.1,
		CardBob:        0.1,

		SkillsAnchor: math3d.V3(-2, -12, 0),
		OrbitRadius:  3.5,
		OrbitRate:    0.1,

		ContactAnchor:    math3d.V3(0, -25, 0),
		ContactClearance: 5,

		Stars: StarField{Radius: 100, Depth: 50, Count: 1500, Seed: 1},

		Margin: 3,
	}
}

// CardY returns the world Y of card i at rest.
func (l Layout) CardY(i int) float64 {
	return l.ProjectsAnchor.Y + l.CardBaseY - float64(i)*l.CardSpacing
}

// Respace returns a copy with CardSpacing recomputed so n cards fit
// between the first card and ContactClearance above the contact anchor.
// Spacing never grows past the current value.
func (l Layout) Respace(n int) Layout {
	if n < 2 {
		return l
	}
	floor := l.ContactAnchor.Y + l.ContactClearance
	fit := (l.CardY(0) - floor) / float64(n-1)
	if fit > 0 {
		l.CardSpacing = math.Min(l.CardSpacing, fit)
	}
	return l
}

// Validate checks the layout against the rig for n project cards.
func (l Layout) Validate(n int, rig choreo.Rig) error {
	if !(l.CardSpacing > 0) {
		return fmt.Errorf("%w: card spacing %v must be positive", ErrLayout, l.CardSpacing)
	}
	if !(l.OrbitRadius > 0) {
		return fmt.Errorf("%w: orbit radius %v must be positive", ErrLayout, l.OrbitRadius)
	}
	if l.Stars.Count < 0 {
		return fmt.Errorf("%w: star count %d", ErrLayout, l.Stars.Count)
	}
	if math.Abs(l.ContactAnchor.Y+rig.TotalTravel) > 1e-9 {
		return fmt.Errorf("%w: contact anchor at y=%v, camera ends at y=%v",
			ErrLayout, l.ContactAnchor.Y, -rig.TotalTravel)
	}

	top, bottom := l.Margin, -rig.TotalTravel-l.Margin
	check := func(name string, y float64) error {
		if y > top || y < bottom {
			return fmt.Errorf("%w: %s at y=%v outside [%v, %v]", ErrLayout, name, y, bottom, top)
		}
		return nil
	}
	anchors := []struct {
		name string
		y    float64
	}{
		{"hero", l.HeroPosition.Y},
		{"about", l.AboutAnchor.Y},
		{"projects", l.ProjectsAnchor.Y},
		{"skills", l.SkillsAnchor.Y},
	}
	for _, a := range anchors {
		if err := check(a.name, a.y); err != nil {
			return err
		}
	}
	for i := range n {
		if err := check(fmt.Sprintf("card %d", i), l.CardY(i)); err != nil {
			return err
		}
	}
	if n > 0 && l.CardY(n-1) < l.ContactAnchor.Y+l.ContactClearance-1e-9 {
		return fmt.Errorf("%w: card %d at y=%v crowds the contact section",
			ErrLayout, n-1, l.CardY(n-1))
	}
	return nil
}
