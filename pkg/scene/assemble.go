package scene

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/taigrr/parallax/pkg/choreo"
	"github.com/taigrr/parallax/pkg/content"
	"github.com/taigrr/parallax/pkg/math3d"
	"github.com/taigrr/parallax/pkg/models"
	"github.com/taigrr/parallax/pkg/render"
	"github.com/taigrr/parallax/pkg/section"
)

// Palette.
var (
	Background = render.MustParseHex("#050505")
	Cyan       = render.MustParseHex("#06b6d4")
	Purple     = render.MustParseHex("#a855f7")
	Magenta    = render.MustParseHex("#d946ef")
	Charcoal   = render.MustParseHex("#1a1a1a")
	Graphite   = render.MustParseHex("#333333")
	GridColor  = render.MustParseHex("#0e3a44")
	BodyText   = render.MustParseHex("#cccccc")
	White      = render.RGB(255, 255, 255)
	orbPalette = [...]render.Color{Cyan, Purple}
)

const (
	starLight   = 0.9 // Star lightness; stars are unsaturated
	descWrap    = 28  // Card description wrap width in cells
	cardOpacity = 0.9
)

// Assemble builds the scene for c along the camera path described by rig.
// hero replaces the built-in icosphere when non-nil. The layout is checked
// first; a layout that leaves content outside the camera's travel is a
// startup error.
func Assemble(c *content.Content, l Layout, rig choreo.Rig, hero *models.Mesh) (*Scene, error) {
	if err := l.Validate(len(c.Projects), rig); err != nil {
		return nil, err
	}
	b := &builder{s: New()}
	b.s.Background = Background

	b.lights()
	b.stars(l.Stars)
	b.hero(l, hero)
	b.about(l)
	b.projects(c.Projects, l)
	b.skills(c.Skills, l)
	b.contact(l)

	if b.err != nil {
		return nil, fmt.Errorf("assemble scene: %w", b.err)
	}
	return b.s, nil
}

// builder keeps the first Add error so the section builders read straight
// through.
type builder struct {
	s   *Scene
	err error
}

func (b *builder) add(n Node) int {
	if b.err != nil {
		return Root
	}
	i, err := b.s.Add(n)
	if err != nil {
		b.err = err
		return Root
	}
	return i
}

func (b *builder) lights() {
	b.s.Lights = append(b.s.Lights,
		Light{Kind: Ambient, Color: White, Intensity: 0.2},
		Light{Kind: Point, Position: math3d.V3(10, 10, 10), Color: Cyan, Intensity: 1},
		Light{Kind: Point, Position: math3d.V3(-10, -10, -10), Color: Magenta, Intensity: 1},
		Light{Kind: Spot, Position: math3d.V3(0, 5, 0), Target: math3d.Zero3(), Color: White, Intensity: 0.5, Angle: 0.5},
	)
}

// stars scatters cfg.Count points through a spherical shell. Each star's
// radius shrinks a little from the outer edge, so the cloud thins out with
// depth. The same seed always gives the same sky.
func (b *builder) stars(cfg StarField) {
	if cfg.Count == 0 {
		return
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	pts := make([]Star, cfg.Count)
	r := cfg.Radius + cfg.Depth
	step := cfg.Depth / float64(cfg.Count)
	for i := range pts {
		r -= step * rng.Float64()
		phi := math.Acos(1 - 2*rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		pts[i] = Star{
			Position: math3d.V3(
				r*math.Sin(phi)*math.Sin(theta),
				r*math.Cos(phi),
				r*math.Sin(phi)*math.Cos(theta),
			),
			Color: render.MultiplyColor(White, starLight),
			Phase: 2 * math.Pi * rng.Float64(),
		}
	}
	b.add(Node{
		Name:      "stars",
		Parent:    Root,
		Section:   section.Hero,
		Points:    pts,
		Material:  Material{Color: White, Unlit: true},
		Animators: []Animator{TwinkleBy(0.5, 1)},
	})
}

func (b *builder) hero(l Layout, mesh *models.Mesh) {
	if mesh == nil {
		mesh = models.Icosphere(1, l.HeroDetail)
	}
	float := b.add(Node{
		Name:      "hero",
		Parent:    Root,
		Section:   section.Hero,
		Rest:      At(l.HeroPosition),
		Animators: []Animator{FloatBy(2, 0.5, 0.5, 0)},
	})
	b.add(Node{
		Name:    "hero/core",
		Parent:  float,
		Section: section.Hero,
		Rest: Transform{
			Scale: math3d.V3(l.HeroScale, l.HeroScale, l.HeroScale),
		},
		Mesh:     mesh,
		Material: Material{Color: Cyan, Emissive: 0.15},
		Animators: []Animator{
			SpinBy(math3d.V3(0.2, 0.3, 0)),
			DistortBy(0.4, 2),
		},
	})
	b.add(Node{
		Name:     "hero/frame",
		Parent:   Root,
		Section:  section.Hero,
		Rest:     Transform{Position: math3d.V3(-4, -2, -5), Rotation: math3d.V3(0, 0.5, 0)},
		Mesh:     models.Box(2, 2, 2),
		Material: Material{Color: Graphite, Wireframe: true, Unlit: true},
	})
}

func (b *builder) about(l Layout) {
	b.add(Node{
		Name:      "about/torus",
		Parent:    Root,
		Section:   section.About,
		Rest:      At(l.AboutAnchor),
		Mesh:      models.Torus(1, 0.4, 16, 100),
		Material:  Material{Color: Charcoal},
		Animators: []Animator{FloatBy(2, 1, 1, 0)},
	})
}

func (b *builder) projects(ps []content.ProjectEntry, l Layout) {
	group := b.add(Node{
		Name:    "projects",
		Parent:  Root,
		Section: section.Projects,
		Rest:    At(l.ProjectsAnchor),
	})
	body := models.Box(3, 2, 0.2)
	b.s.ProjectCards = make([]int, len(ps))
	for i, p := range ps {
		x, tilt := -l.CardOffsetX, l.CardTilt
		if i%2 == 1 {
			x, tilt = l.CardOffsetX, -l.CardTilt
		}
		accent := p.RGB()
		name := fmt.Sprintf("projects/%d", p.ID)

		card := b.add(Node{
			Name:    name,
			Parent:  group,
			Section: section.Projects,
			Rest: Transform{
				Position: math3d.V3(x, l.CardBaseY-float64(i)*l.CardSpacing, 0),
				Rotation: math3d.V3(0, 0, tilt),
			},
			Animators: []Animator{BobBy(l.CardBob, float64(i))},
		})
		b.s.ProjectCards[i] = card

		b.add(Node{
			Name:     name + "/body",
			Parent:   card,
			Section:  section.Projects,
			Mesh:     body,
			Material: Material{Color: Charcoal, Opacity: cardOpacity},
		})
		b.add(Node{
			Name:     name + "/edge",
			Parent:   card,
			Section:  section.Projects,
			Rest:     Transform{Scale: math3d.V3(1.02, 1.02, 1.02)},
			Mesh:     body,
			Material: Material{Color: accent, Wireframe: true, Unlit: true},
		})
		b.add(Node{
			Name:    name + "/title",
			Parent:  card,
			Section: section.Projects,
			Rest:    At(math3d.V3(-1.2, 0.5, 0.15)),
			Label:   &Label{Text: p.Title, Color: accent, Style: LabelTitle},
		})
		b.add(Node{
			Name:    name + "/description",
			Parent:  card,
			Section: section.Projects,
			Rest:    At(math3d.V3(-1.2, 0, 0.15)),
			Label:   &Label{Text: p.Description, Color: BodyText, Style: LabelBody, Width: descWrap},
		})
	}
}

func (b *builder) skills(ss []content.SkillEntry, l Layout) {
	group := b.add(Node{
		Name:      "skills",
		Parent:    Root,
		Section:   section.Skills,
		Rest:      At(l.SkillsAnchor),
		Animators: []Animator{GroupSpinBy(l.OrbitRate)},
	})
	orb := models.Icosphere(0.3, 1)
	b.s.SkillOrbs = make([]int, len(ss))
	for i, pos := range FibonacciSphere(len(ss), l.OrbitRadius) {
		sk := ss[i]
		name := "skills/" + sk.Name
		node := b.add(Node{
			Name:     name,
			Parent:   group,
			Section:  section.Skills,
			Rest:     At(pos),
			Mesh:     orb,
			Material: Material{Color: orbPalette[i%len(orbPalette)], Emissive: 0.3},
		})
		b.s.SkillOrbs[i] = node
		b.add(Node{
			Name:    name + "/label",
			Parent:  node,
			Section: section.Skills,
			Rest:    At(math3d.V3(0, -0.5, 0)),
			Label:   &Label{Text: sk.Name, Color: White, Style: LabelTag},
		})
	}
}

func (b *builder) contact(l Layout) {
	group := b.add(Node{
		Name:    "contact",
		Parent:  Root,
		Section: section.Skills,
		Rest:    At(l.ContactAnchor),
	})
	b.add(Node{
		Name:     "contact/grid",
		Parent:   group,
		Section:  section.Skills,
		Rest:     At(math3d.V3(0, -2, 0)),
		Mesh:     models.Plane(50, 50, 32),
		Material: Material{Color: GridColor, Wireframe: true, Unlit: true},
	})
	b.add(Node{
		Name:     "contact/hologram",
		Parent:   group,
		Section:  section.Skills,
		Rest:     At(math3d.V3(0, -1.8, 0)),
		Mesh:     models.Cylinder(2, 2, 0.2, 32),
		Material: Material{Color: Cyan, Emissive: 0.5, Opacity: 0.5},
	})
}
