package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/parallax/pkg/choreo"
	"github.com/taigrr/parallax/pkg/content"
	"github.com/taigrr/parallax/pkg/math3d"
	"github.com/taigrr/parallax/pkg/models"
	"github.com/taigrr/parallax/pkg/render"
	"github.com/taigrr/parallax/pkg/scene"
	"github.com/taigrr/parallax/pkg/section"
)

var bg = render.RGB(5, 5, 5)

func newScene(t *testing.T, nodes ...scene.Node) *scene.Scene {
	t.Helper()
	s := scene.New()
	s.Background = bg
	for _, n := range nodes {
		_, err := s.Add(n)
		require.NoError(t, err)
	}
	return s
}

func newPipeline(w, h int) (*Pipeline, *render.Camera) {
	cam := render.NewCamera()
	return New(cam, section.Default(), nil, w, h), cam
}

type countingEffect struct{ calls int }

func (c *countingEffect) Apply(*render.Framebuffer) { c.calls++ }

func TestRenderClearsToBackground(t *testing.T) {
	p, _ := newPipeline(20, 10)
	p.Render(newScene(t), Frame{})
	for _, px := range p.Framebuffer().Pixels {
		require.Equal(t, bg, px)
	}
}

func TestRenderDrawsAndUnmounts(t *testing.T) {
	box := scene.Node{
		Name:     "box",
		Parent:   scene.Root,
		Mesh:     models.Box(1, 1, 1),
		Material: scene.Material{Color: render.RGB(200, 0, 0), Unlit: true},
	}
	s := newScene(t, box)
	p, _ := newPipeline(80, 40)

	p.Render(s, Frame{})
	assert.Equal(t, render.RGB(200, 0, 0), p.Framebuffer().GetPixel(40, 20))
	assert.Equal(t, 1, p.Stats().MeshesDrawn)

	s.Unmount(0)
	p.Render(s, Frame{})
	assert.Equal(t, bg, p.Framebuffer().GetPixel(40, 20))
	assert.Zero(t, p.Stats().MeshesTested)
}

func TestRenderAppliesEffects(t *testing.T) {
	fx := &countingEffect{}
	p := New(render.NewCamera(), nil, fx, 8, 8)
	p.Render(newScene(t), Frame{})
	p.Render(newScene(t), Frame{})
	assert.Equal(t, 2, fx.calls)
}

func TestLabelsFollowActiveSection(t *testing.T) {
	s := newScene(t,
		scene.Node{Name: "hero", Parent: scene.Root, Section: section.Hero, Label: &scene.Label{Text: "HERO"}},
		scene.Node{Name: "skills", Parent: scene.Root, Section: section.Skills, Label: &scene.Label{Text: "SKILLS"}},
	)
	p, _ := newPipeline(80, 40)

	labels := p.Render(s, Frame{Offset: 0})
	require.Len(t, labels, 1)
	assert.Equal(t, "HERO", labels[0].Text)
	assert.Equal(t, 40, labels[0].Col)
	assert.Equal(t, 10, labels[0].Row)

	labels = p.Render(s, Frame{Offset: 1})
	require.Len(t, labels, 1)
	assert.Equal(t, "SKILLS", labels[0].Text)
	assert.Equal(t, 1, labels[0].Node)
}

func TestLabelsBehindCameraAreDropped(t *testing.T) {
	s := newScene(t, scene.Node{
		Parent: scene.Root,
		Rest:   scene.At(math3d.V3(0, 0, 10)),
		Label:  &scene.Label{Text: "behind"},
	})
	p, _ := newPipeline(80, 40)
	assert.Empty(t, p.Render(s, Frame{}))
}

func TestLabelsSortedFarToNear(t *testing.T) {
	s := newScene(t,
		scene.Node{Parent: scene.Root, Rest: scene.At(math3d.V3(0, 0, 2)), Label: &scene.Label{Text: "near"}},
		scene.Node{Parent: scene.Root, Rest: scene.At(math3d.V3(0, 0, -20)), Label: &scene.Label{Text: "far"}},
	)
	p, _ := newPipeline(80, 40)
	labels := p.Render(s, Frame{})
	require.Len(t, labels, 2)
	assert.Equal(t, "far", labels[0].Text)
	assert.Equal(t, "near", labels[1].Text)
}

func TestStarsPulse(t *testing.T) {
	white := render.RGB(200, 200, 200)
	s := newScene(t, scene.Node{
		Parent:   scene.Root,
		Points:   []scene.Star{{Position: math3d.Zero3(), Color: white}},
		Material: scene.Material{PulseAmount: 1, PulsePhase: 0},
	})
	p, _ := newPipeline(80, 40)
	p.Render(s, Frame{})
	got := p.Framebuffer().GetPixel(40, 20)
	assert.Equal(t, render.MultiplyColor(white, 0.5), got)
}

func TestAssembledSceneRenders(t *testing.T) {
	l := scene.DefaultLayout()
	l.Stars.Count = 200
	rig := choreo.DefaultRig()
	s, err := scene.Assemble(content.Default(), l, rig, nil)
	require.NoError(t, err)

	p, cam := newPipeline(96, 54)
	c := choreo.New(rig)
	c.Bind(cam)

	c.Snap(0, 0)
	p.Render(s, Frame{Offset: 0})
	stats := p.Stats()
	assert.Positive(t, stats.MeshesDrawn, "hero is in view")
	assert.Positive(t, stats.MeshesCulled, "lower sections are out of view")
	lit := 0
	for _, px := range p.Framebuffer().Pixels {
		if px != scene.Background {
			lit++
		}
	}
	assert.Positive(t, lit)

	c.Snap(0.5, 0)
	labels := p.Render(s, Frame{Offset: 0.5})
	require.NotEmpty(t, labels, "project cards are labelled mid-scroll")
	for _, lb := range labels {
		assert.GreaterOrEqual(t, lb.Col, 0)
		assert.Less(t, lb.Col, 96)
		assert.GreaterOrEqual(t, lb.Row, 0)
		assert.Less(t, lb.Row, 27)
		assert.NotEqual(t, section.Hero, s.Nodes[lb.Node].Section)
	}
}

func TestResizeUpdatesAspect(t *testing.T) {
	p, cam := newPipeline(80, 40)
	assert.InDelta(t, 2.0, cam.AspectRatio, 1e-12)
	p.Resize(60, 60)
	assert.InDelta(t, 1.0, cam.AspectRatio, 1e-12)
	assert.Equal(t, 60, p.Framebuffer().Width)
}
