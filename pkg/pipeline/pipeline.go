// Package pipeline turns a scene snapshot and a camera into a finished
// frame: lit and culled geometry in a framebuffer, the post effect chain,
// and the screen positions of every visible 3D label.
package pipeline

import (
	"cmp"
	"math"
	"slices"

	"github.com/taigrr/parallax/pkg/math3d"
	"github.com/taigrr/parallax/pkg/post"
	"github.com/taigrr/parallax/pkg/render"
	"github.com/taigrr/parallax/pkg/scene"
	"github.com/taigrr/parallax/pkg/section"
)

// Label is a scene label placed on the terminal grid.
type Label struct {
	scene.Label
	Node  int
	Col   int     // Cell column of the anchor
	Row   int     // Cell row of the anchor
	Depth float64 // NDC depth; larger is further away
}

// Frame is what the pipeline needs to know about the tick being drawn.
type Frame struct {
	Offset float64 // Scroll offset, used to pick which labels to show
}

// Pipeline owns the framebuffer and rasterizer for one camera.
type Pipeline struct {
	camera   *render.Camera
	fb       *render.Framebuffer
	rast     *render.Rasterizer
	effects  post.Effect
	sections *section.Model
	labels   []Label
}

// New creates a pipeline drawing w x h pixels. effects may be nil; a nil
// section model means section.Default.
func New(cam *render.Camera, sections *section.Model, effects post.Effect, w, h int) *Pipeline {
	if sections == nil {
		sections = section.Default()
	}
	fb := render.NewFramebuffer(0, 0)
	p := &Pipeline{
		camera:   cam,
		fb:       fb,
		rast:     render.NewRasterizer(cam, fb),
		effects:  effects,
		sections: sections,
	}
	p.Resize(w, h)
	return p
}

// Resize changes the pixel size. A terminal cell holds two pixels
// stacked vertically.
func (p *Pipeline) Resize(w, h int) {
	if w == p.fb.Width && h == p.fb.Height && w > 0 {
		return
	}
	p.fb.Resize(w, h)
	p.rast.Resize()
	if w > 0 && h > 0 {
		p.camera.SetAspectRatio(float64(w) / float64(h))
	}
}

// Framebuffer returns the frame drawn by the last Render.
func (p *Pipeline) Framebuffer() *render.Framebuffer {
	return p.fb
}

// Stats returns the culling counters of the last Render.
func (p *Pipeline) Stats() render.Stats {
	return p.rast.Stats
}

// Render draws s as seen by the camera. The returned labels are sorted far
// to near and stay valid until the next call.
func (p *Pipeline) Render(s *scene.Scene, f Frame) []Label {
	p.fb.Clear(s.Background)
	p.rast.BeginFrame()
	p.labels = p.labels[:0]

	world := s.WorldMatrices()
	env := newLighting(s.Lights, s.Background)
	near := p.nearSections(f.Offset)

	for i := range s.Nodes {
		n := &s.Nodes[i]
		if !n.Mounted() {
			continue
		}
		m := world[i]
		switch {
		case len(n.Points) > 0:
			p.drawPoints(n, m)
		case n.Mesh != nil && n.Material.Wireframe:
			p.rast.DrawMeshWireframe(n.Mesh, m, n.Material.Color)
		case n.Mesh != nil:
			p.rast.DrawMesh(n.Mesh, m, n.Material.DistortAmount, env.shader(n.Material, m))
		}
		if n.Label != nil && near[n.Section] {
			p.place(i, n.Label, m.Translation())
		}
	}

	if p.effects != nil {
		p.effects.Apply(p.fb)
	}
	slices.SortStableFunc(p.labels, func(a, b Label) int {
		return cmp.Compare(b.Depth, a.Depth)
	})
	return p.labels
}

// nearSections marks the active band and its neighbours. Labels further
// down the page are too small to read anyway.
func (p *Pipeline) nearSections(offset float64) map[section.Name]bool {
	near := make(map[section.Name]bool, 3)
	bands := p.sections.Bands()
	active := p.sections.Active(offset)
	for i, b := range bands {
		if b.Name != active.Name {
			continue
		}
		for j := max(0, i-1); j <= min(len(bands)-1, i+1); j++ {
			near[bands[j].Name] = true
		}
	}
	return near
}

func (p *Pipeline) place(node int, l *scene.Label, pos math3d.Vec3) {
	x, y, depth, ok := p.camera.WorldToScreen(pos, p.fb.Width, p.fb.Height)
	if !ok {
		return
	}
	p.labels = append(p.labels, Label{
		Label: *l,
		Node:  node,
		Col:   int(x),
		Row:   int(y) / 2,
		Depth: depth,
	})
}

func (p *Pipeline) drawPoints(n *scene.Node, m math3d.Mat4) {
	mat := n.Material
	for _, st := range n.Points {
		c := st.Color
		if mat.PulseAmount > 0 {
			dip := mat.PulseAmount * 0.5 * (1 + math.Sin(mat.PulsePhase+st.Phase))
			c = render.MultiplyColor(c, 1-dip)
		}
		p.rast.DrawPoint(m.MulVec3(st.Position), c)
	}
}
