// Package overlay draws the text layer over the 3D scene: the loading
// screen, the sticky header, the scrolling page text, the labels pinned to
// scene nodes, and the HUD.
package overlay

import (
	"math"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mattn/go-runewidth"

	"github.com/taigrr/parallax/pkg/content"
	"github.com/taigrr/parallax/pkg/pipeline"
	"github.com/taigrr/parallax/pkg/render"
	"github.com/taigrr/parallax/pkg/scene"
	"github.com/taigrr/parallax/pkg/scroll"
)

var (
	white  = render.RGB(255, 255, 255)
	gray   = render.RGB(209, 213, 219)
	dim    = render.RGB(156, 163, 175)
	cyan   = scene.Cyan
	purple = scene.Purple
)

// NavPages maps each header entry to the page it scrolls to.
var NavPages = [...]int{0, 1, 2, 4}

// Overlay lays the document text out in page-high blocks that scroll with
// the offset.
type Overlay struct {
	doc   *content.Content
	pages int

	width  int // Width the blocks were laid out for
	blocks []block
}

// New returns an overlay for doc over a scroll extent of pages pages.
func New(doc *content.Content, pages int) *Overlay {
	return &Overlay{doc: doc, pages: max(pages, 2)}
}

// PageOffset returns the scroll offset at which page k fills the screen.
func (o *Overlay) PageOffset(k int) float64 {
	return math.Min(1, math.Max(0, float64(k)/float64(o.pages-1)))
}

// Page returns the page filling most of the screen at offset.
func (o *Overlay) Page(offset float64) int {
	return int(math.Round(offset * float64(o.pages-1)))
}

// NavIndex returns the header entry for offset.
func (o *Overlay) NavIndex(offset float64) int {
	page := o.Page(offset)
	idx := 0
	for i, p := range NavPages {
		if page >= p {
			idx = i
		}
	}
	return idx
}

// scroll returns how many rows the page text has moved up at offset.
func (o *Overlay) scroll(offset float64, height int) int {
	return int(math.Round(offset * float64(o.pages-1) * float64(height)))
}

// fadeBelow is the page curve under which page text is drawn faint.
const fadeBelow = 0.75

// Draw renders the scrolling page text into area for the offset of st.
// Page k starts k screen heights down the document and is brightest when
// it fills the screen.
func (o *Overlay) Draw(scr uv.Screen, area uv.Rectangle, st scroll.State) {
	w, h := area.Dx(), area.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	if w != o.width || o.blocks == nil {
		o.blocks = layout(o.doc, w)
		o.width = w
	}
	page := 1 / float64(o.pages-1)
	top := area.Min.Y - o.scroll(st.Offset(), h)
	for k, b := range o.blocks {
		from := float64(k-1) * page
		if !st.Visible(from, 2*page) {
			continue
		}
		pageTop := top + k*h
		if pageTop >= area.Max.Y || pageTop+h <= area.Min.Y {
			continue
		}
		b.draw(scr, area, pageTop, h, st.Curve(from, 2*page) < fadeBelow)
	}
}

// Header draws the sticky top bar: brand on the left, navigation on the
// right with the entry for offset highlighted.
func (o *Overlay) Header(scr uv.Screen, area uv.Rectangle, offset float64) {
	if area.Dy() <= 0 {
		return
	}
	y := area.Min.Y
	put(scr, area, area.Min.X+2, y, o.doc.Brand, solid(white, uv.AttrBold))

	active := o.NavIndex(offset)
	nav := o.doc.Nav
	width := 0
	for _, n := range nav {
		width += runewidth.StringWidth(n) + 3
	}
	x := area.Max.X - width
	for i, n := range nav {
		k := solid(dim, 0)
		if i == active {
			k = solid(cyan, uv.AttrBold)
		}
		x = put(scr, area, x, y, n, k) + 3
	}
}

// Labels draws scene labels. They are expected far to near, so nearer
// labels end up on top.
func (o *Overlay) Labels(scr uv.Screen, area uv.Rectangle, labels []pipeline.Label) {
	for _, l := range labels {
		x, y := area.Min.X+l.Col, area.Min.Y+l.Row
		switch l.Style {
		case scene.LabelTitle:
			put(scr, area, x, y, l.Text, solid(l.Color, uv.AttrBold))
		case scene.LabelBody:
			for i, line := range wrap(l.Text, l.Width) {
				put(scr, area, x, y+i, line, solid(l.Color, 0))
			}
		case scene.LabelTag:
			put(scr, area, x-runewidth.StringWidth(l.Text)/2, y, l.Text, solid(l.Color, 0))
		}
	}
}

// Loader draws the startup screen: a spinner over the loading message.
func (o *Overlay) Loader(scr uv.Screen, area uv.Rectangle, elapsed float64) {
	spinner := []string{"◜", "◝", "◞", "◟"}
	frame := int(elapsed*8) % len(spinner)
	cx, cy := area.Min.X+area.Dx()/2, area.Min.Y+area.Dy()/2

	put(scr, area, cx, cy-1, spinner[frame], solid(cyan, uv.AttrBold))
	attrs := uint8(uv.AttrBold)
	if math.Sin(elapsed*math.Pi*2) < 0 {
		attrs = uv.AttrFaint
	}
	msg := strings.Join(strings.Split(o.doc.Loader, ""), " ")
	put(scr, area, cx-runewidth.StringWidth(msg)/2, cy+1, msg, solid(cyan, attrs))
}
