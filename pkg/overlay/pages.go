package overlay

import (
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mattn/go-runewidth"

	"github.com/taigrr/parallax/pkg/content"
)

type align int

const (
	left align = iota
	right
	center
)

type line struct {
	text string
	ink  ink
}

// block is one page of text, vertically centred in its page.
type block struct {
	align align
	width int // Column width the lines were wrapped to
	lines []line
}

func (b *block) add(text string, k ink) {
	b.lines = append(b.lines, line{text: text, ink: k})
}

func (b *block) para(text string, k ink) {
	for _, l := range wrap(text, b.width) {
		b.add(l, k)
	}
}

func (b *block) gap() {
	b.add("", ink{})
}

const (
	margin   = 4
	maxWidth = 56
)

// layout wraps the document into its five pages for a screen w cells wide.
func layout(doc *content.Content, w int) []block {
	col := max(min(w-2*margin, maxWidth), 8)

	hero := block{align: left, width: col}
	hero.add("── "+doc.Hero.Eyebrow, solid(cyan, uv.AttrBold))
	hero.gap()
	hero.add(doc.Hero.Greeting, solid(white, uv.AttrBold))
	hero.add(doc.Hero.Name, gradient(cyan, purple, uv.AttrBold))
	hero.gap()
	hero.para(doc.Hero.Tagline, solid(gray, 0))
	hero.gap()
	var actions []string
	for _, a := range doc.Hero.Actions {
		actions = append(actions, "[ "+a+" ]")
	}
	hero.add(strings.Join(actions, "  "), solid(cyan, 0))

	about := block{align: right, width: col}
	about.add("▌ "+doc.About.Title, solid(purple, uv.AttrBold))
	about.gap()
	about.para(doc.About.Body, solid(gray, 0))
	for i, c := range doc.About.Columns {
		about.gap()
		accent := cyan
		if i%2 == 1 {
			accent = purple
		}
		about.add(c.Title, solid(accent, uv.AttrBold))
		about.para(c.Body, solid(dim, 0))
	}

	work := block{align: left, width: col}
	work.add("│ "+doc.Work.Title, solid(white, uv.AttrBold))
	work.add("│ "+doc.Work.Subtitle, solid(cyan, 0))

	arsenal := block{align: center, width: col}
	arsenal.add(doc.Arsenal.Title, gradient(cyan, purple, uv.AttrBold))
	arsenal.gap()
	arsenal.para(doc.Arsenal.Subtitle, solid(dim, 0))

	contact := block{align: center, width: col}
	contact.add(doc.Contact.Title, solid(white, uv.AttrBold))
	contact.para(doc.Contact.Subtitle, solid(dim, 0))
	contact.gap()
	for _, f := range doc.Contact.Fields {
		contact.add(f, solid(cyan, uv.AttrBold))
		contact.add(strings.Repeat("▁", min(col, 32)), solid(dim, 0))
	}
	contact.gap()
	contact.add("[ "+doc.Contact.Submit+" → ]", gradient(cyan, purple, uv.AttrBold))
	contact.gap()
	var links []string
	for _, l := range doc.Contact.Links {
		links = append(links, l.Label)
	}
	contact.add(strings.Join(links, "  ·  "), solid(dim, 0))

	return []block{hero, about, work, arsenal, contact}
}

// draw renders the block inside the page that starts at row top and is h
// rows high. Faint blocks are on their way in or out.
func (b block) draw(scr uv.Screen, area uv.Rectangle, top, h int, faint bool) {
	y := top + max((h-len(b.lines))/2, 1)
	for _, l := range b.lines {
		if l.text != "" {
			k := l.ink
			if faint {
				k.attrs |= uv.AttrFaint
			}
			put(scr, area, b.x(area, runewidth.StringWidth(l.text)), y, l.text, k)
		}
		y++
	}
}

func (b block) x(area uv.Rectangle, w int) int {
	switch b.align {
	case right:
		return max(area.Max.X-margin-b.width, area.Min.X)
	case center:
		return area.Min.X + (area.Dx()-w)/2
	}
	return area.Min.X + margin
}
