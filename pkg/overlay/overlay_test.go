package overlay

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/parallax/pkg/content"
	"github.com/taigrr/parallax/pkg/pipeline"
	"github.com/taigrr/parallax/pkg/render"
	"github.com/taigrr/parallax/pkg/scene"
	"github.com/taigrr/parallax/pkg/scroll"
)

func screen(w, h int) (uv.ScreenBuffer, uv.Rectangle) {
	return uv.NewScreenBuffer(w, h), uv.Rect(0, 0, w, h)
}

func row(scr uv.Screen, y int) string {
	var b strings.Builder
	for x := range scr.Bounds().Dx() {
		c := scr.CellAt(x, y)
		if c == nil || c.Content == "" {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(c.Content)
	}
	return b.String()
}

func text(scr uv.Screen) string {
	var rows []string
	for y := range scr.Bounds().Dy() {
		rows = append(rows, row(scr, y))
	}
	return strings.Join(rows, "\n")
}

func TestWrap(t *testing.T) {
	lines := wrap("the quick brown fox jumps over the lazy dog", 10)
	for _, l := range lines {
		assert.LessOrEqual(t, runewidth.StringWidth(l), 10, "%q", l)
	}
	assert.Equal(t, "the quick", lines[0])
	assert.Equal(t, "the quick brown fox jumps over the lazy dog", strings.Join(lines, " "))

	assert.Equal(t, []string{"short"}, wrap("short", 10))
	assert.Equal(t, []string{"abcde", "fghij", "k"}, wrap("abcdefghijk", 5))
}

func TestDrawScrollsPages(t *testing.T) {
	doc := content.Default()
	o := New(doc, 6)

	scr, area := screen(80, 24)
	o.Draw(scr, area, scroll.Fixed(0))
	got := text(scr)
	assert.Contains(t, got, doc.Hero.Name)
	assert.NotContains(t, got, doc.About.Title)

	scr, area = screen(80, 24)
	o.Draw(scr, area, scroll.Fixed(o.PageOffset(1)))
	got = text(scr)
	assert.Contains(t, got, doc.About.Title)
	assert.NotContains(t, got, doc.Hero.Eyebrow)

	scr, area = screen(80, 24)
	o.Draw(scr, area, scroll.Fixed(o.PageOffset(4)))
	assert.Contains(t, text(scr), doc.Contact.Title)
}

func TestDrawHalfwayShowsBothPages(t *testing.T) {
	doc := content.Default()
	o := New(doc, 6)
	scr, area := screen(80, 24)
	o.Draw(scr, area, scroll.Fixed(o.PageOffset(1)/2))
	got := text(scr)
	// Half a page up: the bottom of the hero page and the top of the about
	// page share the screen. Neither block is cut mid-line.
	assert.True(t, strings.Contains(got, "Contact Me") || strings.Contains(got, doc.About.Title))
}

// cellOf returns the first cell of the first occurrence of s on scr.
func cellOf(t *testing.T, scr uv.Screen, s string) *uv.Cell {
	t.Helper()
	for y := range scr.Bounds().Dy() {
		r := row(scr, y)
		if i := strings.Index(r, s); i >= 0 {
			return scr.CellAt(utf8.RuneCountInString(r[:i]), y)
		}
	}
	t.Fatalf("%q not on screen", s)
	return nil
}

func TestDrawFadesPagesInTransit(t *testing.T) {
	doc := content.Default()
	o := New(doc, 6)

	scr, area := screen(80, 24)
	o.Draw(scr, area, scroll.Fixed(o.PageOffset(1)))
	c := cellOf(t, scr, doc.About.Title)
	assert.Zero(t, c.Style.Attrs&uv.AttrFaint, "page filling the screen")
	assert.NotZero(t, c.Style.Attrs&uv.AttrBold)

	scr, area = screen(80, 24)
	o.Draw(scr, area, scroll.Fixed(o.PageOffset(1)/2))
	c = cellOf(t, scr, doc.About.Title)
	assert.NotZero(t, c.Style.Attrs&uv.AttrFaint, "page half way in")
}

func TestNavIndex(t *testing.T) {
	o := New(content.Default(), 6)
	tests := []struct {
		offset float64
		want   int
	}{
		{0, 0},
		{o.PageOffset(1), 1},
		{o.PageOffset(2), 2},
		{o.PageOffset(3), 2},
		{o.PageOffset(4), 3},
		{1, 3},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, o.NavIndex(tc.offset), "offset %v", tc.offset)
	}
	for i, p := range NavPages {
		assert.Equal(t, i, o.NavIndex(o.PageOffset(p)))
	}
}

func TestHeaderHighlightsActiveEntry(t *testing.T) {
	doc := content.Default()
	o := New(doc, 6)
	scr, area := screen(80, 24)
	o.Header(scr, area, o.PageOffset(1))

	top := row(scr, 0)
	assert.True(t, strings.HasPrefix(strings.TrimLeft(top, " "), doc.Brand))
	x := strings.Index(top, "ABOUT")
	require.GreaterOrEqual(t, x, 0)
	assert.Equal(t, cyan, scr.CellAt(x, 0).Style.Fg)

	home := strings.Index(top, "HOME")
	require.GreaterOrEqual(t, home, 0)
	assert.Equal(t, dim, scr.CellAt(home, 0).Style.Fg)
}

func TestLabels(t *testing.T) {
	scr, area := screen(40, 10)
	o := New(content.Default(), 6)
	o.Labels(scr, area, []pipeline.Label{
		{Label: scene.Label{Text: "REACT", Style: scene.LabelTag, Color: scene.White}, Col: 20, Row: 1},
		{Label: scene.Label{Text: "alpha beta gamma", Style: scene.LabelBody, Width: 6, Color: scene.BodyText}, Col: 2, Row: 4},
		{Label: scene.Label{Text: "OFFSCREEN", Style: scene.LabelTitle}, Col: 100, Row: 50},
	})

	assert.Equal(t, "REACT", strings.TrimSpace(row(scr, 1)))
	assert.Equal(t, 18, strings.Index(row(scr, 1), "REACT"), "tags are centred on their anchor")
	assert.Equal(t, "alpha", strings.TrimSpace(row(scr, 4)))
	assert.Equal(t, "beta", strings.TrimSpace(row(scr, 5)))
	assert.Equal(t, "gamma", strings.TrimSpace(row(scr, 6)))
}

func TestTextKeepsSceneBackground(t *testing.T) {
	scr, area := screen(10, 1)
	bg := render.RGB(1, 2, 3)
	scr.SetCell(0, 0, &uv.Cell{Content: "▀", Width: 1, Style: uv.Style{Bg: bg}})
	put(scr, area, 0, 0, "A", solid(white, 0))
	assert.Equal(t, "A", scr.CellAt(0, 0).Content)
	assert.Equal(t, bg, scr.CellAt(0, 0).Style.Bg)
}

func TestLoader(t *testing.T) {
	scr, area := screen(60, 11)
	New(content.Default(), 6).Loader(scr, area, 0.3)
	assert.Contains(t, text(scr), "I N I T I A L I Z I N G")
}

func TestHUD(t *testing.T) {
	h := NewHUD()
	scr, area := screen(100, 5)
	h.Draw(scr, area, Status{})
	assert.Equal(t, "", strings.TrimSpace(text(scr)), "hidden by default")

	t0 := time.Unix(1000, 0)
	h.fpsTime = t0
	for i := 1; i <= 30; i++ {
		h.Tick(t0.Add(time.Duration(i) * time.Second / 30))
	}
	assert.InDelta(t, 30, h.FPS(), 1e-9)

	h.Visible = true
	h.Draw(scr, area, Status{Offset: 0.5, Section: "projects", Progress: 0.4, Stats: render.Stats{Triangles: 12, MeshesCulled: 3, MeshesTested: 9}})
	last := row(scr, 4)
	assert.Contains(t, last, "30 FPS")
	assert.Contains(t, last, "50% projects (40%)")
	assert.Contains(t, last, "12 tris  3/9 culled")
}
