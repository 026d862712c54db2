package overlay

import (
	"image/color"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/taigrr/parallax/pkg/render"
)

// ink is a text style: a foreground (or a left-to-right gradient between
// two colors) plus attributes. The background is taken from whatever is
// already on screen, so text floats over the scene.
type ink struct {
	fg    color.Color
	to    color.Color // Gradient end; nil for a solid color
	attrs uint8
}

func solid(c color.Color, attrs uint8) ink {
	return ink{fg: c, attrs: attrs}
}

func gradient(from, to color.Color, attrs uint8) ink {
	return ink{fg: from, to: to, attrs: attrs}
}

// at returns the foreground of the i-th of n cells.
func (k ink) at(i, n int) color.Color {
	if k.to == nil || n < 2 {
		return k.fg
	}
	a, b := rgba(k.fg), rgba(k.to)
	return render.LerpColor(a, b, float64(i)/float64(n-1))
}

func rgba(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

// put writes s at (x, y), clipped to area, and returns the column after
// the last cell written.
func put(scr uv.Screen, area uv.Rectangle, x, y int, s string, k ink) int {
	if y < area.Min.Y || y >= area.Max.Y {
		return x + runewidth.StringWidth(s)
	}
	n := runewidth.StringWidth(s)
	i := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x >= area.Min.X && x+w <= area.Max.X {
			scr.SetCell(x, y, &uv.Cell{
				Content: string(r),
				Width:   w,
				Style: uv.Style{
					Fg:    k.at(i, n),
					Bg:    backdrop(scr, x, y),
					Attrs: k.attrs,
				},
			})
		}
		x += w
		i += w
	}
	return x
}

// backdrop returns the background already drawn at (x, y). For half-block
// scene cells that is the lower pixel.
func backdrop(scr uv.Screen, x, y int) color.Color {
	if c := scr.CellAt(x, y); c != nil {
		return c.Style.Bg
	}
	return nil
}

// wrap breaks s into lines of at most width cells, on spaces where it can.
// Words longer than a line are split.
func wrap(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}
