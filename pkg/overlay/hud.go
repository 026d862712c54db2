package overlay

import (
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mattn/go-runewidth"

	"github.com/taigrr/parallax/pkg/render"
)

// HUD shows frame timing and render counters on the bottom row.
type HUD struct {
	Visible bool

	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a hidden HUD.
func NewHUD() *HUD {
	return &HUD{fpsTime: time.Now()}
}

// Tick counts a frame; call it once per frame with the frame's time.
func (h *HUD) Tick(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// FPS returns the rate measured over the last full second.
func (h *HUD) FPS() float64 {
	return h.fps
}

// Status is what the HUD reports besides the frame rate.
type Status struct {
	Offset   float64
	Section  string
	Progress float64 // Progress through Section in [0,1]
	Stats    render.Stats
}

// Draw renders the HUD on the last row of area when visible.
func (h *HUD) Draw(scr uv.Screen, area uv.Rectangle, st Status) {
	if !h.Visible || area.Dy() <= 0 {
		return
	}
	y := area.Max.Y - 1
	x := put(scr, area, area.Min.X+1, y, fmt.Sprintf(" %.0f FPS ", h.fps), solid(render.RGB(74, 222, 128), uv.AttrBold))
	x = put(scr, area, x+1, y, fmt.Sprintf("%3.0f%% %s (%.0f%%)", st.Offset*100, st.Section, st.Progress*100), solid(white, 0))
	put(scr, area, x+2, y, fmt.Sprintf("%d tris  %d/%d culled", st.Stats.Triangles, st.Stats.MeshesCulled, st.Stats.MeshesTested), solid(cyan, 0))

	hint := "wheel/↑↓ scroll  1-5 jump  ? hud  esc quit"
	put(scr, area, area.Max.X-runewidth.StringWidth(hint)-1, y, hint, solid(dim, uv.AttrFaint))
}
