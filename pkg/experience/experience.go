// Package experience runs the presentation. Each frame tick advances the
// scroll surface, moves the camera, animates the scene, renders it and lays
// the page text over the result.
package experience

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"fortio.org/log"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/parallax/pkg/choreo"
	"github.com/taigrr/parallax/pkg/config"
	"github.com/taigrr/parallax/pkg/content"
	"github.com/taigrr/parallax/pkg/frame"
	"github.com/taigrr/parallax/pkg/math3d"
	"github.com/taigrr/parallax/pkg/models"
	"github.com/taigrr/parallax/pkg/overlay"
	"github.com/taigrr/parallax/pkg/pipeline"
	"github.com/taigrr/parallax/pkg/post"
	"github.com/taigrr/parallax/pkg/render"
	"github.com/taigrr/parallax/pkg/scene"
	"github.com/taigrr/parallax/pkg/scroll"
	"github.com/taigrr/parallax/pkg/section"
)

// SettleWindow is how many seconds the camera gets to catch up with a jump
// from one section to another.
const SettleWindow = 1.0

// Options configures an App. Nil Content and Sections, and a zero Layout,
// Rig or Background fall back to DefaultOptions. A zero Post draws without
// effects and a zero LoaderDelay skips the loader.
type Options struct {
	Content     *content.Content
	Sections    *section.Model
	Layout      scene.Layout
	Rig         choreo.Rig
	Scroll      scroll.Options // Pages is always taken from Sections
	Post        post.Settings
	Background  render.Color
	Hero        *models.Mesh // nil draws the built-in icosphere
	LoaderDelay time.Duration
}

// DefaultOptions returns the stock presentation.
func DefaultOptions() Options {
	return Options{
		Content:     content.Default(),
		Sections:    section.Default(),
		Layout:      scene.DefaultLayout(),
		Rig:         choreo.DefaultRig(),
		Scroll:      scroll.DefaultOptions(),
		Post:        post.DefaultSettings(),
		Background:  scene.Background,
		LoaderDelay: 1500 * time.Millisecond,
	}
}

// FromConfig applies cfg on top of DefaultOptions.
func FromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	opts.Layout = cfg.Layout()
	opts.Post = cfg.Post()
	opts.Background = cfg.BackgroundColor()
	opts.LoaderDelay = cfg.LoaderDelay
	return opts
}

// Frame is the per-tick context passed down the presentation. Nothing
// below the App reads global state.
type Frame struct {
	Tick     frame.Tick
	Offset   float64 // Smoothed scroll offset in [0,1]
	PointerX float64 // Normalized pointer X in [-1,1]
	Band     section.Band
	Progress float64 // Progress through Band in [0,1]
	Loading  bool
}

// Display is a screen that can be flushed and resized. uv.Terminal
// satisfies it.
type Display interface {
	uv.Screen
	Display() error
	Resize(width, height int) error
}

// input is written by event handlers and read once per tick.
type input struct {
	pointerX      float64
	cols, rows    int
	resized       bool
	hudToggles    int
	pointerActive bool
}

// App owns every piece of the presentation. Input methods are safe to call
// from any goroutine; everything else runs on the frame loop.
type App struct {
	opts     Options
	controls *scroll.Controls
	camera   *render.Camera
	choreo   *choreo.Choreographer
	scene    *scene.Scene
	pipe     *pipeline.Pipeline
	overlay  *overlay.Overlay
	hud      *overlay.HUD

	mu sync.Mutex
	in input

	// Loop goroutine only.
	pointerX float64
	live     bool
}

// New assembles the scene and wires the camera to the scroll surface.
func New(opts Options) (*App, error) {
	def := DefaultOptions()
	if opts.Content == nil {
		opts.Content = def.Content
	}
	if opts.Sections == nil {
		opts.Sections = def.Sections
	}
	if opts.Layout == (scene.Layout{}) {
		opts.Layout = def.Layout
	}
	if opts.Rig == (choreo.Rig{}) {
		opts.Rig = def.Rig
	}
	if opts.Background == (render.Color{}) {
		opts.Background = def.Background
	}
	if err := opts.Rig.Validate(SettleWindow); err != nil {
		return nil, fmt.Errorf("experience: %w", err)
	}

	// Cards close up to make room for extra projects.
	opts.Layout = opts.Layout.Respace(len(opts.Content.Projects))
	s, err := scene.Assemble(opts.Content, opts.Layout, opts.Rig, opts.Hero)
	if err != nil {
		return nil, fmt.Errorf("experience: %w", err)
	}
	s.Background = opts.Background

	opts.Scroll.Pages = opts.Sections.Pages()
	cam := render.NewCamera()
	ch := choreo.New(opts.Rig)
	ch.Bind(cam)
	ch.Snap(0, 0)

	a := &App{
		opts:     opts,
		controls: scroll.NewControls(opts.Scroll),
		camera:   cam,
		choreo:   ch,
		scene:    s,
		pipe:     pipeline.New(cam, opts.Sections, post.NewChain(opts.Post), 0, 0),
		overlay:  overlay.New(opts.Content, opts.Sections.Pages()),
		hud:      overlay.NewHUD(),
	}
	return a, nil
}

// Scene returns the assembled scene.
func (a *App) Scene() *scene.Scene {
	return a.scene
}

// Controls returns the scroll surface.
func (a *App) Controls() *scroll.Controls {
	return a.controls
}

// ScrollBy moves the scroll target by pages page heights.
func (a *App) ScrollBy(pages float64) {
	a.controls.ScrollBy(pages)
}

// ScrollTo sets the scroll target offset.
func (a *App) ScrollTo(offset float64) {
	a.controls.ScrollTo(offset)
}

// JumpTo scrolls to the top of text page k.
func (a *App) JumpTo(k int) {
	a.controls.ScrollTo(a.overlay.PageOffset(k))
}

// Pointer records the pointer column. The left edge maps to -1 and the
// right edge to 1.
func (a *App) Pointer(col int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.in.cols <= 1 {
		a.in.pointerX = 0
		return
	}
	a.in.pointerX = math3d.Clamp(math3d.MapLinear(float64(col), 0, float64(a.in.cols-1), -1, 1), -1, 1)
	a.in.pointerActive = true
}

// Resize records a new terminal size; the display is resized on the next
// tick.
func (a *App) Resize(cols, rows int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.in.cols, a.in.rows = cols, rows
	a.in.resized = true
}

// ToggleHUD flips the HUD on the next tick.
func (a *App) ToggleHUD() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.in.hudToggles++
}

// snapshot returns the pending input and clears the one-shot parts.
func (a *App) snapshot() input {
	a.mu.Lock()
	defer a.mu.Unlock()
	in := a.in
	a.in.resized = false
	a.in.hudToggles = 0
	return in
}

// Update advances the presentation by one tick.
func (a *App) Update(t frame.Tick) Frame {
	return a.step(t, a.snapshot())
}

func (a *App) step(t frame.Tick, in input) Frame {
	if in.hudToggles%2 == 1 {
		a.hud.Visible = !a.hud.Visible
	}
	if in.pointerActive {
		a.pointerX = in.pointerX
	}
	a.controls.Update(t.Delta)
	return a.advance(t, a.controls)
}

// advance moves the camera and the scene to the offset of st.
func (a *App) advance(t frame.Tick, st scroll.State) Frame {
	offset := st.Offset()
	a.choreo.Update(choreo.Frame{Offset: offset, PointerX: a.pointerX, Delta: t.Delta})
	a.scene.Animate(scene.Tick{Elapsed: t.Elapsed, Delta: t.Delta})

	band := a.opts.Sections.Active(offset)
	return Frame{
		Tick:     t,
		Offset:   offset,
		PointerX: a.pointerX,
		Band:     band,
		Progress: a.opts.Sections.Progress(band.Name, offset),
	}
}

// Draw renders f into scr. The 3D frame fills the screen with two pixels
// per cell; labels, page text, the header and the HUD go on top in that
// order.
func (a *App) Draw(scr uv.Screen, f Frame) {
	area := scr.Bounds()
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return
	}
	a.pipe.Resize(area.Dx(), area.Dy()*2)
	fb := a.pipe.Framebuffer()

	if f.Loading {
		fb.Clear(a.opts.Background)
		fb.Draw(scr, area)
		a.overlay.Loader(scr, area, f.Tick.Elapsed)
		return
	}

	labels := a.pipe.Render(a.scene, pipeline.Frame{Offset: f.Offset})
	fb.Draw(scr, area)
	a.overlay.Labels(scr, area, labels)
	a.overlay.Draw(scr, area, scroll.Fixed(f.Offset))
	a.overlay.Header(scr, area, f.Offset)

	a.hud.Tick(f.Tick.Now)
	a.hud.Draw(scr, area, overlay.Status{
		Offset:   f.Offset,
		Section:  f.Band.Name.String(),
		Progress: f.Progress,
		Stats:    a.pipe.Stats(),
	})
}

// present runs one tick against d: apply a pending resize, update unless
// loading, draw and flush.
func (a *App) present(d Display, t frame.Tick, loading bool) {
	in := a.snapshot()
	if in.resized {
		if err := d.Resize(in.cols, in.rows); err != nil {
			log.Errf("resize display to %dx%d: %v", in.cols, in.rows, err)
		}
	}

	f := Frame{Tick: t, Loading: true}
	if !loading {
		f = a.step(t, in)
	}
	a.Draw(d, f)
	if err := d.Display(); err != nil {
		log.Errf("display: %v", err)
	}
}

// Mount shows the loader on loop for the loading delay, then drives the
// scene until ctx is done. Its subscription is closed before it returns,
// including when ctx ends during the delay.
func (a *App) Mount(ctx context.Context, loop *frame.Loop, d Display) error {
	var ready atomic.Bool
	sub := loop.Subscribe(func(t frame.Tick) {
		if !ready.Load() {
			a.present(d, t, true)
			return
		}
		if !a.live {
			// Scrolling done while loading lands at once, and the camera
			// starts settled on the first scene tick.
			a.live = true
			a.controls.Snap(a.controls.Target())
			a.choreo.Snap(a.controls.Offset(), a.pointerX)
			log.Infof("Mounted scene: %d nodes, %d projects, %d skills",
				len(a.scene.Nodes), len(a.scene.ProjectCards), len(a.scene.SkillOrbs))
		}
		a.present(d, t, false)
	})
	defer sub.Close()

	if a.opts.LoaderDelay > 0 {
		timer := time.NewTimer(a.opts.LoaderDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			log.Infof("Unmounted while loading")
			return nil
		case <-timer.C:
		}
	}
	ready.Store(true)

	<-ctx.Done()
	return nil
}

// Still renders one frame at offset and elapsed seconds into a w x h pixel
// framebuffer, with the camera already settled. The scroll surface is left
// alone.
func (a *App) Still(offset, elapsed float64, w, h int) *render.Framebuffer {
	st := scroll.Fixed(offset)
	a.choreo.Snap(st.Offset(), 0)
	f := a.advance(frame.Tick{Elapsed: elapsed}, st)
	a.pipe.Resize(w, h)
	a.pipe.Render(a.scene, pipeline.Frame{Offset: f.Offset})
	return a.pipe.Framebuffer()
}
