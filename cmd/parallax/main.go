// parallax - scroll-driven 3D portfolio for the terminal.
//
// Controls:
//
//	Wheel, Up/Down  - Scroll
//	PgUp/PgDn/Space - Scroll a page
//	Home/End        - Jump to the top or bottom
//	1-5             - Jump to a page
//	Mouse           - Camera parallax
//	?               - Toggle HUD overlay (FPS, section, triangle count)
//	Esc, Ctrl+C     - Quit
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fortio.org/log"
	"github.com/charmbracelet/fang"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/parallax/pkg/config"
	"github.com/taigrr/parallax/pkg/content"
	"github.com/taigrr/parallax/pkg/experience"
	"github.com/taigrr/parallax/pkg/frame"
	"github.com/taigrr/parallax/pkg/models"
	"github.com/taigrr/parallax/pkg/section"
)

const (
	wheelStep = 0.15 // Pages per wheel notch
	arrowStep = 0.25 // Pages per arrow key
	heroSize  = 2.0  // Largest dimension of a loaded hero model
)

func main() {
	if err := fang.Execute(context.Background(), rootCmd()); err != nil {
		os.Exit(1)
	}
}

// flags override the environment configuration when set.
type flags struct {
	content  string
	hero     string
	logFile  string
	logLevel string
	fps      int
	stars    int
	noPost   bool
}

func rootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:   "parallax",
		Short: "Scroll through a 3D portfolio in your terminal",
		Long: "parallax renders a scroll-driven 3D portfolio. Scrolling moves the camera\n" +
			"down through the hero, about, projects, skills and contact sections.\n\n" +
			"Every flag has a PARALLAX_* environment variable counterpart.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config(cmd)
			if err != nil {
				return err
			}
			closeLog, err := setupLog(cfg, io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()
			opts, err := options(cfg)
			if err != nil {
				return err
			}
			return run(cmd.Context(), opts, cfg.FPS)
		},
	}

	f.register(root)
	root.AddCommand(stillCmd(&f))
	return root
}

// register adds the shared flags to cmd and its subcommands.
func (f *flags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.content, "content", "", "YAML content file (default: built-in)")
	pf.StringVar(&f.hero, "hero", "", "GLB model to use as the hero object (default: icosphere)")
	pf.StringVar(&f.logFile, "log-file", "", "Append logs to this file")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level (debug, verbose, info, warning, error)")
	pf.IntVar(&f.fps, "fps", 0, "Target frames per second")
	pf.IntVar(&f.stars, "stars", 0, "Number of background stars")
	pf.BoolVar(&f.noPost, "no-post", false, "Disable bloom, grain and vignette")
}

// config loads the environment configuration and applies changed flags.
func (f *flags) config(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	changed := cmd.Flags().Changed
	if changed("content") {
		cfg.Content = f.content
	}
	if changed("hero") {
		cfg.Hero = f.hero
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("fps") {
		cfg.FPS = f.fps
	}
	if changed("stars") {
		cfg.Stars = f.stars
	}
	if changed("no-post") {
		cfg.Effects.Disabled = f.noPost
	}
	return cfg, cfg.Validate()
}

// setupLog points the logger at the configured file, or at fallback when
// there is none. The returned func closes the file.
func setupLog(cfg config.Config, fallback io.Writer) (func(), error) {
	if err := log.SetLogLevelStr(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if cfg.LogFile == "" {
		log.SetOutput(fallback)
		return func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// options loads the content and hero model named by cfg.
func options(cfg config.Config) (experience.Options, error) {
	opts := experience.FromConfig(cfg)
	if cfg.Content != "" {
		doc, err := content.Load(cfg.Content)
		if err != nil {
			return opts, err
		}
		opts.Content = doc
	}
	if cfg.Hero != "" {
		mesh, err := models.LoadGLB(cfg.Hero)
		if err != nil {
			return opts, fmt.Errorf("load hero: %w", err)
		}
		mesh.Fit(heroSize)
		log.Infof("Loaded hero %s: %d vertices, %d triangles", cfg.Hero, mesh.VertexCount(), mesh.TriangleCount())
		opts.Hero = mesh
	}
	return opts, nil
}

func run(ctx context.Context, opts experience.Options, fps int) error {
	app, err := experience.New(opts)
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		log.Warnf("resize terminal: %v", err)
	}
	app.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode
	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			log.Errf("shutdown terminal: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	loop := frame.New(fps)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(ctx) })
	g.Go(func() error { return app.Mount(ctx, loop, term) })
	g.Go(func() error {
		pump(ctx, term.Events(), app, quit)
		return nil
	})
	return g.Wait()
}

// pump feeds terminal events to app until ctx ends or the user quits.
func pump(ctx context.Context, events <-chan uv.Event, app *experience.App, quit func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok || handle(ev, app) {
				quit()
				return
			}
		}
	}
}

// handle applies one event and reports whether it asks to quit.
func handle(ev uv.Event, app *experience.App) bool {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		app.Resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c", "q"):
			return true
		case ev.MatchString("up", "k"):
			app.ScrollBy(-arrowStep)
		case ev.MatchString("down", "j"):
			app.ScrollBy(arrowStep)
		case ev.MatchString("pgup"):
			app.ScrollBy(-1)
		case ev.MatchString("pgdown", "space"):
			app.ScrollBy(1)
		case ev.MatchString("home", "g"):
			app.ScrollTo(0)
		case ev.MatchString("end", "G", "shift+g"):
			app.ScrollTo(1)
		case ev.MatchString("1", "2", "3", "4", "5"):
			app.JumpTo(int(ev.Code - '1'))
		case ev.MatchString("?"), ev.MatchString("shift+/"):
			app.ToggleHUD()
		}

	case uv.MouseMotionEvent:
		app.Pointer(ev.X)

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			app.ScrollBy(-wheelStep)
		case uv.MouseWheelDown:
			app.ScrollBy(wheelStep)
		}
	}
	return false
}

func stillCmd(f *flags) *cobra.Command {
	var (
		offset  float64
		elapsed float64
		out     string
		size    string
		band    string
	)
	cmd := &cobra.Command{
		Use:   "still",
		Short: "Render one frame to a PNG without a terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var w, h int
			if _, err := fmt.Sscanf(size, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
				return fmt.Errorf("size %q must look like 320x180", size)
			}
			cfg, err := f.config(cmd)
			if err != nil {
				return err
			}
			closeLog, err := setupLog(cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()
			opts, err := options(cfg)
			if err != nil {
				return err
			}
			at, err := stillOffset(opts.Sections, band, offset)
			if err != nil {
				return err
			}
			app, err := experience.New(opts)
			if err != nil {
				return err
			}
			if err := app.Still(at, elapsed, w, h).SavePNG(out); err != nil {
				return err
			}
			log.Infof("Wrote %s (%dx%d at offset %.2f)", out, w, h, at)
			return nil
		},
	}
	cmd.Flags().Float64Var(&offset, "offset", 0, "Scroll offset in [0,1]")
	cmd.Flags().Float64Var(&elapsed, "time", 0, "Animation time in seconds")
	cmd.Flags().StringVarP(&out, "out", "o", "parallax.png", "Output PNG path")
	cmd.Flags().StringVar(&size, "size", "320x180", "Image size in pixels, WxH")
	cmd.Flags().StringVar(&band, "section", "", "Render the middle of this section (hero, about, projects, skills) instead of --offset")
	return cmd
}

// stillOffset returns the middle of the named section, or offset when name
// is empty.
func stillOffset(m *section.Model, name string, offset float64) (float64, error) {
	if name == "" {
		if offset < 0 || offset > 1 {
			return 0, errors.New("offset must be in [0,1]")
		}
		return offset, nil
	}
	n, err := section.ParseName(name)
	if err != nil {
		return 0, err
	}
	b, ok := m.Band(n)
	if !ok {
		return 0, fmt.Errorf("section %s is not in the layout", n)
	}
	return b.Start + b.Length/2, nil
}
