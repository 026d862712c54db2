// Package config holds the runtime settings. Values come from PARALLAX_*
// environment variables and may then be overridden by command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taigrr/parallax/pkg/post"
	"github.com/taigrr/parallax/pkg/render"
	"github.com/taigrr/parallax/pkg/scene"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Effects are the post-processing parameters.
type Effects struct {
	Disabled       bool    `env:"DISABLED"`
	BloomThreshold float64 `env:"BLOOM_THRESHOLD" envDefault:"0.75"`
	BloomIntensity float64 `env:"BLOOM_INTENSITY" envDefault:"1.5"`
	BloomRadius    float64 `env:"BLOOM_RADIUS"    envDefault:"0.4"`
	GrainOpacity   float64 `env:"GRAIN_OPACITY"   envDefault:"0.05"`
	VignetteOffset float64 `env:"VIGNETTE_OFFSET" envDefault:"0.1"`
	VignetteDark   float64 `env:"VIGNETTE_DARKNESS" envDefault:"1.1"`
}

// Config is the full runtime configuration.
type Config struct {
	FPS         int           `env:"PARALLAX_FPS"          envDefault:"30"`
	Background  string        `env:"PARALLAX_BACKGROUND"   envDefault:"#050505"`
	Content     string        `env:"PARALLAX_CONTENT"`
	Hero        string        `env:"PARALLAX_HERO"`
	LogFile     string        `env:"PARALLAX_LOG_FILE"`
	LogLevel    string        `env:"PARALLAX_LOG_LEVEL"    envDefault:"info"`
	Stars       int           `env:"PARALLAX_STARS"        envDefault:"1500"`
	Seed        uint64        `env:"PARALLAX_SEED"         envDefault:"1"`
	LoaderDelay time.Duration `env:"PARALLAX_LOADER_DELAY" envDefault:"1.5s"`
	Effects     Effects       `envPrefix:"PARALLAX_POST_"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range setting.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}
	if c.FPS <= 0 || c.FPS > 240 {
		bad("fps %d must be in 1..240", c.FPS)
	}
	if _, err := render.ParseHex(c.Background); err != nil {
		bad("background: %v", err)
	}
	if c.Stars < 0 {
		bad("stars %d must not be negative", c.Stars)
	}
	if c.LoaderDelay < 0 {
		bad("loader delay %v must not be negative", c.LoaderDelay)
	}
	e := c.Effects
	if e.BloomThreshold < 0 || e.BloomThreshold > 1 {
		bad("bloom threshold %v must be in [0,1]", e.BloomThreshold)
	}
	if e.BloomIntensity < 0 || e.BloomRadius < 0 {
		bad("bloom intensity %v and radius %v must not be negative", e.BloomIntensity, e.BloomRadius)
	}
	if e.GrainOpacity < 0 || e.GrainOpacity > 1 {
		bad("grain opacity %v must be in [0,1]", e.GrainOpacity)
	}
	if e.VignetteDark < 0 {
		bad("vignette darkness %v must not be negative", e.VignetteDark)
	}
	return errors.Join(errs...)
}

// Post returns the effect settings, all zero when effects are disabled.
func (c Config) Post() post.Settings {
	if c.Effects.Disabled {
		return post.Settings{}
	}
	e := c.Effects
	return post.Settings{
		BloomThreshold: e.BloomThreshold,
		BloomIntensity: e.BloomIntensity,
		BloomRadius:    e.BloomRadius,
		GrainOpacity:   e.GrainOpacity,
		VignetteOffset: e.VignetteOffset,
		VignetteDark:   e.VignetteDark,
	}
}

// Layout returns the scene layout with the configured star field.
func (c Config) Layout() scene.Layout {
	l := scene.DefaultLayout()
	l.Stars.Count = c.Stars
	l.Stars.Seed = c.Seed
	return l
}

// BackgroundColor returns the parsed background. Call Validate first.
func (c Config) BackgroundColor() render.Color {
	bg, err := render.ParseHex(c.Background)
	if err != nil {
		return scene.Background
	}
	return bg
}
