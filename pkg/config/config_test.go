package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/parallax/pkg/post"
	"github.com/taigrr/parallax/pkg/scene"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, 1500, cfg.Stars)
	assert.Equal(t, 1500*time.Millisecond, cfg.LoaderDelay)
	assert.Equal(t, post.DefaultSettings(), cfg.Post())
	assert.Equal(t, scene.Background, cfg.BackgroundColor())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PARALLAX_FPS", "60")
	t.Setenv("PARALLAX_STARS", "200")
	t.Setenv("PARALLAX_POST_BLOOM_INTENSITY", "2")
	t.Setenv("PARALLAX_BACKGROUND", "#102030")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, 200, cfg.Layout().Stars.Count)
	assert.Equal(t, 2.0, cfg.Post().BloomIntensity)
	assert.Equal(t, uint8(0x20), cfg.BackgroundColor().G)
}

func TestLoadRejectsGarbage(t *testing.T) {
	t.Setenv("PARALLAX_FPS", "fast")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	base, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"bad background", func(c *Config) { c.Background = "teal" }},
		{"negative stars", func(c *Config) { c.Stars = -1 }},
		{"threshold above one", func(c *Config) { c.Effects.BloomThreshold = 1.5 }},
		{"grain above one", func(c *Config) { c.Effects.GrainOpacity = 2 }},
		{"negative delay", func(c *Config) { c.LoaderDelay = -time.Second }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.edit(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestDisabledEffects(t *testing.T) {
	t.Setenv("PARALLAX_POST_DISABLED", "true")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, post.NewChain(cfg.Post()))
}
