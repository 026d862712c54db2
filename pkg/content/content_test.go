package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/parallax/pkg/render"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "ABHINAY", c.Brand)
	require.Len(t, c.Projects, 4)
	require.Len(t, c.Skills, 8)
	assert.Equal(t, "Neon Nexus", c.Projects[0].Title)
	assert.Equal(t, render.RGB(0x06, 0xb6, 0xd4), c.Projects[0].RGB())
	assert.Equal(t, Creative, c.Skills[2].Category)
	assert.Equal(t, "TECH ARSENAL", c.Arsenal.Title)
	assert.NotContains(t, c.Hero.Tagline, "\n")
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("brand: X\nprojects: []\nbogus: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Content)
		want   string
	}{
		{"empty brand", func(c *Content) { c.Brand = "" }, "brand"},
		{"no projects", func(c *Content) { c.Projects = nil }, "no projects"},
		{"bad color", func(c *Content) { c.Projects[1].Color = "purple" }, "Aether Lens"},
		{"duplicate id", func(c *Content) { c.Projects[2].ID = 1 }, "duplicate id"},
		{"level", func(c *Content) { c.Skills[0].Level = 101 }, "outside 0-100"},
		{"category", func(c *Content) { c.Skills[3].Category = "devops" }, "unknown category"},
		{"duplicate skill", func(c *Content) { c.Skills[1].Name = "React" }, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	c := Default()
	c.Brand = ""
	c.Skills[0].Level = -1
	err := c.Validate()
	require.Error(t, err)
	assert.Equal(t, 2, strings.Count(err.Error(), "content: invalid"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
brand: TEST
projects:
  - {id: 7, title: Solo, color: "#fff"}
skills:
  - {name: Go, level: 99, category: tools}
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "TEST", c.Brand)
	assert.Equal(t, render.RGB(255, 255, 255), c.Projects[0].RGB())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
