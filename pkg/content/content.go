// Package content holds the portfolio text and the project and skill
// entries that the scene and overlay are built from. Content is read once
// at startup from YAML; the built-in document is embedded.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/parallax/pkg/render"
)

//go:embed content.yaml
var defaultYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("content: invalid")

// Category groups skills.
type Category string

const (
	Frontend Category = "frontend"
	Backend  Category = "backend"
	Tools    Category = "tools"
	Creative Category = "creative"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case Frontend, Backend, Tools, Creative:
		return true
	}
	return false
}

// ProjectEntry is one showcased project. Its index in Content.Projects
// decides where its card sits in the scene.
type ProjectEntry struct {
	ID          int      `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tech        []string `yaml:"tech"`
	Color       string   `yaml:"color"` // #rrggbb
}

// RGB returns the parsed accent color, or white if it does not parse.
func (p ProjectEntry) RGB() render.Color {
	c, err := render.ParseHex(p.Color)
	if err != nil {
		return render.RGB(255, 255, 255)
	}
	return c
}

// SkillEntry is one skill orb.
type SkillEntry struct {
	Name     string   `yaml:"name"`
	Level    int      `yaml:"level"` // 0-100
	Category Category `yaml:"category"`
}

// Column is a titled block of text.
type Column struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Link is a labelled URL.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

type Hero struct {
	Eyebrow  string   `yaml:"eyebrow"`
	Greeting string   `yaml:"greeting"`
	Name     string   `yaml:"name"`
	Tagline  string   `yaml:"tagline"`
	Actions  []string `yaml:"actions"`
}

type About struct {
	Title   string   `yaml:"title"`
	Body    string   `yaml:"body"`
	Columns []Column `yaml:"columns"`
}

// Heading is a section title with a one-line subtitle.
type Heading struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
}

type Contact struct {
	Title    string   `yaml:"title"`
	Subtitle string   `yaml:"subtitle"`
	Fields   []string `yaml:"fields"`
	Submit   string   `yaml:"submit"`
	Links    []Link   `yaml:"links"`
}

// Content is the whole document.
type Content struct {
	Brand   string   `yaml:"brand"`
	Loader  string   `yaml:"loader"`
	Nav     []string `yaml:"nav"`
	Hero    Hero     `yaml:"hero"`
	About   About    `yaml:"about"`
	Work    Heading  `yaml:"work"`
	Arsenal Heading  `yaml:"arsenal"`
	Contact Contact  `yaml:"contact"`

	Projects []ProjectEntry `yaml:"projects"`
	Skills   []SkillEntry   `yaml:"skills"`
}

// Default returns the embedded content.
func Default() *Content {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded content: %v", err))
	}
	return c
}

// Load reads and validates a content file.
func Load(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML, rejecting unknown keys, and validates the result.
func Parse(data []byte) (*Content, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Content
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports every problem found, each wrapping ErrInvalid.
func (c *Content) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Brand == "" {
		bad("brand is empty")
	}
	if len(c.Projects) == 0 {
		bad("no projects")
	}
	ids := make(map[int]bool, len(c.Projects))
	for i, p := range c.Projects {
		if p.Title == "" {
			bad("project %d: empty title", i)
		}
		if ids[p.ID] {
			bad("project %d: duplicate id %d", i, p.ID)
		}
		ids[p.ID] = true
		if _, err := render.ParseHex(p.Color); err != nil {
			bad("project %q: %v", p.Title, err)
		}
	}

	names := make(map[string]bool, len(c.Skills))
	for i, s := range c.Skills {
		if s.Name == "" {
			bad("skill %d: empty name", i)
		}
		if names[s.Name] {
			bad("skill %q: duplicate", s.Name)
		}
		names[s.Name] = true
		if s.Level < 0 || s.Level > 100 {
			bad("skill %q: level %d outside 0-100", s.Name, s.Level)
		}
		if !s.Category.Valid() {
			bad("skill %q: unknown category %q", s.Name, s.Category)
		}
	}
	return errors.Join(errs...)
}
