// Package section partitions the normalized scroll domain [0,1] into named,
// contiguous bands, one per narrative page of the presentation.
package section

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/parallax/pkg/math3d"
)

// Name identifies a band.
type Name int

const (
	Hero     Name = iota // Landing page
	About                // Biography
	Projects             // Project cards
	Skills               // Skills cloud, followed by the contact page
)

var names = [...]string{"hero", "about", "projects", "skills"}

func (n Name) String() string {
	if n < 0 || int(n) >= len(names) {
		return fmt.Sprintf("section(%d)", int(n))
	}
	return names[n]
}

// ParseName maps a band name back to its Name.
func ParseName(s string) (Name, error) {
	for i, n := range names {
		if n == s {
			return Name(i), nil
		}
	}
	return 0, fmt.Errorf("unknown section %q", s)
}

// Configuration errors reported by New.
var (
	ErrNoBands       = errors.New("section: no bands")
	ErrZeroLength    = errors.New("section: band length must be positive")
	ErrNotContiguous = errors.New("section: bands must be contiguous and cover [0,1]")
	ErrDuplicate     = errors.New("section: duplicate band name")
	ErrPages         = errors.New("section: page count must be at least 1")
)

// tolerance absorbs float error when bands are written as fractions like 1/3.
const tolerance = 1e-9

// Band is a named sub-range [Start, Start+Length) of the scroll domain.
type Band struct {
	Name   Name
	Start  float64
	Length float64
}

// End returns Start + Length.
func (b Band) End() float64 {
	return b.Start + b.Length
}

// Progress returns the band-local progress of offset, clamped to [0,1].
// It is 0 at or before Start and 1 at or after End.
func (b Band) Progress(offset float64) float64 {
	return math3d.Clamp((offset-b.Start)/b.Length, 0, 1)
}

// Model is an immutable, validated set of bands. Bands are defined once at
// startup; the zero Model is not usable, construct one with New or Default.
type Model struct {
	pages int
	bands []Band
}

// New validates bands and returns a Model. Bands must be given in order, start
// at 0, end at 1, abut each other and have positive length.
func New(pages int, bands ...Band) (*Model, error) {
	if pages < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrPages, pages)
	}
	if len(bands) == 0 {
		return nil, ErrNoBands
	}

	seen := make(map[Name]bool, len(bands))
	cursor := 0.0
	for i, b := range bands {
		if !(b.Length > 0) {
			return nil, fmt.Errorf("%w: %s has length %v", ErrZeroLength, b.Name, b.Length)
		}
		if seen[b.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, b.Name)
		}
		seen[b.Name] = true
		if math.Abs(b.Start-cursor) > tolerance {
			return nil, fmt.Errorf("%w: band %d (%s) starts at %v, expected %v", ErrNotContiguous, i, b.Name, b.Start, cursor)
		}
		cursor = b.End()
	}
	if math.Abs(cursor-1) > tolerance {
		return nil, fmt.Errorf("%w: bands end at %v", ErrNotContiguous, cursor)
	}

	m := &Model{pages: pages, bands: make([]Band, len(bands))}
	copy(m.bands, bands)
	return m, nil
}

// Default returns the presentation's layout: six pages of scroll, split into
// four equal bands.
func Default() *Model {
	m, err := New(6,
		Band{Name: Hero, Start: 0, Length: 0.25},
		Band{Name: About, Start: 0.25, Length: 0.25},
		Band{Name: Projects, Start: 0.5, Length: 0.25},
		Band{Name: Skills, Start: 0.75, Length: 0.25},
	)
	if err != nil {
		panic(err)
	}
	return m
}

// Pages returns the total scrollable extent in page heights.
func (m *Model) Pages() int {
	return m.pages
}

// Bands returns a copy of the bands in order.
func (m *Model) Bands() []Band {
	out := make([]Band, len(m.bands))
	copy(out, m.bands)
	return out
}

// Band returns the band with the given name.
func (m *Model) Band(name Name) (Band, bool) {
	for _, b := range m.bands {
		if b.Name == name {
			return b, true
		}
	}
	return Band{}, false
}

// Progress returns the local progress of offset within the named band. Unknown
// names report 0.
func (m *Model) Progress(name Name, offset float64) float64 {
	b, ok := m.Band(name)
	if !ok {
		return 0
	}
	return b.Progress(offset)
}

// Active returns the band containing offset. Offsets are clamped first, and
// offset 1 belongs to the last band.
func (m *Model) Active(offset float64) Band {
	offset = math3d.Clamp(offset, 0, 1)
	for _, b := range m.bands {
		if offset < b.End() {
			return b
		}
	}
	return m.bands[len(m.bands)-1]
}
