package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout(t *testing.T) {
	m := Default()
	require.Equal(t, 6, m.Pages())

	bands := m.Bands()
	require.Len(t, bands, 4)
	assert.Equal(t, Hero, bands[0].Name)
	assert.Equal(t, Skills, bands[3].Name)
	assert.InDelta(t, 1.0, bands[3].End(), 1e-12)
}

func TestProgressMonotonicAndClamped(t *testing.T) {
	m := Default()

	for _, b := range m.Bands() {
		t.Run(b.Name.String(), func(t *testing.T) {
			prev := -1.0
			for i := 0; i <= 1000; i++ {
				offset := float64(i) / 1000
				p := m.Progress(b.Name, offset)

				assert.GreaterOrEqual(t, p, prev, "progress decreased at offset %v", offset)
				prev = p

				if offset <= b.Start {
					assert.Equal(t, 0.0, p, "offset %v before band", offset)
				}
				if offset >= b.End() {
					assert.Equal(t, 1.0, p, "offset %v after band", offset)
				}
			}
		})
	}
}

func TestProgressMidpoint(t *testing.T) {
	m := Default()
	assert.InDelta(t, 0.5, m.Progress(About, 0.375), 1e-12)
	assert.InDelta(t, 0.0, m.Progress(Skills, 0.2), 1e-12)
}

func TestActive(t *testing.T) {
	m := Default()

	tests := []struct {
		offset   float64
		expected Name
	}{
		{-0.5, Hero},
		{0, Hero},
		{0.2499, Hero},
		{0.25, About},
		{0.6, Projects},
		{0.99, Skills},
		{1, Skills},
		{7, Skills},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, m.Active(tc.offset).Name, "offset %v", tc.offset)
	}
}

func TestNewRejectsBadConfiguration(t *testing.T) {
	tests := []struct {
		name  string
		pages int
		bands []Band
		err   error
	}{
		{"no pages", 0, []Band{{Hero, 0, 1}}, ErrPages},
		{"no bands", 6, nil, ErrNoBands},
		{"zero length", 6, []Band{{Hero, 0, 0}, {About, 0, 1}}, ErrZeroLength},
		{"negative length", 6, []Band{{Hero, 0, -1}}, ErrZeroLength},
		{"gap", 6, []Band{{Hero, 0, 0.4}, {About, 0.5, 0.5}}, ErrNotContiguous},
		{"overlap", 6, []Band{{Hero, 0, 0.6}, {About, 0.5, 0.5}}, ErrNotContiguous},
		{"short of one", 6, []Band{{Hero, 0, 0.5}, {About, 0.5, 0.4}}, ErrNotContiguous},
		{"late start", 6, []Band{{Hero, 0.1, 0.9}}, ErrNotContiguous},
		{"duplicate", 6, []Band{{Hero, 0, 0.5}, {Hero, 0.5, 0.5}}, ErrDuplicate},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.pages, tc.bands...)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestNewAcceptsThirds(t *testing.T) {
	_, err := New(3,
		Band{Name: Hero, Start: 0, Length: 1.0 / 3},
		Band{Name: About, Start: 1.0 / 3, Length: 1.0 / 3},
		Band{Name: Projects, Start: 2.0 / 3, Length: 1.0 / 3},
	)
	require.NoError(t, err)
}

func TestParseName(t *testing.T) {
	for _, n := range []Name{Hero, About, Projects, Skills} {
		got, err := ParseName(n.String())
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}

	_, err := ParseName("footer")
	assert.Error(t, err)
}
