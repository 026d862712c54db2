// Package scroll provides the normalized scroll position that drives the
// presentation, along with helpers for mapping sub-ranges of it.
package scroll

import (
	"math"
	"sync"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/parallax/pkg/math3d"
)

// State is the read side of a scroll surface: a normalized offset in [0,1]
// plus range helpers. The frame loop and the overlay only read through it.
type State interface {
	Offset() float64
	Curve(from, distance float64) float64
	Visible(from, distance float64) bool
}

// Range maps offset to local progress within [from, from+distance], clamped
// to [0,1]. A zero distance degenerates to a step at from.
func Range(offset, from, distance float64) float64 {
	if distance <= 0 {
		if offset < from {
			return 0
		}
		return 1
	}
	return math3d.Clamp((offset-from)/distance, 0, 1)
}

// Curve is 0 at both ends of the range and 1 at its middle.
func Curve(offset, from, distance float64) float64 {
	return math.Sin(Range(offset, from, distance) * math.Pi)
}

// Visible reports whether offset lies inside [from, from+distance].
func Visible(offset, from, distance float64) bool {
	return offset >= from && offset <= from+distance
}

// Options tune the spring that smooths raw input into the offset.
type Options struct {
	Pages     int     // Total scrollable extent in page heights
	Frequency float64 // Spring angular frequency; higher follows input faster
	Damping   float64 // Spring damping ratio; 1 is critically damped
}

// DefaultOptions matches the presentation: six pages, critically damped.
func DefaultOptions() Options {
	return Options{
		Pages:     6,
		Frequency: 6.0,
		Damping:   1.0,
	}
}

// Controls is a scroll surface driven by wheel, key and jump input. Input
// methods may be called from the event goroutine; Update and the read
// methods are called from the frame loop.
type Controls struct {
	mu sync.Mutex

	opts     Options
	target   float64 // Where input wants the offset to be
	offset   float64 // Smoothed offset
	velocity float64 // Spring velocity
}

// NewControls creates a scroll surface at offset 0.
func NewControls(opts Options) *Controls {
	if opts.Pages < 2 {
		opts.Pages = 2
	}
	if opts.Frequency <= 0 {
		opts.Frequency = DefaultOptions().Frequency
	}
	if opts.Damping <= 0 {
		opts.Damping = DefaultOptions().Damping
	}
	return &Controls{opts: opts}
}

// Pages returns the scrollable extent in page heights.
func (c *Controls) Pages() int {
	return c.opts.Pages
}

// ScrollBy moves the target by the given number of page heights. One page is
// 1/(Pages-1) of the offset domain, since the last page is fully visible at 1.
func (c *Controls) ScrollBy(pages float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = math3d.Clamp(c.target+pages/float64(c.opts.Pages-1), 0, 1)
}

// ScrollTo sets the target offset. The offset itself eases toward it.
func (c *Controls) ScrollTo(offset float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = math3d.Clamp(offset, 0, 1)
}

// Snap moves both target and offset immediately, discarding velocity.
func (c *Controls) Snap(offset float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	offset = math3d.Clamp(offset, 0, 1)
	c.target, c.offset, c.velocity = offset, offset, 0
}

// Update advances the spring by delta seconds.
func (c *Controls) Update(delta float64) {
	if !(delta > 0) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// The spring is rebuilt each tick so variable frame times stay correct.
	spring := harmonica.NewSpring(delta, c.opts.Frequency, c.opts.Damping)
	c.offset, c.velocity = spring.Update(c.offset, c.velocity, c.target)
	c.offset = math3d.Clamp(c.offset, 0, 1)
}

// Offset returns the smoothed scroll offset in [0,1].
func (c *Controls) Offset() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// Target returns the offset input is heading toward.
func (c *Controls) Target() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Curve implements State.
func (c *Controls) Curve(from, distance float64) float64 {
	return Curve(c.Offset(), from, distance)
}

// Visible implements State.
func (c *Controls) Visible(from, distance float64) bool {
	return Visible(c.Offset(), from, distance)
}

// Fixed is a State pinned to one offset. Stills render through it and each
// drawn frame hands the overlay one.
type Fixed float64

// Offset implements State.
func (f Fixed) Offset() float64 {
	return math3d.Clamp(float64(f), 0, 1)
}

// Curve implements State.
func (f Fixed) Curve(from, distance float64) float64 {
	return Curve(f.Offset(), from, distance)
}

// Visible implements State.
func (f Fixed) Visible(from, distance float64) bool {
	return Visible(f.Offset(), from, distance)
}
