// Package post applies the fixed screen-space effect chain (bloom, film
// grain, vignette) to a rendered framebuffer.
package post

import (
	"image"
	"math"

	"fortio.org/log"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/noise"

	"github.com/taigrr/parallax/pkg/math3d"
	"github.com/taigrr/parallax/pkg/render"
)

// Effect rewrites a framebuffer in place.
type Effect interface {
	Apply(fb *render.Framebuffer)
}

// Chain applies effects in order.
type Chain []Effect

func (c Chain) Apply(fb *render.Framebuffer) {
	for _, e := range c {
		e.Apply(fb)
	}
}

// Settings are the static effect parameters.
type Settings struct {
	BloomThreshold float64
	BloomIntensity float64
	BloomRadius    float64
	GrainOpacity   float64
	VignetteOffset float64
	VignetteDark   float64
}

// DefaultSettings returns the tuned look.
func DefaultSettings() Settings {
	return Settings{
		BloomThreshold: 0.75,
		BloomIntensity: 1.5,
		BloomRadius:    0.4,
		GrainOpacity:   0.05,
		VignetteOffset: 0.1,
		VignetteDark:   1.1,
	}
}

// NewChain builds bloom, grain and vignette from s. Effects with a zero
// strength are left out.
func NewChain(s Settings) Chain {
	var c Chain
	if s.BloomIntensity > 0 {
		c = append(c, &Bloom{Threshold: s.BloomThreshold, Intensity: s.BloomIntensity, Radius: s.BloomRadius})
	}
	if s.GrainOpacity > 0 {
		c = append(c, &Grain{Opacity: s.GrainOpacity})
	}
	if s.VignetteDark > 0 {
		c = append(c, Vignette{Offset: s.VignetteOffset, Darkness: s.VignetteDark})
	}
	return c
}

func load(fb *render.Framebuffer, img *image.RGBA) {
	if err := fb.CopyFrom(img); err != nil {
		log.Errf("post: %v", err)
	}
}

// smoothing is the width of the bloom threshold's soft knee.
const smoothing = 0.025

// Bloom adds a blurred copy of the frame's bright parts back onto it.
type Bloom struct {
	Threshold float64 // Luminance in [0,1] where glow starts
	Intensity float64
	Radius    float64 // Blur radius as a fraction of an eighth of the short side
}

// pixelRadius converts Radius to a blur radius in pixels for a w x h frame.
func (b *Bloom) pixelRadius(w, h int) float64 {
	return math.Max(1, b.Radius*float64(min(w, h))/8)
}

func (b *Bloom) Apply(fb *render.Framebuffer) {
	if fb.Width == 0 || fb.Height == 0 {
		return
	}
	bright := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	lit := false
	for i, p := range fb.Pixels {
		w := math3d.SmoothStep(b.Threshold, b.Threshold+smoothing, render.Luminance(p))
		if w == 0 {
			bright.Pix[4*i+3] = 255
			continue
		}
		lit = true
		q := render.MultiplyColor(p, w)
		bright.Pix[4*i], bright.Pix[4*i+1], bright.Pix[4*i+2], bright.Pix[4*i+3] = q.R, q.G, q.B, 255
	}
	if !lit {
		return
	}

	glow := blur.Gaussian(bright, b.pixelRadius(fb.Width, fb.Height))
	for i := 0; i < len(glow.Pix); i += 4 {
		for c := range 3 {
			glow.Pix[i+c] = uint8(math.Min(255, float64(glow.Pix[i+c])*b.Intensity))
		}
		glow.Pix[i+3] = 255
	}
	load(fb, blend.Add(fb.ToImage(), glow))
}

// Grain overlays film noise. A noise tile is generated once per frame size
// and scrolled from frame to frame.
type Grain struct {
	Opacity float64

	tile  *image.RGBA
	frame int
}

func (g *Grain) noise(w, h int) *image.RGBA {
	tw, th := 2*w, 2*h
	if g.tile == nil || g.tile.Bounds().Dx() != tw || g.tile.Bounds().Dy() != th {
		g.tile = noise.Generate(tw, th, &noise.Options{NoiseFn: noise.Gaussian, Monochrome: true})
	}
	g.frame++
	dx := (g.frame * 7) % w
	dy := (g.frame * 13) % h
	return g.tile.SubImage(image.Rect(dx, dy, dx+w, dy+h)).(*image.RGBA)
}

func (g *Grain) Apply(fb *render.Framebuffer) {
	if fb.Width == 0 || fb.Height == 0 {
		return
	}
	base := fb.ToImage()
	grained := blend.Overlay(base, g.noise(fb.Width, fb.Height))
	load(fb, blend.Opacity(base, grained, g.Opacity))
}

// Vignette darkens the frame towards its corners.
type Vignette struct {
	Offset   float64
	Darkness float64
}

// Factor returns the brightness multiplier at normalized coordinates
// (x, y) in [0,1].
func (v Vignette) Factor(x, y float64) float64 {
	d := math.Hypot(x-0.5, y-0.5)
	return math3d.SmoothStep(0.8, v.Offset*0.799, d*(v.Darkness+v.Offset))
}

func (v Vignette) Apply(fb *render.Framebuffer) {
	for y := range fb.Height {
		fy := (float64(y) + 0.5) / float64(fb.Height)
		row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		for x, p := range row {
			f := v.Factor((float64(x)+0.5)/float64(fb.Width), fy)
			if f < 1 {
				row[x] = render.MultiplyColor(p, f)
			}
		}
	}
}
