package pipeline

import (
	"math"

	"github.com/taigrr/parallax/pkg/math3d"
	"github.com/taigrr/parallax/pkg/render"
	"github.com/taigrr/parallax/pkg/scene"
)

// rgb is a linear color with unbounded channels in [0,1] units.
type rgb struct{ r, g, b float64 }

func toRGB(c render.Color) rgb {
	return rgb{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

func (c rgb) scale(s float64) rgb { return rgb{c.r * s, c.g * s, c.b * s} }
func (c rgb) add(o rgb) rgb       { return rgb{c.r + o.r, c.g + o.g, c.b + o.b} }
func (c rgb) mul(o rgb) rgb       { return rgb{c.r * o.r, c.g * o.g, c.b * o.b} }

func (c rgb) color() render.Color {
	return render.RGB(byteOf(c.r), byteOf(c.g), byteOf(c.b))
}

func byteOf(v float64) uint8 {
	return uint8(math3d.Clamp(v, 0, 1)*255 + 0.5)
}

// lighting is the frame's light rig, converted once per Render.
type lighting struct {
	ambient    rgb
	lights     []scene.Light
	colors     []rgb
	background render.Color
}

func newLighting(ls []scene.Light, bg render.Color) *lighting {
	env := &lighting{background: bg}
	for _, l := range ls {
		c := toRGB(l.Color).scale(l.Intensity)
		if l.Kind == scene.Ambient {
			env.ambient = env.ambient.add(c)
			continue
		}
		env.lights = append(env.lights, l)
		env.colors = append(env.colors, c)
	}
	return env
}

// irradiance sums the diffuse light reaching a surface point.
func (env *lighting) irradiance(pos, normal math3d.Vec3) rgb {
	sum := env.ambient
	for i, l := range env.lights {
		toLight := l.Position.Sub(pos).Normalize()
		diffuse := normal.Dot(toLight)
		if diffuse <= 0 {
			continue
		}
		if l.Kind == scene.Spot {
			axis := l.Target.Sub(l.Position).Normalize()
			diffuse *= math3d.SmoothStep(math.Cos(l.Angle), 1, axis.Dot(toLight.Negate()))
		}
		sum = sum.add(env.colors[i].scale(diffuse))
	}
	return sum
}

// Distort displaces a vertex along its normal by a smooth pseudo-noise of
// its position, so neighbouring vertices move together.
func Distort(pos, normal math3d.Vec3, amount, phase float64) math3d.Vec3 {
	n := math.Sin(pos.X*2.1+phase) * math.Sin(pos.Y*1.7+phase*1.3) * math.Sin(pos.Z*2.3+phase*0.7)
	return pos.Add(normal.Scale(n * amount))
}

// shader returns the per-vertex function for one node.
func (env *lighting) shader(m scene.Material, world math3d.Mat4) render.VertexFunc {
	base := toRGB(m.Color)
	glow := base.scale(m.Emissive)
	alpha := m.Alpha()
	return func(pos, normal math3d.Vec3) (math3d.Vec3, render.Color) {
		if m.DistortAmount > 0 {
			pos = Distort(pos, normal, m.DistortAmount, m.DistortPhase)
		}
		wp := world.MulVec3(pos)
		var c render.Color
		if m.Unlit {
			c = m.Color
		} else {
			wn := world.MulVec3Dir(normal).Normalize()
			c = base.mul(env.irradiance(wp, wn)).add(glow).color()
		}
		if alpha < 1 {
			c = render.LerpColor(env.background, c, alpha)
		}
		return wp, c
	}
}
