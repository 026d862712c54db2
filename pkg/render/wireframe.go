package render

import (
	"math"

	"github.com/taigrr/parallax/pkg/math3d"
)

// nearDist is the signed distance of a clip-space point from the near
// plane; negative values lie between the near plane and the camera.
func nearDist(v math3d.Vec4) float64 {
	return v.Z + v.W
}

// clipNear moves a toward b until it lies on the near plane.
func clipNear(a, b math3d.Vec4) math3d.Vec4 {
	da, db := nearDist(a), nearDist(b)
	t := da / (da - db)
	return math3d.V4(
		a.X+(b.X-a.X)*t,
		a.Y+(b.Y-a.Y)*t,
		a.Z+(b.Z-a.Z)*t,
		a.W+(b.W-a.W)*t,
	)
}

// clipRect trims the parametric segment p0 + t*d, t in [0,1], to the
// rectangle [0,w) x [0,h) (Liang-Barsky). ok is false when nothing is left.
func clipRect(x0, y0, dx, dy float64, w, h int) (t0, t1 float64, ok bool) {
	t0, t1 = 0, 1
	edges := [4][2]float64{
		{-dx, x0},
		{dx, float64(w) - x0},
		{-dy, y0},
		{dy, float64(h) - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = max(t0, t)
		} else {
			t1 = min(t1, t)
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

// DrawLine3D draws a depth-tested world-space segment, clipped against the
// near plane and the screen edges.
func (r *Rasterizer) DrawLine3D(a, b math3d.Vec3, color Color) {
	if r.fb == nil {
		return
	}
	if len(r.zbuffer) != r.Width()*r.Height() {
		r.Resize()
	}
	viewProj := r.camera.ViewProjectionMatrix()
	ca := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	cb := viewProj.MulVec4(math3d.V4FromV3(b, 1))

	switch {
	case nearDist(ca) < 0 && nearDist(cb) < 0:
		return
	case nearDist(ca) < 0:
		ca = clipNear(ca, cb)
	case nearDist(cb) < 0:
		cb = clipNear(cb, ca)
	}
	if ca.W < minW || cb.W < minW {
		return
	}

	s0, s1 := r.toScreen(ca), r.toScreen(cb)
	dx, dy, dz := s1.X-s0.X, s1.Y-s0.Y, s1.Z-s0.Z
	t0, t1, ok := clipRect(s0.X, s0.Y, dx, dy, r.Width(), r.Height())
	if !ok {
		return
	}

	span := (t1 - t0) * math.Max(math.Abs(dx), math.Abs(dy))
	steps := int(math.Ceil(span))
	for i := 0; i <= steps; i++ {
		t := t0
		if steps > 0 {
			t += (t1 - t0) * float64(i) / float64(steps)
		}
		x := int(math.Floor(s0.X + dx*t))
		y := int(math.Floor(s0.Y + dy*t))
		r.plot(x, y, s0.Z+dz*t, color)
	}
}

// DrawMeshWireframe draws every triangle edge of mesh in a flat color.
// It returns false when the mesh was culled.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshSource, transform math3d.Mat4, color Color) bool {
	if r.cull(mesh, transform, 0) {
		return false
	}
	for i := range mesh.TriangleCount() {
		f := mesh.GetFace(i)
		p0, _ := mesh.GetVertex(f[0])
		p1, _ := mesh.GetVertex(f[1])
		p2, _ := mesh.GetVertex(f[2])
		v0 := transform.MulVec3(p0)
		v1 := transform.MulVec3(p1)
		v2 := transform.MulVec3(p2)
		r.DrawLine3D(v0, v1, color)
		r.DrawLine3D(v1, v2, color)
		r.DrawLine3D(v2, v0, color)
	}
	return true
}

// DrawPoint draws a single depth-tested pixel at a world position.
func (r *Rasterizer) DrawPoint(pos math3d.Vec3, color Color) {
	if r.fb == nil {
		return
	}
	clip := r.camera.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(pos, 1))
	if clip.W < minW {
		return
	}
	s := r.toScreen(clip)
	if s.Z < -1 || s.Z > 1 {
		return
	}
	r.plot(int(math.Floor(s.X)), int(math.Floor(s.Y)), s.Z, color)
}

// plot writes one depth-tested pixel. Lines do not write depth, so
// overlapping wires do not hide each other.
func (r *Rasterizer) plot(x, y int, z float64, color Color) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	idx := y*r.Width() + x
	if idx >= len(r.zbuffer) || z >= r.zbuffer[idx] {
		return
	}
	r.fb.Pixels[idx] = color
}
