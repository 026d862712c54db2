package render

import (
	"math"

	"github.com/taigrr/parallax/pkg/math3d"
)

// minW is the smallest clip-space W treated as in front of the camera.
const minW = 1e-3

// Vertex is a world-space position with an already shaded color.
type Vertex struct {
	Position math3d.Vec3
	Color    Color
}

// Triangle represents a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// Stats counts per-frame culling work.
type Stats struct {
	MeshesTested int // Meshes tested against the frustum
	MeshesCulled int // Meshes rejected by the frustum
	MeshesDrawn  int // Meshes that passed
	Triangles    int // Triangles submitted
}

// MeshSource is the read-only view of a mesh the rasterizer needs.
// models.Mesh satisfies it.
type MeshSource interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
	GetBounds() (min, max math3d.Vec3)
}

// VertexFunc shades one mesh vertex. It receives the local position and
// normal and returns the world position and lit color.
type VertexFunc func(pos, normal math3d.Vec3) (math3d.Vec3, Color)

// Rasterizer draws depth-tested triangles, lines and points into a
// Framebuffer from the point of view of a Camera.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64 // Depth buffer (row-major)
	frustum Frustum   // Captured by BeginFrame
	scratch []Vertex

	Stats                  Stats
	DisableBackfaceCulling bool // Render both sides of triangles
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{camera: camera, fb: fb}
	r.Resize()
	return r
}

// Resize resizes the depth buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
	r.ClearDepth()
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// BeginFrame clears depth, resets stats and captures the camera frustum.
// Call it after the camera has been positioned for the frame.
func (r *Rasterizer) BeginFrame() {
	if len(r.zbuffer) != r.Width()*r.Height() {
		r.Resize()
	} else {
		r.ClearDepth()
	}
	r.Stats = Stats{}
	r.frustum = r.camera.Frustum()
}

// ClearDepth clears the Z-buffer.
func (r *Rasterizer) ClearDepth() {
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// IsVisible tests a world-space box against the frame's frustum.
func (r *Rasterizer) IsVisible(box AABB) bool {
	return r.frustum.IntersectAABB(box)
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64 // Screen coordinates
	Z     float64 // NDC depth
	W     float64 // Clip W
	Color Color
}

// toScreen maps a clip-space point to pixel coordinates.
func (r *Rasterizer) toScreen(clip math3d.Vec4) screenVertex {
	inv := 1 / clip.W
	return screenVertex{
		X: (clip.X*inv + 1) * 0.5 * float64(r.Width()),
		Y: (1 - clip.Y*inv) * 0.5 * float64(r.Height()), // Y flipped
		Z: clip.Z * inv,
		W: clip.W,
	}
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C, which
// is positive on the inside of a positively wound triangle.
func edgeCoeffs(x0, y0, x1, y1 float64) (a, b, c float64) {
	return y0 - y1, x1 - x0, x0*y1 - x1*y0
}

// DrawTriangle rasterizes one triangle, interpolating vertex colors.
// Triangles crossing the near plane are dropped rather than clipped;
// meshes are tessellated finely enough for that to go unnoticed.
func (r *Rasterizer) DrawTriangle(tri Triangle) {
	if r.fb == nil {
		return
	}
	if len(r.zbuffer) != r.Width()*r.Height() {
		r.Resize()
	}
	viewProj := r.camera.ViewProjectionMatrix()

	var sv [3]screenVertex
	for i := range 3 {
		clip := viewProj.MulVec4(math3d.V4FromV3(tri.V[i].Position, 1))
		if clip.W < minW || nearDist(clip) < 0 {
			return
		}
		sv[i] = r.toScreen(clip)
		sv[i].Color = tri.V[i].Color
	}
	r.Stats.Triangles++

	// Screen-space winding: front faces are positive after the Y flip.
	cross := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if cross < 0 {
		if !r.DisableBackfaceCulling {
			return
		}
		sv[1], sv[2] = sv[2], sv[1]
		cross = -cross
	}
	if cross == 0 {
		return
	}

	minX := max(0, int(math.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX := min(r.Width()-1, int(math.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY := max(0, int(math.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := min(r.Height()-1, int(math.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	a0, b0, c0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	a1, b1, c1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	a2, b2, c2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)
	invArea := 1 / cross

	r0, g0, bl0 := float64(sv[0].Color.R), float64(sv[0].Color.G), float64(sv[0].Color.B)
	r1, g1, bl1 := float64(sv[1].Color.R), float64(sv[1].Color.G), float64(sv[1].Color.B)
	r2, g2, bl2 := float64(sv[2].Color.R), float64(sv[2].Color.G), float64(sv[2].Color.B)

	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := a0*px + b0*py + c0
	w1Row := a1*px + b1*py + c1
	w2Row := a2*px + b2*py + c2

	width := r.Width()
	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		row := y * width
		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				bc0, bc1, bc2 := w0*invArea, w1*invArea, w2*invArea
				z := bc0*sv[0].Z + bc1*sv[1].Z + bc2*sv[2].Z
				idx := row + x
				if z < r.zbuffer[idx] {
					r.zbuffer[idx] = z
					r.fb.Pixels[idx] = RGB(
						clampByte(r0*bc0+r1*bc1+r2*bc2),
						clampByte(g0*bc0+g1*bc1+g2*bc2),
						clampByte(bl0*bc0+bl1*bc1+bl2*bc2),
					)
				}
			}
			w0 += a0
			w1 += a1
			w2 += a2
		}
		w0Row += b0
		w1Row += b1
		w2Row += b2
	}
}

// cull reports whether the mesh's bounds, grown by margin and moved by
// transform, fall outside the frustum.
func (r *Rasterizer) cull(mesh MeshSource, transform math3d.Mat4, margin float64) bool {
	r.Stats.MeshesTested++
	lo, hi := mesh.GetBounds()
	box := NewAABB(lo, hi).Expand(margin).Transform(transform)
	if !r.IsVisible(box) {
		r.Stats.MeshesCulled++
		return true
	}
	r.Stats.MeshesDrawn++
	return false
}

// DrawMesh shades every vertex once with shade and rasterizes the faces.
// margin enlarges the culling bounds for shaders that displace vertices.
// It returns false when the mesh was culled.
func (r *Rasterizer) DrawMesh(mesh MeshSource, transform math3d.Mat4, margin float64, shade VertexFunc) bool {
	if r.cull(mesh, transform, margin) {
		return false
	}

	n := mesh.VertexCount()
	if cap(r.scratch) < n {
		r.scratch = make([]Vertex, n)
	}
	verts := r.scratch[:n]
	for i := range verts {
		pos, normal := mesh.GetVertex(i)
		verts[i].Position, verts[i].Color = shade(pos, normal)
	}

	for i := range mesh.TriangleCount() {
		f := mesh.GetFace(i)
		r.DrawTriangle(Triangle{V: [3]Vertex{verts[f[0]], verts[f[1]], verts[f[2]]}})
	}
	return true
}
