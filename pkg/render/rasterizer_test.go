package render

import (
	"math"
	"testing"

	"github.com/taigrr/parallax/pkg/math3d"
)

// mockMesh implements MeshSource for testing without importing models.
type mockMesh struct {
	vertices []math3d.Vec3
	normals  []math3d.Vec3
	faces    [][3]int
}

func (m *mockMesh) VertexCount() int     { return len(m.vertices) }
func (m *mockMesh) TriangleCount() int   { return len(m.faces) }
func (m *mockMesh) GetFace(i int) [3]int { return m.faces[i] }
func (m *mockMesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	return m.vertices[i], m.normals[i]
}

func (m *mockMesh) GetBounds() (lo, hi math3d.Vec3) {
	lo, hi = m.vertices[0], m.vertices[0]
	for _, v := range m.vertices[1:] {
		lo, hi = lo.Min(v), hi.Max(v)
	}
	return lo, hi
}

// frontTriangle is wound clockwise as seen from +Z, so it faces the
// default camera.
func frontTriangle(z float64, c Color) Triangle {
	return Triangle{V: [3]Vertex{
		{Position: math3d.V3(-1, -1, z), Color: c},
		{Position: math3d.V3(0, 1, z), Color: c},
		{Position: math3d.V3(1, -1, z), Color: c},
	}}
}

func createTestRasterizer(width, height int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(width, height)
	cam := NewCamera()
	cam.SetAspectRatio(float64(width) / float64(height))
	r := NewRasterizer(cam, fb)
	r.BeginFrame()
	return r, fb
}

func TestDrawTriangleFillsCenter(t *testing.T) {
	r, fb := createTestRasterizer(80, 40)
	red := RGB(255, 0, 0)
	r.DrawTriangle(frontTriangle(0, red))

	if got := fb.GetPixel(40, 20); got != red {
		t.Errorf("center pixel = %v, want %v", got, red)
	}
	if got := fb.GetPixel(0, 0); got != (Color{}) {
		t.Errorf("corner pixel = %v, want untouched", got)
	}
}

func TestDrawTriangleBackfaceCulling(t *testing.T) {
	tri := frontTriangle(0, RGB(0, 255, 0))
	tri.V[1], tri.V[2] = tri.V[2], tri.V[1]

	r, fb := createTestRasterizer(80, 40)
	r.DrawTriangle(tri)
	if got := fb.GetPixel(40, 20); got != (Color{}) {
		t.Errorf("back face drew %v", got)
	}

	r.DisableBackfaceCulling = true
	r.DrawTriangle(tri)
	if got := fb.GetPixel(40, 20); got != RGB(0, 255, 0) {
		t.Errorf("two-sided back face = %v, want green", got)
	}
}

func TestDrawTriangleDepthTest(t *testing.T) {
	r, fb := createTestRasterizer(80, 40)
	near := RGB(0, 0, 255)
	far := RGB(255, 255, 0)

	r.DrawTriangle(frontTriangle(1, near))
	r.DrawTriangle(frontTriangle(-1, far))

	if got := fb.GetPixel(40, 20); got != near {
		t.Errorf("center pixel = %v, want nearer triangle %v", got, near)
	}
}

func TestDrawTriangleBehindCamera(t *testing.T) {
	r, fb := createTestRasterizer(80, 40)
	r.DrawTriangle(frontTriangle(10, RGB(255, 255, 255)))

	for i, p := range fb.Pixels {
		if p != (Color{}) {
			t.Fatalf("pixel %d drawn for triangle behind camera", i)
		}
	}
}

func TestDrawTriangleInterpolatesColor(t *testing.T) {
	r, fb := createTestRasterizer(80, 40)
	tri := Triangle{V: [3]Vertex{
		{Position: math3d.V3(-1.5, -1, 0), Color: RGB(255, 0, 0)},
		{Position: math3d.V3(0, 1, 0), Color: RGB(0, 255, 0)},
		{Position: math3d.V3(1.5, -1, 0), Color: RGB(0, 0, 255)},
	}}
	r.DrawTriangle(tri)

	c := fb.GetPixel(40, 20)
	if c.R == 0 || c.G == 0 || c.B == 0 {
		t.Errorf("center should mix all three vertex colors, got %v", c)
	}
}

func TestDrawMeshShadesEachVertexOnce(t *testing.T) {
	r, _ := createTestRasterizer(80, 40)
	mesh := &mockMesh{
		vertices: []math3d.Vec3{{X: -1, Y: -1}, {Y: 1}, {X: 1, Y: -1}, {X: 1, Y: 1}},
		normals:  []math3d.Vec3{{Z: 1}, {Z: 1}, {Z: 1}, {Z: 1}},
		faces:    [][3]int{{0, 1, 2}, {2, 1, 3}},
	}

	calls := 0
	drawn := r.DrawMesh(mesh, math3d.Identity(), 0, func(pos, _ math3d.Vec3) (math3d.Vec3, Color) {
		calls++
		return pos, RGB(200, 200, 200)
	})
	if !drawn {
		t.Fatal("mesh in front of camera was culled")
	}
	if calls != 4 {
		t.Errorf("shade called %d times, want 4", calls)
	}
	if r.Stats.Triangles != 2 {
		t.Errorf("Stats.Triangles = %d, want 2", r.Stats.Triangles)
	}
}

func TestDrawMeshCulled(t *testing.T) {
	r, _ := createTestRasterizer(80, 40)
	mesh := &mockMesh{
		vertices: []math3d.Vec3{{X: -1, Y: -1}, {Y: 1}, {X: 1, Y: -1}},
		normals:  []math3d.Vec3{{Z: 1}, {Z: 1}, {Z: 1}},
		faces:    [][3]int{{0, 1, 2}},
	}

	drawn := r.DrawMesh(mesh, math3d.Translate(math3d.V3(0, -50, 0)), 0, func(pos, _ math3d.Vec3) (math3d.Vec3, Color) {
		t.Error("culled mesh should not be shaded")
		return pos, Color{}
	})
	if drawn {
		t.Error("mesh far below the view should be culled")
	}
	if r.Stats.MeshesCulled != 1 {
		t.Errorf("Stats.MeshesCulled = %d, want 1", r.Stats.MeshesCulled)
	}
}

func TestDrawLine3DClipsAtCamera(t *testing.T) {
	r, fb := createTestRasterizer(80, 40)
	white := RGB(255, 255, 255)

	// From in front of the camera to well behind it.
	r.DrawLine3D(math3d.V3(0.2, -0.5, 0), math3d.V3(0.2, -0.5, 50), white)

	lit := 0
	for _, p := range fb.Pixels {
		if p == white {
			lit++
		}
	}
	if lit == 0 {
		t.Error("visible half of the line was not drawn")
	}
}

func TestDrawLine3DHiddenBehindSurface(t *testing.T) {
	r, fb := createTestRasterizer(80, 40)
	blue := RGB(0, 0, 255)
	r.DrawTriangle(frontTriangle(0, blue))
	r.DrawLine3D(math3d.V3(-0.5, 0, -3), math3d.V3(0.5, 0, -3), RGB(255, 255, 255))

	if got := fb.GetPixel(40, 20); got != blue {
		t.Errorf("line behind triangle overwrote it: %v", got)
	}
}

func TestDrawPoint(t *testing.T) {
	r, fb := createTestRasterizer(80, 40)
	r.DrawPoint(math3d.V3(0, 0, -10), RGB(9, 9, 9))
	r.DrawPoint(math3d.V3(0, 0, 10), RGB(255, 0, 0))

	if got := fb.GetPixel(40, 20); got != RGB(9, 9, 9) {
		t.Errorf("point = %v, want (9, 9, 9)", got)
	}
}

func TestRasterizerClearDepth(t *testing.T) {
	r, _ := createTestRasterizer(10, 10)
	r.zbuffer[5] = 0.5
	r.ClearDepth()
	for i, z := range r.zbuffer {
		if z != math.MaxFloat64 {
			t.Fatalf("zbuffer[%d] = %v after clear", i, z)
		}
	}
}

func TestRasterizerFollowsFramebufferResize(t *testing.T) {
	r, fb := createTestRasterizer(10, 10)
	fb.Resize(40, 20)
	r.DrawTriangle(frontTriangle(0, RGB(1, 2, 3)))
	if len(r.zbuffer) != 40*20 {
		t.Errorf("zbuffer len = %d, want %d", len(r.zbuffer), 40*20)
	}
}

func BenchmarkDrawTriangle(b *testing.B) {
	r, _ := createTestRasterizer(200, 100)
	tri := frontTriangle(0, RGB(255, 128, 0))

	b.ResetTimer()
	for range b.N {
		r.ClearDepth()
		r.DrawTriangle(tri)
	}
}
