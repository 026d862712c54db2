package models

import (
	"math"

	"github.com/taigrr/parallax/pkg/math3d"
)

// addOriented adds a triangle whose front side agrees with its vertex
// normals. Degenerate triangles (pole caps, zero-size quads) are dropped.
func (m *Mesh) addOriented(a, b, c int) {
	pa, pb, pc := m.Vertices[a].Position, m.Vertices[b].Position, m.Vertices[c].Position
	cross := pb.Sub(pa).Cross(pc.Sub(pa))
	if cross.Len() < 1e-12 {
		return
	}
	ref := m.Vertices[a].Normal.Add(m.Vertices[b].Normal).Add(m.Vertices[c].Normal)
	if cross.Dot(ref) < 0 {
		b, c = c, b
	}
	m.AddTriangle(a, b, c)
}

func (m *Mesh) addQuad(a, b, c, d int) {
	m.addOriented(a, b, c)
	m.addOriented(a, c, d)
}

var icosahedronFaces = [20][3]int{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

// Icosphere builds an icosahedron of the given circumradius, subdivided
// detail times. Every subdivision quadruples the face count and pushes the
// new vertices onto the sphere; vertices are shared so displacing them
// along their normals keeps the surface closed.
func Icosphere(radius float64, detail int) *Mesh {
	t := (1 + math.Sqrt(5)) / 2
	seed := []math3d.Vec3{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}

	dirs := make([]math3d.Vec3, len(seed))
	for i, p := range seed {
		dirs[i] = p.Normalize()
	}
	faces := icosahedronFaces[:]

	for range max(detail, 0) {
		mid := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if idx, ok := mid[key]; ok {
				return idx
			}
			dirs = append(dirs, dirs[a].Add(dirs[b]).Normalize())
			mid[key] = len(dirs) - 1
			return len(dirs) - 1
		}
		next := make([][3]int, 0, len(faces)*4)
		for _, f := range faces {
			ab := midpoint(f[0], f[1])
			bc := midpoint(f[1], f[2])
			ca := midpoint(f[2], f[0])
			next = append(next,
				[3]int{f[0], ab, ca},
				[3]int{f[1], bc, ab},
				[3]int{f[2], ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		faces = next
	}

	m := NewMesh("icosphere")
	for _, d := range dirs {
		m.AddVertex(d.Scale(radius), d)
	}
	for _, f := range faces {
		m.AddTriangle(f[0], f[1], f[2])
	}
	m.CalculateBounds()
	return m
}

// Box builds an axis-aligned box centred on the origin with flat normals.
func Box(width, height, depth float64) *Mesh {
	half := math3d.V3(width/2, height/2, depth/2)
	x, y, z := math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 1)

	// Each side is spanned by u and v with u x v pointing outward.
	sides := [6][2]math3d.Vec3{
		{y, z}, {z, y}, // +X, -X
		{z, x}, {x, z}, // +Y, -Y
		{x, y}, {y, x}, // +Z, -Z
	}

	m := NewMesh("box")
	for _, s := range sides {
		u, v := s[0], s[1]
		n := u.Cross(v)
		c := n.Mul(half)
		hu := u.Mul(half)
		hv := v.Mul(half)
		p0 := m.AddVertex(c.Sub(hu).Sub(hv), n)
		p1 := m.AddVertex(c.Add(hu).Sub(hv), n)
		p2 := m.AddVertex(c.Add(hu).Add(hv), n)
		p3 := m.AddVertex(c.Sub(hu).Add(hv), n)
		m.AddTriangle(p0, p1, p2)
		m.AddTriangle(p0, p2, p3)
	}
	m.CalculateBounds()
	return m
}

// Torus builds a ring in the XY plane around the Z axis.
func Torus(radius, tube float64, radialSegments, tubularSegments int) *Mesh {
	radialSegments = max(radialSegments, 3)
	tubularSegments = max(tubularSegments, 3)

	m := NewMesh("torus")
	for j := range radialSegments {
		v := float64(j) / float64(radialSegments) * 2 * math.Pi
		for i := range tubularSegments {
			u := float64(i) / float64(tubularSegments) * 2 * math.Pi
			n := math3d.V3(math.Cos(v)*math.Cos(u), math.Cos(v)*math.Sin(u), math.Sin(v))
			center := math3d.V3(radius*math.Cos(u), radius*math.Sin(u), 0)
			m.AddVertex(center.Add(n.Scale(tube)), n)
		}
	}

	at := func(j, i int) int {
		return (j%radialSegments)*tubularSegments + i%tubularSegments
	}
	for j := range radialSegments {
		for i := range tubularSegments {
			m.addQuad(at(j, i), at(j, i+1), at(j+1, i+1), at(j+1, i))
		}
	}
	m.CalculateBounds()
	return m
}

// Plane builds a flat grid on the XZ plane facing +Y, divided into
// segments x segments cells.
func Plane(width, depth float64, segments int) *Mesh {
	segments = max(segments, 1)
	up := math3d.Up()

	m := NewMesh("plane")
	for j := 0; j <= segments; j++ {
		z := (float64(j)/float64(segments) - 0.5) * depth
		for i := 0; i <= segments; i++ {
			x := (float64(i)/float64(segments) - 0.5) * width
			m.AddVertex(math3d.V3(x, 0, z), up)
		}
	}

	row := segments + 1
	for j := range segments {
		for i := range segments {
			a := j*row + i
			m.addQuad(a, a+1, a+row+1, a+row)
		}
	}
	m.CalculateBounds()
	return m
}

// Cylinder builds a capped cylinder along Y centred on the origin.
func Cylinder(radiusTop, radiusBottom, height float64, segments int) *Mesh {
	segments = max(segments, 3)
	h := height / 2
	slope := (radiusBottom - radiusTop) / height

	m := NewMesh("cylinder")
	side := make([][2]int, segments)
	for i := range segments {
		a := float64(i) / float64(segments) * 2 * math.Pi
		dir := math3d.V3(math.Sin(a), 0, math.Cos(a))
		n := math3d.V3(dir.X, slope, dir.Z).Normalize()
		top := m.AddVertex(math3d.V3(dir.X*radiusTop, h, dir.Z*radiusTop), n)
		bottom := m.AddVertex(math3d.V3(dir.X*radiusBottom, -h, dir.Z*radiusBottom), n)
		side[i] = [2]int{top, bottom}
	}
	for i := range segments {
		next := side[(i+1)%segments]
		m.addQuad(side[i][0], side[i][1], next[1], next[0])
	}

	for _, c := range []struct {
		y, r float64
		n    math3d.Vec3
	}{
		{h, radiusTop, math3d.Up()},
		{-h, radiusBottom, math3d.Up().Negate()},
	} {
		if c.r <= 0 {
			continue
		}
		center := m.AddVertex(math3d.V3(0, c.y, 0), c.n)
		ring := make([]int, segments)
		for i := range segments {
			a := float64(i) / float64(segments) * 2 * math.Pi
			ring[i] = m.AddVertex(math3d.V3(math.Sin(a)*c.r, c.y, math.Cos(a)*c.r), c.n)
		}
		for i := range segments {
			m.addOriented(center, ring[i], ring[(i+1)%segments])
		}
	}
	m.CalculateBounds()
	return m
}
