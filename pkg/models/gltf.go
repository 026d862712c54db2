package models

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/parallax/pkg/math3d"
)

// ErrNoGeometry is returned when a glTF document holds no triangles.
var ErrNoGeometry = errors.New("models: no triangle geometry")

// GLTFLoader loads glTF/GLB files into Mesh format.
type GLTFLoader struct {
	// FitSize, when positive, recenters the mesh and scales it so its
	// largest dimension equals FitSize.
	FitSize float64
	// SmoothNormals recomputes normals even when the file provides them.
	SmoothNormals bool
}

// NewGLTFLoader creates a loader that fits models into a unit-ish hero slot.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{FitSize: 3}
}

// LoadGLB loads a glTF or GLB file with default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads every triangle primitive of every mesh into one Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	missingNormals := false
	for _, m := range doc.Meshes {
		ok, err := l.appendMesh(doc, m, mesh)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
		missingNormals = missingNormals || !ok
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoGeometry)
	}

	if l.SmoothNormals || missingNormals {
		mesh.CalculateSmoothNormals()
	}
	if l.FitSize > 0 {
		mesh.Fit(l.FitSize)
	} else {
		mesh.CalculateBounds()
	}
	return mesh, nil
}

// appendMesh adds the triangle primitives of m. It reports false when any
// primitive came without normals.
func (l *GLTFLoader) appendMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) (bool, error) {
	hasNormals := true
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return false, fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
			if err != nil {
				return false, fmt.Errorf("read normals: %w", err)
			}
		}
		if len(normals) < len(positions) {
			hasNormals = false
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			var n math3d.Vec3
			if i < len(normals) {
				n = vec3(normals[i])
			}
			mesh.AddVertex(vec3(p), n)
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return false, fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		// glTF front faces are counter-clockwise; AddTriangle flips them.
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := base+int(indices[i]), base+int(indices[i+1]), base+int(indices[i+2])
			if a >= len(mesh.Vertices) || b >= len(mesh.Vertices) || c >= len(mesh.Vertices) {
				return false, fmt.Errorf("index out of range at triangle %d", i/3)
			}
			mesh.AddTriangle(a, b, c)
		}
	}
	return hasNormals, nil
}

func vec3(f [3]float32) math3d.Vec3 {
	return math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
}
