// Package scene holds the static scene graph of the presentation as a flat
// arena of nodes, the per-node animators that move it, and the assembler
// that lays every section out along the camera's path.
//
// Nodes refer to each other by index. A parent always precedes its
// children, so world matrices are computed in a single forward pass.
package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/parallax/pkg/math3d"
	"github.com/taigrr/parallax/pkg/models"
	"github.com/taigrr/parallax/pkg/render"
	"github.com/taigrr/parallax/pkg/section"
)

// Root is the Parent of top-level nodes.
const Root = -1

// ErrParent reports a parent index that does not precede the child.
var ErrParent = errors.New("scene: parent must be added before child")

// Transform is a local position, Euler rotation (X then Y then Z, in
// radians) and scale.
type Transform struct {
	Position math3d.Vec3
	Rotation math3d.Vec3
	Scale    math3d.Vec3
}

// At returns a unit-scale transform at pos.
func At(pos math3d.Vec3) Transform {
	return Transform{Position: pos, Scale: math3d.One3()}
}

// Matrix returns the local-to-parent matrix.
func (t Transform) Matrix() math3d.Mat4 {
	return math3d.Compose(t.Position, t.Rotation, t.Scale)
}

// Material describes how a node's mesh or points are drawn.
type Material struct {
	Color     render.Color
	Emissive  float64 // Share of Color added regardless of lighting
	Unlit     bool    // Draw Color as is
	Wireframe bool    // Draw edges only
	Opacity   float64 // 0 is treated as 1

	// Written by animators every tick.
	DistortAmount float64 // Vertex displacement along the normal
	DistortPhase  float64 // Noise time
	PulseAmount   float64 // Brightness dip depth for points
	PulsePhase    float64 // Pulse time
}

// Alpha returns Opacity with the zero value read as opaque.
func (m Material) Alpha() float64 {
	if m.Opacity <= 0 || m.Opacity > 1 {
		return 1
	}
	return m.Opacity
}

// LabelStyle selects how a label is typeset.
type LabelStyle int

const (
	LabelTitle LabelStyle = iota
	LabelBody
	LabelTag
)

// Label is text pinned to a node's world position.
type Label struct {
	Text  string
	Color render.Color
	Style LabelStyle
	Width int // Wrap width in cells, 0 for no wrapping
}

// Star is one point of a point cloud.
type Star struct {
	Position math3d.Vec3
	Color    render.Color
	Phase    float64
}

// Node is one element of the arena.
type Node struct {
	Name    string
	Parent  int
	Section section.Name

	Rest  Transform // As assembled
	Local Transform // Rest plus this tick's animation

	Mesh      *models.Mesh
	Material  Material
	Points    []Star
	Label     *Label
	Animators []Animator

	unmounted bool
}

// Mounted reports whether the node is still part of the scene.
func (n *Node) Mounted() bool {
	return !n.unmounted
}

// LightKind selects the light model.
type LightKind int

const (
	Ambient LightKind = iota
	Point
	Spot
)

// Light is a scene light. Spot lights aim at Target.
type Light struct {
	Kind      LightKind
	Position  math3d.Vec3
	Target    math3d.Vec3
	Color     render.Color
	Intensity float64
	Angle     float64 // Spot half-angle in radians
}

// Scene is the node arena plus lights and the content-to-node mappings.
type Scene struct {
	Nodes      []Node
	Lights     []Light
	Background render.Color

	// ProjectCards[i] is the card group node of content project i.
	ProjectCards []int
	// SkillOrbs[i] is the orb node of content skill i.
	SkillOrbs []int

	world []math3d.Mat4
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add appends n and returns its index. The parent must already exist and
// the node's animators must write disjoint fields. A zero Rest.Scale is
// read as unit scale.
func (s *Scene) Add(n Node) (int, error) {
	if n.Parent != Root && (n.Parent < 0 || n.Parent >= len(s.Nodes)) {
		return 0, fmt.Errorf("%w: node %q parent %d", ErrParent, n.Name, n.Parent)
	}
	if err := checkAnimators(n.Animators); err != nil {
		return 0, fmt.Errorf("node %q: %w", n.Name, err)
	}
	if n.Rest.Scale == (math3d.Vec3{}) {
		n.Rest.Scale = math3d.One3()
	}
	n.Local = n.Rest
	s.Nodes = append(s.Nodes, n)
	return len(s.Nodes) - 1, nil
}

// Node returns the node at i, or nil if i is out of range.
func (s *Scene) Node(i int) *Node {
	if i < 0 || i >= len(s.Nodes) {
		return nil
	}
	return &s.Nodes[i]
}

// Unmount removes node i and its descendants from drawing and animation.
// Indices stay stable.
func (s *Scene) Unmount(i int) {
	if s.Node(i) == nil {
		return
	}
	s.Nodes[i].unmounted = true
	for j := i + 1; j < len(s.Nodes); j++ {
		if p := s.Nodes[j].Parent; p != Root && s.Nodes[p].unmounted {
			s.Nodes[j].unmounted = true
		}
	}
}

// WorldMatrices computes every node's local-to-world matrix from the
// current Local transforms. The returned slice is reused by the next call.
func (s *Scene) WorldMatrices() []math3d.Mat4 {
	if cap(s.world) < len(s.Nodes) {
		s.world = make([]math3d.Mat4, len(s.Nodes))
	}
	s.world = s.world[:len(s.Nodes)]
	for i := range s.Nodes {
		local := s.Nodes[i].Local.Matrix()
		if p := s.Nodes[i].Parent; p != Root {
			s.world[i] = s.world[p].Mul(local)
		} else {
			s.world[i] = local
		}
	}
	return s.world
}

// WorldPosition returns the world-space origin of node i.
func (s *Scene) WorldPosition(i int) math3d.Vec3 {
	n := s.Node(i)
	if n == nil {
		return math3d.Zero3()
	}
	m := n.Local.Matrix()
	for p := n.Parent; p != Root; p = s.Nodes[p].Parent {
		m = s.Nodes[p].Local.Matrix().Mul(m)
	}
	return m.Translation()
}
