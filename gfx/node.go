package gfx

// Side selects which triangle faces are drawn and picked.
type Side uint8

const (
	SideFront Side = iota
	SideBack
	SideDouble
)

// Material describes how a surface is shaded.
//
// Opacity only applies to transparent materials.
type Material struct {
	Color        Color
	Map          *Texture
	AlphaMap     *Texture
	BumpMap      *Texture
	RoughnessMap *Texture

	Opacity      Scalar
	Transparent  bool
	Blending     Blending
	Side         Side
	NoDepthWrite bool
	Lit          bool

	// Shader replaces the standard shading when set.
	Shader Shader
}

// Shader computes a fragment color.
type Shader func(f *Fragment) Color

// Uniforms are per-frame values shared by every shader.
type Uniforms struct {
	LightPosition  Vec3
	LightIntensity Scalar
	CameraPosition Vec3
}

// Fragment is the interpolated surface sample handed to a Shader.
type Fragment struct {
	UV       Vec2
	Normal   Vec3 // world space, normalized
	Position Vec3 // world space
	Uniforms *Uniforms
}

// Vertex is a mesh vertex.
type Vertex struct {
	Pos    Vec3
	Normal Vec3
	UV     Vec2
}

// Geometry is an indexed triangle list.
type Geometry struct {
	Vertices []Vertex
	Indices  []uint32
}

// Mesh pairs geometry with a material.
type Mesh struct {
	Geometry *Geometry
	Material *Material
}

// Sprite is a camera-facing unit quad scaled by its node.
type Sprite struct {
	Material *Material
}

// PointLight emits from its node's world position.
type PointLight struct {
	Color     Color
	Intensity Scalar
}

// Tag is free-form metadata used for picking.
type Tag struct {
	Kind string
	ID   string
	URL  string
}

// Node is an element of the scene graph.
type Node struct {
	Name     string
	Position Vec3
	Rotation Quat
	Scale    Vec3
	Visible  bool
	Tag      Tag

	Mesh   *Mesh
	Sprite *Sprite
	Light  *PointLight

	parent   *Node
	children []*Node
}

// NewNode returns an empty visible group node.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: QuatIdentity(),
		Scale:    V3(1, 1, 1),
		Visible:  true,
	}
}

// NewMeshNode wraps geometry and material in a node.
func NewMeshNode(name string, g *Geometry, m *Material) *Node {
	n := NewNode(name)
	n.Mesh = &Mesh{Geometry: g, Material: m}
	return n
}

// NewSpriteNode returns a sprite node.
func NewSpriteNode(name string, m *Material) *Node {
	n := NewNode(name)
	n.Sprite = &Sprite{Material: m}
	return n
}

// Add attaches children, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Remove detaches a direct child.
func (n *Node) Remove(c *Node) {
	for i, cc := range n.children {
		if cc == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// Clone copies the node and its subtree. Geometry and materials are shared.
func (n *Node) Clone() *Node {
	c := *n
	c.parent = nil
	c.children = nil
	for _, ch := range n.children {
		c.Add(ch.Clone())
	}
	return &c
}

// RotateZ rotates the node about its local Z axis.
func (n *Node) RotateZ(rad Scalar) {
	n.Rotation = n.Rotation.Mul(QuatFromAxisAngle(V3(0, 0, 1), rad))
}

// Local returns the node's local transform.
func (n *Node) Local() Mat4 {
	return Mat4Compose(n.Position, n.Rotation, n.Scale)
}

// World returns the node's world transform.
func (n *Node) World() Mat4 {
	m := n.Local()
	for p := n.parent; p != nil; p = p.parent {
		m = Mat4Mul(p.Local(), m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() Vec3 { return n.World().Translation() }

// Traverse visits n and its subtree depth first. Returning false skips children.
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Find returns the first node named name in the subtree.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Material returns the mesh or sprite material, if any.
func (n *Node) Material() *Material {
	switch {
	case n.Mesh != nil:
		return n.Mesh.Material
	case n.Sprite != nil:
		return n.Sprite.Material
	}
	return nil
}

// SetOpacity sets opacity on every material in the subtree.
func (n *Node) SetOpacity(v Scalar) {
	n.Traverse(func(c *Node) bool {
		if m := c.Material(); m != nil {
			m.Opacity = v
		}
		return true
	})
}

// Handle is a stable reference to a registered node. Zero is invalid.
type Handle uint32

// Scene owns the root node, global lighting, and the handle arena.
type Scene struct {
	Root       *Node
	Ambient    Scalar
	Background Color

	nodes []*Node
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{
		Root:       NewNode("scene"),
		Ambient:    0.06,
		Background: RGB(0, 0, 0),
	}
}

// Add attaches nodes under the root.
func (s *Scene) Add(nodes ...*Node) { s.Root.Add(nodes...) }

// Register stores n in the handle arena.
func (s *Scene) Register(n *Node) Handle {
	if n == nil {
		return 0
	}
	s.nodes = append(s.nodes, n)
	return Handle(len(s.nodes))
}

// Lookup resolves h. It reports false for the zero or an unknown handle.
func (s *Scene) Lookup(h Handle) (*Node, bool) {
	if s == nil || h == 0 || int(h) > len(s.nodes) {
		return nil, false
	}
	return s.nodes[h-1], true
}
