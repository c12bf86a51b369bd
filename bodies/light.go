package bodies

import (
	"context"

	"terra/gfx"
)

// LightSource is the sun: an unlit sphere carrying a point light.
type LightSource struct {
	root   *gfx.Node
	anchor *gfx.Node
	light  *gfx.Node
}

// NewLightSource builds the sun at pos.
func NewLightSource(pos gfx.Vec3) *LightSource {
	root := gfx.NewNode("sun_group")
	anchor := gfx.NewNode("sun_anchor")
	anchor.Position = pos

	sphere := gfx.NewMeshNode("sun",
		gfx.Sphere(SunRadius, 16, 16),
		&gfx.Material{Color: gfx.Hex(0xffffff), Opacity: 1})

	light := gfx.NewNode("sun_light")
	light.Light = &gfx.PointLight{Color: gfx.Hex(0xffffff), Intensity: SunIntensity}

	anchor.Add(sphere, light)
	root.Add(anchor)
	return &LightSource{root: root, anchor: anchor, light: light}
}

func (s *LightSource) Root() *gfx.Node { return s.root }

func (s *LightSource) Init(context.Context) error { return nil }

// Anchor is the node moved by the astronomy update.
func (s *LightSource) Anchor() *gfx.Node { return s.anchor }

// Light returns the point light node.
func (s *LightSource) Light() *gfx.Node { return s.light }
