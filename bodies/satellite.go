package bodies

import (
	"context"
	"math"

	"terra/gfx"
	"terra/loader"
)

// Satellite is the moon.
type Satellite struct {
	root *gfx.Node
	moon *gfx.Node
}

// NewSatellite builds the moon at pos from set.
func NewSatellite(pos gfx.Vec3, set *loader.TextureSet) *Satellite {
	root := gfx.NewNode("moon_group")
	moon := gfx.NewMeshNode("moon",
		gfx.Sphere(SatelliteRadius, 64, 64),
		&gfx.Material{
			Map:     set.Get(loader.MoonTexture),
			BumpMap: set.Get(loader.MoonElevation),
			Opacity: 1,
			Lit:     true,
		})
	moon.Position = pos
	moon.Rotation = gfx.QuatFromAxisAngle(gfx.V3(0, 1, 0), math.Pi)
	root.Add(moon)
	return &Satellite{root: root, moon: moon}
}

func (s *Satellite) Root() *gfx.Node { return s.root }

func (s *Satellite) Init(context.Context) error { return nil }

// Anchor is the node moved by the astronomy update.
func (s *Satellite) Anchor() *gfx.Node { return s.moon }
