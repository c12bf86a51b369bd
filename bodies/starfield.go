package bodies

import (
	"context"

	"terra/gfx"
	"terra/loader"
)

// Starfield is the sky sphere seen from inside.
type Starfield struct {
	root  *gfx.Node
	stars *gfx.Node
}

// NewStarfield builds the sky from set.
func NewStarfield(radius gfx.Scalar, set *loader.TextureSet) *Starfield {
	root := gfx.NewNode("stars_group")
	mat := &gfx.Material{
		Opacity: 1,
		Side:    gfx.SideBack,
	}
	mat.Map = set.Get(loader.Stars)
	stars := gfx.NewMeshNode("stars", gfx.Sphere(radius, 10, 10), mat)
	stars.RotateZ(StarsTilt)
	root.Add(stars)
	return &Starfield{root: root, stars: stars}
}

func (s *Starfield) Root() *gfx.Node { return s.root }

func (s *Starfield) Init(context.Context) error { return nil }

// ApplyHighQuality swaps the sky texture in place when set has one.
func (s *Starfield) ApplyHighQuality(set *loader.TextureSet) {
	swap(&s.stars.Mesh.Material.Map, set.Get(loader.Stars))
}

// swap replaces *dst with t unless t is nil, so a failed high-quality asset
// keeps its low-quality texture.
func swap(dst **gfx.Texture, t *gfx.Texture) {
	if t != nil {
		*dst = t
	}
}
