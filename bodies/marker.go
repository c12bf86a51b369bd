package bodies

import (
	"context"
	"fmt"
	"math"

	"terra/astro"
	"terra/gfx"
	"terra/loader"
)

// MarkerRecord is one point of interest on the planet.
type MarkerRecord struct {
	ID        string
	Name      string
	ImageURL  string
	TargetURL string
	Latitude  float64
	Longitude float64
}

// Marker is a built marker: the light pillar pair and its label sprite.
type Marker struct {
	Record MarkerRecord
	Pillar *gfx.Node
	Label  *gfx.Node
}

// pillarColor tints the light column texture.
var pillarColor = gfx.Hex(0xffffff)

// newPillar builds two crossed vertical planes standing on the surface at
// (lat, lon), with local +Z along the surface normal.
func newPillar(radius gfx.Scalar, lat, lon float64, column *gfx.Texture) *gfx.Node {
	h := radius * 0.27
	geo := gfx.Plane(radius*0.05, h).
		RotateX(math.Pi / 2).
		Translate(gfx.V3(0, 0, h/2))
	mat := &gfx.Material{
		Color:        pillarColor,
		Map:          column,
		Opacity:      1,
		Transparent:  true,
		Side:         gfx.SideDouble,
		NoDepthWrite: true,
	}
	plane := gfx.NewMeshNode("pillar", geo, mat)
	crossed := plane.Clone()
	crossed.RotateZ(math.Pi / 2)

	group := gfx.NewNode("light_pillar")
	group.Add(plane, crossed)
	pos := astro.ToCartesian(float64(radius), lon, lat)
	group.Position = pos
	group.Rotation = gfx.QuatFromUnitVectors(gfx.V3(0, 0, 1), gfx.Normalize(pos))
	return group
}

// newLabel builds the pickable label sprite from a rendered label texture.
func newLabel(radius gfx.Scalar, rec MarkerRecord, tex *gfx.Texture, scale gfx.Scalar) *gfx.Node {
	sprite := gfx.NewSpriteNode(rec.Name, &gfx.Material{
		Map:         tex,
		Opacity:     1,
		Transparent: true,
	})
	sprite.Scale = gfx.V3(scale, scale, 1)
	sprite.Position = astro.ToCartesian(float64(radius)*1.001, rec.Longitude, rec.Latitude).Mul(1.3)
	sprite.Tag = gfx.Tag{Kind: KindMarker, ID: rec.ID, URL: rec.TargetURL}
	return sprite
}

// BuildMarker fetches the marker thumbnail through src and builds its nodes.
// It fails only when the thumbnail cannot be fetched or decoded.
func BuildMarker(ctx context.Context, src loader.Source, rec MarkerRecord, radius, scale gfx.Scalar, column *gfx.Texture) (*Marker, error) {
	thumb, err := loader.OpenImage(ctx, src, rec.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("bodies: marker %s: %w", rec.ID, err)
	}
	tex := gfx.NewTexture(RenderLabel(thumb, rec.Name))
	tex.Name = "label:" + rec.ID
	return &Marker{
		Record: rec,
		Pillar: newPillar(radius, rec.Latitude, rec.Longitude, column),
		Label:  newLabel(radius, rec, tex, scale),
	}, nil
}
