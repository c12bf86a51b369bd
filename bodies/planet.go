package bodies

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"terra/gfx"
	"terra/internal/metrics"
	"terra/loader"
	"terra/settle"
)

// PlanetOptions configures NewPlanet.
type PlanetOptions struct {
	Radius      gfx.Scalar
	Tilt        gfx.Scalar
	MarkerScale gfx.Scalar
	Markers     []MarkerRecord

	Textures *loader.TextureSet
	// Images resolves marker thumbnails.
	Images loader.Source

	Log         zerolog.Logger
	Metrics     *metrics.Collector
	Concurrency int
}

// Planet is the globe: surface, night lights, clouds, atmosphere, and the
// marker group.
type Planet struct {
	opts PlanetOptions

	root    *gfx.Node
	earth   *gfx.Node
	atm     *gfx.Node
	markers *gfx.Node

	surface *gfx.Node
	night   *gfx.Node
	clouds  *gfx.Node

	nightTex *gfx.Texture
	built    []*Marker
}

// NewPlanet builds the planet subtree. Markers are built by Init.
func NewPlanet(opts PlanetOptions) *Planet {
	if opts.Radius == 0 {
		opts.Radius = PlanetRadius
	}
	if opts.MarkerScale == 0 {
		opts.MarkerScale = MarkerScaleDesktop
	}
	p := &Planet{opts: opts}

	p.root = gfx.NewNode("group")
	p.root.RotateZ(opts.Tilt)
	p.earth = gfx.NewNode(EarthGroup)
	p.atm = gfx.NewNode(AtmGroup)
	p.markers = gfx.NewNode(MarkerGroup)
	p.markers.Visible = false
	p.root.Add(p.earth, p.atm, p.markers)

	set := opts.Textures
	R := opts.Radius

	p.nightTex = set.Get(loader.NightTexture)
	p.night = gfx.NewMeshNode("night_earth", gfx.Sphere(R+0.1, 64, 64), &gfx.Material{
		Opacity:      0.5,
		Transparent:  true,
		NoDepthWrite: true,
		Shader:       p.nightShader,
	})
	p.earth.Add(p.night)

	p.surface = gfx.NewMeshNode("earth", gfx.Sphere(R, 64, 64), &gfx.Material{
		Map:          set.Get(loader.DayTexture),
		BumpMap:      set.Get(loader.Elevation),
		RoughnessMap: set.Get(loader.Reflectivity),
		Opacity:      1,
		Lit:          true,
	})
	p.earth.Add(p.surface)

	glow := gfx.NewSpriteNode("glow", &gfx.Material{
		Color:        gfx.Hex(0x4390d1),
		Map:          set.Get(loader.Glow),
		Opacity:      0.2,
		Transparent:  true,
		Blending:     gfx.BlendAdditive,
		NoDepthWrite: true,
	})
	glow.Scale = gfx.V3(R*3, R*3, 1)
	p.atm.Add(glow)

	clouds := set.Get(loader.CloudsDay)
	p.clouds = gfx.NewMeshNode("clouds", gfx.Sphere(R+0.6, 64, 64), &gfx.Material{
		Map:         clouds,
		AlphaMap:    clouds,
		Opacity:     1,
		Transparent: true,
		Lit:         true,
	})
	p.earth.Add(p.clouds)

	p.atm.Add(gfx.NewMeshNode("aperture", gfx.Sphere(R+0.7, 64, 64), &gfx.Material{
		Opacity:      1,
		Transparent:  true,
		NoDepthWrite: true,
		Shader:       apertureShader(gfx.Hex(0x66ccff), 1, 3),
	}))
	return p
}

func (p *Planet) Root() *gfx.Node { return p.root }

// Group returns the named child group (EarthGroup, AtmGroup, MarkerGroup).
func (p *Planet) Group(name string) *gfx.Node {
	switch name {
	case EarthGroup:
		return p.earth
	case AtmGroup:
		return p.atm
	case MarkerGroup:
		return p.markers
	}
	return nil
}

// Markers returns the markers built by Init.
func (p *Planet) Markers() []*Marker { return p.built }

// MarkerScale is the rest scale of marker labels.
func (p *Planet) MarkerScale() gfx.Scalar { return p.opts.MarkerScale }

// Init builds every marker concurrently. A marker whose thumbnail fails is
// logged and skipped; the rest are attached. Init must run before the planet
// is attached to a rendered scene.
func (p *Planet) Init(ctx context.Context) error {
	log := p.opts.Log
	column := p.opts.Textures.Get(loader.LightColumn)
	limit := p.opts.Concurrency
	if limit <= 0 {
		limit = 4
	}

	outcomes := settle.All(ctx, p.opts.Markers,
		func(r MarkerRecord) string { return r.ID },
		func(ctx context.Context, r MarkerRecord) (*Marker, error) {
			return BuildMarker(ctx, p.opts.Images, r, p.opts.Radius, p.opts.MarkerScale, column)
		}, limit)

	for _, o := range outcomes {
		p.opts.Metrics.RecordMarkerBuild(o.Err)
		if o.Err != nil {
			log.Warn().Err(o.Err).Str("marker", o.ID).Msg("marker skipped")
		}
	}
	p.built = settle.Values(outcomes)
	for _, m := range p.built {
		p.markers.Add(m.Pillar)
	}
	for _, m := range p.built {
		p.markers.Add(m.Label)
	}
	log.Info().
		Int("built", len(p.built)).
		Int("total", len(p.opts.Markers)).
		Msg("markers ready")
	return ctx.Err()
}

// ApplyHighQuality swaps high-quality textures into the existing materials.
// Assets missing from set keep their current texture.
func (p *Planet) ApplyHighQuality(set *loader.TextureSet) {
	cm := p.clouds.Mesh.Material
	swap(&cm.Map, set.Get(loader.CloudsDay))
	swap(&cm.AlphaMap, set.Get(loader.CloudsDay))

	swap(&p.nightTex, set.Get(loader.NightTexture))

	sm := p.surface.Mesh.Material
	swap(&sm.Map, set.Get(loader.DayTexture))
	swap(&sm.BumpMap, set.Get(loader.Elevation))
	swap(&sm.RoughnessMap, set.Get(loader.Reflectivity))
}

// nightShader shows city lights on the side facing away from the light.
func (p *Planet) nightShader(f *gfx.Fragment) gfx.Color {
	l := gfx.Normalize(f.Uniforms.LightPosition.Sub(f.Position))
	d := gfx.Dot(f.Normal, l)
	// Fade in across the terminator.
	k := smoothstep(0.1, -0.2, d)
	if k <= 0 {
		return gfx.Color{}
	}
	if p.nightTex == nil {
		return gfx.Color{}
	}
	c := p.nightTex.Sample(f.UV)
	return c.WithAlpha(uint8(k * 255))
}

// apertureShader is a rim glow that brightens on the lit side.
func apertureShader(glow gfx.Color, coefficient, power gfx.Scalar) gfx.Shader {
	return func(f *gfx.Fragment) gfx.Color {
		view := gfx.Normalize(f.Position.Sub(f.Uniforms.CameraPosition))
		rim := coefficient + gfx.Dot(f.Normal, view)
		if rim <= 0 {
			return gfx.Color{}
		}
		intensity := gfx.Clamp01(gfx.Scalar(math.Pow(float64(rim), float64(power))))
		l := gfx.Normalize(f.Uniforms.LightPosition.Sub(f.Position))
		intensity *= 0.35 + 0.65*gfx.Clamp01(gfx.Dot(f.Normal, l)+0.3)
		return glow.WithAlpha(uint8(intensity * 255))
	}
}

func smoothstep(e0, e1, x gfx.Scalar) gfx.Scalar {
	t := gfx.Clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}
