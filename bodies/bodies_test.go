package bodies

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terra/gfx"
	"terra/loader"
)

func solidPNG(t *testing.T, c color.RGBA, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func lqSet() *loader.TextureSet {
	set := loader.NewTextureSet(loader.TierLow)
	for _, name := range loader.DefaultManifest().Names() {
		tex := gfx.SolidTexture(gfx.RGB(10, 20, 30))
		tex.Name = name
		set.Set(name, tex)
	}
	return set
}

func vecNear(a, b gfx.Vec3, tol float64) bool {
	return math.Abs(float64(a.X-b.X)) < tol &&
		math.Abs(float64(a.Y-b.Y)) < tol &&
		math.Abs(float64(a.Z-b.Z)) < tol
}

func TestPlanetInitSkipsFailedMarker(t *testing.T) {
	thumb := solidPNG(t, color.RGBA{R: 255, A: 255}, 8, 8)
	images := fstest.MapFS{
		"markers/a.png": {Data: thumb},
		"markers/c.png": {Data: thumb},
	}
	var logs bytes.Buffer
	p := NewPlanet(PlanetOptions{
		Tilt:     PlanetTilt,
		Textures: lqSet(),
		Images:   loader.FSSource{FS: images},
		Log:      zerolog.New(&logs),
		Markers: []MarkerRecord{
			{ID: "a", Name: "Alpha", ImageURL: "markers/a.png", TargetURL: "/a", Latitude: 10, Longitude: 20},
			{ID: "b", Name: "Beta", ImageURL: "markers/missing.png", TargetURL: "/b"},
			{ID: "c", Name: "Gamma", ImageURL: "markers/c.png", TargetURL: "/c", Latitude: -30, Longitude: 100},
		},
	})

	require.NoError(t, p.Init(context.Background()))

	built := p.Markers()
	require.Len(t, built, 2)
	assert.Equal(t, "a", built[0].Record.ID)
	assert.Equal(t, "c", built[1].Record.ID)
	assert.Len(t, p.Group(MarkerGroup).Children(), 4)
	assert.Contains(t, logs.String(), `"marker":"b"`)

	label := built[0].Label
	assert.Equal(t, KindMarker, label.Tag.Kind)
	assert.Equal(t, "/a", label.Tag.URL)
	assert.Equal(t, gfx.V3(MarkerScaleDesktop, MarkerScaleDesktop, 1), label.Scale)
}

func TestPlanetStructure(t *testing.T) {
	p := NewPlanet(PlanetOptions{Tilt: PlanetTilt, Textures: lqSet()})
	root := p.Root()

	for _, name := range []string{EarthGroup, AtmGroup, MarkerGroup} {
		g := root.Find(name)
		require.NotNil(t, g, name)
		assert.Same(t, root, g.Parent())
	}
	assert.False(t, p.Group(MarkerGroup).Visible)
	assert.True(t, p.Group(EarthGroup).Visible)

	// Tilt is a rotation about Z.
	up := root.Rotation.Rotate(gfx.V3(0, 1, 0))
	assert.InDelta(t, -math.Sin(PlanetTilt), up.X, 1e-5)
	assert.InDelta(t, math.Cos(PlanetTilt), up.Y, 1e-5)
}

func TestPillarStandsOnSurface(t *testing.T) {
	const lat, lon = 35.0, -120.0
	pillar := newPillar(PlanetRadius, lat, lon, nil)

	normal := gfx.Normalize(pillar.Position)
	assert.InDelta(t, PlanetRadius, gfx.Len(pillar.Position), 1e-3)
	assert.True(t, vecNear(pillar.Rotation.Rotate(gfx.V3(0, 0, 1)), normal, 1e-4))

	kids := pillar.Children()
	require.Len(t, kids, 2)
	assert.Same(t, kids[0].Mesh.Geometry, kids[1].Mesh.Geometry)

	// The top edge center sits one pillar height above the surface.
	h := gfx.Scalar(PlanetRadius * 0.27)
	top := pillar.World().TransformPoint(gfx.V3(0, 0, h))
	assert.True(t, vecNear(top, normal.Mul(PlanetRadius+h), 1e-2), "top=%v", top)
}

func TestLabelPosition(t *testing.T) {
	rec := MarkerRecord{ID: "x", Latitude: 0, Longitude: 0}
	label := newLabel(PlanetRadius, rec, nil, MarkerScaleMobile)
	assert.InDelta(t, PlanetRadius*1.001*1.3, label.Position.X, 1e-3)
	assert.InDelta(t, 0, label.Position.Z, 1e-4)
	assert.Equal(t, gfx.Scalar(MarkerScaleMobile), label.Scale.X)
}

func TestRenderLabel(t *testing.T) {
	thumb := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			thumb.SetRGBA(x, y, color.RGBA{G: 200, A: 255})
		}
	}
	img := RenderLabel(thumb, "A very long marker name that will not fit")

	assert.Equal(t, image.Rect(0, 0, LabelSize, LabelSize), img.Bounds())
	center := img.RGBAAt(LabelSize/2, LabelSize/2)
	assert.Equal(t, uint8(200), center.G)
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).A)

	// The ring stays inside the pick guard.
	edge := LabelSize/2 + int(LabelSize*0.25)
	assert.Equal(t, uint8(0), img.RGBAAt(edge, LabelSize/2).A)
}

func TestApplyHighQuality(t *testing.T) {
	p := NewPlanet(PlanetOptions{Textures: lqSet()})
	stars := NewStarfield(StarsRadius, lqSet())

	hq := loader.NewTextureSet(loader.TierHigh)
	day := gfx.SolidTexture(gfx.RGB(1, 2, 3))
	sky := gfx.SolidTexture(gfx.RGB(4, 5, 6))
	hq.Set(loader.DayTexture, day)
	hq.Set(loader.Stars, sky)

	before := p.surface.Mesh.Material.BumpMap
	p.ApplyHighQuality(hq)
	stars.ApplyHighQuality(hq)

	assert.Same(t, day, p.surface.Mesh.Material.Map)
	assert.Same(t, before, p.surface.Mesh.Material.BumpMap)
	assert.NotNil(t, p.clouds.Mesh.Material.AlphaMap)
	assert.Same(t, sky, stars.stars.Mesh.Material.Map)
}

func TestLightSourceAndSatellite(t *testing.T) {
	sun := NewLightSource(SunPosition)
	require.NotNil(t, sun.Light().Light)
	assert.Equal(t, gfx.Scalar(SunIntensity), sun.Light().Light.Intensity)
	assert.Equal(t, SunPosition, sun.Light().WorldPosition())

	moon := NewSatellite(SatellitePosition, lqSet())
	assert.Equal(t, "moon_group", moon.Root().Name)
	assert.Equal(t, SatellitePosition, moon.Anchor().Position)
	assert.NotNil(t, moon.Anchor().Mesh.Material.Map)
}

func TestNightSideWithoutNightTexture(t *testing.T) {
	set := lqSet()
	set.Set(loader.NightTexture, nil)
	p := NewPlanet(PlanetOptions{Textures: set})

	u := &gfx.Uniforms{LightPosition: gfx.V3(1000, 0, 0)}
	dark := &gfx.Fragment{
		Normal:   gfx.V3(-1, 0, 0),
		Position: gfx.V3(-PlanetRadius, 0, 0),
		Uniforms: u,
	}
	assert.Equal(t, gfx.Color{}, p.nightShader(dark))

	p.ApplyHighQuality(lqSet())
	c := p.nightShader(dark)
	assert.Equal(t, uint8(255), c.A)
	assert.Equal(t, uint8(10), c.R)
}
