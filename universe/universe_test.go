package universe

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terra/astro"
	"terra/bodies"
	"terra/gfx"
	"terra/loader"
	"terra/viewport"
)

var testNow = time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)

func pngBytes(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func assetsFS(t *testing.T) fstest.MapFS {
	t.Helper()
	lq := pngBytes(t, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	hq := pngBytes(t, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	fsys := fstest.MapFS{
		"markers/front.png": {Data: lq},
		"markers/back.png":  {Data: lq},
	}
	for _, a := range loader.DefaultManifest() {
		fsys["images/lq/"+a.Path] = &fstest.MapFile{Data: lq}
		fsys["images/hq/"+a.Path] = &fstest.MapFile{Data: hq}
	}
	return fsys
}

var testMarkers = []bodies.MarkerRecord{
	{ID: "front", Name: "Front", ImageURL: "markers/front.png", TargetURL: "/front", Latitude: 10, Longitude: 20},
	{ID: "back", Name: "Back", ImageURL: "markers/back.png", TargetURL: "/back", Latitude: -10, Longitude: -100},
}

type harness struct {
	u       *Universe
	clicks  []string
	cursors []bool
}

func newHarness(t *testing.T, mutate ...func(*Options)) *harness {
	t.Helper()
	h := &harness{}
	opts := Options{
		Width:   64,
		Height:  48,
		Markers: testMarkers,
		Loader:  loader.New(loader.FSSource{FS: assetsFS(t)}, zerolog.Nop(), nil),
		OnClick: func(url string) { h.clicks = append(h.clicks, url) },
		Cursor:  func(p bool) { h.cursors = append(h.cursors, p) },
		Now:     func() time.Time { return testNow },
		Log:     zerolog.Nop(),
	}
	for _, m := range mutate {
		m(&opts)
	}
	h.u = New(opts)
	return h
}

// attached builds and attaches the bodies without a running loop.
func attached(t *testing.T, mutate ...func(*Options)) *harness {
	t.Helper()
	h := newHarness(t, mutate...)
	u := h.u
	set := u.opts.Loader.LoadSync(context.Background(), loader.TierLow, u.opts.LQPrefix)
	b, err := u.build(context.Background(), set)
	require.NoError(t, err)
	u.attach(b)
	return h
}

func (h *harness) advance(d time.Duration) {
	const step = 50 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		sec := gfx.Scalar(step.Seconds())
		h.u.advanceZoom(sec)
		h.u.advanceScales(sec)
	}
}

func (h *harness) label(id string) *gfx.Node {
	for _, m := range h.u.planet.Markers() {
		if m.Record.ID == id {
			return m.Label
		}
	}
	return nil
}

// aimAt puts the camera outside the marker's label looking at the globe
// center and the pointer at the middle of the view.
func (h *harness) aimAt(rec bodies.MarkerRecord) {
	u := h.u
	dir := u.planet.Root().World().TransformDir(astro.ToCartesian(1, rec.Longitude, rec.Latitude))
	u.stage.Camera.Position = gfx.Normalize(dir).Mul(300)
	u.stage.Camera.Target = gfx.Vec3{}
	u.pointer = gfx.V2(0.001, 0.0005)
}

func TestEnterNearSetsModeAtStart(t *testing.T) {
	h := attached(t)
	u := h.u
	markers := u.planet.Group(bodies.MarkerGroup)
	require.False(t, markers.Visible)

	u.EnterNear()
	assert.Equal(t, Near, u.State().Mode)
	assert.True(t, markers.Visible)
	assert.True(t, u.zoom.busy())

	// Requests during a transition are ignored.
	first := u.zoom.active
	u.EnterNear()
	u.ExitFar()
	assert.Same(t, first, u.zoom.active)
	assert.Equal(t, Near, u.State().Mode)

	h.advance(1100 * time.Millisecond)
	assert.False(t, u.zoom.busy())
	assert.InDelta(t, NearDistance, u.stage.Controls.Distance(), 0.5)
	assert.Equal(t, gfx.Scalar(1), h.label("front").Material().Opacity)

	// Already Near.
	u.EnterNear()
	assert.False(t, u.zoom.busy())
}

func TestExitFarHidesOnlyOnCompletion(t *testing.T) {
	h := attached(t)
	u := h.u
	markers := u.planet.Group(bodies.MarkerGroup)

	u.ExitFar()
	assert.False(t, u.zoom.busy(), "already far")

	u.EnterNear()
	h.advance(1100 * time.Millisecond)

	u.ExitFar()
	assert.Equal(t, Far, u.State().Mode)
	assert.True(t, markers.Visible)

	h.advance(500 * time.Millisecond)
	assert.True(t, markers.Visible)
	assert.Less(t, h.label("front").Material().Opacity, gfx.Scalar(1))

	h.advance(600 * time.Millisecond)
	assert.False(t, markers.Visible)
	assert.InDelta(t, FarDistance, u.stage.Controls.Distance(), 0.5)
}

func nearWithActive(t *testing.T) (*harness, *gfx.Node) {
	h := attached(t)
	label := h.label("front")
	require.NotNil(t, label)
	h.u.zoom.mode = Near
	h.u.active = label
	return h, label
}

func TestClickThreshold(t *testing.T) {
	h, _ := nearWithActive(t)
	u := h.u

	u.PointerDown(100, 100, ButtonLeft)
	u.PointerUp(109, 91, ButtonLeft)
	assert.Equal(t, []string{"/front"}, h.clicks)

	u.PointerDown(100, 100, ButtonLeft)
	u.PointerUp(111, 100, ButtonLeft)
	u.PointerDown(100, 100, ButtonLeft)
	u.PointerUp(100, 90, ButtonLeft)
	assert.Len(t, h.clicks, 1)

	// A release without a press is not a click.
	u.PointerUp(100, 100, ButtonLeft)
	assert.Len(t, h.clicks, 1)
}

func TestTouchEndAlwaysClicks(t *testing.T) {
	h, _ := nearWithActive(t)
	h.u.TouchEnd()
	h.u.TouchEnd()
	assert.Equal(t, []string{"/front", "/front"}, h.clicks)
}

func TestClickIgnoredInFar(t *testing.T) {
	h, _ := nearWithActive(t)
	h.u.zoom.mode = Far
	h.u.TouchEnd()
	h.u.PointerDown(5, 5, ButtonLeft)
	h.u.PointerUp(5, 5, ButtonLeft)
	assert.Empty(t, h.clicks)

	h.u.zoom.mode = Near
	h.u.active = nil
	h.u.TouchEnd()
	assert.Empty(t, h.clicks)
}

func TestHoverScalesMarker(t *testing.T) {
	h := attached(t)
	u := h.u
	u.zoom.mode = Near
	u.ShowMarkers()
	label := h.label("front")

	h.aimAt(testMarkers[0])
	u.pick()
	require.Same(t, label, u.State().Hovered)
	u.hover()
	assert.Same(t, label, u.State().Active)
	assert.Equal(t, []bool{true}, h.cursors)

	want := HoverFactor(u.stage.Controls.Distance()) * bodies.MarkerScaleDesktop
	h.advance(600 * time.Millisecond)
	assert.InDelta(t, want, label.Scale.X, 1e-2)
	assert.InDelta(t, want, label.Scale.Y, 1e-2)

	// Moving off the marker shrinks it back.
	u.pointer = gfx.V2(0.99, 0.99)
	u.pick()
	u.hover()
	assert.Nil(t, u.State().Active)
	assert.Equal(t, []bool{true, false}, h.cursors)
	h.advance(600 * time.Millisecond)
	assert.InDelta(t, bodies.MarkerScaleDesktop, label.Scale.X, 1e-2)
}

func TestPickAndHoverIgnoredInFar(t *testing.T) {
	h := attached(t)
	u := h.u
	u.ShowMarkers()
	h.aimAt(testMarkers[0])
	u.pick()
	assert.Nil(t, u.State().Hovered)
	u.hover()
	assert.Nil(t, u.State().Active)
	assert.Empty(t, h.cursors)
}

func TestPickStopsDuringExitFade(t *testing.T) {
	h := attached(t)
	u := h.u
	u.EnterNear()
	h.advance(1100 * time.Millisecond)

	h.aimAt(testMarkers[0])
	u.pick()
	require.Same(t, h.label("front"), u.State().Hovered)

	u.ExitFar()
	require.True(t, u.zoom.busy())
	require.True(t, u.planet.Group(bodies.MarkerGroup).Visible)
	h.aimAt(testMarkers[0])
	u.pick()
	assert.Nil(t, u.State().Hovered)
	assert.Equal(t, Far, u.State().Mode)
}

func TestPickVetoedByPlanetBody(t *testing.T) {
	h := attached(t)
	u := h.u
	u.zoom.mode = Near
	u.ShowMarkers()
	u.planet.Group(bodies.AtmGroup).Visible = false

	// Looking through the globe at the far-side marker.
	back := testMarkers[1]
	h.aimAt(back)
	u.stage.Camera.Position = u.stage.Camera.Position.Neg()
	u.pick()
	assert.Nil(t, u.State().Hovered)

	h.aimAt(back)
	u.pick()
	assert.Same(t, h.label("back"), u.State().Hovered)
}

func TestMobileMarkerScale(t *testing.T) {
	h := attached(t, func(o *Options) { o.Mobile = true })
	assert.Equal(t, gfx.Scalar(bodies.MarkerScaleMobile), h.label("front").Scale.X)
}

func TestRotationToggle(t *testing.T) {
	h := newHarness(t)
	u := h.u
	assert.True(t, u.Rotating())
	u.KeyPress(KeySpace)
	assert.Equal(t, gfx.Scalar(0), u.stage.Controls.AutoRotateSpeed)
	u.StartRotation()
	assert.Equal(t, gfx.Scalar(0.5), u.stage.Controls.AutoRotateSpeed)
}

func TestArrowKeysOrbit(t *testing.T) {
	h := newHarness(t)
	u := h.u
	u.StopRotation()
	ctl := u.stage.Controls
	ctl.Update(0)
	start := u.stage.Camera.Position

	u.KeyPress(KeyLeft)
	ctl.Update(0.016)
	moved := u.stage.Camera.Position
	assert.NotEqual(t, start, moved)
	assert.InDelta(t, start.Y, moved.Y, 1e-3)
	assert.InDelta(t, gfx.Len(start), gfx.Len(moved), 1e-2)

	for i := 0; i < 200; i++ {
		ctl.Update(0.016)
	}
	before := u.stage.Camera.Position
	u.KeyPress(KeyDown)
	ctl.Update(0.016)
	assert.NotEqual(t, before.Y, u.stage.Camera.Position.Y)
}

func TestResizeFromViewport(t *testing.T) {
	obs := viewport.NewObserver(1)
	h := newHarness(t, func(o *Options) { o.Viewport = obs })
	obs.Observe(1200, 800)
	h.u.mail.drain()
	assert.InDelta(t, 1.5, h.u.stage.Camera.Aspect, 1e-6)
	assert.Equal(t, gfx.Scalar(45), h.u.stage.Camera.FOV)
}

func runLoop(t *testing.T, u *Universe, done <-chan error) {
	t.Helper()
	deadline := time.After(30 * time.Second)
	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			return
		case <-deadline:
			t.Fatal("loop timed out")
		default:
		}
		u.Step(16 * time.Millisecond)
		time.Sleep(time.Millisecond)
	}
}

func TestInitAndHighQuality(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.Width, o.Height = 16, 12 })
	u := h.u
	ctx := context.Background()

	assert.ErrorIs(t, u.LoadHighQuality(ctx), ErrNotReady)

	done := make(chan error, 1)
	go func() { done <- u.Init(ctx) }()
	runLoop(t, u, done)

	select {
	case <-u.Ready():
	default:
		t.Fatal("ready not closed")
	}
	require.NotNil(t, u.Planet())
	assert.Len(t, u.Planet().Markers(), 2)

	earth := u.Planet().Group(bodies.EarthGroup).Find("earth")
	require.NotNil(t, earth)
	assert.Equal(t, uint8(200), earth.Mesh.Material.Map.Pix[0].R)

	go func() { done <- u.LoadHighQuality(ctx) }()
	runLoop(t, u, done)
	assert.Equal(t, uint8(10), earth.Mesh.Material.Map.Pix[0].R)

	// Only the first call loads.
	assert.NoError(t, u.LoadHighQuality(ctx))
}

func TestMailboxDrainsNested(t *testing.T) {
	var mb mailbox
	var order []int
	mb.push(func() {
		order = append(order, 1)
		mb.push(func() { order = append(order, 2) })
	})
	mb.drain()
	assert.Equal(t, []int{1, 2}, order)
}
