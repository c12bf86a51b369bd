// Package universe orchestrates the globe: it loads the texture tiers,
// builds and attaches the bodies, runs the Far/Near zoom state machine, and
// turns pointer input into marker hover and click.
//
// Everything that touches the scene runs on the frame loop, which calls Step.
// Other goroutines hand work to the loop with Post.
package universe

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"terra/bodies"
	"terra/gfx"
	"terra/internal/metrics"
	"terra/loader"
	"terra/stage"
	"terra/viewport"
)

// ErrNotReady is returned by LoadHighQuality before Init completed.
var ErrNotReady = errors.New("universe: not initialized")

// Options configures New.
type Options struct {
	Width, Height int
	Mobile        bool
	Tilt          gfx.Scalar

	Markers []bodies.MarkerRecord

	Loader   *loader.Loader
	LQPrefix string
	HQPrefix string
	// Images resolves marker thumbnails. Defaults to the loader source.
	Images loader.Source

	// Viewport, when set, drives Resize.
	Viewport *viewport.Observer

	// OnClick receives the target URL of a clicked marker.
	OnClick func(url string)
	// Cursor switches the pointer affordance on or off.
	Cursor func(pointer bool)

	// Now is the wall clock used for astronomy. Defaults to time.Now.
	Now func() time.Time

	Log     zerolog.Logger
	Metrics *metrics.Collector
}

// State is a snapshot of the interaction state.
type State struct {
	Mode    Mode
	Hovered *gfx.Node
	Active  *gfx.Node
}

// Universe is the orchestrator.
type Universe struct {
	opts Options
	log  zerolog.Logger

	stage  *stage.Stage
	planet *bodies.Planet
	sun    *bodies.LightSource
	moon   *bodies.Satellite
	stars  *bodies.Starfield

	markers     *gfx.Node
	markerScale gfx.Scalar

	zoom    zoom
	hovered *gfx.Node
	active  *gfx.Node
	scales  map[*gfx.Node]*scaleTween
	cursor  bool

	ray     gfx.Raycaster
	pointer gfx.Vec2
	press   pressState
	drag    dragState

	mail      mailbox
	ready     chan struct{}
	readyOnce bool
	hqStarted atomic.Bool
	attached  atomic.Bool
}

// New creates the stage. Nothing is loaded until Init.
func New(opts Options) *Universe {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LQPrefix == "" {
		opts.LQPrefix = "images/lq/"
	}
	if opts.HQPrefix == "" {
		opts.HQPrefix = "images/hq/"
	}
	if opts.Images == nil && opts.Loader != nil {
		opts.Images = opts.Loader.Source
	}
	scale := gfx.Scalar(bodies.MarkerScaleDesktop)
	if opts.Mobile {
		scale = bodies.MarkerScaleMobile
	}

	u := &Universe{
		opts:        opts,
		log:         opts.Log,
		markerScale: scale,
		scales:      make(map[*gfx.Node]*scaleTween),
		ready:       make(chan struct{}),
	}
	u.stage = stage.New(stage.Options{
		Width:   opts.Width,
		Height:  opts.Height,
		Tilt:    opts.Tilt,
		Log:     opts.Log,
		Metrics: opts.Metrics,
	})
	u.stage.Controls.OnChange(u.onControlsChange)

	if opts.Viewport != nil {
		opts.Viewport.Subscribe(func(e viewport.Event) {
			u.Post(func() { u.Resize(e.Width, e.Height) })
		})
	}
	return u
}

// Stage exposes the scene manager.
func (u *Universe) Stage() *stage.Stage { return u.stage }

// Planet returns the planet once attached.
func (u *Universe) Planet() *bodies.Planet { return u.planet }

// State returns the current interaction state.
func (u *Universe) State() State {
	return State{Mode: u.zoom.mode, Hovered: u.hovered, Active: u.active}
}

// Ready is closed after the first frame with the bodies attached.
func (u *Universe) Ready() <-chan struct{} { return u.ready }

// Post queues fn to run on the frame loop at the start of the next Step.
func (u *Universe) Post(fn func()) { u.mail.push(fn) }

// Init loads the low-quality tier, builds every body, and attaches them on
// the frame loop. It returns after the first frame that shows them.
func (u *Universe) Init(ctx context.Context) error {
	if u.opts.Loader == nil {
		return errors.New("universe: init: no loader")
	}
	set := u.opts.Loader.LoadSync(ctx, loader.TierLow, u.opts.LQPrefix)
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := u.build(ctx, set)
	if err != nil {
		return err
	}
	u.Post(func() { u.attach(b) })

	select {
	case <-u.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type built struct {
	stars  *bodies.Starfield
	planet *bodies.Planet
	sun    *bodies.LightSource
	moon   *bodies.Satellite
}

func (b *built) bodies() []bodies.Body {
	return []bodies.Body{b.stars, b.planet, b.sun, b.moon}
}

// build constructs the bodies off the loop.
func (u *Universe) build(ctx context.Context, set *loader.TextureSet) (*built, error) {
	b := &built{
		stars: bodies.NewStarfield(bodies.StarsRadius, set),
		planet: bodies.NewPlanet(bodies.PlanetOptions{
			Tilt:        u.opts.Tilt,
			MarkerScale: u.markerScale,
			Markers:     u.opts.Markers,
			Textures:    set,
			Images:      u.opts.Images,
			Log:         u.log,
			Metrics:     u.opts.Metrics,
		}),
		sun:  bodies.NewLightSource(bodies.SunPosition),
		moon: bodies.NewSatellite(bodies.SatellitePosition, set),
	}
	for _, body := range b.bodies() {
		if err := body.Init(ctx); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// attach adds the bodies to the scene and binds the astronomy handles. It
// runs on the loop.
func (u *Universe) attach(b *built) {
	u.stars, u.planet, u.sun, u.moon = b.stars, b.planet, b.sun, b.moon
	for _, body := range b.bodies() {
		u.stage.Attach(body.Root())
	}
	u.stage.BindLight(u.sun.Anchor())
	u.stage.BindSatellite(u.moon.Anchor())
	u.markers = u.planet.Group(bodies.MarkerGroup)
	u.attached.Store(true)
	u.log.Info().Int("markers", len(u.planet.Markers())).Msg("universe attached")
}

// LoadHighQuality loads the high-quality tier and swaps it into the existing
// materials on the loop. It returns once the swap is applied. Only the first
// call loads; later calls return nil at once.
func (u *Universe) LoadHighQuality(ctx context.Context) error {
	if !u.attached.Load() {
		return ErrNotReady
	}
	if !u.hqStarted.CompareAndSwap(false, true) {
		return nil
	}
	applied := make(chan struct{})
	u.opts.Loader.Load(ctx, loader.TierHigh, u.opts.HQPrefix, func(set *loader.TextureSet) {
		u.Post(func() {
			u.applyHighQuality(set)
			close(applied)
		})
	})
	select {
	case <-applied:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (u *Universe) applyHighQuality(set *loader.TextureSet) {
	u.stars.ApplyHighQuality(set)
	u.planet.ApplyHighQuality(set)
	u.log.Info().Int("textures", set.Len()).Msg("high quality applied")
}

// StartRotation resumes auto rotation.
func (u *Universe) StartRotation() { u.stage.Controls.AutoRotateSpeed = stage.AutoRotateSpeed }

// StopRotation halts auto rotation.
func (u *Universe) StopRotation() { u.stage.Controls.AutoRotateSpeed = 0 }

// Rotating reports whether auto rotation is running.
func (u *Universe) Rotating() bool { return u.stage.Controls.AutoRotateSpeed != 0 }

func (u *Universe) ShowMarkers() {
	if u.markers != nil {
		u.markers.Visible = true
	}
}

func (u *Universe) HideMarkers() {
	if u.markers != nil {
		u.markers.Visible = false
	}
}

// Resize reacts to a new viewport size.
func (u *Universe) Resize(w, h int) { u.stage.Resize(w, h) }

// Step runs one frame: queued work, tweens, controls, astronomy, render.
func (u *Universe) Step(dt time.Duration) {
	u.mail.drain()
	sec := gfx.Scalar(dt.Seconds())
	if u.planet != nil {
		u.advanceZoom(sec)
		u.advanceScales(sec)
	}
	u.stage.Frame(u.opts.Now(), dt)
	if u.planet != nil && !u.readyOnce {
		u.readyOnce = true
		close(u.ready)
	}
}
