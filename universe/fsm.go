package universe

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"terra/gfx"
)

// Mode is the zoom mode. Markers are pickable only in Near.
type Mode uint8

const (
	Far Mode = iota
	Near
)

func (m Mode) String() string {
	if m == Near {
		return "near"
	}
	return "far"
}

// Zoom transition parameters.
const (
	NearDistance       = 260
	FarDistance        = 781
	TransitionDuration = 1.0
)

// transition animates camera distance and marker opacity together.
type transition struct {
	to       Mode
	distance *gween.Tween
	opacity  *gween.Tween
	done     func()
}

// zoom is the Far/Near state machine. The mode flips when a transition
// starts; a transition in flight blocks further requests.
type zoom struct {
	mode   Mode
	active *transition
}

func (z *zoom) busy() bool { return z.active != nil }

// begin starts a transition to mode from the current distance and opacity.
// It reports false when already in mode or while a transition is running.
func (z *zoom) begin(to Mode, fromDist, toDist, fromOpacity, toOpacity gfx.Scalar, done func()) bool {
	if z.mode == to || z.active != nil {
		return false
	}
	z.mode = to
	z.active = &transition{
		to:       to,
		distance: gween.New(fromDist, toDist, TransitionDuration, ease.OutQuad),
		opacity:  gween.New(fromOpacity, toOpacity, TransitionDuration, ease.OutQuad),
		done:     done,
	}
	return true
}

// advance steps the running transition by dt seconds and applies its values.
func (z *zoom) advance(dt gfx.Scalar, setDistance, setOpacity func(gfx.Scalar)) {
	t := z.active
	if t == nil {
		return
	}
	d, _ := t.distance.Update(dt)
	o, finished := t.opacity.Update(dt)
	setDistance(d)
	setOpacity(o)
	if !finished {
		return
	}
	z.active = nil
	if t.done != nil {
		t.done()
	}
}

// EnterNear zooms in and reveals the markers. The mode is Near from the
// first frame of the animation.
func (u *Universe) EnterNear() {
	if u.planet == nil {
		return
	}
	dist := u.stage.Controls.Distance()
	if !u.zoom.begin(Near, dist, NearDistance, 0, 1, nil) {
		return
	}
	u.ShowMarkers()
	u.markers.SetOpacity(0)
	u.opts.Metrics.RecordTransition(Near.String())
	u.log.Debug().Msg("enter near")
}

// ExitFar zooms out and fades the markers. They are hidden once the fade
// completes.
func (u *Universe) ExitFar() {
	if u.planet == nil {
		return
	}
	dist := u.stage.Controls.Distance()
	if !u.zoom.begin(Far, dist, FarDistance, 1, 0, u.HideMarkers) {
		return
	}
	u.hovered = nil
	u.unhover()
	u.opts.Metrics.RecordTransition(Far.String())
	u.log.Debug().Msg("exit far")
}

func (u *Universe) advanceZoom(dt gfx.Scalar) {
	u.zoom.advance(dt, u.stage.Controls.SetDistance, u.markers.SetOpacity)
}
