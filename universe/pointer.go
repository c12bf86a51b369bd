package universe

import (
	"context"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"terra/bodies"
	"terra/gfx"
)

// Interaction parameters.
const (
	// PickGuardRadius is the UV distance from the label center within which
	// a hit counts as the marker picture.
	PickGuardRadius = bodies.LabelGuardRadius
	// ClickThreshold is the pointer travel in pixels, per axis, above which
	// a press/release pair is a drag rather than a click.
	ClickThreshold = 10
	HoverDuration  = 0.5
	// ArrowStep is the orbit nudge of one arrow key press, in pixels of drag.
	ArrowStep = 24
)

// Button identifies a pointer button.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Key is a keyboard shortcut.
type Key uint8

const (
	KeyNone Key = iota
	KeyEnter
	KeyEscape
	KeySpace
	KeyH
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

type pressState struct {
	x, y int
	down bool
}

type dragState struct {
	x, y   int
	button Button
	active bool
}

type scaleTween struct {
	tween  *gween.Tween
	target gfx.Scalar
}

// HoverFactor is the scale multiplier of a hovered marker seen from camera
// distance d.
func HoverFactor(d gfx.Scalar) gfx.Scalar { return 1 + (d-100)/40 }

// PointerDown records a press at pixel (x, y).
func (u *Universe) PointerDown(x, y int, b Button) {
	u.press = pressState{x: x, y: y, down: true}
	u.drag = dragState{x: x, y: y, button: b, active: true}
}

// PointerMove updates the pointer, drags the view while a button is held,
// and re-evaluates hover.
func (u *Universe) PointerMove(x, y int) {
	if u.drag.active {
		_, h := u.stage.Size()
		dx, dy := gfx.Scalar(x-u.drag.x), gfx.Scalar(y-u.drag.y)
		switch u.drag.button {
		case ButtonLeft:
			u.stage.Controls.Rotate(dx, dy, h)
		case ButtonRight, ButtonMiddle:
			u.stage.Controls.Pan(dx, dy, h)
		}
		u.drag.x, u.drag.y = x, y
	}
	u.pointer = u.stage.NDC(x, y)
	u.pick()
	u.hover()
}

// PointerUp completes a press. A release within ClickThreshold of the press
// on both axes is a click.
func (u *Universe) PointerUp(x, y int, _ Button) {
	u.drag.active = false
	if !u.press.down {
		return
	}
	u.press.down = false
	if abs(x-u.press.x) < ClickThreshold && abs(y-u.press.y) < ClickThreshold {
		u.click()
	}
}

// TouchStart begins a touch drag at (x, y).
func (u *Universe) TouchStart(x, y int) {
	u.drag = dragState{x: x, y: y, button: ButtonLeft, active: true}
	u.PointerMove(x, y)
}

// TouchEnd always counts as a click.
func (u *Universe) TouchEnd() {
	u.drag.active = false
	u.click()
}

// Wheel zooms by wheel steps; positive moves closer.
func (u *Universe) Wheel(steps float64) {
	u.stage.Controls.Zoom(gfx.Scalar(steps))
}

// KeyPress runs a keyboard shortcut.
func (u *Universe) KeyPress(k Key) {
	switch k {
	case KeyEnter:
		u.EnterNear()
	case KeyEscape:
		u.ExitFar()
	case KeySpace:
		if u.Rotating() {
			u.StopRotation()
		} else {
			u.StartRotation()
		}
	case KeyLeft:
		u.nudge(-ArrowStep, 0)
	case KeyRight:
		u.nudge(ArrowStep, 0)
	case KeyUp:
		u.nudge(0, -ArrowStep)
	case KeyDown:
		u.nudge(0, ArrowStep)
	case KeyH:
		go func() {
			if err := u.LoadHighQuality(context.Background()); err != nil {
				u.log.Warn().Err(err).Msg("high quality load")
			}
		}()
	}
}

// nudge orbits the camera as if dragged by (dx, dy) pixels.
func (u *Universe) nudge(dx, dy gfx.Scalar) {
	_, h := u.stage.Size()
	u.stage.Controls.Rotate(dx, dy, h)
}

func (u *Universe) onControlsChange() {
	u.pick()
	u.hover()
}

// pick sets hovered to the marker under the pointer, if any. A nearest hit on
// the planet body itself hides everything behind it. Nothing is picked in Far.
func (u *Universe) pick() {
	u.hovered = nil
	if u.planet == nil || u.zoom.mode != Near {
		return
	}
	u.ray.SetFromCamera(u.pointer, u.stage.Camera)
	hits := u.ray.IntersectObject(u.planet.Root(), true)
	if len(hits) == 0 {
		return
	}
	if p := hits[0].Object.Parent(); p != nil && p.Name == bodies.EarthGroup {
		return
	}
	for _, h := range hits {
		if h.Object.Tag.Kind != bodies.KindMarker {
			continue
		}
		if h.UV.Sub(gfx.V2(0.5, 0.5)).Len() < PickGuardRadius {
			u.hovered = h.Object
			return
		}
	}
}

// hover grows the hovered marker and shrinks the previous one. It does
// nothing outside Near.
func (u *Universe) hover() {
	if u.zoom.mode != Near {
		return
	}
	if u.hovered == nil {
		u.unhover()
		return
	}
	if u.active != u.hovered {
		u.unhover()
	}
	factor := HoverFactor(u.stage.Controls.Distance())
	u.scaleTo(u.hovered, factor*u.markerScale)
	u.setCursor(true)
	u.active = u.hovered
}

func (u *Universe) unhover() {
	if u.active == nil {
		return
	}
	u.scaleTo(u.active, u.markerScale)
	u.setCursor(false)
	u.active = nil
}

func (u *Universe) click() {
	if u.zoom.mode != Near || u.active == nil {
		return
	}
	url := u.active.Tag.URL
	u.opts.Metrics.RecordMarkerClick()
	u.log.Info().Str("marker", u.active.Tag.ID).Str("url", url).Msg("marker click")
	if u.opts.OnClick != nil {
		u.opts.OnClick(url)
	}
}

func (u *Universe) setCursor(pointer bool) {
	if u.cursor == pointer {
		return
	}
	u.cursor = pointer
	if u.opts.Cursor != nil {
		u.opts.Cursor(pointer)
	}
}

// scaleTo tweens n's scale to s. A running tween toward the same target is
// left alone.
func (u *Universe) scaleTo(n *gfx.Node, s gfx.Scalar) {
	if st, ok := u.scales[n]; ok && math.Abs(float64(st.target-s)) < 1e-3 {
		return
	}
	if math.Abs(float64(n.Scale.X-s)) < 1e-3 {
		delete(u.scales, n)
		return
	}
	u.scales[n] = &scaleTween{
		tween:  gween.New(n.Scale.X, s, HoverDuration, ease.OutQuad),
		target: s,
	}
}

func (u *Universe) advanceScales(dt gfx.Scalar) {
	for n, st := range u.scales {
		v, done := st.tween.Update(dt)
		n.Scale = gfx.V3(v, v, n.Scale.Z)
		if done {
			delete(u.scales, n)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
