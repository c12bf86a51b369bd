// Package viewport tracks the size of the drawing surface.
package viewport

import (
	"slices"
	"sync"
)

// Event reports a new device-pixel box.
type Event struct {
	Width  int
	Height int
}

// Aspect returns width / height.
func (e Event) Aspect() float32 {
	if e.Height == 0 {
		return 1
	}
	return float32(e.Width) / float32(e.Height)
}

// Observer tracks the mount box and notifies subscribers on change.
type Observer struct {
	mu     sync.Mutex
	width  int
	height int
	ratio  float64
	subs   []func(Event)
}

// NewObserver returns an observer with a device pixel ratio of ratio.
func NewObserver(ratio float64) *Observer {
	if ratio <= 0 {
		ratio = 1
	}
	return &Observer{ratio: ratio}
}

// Subscribe registers fn for future resize events.
func (o *Observer) Subscribe(fn func(Event)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subs = append(o.subs, fn)
}

// Size returns the last observed box.
func (o *Observer) Size() (w, h int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.width, o.height
}

// PixelRatio returns the device pixel ratio.
func (o *Observer) PixelRatio() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ratio
}

// SetPixelRatio updates the device pixel ratio used by ObserveLogical.
func (o *Observer) SetPixelRatio(ratio float64) {
	if ratio <= 0 {
		return
	}
	o.mu.Lock()
	o.ratio = ratio
	o.mu.Unlock()
}

// ObserveLogical records a box given in logical pixels.
func (o *Observer) ObserveLogical(w, h int) bool {
	r := o.PixelRatio()
	return o.Observe(int(float64(w)*r+0.5), int(float64(h)*r+0.5))
}

// Observe records a device-pixel box. It emits one Event when the size
// changed and reports whether it did. Empty boxes are ignored.
func (o *Observer) Observe(w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	o.mu.Lock()
	if w == o.width && h == o.height {
		o.mu.Unlock()
		return false
	}
	o.width, o.height = w, h
	subs := slices.Clone(o.subs)
	o.mu.Unlock()

	ev := Event{Width: w, Height: h}
	for _, fn := range subs {
		fn(ev)
	}
	return true
}
