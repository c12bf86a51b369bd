package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObserveEmitsOncePerChange(t *testing.T) {
	o := NewObserver(1)
	var got []Event
	o.Subscribe(func(e Event) { got = append(got, e) })

	assert.True(t, o.Observe(800, 600))
	assert.False(t, o.Observe(800, 600))
	assert.True(t, o.Observe(1200, 800))
	assert.False(t, o.Observe(0, 800))

	assert.Equal(t, []Event{{800, 600}, {1200, 800}}, got)
	assert.InDelta(t, 1.5, got[1].Aspect(), 1e-9)
	w, h := o.Size()
	assert.Equal(t, 1200, w)
	assert.Equal(t, 800, h)
}

func TestObserveLogicalAppliesPixelRatio(t *testing.T) {
	o := NewObserver(2)
	var got Event
	o.Subscribe(func(e Event) { got = e })

	o.ObserveLogical(400, 300)
	assert.Equal(t, Event{Width: 800, Height: 600}, got)
}

func TestPixelRatioChangeResizes(t *testing.T) {
	o := NewObserver(1)
	var got []Event
	o.Subscribe(func(e Event) { got = append(got, e) })

	assert.True(t, o.ObserveLogical(400, 300))
	o.SetPixelRatio(1.5)
	o.SetPixelRatio(-1)
	assert.Equal(t, 1.5, o.PixelRatio())
	assert.True(t, o.ObserveLogical(400, 300))
	assert.False(t, o.ObserveLogical(400, 300))

	assert.Equal(t, []Event{{400, 300}, {600, 450}}, got)
}

func TestSubscribeDuringEmit(t *testing.T) {
	o := NewObserver(1)
	var late []Event
	o.Subscribe(func(Event) {
		o.Subscribe(func(e Event) { late = append(late, e) })
	})

	o.Observe(10, 10)
	assert.Empty(t, late)
	o.Observe(20, 10)
	assert.Equal(t, []Event{{20, 10}}, late)
}
