//go:build !tinygo && cgo

package hal

import "testing"

func TestLayoutRecordsLogicalBox(t *testing.T) {
	h := newHost(HostConfig{Width: 10, Height: 5, Logger: lineRecorder{lines: new([]string)}})
	h.setScaleFactor(2)
	g := &hostGame{h: h, ratio: 2}

	w, ht := g.Layout(30, 20)
	if w != 60 || ht != 40 {
		t.Fatalf("screen = %dx%d", w, ht)
	}
	if w, ht := h.Display().Size(); w != 30 || ht != 20 {
		t.Fatalf("mount box = %dx%d", w, ht)
	}

	if w, ht := g.Layout(0, 0); w != 2 || ht != 2 {
		t.Fatalf("empty screen = %dx%d", w, ht)
	}
}
