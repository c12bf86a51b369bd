//go:build !tinygo

package hal

type hostPointer struct {
	ch chan PointerEvent

	lastX, lastY int
	touches      map[int]struct{}
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 256), touches: map[int]struct{}{}}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

func (p *hostPointer) emit(ev PointerEvent) {
	select {
	case p.ch <- ev:
	default:
	}
}
