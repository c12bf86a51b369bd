//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var hostButtons = []struct {
	b   ebiten.MouseButton
	btn PointerButton
}{
	{ebiten.MouseButtonLeft, ButtonLeft},
	{ebiten.MouseButtonRight, ButtonRight},
	{ebiten.MouseButtonMiddle, ButtonMiddle},
}

// poll translates ebiten mouse and touch state into events. Coordinates are
// in framebuffer pixels because Layout reports the framebuffer size.
func (p *hostPointer) poll() {
	x, y := ebiten.CursorPosition()
	if x != p.lastX || y != p.lastY {
		p.lastX, p.lastY = x, y
		p.emit(PointerEvent{Kind: PointerMove, X: x, Y: y})
	}
	for _, hb := range hostButtons {
		if inpututil.IsMouseButtonJustPressed(hb.b) {
			p.emit(PointerEvent{Kind: PointerDown, X: x, Y: y, Button: hb.btn})
		}
		if inpututil.IsMouseButtonJustReleased(hb.b) {
			p.emit(PointerEvent{Kind: PointerUp, X: x, Y: y, Button: hb.btn})
		}
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		p.emit(PointerEvent{Kind: PointerWheel, X: x, Y: y, WheelY: wy})
	}

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		p.touches[int(id)] = struct{}{}
		p.emit(PointerEvent{Kind: PointerDown, X: tx, Y: ty, Touch: true})
	}
	for id := range p.touches {
		tid := ebiten.TouchID(id)
		if inpututil.IsTouchJustReleased(tid) {
			tx, ty := inpututil.TouchPositionInPreviousTick(tid)
			delete(p.touches, id)
			p.emit(PointerEvent{Kind: PointerUp, X: tx, Y: ty, Touch: true})
			continue
		}
		if inpututil.TouchPressDuration(tid) > 0 {
			tx, ty := ebiten.TouchPosition(tid)
			p.emit(PointerEvent{Kind: PointerMove, X: tx, Y: ty, Touch: true})
		}
	}
}
