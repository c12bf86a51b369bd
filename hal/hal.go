package hal

import (
	"errors"
	"image"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// Framebuffer is an RGBA pixel buffer plus a "present" hook.
//
// The loop draws into Image and calls Present; the window copies the last
// presented frame to the screen.
type Framebuffer interface {
	Width() int
	Height() int
	Image() *image.RGBA
	// Resize reallocates the buffer when the size changed.
	Resize(w, h int)
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeySpace
	KeyH
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerKind distinguishes pointer events.
type PointerKind uint8

const (
	PointerDown PointerKind = iota + 1
	PointerMove
	PointerUp
	PointerWheel
)

// PointerButton identifies a mouse button.
type PointerButton uint8

const (
	ButtonLeft PointerButton = iota
	ButtonRight
	ButtonMiddle
)

// PointerEvent is a mouse or touch event in framebuffer pixels.
type PointerEvent struct {
	Kind   PointerKind
	X, Y   int
	Button PointerButton
	Touch  bool
	// WheelY is the vertical wheel delta for PointerWheel.
	WheelY float64
}

// Pointer provides mouse and touch events.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer and pointer affordance.
type Display interface {
	Framebuffer() Framebuffer
	// Size is the mount box in logical pixels. The framebuffer follows it
	// at ScaleFactor device pixels per logical pixel once the loop resizes.
	Size() (w, h int)
	// SetCursor switches between the default and the pointing cursor.
	SetCursor(pointer bool)
	// ScaleFactor is the device pixel ratio.
	ScaleFactor() float64
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// Time provides a base tick stream.
//
// The tick duration is platform-defined; higher-level timers live in userland.
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the only contact point between the globe and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
}
