//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

type hostHAL struct {
	logger Logger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	ptr    *hostPointer
	t      *hostTime

	cursor atomic.Bool
	scale  atomic.Uint64
	boxW   atomic.Int32
	boxH   atomic.Int32
}

// HostConfig sizes the host framebuffer and picks its logger.
type HostConfig struct {
	Width, Height int
	// Logger receives HAL log lines. Defaults to stdout.
	Logger Logger
}

// New returns a host HAL implementation.
func New(cfg HostConfig) HAL {
	return newHost(cfg)
}

func newHost(cfg HostConfig) *hostHAL {
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 640
	}
	logger := cfg.Logger
	if logger == nil {
		logger = &hostLogger{w: os.Stdout}
	}
	h := &hostHAL{
		logger: logger,
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		kbd:    newHostKeyboard(),
		ptr:    newHostPointer(),
		t:      newHostTime(),
	}
	h.setScaleFactor(1)
	h.setSize(cfg.Width, cfg.Height)
	return h
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{h: h} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd, ptr: h.ptr} }
func (h *hostHAL) Time() Time       { return h.t }

func (h *hostHAL) setScaleFactor(f float64) {
	if f <= 0 {
		f = 1
	}
	h.scale.Store(uint64(f * 1000))
}

func (h *hostHAL) setSize(w, ht int) {
	h.boxW.Store(int32(w))
	h.boxH.Store(int32(ht))
}

type hostDisplay struct {
	h *hostHAL
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.h.fb }
func (d hostDisplay) SetCursor(pointer bool)   { d.h.cursor.Store(pointer) }
func (d hostDisplay) Size() (w, h int)         { return int(d.h.boxW.Load()), int(d.h.boxH.Load()) }
func (d hostDisplay) ScaleFactor() float64     { return float64(d.h.scale.Load()) / 1000 }

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
