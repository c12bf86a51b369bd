//go:build !tinygo

package hal

import (
	"image"
	"sync"
)

// hostFramebuffer double-buffers frames: the loop draws into img and Present
// copies it to the front buffer read by the window.
type hostFramebuffer struct {
	mu    sync.Mutex
	img   *image.RGBA
	front *image.RGBA
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	return &hostFramebuffer{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		front: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

func (f *hostFramebuffer) Width() int         { return f.img.Bounds().Dx() }
func (f *hostFramebuffer) Height() int        { return f.img.Bounds().Dy() }
func (f *hostFramebuffer) Image() *image.RGBA { return f.img }

func (f *hostFramebuffer) Resize(w, h int) {
	if w <= 0 || h <= 0 || (w == f.Width() && h == f.Height()) {
		return
	}
	f.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	pix := f.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = r
		pix[i+1] = g
		pix[i+2] = b
		pix[i+3] = 0xFF
	}
}

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.front.Bounds().Eq(f.img.Bounds()) {
		f.front = image.NewRGBA(f.img.Bounds())
	}
	copy(f.front.Pix, f.img.Pix)
	return nil
}

// snapshot copies the last presented frame into dst, reallocating it when the
// size changed.
func (f *hostFramebuffer) snapshot(dst *image.RGBA) *image.RGBA {
	f.mu.Lock()
	defer f.mu.Unlock()
	if dst == nil || !dst.Bounds().Eq(f.front.Bounds()) {
		dst = image.NewRGBA(f.front.Bounds())
	}
	copy(dst.Pix, f.front.Pix)
	return dst
}
