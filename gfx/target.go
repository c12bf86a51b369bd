package gfx

import "image"

// Target is a minimal pixel target for software rendering.
//
// Implementations should clip out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Pixel(x, y int) Color
	Clear(c Color)
}

// RGBATarget renders into an *image.RGBA.
type RGBATarget struct {
	Img *image.RGBA
}

// NewRGBATarget allocates a w x h target.
func NewRGBATarget(w, h int) *RGBATarget {
	return &RGBATarget{Img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (t *RGBATarget) Size() (w, h int) {
	if t == nil || t.Img == nil {
		return 0, 0
	}
	b := t.Img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the backing image when the size changed.
func (t *RGBATarget) Resize(w, h int) {
	if cw, ch := t.Size(); cw == w && ch == h {
		return
	}
	t.Img = image.NewRGBA(image.Rect(0, 0, w, h))
}

func (t *RGBATarget) Clear(c Color) {
	if t == nil || t.Img == nil {
		return
	}
	pix := t.Img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = 0xFF
	}
}

func (t *RGBATarget) SetPixel(x, y int, c Color) {
	if t == nil || t.Img == nil {
		return
	}
	b := t.Img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return
	}
	i := y*t.Img.Stride + x*4
	t.Img.Pix[i+0] = c.R
	t.Img.Pix[i+1] = c.G
	t.Img.Pix[i+2] = c.B
	t.Img.Pix[i+3] = 0xFF
}

func (t *RGBATarget) Pixel(x, y int) Color {
	if t == nil || t.Img == nil {
		return Color{}
	}
	b := t.Img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return Color{}
	}
	i := y*t.Img.Stride + x*4
	return Color{t.Img.Pix[i], t.Img.Pix[i+1], t.Img.Pix[i+2], t.Img.Pix[i+3]}
}
