package gfx

import (
	"image"
	"image/color"
)

// Texture is a sampled RGBA image.
//
// V runs bottom to top, so v=1 is the first image row.
type Texture struct {
	W, H int
	Pix  []Color
	Name string
}

// NewTexture converts an image into a texture.
func NewTexture(img image.Image) *Texture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	t := &Texture{W: w, H: h, Pix: make([]Color, w*h)}
	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := src.PixOffset(b.Min.X+x, b.Min.Y+y)
				p := src.Pix[i : i+4 : i+4]
				t.Pix[y*w+x] = unpremultiply(p[0], p[1], p[2], p[3])
			}
		}
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := src.PixOffset(b.Min.X+x, b.Min.Y+y)
				t.Pix[y*w+x] = Color{src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]}
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				t.Pix[y*w+x] = Color{c.R, c.G, c.B, c.A}
			}
		}
	}
	return t
}

// SolidTexture returns a 1x1 texture of c.
func SolidTexture(c Color) *Texture {
	return &Texture{W: 1, H: 1, Pix: []Color{c}}
}

func unpremultiply(r, g, b, a uint8) Color {
	if a == 0 {
		return Color{}
	}
	if a == 0xFF {
		return Color{r, g, b, a}
	}
	f := func(v uint8) uint8 {
		x := (uint16(v) * 255) / uint16(a)
		if x > 255 {
			x = 255
		}
		return uint8(x)
	}
	return Color{f(r), f(g), f(b), a}
}

// Sample returns the nearest texel at uv. U wraps and V clamps.
func (t *Texture) Sample(uv Vec2) Color {
	if t == nil || t.W <= 0 || t.H <= 0 {
		return Color{0xFF, 0xFF, 0xFF, 0xFF}
	}
	u := uv.X - Scalar(int(uv.X))
	if u < 0 {
		u++
	}
	v := Clamp01(uv.Y)
	x := int(u * Scalar(t.W))
	y := int((1 - v) * Scalar(t.H))
	if x >= t.W {
		x = t.W - 1
	}
	if y >= t.H {
		y = t.H - 1
	}
	return t.Pix[y*t.W+x]
}
