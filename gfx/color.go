package gfx

// Color is an RGBA color in 8-bit channels (straight alpha).
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color     { return Color{R: r, G: g, B: b, A: 0xFF} }
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// Hex builds an opaque color from 0xRRGGBB.
func Hex(v uint32) Color {
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v))
}

func (c Color) MulScalar(s Scalar) Color {
	s = Clamp01(s)
	mul := func(ch uint8) uint8 {
		return uint8(Scalar(ch) * s)
	}
	return Color{R: mul(c.R), G: mul(c.G), B: mul(c.B), A: c.A}
}

// Modulate multiplies two colors channel by channel, alpha included.
func (c Color) Modulate(o Color) Color {
	mul := func(a, b uint8) uint8 { return uint8((uint16(a) * uint16(b)) / 255) }
	return Color{R: mul(c.R, o.R), G: mul(c.G, o.G), B: mul(c.B, o.B), A: mul(c.A, o.A)}
}

func (c Color) WithAlpha(a uint8) Color { c.A = a; return c }

// Luma returns perceived brightness in 0..1.
func (c Color) Luma() Scalar {
	return (0.299*Scalar(c.R) + 0.587*Scalar(c.G) + 0.114*Scalar(c.B)) / 255
}

// Mix interpolates rgb and alpha between a and b.
func Mix(a, b Color, t Scalar) Color {
	t = Clamp01(t)
	lerp := func(x, y uint8) uint8 { return uint8(Scalar(x) + (Scalar(y)-Scalar(x))*t) }
	return Color{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

// Blending selects how a fragment combines with the target.
type Blending uint8

const (
	BlendNormal Blending = iota
	BlendAdditive
)

func blend(dst, src Color, mode Blending) Color {
	if src.A == 0 {
		return dst
	}
	a := uint16(src.A)
	switch mode {
	case BlendAdditive:
		add := func(d, s uint8) uint8 {
			v := uint16(d) + (uint16(s)*a)/255
			if v > 255 {
				v = 255
			}
			return uint8(v)
		}
		return Color{R: add(dst.R, src.R), G: add(dst.G, src.G), B: add(dst.B, src.B), A: 0xFF}
	default:
		if src.A == 0xFF {
			return src
		}
		over := func(d, s uint8) uint8 {
			return uint8((uint16(s)*a + uint16(d)*(255-a)) / 255)
		}
		return Color{R: over(dst.R, src.R), G: over(dst.G, src.G), B: over(dst.B, src.B), A: 0xFF}
	}
}
