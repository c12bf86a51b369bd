package font5x7

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Font is a 5x7 ASCII bitmap font with one descender row, advancing 6 pixels
// per glyph.
//
// It implements tinyfont.Fonter for marker labels and the panic screen.
// Concurrent access is not safe due to internal glyph reuse; use New for a
// private instance per goroutine.
var Font tinyfont.Fonter = New()

// New returns an independent font instance.
func New() tinyfont.Fonter { return &font5x7{} }

type font5x7 struct {
	g glyph
}

type glyph struct {
	r rune
}

func (g *glyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	base := glyphIndex(g.r) * 5
	for col := 0; col < 5; col++ {
		b := glyphData[base+col]
		// Column bytes, bit0 = top row, bit7 = descender.
		for row := 0; row < 8; row++ {
			if b&(1<<row) == 0 {
				continue
			}
			display.SetPixel(x+int16(col), y-6+int16(row), c)
		}
	}
}

func (g *glyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    5,
		Height:   8,
		XAdvance: 6,
		XOffset:  0,
		YOffset:  -6,
	}
}

func (f *font5x7) GetYAdvance() uint8 { return 9 }

func (f *font5x7) GetGlyph(r rune) tinyfont.Glypher {
	f.g.r = r
	return &f.g
}

func glyphIndex(r rune) int {
	if r < 0x20 || r > 0x7e {
		r = '?'
	}
	return int(r - 0x20)
}
