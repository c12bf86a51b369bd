package font5x7

import (
	"image/color"
	"testing"
)

type recorder struct {
	set map[[2]int16]bool
}

func (r *recorder) Size() (x, y int16) { return 64, 16 }

func (r *recorder) SetPixel(x, y int16, c color.RGBA) {
	if r.set == nil {
		r.set = map[[2]int16]bool{}
	}
	r.set[[2]int16{x, y}] = true
}

func (r *recorder) Display() error { return nil }

func TestGlyphI(t *testing.T) {
	var rec recorder
	Font.GetGlyph('I').Draw(&rec, 0, 10, color.RGBA{A: 255})

	// Column 2 of 'I' is a full vertical bar from the cap line to the baseline.
	for row := int16(0); row < 7; row++ {
		if !rec.set[[2]int16{2, 4 + row}] {
			t.Fatalf("missing pixel at row %d", row)
		}
	}
	if rec.set[[2]int16{2, 11}] {
		t.Fatalf("pixel below baseline")
	}
}

func TestUnknownRuneFallsBack(t *testing.T) {
	if glyphIndex('é') != glyphIndex('?') {
		t.Fatalf("unknown rune not mapped to '?'")
	}
	if glyphIndex(' ') != 0 || glyphIndex('~') != 94 {
		t.Fatalf("range bounds wrong")
	}
}

func TestInfo(t *testing.T) {
	info := Font.GetGlyph('A').Info()
	if info.XAdvance != 6 || info.Rune != 'A' {
		t.Fatalf("info = %+v", info)
	}
}
