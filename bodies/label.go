package bodies

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"tinygo.org/x/tinyfont"

	"terra/fonts/font5x7"
)

// Label raster geometry. The thumbnail disk radius matches the pick guard,
// so a hit counts only when it lands on the picture.
const (
	LabelSize        = 128
	LabelGuardRadius = 85.0 / 400.0
	labelDiskRadius  = LabelSize * 85 / 400
	labelTextGap     = 12
)

var (
	labelRing = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	labelText = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	labelBack = color.RGBA{R: 0x10, G: 0x18, B: 0x28, A: 0xc0}
)

// labelDisplay adapts an RGBA image to drivers.Displayer for tinyfont.
type labelDisplay struct {
	img *image.RGBA
}

func (d labelDisplay) Size() (x, y int16) {
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d labelDisplay) SetPixel(x, y int16, c color.RGBA) {
	if !(image.Point{int(x), int(y)}).In(d.img.Bounds()) {
		return
	}
	d.img.SetRGBA(int(x), int(y), c)
}

func (d labelDisplay) Display() error { return nil }

// RenderLabel composes a marker label: thumb cropped to a centered disk with
// name underneath, on a transparent canvas.
func RenderLabel(thumb image.Image, name string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, LabelSize, LabelSize))
	c := LabelSize / 2
	r := labelDiskRadius

	// Cover-fit the thumbnail into the disk's bounding square.
	sq := image.NewRGBA(image.Rect(0, 0, 2*r, 2*r))
	if thumb != nil {
		b := thumb.Bounds()
		side := min(b.Dx(), b.Dy())
		crop := image.Rect(0, 0, side, side).Add(image.Pt(
			b.Min.X+(b.Dx()-side)/2,
			b.Min.Y+(b.Dy()-side)/2,
		))
		xdraw.ApproxBiLinear.Scale(sq, sq.Bounds(), thumb, crop, xdraw.Src, nil)
	}

	r2 := r * r
	ring := (r + 2) * (r + 2)
	for y := -r - 2; y <= r+2; y++ {
		for x := -r - 2; x <= r+2; x++ {
			d := x*x + y*y
			switch {
			case d < r2:
				img.SetRGBA(c+x, c+y, sq.RGBAAt(x+r, y+r))
			case d < ring:
				img.SetRGBA(c+x, c+y, labelRing)
			}
		}
	}

	drawName(img, name, c+r+labelTextGap)
	return img
}

func drawName(img *image.RGBA, name string, baseline int) {
	if name == "" {
		return
	}
	font := font5x7.New()
	name = fitText(font, name, LabelSize-8)
	w, _ := tinyfont.LineWidth(font, name)
	x := (LabelSize - int(w)) / 2

	for y := baseline - 8; y < baseline+4; y++ {
		for px := x - 3; px < x+int(w)+3; px++ {
			if (image.Point{px, y}).In(img.Bounds()) {
				img.SetRGBA(px, y, labelBack)
			}
		}
	}
	tinyfont.WriteLine(labelDisplay{img: img}, font, int16(x), int16(baseline), name, labelText)
}

// fitText truncates s with "..." until it is at most maxW pixels wide.
func fitText(f tinyfont.Fonter, s string, maxW int) string {
	if w, _ := tinyfont.LineWidth(f, s); int(w) <= maxW {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		t := string(r) + "..."
		if w, _ := tinyfont.LineWidth(f, t); int(w) <= maxW {
			return t
		}
	}
	return ""
}
