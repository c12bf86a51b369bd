//go:build !tinygo && cgo

package hal

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"terra/internal/buildinfo"
)

// WindowConfig configures RunWindow.
type WindowConfig struct {
	Title         string
	Width, Height int
	// PixelRatio overrides the monitor scale factor when positive.
	PixelRatio float64
	Logger     Logger
}

// RunWindow starts a desktop window that displays the framebuffer and forwards
// keyboard and pointer input. It blocks until the window closes.
func RunWindow(cfg WindowConfig, newApp func(HAL) func(dt time.Duration) error) error {
	h := newHost(HostConfig{Width: cfg.Width, Height: cfg.Height, Logger: cfg.Logger})
	ratio := cfg.PixelRatio
	if ratio <= 0 {
		ratio = ebiten.Monitor().DeviceScaleFactor()
	}
	h.setScaleFactor(ratio)
	step := newApp(h)

	g := &hostGame{h: h, step: step, ratio: ratio}
	title := cfg.Title
	if title == "" {
		title = "terra"
	}
	ebiten.SetWindowTitle(title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h     *hostHAL
	ratio float64
	img   *image.RGBA
	fbImg *ebiten.Image
	step  func(dt time.Duration) error

	cursor bool
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.ptr.poll()
	dt := g.h.t.step(time.Now())
	if g.step != nil {
		if err := g.step(dt); err != nil {
			return err
		}
	}
	if c := g.h.cursor.Load(); c != g.cursor {
		g.cursor = c
		if c {
			ebiten.SetCursorShape(ebiten.CursorShapePointer)
		} else {
			ebiten.SetCursorShape(ebiten.CursorShapeDefault)
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	g.img = g.h.fb.snapshot(g.img)
	b := g.img.Bounds()
	if g.fbImg == nil || !g.fbImg.Bounds().Eq(b) {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.fbImg.WritePixels(g.img.Pix)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	if b.Dx() > 0 && b.Dy() > 0 {
		op.GeoM.Scale(float64(sw)/float64(b.Dx()), float64(sh)/float64(b.Dy()))
	}
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.fbImg, op)
}

// Layout records the logical mount box and reports the screen in device
// pixels.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	outsideWidth = max(outsideWidth, 1)
	outsideHeight = max(outsideHeight, 1)
	g.h.setSize(outsideWidth, outsideHeight)
	w := int(float64(outsideWidth)*g.ratio + 0.5)
	h := int(float64(outsideHeight)*g.ratio + 0.5)
	return max(w, 1), max(h, 1)
}
