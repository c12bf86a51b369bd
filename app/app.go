// Package app wires configuration, logging, metrics, and the universe onto a
// HAL and returns the per-frame step function.
package app

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/rs/zerolog"

	"terra/bodies"
	"terra/hal"
	"terra/internal/config"
	"terra/internal/logging"
	"terra/internal/metrics"
	"terra/loader"
	"terra/universe"
	"terra/viewport"
)

// Options configures New.
type Options struct {
	Config  config.Config
	Log     zerolog.Logger
	Metrics *metrics.Collector
	// Source overrides the asset source derived from Config.
	Source loader.Source
	// Now overrides the astronomy clock.
	Now func() time.Time
}

type system struct {
	h    hal.HAL
	log  zerolog.Logger
	cfg  config.Config
	mx   *metrics.Collector
	u    *universe.Universe
	obs  *viewport.Observer
	kbd  <-chan hal.KeyEvent
	ptr  <-chan hal.PointerEvent
	fail *panicInfo
}

// New starts loading the globe in the background and returns the step
// function the host calls once per frame.
func New(ctx context.Context, h hal.HAL, opts Options) (func(dt time.Duration) error, error) {
	cfg := opts.Config
	src := opts.Source
	if src == nil {
		var err error
		if src, err = sourceFor(cfg); err != nil {
			return nil, err
		}
	}

	s := &system{
		h:   h,
		log: opts.Log,
		cfg: cfg,
		mx:  opts.Metrics,
	}

	disp := h.Display()
	s.obs = viewport.NewObserver(disp.ScaleFactor())
	s.obs.ObserveLogical(disp.Size())
	w, ht := s.obs.Size()

	ld := loader.New(src, logging.Component(s.log, "loader"), s.mx)
	if cfg.Assets.Concurrency > 0 {
		ld.Concurrency = cfg.Assets.Concurrency
	}

	s.u = universe.New(universe.Options{
		Width:    w,
		Height:   ht,
		Mobile:   cfg.Window.Mobile,
		Tilt:     bodies.PlanetTilt,
		Markers:  markerRecords(cfg.Markers),
		Loader:   ld,
		LQPrefix: cfg.Assets.LQPrefix,
		HQPrefix: cfg.Assets.HQPrefix,
		Viewport: s.obs,
		OnClick:  s.markerClick,
		Cursor:   disp.SetCursor,
		Now:      opts.Now,
		Log:      logging.Component(s.log, "universe"),
		Metrics:  s.mx,
	})

	if in := h.Input(); in != nil {
		if k := in.Keyboard(); k != nil {
			s.kbd = k.Events()
		}
		if p := in.Pointer(); p != nil {
			s.ptr = p.Events()
		}
	}

	go s.load(ctx)
	return s.step, nil
}

func (s *system) load(ctx context.Context) {
	start := time.Now()
	if err := s.u.Init(ctx); err != nil {
		s.log.Error().Err(err).Msg("universe init")
		return
	}
	s.log.Info().Dur("took", time.Since(start)).Msg("universe ready")
	if !s.cfg.Assets.LoadHQ {
		return
	}
	if err := s.u.LoadHighQuality(ctx); err != nil {
		s.log.Warn().Err(err).Msg("high quality load")
	}
}

// step runs one frame. A panic inside the frame is logged and replaces the
// globe with the panic screen for the rest of the session.
func (s *system) step(dt time.Duration) (err error) {
	fb := s.h.Display().Framebuffer()
	if s.fail != nil {
		drawPanic(fb, *s.fail)
		return fb.Present()
	}
	defer func() {
		if r := recover(); r != nil {
			info := panicInfo{Value: r, Stack: debug.Stack()}
			s.fail = &info
			s.reportPanic(info)
			drawPanic(fb, info)
			err = fb.Present()
		}
	}()

	disp := s.h.Display()
	s.obs.SetPixelRatio(disp.ScaleFactor())
	s.obs.ObserveLogical(disp.Size())
	s.pollInput()
	s.u.Step(dt)

	img := s.u.Stage().Image()
	b := img.Bounds()
	fb.Resize(b.Dx(), b.Dy())
	copy(fb.Image().Pix, img.Pix)
	return fb.Present()
}

func (s *system) pollInput() {
	for {
		select {
		case ev := <-s.kbd:
			if ev.Press {
				s.u.KeyPress(keyFor(ev.Code))
			}
		case ev := <-s.ptr:
			s.pointer(ev)
		default:
			return
		}
	}
}

func (s *system) pointer(ev hal.PointerEvent) {
	u := s.u
	switch ev.Kind {
	case hal.PointerMove:
		u.PointerMove(ev.X, ev.Y)
	case hal.PointerDown:
		if ev.Touch {
			u.TouchStart(ev.X, ev.Y)
			return
		}
		u.PointerDown(ev.X, ev.Y, buttonFor(ev.Button))
	case hal.PointerUp:
		if ev.Touch {
			u.TouchEnd()
			return
		}
		u.PointerUp(ev.X, ev.Y, buttonFor(ev.Button))
	case hal.PointerWheel:
		u.Wheel(ev.WheelY)
	}
}

func keyFor(c hal.KeyCode) universe.Key {
	switch c {
	case hal.KeyEnter:
		return universe.KeyEnter
	case hal.KeyEscape:
		return universe.KeyEscape
	case hal.KeySpace:
		return universe.KeySpace
	case hal.KeyH:
		return universe.KeyH
	case hal.KeyLeft:
		return universe.KeyLeft
	case hal.KeyRight:
		return universe.KeyRight
	case hal.KeyUp:
		return universe.KeyUp
	case hal.KeyDown:
		return universe.KeyDown
	}
	return universe.KeyNone
}

func buttonFor(b hal.PointerButton) universe.Button {
	switch b {
	case hal.ButtonRight:
		return universe.ButtonRight
	case hal.ButtonMiddle:
		return universe.ButtonMiddle
	}
	return universe.ButtonLeft
}

// markerClick is the host side of a marker selection.
func (s *system) markerClick(url string) {
	s.log.Info().Str("url", url).Msg("marker selected")
	c, err := openCommand(s.cfg.Click.OpenCommand, url)
	if err != nil {
		s.log.Warn().Err(err).Msg("open marker")
		return
	}
	if c == nil {
		return
	}
	if err := c.Start(); err != nil {
		s.log.Warn().Err(err).Str("command", c.Path).Msg("open marker")
		return
	}
	go func() { _ = c.Wait() }()
}

// openCommand builds the opener for url from a shell-style command line.
// An empty command line yields a nil command.
func openCommand(line, url string) (*exec.Cmd, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	fields, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("app: open command %q: %w", line, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return exec.Command(fields[0], append(fields[1:], url)...), nil
}

func (s *system) reportPanic(info panicInfo) {
	s.log.Error().Interface("panic", info.Value).Msg("frame panic")
	l := s.h.Logger()
	if l == nil {
		return
	}
	l.WriteLineString(fmt.Sprintf("terra panic: %v", info.Value))
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line != "" {
			l.WriteLineString(line)
		}
	}
}

func sourceFor(cfg config.Config) (loader.Source, error) {
	if cfg.Assets.BaseURL != "" {
		return loader.NewHTTPSource(cfg.Assets.BaseURL, cfg.Assets.Timeout)
	}
	root := cfg.Assets.Root
	if root == "" {
		root = "."
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("app: assets root: %w", err)
	}
	return loader.FSSource{FS: os.DirFS(root)}, nil
}

func markerRecords(ms []config.Marker) []bodies.MarkerRecord {
	out := make([]bodies.MarkerRecord, len(ms))
	for i, m := range ms {
		out[i] = bodies.MarkerRecord{
			ID:        m.ID,
			Name:      m.Name,
			ImageURL:  m.Image,
			TargetURL: m.URL,
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
		}
	}
	return out
}
