//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Width, Height int
	Hz            int
	// Frames stops the runner after that many frames when positive.
	Frames uint64
	// Snapshot, when set, receives the last presented frame as PNG.
	Snapshot string
	Logger   Logger
}

// RunHeadless runs the globe without opening a window.
func RunHeadless(ctx context.Context, cfg HeadlessConfig, newApp func(HAL) func(dt time.Duration) error) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := newHost(HostConfig{Width: cfg.Width, Height: cfg.Height, Logger: cfg.Logger})
	step := newApp(h)

	t := time.NewTicker(d)
	defer t.Stop()

	var frames uint64
	for {
		select {
		case <-ctx.Done():
			return snapshotPNG(h.fb, cfg.Snapshot, ctx.Err())
		case now := <-t.C:
			dt := h.t.step(now)
			if step != nil {
				if err := step(dt); err != nil {
					return snapshotPNG(h.fb, cfg.Snapshot, err)
				}
			}
			frames++
			if cfg.Frames > 0 && frames >= cfg.Frames {
				return snapshotPNG(h.fb, cfg.Snapshot, nil)
			}
		}
	}
}

// snapshotPNG writes the last presented frame to path and returns cause, or
// the write error when cause is nil.
func snapshotPNG(fb *hostFramebuffer, path string, cause error) error {
	if path == "" {
		return cause
	}
	f, err := os.Create(path)
	if err != nil {
		if cause != nil {
			return cause
		}
		return fmt.Errorf("snapshot: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, fb.snapshot(nil)); err != nil && cause == nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return cause
}
