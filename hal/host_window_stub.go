//go:build !tinygo && !cgo

package hal

import (
	"errors"
	"time"
)

// WindowConfig configures RunWindow.
type WindowConfig struct {
	Title         string
	Width, Height int
	PixelRatio    float64
	Logger        Logger
}

func RunWindow(_ WindowConfig, _ func(HAL) func(dt time.Duration) error) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
