package stage

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terra/astro"
	"terra/gfx"
)

func newStage(w, h int) *Stage {
	return New(Options{Width: w, Height: h, Log: zerolog.Nop()})
}

func TestResizeKeepsFOV(t *testing.T) {
	s := newStage(800, 600)
	assert.InDelta(t, 800.0/600.0, s.Camera.Aspect, 1e-6)

	s.Resize(1200, 800)
	assert.InDelta(t, 1.5, s.Camera.Aspect, 1e-6)
	assert.Equal(t, gfx.Scalar(FOV), s.Camera.FOV)
	w, h := s.Size()
	assert.Equal(t, 1200, w)
	assert.Equal(t, 800, h)

	s.Resize(0, 100)
	assert.InDelta(t, 1.5, s.Camera.Aspect, 1e-6)
}

func TestFrameWithoutHandlesIsNoop(t *testing.T) {
	s := newStage(32, 24)
	assert.NotPanics(t, func() {
		s.Frame(time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), 16*time.Millisecond)
	})
}

func TestPlaceWritesThroughHandles(t *testing.T) {
	s := New(Options{Width: 32, Height: 24, Log: zerolog.Nop()})
	sun := gfx.NewNode("sun_anchor")
	moon := gfx.NewNode("moon")
	s.Attach(sun, moon)
	require.NotZero(t, s.BindLight(sun))
	require.NotZero(t, s.BindSatellite(moon))

	now := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	s.Place(now)

	p := astro.SubsolarPoint(now)
	want := astro.ToCartesian(float64(LightDistance), p.Longitude, p.Latitude)
	assert.InDelta(t, want.X, sun.Position.X, 1e-2)
	assert.InDelta(t, want.Y, sun.Position.Y, 1e-2)
	assert.InDelta(t, want.Z, sun.Position.Z, 1e-2)
	assert.InDelta(t, SatelliteDistance, gfx.Len(moon.Position), 1e-2)
}

func TestPlaceAppliesTilt(t *testing.T) {
	s := New(Options{Width: 8, Height: 8, Tilt: 0.4, Log: zerolog.Nop()})
	sun := gfx.NewNode("sun")
	s.Attach(sun)
	s.BindLight(sun)

	now := time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC)
	s.Place(now)

	p := astro.SubsolarPoint(now)
	flat := astro.ToCartesian(float64(LightDistance), p.Longitude, p.Latitude)
	tilted := gfx.QuatFromAxisAngle(gfx.V3(0, 0, 1), 0.4).Rotate(flat)
	assert.InDelta(t, tilted.X, sun.Position.X, 1e-2)
	assert.InDelta(t, tilted.Y, sun.Position.Y, 1e-2)
}

func TestControlsDefaults(t *testing.T) {
	s := newStage(64, 64)
	c := s.Controls
	assert.True(t, c.AutoRotate)
	assert.True(t, c.EnableDamping)
	assert.Equal(t, gfx.Scalar(0.05), c.DampingFactor)
	assert.Equal(t, gfx.Scalar(AutoRotateSpeed), c.AutoRotateSpeed)
	assert.Equal(t, CameraStart, s.Camera.Position)

	assert.True(t, s.Frame(time.Now(), 16*time.Millisecond))
	d := c.Distance()
	assert.GreaterOrEqual(t, d, gfx.Scalar(MinDistance))
	assert.LessOrEqual(t, d, gfx.Scalar(MaxDistance))
}

func TestNDC(t *testing.T) {
	s := newStage(100, 50)
	c := s.NDC(50, 25)
	assert.InDelta(t, 0.01, c.X, 1e-5)
	assert.InDelta(t, -0.02, c.Y, 1e-5)
	tl := s.NDC(0, 0)
	assert.Less(t, tl.X, gfx.Scalar(-0.9))
	assert.Greater(t, tl.Y, gfx.Scalar(0.9))
}
