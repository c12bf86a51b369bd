// Package stage owns the one camera, renderer, and controls triple of a
// session and drives the per-frame astronomy update.
package stage

import (
	"image"
	"time"

	"github.com/rs/zerolog"

	"terra/astro"
	"terra/gfx"
	"terra/internal/metrics"
)

// Camera and controls defaults.
const (
	FOV  = 45
	Near = 1
	Far  = 100000

	DampingFactor   = 0.05
	AutoRotateSpeed = 0.5
	MinDistance     = 150
	MaxDistance     = 1000
)

var (
	CameraStart = gfx.V3(600, 300, -400)

	LightDistance     = gfx.Len(gfx.V3(1200, 0, 0))
	SatelliteDistance = gfx.Len(gfx.V3(300, 100, 0))
)

// Options configures New.
type Options struct {
	Width, Height int
	// Tilt is the planet's axial tilt about Z in radians. Sun and moon
	// positions are expressed in the tilted frame.
	Tilt gfx.Scalar

	Log     zerolog.Logger
	Metrics *metrics.Collector
}

// Stage is the scene/camera manager.
type Stage struct {
	Scene    *gfx.Scene
	Camera   *gfx.PerspectiveCamera
	Controls *gfx.OrbitControls
	Renderer *gfx.Renderer

	target *gfx.RGBATarget
	tilt   gfx.Quat
	log    zerolog.Logger
	mx     *metrics.Collector

	light     gfx.Handle
	satellite gfx.Handle
}

// New builds the scene, camera, controls, renderer, and target.
func New(opts Options) *Stage {
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	cam := gfx.NewPerspectiveCamera(FOV, gfx.Scalar(w)/gfx.Scalar(h), Near, Far)
	cam.Position = CameraStart

	ctl := gfx.NewOrbitControls(cam)
	ctl.AutoRotate = true
	ctl.AutoRotateSpeed = AutoRotateSpeed
	ctl.EnableDamping = true
	ctl.DampingFactor = DampingFactor
	ctl.EnableZoom = true
	ctl.EnablePan = true
	ctl.MinDistance = MinDistance
	ctl.MaxDistance = MaxDistance

	return &Stage{
		Scene:    gfx.NewScene(),
		Camera:   cam,
		Controls: ctl,
		Renderer: gfx.NewRenderer(),
		target:   gfx.NewRGBATarget(w, h),
		tilt:     gfx.QuatFromAxisAngle(gfx.V3(0, 0, 1), opts.Tilt),
		log:      opts.Log,
		mx:       opts.Metrics,
	}
}

// Attach adds body roots to the scene.
func (s *Stage) Attach(roots ...*gfx.Node) { s.Scene.Add(roots...) }

// BindLight registers n as the node moved to the subsolar direction.
func (s *Stage) BindLight(n *gfx.Node) gfx.Handle {
	s.light = s.Scene.Register(n)
	return s.light
}

// BindSatellite registers n as the node moved to the sub-moon direction.
func (s *Stage) BindSatellite(n *gfx.Node) gfx.Handle {
	s.satellite = s.Scene.Register(n)
	return s.satellite
}

// Frame advances one frame at wall-clock time now, dt after the previous one.
// It reports whether the controls moved the camera.
func (s *Stage) Frame(now time.Time, dt time.Duration) bool {
	start := time.Now()
	moved := s.Controls.Update(gfx.Scalar(dt.Seconds()))
	s.Place(now)
	s.Renderer.Render(s.target, s.Scene, s.Camera)
	s.mx.RecordFrame(time.Since(start))
	return moved
}

// Place writes the light and satellite positions for now through their
// handles. Unbound handles are skipped.
func (s *Stage) Place(now time.Time) {
	if n, ok := s.Scene.Lookup(s.light); ok {
		n.Position = s.onGlobe(astro.SubsolarPoint(now), LightDistance)
	}
	if n, ok := s.Scene.Lookup(s.satellite); ok {
		n.Position = s.onGlobe(astro.SubmoonPoint(now), SatelliteDistance)
	}
}

func (s *Stage) onGlobe(p astro.Position, dist gfx.Scalar) gfx.Vec3 {
	return s.tilt.Rotate(astro.ToCartesian(float64(dist), p.Longitude, p.Latitude))
}

// Resize sets the target size and camera aspect. The field of view is kept.
func (s *Stage) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	s.target.Resize(w, h)
	s.Camera.Aspect = gfx.Scalar(w) / gfx.Scalar(h)
	s.log.Debug().Int("width", w).Int("height", h).Msg("resized")
}

// Size returns the target size in pixels.
func (s *Stage) Size() (w, h int) { return s.target.Size() }

// Image returns the last rendered frame.
func (s *Stage) Image() *image.RGBA { return s.target.Img }

// NDC converts a target pixel position to normalized device coordinates.
func (s *Stage) NDC(x, y int) gfx.Vec2 {
	w, h := s.target.Size()
	if w <= 0 || h <= 0 {
		return gfx.Vec2{}
	}
	return gfx.V2(
		(gfx.Scalar(x)+0.5)/gfx.Scalar(w)*2-1,
		-((gfx.Scalar(y)+0.5)/gfx.Scalar(h)*2 - 1),
	)
}
