package gfx

import "math"

const controlsEps = 1e-6

// OrbitControls orbits a camera around a target with damping and auto rotation.
//
// It does not depend on any input system: hosts translate pointer input into
// Rotate, Zoom, and Pan calls and call Update once per frame.
type OrbitControls struct {
	Camera *PerspectiveCamera
	Target Vec3

	EnableDamping   bool
	DampingFactor   Scalar
	AutoRotate      bool
	AutoRotateSpeed Scalar
	EnableZoom      bool
	EnablePan       bool
	RotateSpeed     Scalar
	ZoomSpeed       Scalar

	MinDistance Scalar
	MaxDistance Scalar

	deltaTheta Scalar
	deltaPhi   Scalar
	scale      Scalar
	panOffset  Vec3

	lastPos    Vec3
	lastTarget Vec3
	listeners  []func()
}

// NewOrbitControls attaches controls to cam.
func NewOrbitControls(cam *PerspectiveCamera) *OrbitControls {
	return &OrbitControls{
		Camera:      cam,
		Target:      cam.Target,
		EnableZoom:  true,
		EnablePan:   true,
		RotateSpeed: 1,
		ZoomSpeed:   1,
		MaxDistance: Scalar(math.Inf(1)),
		scale:       1,
	}
}

// OnChange registers fn to run whenever Update moves the camera.
func (c *OrbitControls) OnChange(fn func()) {
	c.listeners = append(c.listeners, fn)
}

// Distance returns the camera distance from the target.
func (c *OrbitControls) Distance() Scalar {
	return Dist(c.Camera.Position, c.Target)
}

// SetDistance moves the camera along its current direction to distance d.
func (c *OrbitControls) SetDistance(d Scalar) {
	off := c.Camera.Position.Sub(c.Target)
	if off == (Vec3{}) {
		off = V3(0, 0, 1)
	}
	c.Camera.Position = c.Target.Add(off.WithLength(d))
}

// Rotate orbits by pixel deltas measured against a viewport of height h.
func (c *OrbitControls) Rotate(dx, dy Scalar, h int) {
	if h <= 0 {
		return
	}
	c.deltaTheta -= 2 * math.Pi * dx / Scalar(h) * c.RotateSpeed
	c.deltaPhi -= 2 * math.Pi * dy / Scalar(h) * c.RotateSpeed
}

// Zoom dollies by wheel steps. Positive steps move closer.
func (c *OrbitControls) Zoom(steps Scalar) {
	if !c.EnableZoom || steps == 0 {
		return
	}
	f := Scalar(math.Pow(0.95, float64(c.ZoomSpeed*Scalar(math.Abs(float64(steps))))))
	if steps > 0 {
		c.scale *= f
	} else {
		c.scale /= f
	}
}

// Pan shifts the target by pixel deltas against a viewport of height h.
func (c *OrbitControls) Pan(dx, dy Scalar, h int) {
	if !c.EnablePan || h <= 0 {
		return
	}
	off := c.Camera.Position.Sub(c.Target)
	dist := Len(off) * Scalar(math.Tan(float64(c.Camera.FOV)/2*math.Pi/180))
	view := c.Camera.View()
	right := V3(view[0], view[4], view[8])
	up := V3(view[1], view[5], view[9])
	c.panOffset = c.panOffset.
		Add(right.Mul(-2 * dx * dist / Scalar(h))).
		Add(up.Mul(2 * dy * dist / Scalar(h)))
}

// Update advances damping and auto rotation by dt seconds and reports whether
// the camera moved.
func (c *OrbitControls) Update(dt Scalar) bool {
	cam := c.Camera
	off := cam.Position.Sub(c.Target)
	radius := Len(off)
	theta := Scalar(math.Atan2(float64(off.X), float64(off.Z)))
	phi := Scalar(0)
	if radius > 0 {
		phi = Scalar(math.Acos(float64(Clamp(off.Y/radius, -1, 1))))
	}

	if c.AutoRotate {
		c.deltaTheta -= 2 * math.Pi / 60 * c.AutoRotateSpeed * dt
	}

	if c.EnableDamping {
		theta += c.deltaTheta * c.DampingFactor
		phi += c.deltaPhi * c.DampingFactor
	} else {
		theta += c.deltaTheta
		phi += c.deltaPhi
	}
	phi = Clamp(phi, controlsEps, math.Pi-controlsEps)

	radius = Clamp(radius*c.scale, c.MinDistance, c.MaxDistance)

	if c.EnableDamping {
		c.Target = c.Target.Add(c.panOffset.Mul(c.DampingFactor))
	} else {
		c.Target = c.Target.Add(c.panOffset)
	}

	sinPhi := Scalar(math.Sin(float64(phi)))
	cam.Position = c.Target.Add(V3(
		radius*sinPhi*Scalar(math.Sin(float64(theta))),
		radius*Scalar(math.Cos(float64(phi))),
		radius*sinPhi*Scalar(math.Cos(float64(theta))),
	))
	cam.Target = c.Target

	if c.EnableDamping {
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
		c.panOffset = c.panOffset.Mul(1 - c.DampingFactor)
	} else {
		c.deltaTheta, c.deltaPhi = 0, 0
		c.panOffset = Vec3{}
	}
	c.scale = 1

	moved := Dot(cam.Position.Sub(c.lastPos), cam.Position.Sub(c.lastPos)) > controlsEps ||
		Dot(c.Target.Sub(c.lastTarget), c.Target.Sub(c.lastTarget)) > controlsEps
	if !moved {
		return false
	}
	c.lastPos = cam.Position
	c.lastTarget = c.Target
	for _, fn := range c.listeners {
		fn()
	}
	return true
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi Scalar) Scalar {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
