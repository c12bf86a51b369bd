package gfx

import "math"

// PerspectiveCamera is a pinhole camera with a vertical field of view in degrees.
type PerspectiveCamera struct {
	FOV    Scalar
	Aspect Scalar
	Near   Scalar
	Far    Scalar

	Position Vec3
	Target   Vec3
	Up       Vec3
}

// NewPerspectiveCamera returns a camera looking at the origin.
func NewPerspectiveCamera(fovDeg, aspect, near, far Scalar) *PerspectiveCamera {
	return &PerspectiveCamera{
		FOV:    fovDeg,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Up:     V3(0, 1, 0),
	}
}

// View returns the camera view matrix.
func (c *PerspectiveCamera) View() Mat4 {
	up := c.Up
	if up == (Vec3{}) {
		up = V3(0, 1, 0)
	}
	return Mat4LookAt(c.Position, c.Target, up)
}

// Projection returns the projection matrix.
func (c *PerspectiveCamera) Projection() Mat4 {
	fov := c.FOV
	if fov <= 0 {
		fov = 45
	}
	return Mat4Perspective(fov*math.Pi/180, c.Aspect, c.Near, c.Far)
}

// Unproject maps normalized device coordinates back to world space.
func (c *PerspectiveCamera) Unproject(ndc Vec3) Vec3 {
	inv := Mat4Inverse(Mat4Mul(c.Projection(), c.View()))
	p := Mat4MulV4(inv, Vec4{X: ndc.X, Y: ndc.Y, Z: ndc.Z, W: 1})
	if p.W == 0 {
		return Vec3{}
	}
	return V3(p.X/p.W, p.Y/p.W, p.Z/p.W)
}
