// Package camera provides the viewer's orbit camera.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center mgl32.Vec3

	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around +Y

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	FovY      float32 // radians
	Near, Far float32
}

// NewOrbitCamera creates an orbit camera framing a scene of roughly 100 units.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:    150,
		Pitch:       0.6,
		Yaw:         0.4,
		MinDistance: 10,
		MaxDistance: 1000,
		MinPitch:    -1.5,
		MaxPitch:    1.5,
		FovY:        mgl32.DegToRad(45),
		Near:        0.1,
		Far:         2000,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	pitch, yaw := float64(c.Pitch), float64(c.Yaw)
	offset := mgl32.Vec3{
		float32(math.Cos(pitch) * math.Sin(yaw)),
		float32(math.Sin(pitch)),
		float32(math.Cos(pitch) * math.Cos(yaw)),
	}
	return c.Center.Add(offset.Mul(c.Distance))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// ViewProjection returns projection * view for a viewport of the given aspect ratio.
func (c *OrbitCamera) ViewProjection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FovY, aspect, c.Near, c.Far).Mul4(c.ViewMatrix())
}

// Rotate adds to yaw and pitch, clamping pitch.
func (c *OrbitCamera) Rotate(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch = mgl32.Clamp(c.Pitch+deltaPitch, c.MinPitch, c.MaxPitch)
}

// Zoom scales the distance by (1 - delta), clamped to the allowed range.
func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance = mgl32.Clamp(c.Distance*(1-delta), c.MinDistance, c.MaxDistance)
}
