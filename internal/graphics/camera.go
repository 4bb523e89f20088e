package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera handles the view and projection matrices
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	Position mgl32.Vec3
	Yaw      float32 // degrees
	Pitch    float32 // degrees, clamped to +-89
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:       60.0,
		NearPlane: 0.1,
		FarPlane:  1000.0,
		Yaw:       -90,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// Front returns the unit look direction
func (c *Camera) Front() mgl32.Vec3 {
	y := float64(mgl32.DegToRad(c.Yaw))
	p := float64(mgl32.DegToRad(c.Pitch))
	return mgl32.Vec3{
		float32(math.Cos(y) * math.Cos(p)),
		float32(math.Sin(p)),
		float32(math.Sin(y) * math.Cos(p)),
	}.Normalize()
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front()), mgl32.Vec3{0, 1, 0})
}

// Rotate adds yaw and pitch offsets in degrees
func (c *Camera) Rotate(dyaw, dpitch float32) {
	c.Yaw += dyaw
	c.Pitch = min(max(c.Pitch+dpitch, -89), 89)
}

// LookAt points the camera at target
func (c *Camera) LookAt(target mgl32.Vec3) {
	d := target.Sub(c.Position)
	if d.Len() == 0 {
		return
	}
	d = d.Normalize()
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(d[2]), float64(d[0]))))
	c.Pitch = min(max(mgl32.RadToDeg(float32(math.Asin(float64(d[1])))), -89), 89)
}
