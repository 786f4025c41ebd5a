package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CameraRig is a third-person orbit camera. Yaw and pitch track mouse
// deltas; Focus chases the followed entity with exponential smoothing.
type CameraRig struct {
	Yaw       float64
	Pitch     float64
	Distance  float64
	Smoothing float64

	// FocusLift raises the chase point above the followed body so the
	// camera frames the skyline instead of the pavement.
	FocusLift float64
	Focus     mgl64.Vec3
}

// Forward is the full look direction including pitch.
func (c *CameraRig) Forward() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	return mgl64.Vec3{
		math.Sin(c.Yaw) * cp,
		math.Sin(c.Pitch),
		math.Cos(c.Yaw) * cp,
	}
}

// ForwardH is the look direction flattened onto the ground plane.
func (c *CameraRig) ForwardH() mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(c.Yaw), 0, math.Cos(c.Yaw)}
}

// RightH is the ground-plane right vector of the rig.
func (c *CameraRig) RightH() mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(c.Yaw), 0, -math.Sin(c.Yaw)}
}

// Eye returns the camera position for the current orbit state.
func (c *CameraRig) Eye() mgl64.Vec3 {
	return c.Focus.Sub(c.Forward().Mul(c.Distance))
}

var CameraRigComponent = NewComponent[CameraRig]()
