package component

import "github.com/go-gl/mathgl/mgl64"

// GroundHazard damages grounded entities standing inside its radius on
// a fixed interval. Titans activate one under a stomp.
type GroundHazard struct {
	Center   mgl64.Vec3
	Radius   float64
	Damage   float64
	Interval float64
	Clock    float64
	Active   bool
}

var GroundHazardComponent = NewComponent[GroundHazard]()
