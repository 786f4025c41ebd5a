package component

import "github.com/go-gl/mathgl/mgl64"

// Projectile is a thrown chunk of debris. It integrates ballistically
// outside the rigid body simulation; only proximity to the player
// matters.
type Projectile struct {
	Pos    mgl64.Vec3
	Vel    mgl64.Vec3
	TTL    float64
	Radius float64
	Damage float64
}

var ProjectileComponent = NewComponent[Projectile]()
