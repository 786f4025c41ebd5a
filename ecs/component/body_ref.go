package component

import "github.com/milk9111/skyhook/physics"

// BodyRef stores simulation handles and collider configuration for an
// entity backed by a rigid body.
type BodyRef struct {
	Body     physics.BodyHandle
	Collider physics.ColliderHandle

	// Capsule dimensions, kept here so gameplay code can reason about
	// feet and head positions without asking the simulation.
	CapsuleHalfHeight float64
	CapsuleRadius     float64
}

// Bottom returns the offset from body center to the lowest point of the
// capsule.
func (b *BodyRef) Bottom() float64 {
	return -(b.CapsuleHalfHeight + b.CapsuleRadius)
}

var BodyRefComponent = NewComponent[BodyRef]()
