package component

// Locomotion carries movement tuning and the per-tick ground probe
// results for a walking entity.
type Locomotion struct {
	MoveSpeed    float64
	SwingControl float64
	JumpSpeed    float64
	JumpCooldown float64
	CancelBoost  float64
	BoostForce   float64
	FaceLerp     float64

	// Ground probe tuning. The ray starts GroundRayMargin*radius below
	// the capsule bottom; a hit closer than GroundEpsilon counts as
	// standing.
	GroundRayMargin float64
	GroundEpsilon   float64

	CooldownLeft   float64
	Grounded       bool
	GroundDistance float64
}

var LocomotionComponent = NewComponent[Locomotion]()
