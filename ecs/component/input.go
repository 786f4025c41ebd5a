package component

// Input stores per-frame input state sampled by the input system. It is
// a singleton on the player entity; gameplay systems read it instead of
// touching the window layer so headless runs can drive it directly.
type Input struct {
	MoveX float64
	MoveZ float64

	JumpPressed   bool
	BoostHeld     bool
	AttackPressed bool

	ShootLeft   bool
	ShootRight  bool
	ReleaseBoth bool

	LookDeltaX float64
	LookDeltaY float64

	// WheelDelta is the vertical scroll this frame, positive away from
	// the user. The camera spends it on orbit distance.
	WheelDelta float64
}

var InputComponent = NewComponent[Input]()
