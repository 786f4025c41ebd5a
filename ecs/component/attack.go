package component

// Attack is the melee tuning of the player's blade strike.
type Attack struct {
	Damage float64
	Reach  float64
}

var AttackComponent = NewComponent[Attack]()
