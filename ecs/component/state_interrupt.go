package component

// StateInterrupt is a one-shot request to feed an event into a titan's
// FSM. Other systems add it to the titan entity and the titan system
// consumes it during its update.
type StateInterrupt struct {
	Event string
}

var StateInterruptComponent = NewComponent[StateInterrupt]()
