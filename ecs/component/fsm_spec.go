package component

// FSMSpec is a YAML-agnostic representation of a titan brain finite
// state machine, compiled by the titan system into a runtime definition.
type FSMSpec struct {
	Initial     string
	States      map[string]FSMStateSpec
	Transitions map[string][]map[string]any
}

type FSMStateSpec struct {
	OnEnter []map[string]any
	While   []map[string]any
	OnExit  []map[string]any
}
