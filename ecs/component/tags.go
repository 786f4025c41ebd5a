package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type TitanTag struct{}

var TitanTagComponent = NewComponent[TitanTag]()

type HookVisualTag struct{}

var HookVisualTagComponent = NewComponent[HookVisualTag]()
