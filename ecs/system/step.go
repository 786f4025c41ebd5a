package system

import "github.com/milk9111/skyhook/ecs"

// StepSystem advances the rigid body simulation by one fixed tick. It
// runs after every system that writes velocities and before everything
// that reads resulting positions.
type StepSystem struct {
	sim Sim
}

func NewStepSystem(sim Sim) *StepSystem {
	return &StepSystem{sim: sim}
}

func (s *StepSystem) Update(w *ecs.World) {
	if s.sim == nil {
		return
	}
	s.sim.Step()
}
