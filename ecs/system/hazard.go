package system

import (
	"github.com/milk9111/skyhook/common"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
)

// HazardSystem ticks active ground hazards. A grounded player standing
// inside the radius takes a bite of damage once per interval; time
// inside the zone accumulates so ducking out and back does not reset
// the clock.
type HazardSystem struct {
	sim Sim
}

func NewHazardSystem(sim Sim) *HazardSystem {
	return &HazardSystem{sim: sim}
}

func (s *HazardSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	playerEnt, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	body, ok := ecs.Get(w, playerEnt, component.BodyRefComponent.Kind())
	if !ok {
		return
	}
	loco, _ := ecs.Get(w, playerEnt, component.LocomotionComponent.Kind())
	playerPos := s.sim.Translation(body.Body)
	grounded := loco != nil && loco.Grounded

	dt := s.sim.Dt()

	ecs.ForEach(w, component.GroundHazardComponent.Kind(), func(e ecs.Entity, hz *component.GroundHazard) {
		if !hz.Active || hz.Interval <= 0 {
			return
		}
		hz.Clock += dt
		for hz.Clock >= hz.Interval {
			hz.Clock -= hz.Interval
			if !grounded {
				continue
			}
			if common.HorizontalDistance(playerPos, hz.Center) > hz.Radius {
				continue
			}
			w.Events().Push(ecs.Event{Type: EventDamage, Data: DamageEvent{
				Target: playerEnt,
				Amount: hz.Damage,
				Source: "ground_hazard",
			}})
		}
	})
}
