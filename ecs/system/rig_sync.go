package system

import (
	"math"

	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
)

// RigSyncSystem copies simulation positions into visual transforms and
// advances animation clocks. Rotation is never copied; bodies have
// locked rotations and facing is handled by gameplay.
type RigSyncSystem struct {
	sim Sim
}

func NewRigSyncSystem(sim Sim) *RigSyncSystem {
	return &RigSyncSystem{sim: sim}
}

func (r *RigSyncSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, e := range w.Query(component.BodyRefComponent.Kind(), component.TransformComponent.Kind()) {
		body, _ := ecs.Get(w, e, component.BodyRefComponent.Kind())
		tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		if body == nil || tr == nil {
			continue
		}
		tr.Pos = r.sim.Translation(body.Body)
	}

	dt := r.sim.Dt()
	r.selectPlayerClip(w)

	ecs.ForEach(w, component.RigComponent.Kind(), func(e ecs.Entity, rig *component.Rig) {
		clip, ok := rig.Clips[rig.Current]
		if !ok || clip.Duration <= 0 {
			return
		}
		rig.ClipClock += dt
		if clip.Loop {
			rig.ClipClock = math.Mod(rig.ClipClock, clip.Duration)
			return
		}
		if rig.ClipClock > clip.Duration {
			rig.ClipClock = clip.Duration
		}
	})
}

// selectPlayerClip picks the locomotion clip. One-shot clips that are
// still running (attack, death) are left alone until they finish.
func (r *RigSyncSystem) selectPlayerClip(w *ecs.World) {
	playerEnt, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	rig, ok := ecs.Get(w, playerEnt, component.RigComponent.Kind())
	if !ok {
		return
	}

	if health, ok := ecs.Get(w, playerEnt, component.HealthComponent.Kind()); ok && !health.Alive {
		rig.Play(component.ClipDeath)
		return
	}

	if cur, ok := rig.Clips[rig.Current]; ok && !cur.Loop && rig.ClipClock < cur.Duration {
		return
	}

	hooks, _ := ecs.Get(w, playerEnt, component.HooksComponent.Kind())
	if hooks != nil && hooks.AnyAttached() {
		rig.Play(component.ClipSwing)
		return
	}

	loco, _ := ecs.Get(w, playerEnt, component.LocomotionComponent.Kind())
	body, _ := ecs.Get(w, playerEnt, component.BodyRefComponent.Kind())
	if loco != nil && body != nil {
		vel := r.sim.Linvel(body.Body)
		speed := math.Hypot(vel.X(), vel.Z())
		if loco.Grounded && speed > 0.1 {
			rig.Play(component.ClipRun)
			return
		}
	}
	rig.Play(component.ClipIdle)
}
