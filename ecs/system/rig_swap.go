package system

import (
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
	"github.com/milk9111/skyhook/logging"
)

// RigSwapSystem polls in-flight rig loads and swaps the placeholder
// capsule for the real asset when one lands: clip table, nape offset
// and collider dimensions all change in place. A failed load logs once
// and keeps the placeholder for the rest of the session.
type RigSwapSystem struct {
	sim Sim
}

func NewRigSwapSystem(sim Sim) *RigSwapSystem {
	return &RigSwapSystem{sim: sim}
}

func (r *RigSwapSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, e := range w.Query(component.RigLoadComponent.Kind(), component.RigComponent.Kind()) {
		load, _ := ecs.Get(w, e, component.RigLoadComponent.Kind())
		rig, _ := ecs.Get(w, e, component.RigComponent.Kind())
		if load == nil || rig == nil || load.Pending == nil {
			_ = ecs.Remove(w, e, component.RigLoadComponent.Kind())
			continue
		}

		loaded, done, err := load.Pending.Poll()
		if !done {
			continue
		}
		_ = ecs.Remove(w, e, component.RigLoadComponent.Kind())
		if err != nil {
			logging.Logger.Error().Err(err).Str("path", load.Pending.Path()).Msg("rig load failed, keeping placeholder")
			continue
		}

		rig.HalfHeight = loaded.HalfHeight
		rig.Radius = loaded.Radius
		rig.NapeOffset = loaded.NapeOffset
		rig.Clips = make(map[component.ClipID]component.Clip, len(loaded.Clips))
		for _, c := range loaded.Clips {
			rig.Clips[component.ClipID(c.Name)] = component.Clip{Duration: c.Duration, Loop: c.Loop}
		}
		if _, ok := rig.Clips[rig.Current]; !ok {
			rig.Current = component.ClipIdle
			rig.ClipClock = 0
		}
		rig.Loaded = true

		if body, ok := ecs.Get(w, e, component.BodyRefComponent.Kind()); ok {
			r.sim.ResizeCapsule(body.Collider, loaded.HalfHeight, loaded.Radius)
			body.CapsuleHalfHeight = loaded.HalfHeight
			body.CapsuleRadius = loaded.Radius
		}
		if titan, ok := ecs.Get(w, e, component.TitanComponent.Kind()); ok {
			titan.NapeOffset = loaded.NapeOffset
		}
		logging.Logger.Info().Str("path", load.Pending.Path()).Int("clips", len(rig.Clips)).Msg("rig swapped in")
	}
}
