package system

import (
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
	"github.com/milk9111/skyhook/telemetry"
)

// TelemetrySystem advances the session frame counter and samples the
// player state every few frames into the session recorder. It runs last
// so samples see the settled end-of-frame state.
type TelemetrySystem struct {
	sim   Sim
	rec   *telemetry.Recorder
	every int64
}

func NewTelemetrySystem(sim Sim, rec *telemetry.Recorder, every int) *TelemetrySystem {
	return &TelemetrySystem{sim: sim, rec: rec, every: int64(every)}
}

func (t *TelemetrySystem) Update(w *ecs.World) {
	if t.rec == nil || w == nil {
		return
	}
	frame := t.rec.NextFrame()
	if t.every <= 0 || frame%t.every != 0 {
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

	pos := t.sim.Translation(body.Body)
	vel := t.sim.Linvel(body.Body)

	sample := telemetry.FrameSample{
		Frame: frame,
		PosX:  pos.X(),
		PosY:  pos.Y(),
		PosZ:  pos.Z(),
		VelX:  vel.X(),
		VelY:  vel.Y(),
		VelZ:  vel.Z(),
	}
	if h, ok := ecs.Get(w, playerEnt, component.HealthComponent.Kind()); ok {
		sample.Health = h.Current
	}
	if loco, ok := ecs.Get(w, playerEnt, component.LocomotionComponent.Kind()); ok {
		sample.Grounded = loco.Grounded
	}
	if hooks, ok := ecs.Get(w, playerEnt, component.HooksComponent.Kind()); ok {
		sample.LeftHook = hooks.Left.Phase.String()
		sample.RightHook = hooks.Right.Phase.String()
	}

	t.rec.RecordFrame(sample)
}
