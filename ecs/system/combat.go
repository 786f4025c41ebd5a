package system

import (
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
	"github.com/milk9111/skyhook/logging"
	"github.com/milk9111/skyhook/telemetry"
)

// EventDamage routes all damage in the game through the frame's event
// queue. CombatSystem is the only consumer; anything it has not drained
// by end of frame is dropped.
const EventDamage = "damage"

type DamageEvent struct {
	Target ecs.Entity
	Amount float64
	Source string
}

// CombatSystem resolves the player's blade strike against titan napes
// and applies every damage event queued this frame. Deaths route back
// into the owning state machines as one-shot interrupts.
type CombatSystem struct {
	sim Sim
	rec *telemetry.Recorder
}

func NewCombatSystem(sim Sim, rec *telemetry.Recorder) *CombatSystem {
	return &CombatSystem{sim: sim, rec: rec}
}

func (s *CombatSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	s.resolvePlayerAttack(w)

	for _, ev := range w.Events().Drain() {
		if ev.Type != EventDamage {
			continue
		}
		dmg, ok := ev.Data.(DamageEvent)
		if !ok {
			continue
		}
		s.applyDamage(w, dmg)
	}
}

func (s *CombatSystem) resolvePlayerAttack(w *ecs.World) {
	playerEnt, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	input, ok := ecs.Get(w, playerEnt, component.InputComponent.Kind())
	if !ok || !input.AttackPressed {
		return
	}
	attack, ok := ecs.Get(w, playerEnt, component.AttackComponent.Kind())
	if !ok {
		return
	}
	if h, ok := ecs.Get(w, playerEnt, component.HealthComponent.Kind()); ok && !h.Alive {
		return
	}
	body, ok := ecs.Get(w, playerEnt, component.BodyRefComponent.Kind())
	if !ok {
		return
	}
	playerPos := s.sim.Translation(body.Body)

	if rig, ok := ecs.Get(w, playerEnt, component.RigComponent.Kind()); ok {
		rig.Play(component.ClipAttack)
	}

	// the blade only bites the nape, and only the nearest one in reach
	best := ecs.Entity(0)
	bestDist := attack.Reach
	for _, te := range w.Query(component.TitanTagComponent.Kind(), component.TitanComponent.Kind(), component.HealthComponent.Kind()) {
		titan, _ := ecs.Get(w, te, component.TitanComponent.Kind())
		health, _ := ecs.Get(w, te, component.HealthComponent.Kind())
		if titan == nil || health == nil || !health.Alive || titan.NapeBody == 0 {
			continue
		}
		napePos := s.sim.Translation(titan.NapeBody)
		d := napePos.Sub(playerPos).Len() - titan.NapeRadius
		if d <= bestDist {
			bestDist = d
			best = te
		}
	}
	if !best.Valid() {
		return
	}

	w.Events().Push(ecs.Event{Type: EventDamage, Data: DamageEvent{
		Target: best,
		Amount: attack.Damage,
		Source: "blade",
	}})
}

func (s *CombatSystem) applyDamage(w *ecs.World, dmg DamageEvent) {
	health, ok := ecs.Get(w, dmg.Target, component.HealthComponent.Kind())
	if !ok {
		return
	}
	died := health.TakeDamage(dmg.Amount)

	if s.rec != nil {
		s.rec.RecordDamage(telemetry.DamageRecord{
			Frame:  s.rec.Frame(),
			Target: uint64(dmg.Target),
			Amount: dmg.Amount,
			Source: dmg.Source,
		})
	}

	logging.Logger.Debug().
		Uint64("target", uint64(dmg.Target)).
		Float64("amount", dmg.Amount).
		Str("source", dmg.Source).
		Float64("left", health.Current).
		Msg("damage")

	if !died {
		return
	}

	if ecs.Has(w, dmg.Target, component.TitanTagComponent.Kind()) {
		_ = ecs.Add(w, dmg.Target, component.StateInterruptComponent.Kind(), &component.StateInterrupt{Event: "died"})
		return
	}
	if ecs.Has(w, dmg.Target, component.PlayerTagComponent.Kind()) {
		logging.Logger.Info().Str("source", dmg.Source).Msg("player down")
	}
}
