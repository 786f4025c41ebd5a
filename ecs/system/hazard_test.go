package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
)

func addHazard(w *ecs.World, hz component.GroundHazard) *component.GroundHazard {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.GroundHazardComponent.Kind(), &hz)
	got, _ := ecs.Get(w, e, component.GroundHazardComponent.Kind())
	return got
}

func drainDamage(w *ecs.World) []DamageEvent {
	var out []DamageEvent
	for _, ev := range w.Events().Drain() {
		if ev.Type != EventDamage {
			continue
		}
		if dmg, ok := ev.Data.(DamageEvent); ok {
			out = append(out, dmg)
		}
	}
	return out
}

func TestHazardTicksOnInterval(t *testing.T) {
	sim := newFakeSim()
	w, playerEnt, _, _, loco := newPlayerWorld(sim)
	hs := NewHazardSystem(sim)

	loco.Grounded = true
	addHazard(w, component.GroundHazard{
		Radius:   6,
		Damage:   4,
		Interval: 0.3,
		Active:   true,
	})

	// one second covers the 0.3/0.6/0.9 marks
	for i := 0; i < 61; i++ {
		hs.Update(w)
	}

	hits := drainDamage(w)
	if len(hits) != 3 {
		t.Fatalf("hits = %d, want 3", len(hits))
	}
	for _, h := range hits {
		if h.Target != playerEnt || h.Amount != 4 || h.Source != "ground_hazard" {
			t.Fatalf("hit = %+v, want 4 ground_hazard on the player", h)
		}
	}
}

func TestHazardSparesAirborne(t *testing.T) {
	sim := newFakeSim()
	w, _, _, _, loco := newPlayerWorld(sim)
	hs := NewHazardSystem(sim)

	addHazard(w, component.GroundHazard{
		Radius:   6,
		Damage:   4,
		Interval: 0.3,
		Active:   true,
	})

	for i := 0; i < 61; i++ {
		hs.Update(w)
	}
	if hits := drainDamage(w); len(hits) != 0 {
		t.Fatalf("hits = %d while airborne, want 0", len(hits))
	}

	// the clock kept running; landing resumes the cadence
	loco.Grounded = true
	for i := 0; i < 61; i++ {
		hs.Update(w)
	}
	if hits := drainDamage(w); len(hits) != 3 {
		t.Fatalf("hits = %d after landing, want 3", len(hits))
	}
}

func TestHazardRange(t *testing.T) {
	sim := newFakeSim()
	w, _, _, _, loco := newPlayerWorld(sim)
	hs := NewHazardSystem(sim)

	loco.Grounded = true
	sim.pos[testPlayerBody] = mgl64.Vec3{100, 0, 0}
	addHazard(w, component.GroundHazard{
		Radius:   6,
		Damage:   4,
		Interval: 0.3,
		Active:   true,
	})

	for i := 0; i < 61; i++ {
		hs.Update(w)
	}
	if hits := drainDamage(w); len(hits) != 0 {
		t.Fatalf("hits = %d outside the radius, want 0", len(hits))
	}
}

func TestHazardInactive(t *testing.T) {
	sim := newFakeSim()
	w, _, _, _, loco := newPlayerWorld(sim)
	hs := NewHazardSystem(sim)

	loco.Grounded = true
	hz := addHazard(w, component.GroundHazard{
		Radius:   6,
		Damage:   4,
		Interval: 0.3,
	})

	for i := 0; i < 61; i++ {
		hs.Update(w)
	}
	if hits := drainDamage(w); len(hits) != 0 {
		t.Fatalf("hits = %d from an inactive hazard, want 0", len(hits))
	}
	if hz.Clock != 0 {
		t.Fatalf("clock = %v on an inactive hazard, want 0", hz.Clock)
	}
}
