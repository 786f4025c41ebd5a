package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
)

func spawnProjectile(w *ecs.World, p component.Projectile) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.ProjectileComponent.Kind(), &p)
	return e
}

func TestProjectileBallistics(t *testing.T) {
	sim := newFakeSim()
	w := ecs.NewWorld()
	ps := NewProjectileSystem(sim, -28)

	e := spawnProjectile(w, component.Projectile{
		Pos: mgl64.Vec3{0, 10, 0},
		Vel: mgl64.Vec3{0, 0, 5},
		TTL: 6,
	})

	ps.Update(w)

	p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	if !ok {
		t.Fatalf("projectile culled on the first tick")
	}
	dt := sim.Dt()
	if want := -28 * dt; math.Abs(p.Vel.Y()-want) > 1e-9 {
		t.Fatalf("vy = %v, want %v", p.Vel.Y(), want)
	}
	if want := 10 + p.Vel.Y()*dt; math.Abs(p.Pos.Y()-want) > 1e-9 {
		t.Fatalf("y = %v, want %v", p.Pos.Y(), want)
	}
	if want := 5 * dt; math.Abs(p.Pos.Z()-want) > 1e-9 {
		t.Fatalf("z = %v, want %v", p.Pos.Z(), want)
	}
	if want := 6 - dt; math.Abs(p.TTL-want) > 1e-9 {
		t.Fatalf("ttl = %v, want %v", p.TTL, want)
	}
}

func TestProjectileCull(t *testing.T) {
	t.Run("ttl_expired", func(t *testing.T) {
		sim := newFakeSim()
		w := ecs.NewWorld()
		ps := NewProjectileSystem(sim, -28)

		e := spawnProjectile(w, component.Projectile{
			Pos: mgl64.Vec3{0, 50, 0},
			TTL: sim.Dt() / 2,
		})

		ps.Update(w)
		if ecs.IsAlive(w, e) {
			t.Fatalf("expired projectile survived")
		}
	})

	t.Run("hit_ground", func(t *testing.T) {
		sim := newFakeSim()
		w := ecs.NewWorld()
		ps := NewProjectileSystem(sim, -28)

		e := spawnProjectile(w, component.Projectile{
			Pos: mgl64.Vec3{0, 0.01, 0},
			Vel: mgl64.Vec3{0, -10, 0},
			TTL: 6,
		})

		ps.Update(w)
		if ecs.IsAlive(w, e) {
			t.Fatalf("projectile tunneled through the ground")
		}
	})
}

func TestProjectileHitsPlayer(t *testing.T) {
	sim := newFakeSim()
	w, playerEnt, _, _, _ := newPlayerWorld(sim)
	ps := NewProjectileSystem(sim, -28)

	sim.pos[testPlayerBody] = mgl64.Vec3{0, 1, 0}
	e := spawnProjectile(w, component.Projectile{
		Pos:    mgl64.Vec3{0, 1.2, 0},
		TTL:    6,
		Radius: 1.2,
		Damage: 8,
	})

	ps.Update(w)

	if ecs.IsAlive(w, e) {
		t.Fatalf("projectile survived the impact")
	}
	events := w.Events().Drain()
	if len(events) != 1 || events[0].Type != EventDamage {
		t.Fatalf("events = %v, want one damage event", events)
	}
	dmg := events[0].Data.(DamageEvent)
	if dmg.Target != playerEnt || dmg.Amount != 8 || dmg.Source != "debris" {
		t.Fatalf("damage = %+v, want 8 debris on the player", dmg)
	}
}

func TestProjectileMissesDistantPlayer(t *testing.T) {
	sim := newFakeSim()
	w, _, _, _, _ := newPlayerWorld(sim)
	ps := NewProjectileSystem(sim, -28)

	sim.pos[testPlayerBody] = mgl64.Vec3{50, 1, 0}
	e := spawnProjectile(w, component.Projectile{
		Pos:    mgl64.Vec3{0, 5, 0},
		TTL:    6,
		Radius: 1.2,
		Damage: 8,
	})

	ps.Update(w)

	if !ecs.IsAlive(w, e) {
		t.Fatalf("projectile culled without contact")
	}
	if got := w.Events().Len(); got != 0 {
		t.Fatalf("events = %d, want 0", got)
	}
}
