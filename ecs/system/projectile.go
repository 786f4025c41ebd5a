package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
)

// ProjectileSystem integrates debris volleys as plain ballistic point
// masses. They never enter the rigid body simulation; the only contact
// that matters is proximity to the player.
type ProjectileSystem struct {
	sim     Sim
	gravity float64
}

func NewProjectileSystem(sim Sim, gravity float64) *ProjectileSystem {
	return &ProjectileSystem{sim: sim, gravity: gravity}
}

func (p *ProjectileSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	playerEnt, playerFound := w.First(component.PlayerTagComponent.Kind())
	var playerPos mgl64.Vec3
	if playerFound {
		if pb, ok := ecs.Get(w, playerEnt, component.BodyRefComponent.Kind()); ok {
			playerPos = p.sim.Translation(pb.Body)
		} else {
			playerFound = false
		}
	}

	dt := p.sim.Dt()

	ecs.ForEach(w, component.ProjectileComponent.Kind(), func(e ecs.Entity, pr *component.Projectile) {
		pr.Vel[1] += p.gravity * dt
		pr.Pos = pr.Pos.Add(pr.Vel.Mul(dt))
		pr.TTL -= dt

		if pr.TTL <= 0 || pr.Pos.Y() <= 0 {
			ecs.DestroyEntity(w, e)
			return
		}

		if !playerFound {
			return
		}
		if pr.Pos.Sub(playerPos).Len() > pr.Radius {
			return
		}
		w.Events().Push(ecs.Event{Type: EventDamage, Data: DamageEvent{
			Target: playerEnt,
			Amount: pr.Damage,
			Source: "debris",
		}})
		ecs.DestroyEntity(w, e)
	})
}
