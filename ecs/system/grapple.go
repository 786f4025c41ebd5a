package system

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/skyhook/common"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
	"github.com/milk9111/skyhook/logging"
	"github.com/milk9111/skyhook/physics"
)

// Joint length gets a little slack over the attach distance so the rope
// constrains the swing without fighting the reel.
const ropeSlack = 1.05

var (
	cableColor = color.RGBA{R: 0xe6, G: 0xe1, B: 0xd2, A: 0xff}
	tipColor   = color.RGBA{R: 0x8a, G: 0x91, B: 0x99, A: 0xff}
)

// GrappleSystem drives both hooks through their idle, shooting and
// attached phases: camera raycast on shoot, tip flight, rope joints,
// constant-force reeling and the vault escape near walls. It owns the
// cable visual entities outright.
type GrappleSystem struct {
	sim     Sim
	visuals map[component.HookSide]ecs.Entity
}

func NewGrappleSystem(sim Sim) *GrappleSystem {
	return &GrappleSystem{
		sim:     sim,
		visuals: map[component.HookSide]ecs.Entity{},
	}
}

func (g *GrappleSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	entities := w.Query(
		component.PlayerTagComponent.Kind(),
		component.HooksComponent.Kind(),
		component.BodyRefComponent.Kind(),
		component.InputComponent.Kind(),
		component.LocomotionComponent.Kind(),
	)
	for _, e := range entities {
		hooks, _ := ecs.Get(w, e, component.HooksComponent.Kind())
		body, _ := ecs.Get(w, e, component.BodyRefComponent.Kind())
		input, _ := ecs.Get(w, e, component.InputComponent.Kind())
		loco, _ := ecs.Get(w, e, component.LocomotionComponent.Kind())
		if hooks == nil || body == nil || input == nil || loco == nil {
			continue
		}

		eye, dir, rightH := g.aim(w, body)

		if _, ok := ecs.Get(w, e, component.HookCancelComponent.Kind()); ok {
			g.clear(w, hooks, component.HookLeft)
			g.clear(w, hooks, component.HookRight)
			_ = ecs.Remove(w, e, component.HookCancelComponent.Kind())
		}
		if input.ReleaseBoth {
			g.clear(w, hooks, component.HookLeft)
			g.clear(w, hooks, component.HookRight)
		}

		pos := g.sim.Translation(body.Body)
		if input.ShootLeft {
			g.shoot(w, hooks, component.HookLeft, pos, eye, dir, rightH)
		}
		if input.ShootRight {
			g.shoot(w, hooks, component.HookRight, pos, eye, dir, rightH)
		}

		dt := g.sim.Dt()
		g.tick(w, hooks, component.HookLeft, body, loco, pos, dt)
		g.tick(w, hooks, component.HookRight, body, loco, pos, dt)

		g.applyReel(hooks, body, dt)

		if hooks.AnyActive() {
			vel := g.sim.Linvel(body.Body)
			if vel.Y() < 0 {
				vel[1] *= hooks.FallDamping
				g.sim.SetLinvel(body.Body, vel)
			}
		}

		g.syncVisuals(w, hooks, pos, rightH)
	}
}

// aim resolves the camera ray for shooting. Without a camera rig the
// hooks fire straight ahead from the body, which keeps headless runs
// deterministic.
func (g *GrappleSystem) aim(w *ecs.World, body *component.BodyRef) (eye, dir, rightH mgl64.Vec3) {
	eye = g.sim.Translation(body.Body)
	dir = mgl64.Vec3{0, 0, 1}
	rightH = mgl64.Vec3{1, 0, 0}
	if camEnt, ok := w.First(component.CameraRigComponent.Kind()); ok {
		if rig, ok := ecs.Get(w, camEnt, component.CameraRigComponent.Kind()); ok {
			eye = rig.Eye()
			dir = rig.Forward()
			rightH = rig.RightH()
		}
	}
	return eye, dir, rightH
}

func (g *GrappleSystem) shoot(w *ecs.World, hooks *component.Hooks, side component.HookSide, pos, eye, dir, rightH mgl64.Vec3) {
	// replace, never queue: a fresh shoot drops whatever this side held
	g.clear(w, hooks, side)

	hit, ok := g.sim.CastRay(physics.Ray{Origin: eye, Dir: dir}, hooks.MaxRange, false, RayMask(AttachMask))
	if !ok {
		logging.Logger.Debug().Str("side", sideName(side)).Msg("hook found no surface")
		return
	}

	h := hooks.Hook(side)
	h.Phase = component.HookShooting
	h.Target = hit.Point
	h.TipPos = muzzle(pos, rightH, hooks.LateralOffset, side)

	ve := ecs.CreateEntity(w)
	_ = ecs.Add(w, ve, component.HookVisualTagComponent.Kind(), &component.HookVisualTag{})
	_ = ecs.Add(w, ve, component.LineComponent.Kind(), &component.Line{Width: 2, Color: cableColor})
	_ = ecs.Add(w, ve, component.MarkerComponent.Kind(), &component.Marker{Radius: 4, Color: tipColor})
	g.visuals[side] = ve
}

func (g *GrappleSystem) tick(w *ecs.World, hooks *component.Hooks, side component.HookSide, body *component.BodyRef, loco *component.Locomotion, pos mgl64.Vec3, dt float64) {
	h := hooks.Hook(side)
	switch h.Phase {
	case component.HookShooting:
		g.tickShooting(h, body, pos, hooks.ShootSpeed*dt, hooks.InitialPull)
	case component.HookAttached:
		g.tickAttached(w, hooks, side, body, loco, pos)
	}
}

func (g *GrappleSystem) tickShooting(h *component.Hook, body *component.BodyRef, pos mgl64.Vec3, step, initialPull float64) {
	to := h.Target.Sub(h.TipPos)
	dist := to.Len()
	if dist > step {
		h.TipPos = h.TipPos.Add(to.Mul(step / dist))
		return
	}

	h.TipPos = h.Target
	h.Phase = component.HookAttached

	length := h.Target.Sub(pos).Len()
	h.Joint = g.sim.CreateRopeJoint(body.Body, h.Target, length*ropeSlack)
	if pull := h.Target.Sub(pos); pull.Len() > 1e-9 {
		g.sim.ApplyImpulse(body.Body, pull.Normalize().Mul(initialPull))
	}
	logging.Logger.Debug().Float64("length", length).Msg("hook attached")
}

func (g *GrappleSystem) tickAttached(w *ecs.World, hooks *component.Hooks, side component.HookSide, body *component.BodyRef, loco *component.Locomotion, pos mgl64.Vec3) {
	h := hooks.Hook(side)
	if h.Target.Sub(pos).Len() > hooks.ReleaseRadius {
		return
	}

	// close enough to count as landed; vault if a wall is right ahead
	if !loco.Grounded && g.tryVault(hooks, body, pos, h.Target) {
		g.clear(w, hooks, side)
		return
	}

	g.clear(w, hooks, side)
	vel := g.sim.Linvel(body.Body)
	if vel.Y() > 0 {
		vel[1] = 0
		g.sim.SetLinvel(body.Body, vel)
	}
}

// tryVault probes toward the anchor for a surface and converts a plain
// release into an upward-forward kick over the lip.
func (g *GrappleSystem) tryVault(hooks *component.Hooks, body *component.BodyRef, pos, target mgl64.Vec3) bool {
	probe := common.Horizontal(target.Sub(pos))
	if probe.Len() < 1e-9 {
		return false
	}
	probe = probe.Normalize()
	if _, ok := g.sim.CastRay(physics.Ray{Origin: pos, Dir: probe}, hooks.VaultProbe, false, RayMask(AttachMask)); !ok {
		return false
	}
	impulse := probe.Mul(hooks.VaultImpulse).Add(mgl64.Vec3{0, hooks.VaultUpImpulse, 0})
	g.sim.ApplyImpulse(body.Body, impulse)
	logging.Logger.Debug().Msg("hook vault")
	return true
}

// applyReel pulls toward whatever is still attached after this tick's
// releases. With both hooks set the direction is the normalized sum, a
// single centered pull instead of two competing ones.
func (g *GrappleSystem) applyReel(hooks *component.Hooks, body *component.BodyRef, dt float64) {
	pos := g.sim.Translation(body.Body)
	sum := mgl64.Vec3{}
	attached := 0
	for _, h := range []*component.Hook{&hooks.Left, &hooks.Right} {
		if h.Phase != component.HookAttached {
			continue
		}
		to := h.Target.Sub(pos)
		if to.Len() < 1e-9 {
			continue
		}
		sum = sum.Add(to.Normalize())
		attached++
	}
	if attached == 0 || sum.Len() < 1e-9 {
		return
	}
	g.sim.ApplyImpulse(body.Body, sum.Normalize().Mul(hooks.ReelForce*dt))
}

// clear is idempotent; clearing an idle hook does nothing.
func (g *GrappleSystem) clear(w *ecs.World, hooks *component.Hooks, side component.HookSide) {
	h := hooks.Hook(side)
	if h.Phase == component.HookIdle {
		return
	}
	if h.Joint != 0 {
		g.sim.RemoveImpulseJoint(h.Joint)
	}
	h.Clear()
	if ve, ok := g.visuals[side]; ok {
		ecs.DestroyEntity(w, ve)
		delete(g.visuals, side)
	}
}

func (g *GrappleSystem) syncVisuals(w *ecs.World, hooks *component.Hooks, pos, rightH mgl64.Vec3) {
	for _, side := range []component.HookSide{component.HookLeft, component.HookRight} {
		ve, ok := g.visuals[side]
		if !ok {
			continue
		}
		h := hooks.Hook(side)
		if line, ok := ecs.Get(w, ve, component.LineComponent.Kind()); ok {
			line.Start = muzzle(pos, rightH, hooks.LateralOffset, side)
			line.End = h.TipPos
		}
		if marker, ok := ecs.Get(w, ve, component.MarkerComponent.Kind()); ok {
			marker.Pos = h.TipPos
		}
	}
}

func muzzle(pos, rightH mgl64.Vec3, offset float64, side component.HookSide) mgl64.Vec3 {
	if side == component.HookLeft {
		offset = -offset
	}
	return pos.Add(rightH.Mul(offset))
}

func sideName(side component.HookSide) string {
	if side == component.HookLeft {
		return "left"
	}
	return "right"
}
