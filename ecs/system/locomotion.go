package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/skyhook/common"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
	"github.com/milk9111/skyhook/physics"
)

// A jump start leaves the feet near the ground for a tick or two, so
// treat any meaningful upward velocity as airborne.
const groundVelEpsilon = 0.5

// LocomotionSystem turns sampled input into player velocity: direct
// horizontal velocity control, grounded jumps, swing steering and the
// boost thrusters. It writes velocities only; StepSystem integrates.
type LocomotionSystem struct {
	sim Sim
}

func NewLocomotionSystem(sim Sim) *LocomotionSystem {
	return &LocomotionSystem{sim: sim}
}

func (l *LocomotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	forwardH := mgl64.Vec3{0, 0, 1}
	rightH := mgl64.Vec3{1, 0, 0}
	boostDir := forwardH
	if camEnt, ok := w.First(component.CameraRigComponent.Kind()); ok {
		if rig, ok := ecs.Get(w, camEnt, component.CameraRigComponent.Kind()); ok {
			forwardH = rig.ForwardH()
			rightH = rig.RightH()
			boostDir = rig.Forward()
		}
	}

	dt := l.sim.Dt()

	entities := w.Query(
		component.PlayerTagComponent.Kind(),
		component.InputComponent.Kind(),
		component.BodyRefComponent.Kind(),
		component.LocomotionComponent.Kind(),
		component.HooksComponent.Kind(),
	)
	for _, e := range entities {
		input, _ := ecs.Get(w, e, component.InputComponent.Kind())
		body, _ := ecs.Get(w, e, component.BodyRefComponent.Kind())
		loco, _ := ecs.Get(w, e, component.LocomotionComponent.Kind())
		hooks, _ := ecs.Get(w, e, component.HooksComponent.Kind())
		if input == nil || body == nil || loco == nil || hooks == nil {
			continue
		}

		vel := l.sim.Linvel(body.Body)
		l.probeGround(body, loco, vel.Y())

		if loco.CooldownLeft > 0 {
			loco.CooldownLeft -= dt
			if loco.CooldownLeft < 0 {
				loco.CooldownLeft = 0
			}
		}

		move := forwardH.Mul(input.MoveZ).Add(rightH.Mul(input.MoveX))
		moving := move.Len() > 1e-9
		if moving {
			move = move.Normalize()
		}
		desired := move.Mul(loco.MoveSpeed)

		swinging := hooks.AnyAttached()
		switch {
		case moving && !swinging:
			vel[0] = desired.X()
			vel[2] = desired.Z()
		case moving && swinging:
			// the rope owns the trajectory; steering only nudges it
			vel[0] = common.Lerp(vel.X(), desired.X(), loco.SwingControl)
			vel[2] = common.Lerp(vel.Z(), desired.Z(), loco.SwingControl)
		case !moving && !swinging:
			vel[0] = 0
			vel[2] = 0
		}

		if input.JumpPressed {
			if hooks.AnyActive() {
				// jump doubles as the grapple escape hatch
				vel[1] += loco.CancelBoost
				_ = ecs.Add(w, e, component.HookCancelComponent.Kind(), &component.HookCancel{})
			} else if loco.Grounded && loco.CooldownLeft <= 0 {
				vel[1] = loco.JumpSpeed
				loco.CooldownLeft = loco.JumpCooldown
			}
		}

		l.sim.SetLinvel(body.Body, vel)

		if input.BoostHeld {
			l.sim.ApplyImpulse(body.Body, boostDir.Mul(loco.BoostForce*dt))
		}

		if moving {
			if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
				heading := mgl64.QuatRotate(common.YawOf(desired), mgl64.Vec3{0, 1, 0})
				tr.Rot = mgl64.QuatSlerp(tr.Rot, heading, common.Clamp(loco.FaceLerp*dt, 0, 1))
			}
		}
	}
}

// probeGround casts a short ray down from just under the feet. Casting
// solid means a capsule resting flush on a roof reports zero distance
// instead of missing from inside the surface.
func (l *LocomotionSystem) probeGround(body *component.BodyRef, loco *component.Locomotion, vy float64) {
	pos := l.sim.Translation(body.Body)
	margin := loco.GroundRayMargin * body.CapsuleRadius
	origin := mgl64.Vec3{pos.X(), pos.Y() + body.Bottom() - margin, pos.Z()}

	maxDist := loco.GroundEpsilon * 2
	hit, ok := l.sim.CastRay(physics.Ray{Origin: origin, Dir: mgl64.Vec3{0, -1, 0}}, maxDist, true, RayMask(GroundMask))

	loco.GroundDistance = maxDist
	loco.Grounded = false
	if !ok {
		return
	}
	loco.GroundDistance = hit.ToI
	loco.Grounded = hit.ToI < loco.GroundEpsilon && vy <= groundVelEpsilon
}
