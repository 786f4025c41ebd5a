package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
	"github.com/milk9111/skyhook/physics"
)

type fakeJoint struct {
	body   physics.BodyHandle
	anchor mgl64.Vec3
	length float64
}

type fakeResize struct {
	halfHeight float64
	radius     float64
}

// fakeSim is a scripted Sim for system tests. Bodies have unit mass, so
// an applied impulse lands on velocity one to one. Ray casts run the
// castRay closure if set and miss otherwise.
type fakeSim struct {
	dt    float64
	steps int

	pos map[physics.BodyHandle]mgl64.Vec3
	vel map[physics.BodyHandle]mgl64.Vec3

	impulses []mgl64.Vec3

	castRay  func(ray physics.Ray, maxDist float64, solid bool, groups physics.Groups) (physics.RayHit, bool)
	rayCalls int

	nextJoint     physics.JointHandle
	joints        map[physics.JointHandle]fakeJoint
	removedJoints []physics.JointHandle

	resized map[physics.ColliderHandle]fakeResize
}

func newFakeSim() *fakeSim {
	return &fakeSim{
		dt:      1.0 / 60.0,
		pos:     map[physics.BodyHandle]mgl64.Vec3{},
		vel:     map[physics.BodyHandle]mgl64.Vec3{},
		joints:  map[physics.JointHandle]fakeJoint{},
		resized: map[physics.ColliderHandle]fakeResize{},
	}
}

func (f *fakeSim) Dt() float64 { return f.dt }

func (f *fakeSim) Step() { f.steps++ }

func (f *fakeSim) Translation(h physics.BodyHandle) mgl64.Vec3 { return f.pos[h] }

func (f *fakeSim) SetTranslation(h physics.BodyHandle, p mgl64.Vec3) { f.pos[h] = p }

func (f *fakeSim) Linvel(h physics.BodyHandle) mgl64.Vec3 { return f.vel[h] }

func (f *fakeSim) SetLinvel(h physics.BodyHandle, v mgl64.Vec3) { f.vel[h] = v }

func (f *fakeSim) ApplyImpulse(h physics.BodyHandle, impulse mgl64.Vec3) {
	f.impulses = append(f.impulses, impulse)
	f.vel[h] = f.vel[h].Add(impulse)
}

func (f *fakeSim) CastRay(ray physics.Ray, maxDist float64, solid bool, groups physics.Groups) (physics.RayHit, bool) {
	f.rayCalls++
	if f.castRay == nil {
		return physics.RayHit{}, false
	}
	return f.castRay(ray, maxDist, solid, groups)
}

func (f *fakeSim) CreateRopeJoint(bh physics.BodyHandle, anchor mgl64.Vec3, length float64) physics.JointHandle {
	f.nextJoint++
	f.joints[f.nextJoint] = fakeJoint{body: bh, anchor: anchor, length: length}
	return f.nextJoint
}

func (f *fakeSim) RemoveImpulseJoint(h physics.JointHandle) {
	delete(f.joints, h)
	f.removedJoints = append(f.removedJoints, h)
}

func (f *fakeSim) ResizeCapsule(h physics.ColliderHandle, halfHeight, radius float64) {
	f.resized[h] = fakeResize{halfHeight: halfHeight, radius: radius}
}

// hitAt scripts every cast to strike the given point, reporting the
// distance from the ray origin as time of impact.
func hitAt(point mgl64.Vec3) func(physics.Ray, float64, bool, physics.Groups) (physics.RayHit, bool) {
	return func(ray physics.Ray, maxDist float64, solid bool, groups physics.Groups) (physics.RayHit, bool) {
		toi := point.Sub(ray.Origin).Len()
		if toi > maxDist {
			return physics.RayHit{}, false
		}
		return physics.RayHit{ToI: toi, Point: point, Normal: ray.Dir.Mul(-1)}, true
	}
}

const testPlayerBody physics.BodyHandle = 1

// newPlayerWorld builds a world with a single player wired the way the
// spawn code does it, with tuning close to the shipped prefab. Tests
// mutate the returned components before driving updates.
func newPlayerWorld(sim *fakeSim) (*ecs.World, ecs.Entity, *component.Input, *component.Hooks, *component.Locomotion) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)

	input := &component.Input{}
	hooks := &component.Hooks{
		ShootSpeed:     80,
		MaxRange:       90,
		ReleaseRadius:  3,
		ReelForce:      55,
		InitialPull:    9,
		FallDamping:    0.965,
		LateralOffset:  0.65,
		VaultProbe:     2.2,
		VaultImpulse:   10.5,
		VaultUpImpulse: 6.5,
	}
	loco := &component.Locomotion{
		MoveSpeed:       10.5,
		SwingControl:    0.3,
		JumpSpeed:       12,
		JumpCooldown:    0.5,
		CancelBoost:     11,
		BoostForce:      40,
		FaceLerp:        10,
		GroundRayMargin: 0.25,
		GroundEpsilon:   0.12,
	}
	body := &component.BodyRef{
		Body:              testPlayerBody,
		Collider:          physics.ColliderHandle(testPlayerBody),
		CapsuleHalfHeight: 0.55,
		CapsuleRadius:     0.35,
	}
	health := component.NewHealth(100)
	tr := component.NewTransform(mgl64.Vec3{})

	_ = ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	_ = ecs.Add(w, e, component.InputComponent.Kind(), input)
	_ = ecs.Add(w, e, component.HooksComponent.Kind(), hooks)
	_ = ecs.Add(w, e, component.LocomotionComponent.Kind(), loco)
	_ = ecs.Add(w, e, component.BodyRefComponent.Kind(), body)
	_ = ecs.Add(w, e, component.HealthComponent.Kind(), &health)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &tr)
	_ = ecs.Add(w, e, component.AttackComponent.Kind(), &component.Attack{Damage: 35, Reach: 3.2})

	sim.pos[testPlayerBody] = mgl64.Vec3{}
	sim.vel[testPlayerBody] = mgl64.Vec3{}

	return w, e, input, hooks, loco
}

func vecClose(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() <= eps
}
