package main

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/skyhook/assets"
	"github.com/milk9111/skyhook/citygen"
	"github.com/milk9111/skyhook/common"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
	"github.com/milk9111/skyhook/ecs/system"
	"github.com/milk9111/skyhook/physics"
	"github.com/milk9111/skyhook/prefabs"
)

// buildCityColliders registers the static level geometry: a ground slab
// with its top face at y=0 and one cuboid per building.
func buildCityColliders(sim *physics.World, city *citygen.City) {
	ground := sim.CreateBody(physics.BodyDesc{Type: physics.BodyStatic})
	sim.CreateCollider(physics.ColliderDesc{
		Shape:       physics.ShapeCuboid,
		HalfExtents: mgl64.Vec3{city.GroundHalf, 1, city.GroundHalf},
		Offset:      mgl64.Vec3{0, -1, 0},
		Groups:      physics.NewGroups(system.LayerGround, 0xffff),
	}, ground)

	for _, b := range city.Buildings {
		bh := sim.CreateBody(physics.BodyDesc{Type: physics.BodyStatic, Position: b.Center})
		sim.CreateCollider(physics.ColliderDesc{
			Shape:       physics.ShapeCuboid,
			HalfExtents: b.Half,
			Groups:      physics.NewGroups(system.LayerBuilding, 0xffff),
		}, bh)
	}
}

// placeholderRig dresses an entity in the stand-in capsule until its
// real rig lands. The clip table comes from the placeholder; the
// dimensions come from the prefab so the sim collider matches from the
// first frame.
func placeholderRig(capsule prefabs.CapsuleSpec, napeOffset mgl64.Vec3) component.Rig {
	ph := assets.Placeholder()
	clips := make(map[component.ClipID]component.Clip, len(ph.Clips))
	for _, c := range ph.Clips {
		clips[component.ClipID(c.Name)] = component.Clip{Duration: c.Duration, Loop: c.Loop}
	}
	return component.Rig{
		HalfHeight: capsule.HalfHeight,
		Radius:     capsule.Radius,
		NapeOffset: napeOffset,
		Clips:      clips,
		Current:    component.ClipIdle,
	}
}

func spawnPlayer(w *ecs.World, sim *physics.World, spec *prefabs.PlayerSpec) ecs.Entity {
	spawn := spec.Spawn.Vec3()
	bh := sim.CreateBody(physics.BodyDesc{
		Type:         physics.BodyDynamic,
		Position:     spawn,
		Mass:         spec.Mass,
		LockRotation: true,
	})
	ch := sim.CreateCollider(physics.ColliderDesc{
		Shape:      physics.ShapeCapsule,
		HalfHeight: spec.Collider.HalfHeight,
		Radius:     spec.Collider.Radius,
		Groups:     physics.NewGroups(system.LayerPlayer, system.LayerGround|system.LayerBuilding|system.LayerTitan),
	}, bh)

	e := ecs.CreateEntity(w)
	tr := component.NewTransform(spawn)
	health := component.NewHealth(spec.Health)
	rig := placeholderRig(spec.Collider, mgl64.Vec3{})

	_ = ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &tr)
	_ = ecs.Add(w, e, component.BodyRefComponent.Kind(), &component.BodyRef{
		Body:              bh,
		Collider:          ch,
		CapsuleHalfHeight: spec.Collider.HalfHeight,
		CapsuleRadius:     spec.Collider.Radius,
	})
	_ = ecs.Add(w, e, component.HealthComponent.Kind(), &health)
	_ = ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
	_ = ecs.Add(w, e, component.LocomotionComponent.Kind(), &component.Locomotion{
		MoveSpeed:       spec.MoveSpeed,
		SwingControl:    spec.SwingControl,
		JumpSpeed:       spec.JumpSpeed,
		JumpCooldown:    spec.JumpCooldown,
		CancelBoost:     spec.CancelBoost,
		BoostForce:      spec.BoostForce,
		FaceLerp:        spec.FaceLerp,
		GroundRayMargin: spec.GroundRayMargin,
		GroundEpsilon:   spec.GroundEpsilon,
	})
	_ = ecs.Add(w, e, component.HooksComponent.Kind(), &component.Hooks{
		ShootSpeed:     spec.Hooks.ShootSpeed,
		MaxRange:       spec.Hooks.MaxRange,
		ReleaseRadius:  spec.Hooks.ReleaseRadius,
		ReelForce:      spec.Hooks.ReelForce,
		InitialPull:    spec.Hooks.InitialPull,
		FallDamping:    spec.Hooks.FallDamping,
		LateralOffset:  spec.Hooks.LateralOffset,
		VaultProbe:     spec.Hooks.VaultProbe,
		VaultImpulse:   spec.Hooks.VaultImpulse,
		VaultUpImpulse: spec.Hooks.VaultUp,
	})
	_ = ecs.Add(w, e, component.AttackComponent.Kind(), &component.Attack{
		Damage: spec.Attack.Damage,
		Reach:  spec.Attack.Reach,
	})
	_ = ecs.Add(w, e, component.RigComponent.Kind(), &rig)
	if spec.Rig != "" {
		_ = ecs.Add(w, e, component.RigLoadComponent.Kind(), &component.RigLoad{
			Pending: assets.Load(spec.Rig, prefabs.Load),
		})
	}
	return e
}

func spawnTitan(w *ecs.World, sim *physics.World, spec *prefabs.TitanSpec, at mgl64.Vec3) ecs.Entity {
	// spawn points sit on the pavement; lift to capsule center
	pos := mgl64.Vec3{at.X(), spec.Collider.HalfHeight + spec.Collider.Radius, at.Z()}
	bh := sim.CreateBody(physics.BodyDesc{
		Type:         physics.BodyDynamic,
		Position:     pos,
		LockRotation: true,
	})
	ch := sim.CreateCollider(physics.ColliderDesc{
		Shape:      physics.ShapeCapsule,
		HalfHeight: spec.Collider.HalfHeight,
		Radius:     spec.Collider.Radius,
		Groups:     physics.NewGroups(system.LayerTitan, system.LayerGround|system.LayerBuilding),
	}, bh)

	napeBody := sim.CreateBody(physics.BodyDesc{
		Type:     physics.BodyKinematic,
		Position: pos.Add(spec.Nape.Offset.Vec3()),
	})
	napeCol := sim.CreateCollider(physics.ColliderDesc{
		Shape:  physics.ShapeCapsule,
		Radius: spec.Nape.Radius,
		Groups: physics.NewGroups(system.LayerNape, 0xffff),
		Sensor: true,
	}, napeBody)

	e := ecs.CreateEntity(w)
	tr := component.NewTransform(pos)
	health := component.NewHealth(spec.Health)
	rig := placeholderRig(spec.Collider, spec.Nape.Offset.Vec3())

	_ = ecs.Add(w, e, component.TitanTagComponent.Kind(), &component.TitanTag{})
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &tr)
	_ = ecs.Add(w, e, component.BodyRefComponent.Kind(), &component.BodyRef{
		Body:              bh,
		Collider:          ch,
		CapsuleHalfHeight: spec.Collider.HalfHeight,
		CapsuleRadius:     spec.Collider.Radius,
	})
	_ = ecs.Add(w, e, component.HealthComponent.Kind(), &health)
	_ = ecs.Add(w, e, component.TitanComponent.Kind(), &component.Titan{
		SearchRange:    spec.SearchRange,
		ArmReach:       spec.ArmReach,
		FootRadius:     spec.FootRadius,
		FarRange:       spec.FarRange,
		ChaseSpeed:     spec.ChaseSpeed,
		RoamSpeed:      spec.RoamSpeed,
		AttackTime:     spec.AttackTime,
		AttackCooldown: spec.AttackCooldown,
		WindowStart:    spec.WindowStart,
		WindowEnd:      spec.WindowEnd,
		VolleyCount:    spec.Volley.Count,
		VolleySpeed:    spec.Volley.Speed,
		VolleyDamage:   spec.Volley.Damage,
		StompDamage:    spec.StompDamage,
		SwipeDamage:    spec.SwipeDamage,
		NapeOffset:     spec.Nape.Offset.Vec3(),
		NapeRadius:     spec.Nape.Radius,
		NapeBody:       napeBody,
		NapeCollider:   napeCol,
	})
	// face the plaza until the brain has a better idea
	_ = ecs.Add(w, e, component.TitanStateComponent.Kind(), &component.TitanState{
		Yaw: common.YawOf(pos.Mul(-1)),
	})
	_ = ecs.Add(w, e, component.TitanConfigComponent.Kind(), titanConfig(spec))
	_ = ecs.Add(w, e, component.GroundHazardComponent.Kind(), &component.GroundHazard{
		Center:   mgl64.Vec3{pos.X(), 0, pos.Z()},
		Radius:   spec.Hazard.Radius,
		Damage:   spec.Hazard.Damage,
		Interval: spec.Hazard.Interval,
	})
	_ = ecs.Add(w, e, component.RigComponent.Kind(), &rig)
	if spec.Rig != "" {
		_ = ecs.Add(w, e, component.RigLoadComponent.Kind(), &component.RigLoad{
			Pending: assets.Load(spec.Rig, prefabs.Load),
		})
	}
	return e
}

// titanConfig picks the brain: a script wins, then an inline fsm, then
// an fsm file, then the built-in default.
func titanConfig(spec *prefabs.TitanSpec) *component.TitanConfig {
	switch {
	case spec.Script != "":
		return &component.TitanConfig{ScriptPath: spec.Script}
	case !spec.FSM.Empty():
		return &component.TitanConfig{Spec: spec.FSM.Component()}
	case spec.FSMFile != "":
		return &component.TitanConfig{FSM: spec.FSMFile}
	}
	return &component.TitanConfig{FSM: component.DefaultTitanFSMName}
}

func spawnCamera(w *ecs.World, spec *prefabs.CameraSpec) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.CameraRigComponent.Kind(), &component.CameraRig{
		Yaw:       spec.Yaw,
		Pitch:     spec.Pitch,
		Distance:  spec.Distance,
		Smoothing: spec.Smoothing,
		FocusLift: spec.FocusLift,
	})
	return e
}

// applyPlayerTuning pushes edited prefab numbers onto the live player.
// Runtime state, hook phases and cooldowns above all, stays put.
func applyPlayerTuning(w *ecs.World, e ecs.Entity, spec *prefabs.PlayerSpec) {
	if loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind()); ok {
		loco.MoveSpeed = spec.MoveSpeed
		loco.SwingControl = spec.SwingControl
		loco.JumpSpeed = spec.JumpSpeed
		loco.JumpCooldown = spec.JumpCooldown
		loco.CancelBoost = spec.CancelBoost
		loco.BoostForce = spec.BoostForce
		loco.FaceLerp = spec.FaceLerp
		loco.GroundRayMargin = spec.GroundRayMargin
		loco.GroundEpsilon = spec.GroundEpsilon
	}
	if hooks, ok := ecs.Get(w, e, component.HooksComponent.Kind()); ok {
		hooks.ShootSpeed = spec.Hooks.ShootSpeed
		hooks.MaxRange = spec.Hooks.MaxRange
		hooks.ReleaseRadius = spec.Hooks.ReleaseRadius
		hooks.ReelForce = spec.Hooks.ReelForce
		hooks.InitialPull = spec.Hooks.InitialPull
		hooks.FallDamping = spec.Hooks.FallDamping
		hooks.LateralOffset = spec.Hooks.LateralOffset
		hooks.VaultProbe = spec.Hooks.VaultProbe
		hooks.VaultImpulse = spec.Hooks.VaultImpulse
		hooks.VaultUpImpulse = spec.Hooks.VaultUp
	}
	if attack, ok := ecs.Get(w, e, component.AttackComponent.Kind()); ok {
		attack.Damage = spec.Attack.Damage
		attack.Reach = spec.Attack.Reach
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		h.Max = spec.Health
		if h.Current > h.Max {
			h.Current = h.Max
		}
	}
}

func applyTitanTuning(w *ecs.World, e ecs.Entity, spec *prefabs.TitanSpec) {
	if titan, ok := ecs.Get(w, e, component.TitanComponent.Kind()); ok {
		titan.SearchRange = spec.SearchRange
		titan.ArmReach = spec.ArmReach
		titan.FootRadius = spec.FootRadius
		titan.FarRange = spec.FarRange
		titan.ChaseSpeed = spec.ChaseSpeed
		titan.RoamSpeed = spec.RoamSpeed
		titan.AttackTime = spec.AttackTime
		titan.AttackCooldown = spec.AttackCooldown
		titan.WindowStart = spec.WindowStart
		titan.WindowEnd = spec.WindowEnd
		titan.VolleyCount = spec.Volley.Count
		titan.VolleySpeed = spec.Volley.Speed
		titan.VolleyDamage = spec.Volley.Damage
		titan.StompDamage = spec.StompDamage
		titan.SwipeDamage = spec.SwipeDamage
		titan.NapeRadius = spec.Nape.Radius
		// the loaded rig owns the nape offset once it lands
		if rig, ok := ecs.Get(w, e, component.RigComponent.Kind()); !ok || !rig.Loaded {
			titan.NapeOffset = spec.Nape.Offset.Vec3()
		}
	}
	if hz, ok := ecs.Get(w, e, component.GroundHazardComponent.Kind()); ok {
		hz.Radius = spec.Hazard.Radius
		hz.Damage = spec.Hazard.Damage
		hz.Interval = spec.Hazard.Interval
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		h.Max = spec.Health
		if h.Current > h.Max {
			h.Current = h.Max
		}
	}
}

// applyCameraTuning keeps the live yaw and pitch; only framing numbers
// reload.
func applyCameraTuning(w *ecs.World, e ecs.Entity, spec *prefabs.CameraSpec) {
	if rig, ok := ecs.Get(w, e, component.CameraRigComponent.Kind()); ok {
		rig.Distance = spec.Distance
		rig.Smoothing = spec.Smoothing
		rig.FocusLift = spec.FocusLift
	}
}
