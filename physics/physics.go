package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// TickRate is the nominal fixed step frequency of the simulation.
	TickRate = 60.0
	// Dt is the fixed step duration every impulse and force is scaled by.
	Dt = 1.0 / TickRate
)

// BodyType selects how a body participates in integration.
type BodyType int

const (
	BodyDynamic BodyType = iota
	BodyStatic
	BodyKinematic
)

// BodyDesc describes a rigid body at creation time. A zero GravityScale on
// a dynamic body defaults to 1.
type BodyDesc struct {
	Type          BodyType
	Position      mgl64.Vec3
	Mass          float64
	GravityScale  float64
	LinearDamping float64
	LockRotation  bool
}

type BodyHandle int32

type body struct {
	alive        bool
	typ          BodyType
	pos          mgl64.Vec3
	vel          mgl64.Vec3
	invMass      float64
	gravityScale float64
	damping      float64
	lockRotation bool
	colliders    []ColliderHandle
}

// World integrates point-mass rigid bodies under gravity on a fixed step.
// Bodies never rotate; characters are upright capsules and all level
// geometry is axis aligned.
type World struct {
	gravity mgl64.Vec3
	dt      float64

	bodies    []body
	colliders []collider
	joints    []ropeJoint
}

func NewWorld(gravity mgl64.Vec3) *World {
	return &World{gravity: gravity, dt: Dt}
}

func (w *World) Dt() float64 {
	return w.dt
}

func (w *World) Gravity() mgl64.Vec3 {
	return w.gravity
}

// CreateBody registers a body and returns its handle. Handles are 1-based;
// zero is never a valid handle.
func (w *World) CreateBody(desc BodyDesc) BodyHandle {
	b := body{
		alive:        true,
		typ:          desc.Type,
		pos:          desc.Position,
		gravityScale: desc.GravityScale,
		damping:      desc.LinearDamping,
		lockRotation: desc.LockRotation,
	}
	if b.typ == BodyDynamic {
		if b.gravityScale == 0 {
			b.gravityScale = 1
		}
		mass := desc.Mass
		if mass <= 0 {
			mass = 1
		}
		b.invMass = 1 / mass
	}
	w.bodies = append(w.bodies, b)
	return BodyHandle(len(w.bodies))
}

func (w *World) body(h BodyHandle) *body {
	if w == nil || h <= 0 || int(h) > len(w.bodies) {
		return nil
	}
	b := &w.bodies[h-1]
	if !b.alive {
		return nil
	}
	return b
}

// RemoveBody drops a body and every collider attached to it. Safe on an
// already-removed handle.
func (w *World) RemoveBody(h BodyHandle) {
	b := w.body(h)
	if b == nil {
		return
	}
	for _, ch := range b.colliders {
		if c := w.colliderAt(ch); c != nil {
			c.alive = false
		}
	}
	b.alive = false
}

func (w *World) Translation(h BodyHandle) mgl64.Vec3 {
	if b := w.body(h); b != nil {
		return b.pos
	}
	return mgl64.Vec3{}
}

// SetTranslation teleports a body. Used for kinematic placement; dynamic
// bodies should move through velocities and impulses instead.
func (w *World) SetTranslation(h BodyHandle, p mgl64.Vec3) {
	if b := w.body(h); b != nil {
		b.pos = p
	}
}

func (w *World) Linvel(h BodyHandle) mgl64.Vec3 {
	if b := w.body(h); b != nil {
		return b.vel
	}
	return mgl64.Vec3{}
}

func (w *World) SetLinvel(h BodyHandle, v mgl64.Vec3) {
	b := w.body(h)
	if b == nil || b.typ == BodyStatic {
		return
	}
	b.vel = v
}

// ApplyImpulse adds an instantaneous momentum change to a dynamic body.
func (w *World) ApplyImpulse(h BodyHandle, impulse mgl64.Vec3) {
	b := w.body(h)
	if b == nil || b.invMass == 0 {
		return
	}
	b.vel = b.vel.Add(impulse.Mul(b.invMass))
}

// Step advances every dynamic body by one fixed step: gravity, damping,
// integration, contact push-out, then joint limits.
func (w *World) Step() {
	if w == nil {
		return
	}
	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.alive || b.typ != BodyDynamic {
			continue
		}
		b.vel = b.vel.Add(w.gravity.Mul(b.gravityScale * w.dt))
		if b.damping > 0 {
			b.vel = b.vel.Mul(math.Max(0, 1-b.damping*w.dt))
		}
		b.pos = b.pos.Add(b.vel.Mul(w.dt))
	}
	w.solveContacts()
	w.solveJoints()
}
