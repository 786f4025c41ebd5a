package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/skyhook/physics"
)

// Collision layers. Membership bits are symmetric with filter bits, so a
// ray mask of RayMask(LayerBuilding) only reports building colliders.
const (
	LayerGround uint16 = 1 << iota
	LayerBuilding
	LayerPlayer
	LayerTitan
	LayerNape
)

// AttachMask is everything a grapple hook can bite into.
const AttachMask = LayerGround | LayerBuilding | LayerTitan

// GroundMask is everything feet can stand on.
const GroundMask = LayerGround | LayerBuilding | LayerTitan

// RayMask builds ray filter groups that hit only the given layers.
func RayMask(hit uint16) physics.Groups {
	return physics.NewGroups(0xffff, hit)
}

// Sim is the slice of the rigid body simulation gameplay systems touch.
// Systems take it at construction so tests can substitute a scripted
// fake.
type Sim interface {
	Dt() float64
	Step()
	Translation(h physics.BodyHandle) mgl64.Vec3
	SetTranslation(h physics.BodyHandle, p mgl64.Vec3)
	Linvel(h physics.BodyHandle) mgl64.Vec3
	SetLinvel(h physics.BodyHandle, v mgl64.Vec3)
	ApplyImpulse(h physics.BodyHandle, impulse mgl64.Vec3)
	CastRay(ray physics.Ray, maxDist float64, solid bool, groups physics.Groups) (physics.RayHit, bool)
	CreateRopeJoint(bh physics.BodyHandle, anchor mgl64.Vec3, length float64) physics.JointHandle
	RemoveImpulseJoint(h physics.JointHandle)
	ResizeCapsule(h physics.ColliderHandle, halfHeight, radius float64)
}
