package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeKind enumerates the collider shapes the sim understands.
type ShapeKind int

const (
	ShapeCapsule ShapeKind = iota
	ShapeCuboid
	ShapeCylinder
	ShapeTrimesh
)

// ColliderDesc describes a collider attached to a body. Capsules and
// cylinders are upright: HalfHeight is the half length of the vertical axis
// segment, so a capsule's total height is 2*HalfHeight + 2*Radius.
type ColliderDesc struct {
	Shape       ShapeKind
	HalfHeight  float64
	Radius      float64
	HalfExtents mgl64.Vec3
	// Trimesh geometry, relative to the body origin.
	Vertices []mgl64.Vec3
	Indices  []uint32
	Offset   mgl64.Vec3
	Groups   Groups
	Sensor   bool
}

type ColliderHandle int32

type collider struct {
	alive bool
	desc  ColliderDesc
	body  BodyHandle
}

// CreateCollider attaches a collider to a body and returns its handle.
func (w *World) CreateCollider(desc ColliderDesc, bh BodyHandle) ColliderHandle {
	b := w.body(bh)
	if b == nil {
		return 0
	}
	w.colliders = append(w.colliders, collider{alive: true, desc: desc, body: bh})
	h := ColliderHandle(len(w.colliders))
	b.colliders = append(b.colliders, h)
	return h
}

func (w *World) colliderAt(h ColliderHandle) *collider {
	if w == nil || h <= 0 || int(h) > len(w.colliders) {
		return nil
	}
	c := &w.colliders[h-1]
	if !c.alive {
		return nil
	}
	return c
}

func (w *World) ColliderBody(h ColliderHandle) BodyHandle {
	if c := w.colliderAt(h); c != nil {
		return c.body
	}
	return 0
}

func (w *World) ColliderGroups(h ColliderHandle) Groups {
	if c := w.colliderAt(h); c != nil {
		return c.desc.Groups
	}
	return 0
}

// ResizeCapsule swaps the dimensions of a capsule or cylinder collider in
// place, used when a loaded rig replaces placeholder bounds.
func (w *World) ResizeCapsule(h ColliderHandle, halfHeight, radius float64) {
	c := w.colliderAt(h)
	if c == nil {
		return
	}
	if c.desc.Shape != ShapeCapsule && c.desc.Shape != ShapeCylinder {
		return
	}
	c.desc.HalfHeight = halfHeight
	c.desc.Radius = radius
}

// solveContacts pushes dynamic capsule bodies out of static solids. Only
// upright capsules versus axis-aligned cuboids are resolved; that covers
// characters against streets and building blocks.
func (w *World) solveContacts() {
	for bi := range w.bodies {
		b := &w.bodies[bi]
		if !b.alive || b.typ != BodyDynamic {
			continue
		}
		for _, ch := range b.colliders {
			c := w.colliderAt(ch)
			if c == nil || c.desc.Sensor {
				continue
			}
			if c.desc.Shape != ShapeCapsule && c.desc.Shape != ShapeCylinder {
				continue
			}
			w.pushOutCapsule(b, c)
		}
	}
}

func (w *World) pushOutCapsule(b *body, c *collider) {
	for oi := range w.colliders {
		oc := &w.colliders[oi]
		if !oc.alive || oc.desc.Sensor || oc.desc.Shape != ShapeCuboid {
			continue
		}
		ob := w.body(oc.body)
		if ob == nil || ob.typ == BodyDynamic {
			continue
		}
		if !c.desc.Groups.Compatible(oc.desc.Groups) {
			continue
		}
		center := b.pos.Add(c.desc.Offset)
		n, depth, ok := capsuleCuboidContact(center, c.desc.HalfHeight, c.desc.Radius,
			ob.pos.Add(oc.desc.Offset), oc.desc.HalfExtents)
		if !ok {
			continue
		}
		b.pos = b.pos.Add(n.Mul(depth))
		// kill the velocity component driving into the surface
		vn := b.vel.Dot(n)
		if vn < 0 {
			b.vel = b.vel.Sub(n.Mul(vn))
		}
	}
}

// capsuleCuboidContact reports the push-out normal and depth for an upright
// capsule against an axis-aligned box. The normal points from the box
// toward the capsule.
func capsuleCuboidContact(center mgl64.Vec3, halfHeight, radius float64, boxCenter, halfExtents mgl64.Vec3) (mgl64.Vec3, float64, bool) {
	minB := boxCenter.Sub(halfExtents)
	maxB := boxCenter.Add(halfExtents)
	segLo := center.Y() - halfHeight
	segHi := center.Y() + halfHeight

	// closest points between the vertical axis segment and the box
	var sy, qy float64
	switch {
	case segHi < minB.Y():
		sy, qy = segHi, minB.Y()
	case segLo > maxB.Y():
		sy, qy = segLo, maxB.Y()
	default:
		lo := math.Max(segLo, minB.Y())
		hi := math.Min(segHi, maxB.Y())
		mid := (lo + hi) / 2
		sy, qy = mid, mid
	}
	qx := clamp(center.X(), minB.X(), maxB.X())
	qz := clamp(center.Z(), minB.Z(), maxB.Z())

	d := mgl64.Vec3{center.X() - qx, sy - qy, center.Z() - qz}
	dist := d.Len()
	if dist >= radius {
		return mgl64.Vec3{}, 0, false
	}
	if dist > 1e-9 {
		return d.Mul(1 / dist), radius - dist, true
	}
	// axis buried inside the box: eject through the nearest face
	return nearestFaceNormal(center, minB, maxB, radius)
}

func nearestFaceNormal(p, minB, maxB mgl64.Vec3, radius float64) (mgl64.Vec3, float64, bool) {
	type face struct {
		n    mgl64.Vec3
		dist float64
	}
	faces := []face{
		{mgl64.Vec3{-1, 0, 0}, p.X() - minB.X()},
		{mgl64.Vec3{1, 0, 0}, maxB.X() - p.X()},
		{mgl64.Vec3{0, -1, 0}, p.Y() - minB.Y()},
		{mgl64.Vec3{0, 1, 0}, maxB.Y() - p.Y()},
		{mgl64.Vec3{0, 0, -1}, p.Z() - minB.Z()},
		{mgl64.Vec3{0, 0, 1}, maxB.Z() - p.Z()},
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.dist < best.dist {
			best = f
		}
	}
	return best.n, best.dist + radius, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
