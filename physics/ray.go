package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half line. Dir must be unit length.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// RayHit reports the nearest intersection found by CastRay.
type RayHit struct {
	ToI      float64
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Collider ColliderHandle
	Body     BodyHandle
}

// CastRay finds the nearest compatible collider within maxDist. With solid
// set, a ray starting inside a shape reports a zero time of impact.
func (w *World) CastRay(ray Ray, maxDist float64, solid bool, groups Groups) (RayHit, bool) {
	if w == nil {
		return RayHit{}, false
	}
	best := RayHit{ToI: math.Inf(1)}
	found := false
	for i := range w.colliders {
		c := &w.colliders[i]
		if !c.alive {
			continue
		}
		if !groups.Compatible(c.desc.Groups) {
			continue
		}
		b := w.body(c.body)
		if b == nil {
			continue
		}
		center := b.pos.Add(c.desc.Offset)
		toi, normal, ok := rayShape(ray, center, &c.desc, maxDist, solid)
		if !ok || toi >= best.ToI {
			continue
		}
		best = RayHit{
			ToI:      toi,
			Point:    ray.Origin.Add(ray.Dir.Mul(toi)),
			Normal:   normal,
			Collider: ColliderHandle(i + 1),
			Body:     c.body,
		}
		found = true
	}
	if !found {
		return RayHit{}, false
	}
	return best, true
}

func rayShape(ray Ray, center mgl64.Vec3, desc *ColliderDesc, maxDist float64, solid bool) (float64, mgl64.Vec3, bool) {
	switch desc.Shape {
	case ShapeCuboid:
		return rayCuboid(ray, center, desc.HalfExtents, maxDist, solid)
	case ShapeCapsule:
		a := center.Sub(mgl64.Vec3{0, desc.HalfHeight, 0})
		b := center.Add(mgl64.Vec3{0, desc.HalfHeight, 0})
		return rayCapsule(ray, a, b, desc.Radius, maxDist, solid)
	case ShapeCylinder:
		return rayCylinder(ray, center, desc.HalfHeight, desc.Radius, maxDist, solid)
	case ShapeTrimesh:
		return rayTrimesh(ray, center, desc.Vertices, desc.Indices, maxDist)
	}
	return 0, mgl64.Vec3{}, false
}

func rayCuboid(ray Ray, center, half mgl64.Vec3, maxDist float64, solid bool) (float64, mgl64.Vec3, bool) {
	minB := center.Sub(half)
	maxB := center.Add(half)

	tmin, tmax := 0.0, maxDist
	normal := mgl64.Vec3{}
	entered := false
	for axis := 0; axis < 3; axis++ {
		o, d := ray.Origin[axis], ray.Dir[axis]
		if math.Abs(d) < 1e-12 {
			if o < minB[axis] || o > maxB[axis] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		inv := 1 / d
		t1 := (minB[axis] - o) * inv
		t2 := (maxB[axis] - o) * inv
		n := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			n = 1.0
		}
		if t1 > tmin {
			tmin = t1
			normal = mgl64.Vec3{}
			normal[axis] = n
			entered = true
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, mgl64.Vec3{}, false
		}
	}
	if !entered {
		// origin inside the box
		if !solid {
			return 0, mgl64.Vec3{}, false
		}
		return 0, ray.Dir.Mul(-1), true
	}
	return tmin, normal, true
}

func rayCapsule(ray Ray, a, b mgl64.Vec3, radius, maxDist float64, solid bool) (float64, mgl64.Vec3, bool) {
	if solid && pointSegmentDistance(ray.Origin, a, b) <= radius {
		return 0, ray.Dir.Mul(-1), true
	}

	best := math.Inf(1)
	axis := b.Sub(a)
	dd := axis.Dot(axis)

	if dd > 1e-12 {
		m := ray.Origin.Sub(a)
		nd := ray.Dir.Dot(axis)
		md := m.Dot(axis)
		qa := dd - nd*nd
		qb := dd*m.Dot(ray.Dir) - nd*md
		qc := dd*(m.Dot(m)-radius*radius) - md*md
		if math.Abs(qa) > 1e-12 {
			if discr := qb*qb - qa*qc; discr >= 0 {
				t := (-qb - math.Sqrt(discr)) / qa
				if t >= 0 && t <= maxDist {
					if y := md + t*nd; y >= 0 && y <= dd {
						best = t
					}
				}
			}
		}
	}

	for _, capCenter := range []mgl64.Vec3{a, b} {
		if t, ok := raySphere(ray, capCenter, radius, maxDist); ok && t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return 0, mgl64.Vec3{}, false
	}
	p := ray.Origin.Add(ray.Dir.Mul(best))
	closest := closestOnSegment(p, a, b)
	n := p.Sub(closest)
	if l := n.Len(); l > 1e-12 {
		n = n.Mul(1 / l)
	} else {
		n = ray.Dir.Mul(-1)
	}
	return best, n, true
}

func rayCylinder(ray Ray, center mgl64.Vec3, halfHeight, radius, maxDist float64, solid bool) (float64, mgl64.Vec3, bool) {
	lo, hi := center.Y()-halfHeight, center.Y()+halfHeight
	o := ray.Origin
	inside := o.Y() >= lo && o.Y() <= hi &&
		math.Hypot(o.X()-center.X(), o.Z()-center.Z()) <= radius
	if inside {
		if !solid {
			return 0, mgl64.Vec3{}, false
		}
		return 0, ray.Dir.Mul(-1), true
	}

	best := math.Inf(1)
	var normal mgl64.Vec3

	// lateral surface
	ox, oz := o.X()-center.X(), o.Z()-center.Z()
	dx, dz := ray.Dir.X(), ray.Dir.Z()
	qa := dx*dx + dz*dz
	if qa > 1e-12 {
		qb := ox*dx + oz*dz
		qc := ox*ox + oz*oz - radius*radius
		if discr := qb*qb - qa*qc; discr >= 0 {
			t := (-qb - math.Sqrt(discr)) / qa
			if t >= 0 && t <= maxDist {
				if y := o.Y() + ray.Dir.Y()*t; y >= lo && y <= hi {
					best = t
					p := ray.Origin.Add(ray.Dir.Mul(t))
					normal = mgl64.Vec3{p.X() - center.X(), 0, p.Z() - center.Z()}.Normalize()
				}
			}
		}
	}

	// end caps
	if math.Abs(ray.Dir.Y()) > 1e-12 {
		for _, capY := range []float64{lo, hi} {
			t := (capY - o.Y()) / ray.Dir.Y()
			if t < 0 || t > maxDist || t >= best {
				continue
			}
			p := ray.Origin.Add(ray.Dir.Mul(t))
			if math.Hypot(p.X()-center.X(), p.Z()-center.Z()) <= radius {
				best = t
				if capY == lo {
					normal = mgl64.Vec3{0, -1, 0}
				} else {
					normal = mgl64.Vec3{0, 1, 0}
				}
			}
		}
	}

	if math.IsInf(best, 1) {
		return 0, mgl64.Vec3{}, false
	}
	return best, normal, true
}

func rayTrimesh(ray Ray, origin mgl64.Vec3, verts []mgl64.Vec3, indices []uint32, maxDist float64) (float64, mgl64.Vec3, bool) {
	best := math.Inf(1)
	var normal mgl64.Vec3
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= len(verts) || int(i1) >= len(verts) || int(i2) >= len(verts) {
			continue
		}
		v0 := verts[i0].Add(origin)
		v1 := verts[i1].Add(origin)
		v2 := verts[i2].Add(origin)
		t, ok := rayTriangle(ray, v0, v1, v2, maxDist)
		if !ok || t >= best {
			continue
		}
		best = t
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		if l := n.Len(); l > 1e-12 {
			n = n.Mul(1 / l)
			if n.Dot(ray.Dir) > 0 {
				n = n.Mul(-1)
			}
			normal = n
		}
	}
	if math.IsInf(best, 1) {
		return 0, mgl64.Vec3{}, false
	}
	return best, normal, true
}

// rayTriangle is the Moller-Trumbore intersection.
func rayTriangle(ray Ray, v0, v1, v2 mgl64.Vec3, maxDist float64) (float64, bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	p := ray.Dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < 1e-12 {
		return 0, false
	}
	inv := 1 / det
	s := ray.Origin.Sub(v0)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := ray.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < 0 || t > maxDist {
		return 0, false
	}
	return t, true
}

func raySphere(ray Ray, center mgl64.Vec3, radius, maxDist float64) (float64, bool) {
	m := ray.Origin.Sub(center)
	b := m.Dot(ray.Dir)
	c := m.Dot(m) - radius*radius
	if c > 0 && b > 0 {
		return 0, false
	}
	discr := b*b - c
	if discr < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(discr)
	if t < 0 {
		t = 0
	}
	if t > maxDist {
		return 0, false
	}
	return t, true
}

func closestOnSegment(p, a, b mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	dd := ab.Dot(ab)
	if dd < 1e-12 {
		return a
	}
	t := clamp(p.Sub(a).Dot(ab)/dd, 0, 1)
	return a.Add(ab.Mul(t))
}

func pointSegmentDistance(p, a, b mgl64.Vec3) float64 {
	return p.Sub(closestOnSegment(p, a, b)).Len()
}
