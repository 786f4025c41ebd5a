package physics

import "github.com/go-gl/mathgl/mgl64"

type JointHandle int32

// ropeJoint keeps a body within length units of a fixed world anchor. It
// only ever pulls in; the reel force closes the distance.
type ropeJoint struct {
	alive  bool
	body   BodyHandle
	anchor mgl64.Vec3
	length float64
}

// CreateRopeJoint constrains body to stay within length of anchor.
func (w *World) CreateRopeJoint(bh BodyHandle, anchor mgl64.Vec3, length float64) JointHandle {
	if w.body(bh) == nil {
		return 0
	}
	w.joints = append(w.joints, ropeJoint{alive: true, body: bh, anchor: anchor, length: length})
	return JointHandle(len(w.joints))
}

// RemoveImpulseJoint releases a joint. Safe to call more than once and on
// a zero handle.
func (w *World) RemoveImpulseJoint(h JointHandle) {
	if w == nil || h <= 0 || int(h) > len(w.joints) {
		return
	}
	w.joints[h-1].alive = false
}

// JointAttached reports whether the joint is still installed.
func (w *World) JointAttached(h JointHandle) bool {
	if w == nil || h <= 0 || int(h) > len(w.joints) {
		return false
	}
	return w.joints[h-1].alive
}

func (w *World) solveJoints() {
	for i := range w.joints {
		j := &w.joints[i]
		if !j.alive {
			continue
		}
		b := w.body(j.body)
		if b == nil || b.typ != BodyDynamic {
			continue
		}
		d := b.pos.Sub(j.anchor)
		dist := d.Len()
		if dist <= j.length || dist < 1e-9 {
			continue
		}
		dir := d.Mul(1 / dist)
		b.pos = j.anchor.Add(dir.Mul(j.length))
		// clip the outward radial velocity so the body swings on the rope
		// instead of stretching it
		if vr := b.vel.Dot(dir); vr > 0 {
			b.vel = b.vel.Sub(dir.Mul(vr))
		}
	}
}
