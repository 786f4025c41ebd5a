package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/skyhook/physics"
)

type HookPhase int

const (
	HookIdle HookPhase = iota
	HookShooting
	HookAttached
)

func (p HookPhase) String() string {
	switch p {
	case HookIdle:
		return "idle"
	case HookShooting:
		return "shooting"
	case HookAttached:
		return "attached"
	}
	return "unknown"
}

// Hook is the runtime state of a single grapple line.
type Hook struct {
	Phase  HookPhase
	Target mgl64.Vec3
	TipPos mgl64.Vec3
	Joint  physics.JointHandle
}

// Clear resets the hook to idle. The caller is responsible for removing
// the joint from the simulation first.
func (h *Hook) Clear() {
	h.Phase = HookIdle
	h.Target = mgl64.Vec3{}
	h.TipPos = mgl64.Vec3{}
	h.Joint = 0
}

type HookSide int

const (
	HookLeft HookSide = iota
	HookRight
)

// Hooks is the dual-grapple state and tuning for an entity. Tuning values
// come from the player prefab and stay fixed at runtime.
type Hooks struct {
	Left  Hook
	Right Hook

	ShootSpeed    float64
	MaxRange      float64
	ReleaseRadius float64
	ReelForce     float64
	InitialPull   float64
	FallDamping   float64
	LateralOffset float64

	VaultProbe     float64
	VaultImpulse   float64
	VaultUpImpulse float64
}

func (h *Hooks) Hook(side HookSide) *Hook {
	if side == HookLeft {
		return &h.Left
	}
	return &h.Right
}

// AnyAttached reports whether at least one hook is anchored.
func (h *Hooks) AnyAttached() bool {
	return h.Left.Phase == HookAttached || h.Right.Phase == HookAttached
}

// AnyActive reports whether at least one hook is shooting or anchored.
func (h *Hooks) AnyActive() bool {
	return h.Left.Phase != HookIdle || h.Right.Phase != HookIdle
}

var HooksComponent = NewComponent[Hooks]()

// HookCancel is a one-shot request to drop both hooks. The locomotion
// system adds it when a jump cancels a swing and the grapple system
// consumes it during its update.
type HookCancel struct{}

var HookCancelComponent = NewComponent[HookCancel]()
