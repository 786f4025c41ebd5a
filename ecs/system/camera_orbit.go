package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/skyhook/common"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
)

const (
	lookSensitivity = 0.0035
	pitchMin        = -1.2
	pitchMax        = 1.35

	wheelZoomStep = 0.8
	distanceMin   = 4.0
	distanceMax   = 28.0
)

// CameraOrbitSystem turns mouse deltas into yaw and pitch and chases
// the player with the focus point. The rig never collides with the
// world; the follow distance is fixed.
type CameraOrbitSystem struct {
	sim Sim
}

func NewCameraOrbitSystem(sim Sim) *CameraOrbitSystem {
	return &CameraOrbitSystem{sim: sim}
}

func (cs *CameraOrbitSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	playerEnt, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	input, ok := ecs.Get(w, playerEnt, component.InputComponent.Kind())
	if !ok {
		return
	}
	body, ok := ecs.Get(w, playerEnt, component.BodyRefComponent.Kind())
	if !ok {
		return
	}

	target := cs.sim.Translation(body.Body)
	dt := cs.sim.Dt()

	ecs.ForEach(w, component.CameraRigComponent.Kind(), func(e ecs.Entity, rig *component.CameraRig) {
		rig.Yaw = common.WrapAngle(rig.Yaw - input.LookDeltaX*lookSensitivity)
		rig.Pitch = common.Clamp(rig.Pitch-input.LookDeltaY*lookSensitivity, pitchMin, pitchMax)
		if input.WheelDelta != 0 {
			rig.Distance = common.Clamp(rig.Distance-input.WheelDelta*wheelZoomStep, distanceMin, distanceMax)
		}

		chase := target.Add(mgl64.Vec3{0, rig.FocusLift, 0})
		if rig.Smoothing <= 0 {
			rig.Focus = chase
			return
		}
		// exponential chase, frame rate independent at fixed dt
		t := common.Clamp(rig.Smoothing*dt, 0, 1)
		rig.Focus = common.LerpVec3(rig.Focus, chase, t)
	})
}
