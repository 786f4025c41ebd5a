package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
)

func addCameraRig(w *ecs.World, rig component.CameraRig) *component.CameraRig {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.CameraRigComponent.Kind(), &rig)
	return &rig
}

func TestCameraOrbitLook(t *testing.T) {
	sim := newFakeSim()
	w, _, input, _, _ := newPlayerWorld(sim)
	rig := addCameraRig(w, component.CameraRig{Distance: 11})
	cs := NewCameraOrbitSystem(sim)

	input.LookDeltaX = 100
	input.LookDeltaY = 40
	cs.Update(w)

	if want := -100 * 0.0035; math.Abs(rig.Yaw-want) > 1e-9 {
		t.Fatalf("yaw = %v, want %v", rig.Yaw, want)
	}
	if want := -40 * 0.0035; math.Abs(rig.Pitch-want) > 1e-9 {
		t.Fatalf("pitch = %v, want %v", rig.Pitch, want)
	}
}

func TestCameraOrbitWheelZoom(t *testing.T) {
	sim := newFakeSim()
	w, _, input, _, _ := newPlayerWorld(sim)
	rig := addCameraRig(w, component.CameraRig{Distance: 11})
	cs := NewCameraOrbitSystem(sim)

	input.WheelDelta = 2
	cs.Update(w)
	if want := 11 - 2*wheelZoomStep; math.Abs(rig.Distance-want) > 1e-9 {
		t.Fatalf("distance = %v, want %v", rig.Distance, want)
	}

	input.WheelDelta = 100
	cs.Update(w)
	if rig.Distance != distanceMin {
		t.Fatalf("distance = %v, want floor %v", rig.Distance, distanceMin)
	}

	input.WheelDelta = -100
	cs.Update(w)
	if rig.Distance != distanceMax {
		t.Fatalf("distance = %v, want ceiling %v", rig.Distance, distanceMax)
	}
}

func TestCameraOrbitPitchClamp(t *testing.T) {
	sim := newFakeSim()
	w, _, input, _, _ := newPlayerWorld(sim)
	rig := addCameraRig(w, component.CameraRig{})
	cs := NewCameraOrbitSystem(sim)

	input.LookDeltaY = -5000
	cs.Update(w)
	if rig.Pitch != pitchMax {
		t.Fatalf("pitch = %v, want clamped at %v", rig.Pitch, pitchMax)
	}

	input.LookDeltaY = 5000
	cs.Update(w)
	if rig.Pitch != pitchMin {
		t.Fatalf("pitch = %v, want clamped at %v", rig.Pitch, pitchMin)
	}
}

func TestCameraOrbitFocus(t *testing.T) {
	t.Run("snaps_without_smoothing", func(t *testing.T) {
		sim := newFakeSim()
		w, _, _, _, _ := newPlayerWorld(sim)
		rig := addCameraRig(w, component.CameraRig{FocusLift: 1.4})
		cs := NewCameraOrbitSystem(sim)

		sim.pos[testPlayerBody] = mgl64.Vec3{10, 2, 0}
		cs.Update(w)

		if want := (mgl64.Vec3{10, 3.4, 0}); !vecClose(rig.Focus, want, 1e-12) {
			t.Fatalf("focus = %v, want %v", rig.Focus, want)
		}
	})

	t.Run("chases_exponentially", func(t *testing.T) {
		sim := newFakeSim()
		w, _, _, _, _ := newPlayerWorld(sim)
		rig := addCameraRig(w, component.CameraRig{Smoothing: 14})
		cs := NewCameraOrbitSystem(sim)

		sim.pos[testPlayerBody] = mgl64.Vec3{10, 0, 0}
		cs.Update(w)

		want := 10 * 14 * sim.Dt()
		if math.Abs(rig.Focus.X()-want) > 1e-9 {
			t.Fatalf("focus x after one tick = %v, want %v", rig.Focus.X(), want)
		}

		for i := 0; i < 300; i++ {
			cs.Update(w)
		}
		if !vecClose(rig.Focus, mgl64.Vec3{10, 0, 0}, 1e-6) {
			t.Fatalf("focus = %v, want converged on the player", rig.Focus)
		}
	})
}

func TestCameraRigVectors(t *testing.T) {
	rig := component.CameraRig{Distance: 11, Focus: mgl64.Vec3{0, 5, 0}}

	if got := rig.Forward(); !vecClose(got, mgl64.Vec3{0, 0, 1}, 1e-12) {
		t.Fatalf("forward = %v, want +Z at rest", got)
	}
	if got := rig.Eye(); !vecClose(got, mgl64.Vec3{0, 5, -11}, 1e-12) {
		t.Fatalf("eye = %v, want behind the focus", got)
	}

	rig.Yaw = math.Pi / 2
	if got := rig.ForwardH(); !vecClose(got, mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Fatalf("forwardH = %v, want +X at yaw pi/2", got)
	}
	if got := rig.RightH(); !vecClose(got, mgl64.Vec3{0, 0, -1}, 1e-12) {
		t.Fatalf("rightH = %v, want -Z at yaw pi/2", got)
	}
}
