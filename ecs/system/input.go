package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
)

// InputSystem samples the window layer into Input components once per
// frame. It is the only system that talks to ebiten, so headless runs
// simply leave it out of the schedule and write Input directly.
type InputSystem struct {
	lastCursorX int
	lastCursorY int
	hasCursor   bool
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

// ResetCursor drops the tracked cursor position so the next sample
// reports a zero look delta. Called when the pause menu releases the
// pointer; otherwise unpausing would whip the camera.
func (i *InputSystem) ResetCursor() {
	if i == nil {
		return
	}
	i.hasCursor = false
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	moveX := 0.0
	moveZ := 0.0
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		moveX += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		moveZ += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		moveZ -= 1
	}

	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	boostHeld := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	shootLeft := inpututil.IsKeyJustPressed(ebiten.KeyQ)
	shootRight := inpututil.IsKeyJustPressed(ebiten.KeyE)
	releaseBoth := inpututil.IsKeyJustPressed(ebiten.KeyR)
	attackPressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	cx, cy := ebiten.CursorPosition()
	lookDX := 0.0
	lookDY := 0.0
	if i.hasCursor {
		lookDX = float64(cx - i.lastCursorX)
		lookDY = float64(cy - i.lastCursorY)
	}
	i.lastCursorX = cx
	i.lastCursorY = cy
	i.hasCursor = true

	_, wheelY := ebiten.Wheel()

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.MoveX = moveX
		input.MoveZ = moveZ
		input.JumpPressed = jumpPressed
		input.BoostHeld = boostHeld
		input.ShootLeft = shootLeft
		input.ShootRight = shootRight
		input.ReleaseBoth = releaseBoth
		input.AttackPressed = attackPressed
		input.LookDeltaX = lookDX
		input.LookDeltaY = lookDY
		input.WheelDelta = wheelY
	})
}
