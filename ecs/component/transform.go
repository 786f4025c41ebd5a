package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is the render-facing pose of an entity. Systems that own a
// physics body mirror its translation here every tick; rotation stays
// gameplay-driven because player and titan bodies have locked rotations.
type Transform struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat
}

func NewTransform(pos mgl64.Vec3) Transform {
	return Transform{Pos: pos, Rot: mgl64.QuatIdent()}
}

var TransformComponent = NewComponent[Transform]()
