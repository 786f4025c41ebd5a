package component

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Line defines a world-space line to render, used for hook cables.
type Line struct {
	Start mgl64.Vec3
	End   mgl64.Vec3
	Width float32
	Color color.Color
}

var LineComponent = NewComponent[Line]()

// Marker defines a world-space point to render, used for hook tips and
// debug positions.
type Marker struct {
	Pos    mgl64.Vec3
	Radius float32
	Color  color.Color
}

var MarkerComponent = NewComponent[Marker]()
