package main

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/skyhook/common"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
)

const (
	topScale    = 3.0
	sideScaleX  = 3.0
	sideScaleY  = 1.5
	stripHeight = 140
)

var (
	skyColor     = color.NRGBA{R: 0x16, G: 0x1a, B: 0x21, A: 0xff}
	groundColor  = color.NRGBA{R: 0x23, G: 0x28, B: 0x30, A: 0xff}
	plazaColor   = color.NRGBA{R: 0x45, G: 0x4d, B: 0x5a, A: 0xff}
	edgeColor    = color.NRGBA{R: 0x0c, G: 0x0e, B: 0x12, A: 0xff}
	stripBack    = color.NRGBA{R: 0x10, G: 0x13, B: 0x19, A: 0xff}
	viewDirColor = color.NRGBA{R: 0x8c, G: 0xb4, B: 0xdc, A: 0x90}
	hazardFill   = color.RGBA{R: 255, G: 0, B: 0, A: 48}
	hazardStroke = color.RGBA{R: 255, G: 0, B: 0, A: 200}
)

// topView maps ground-plane world coordinates onto the screen, centered
// on the camera focus. North, positive Z, points up.
type topView struct {
	center mgl64.Vec3
	scale  float64
}

func (v topView) point(world mgl64.Vec3) (float32, float32) {
	x := baseWidth/2 + (world.X()-v.center.X())*v.scale
	y := baseHeight/2 - (world.Z()-v.center.Z())*v.scale
	return float32(x), float32(y)
}

// sideView maps world coordinates onto the elevation strip: X across,
// height up, depth discarded.
type sideView struct {
	centerX float64
	groundY float32
}

func (v sideView) point(world mgl64.Vec3) (float32, float32) {
	x := baseWidth/2 + (world.X()-v.centerX)*sideScaleX
	y := float64(v.groundY) - world.Y()*sideScaleY
	return float32(x), float32(y)
}

func (g *Game) drawScene(screen *ebiten.Image) {
	var rig *component.CameraRig
	if camEnt, ok := g.world.First(component.CameraRigComponent.Kind()); ok {
		rig, _ = ecs.Get(g.world, camEnt, component.CameraRigComponent.Kind())
	}
	var focus mgl64.Vec3
	if rig != nil {
		focus = rig.Focus
	}
	top := topView{center: focus, scale: topScale}

	g.drawDistrict(screen, top)
	g.drawHazards(screen, top)
	g.drawProjectiles(screen, top)
	g.drawTitans(screen, top)
	g.drawPlayer(screen, top)
	g.drawHookVisuals(screen, top)

	if rig != nil {
		fx, fy := top.point(focus)
		tx, ty := top.point(focus.Add(rig.ForwardH().Mul(6)))
		vector.StrokeLine(screen, fx, fy, tx, ty, 1, viewDirColor, false)
	}

	g.drawElevation(screen, focus)
}

func (g *Game) drawDistrict(screen *ebiten.Image, top topView) {
	half := g.city.GroundHalf
	x0, y0 := top.point(mgl64.Vec3{-half, 0, half})
	x1, y1 := top.point(mgl64.Vec3{half, 0, -half})
	vector.FillRect(screen, x0, y0, x1-x0, y1-y0, groundColor, false)

	cx, cy := top.point(mgl64.Vec3{})
	vector.StrokeCircle(screen, cx, cy, float32(g.city.PlazaRadius*top.scale), 1, plazaColor, false)

	for _, b := range g.city.Buildings {
		bx, by := top.point(mgl64.Vec3{b.Center.X() - b.Half.X(), 0, b.Center.Z() + b.Half.Z()})
		w := float32(2 * b.Half.X() * top.scale)
		h := float32(2 * b.Half.Z() * top.scale)
		vector.FillRect(screen, bx, by, w, h, g.palette[b.Tint%len(g.palette)], false)
		vector.StrokeRect(screen, bx, by, w, h, 1, edgeColor, false)
	}
}

func (g *Game) drawHazards(screen *ebiten.Image, top topView) {
	ecs.ForEach(g.world, component.GroundHazardComponent.Kind(), func(_ ecs.Entity, hz *component.GroundHazard) {
		if !hz.Active {
			return
		}
		x, y := top.point(hz.Center)
		r := float32(hz.Radius * top.scale)
		vector.FillCircle(screen, x, y, r, hazardFill, false)
		vector.StrokeCircle(screen, x, y, r, 1, hazardStroke, false)
	})
}

func (g *Game) drawProjectiles(screen *ebiten.Image, top topView) {
	ecs.ForEach(g.world, component.ProjectileComponent.Kind(), func(_ ecs.Entity, p *component.Projectile) {
		x, y := top.point(p.Pos)
		vector.FillCircle(screen, x, y, 3, colornames.Orange, false)
	})
}

func (g *Game) drawTitans(screen *ebiten.Image, top topView) {
	for _, e := range g.world.Query(component.TitanTagComponent.Kind(), component.TransformComponent.Kind(), component.BodyRefComponent.Kind()) {
		if h, ok := ecs.Get(g.world, e, component.HealthComponent.Kind()); ok && h.Hidden {
			continue
		}
		tr, _ := ecs.Get(g.world, e, component.TransformComponent.Kind())
		body, _ := ecs.Get(g.world, e, component.BodyRefComponent.Kind())
		state, _ := ecs.Get(g.world, e, component.TitanStateComponent.Kind())
		titan, _ := ecs.Get(g.world, e, component.TitanComponent.Kind())
		if tr == nil || body == nil {
			continue
		}

		dead := state != nil && state.Dead
		clr := color.Color(colornames.Crimson)
		if dead {
			clr = colornames.Dimgray
		}
		x, y := top.point(tr.Pos)
		r := float32(body.CapsuleRadius * top.scale)
		vector.FillCircle(screen, x, y, r, clr, false)

		if state == nil || dead {
			continue
		}
		tip := tr.Pos.Add(common.RotateY(mgl64.Vec3{0, 0, body.CapsuleRadius + 1.2}, state.Yaw))
		tx, ty := top.point(tip)
		vector.StrokeLine(screen, x, y, tx, ty, 2, clr, false)

		if titan != nil {
			nape := tr.Pos.Add(common.RotateY(titan.NapeOffset, state.Yaw))
			nx, ny := top.point(nape)
			vector.FillCircle(screen, nx, ny, 3, colornames.Gold, false)
		}
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image, top topView) {
	tr, ok := ecs.Get(g.world, g.player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	clr := color.Color(colornames.White)
	if h, ok := ecs.Get(g.world, g.player, component.HealthComponent.Kind()); ok && !h.Alive {
		clr = colornames.Dimgray
	}

	x, y := top.point(tr.Pos)
	vector.FillCircle(screen, x, y, 3, clr, false)
	facing := tr.Rot.Rotate(mgl64.Vec3{0, 0, 1}).Mul(1.8)
	fx, fy := top.point(tr.Pos.Add(facing))
	vector.StrokeLine(screen, x, y, fx, fy, 1.5, clr, false)
}

func (g *Game) drawHookVisuals(screen *ebiten.Image, top topView) {
	ecs.ForEach(g.world, component.LineComponent.Kind(), func(_ ecs.Entity, line *component.Line) {
		x0, y0 := top.point(line.Start)
		x1, y1 := top.point(line.End)
		vector.StrokeLine(screen, x0, y0, x1, y1, line.Width, line.Color, false)
	})
	ecs.ForEach(g.world, component.MarkerComponent.Kind(), func(_ ecs.Entity, m *component.Marker) {
		x, y := top.point(m.Pos)
		vector.FillCircle(screen, x, y, m.Radius, m.Color, false)
	})
}

// drawElevation renders the skyline side-on along the bottom of the
// screen. Top view answers where, this strip answers how high.
func (g *Game) drawElevation(screen *ebiten.Image, focus mgl64.Vec3) {
	stripTop := float32(baseHeight - stripHeight)
	strip := screen.SubImage(image.Rect(0, baseHeight-stripHeight, baseWidth, baseHeight)).(*ebiten.Image)
	vector.FillRect(strip, 0, stripTop, baseWidth, stripHeight, stripBack, false)

	side := sideView{centerX: focus.X(), groundY: baseHeight - 10}

	gx0, _ := side.point(mgl64.Vec3{-g.city.GroundHalf, 0, 0})
	gx1, _ := side.point(mgl64.Vec3{g.city.GroundHalf, 0, 0})
	vector.StrokeLine(strip, gx0, side.groundY, gx1, side.groundY, 1, plazaColor, false)

	for _, b := range g.city.Buildings {
		x, _ := side.point(mgl64.Vec3{b.Center.X() - b.Half.X(), 0, 0})
		w := float32(2 * b.Half.X() * sideScaleX)
		h := float32(2 * b.Half.Y() * sideScaleY)
		vector.FillRect(strip, x, side.groundY-h, w, h, g.palette[b.Tint%len(g.palette)], false)
	}

	ecs.ForEach(g.world, component.LineComponent.Kind(), func(_ ecs.Entity, line *component.Line) {
		x0, y0 := side.point(line.Start)
		x1, y1 := side.point(line.End)
		vector.StrokeLine(strip, x0, y0, x1, y1, 1, line.Color, false)
	})

	for _, e := range g.world.Query(component.TitanTagComponent.Kind(), component.TransformComponent.Kind(), component.BodyRefComponent.Kind()) {
		if h, ok := ecs.Get(g.world, e, component.HealthComponent.Kind()); ok && h.Hidden {
			continue
		}
		tr, _ := ecs.Get(g.world, e, component.TransformComponent.Kind())
		body, _ := ecs.Get(g.world, e, component.BodyRefComponent.Kind())
		if tr == nil || body == nil {
			continue
		}
		half := body.CapsuleHalfHeight + body.CapsuleRadius
		x, yTop := side.point(mgl64.Vec3{tr.Pos.X() - body.CapsuleRadius, tr.Pos.Y() + half, 0})
		w := float32(2 * body.CapsuleRadius * sideScaleX)
		h := float32(2 * half * sideScaleY)
		vector.FillRect(strip, x, yTop, w, h, colornames.Crimson, false)
	}

	if tr, ok := ecs.Get(g.world, g.player, component.TransformComponent.Kind()); ok {
		x, y := side.point(tr.Pos)
		vector.FillCircle(strip, x, y, 3, colornames.White, false)
	}

	vector.StrokeRect(screen, 0, stripTop, baseWidth, stripHeight, 1, edgeColor, false)
}
