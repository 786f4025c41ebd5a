package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.design/x/clipboard"

	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
	"github.com/milk9111/skyhook/logging"
)

var (
	barBack   = color.NRGBA{R: 0x20, G: 0x24, B: 0x2b, A: 0xd0}
	barPlayer = color.NRGBA{R: 0x4f, G: 0xc3, B: 0x6a, A: 0xff}
	barTitan  = color.NRGBA{R: 0xd8, G: 0x4a, B: 0x4a, A: 0xff}
	barDown   = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
)

// hud draws health bars and the diagnostics overlay. Clipboard access
// is optional; a failed init only disables the F8 copy.
type hud struct {
	clipboardOK bool
}

func newHUD() *hud {
	h := &hud{}
	if err := clipboard.Init(); err != nil {
		logging.Logger.Warn().Err(err).Msg("clipboard unavailable")
		return h
	}
	h.clipboardOK = true
	return h
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	if g.hud == nil {
		return
	}

	if h, ok := ecs.Get(g.world, g.player, component.HealthComponent.Kind()); ok {
		drawBar(screen, baseWidth/2-130, 12, 260, 14, healthFrac(h), barPlayer)
	}

	y := float32(12)
	for _, e := range g.titans {
		h, ok := ecs.Get(g.world, e, component.HealthComponent.Kind())
		if !ok {
			continue
		}
		clr := barTitan
		if !h.Alive {
			clr = barDown
		}
		drawBar(screen, baseWidth-232, y, 220, 10, healthFrac(h), clr)
		y += 16
	}

	if g.debug {
		ebitenutil.DebugPrintAt(screen, g.diagnostics(), 8, 8)
	}
}

func healthFrac(h *component.Health) float64 {
	if h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max
}

func drawBar(screen *ebiten.Image, x, y, w, h float32, frac float64, clr color.Color) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	vector.FillRect(screen, x, y, w, h, barBack, false)
	vector.FillRect(screen, x, y, w*float32(frac), h, clr, false)
	vector.StrokeRect(screen, x, y, w, h, 1, edgeColor, false)
}

func (g *Game) diagnostics() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fps %0.1f  tps %0.1f  frame %d  seed %d\n", ebiten.ActualFPS(), ebiten.ActualTPS(), g.frames, g.seed)

	if body, ok := ecs.Get(g.world, g.player, component.BodyRefComponent.Kind()); ok {
		pos := g.sim.Translation(body.Body)
		vel := g.sim.Linvel(body.Body)
		fmt.Fprintf(&b, "pos %5.1f %5.1f %5.1f  vel %5.1f %5.1f %5.1f\n", pos.X(), pos.Y(), pos.Z(), vel.X(), vel.Y(), vel.Z())
	}
	if loco, ok := ecs.Get(g.world, g.player, component.LocomotionComponent.Kind()); ok {
		fmt.Fprintf(&b, "grounded %v  jump cooldown %0.2f\n", loco.Grounded, loco.CooldownLeft)
	}
	if hooks, ok := ecs.Get(g.world, g.player, component.HooksComponent.Kind()); ok {
		fmt.Fprintf(&b, "hooks L %s  R %s\n", hooks.Left.Phase, hooks.Right.Phase)
	}

	alive := 0
	for _, e := range g.titans {
		if h, ok := ecs.Get(g.world, e, component.HealthComponent.Kind()); ok && h.Alive {
			alive++
		}
	}
	fmt.Fprintf(&b, "titans %d/%d\n", alive, len(g.titans))

	if camEnt, ok := g.world.First(component.CameraRigComponent.Kind()); ok {
		if rig, ok := ecs.Get(g.world, camEnt, component.CameraRigComponent.Kind()); ok {
			fmt.Fprintf(&b, "cam yaw %0.2f  pitch %0.2f  dist %0.1f", rig.Yaw, rig.Pitch, rig.Distance)
		}
	}
	return b.String()
}

func (g *Game) copyDiagnostics() {
	if g.hud == nil || !g.hud.clipboardOK {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(g.diagnostics()))
	logging.Logger.Info().Msg("diagnostics copied")
}
