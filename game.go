package main

import (
	"fmt"
	"image/color"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/spf13/viper"

	"github.com/milk9111/skyhook/assets"
	"github.com/milk9111/skyhook/citygen"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
	"github.com/milk9111/skyhook/ecs/system"
	"github.com/milk9111/skyhook/logging"
	"github.com/milk9111/skyhook/physics"
	"github.com/milk9111/skyhook/prefabs"
	"github.com/milk9111/skyhook/telemetry"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

// Game wires the fixed-step simulation to the window: input sampling,
// the system schedule, the debug viewer and the pause menu. Headless
// runs are the same game without the input system or any drawing.
type Game struct {
	headless bool
	paused   bool
	quit     bool
	debug    bool
	frames   int

	world *ecs.World
	sim   *physics.World
	city  *citygen.City
	rec   *telemetry.Recorder

	inputSys *system.InputSystem
	titanSys *system.TitanSystem
	watcher  *prefabs.Watcher

	playerSpec *prefabs.PlayerSpec
	titanSpec  *prefabs.TitanSpec

	player ecs.Entity
	camera ecs.Entity
	titans []ecs.Entity

	seed    int64
	palette []color.Color

	ui  *ebitenui.UI
	hud *hud
}

func NewGame(headless bool) (*Game, error) {
	seed := viper.GetInt64("sim.seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	playerSpec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return nil, fmt.Errorf("player prefab: %w", err)
	}
	titanSpec, err := prefabs.LoadTitanSpec()
	if err != nil {
		return nil, fmt.Errorf("titan prefab: %w", err)
	}
	cameraSpec, err := prefabs.LoadCameraSpec()
	if err != nil {
		return nil, fmt.Errorf("camera prefab: %w", err)
	}
	citySpec, err := prefabs.LoadCitySpec()
	if err != nil {
		return nil, fmt.Errorf("city prefab: %w", err)
	}

	city, err := citygen.Generate(citySpec, seed)
	if err != nil {
		return nil, fmt.Errorf("citygen: %w", err)
	}

	gravity := mgl64.Vec3{0, viper.GetFloat64("sim.gravity"), 0}
	sim := physics.NewWorld(gravity)
	world := ecs.NewWorld()

	g := &Game{
		headless:   headless,
		debug:      viper.GetBool("debug.overlay"),
		world:      world,
		sim:        sim,
		city:       city,
		playerSpec: playerSpec,
		titanSpec:  titanSpec,
		seed:       seed,
		palette:    buildPalette(citySpec),
	}

	buildCityColliders(sim, city)
	g.player = spawnPlayer(world, sim, playerSpec)
	g.camera = spawnCamera(world, cameraSpec)

	rng := rand.New(rand.NewSource(seed))
	count := viper.GetInt("sim.titans")
	points := city.SpawnPoints(count, titanSpec.Collider.Radius*3, rng)
	if len(points) < count {
		logging.Logger.Warn().Int("want", count).Int("got", len(points)).Msg("crowded district, fewer titan spawns")
	}
	for _, p := range points {
		g.titans = append(g.titans, spawnTitan(world, sim, titanSpec, p))
	}

	if viper.GetBool("telemetry.enabled") {
		db, err := telemetry.Open(viper.GetString("telemetry.path"))
		if err == nil {
			err = telemetry.Migrate(db)
		}
		if err == nil {
			g.rec, err = telemetry.NewRecorder(db, seed, viper.GetString("telemetry.label"))
		}
		if err != nil {
			logging.Logger.Warn().Err(err).Msg("telemetry disabled")
			g.rec = nil
		}
	}

	g.titanSys = system.NewTitanSystem(sim, rng)

	systems := make([]ecs.System, 0, 12)
	if !headless {
		g.inputSys = system.NewInputSystem()
		systems = append(systems, g.inputSys)
	}
	systems = append(systems,
		system.NewCameraOrbitSystem(sim),
		system.NewLocomotionSystem(sim),
		system.NewGrappleSystem(sim),
		g.titanSys,
		system.NewStepSystem(sim),
		system.NewRigSyncSystem(sim),
		system.NewRigSwapSystem(sim),
		system.NewProjectileSystem(sim, gravity.Y()),
		system.NewHazardSystem(sim),
		system.NewCombatSystem(sim, g.rec),
		system.NewTelemetrySystem(sim, g.rec, viper.GetInt("telemetry.sample_every")),
	)
	world.Schedule(systems...)

	if !headless && viper.GetBool("prefabs.watch") {
		watcher, err := prefabs.NewWatcher("prefabs", "prefabs/rigs", "prefabs/scripts")
		if err != nil {
			logging.Logger.Warn().Err(err).Msg("prefab watch disabled")
		} else {
			g.watcher = watcher
		}
	}

	if !headless {
		g.ui = NewPauseUI(g)
		g.hud = newHUD()
	}

	logging.Logger.Info().
		Int64("seed", seed).
		Int("buildings", len(city.Buildings)).
		Int("titans", len(g.titans)).
		Msg("district ready")

	return g, nil
}

func buildPalette(spec *prefabs.CitySpec) []color.Color {
	palette := make([]color.Color, 0, len(spec.Palette))
	for _, c := range spec.Palette {
		if c != nil && c.Color != nil {
			palette = append(palette, c.Color)
		}
	}
	if len(palette) == 0 {
		palette = []color.Color{color.NRGBA{R: 0x6e, G: 0x78, B: 0x85, A: 0xff}}
	}
	return palette
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}

	g.drainWatcher()

	if g.paused {
		g.ui.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF8) {
		g.copyDiagnostics()
	}

	g.frames++
	g.world.Update()
	return nil
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	if paused {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	g.inputSys.ResetCursor()
}

// RunHeadless ticks the world a fixed number of frames with no window,
// leaving a telemetry session behind for replaydump.
func (g *Game) RunHeadless(frames int) {
	logging.Logger.Info().Int("frames", frames).Int64("seed", g.seed).Msg("headless run")
	start := time.Now()
	for i := 0; i < frames; i++ {
		g.frames++
		g.world.Update()
	}
	elapsed := time.Since(start)

	health := 0.0
	if h, ok := ecs.Get(g.world, g.player, component.HealthComponent.Kind()); ok {
		health = h.Current
	}
	alive := 0
	for _, e := range g.titans {
		if h, ok := ecs.Get(g.world, e, component.HealthComponent.Kind()); ok && h.Alive {
			alive++
		}
	}
	logging.Logger.Info().
		Dur("elapsed", elapsed).
		Float64("player_health", health).
		Int("titans_alive", alive).
		Msg("headless run done")
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reloadPrefab(path)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			logging.Logger.Error().Err(err).Msg("prefab watch")
		default:
			return
		}
	}
}

// reloadPrefab re-applies tuning from an edited prefab to the live
// entities. Structural values, the city layout above all, only apply
// on the next run.
func (g *Game) reloadPrefab(path string) {
	slash := filepath.ToSlash(path)
	base := filepath.Base(slash)

	switch {
	case strings.Contains(slash, "rigs/"):
		g.reloadRigs("rigs/" + base)
	case strings.HasSuffix(base, ".tengo"):
		g.titanSys.InvalidateBrains()
	case base == "player.yaml":
		spec, err := prefabs.LoadPlayerSpec()
		if err != nil {
			logging.Logger.Error().Err(err).Msg("reload player prefab")
			return
		}
		g.playerSpec = spec
		applyPlayerTuning(g.world, g.player, spec)
	case base == "titan.yaml":
		spec, err := prefabs.LoadTitanSpec()
		if err != nil {
			logging.Logger.Error().Err(err).Msg("reload titan prefab")
			return
		}
		g.titanSpec = spec
		for _, e := range g.titans {
			applyTitanTuning(g.world, e, spec)
		}
	case base == "camera.yaml":
		spec, err := prefabs.LoadCameraSpec()
		if err != nil {
			logging.Logger.Error().Err(err).Msg("reload camera prefab")
			return
		}
		applyCameraTuning(g.world, g.camera, spec)
	case base == "city.yaml":
		logging.Logger.Info().Msg("city layout edits apply on the next run")
		return
	default:
		// unrecognized yaml, most likely an fsm definition
		g.titanSys.InvalidateBrains()
	}
	logging.Logger.Info().Str("prefab", base).Msg("prefab reloaded")
}

func (g *Game) reloadRigs(rigPath string) {
	if g.playerSpec != nil && g.playerSpec.Rig == rigPath && g.world.IsAlive(g.player) {
		_ = ecs.Add(g.world, g.player, component.RigLoadComponent.Kind(), &component.RigLoad{
			Pending: assets.Load(rigPath, prefabs.Load),
		})
	}
	if g.titanSpec != nil && g.titanSpec.Rig == rigPath {
		for _, e := range g.titans {
			if !g.world.IsAlive(e) {
				continue
			}
			_ = ecs.Add(g.world, e, component.RigLoadComponent.Kind(), &component.RigLoad{
				Pending: assets.Load(rigPath, prefabs.Load),
			})
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(skyColor)
	g.drawScene(screen)
	g.drawHUD(screen)

	if g.paused && g.ui != nil {
		vector.FillRect(screen, 0, 0, baseWidth, baseHeight, color.NRGBA{A: 120}, false)
		g.ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close releases the watcher and flushes the telemetry session. Safe to
// call more than once.
func (g *Game) Close() error {
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
	if g.rec != nil {
		err := g.rec.Close()
		g.rec = nil
		return err
	}
	return nil
}
