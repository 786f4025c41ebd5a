package system

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/skyhook/common"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
	"github.com/milk9111/skyhook/logging"
)

const titanFaceLerp = 6.0

// TitanSystem runs every titan through its brain FSM: sensors enqueue
// events, the current state's actions run, compiled transition checkers
// fire, then pending events resolve into state changes. Brains come in
// three flavors with the same engine underneath: the built-in default,
// a compiled YAML spec, or a script.
type TitanSystem struct {
	sim         Sim
	rng         *rand.Rand
	fsmCache    map[string]*FSMDef
	scriptCache map[ecs.Entity]*titanScriptRuntime
}

func NewTitanSystem(sim Sim, rng *rand.Rand) *TitanSystem {
	return &TitanSystem{
		sim: sim,
		rng: rng,
		fsmCache: map[string]*FSMDef{
			component.DefaultTitanFSMName: DefaultTitanFSM(),
		},
	}
}

func (t *TitanSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	playerEnt, playerFound := w.First(component.PlayerTagComponent.Kind())
	var playerPos mgl64.Vec3
	playerGrounded := false
	playerAlive := false
	if playerFound {
		if pb, ok := ecs.Get(w, playerEnt, component.BodyRefComponent.Kind()); ok {
			playerPos = t.sim.Translation(pb.Body)
		} else {
			playerFound = false
		}
		if loco, ok := ecs.Get(w, playerEnt, component.LocomotionComponent.Kind()); ok {
			playerGrounded = loco.Grounded
		}
		if h, ok := ecs.Get(w, playerEnt, component.HealthComponent.Kind()); ok {
			playerAlive = h.Alive
		}
	}

	dt := t.sim.Dt()

	entities := w.Query(
		component.TitanTagComponent.Kind(),
		component.TitanComponent.Kind(),
		component.TitanStateComponent.Kind(),
		component.TitanConfigComponent.Kind(),
		component.BodyRefComponent.Kind(),
	)
	for _, ent := range entities {
		titan, _ := ecs.Get(w, ent, component.TitanComponent.Kind())
		state, _ := ecs.Get(w, ent, component.TitanStateComponent.Kind())
		cfg, _ := ecs.Get(w, ent, component.TitanConfigComponent.Kind())
		body, _ := ecs.Get(w, ent, component.BodyRefComponent.Kind())
		if titan == nil || state == nil || cfg == nil || body == nil {
			continue
		}

		pos := t.sim.Translation(body.Body)

		if state.Dead {
			// terminal; the corpse neither thinks nor tracks its nape
			continue
		}

		if state.Cooldown > 0 {
			state.Cooldown -= dt
			if state.Cooldown < 0 {
				state.Cooldown = 0
			}
		}

		hDist := common.HorizontalDistance(pos, playerPos)
		if playerFound && hDist <= titan.SearchRange {
			target := common.YawOf(playerPos.Sub(pos))
			state.Yaw = common.LerpAngle(state.Yaw, target, common.Clamp(titanFaceLerp*dt, 0, 1))
		}

		t.syncNape(titan, state, pos)

		pendingEvents := make([]component.EventID, 0, 4)
		enqueue := func(ev component.EventID) {
			if ev == "" {
				return
			}
			pendingEvents = append(pendingEvents, ev)
		}

		// one-shot interrupts beat sensors so a death lands first
		if irq, ok := ecs.Get(w, ent, component.StateInterruptComponent.Kind()); ok {
			if irq.Event != "" {
				enqueue(component.EventID(irq.Event))
			}
			_ = ecs.Remove(w, ent, component.StateInterruptComponent.Kind())
		}

		ctx := &ActionContext{
			World:          w,
			Entity:         ent,
			Titan:          titan,
			State:          state,
			Config:         cfg,
			Dt:             dt,
			Pos:            pos,
			PlayerEntity:   playerEnt,
			PlayerFound:    playerFound && playerAlive,
			PlayerPos:      playerPos,
			PlayerGrounded: playerGrounded,
			GetVelocity:    func() mgl64.Vec3 { return t.sim.Linvel(body.Body) },
			SetVelocity:    func(v mgl64.Vec3) { t.sim.SetLinvel(body.Body, v) },
			PlayClip: func(id component.ClipID) {
				if rig, ok := ecs.Get(w, ent, component.RigComponent.Kind()); ok {
					rig.Play(id)
				}
			},
			EnqueueEvent: enqueue,
			SpawnVolley:  func() { t.spawnVolley(w, titan, state, pos) },
			SetHazard: func(active bool) {
				if hz, ok := ecs.Get(w, ent, component.GroundHazardComponent.Kind()); ok {
					hz.Active = active
					hz.Clock = 0
					hz.Center = mgl64.Vec3{pos.X(), 0, pos.Z()}
				}
			},
		}

		if cfg.ScriptPath != "" {
			enqueueTitanSensors(titan, state, ctx, enqueue)
			t.updateFromScript(ctx, cfg, pendingEvents)
			continue
		}

		fsm := t.resolveFSM(cfg)
		if fsm == nil {
			continue
		}

		if state.Current == "" {
			state.Current = fsm.Initial
			applyActions(fsm.States[state.Current].OnEnter, ctx)
		}

		enqueueTitanSensors(titan, state, ctx, enqueue)

		// While actions first so they can tick clocks and enqueue
		// events handled in the same update
		applyActions(fsm.States[state.Current].While, ctx)

		for _, ch := range fsm.Checkers {
			if ch.From != state.Current {
				continue
			}
			if ch.Check != nil && ch.Check(ctx) {
				enqueue(ch.Event)
			}
		}

		processEvents(fsm, state, ctx, pendingEvents)
	}
}

// InvalidateBrains drops every compiled FSM and script so the next
// update recompiles from the prefab sources. The hot-reload watcher
// calls it after a yaml or script edit; titans keep their current
// state across the swap.
func (t *TitanSystem) InvalidateBrains() {
	if t == nil {
		return
	}
	t.fsmCache = map[string]*FSMDef{
		component.DefaultTitanFSMName: DefaultTitanFSM(),
	}
	t.scriptCache = nil
}

func (t *TitanSystem) resolveFSM(cfg *component.TitanConfig) *FSMDef {
	if cfg.Spec != nil {
		key := fmt.Sprintf("spec_%p", cfg.Spec)
		if cached, ok := t.fsmCache[key]; ok {
			return cached
		}
		compiled, err := CompileFSMSpec(*cfg.Spec)
		if err != nil {
			logging.Logger.Error().Err(err).Msg("compile titan fsm spec")
			return nil
		}
		t.fsmCache[key] = compiled
		return compiled
	}
	return t.getFSM(cfg.FSM)
}

func (t *TitanSystem) getFSM(name string) *FSMDef {
	if name == "" {
		name = component.DefaultTitanFSMName
	}
	if t.fsmCache == nil {
		t.fsmCache = map[string]*FSMDef{}
	}
	if fsm, ok := t.fsmCache[name]; ok {
		return fsm
	}
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		fsm, err := LoadFSMFromPrefab(name)
		if err != nil {
			logging.Logger.Error().Err(err).Str("fsm", name).Msg("load titan fsm")
			return nil
		}
		t.fsmCache[name] = fsm
		return fsm
	}
	return t.fsmCache[component.DefaultTitanFSMName]
}

// syncNape parks the kinematic weak point body behind the neck,
// following the titan's yaw.
func (t *TitanSystem) syncNape(titan *component.Titan, state *component.TitanState, pos mgl64.Vec3) {
	if titan.NapeBody == 0 {
		return
	}
	nape := pos.Add(common.RotateY(titan.NapeOffset, state.Yaw))
	t.sim.SetTranslation(titan.NapeBody, nape)
}

func (t *TitanSystem) spawnVolley(w *ecs.World, titan *component.Titan, state *component.TitanState, pos mgl64.Vec3) {
	if titan.VolleyCount <= 0 {
		return
	}
	chest := pos.Add(mgl64.Vec3{0, titan.NapeOffset.Y() * 0.8, 0})
	for i := 0; i < titan.VolleyCount; i++ {
		yaw := state.Yaw + (t.rng.Float64()-0.5)*1.0
		pitch := 0.35 + t.rng.Float64()*0.5
		vel := common.RotateY(mgl64.Vec3{0, 0, 1}, yaw).Mul(titan.VolleySpeed)
		vel[1] = titan.VolleySpeed * pitch

		pe := ecs.CreateEntity(w)
		_ = ecs.Add(w, pe, component.ProjectileComponent.Kind(), &component.Projectile{
			Pos:    chest,
			Vel:    vel,
			TTL:    6,
			Radius: 1.2,
			Damage: titan.VolleyDamage,
		})
	}
	logging.Logger.Debug().Int("count", titan.VolleyCount).Msg("titan volley")
}

// enqueueTitanSensors translates world geometry into FSM events, stomp
// before melee so the closer threat wins the same tick.
func enqueueTitanSensors(titan *component.Titan, state *component.TitanState, ctx *ActionContext, enqueue func(component.EventID)) {
	if titan == nil || enqueue == nil {
		return
	}
	if !ctx.PlayerFound {
		enqueue("loses_player")
		return
	}
	dist := common.HorizontalDistance(ctx.Pos, ctx.PlayerPos)
	if titan.SearchRange > 0 {
		if dist <= titan.SearchRange {
			enqueue("sees_player")
		} else {
			enqueue("loses_player")
		}
	}
	if state.Cooldown > 0 {
		return
	}
	if ctx.PlayerGrounded && dist <= titan.FootRadius {
		enqueue("stomp_range")
	} else if dist <= titan.ArmReach {
		enqueue("melee_range")
	}
}

func processEvents(fsm *FSMDef, state *component.TitanState, ctx *ActionContext, events []component.EventID) {
	if fsm == nil || state == nil || ctx == nil {
		return
	}
	for _, ev := range events {
		transitions, ok := fsm.Transitions[state.Current]
		if !ok {
			continue
		}
		next, ok := transitions[ev]
		if !ok || next == state.Current {
			continue
		}
		applyActions(fsm.States[state.Current].OnExit, ctx)
		state.Current = next
		applyActions(fsm.States[state.Current].OnEnter, ctx)
	}
}

func applyActions(actions []Action, ctx *ActionContext) {
	for _, a := range actions {
		if a != nil {
			a(ctx)
		}
	}
}
