package system

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/skyhook/common"
	"github.com/milk9111/skyhook/ecs"
	"github.com/milk9111/skyhook/ecs/component"
	"github.com/milk9111/skyhook/logging"
	"github.com/milk9111/skyhook/prefabs"
)

type Action func(ctx *ActionContext)

type ActionContext struct {
	World          *ecs.World
	Entity         ecs.Entity
	Titan          *component.Titan
	State          *component.TitanState
	Config         *component.TitanConfig
	Dt             float64
	Pos            mgl64.Vec3
	PlayerEntity   ecs.Entity
	PlayerFound    bool
	PlayerPos      mgl64.Vec3
	PlayerGrounded bool
	GetVelocity    func() mgl64.Vec3
	SetVelocity    func(v mgl64.Vec3)
	PlayClip       func(id component.ClipID)
	EnqueueEvent   func(ev component.EventID)
	SpawnVolley    func()
	SetHazard      func(active bool)
}

func (ctx *ActionContext) playerDistance() float64 {
	return common.HorizontalDistance(ctx.Pos, ctx.PlayerPos)
}

// attackReach is the radius the active flavor can actually hit.
func (ctx *ActionContext) attackReach() float64 {
	if ctx.State.Flavor == "stomp" {
		return ctx.Titan.FootRadius
	}
	return ctx.Titan.ArmReach
}

type StateDef struct {
	OnEnter []Action
	While   []Action
	OnExit  []Action
}

type FSMDef struct {
	Initial     component.StateID
	States      map[component.StateID]StateDef
	Transitions map[component.StateID]map[component.EventID]component.StateID
	Checkers    []TransitionCheckerDef
}

type RawFSM struct {
	Initial string              `yaml:"initial"`
	States  map[string]RawState `yaml:"states"`
	// Transitions can be either map[from]map[event]to or
	// map[from][]map[condition]value where condition names may be
	// looked up in the transition registry.
	Transitions map[string]any `yaml:"transitions"`
}

type RawState struct {
	OnEnter []map[string]any `yaml:"on_enter"`
	While   []map[string]any `yaml:"while"`
	OnExit  []map[string]any `yaml:"on_exit"`
}

var actionRegistry = map[string]func(any) Action{
	"log": func(arg any) Action {
		msg := fmt.Sprint(arg)
		return func(ctx *ActionContext) {
			logging.Logger.Debug().Str("state", string(ctx.State.Current)).Msg("titan: " + msg)
		}
	},
	"set_clip": func(arg any) Action {
		id := component.ClipID(fmt.Sprint(arg))
		return func(ctx *ActionContext) {
			if ctx != nil && ctx.PlayClip != nil {
				ctx.PlayClip(id)
			}
		}
	},
	"stop": func(_ any) Action {
		return func(ctx *ActionContext) {
			if ctx == nil || ctx.GetVelocity == nil || ctx.SetVelocity == nil {
				return
			}
			v := ctx.GetVelocity()
			ctx.SetVelocity(mgl64.Vec3{0, v.Y(), 0})
		}
	},
	"chase_player": func(_ any) Action {
		return func(ctx *ActionContext) {
			if ctx == nil || ctx.Titan == nil || !ctx.PlayerFound || ctx.GetVelocity == nil || ctx.SetVelocity == nil {
				return
			}
			to := common.Horizontal(ctx.PlayerPos.Sub(ctx.Pos))
			dist := to.Len()
			if dist < 1e-6 {
				return
			}
			// lumber hard from far off, creep once looming over the target
			speed := ctx.Titan.ChaseSpeed
			if dist <= ctx.Titan.FarRange {
				speed = ctx.Titan.RoamSpeed
			}
			dir := to.Mul(1 / dist)
			v := ctx.GetVelocity()
			ctx.SetVelocity(mgl64.Vec3{dir.X() * speed, v.Y(), dir.Z() * speed})
		}
	},
	"begin_attack": func(_ any) Action {
		return func(ctx *ActionContext) {
			if ctx == nil || ctx.Titan == nil || ctx.State == nil {
				return
			}
			ctx.State.Flavor = "swipe"
			if ctx.PlayerGrounded && ctx.playerDistance() <= ctx.Titan.FootRadius {
				ctx.State.Flavor = "stomp"
			}
			ctx.State.Clock = 0
			ctx.State.HasHit = false
			if ctx.SetVelocity != nil && ctx.GetVelocity != nil {
				v := ctx.GetVelocity()
				ctx.SetVelocity(mgl64.Vec3{0, v.Y(), 0})
			}
			if ctx.PlayClip != nil {
				ctx.PlayClip(component.ClipAttack)
			}
			if ctx.SpawnVolley != nil {
				ctx.SpawnVolley()
			}
			if ctx.SetHazard != nil {
				ctx.SetHazard(true)
			}
			logging.Logger.Debug().Str("flavor", ctx.State.Flavor).Msg("titan attack")
		}
	},
	"tick_attack": func(_ any) Action {
		return func(ctx *ActionContext) {
			if ctx == nil || ctx.Titan == nil || ctx.State == nil {
				return
			}
			// held stationary for the whole swing
			if ctx.GetVelocity != nil && ctx.SetVelocity != nil {
				v := ctx.GetVelocity()
				ctx.SetVelocity(mgl64.Vec3{0, v.Y(), 0})
			}
			ctx.State.Clock += ctx.Dt
			ctx.State.WarnPulse = 0.5 + 0.5*math.Sin(ctx.State.Clock*18)

			if ctx.Titan.AttackTime <= 0 || ctx.State.HasHit {
				return
			}
			frac := ctx.State.Clock / ctx.Titan.AttackTime
			if frac < ctx.Titan.WindowStart || frac > ctx.Titan.WindowEnd {
				return
			}
			if !ctx.PlayerFound || ctx.playerDistance() > ctx.attackReach() {
				return
			}
			ctx.State.HasHit = true
			damage := ctx.Titan.SwipeDamage
			if ctx.State.Flavor == "stomp" {
				damage = ctx.Titan.StompDamage
			}
			ctx.World.Events().Push(ecs.Event{Type: EventDamage, Data: DamageEvent{
				Target: ctx.PlayerEntity,
				Amount: damage,
				Source: "titan_" + ctx.State.Flavor,
			}})
		}
	},
	"end_attack": func(_ any) Action {
		return func(ctx *ActionContext) {
			if ctx == nil || ctx.Titan == nil || ctx.State == nil {
				return
			}
			ctx.State.Cooldown = ctx.Titan.AttackCooldown
			ctx.State.WarnPulse = 0
			if ctx.SetHazard != nil {
				ctx.SetHazard(false)
			}
		}
	},
	"die": func(_ any) Action {
		return func(ctx *ActionContext) {
			if ctx == nil || ctx.State == nil {
				return
			}
			ctx.State.Dead = true
			ctx.State.WarnPulse = 0
			if ctx.GetVelocity != nil && ctx.SetVelocity != nil {
				v := ctx.GetVelocity()
				ctx.SetVelocity(mgl64.Vec3{0, v.Y(), 0})
			}
			if ctx.SetHazard != nil {
				ctx.SetHazard(false)
			}
			if ctx.PlayClip != nil {
				ctx.PlayClip(component.ClipDeath)
			}
			if h, ok := ecs.Get(ctx.World, ctx.Entity, component.HealthComponent.Kind()); ok {
				h.Hidden = true
			}
			logging.Logger.Info().Uint64("titan", uint64(ctx.Entity)).Msg("titan down")
		}
	},
	"start_timer": func(arg any) Action {
		seconds := asFloat(arg)
		return func(ctx *ActionContext) {
			if ctx == nil || ctx.State == nil {
				return
			}
			ctx.State.Clock = seconds
		}
	},
	"tick_timer": func(_ any) Action {
		return func(ctx *ActionContext) {
			if ctx == nil || ctx.State == nil || ctx.EnqueueEvent == nil {
				return
			}
			ctx.State.Clock -= ctx.Dt
			if ctx.State.Clock <= 0 {
				ctx.EnqueueEvent("timer_expired")
			}
		}
	},
	"emit_event": func(arg any) Action {
		name := fmt.Sprint(arg)
		return func(ctx *ActionContext) {
			if ctx == nil || ctx.EnqueueEvent == nil {
				return
			}
			ctx.EnqueueEvent(component.EventID(name))
		}
	},
}

type TransitionChecker func(ctx *ActionContext) bool

type TransitionCheckerDef struct {
	From  component.StateID
	Event component.EventID
	Check TransitionChecker
}

var transitionRegistry = map[string]func(any) TransitionChecker{
	"always": func(any) TransitionChecker {
		return func(*ActionContext) bool { return true }
	},
	"sees_player": func(any) TransitionChecker {
		return func(ctx *ActionContext) bool {
			if ctx == nil || ctx.Titan == nil || !ctx.PlayerFound {
				return false
			}
			return ctx.Titan.SearchRange > 0 && ctx.playerDistance() <= ctx.Titan.SearchRange
		}
	},
	"loses_player": func(any) TransitionChecker {
		return func(ctx *ActionContext) bool {
			if ctx == nil || ctx.Titan == nil {
				return false
			}
			if !ctx.PlayerFound {
				return true
			}
			return ctx.Titan.SearchRange > 0 && ctx.playerDistance() > ctx.Titan.SearchRange
		}
	},
	"timer_expired": func(any) TransitionChecker {
		return func(ctx *ActionContext) bool {
			return ctx != nil && ctx.State != nil && ctx.State.Clock <= 0
		}
	},
	"melee_range": func(any) TransitionChecker {
		return func(ctx *ActionContext) bool {
			if ctx == nil || ctx.Titan == nil || !ctx.PlayerFound || ctx.State.Cooldown > 0 {
				return false
			}
			return ctx.playerDistance() <= ctx.Titan.ArmReach
		}
	},
	"stomp_range": func(any) TransitionChecker {
		return func(ctx *ActionContext) bool {
			if ctx == nil || ctx.Titan == nil || !ctx.PlayerFound || ctx.State.Cooldown > 0 {
				return false
			}
			return ctx.PlayerGrounded && ctx.playerDistance() <= ctx.Titan.FootRadius
		}
	},
	"attack_done": func(any) TransitionChecker {
		return func(ctx *ActionContext) bool {
			if ctx == nil || ctx.Titan == nil || ctx.State == nil {
				return false
			}
			return ctx.State.Clock >= ctx.Titan.AttackTime
		}
	},
	"target_fled": func(any) TransitionChecker {
		return func(ctx *ActionContext) bool {
			if ctx == nil || ctx.Titan == nil {
				return false
			}
			if !ctx.PlayerFound {
				return true
			}
			return ctx.playerDistance() > ctx.Titan.ArmReach
		}
	},
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	case float32:
		return float64(t)
	default:
		return 0
	}
}

func CompileFSM(raw RawFSM) (*FSMDef, error) {
	if raw.Initial == "" {
		return nil, fmt.Errorf("fsm: missing initial state")
	}

	states := map[component.StateID]StateDef{}
	build := func(list []map[string]any) ([]Action, error) {
		if len(list) == 0 {
			return nil, nil
		}
		out := make([]Action, 0, len(list))
		for _, e := range list {
			for k, v := range e {
				makeAction, ok := actionRegistry[k]
				if !ok {
					return nil, fmt.Errorf("fsm: unknown action %q", k)
				}
				out = append(out, makeAction(v))
			}
		}
		return out, nil
	}

	for name, s := range raw.States {
		onEnter, err := build(s.OnEnter)
		if err != nil {
			return nil, err
		}
		while, err := build(s.While)
		if err != nil {
			return nil, err
		}
		onExit, err := build(s.OnExit)
		if err != nil {
			return nil, err
		}
		states[component.StateID(name)] = StateDef{
			OnEnter: onEnter,
			While:   while,
			OnExit:  onExit,
		}
	}

	transitions := map[component.StateID]map[component.EventID]component.StateID{}
	var checkers []TransitionCheckerDef

	for from, rawVal := range raw.Transitions {
		fromID := component.StateID(from)
		transitions[fromID] = map[component.EventID]component.StateID{}

		switch v := rawVal.(type) {
		case map[string]any:
			for evName, toVal := range v {
				// plain mapping: event -> state
				if toStr, ok := toVal.(string); ok {
					transitions[fromID][component.EventID(evName)] = component.StateID(toStr)
					continue
				}
				// registry-driven transition: evName is a condition name
				if maker, ok := transitionRegistry[evName]; ok {
					var toState string
					var arg any
					if m, ok := toVal.(map[string]any); ok {
						if ts, ok2 := m["to"].(string); ok2 {
							toState = ts
						}
						arg = m["arg"]
					}
					if toState == "" {
						return nil, fmt.Errorf("fsm: missing to state for transition %s.%s", from, evName)
					}
					eid := component.EventID(fmt.Sprintf("__cond_%s_%s", from, evName))
					transitions[fromID][eid] = component.StateID(toState)
					checkers = append(checkers, TransitionCheckerDef{From: fromID, Event: eid, Check: maker(arg)})
					continue
				}
				return nil, fmt.Errorf("fsm: invalid transition value for %s.%s", from, evName)
			}
		case []any:
			for i, item := range v {
				m, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("fsm: invalid transition entry %v", item)
				}
				for key, val := range m {
					if maker, ok := transitionRegistry[key]; ok {
						var toState string
						var arg any
						if mv, ok2 := val.(map[string]any); ok2 {
							if ts, ok3 := mv["to"].(string); ok3 {
								toState = ts
							}
							arg = mv["arg"]
						} else if s, ok3 := val.(string); ok3 {
							toState = s
						}
						if toState == "" {
							return nil, fmt.Errorf("fsm: missing to state for transition %s", key)
						}
						eid := component.EventID(fmt.Sprintf("__cond_%s_%d", from, i))
						transitions[fromID][eid] = component.StateID(toState)
						checkers = append(checkers, TransitionCheckerDef{From: fromID, Event: eid, Check: maker(arg)})
					} else {
						if toState, ok2 := val.(string); ok2 {
							transitions[fromID][component.EventID(key)] = component.StateID(toState)
						} else {
							return nil, fmt.Errorf("fsm: invalid transition mapping for %s -> %v", key, val)
						}
					}
				}
			}
		default:
			return nil, fmt.Errorf("fsm: invalid transitions type for state %s", from)
		}
	}

	return &FSMDef{
		Initial:     component.StateID(raw.Initial),
		States:      states,
		Transitions: transitions,
		Checkers:    checkers,
	}, nil
}

func LoadFSMFromPrefab(path string) (*FSMDef, error) {
	data, err := prefabs.Load(path)
	if err != nil {
		return nil, err
	}
	var raw RawFSM
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return CompileFSM(raw)
}

// CompileFSMSpec compiles the YAML-agnostic spec form carried on a
// titan's config component.
func CompileFSMSpec(spec component.FSMSpec) (*FSMDef, error) {
	raw := RawFSM{
		Initial:     spec.Initial,
		States:      map[string]RawState{},
		Transitions: map[string]any{},
	}
	for from, list := range spec.Transitions {
		items := make([]any, 0, len(list))
		for _, m := range list {
			items = append(items, map[string]any(m))
		}
		raw.Transitions[from] = items
	}
	for name, s := range spec.States {
		raw.States[name] = RawState{
			OnEnter: s.OnEnter,
			While:   s.While,
			OnExit:  s.OnExit,
		}
	}
	return CompileFSM(raw)
}

// DefaultTitanFSM is the built-in brain: wander until the player is
// close, chase, attack when in reach, drop dead on the died interrupt.
func DefaultTitanFSM() *FSMDef {
	f := &FSMDef{
		Initial: "idle",
		States: map[component.StateID]StateDef{
			"idle": {
				OnEnter: []Action{
					actionRegistry["set_clip"]("idle"),
					actionRegistry["stop"](nil),
				},
				While: []Action{actionRegistry["stop"](nil)},
			},
			"chase": {
				OnEnter: []Action{actionRegistry["set_clip"]("run")},
				While:   []Action{actionRegistry["chase_player"](nil)},
			},
			"attack": {
				OnEnter: []Action{actionRegistry["begin_attack"](nil)},
				While:   []Action{actionRegistry["tick_attack"](nil)},
				OnExit:  []Action{actionRegistry["end_attack"](nil)},
			},
			"dead": {
				OnEnter: []Action{actionRegistry["die"](nil)},
			},
		},
		Transitions: map[component.StateID]map[component.EventID]component.StateID{
			"idle": {
				"sees_player": "chase",
				"died":        "dead",
			},
			"chase": {
				"loses_player": "idle",
				"stomp_range":  "attack",
				"melee_range":  "attack",
				"died":         "dead",
			},
			"attack": {
				"__attack_done": "chase",
				"__target_fled": "chase",
				"died":          "dead",
			},
			"dead": {},
		},
		Checkers: []TransitionCheckerDef{
			{From: "attack", Event: "__attack_done", Check: transitionRegistry["attack_done"](nil)},
			{From: "attack", Event: "__target_fled", Check: transitionRegistry["target_fled"](nil)},
		},
	}
	return f
}
