// Package effects applies rule effects to the session state. All mutation
// of victims by the rule system happens here, through one Execute path.
package effects

import (
	"log/slog"

	"github.com/nathoo/hauntcore/engine/npc"
	"github.com/nathoo/hauntcore/engine/state"
	"github.com/nathoo/hauntcore/types"
)

// Executor runs rule effects against the world.
type Executor struct {
	registry *SideEffectRegistry
	logger   *slog.Logger
}

// NewExecutor returns an executor with the built-in side-effect handlers.
// A nil logger means slog.Default().
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		registry: NewSideEffectRegistry(logger),
		logger:   logger,
	}
}

// Registry exposes the side-effect registry for validation and tests.
func (e *Executor) Registry() *SideEffectRegistry { return e.registry }

// Execute fires a rule against its victim: primary effect, fear-point
// credit, side effects, history, cooldown, trigger count. Returns the
// structured events describing what happened. A broken effect degrades to a
// logged no-op; the rule still counts as executed.
func (e *Executor) Execute(r *types.Rule, victim *types.NPC, s *state.State, defs *state.Defs, cooldowns CooldownSetter) []types.Event {
	location := victim.Location // before any teleport
	events := e.applyPrimary(r, victim, s)

	state.AddFearPoints(s, r.Effect.FearGain)

	for _, name := range r.Effect.SideEffects {
		evs, bonus := e.registry.Apply(name, location, s, defs)
		events = append(events, evs...)
		state.AddFearPoints(s, bonus)
	}

	r.TimesTriggered++
	r.History = append(r.History, types.ExecutionRecord{
		Turn: s.Turn, Actor: victim.ID, Location: location,
	})
	if cooldowns != nil && r.CooldownTurns > 0 {
		cooldowns.Set(r.ID, r.CooldownTurns)
	}

	events = append(events, types.Event{
		Type:     "rule_triggered",
		Actor:    victim.ID,
		Location: location,
		Details:  map[string]any{"rule_id": r.ID, "rule_name": r.Name},
	})
	return events
}

// CooldownSetter is what Execute needs from the cooldown tracker.
type CooldownSetter interface {
	Set(ruleID string, turns int)
}

func (e *Executor) applyPrimary(r *types.Rule, victim *types.NPC, s *state.State) []types.Event {
	ev := func(typ string, details map[string]any) types.Event {
		return types.Event{Type: typ, Actor: victim.ID, Location: victim.Location, Details: details}
	}

	switch r.Effect.Kind {
	case types.EffectInstantDeath:
		npc.Kill(victim, r.Name, s.Turn)
		return []types.Event{ev("npc_death", map[string]any{"cause": r.Name})}

	case types.EffectSanityLoss:
		amount := paramInt(r.Effect.Params, "amount", 10)
		npc.AddSanity(victim, -amount)
		events := []types.Event{ev("sanity_loss", map[string]any{"amount": amount})}
		if victim.Sanity == 0 {
			npc.Kill(victim, "sanity collapse", s.Turn)
			events = append(events, ev("npc_death", map[string]any{"cause": "sanity collapse"}))
		}
		return events

	case types.EffectFearGain:
		amount := paramInt(r.Effect.Params, "amount", r.Effect.FearGain)
		npc.AddFear(victim, amount)
		return []types.Event{ev("fear_gain", map[string]any{"amount": amount})}

	case types.EffectTeleport:
		target, _ := r.Effect.Params["target_location"].(string)
		if target == "" {
			e.logger.Warn("teleport effect missing target_location", "rule", r.ID)
			return nil
		}
		from := victim.Location
		victim.Location = target
		npc.AddFear(victim, 15)
		return []types.Event{ev("teleported", map[string]any{"from": from, "to": target})}

	case types.EffectTransform, types.EffectSpawnSpirit, types.EffectTriggerEvent:
		// Narrative-only kinds: the event stream carries them, state does
		// not change beyond the shared bookkeeping.
		return []types.Event{ev(string(r.Effect.Kind), r.Effect.Params)}

	default:
		e.logger.Error("unknown effect kind", "rule", r.ID, "kind", r.Effect.Kind)
		return nil
	}
}

// paramInt reads an integer parameter, tolerating the float64 that Lua and
// JSON both produce.
func paramInt(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
