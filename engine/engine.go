// Package engine provides the Session orchestrator that wires the decision
// engine, the rule system, effects, and observers into a single turn.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/nathoo/hauntcore/engine/effects"
	"github.com/nathoo/hauntcore/engine/events"
	"github.com/nathoo/hauntcore/engine/npc"
	"github.com/nathoo/hauntcore/engine/rules"
	"github.com/nathoo/hauntcore/engine/state"
	"github.com/nathoo/hauntcore/types"
)

// Options tunes a session. Zero values fall back to the defaults below.
type Options struct {
	Seed           int64
	StartClock     int // minutes since midnight
	MinutesPerTurn int
	FearPoints     int
	MemoryLimit    int
	Logger         *slog.Logger
}

// Defaults for unset options: the house wakes at dusk.
const (
	DefaultStartClock     = 20 * 60
	DefaultMinutesPerTurn = 30
	DefaultFearPoints     = 100
)

// Session holds the scenario definitions and the live world, and advances
// them one turn at a time.
type Session struct {
	Defs  *state.Defs
	State *state.State
	RNG   *RNG

	Cooldowns *rules.CooldownTracker
	Executor  *effects.Executor

	MinutesPerTurn int
	MemoryLimit    int
	Logger         *slog.Logger
}

// Recorder persists turn events for later inspection. Front-ends call it
// after each Advance when event logging is enabled.
type Recorder interface {
	Append(ctx context.Context, sessionID string, events []types.Event) error
}

// TurnResult is what one call to Advance produced.
type TurnResult struct {
	Turn      int
	Day       int
	Clock     string
	Events    []types.Event
	Triggered []string // rule ids that fired this turn
	Deaths    []string // npc ids that died this turn
}

// New creates a session from definitions.
func New(defs *state.Defs, opts Options) *Session {
	if opts.StartClock <= 0 {
		opts.StartClock = DefaultStartClock
	}
	if opts.MinutesPerTurn <= 0 {
		opts.MinutesPerTurn = DefaultMinutesPerTurn
	}
	if opts.FearPoints <= 0 {
		opts.FearPoints = DefaultFearPoints
	}
	if opts.MemoryLimit <= 0 {
		opts.MemoryLimit = npc.DefaultMemoryLimit
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Session{
		Defs:           defs,
		State:          state.NewState(defs, opts.StartClock, opts.FearPoints),
		RNG:            NewRNG(opts.Seed),
		Cooldowns:      rules.NewCooldownTracker(),
		Executor:       effects.NewExecutor(opts.Logger),
		MinutesPerTurn: opts.MinutesPerTurn,
		MemoryLimit:    opts.MemoryLimit,
		Logger:         opts.Logger,
	}
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (ss *Session) RestoreRNG(seed int64, position int64) {
	ss.RNG = RestoreRNG(seed, position)
}

// AddRandomNPC generates a random survivor and places them in the world,
// preferring a safe location. Name, vitals and personality come from the
// session RNG, so identical seeds produce the same extra cast.
func (ss *Session) AddRandomNPC() *types.NPC {
	n := npc.Generate(ss.spawnLocation(), ss.RNG)
	ss.State.NPCs[n.ID] = &n
	return &n
}

// spawnLocation picks the first safe location by id, falling back to the
// first location overall.
func (ss *Session) spawnLocation() string {
	ids := make([]string, 0, len(ss.Defs.Locations))
	for id := range ss.Defs.Locations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if ss.Defs.Locations[id].HasProperty("safe") {
			return id
		}
	}
	if len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// Over reports whether the simulation has nobody left to torment.
func (ss *Session) Over() bool {
	return len(state.AliveNPCs(ss.State)) == 0
}

// Advance runs one full turn: clock, cooldowns, effect expiry, then every
// living NPC in id order decides, acts, and faces the rules. A panic in one
// NPC's sub-step is logged and voids that NPC's action only.
func (ss *Session) Advance() TurnResult {
	s := ss.State
	s.Turn++
	state.AdvanceClock(s, ss.MinutesPerTurn)

	ss.Cooldowns.Tick()

	var turnEvents []types.Event
	record := func(evs ...types.Event) {
		for _, ev := range evs {
			state.AppendEvent(s, ev)
			ev.Turn = s.Turn
			turnEvents = append(turnEvents, ev)
		}
	}

	for _, inst := range state.ExpireEffects(s, s.Turn) {
		record(types.Event{
			Type:     "effect_faded",
			Location: inst.Location,
			Details:  map[string]any{"effect": inst.Name},
		})
	}

	result := TurnResult{Turn: s.Turn, Day: s.Day, Clock: state.FormatClock(s.Clock)}

	for _, id := range state.NPCIDs(s) {
		actor := s.NPCs[id]
		if !actor.Alive() {
			continue
		}
		evs, triggered := ss.stepNPC(actor)
		record(evs...)
		result.Triggered = append(result.Triggered, triggered...)
		if !actor.Alive() {
			result.Deaths = append(result.Deaths, actor.ID)
		}
	}

	events.Dispatch(turnEvents, s, ss.RNG, ss.MemoryLimit)

	result.Events = turnEvents
	return result
}

// stepNPC runs one NPC's slice of the turn. Recover keeps a broken rule or
// handler from taking the whole turn down.
func (ss *Session) stepNPC(actor *types.NPC) (evs []types.Event, triggered []string) {
	defer func() {
		if r := recover(); r != nil {
			ss.Logger.Error("npc step panicked", "npc", actor.ID, "panic", fmt.Sprint(r))
			evs, triggered = nil, nil
		}
	}()

	if !npc.CanAct(actor) {
		if actor.Stamina == 0 && actor.Status != types.StatusInsane {
			// Collapsed from exhaustion; catch a breath instead.
			actor.Stamina += 20
			evs = append(evs, types.Event{
				Type: "collapsed", Actor: actor.ID, Location: actor.Location,
			})
		}
		return evs, nil
	}

	action := npc.Decide(actor, ss.State, ss.Defs, ss.RNG)
	if action == types.ActionNone {
		return evs, nil
	}
	evs = append(evs, npc.Execute(actor, action, ss.State, ss.Defs, ss.RNG)...)

	ctx := rules.Context{
		Actor:  actor,
		Action: action,
		State:  ss.State,
		Defs:   ss.Defs,
		Logger: ss.Logger,
	}
	candidates := rules.CheckAll(ctx, ss.Cooldowns)
	if len(candidates) == 0 {
		return evs, nil
	}

	// One draw against the most likely candidate only.
	top := candidates[0]
	if ss.RNG.Float() >= top.Probability {
		return evs, nil
	}

	evs = append(evs, ss.Executor.Execute(top.Rule, actor, ss.State, ss.Defs, ss.Cooldowns)...)
	triggered = append(triggered, top.Rule.ID)

	if actor.Alive() {
		if lh, ok := rules.DetectLoophole(actor, top.Rule, ss.State.Turn, ss.RNG); ok {
			evs = append(evs, types.Event{
				Type:     "loophole_discovered",
				Actor:    actor.ID,
				Location: actor.Location,
				Details:  map[string]any{"rule_id": top.Rule.ID, "loophole_id": lh},
			})
		}
	}
	return evs, triggered
}
