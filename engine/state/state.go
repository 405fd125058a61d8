// Package state manages the immutable scenario definitions and the mutable
// session state, with query helpers used by the rule and NPC subsystems.
package state

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nathoo/hauntcore/types"
)

// Sentinel errors for callers that branch on failure kind.
var (
	ErrInsufficientFearPoints = errors.New("insufficient fear points")
	ErrNPCNotFound            = errors.New("npc not found")
	ErrRuleNotFound           = errors.New("rule not found")
	ErrLocationNotFound       = errors.New("location not found")
)

// Defs holds the immutable scenario definitions loaded from Lua.
type Defs struct {
	Scenario  types.ScenarioDef
	Locations map[string]types.Location
	NPCs      []types.NPC  // initial cast
	Rules     []types.Rule // initial rule catalog
}

// State is the complete mutable session state.
type State struct {
	Turn       int
	Clock      int // minutes since midnight
	Day        int
	FearPoints int

	NPCs          map[string]*types.NPC
	Rules         map[string]*types.Rule
	ActiveEffects []types.SideEffectInstance
	Events        []types.Event
}

// NewState creates a fresh session state from definitions. startClock is
// minutes since midnight; fearPoints seeds the resource pool.
func NewState(defs *Defs, startClock, fearPoints int) *State {
	s := &State{
		Turn:       0,
		Clock:      startClock,
		Day:        1,
		FearPoints: fearPoints,
		NPCs:       make(map[string]*types.NPC, len(defs.NPCs)),
		Rules:      make(map[string]*types.Rule, len(defs.Rules)),
	}
	for i := range defs.NPCs {
		n := defs.NPCs[i] // copy; Defs stays pristine
		s.NPCs[n.ID] = &n
	}
	for i := range defs.Rules {
		r := defs.Rules[i]
		s.Rules[r.ID] = &r
	}
	return s
}

// NPC returns the NPC with the given id.
func NPC(s *State, id string) (*types.NPC, error) {
	n, ok := s.NPCs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNPCNotFound, id)
	}
	return n, nil
}

// Rule returns the rule with the given id.
func Rule(s *State, id string) (*types.Rule, error) {
	r, ok := s.Rules[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRuleNotFound, id)
	}
	return r, nil
}

// NPCIDs returns all NPC ids in sorted order. Turn processing iterates in
// this order so identical seeds replay identically.
func NPCIDs(s *State) []string {
	ids := make([]string, 0, len(s.NPCs))
	for id := range s.NPCs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AliveNPCs returns the living NPCs in id order.
func AliveNPCs(s *State) []*types.NPC {
	var out []*types.NPC
	for _, id := range NPCIDs(s) {
		if n := s.NPCs[id]; n.Alive() {
			out = append(out, n)
		}
	}
	return out
}

// NPCsAt returns the living NPCs at the given location, in id order.
func NPCsAt(s *State, location string) []*types.NPC {
	var out []*types.NPC
	for _, id := range NPCIDs(s) {
		if n := s.NPCs[id]; n.Alive() && n.Location == location {
			out = append(out, n)
		}
	}
	return out
}

// AddFearPoints credits the session fear-point pool.
func AddFearPoints(s *State, amount int) {
	s.FearPoints += amount
}

// SpendFearPoints debits the pool, or returns ErrInsufficientFearPoints
// without mutating anything.
func SpendFearPoints(s *State, amount int) error {
	if amount > s.FearPoints {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFearPoints, amount, s.FearPoints)
	}
	s.FearPoints -= amount
	return nil
}

// AppendEvent stamps the event with the current turn and appends it to the
// session log.
func AppendEvent(s *State, ev types.Event) {
	ev.Turn = s.Turn
	s.Events = append(s.Events, ev)
}

// EventsForTurn returns the events logged during the given turn.
func EventsForTurn(s *State, turn int) []types.Event {
	var out []types.Event
	for _, ev := range s.Events {
		if ev.Turn == turn {
			out = append(out, ev)
		}
	}
	return out
}

// Connected reports whether two locations are directly adjacent.
func Connected(defs *Defs, from, to string) bool {
	loc, ok := defs.Locations[from]
	if !ok {
		return false
	}
	for _, c := range loc.Connections {
		if c == to {
			return true
		}
	}
	return false
}

// EffectsAt returns the live side-effect instances at a location.
func EffectsAt(s *State, location string) []types.SideEffectInstance {
	var out []types.SideEffectInstance
	for _, inst := range s.ActiveEffects {
		if inst.Location == location {
			out = append(out, inst)
		}
	}
	return out
}

// HasEffect reports whether a named side effect is live at a location.
func HasEffect(s *State, location, name string) bool {
	for _, inst := range s.ActiveEffects {
		if inst.Location == location && inst.Name == name {
			return true
		}
	}
	return false
}

// ExpireEffects removes instances whose duration has elapsed at the given
// turn and returns the removed instances.
func ExpireEffects(s *State, turn int) []types.SideEffectInstance {
	var kept, expired []types.SideEffectInstance
	for _, inst := range s.ActiveEffects {
		if inst.Expired(turn) {
			expired = append(expired, inst)
		} else {
			kept = append(kept, inst)
		}
	}
	s.ActiveEffects = kept
	return expired
}
