package npc

import (
	"github.com/nathoo/hauntcore/engine/state"
	"github.com/nathoo/hauntcore/types"
)

// RNG is the slice of the session RNG the decision engine needs.
type RNG interface {
	Float() float64
	WeightedSelect(weights []float64) int
}

// actionOrder fixes the iteration order of the weight table so identical
// seeds replay identically.
var actionOrder = []types.Action{
	types.ActionMove,
	types.ActionInvestigate,
	types.ActionTalk,
	types.ActionHide,
	types.ActionRun,
	types.ActionRest,
	types.ActionUseItem,
	types.ActionLookAround,
	types.ActionTurnAround,
	types.ActionOpenDoor,
	types.ActionLookMirror,
}

// Weights computes the action weight table for an NPC given the world
// around it. Exposed for tests; Decide draws from it.
func Weights(n *types.NPC, s *state.State, defs *state.Defs) map[types.Action]float64 {
	w := map[types.Action]float64{
		types.ActionMove:        0.3,
		types.ActionInvestigate: float64(n.Personality.Curiosity) * 0.1,
		types.ActionTalk:        float64(n.Personality.Sociability) * 0.1,
		types.ActionHide:        float64(10-n.Personality.Courage) * 0.05,
		types.ActionRun:         float64(10-n.Personality.Courage) * 0.05,
		types.ActionUseItem:     float64(n.Personality.Rationality) * 0.05,
		types.ActionLookAround:  0.2,
		types.ActionTurnAround:  0.1,
		types.ActionOpenDoor:    float64(n.Personality.Curiosity) * 0.05,
		types.ActionLookMirror:  float64(n.Personality.Curiosity) * 0.03,
	}

	switch n.Status {
	case types.StatusPanicked:
		w[types.ActionRun] *= 3
		w[types.ActionHide] *= 2
		w[types.ActionInvestigate] *= 0.1
		w[types.ActionMove] *= 2
	case types.StatusFrightened:
		w[types.ActionHide] *= 1.5
		w[types.ActionInvestigate] *= 0.5
		w[types.ActionTalk] *= 1.5
		w[types.ActionMove] *= 1.2
	}

	loc := defs.Locations[n.Location]

	// A feared object in the room dampens curiosity.
	for _, obj := range loc.Objects {
		if contains(n.Memory.FearedObjects, obj) {
			w[types.ActionInvestigate] *= 0.7
			break
		}
	}

	// Remembered danger here pushes toward leaving.
	if contains(n.Memory.SuspiciousLocations, n.Location) {
		w[types.ActionMove] *= 2.5
		w[types.ActionRun] *= 2
	}

	// Company changes the calculus.
	peers := peersAt(s, n)
	trusted := false
	for _, p := range peers {
		if n.Relationships[p.ID] > 5 {
			trusted = true
			break
		}
	}
	switch {
	case trusted:
		w[types.ActionTalk] *= 1.5
		w[types.ActionHide] *= 0.8
		w[types.ActionMove] *= 0.7
	case len(peers) == 0 && n.Personality.Sociability > 6:
		w[types.ActionMove] *= 1.3
	}

	if n.Stamina < 30 {
		w[types.ActionRun] *= 0.3
		w[types.ActionMove] *= 0.7
		w[types.ActionHide] *= 1.5
		w[types.ActionRest] = 0.4
	}

	// Impossible actions drop out rather than no-op later.
	if len(peers) == 0 {
		w[types.ActionTalk] = 0
	}
	if len(n.Inventory) == 0 {
		w[types.ActionUseItem] = 0
	}
	if !contains(loc.Objects, "door") {
		w[types.ActionOpenDoor] = 0
	}
	if !contains(loc.Objects, "mirror") {
		w[types.ActionLookMirror] = 0
	}
	if len(loc.Connections) == 0 {
		w[types.ActionMove] = 0
		w[types.ActionRun] = 0
	}

	return w
}

// Decide picks this turn's action by a weighted draw over the table.
// Returns ActionNone when the NPC cannot act.
func Decide(n *types.NPC, s *state.State, defs *state.Defs, rng RNG) types.Action {
	if !CanAct(n) {
		return types.ActionNone
	}

	w := Weights(n, s, defs)
	weights := make([]float64, len(actionOrder))
	var total float64
	for i, a := range actionOrder {
		weights[i] = w[a]
		if w[a] > 0 {
			total += w[a]
		}
	}
	if total <= 0 {
		return types.ActionLookAround
	}
	return actionOrder[rng.WeightedSelect(weights)]
}

// peersAt returns the other living NPCs in the same location.
func peersAt(s *state.State, n *types.NPC) []*types.NPC {
	var out []*types.NPC
	for _, other := range state.NPCsAt(s, n.Location) {
		if other.ID != n.ID {
			out = append(out, other)
		}
	}
	return out
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
