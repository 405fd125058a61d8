// Package events implements single-pass observer dispatch: NPCs who share a
// room with an event react to it. Reactions never emit further events, so
// dispatch cannot recurse.
package events

import (
	"github.com/nathoo/hauntcore/engine/npc"
	"github.com/nathoo/hauntcore/engine/state"
	"github.com/nathoo/hauntcore/types"
)

// witnessed is the set of event types NPCs notice and react to. Everything
// else stays in the session log only.
var witnessed = map[string]bool{
	"npc_death":        true,
	"rule_triggered":   true,
	"strange_sound":    true,
	"blood_message":    true,
	"light_flicker":    true,
	"temperature_drop": true,
	"door_lock":        true,
}

// Dispatch lets every living co-located NPC observe the turn's events. The
// acting NPC does not observe its own event; the victim of a rule does not
// re-observe what just happened to it.
func Dispatch(events []types.Event, s *state.State, rng npc.RNG, memoryLimit int) {
	for _, ev := range events {
		if !witnessed[ev.Type] {
			continue
		}
		for _, w := range state.NPCsAt(s, ev.Location) {
			if w.ID == ev.Actor {
				continue
			}
			npc.Observe(w, ev, rng, memoryLimit)
		}
	}
}
