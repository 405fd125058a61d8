package npc

import "github.com/nathoo/hauntcore/types"

// DefaultMemoryLimit bounds how many events an NPC retains.
const DefaultMemoryLimit = 20

// Remember appends an event to the NPC's memory, dropping the oldest entries
// beyond the limit. A limit of 0 or less uses DefaultMemoryLimit.
func Remember(n *types.NPC, ev types.MemoryEvent, limit int) {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	n.Memory.Events = append(n.Memory.Events, ev)
	if excess := len(n.Memory.Events) - limit; excess > 0 {
		n.Memory.Events = n.Memory.Events[excess:]
	}
}

// LearnRule records a rule id as known. Idempotent.
func LearnRule(n *types.NPC, ruleID string) {
	if !contains(n.Memory.KnownRules, ruleID) {
		n.Memory.KnownRules = append(n.Memory.KnownRules, ruleID)
	}
}

// LearnLoophole records a loophole id as known. Idempotent.
func LearnLoophole(n *types.NPC, loopholeID string) {
	if !contains(n.Memory.KnownLoopholes, loopholeID) {
		n.Memory.KnownLoopholes = append(n.Memory.KnownLoopholes, loopholeID)
	}
}

// MarkSuspicious records a location as dangerous in memory. Idempotent.
func MarkSuspicious(n *types.NPC, location string) {
	if !contains(n.Memory.SuspiciousLocations, location) {
		n.Memory.SuspiciousLocations = append(n.Memory.SuspiciousLocations, location)
	}
}

// FearObject records an object as feared. Idempotent.
func FearObject(n *types.NPC, object string) {
	if !contains(n.Memory.FearedObjects, object) {
		n.Memory.FearedObjects = append(n.Memory.FearedObjects, object)
	}
}

// Observe lets an NPC react to an event that happened in front of it.
// The witness is assumed alive and co-located with the event.
func Observe(n *types.NPC, ev types.Event, rng RNG, memoryLimit int) {
	switch ev.Type {
	case "npc_death":
		AddFear(n, 30)
		AddSuspicion(n, 20)
		MarkSuspicious(n, ev.Location)
	case "rule_triggered":
		if n.Personality.Rationality >= 7 && rng.Float() < 0.5 {
			if id, ok := ev.Details["rule_id"].(string); ok {
				LearnRule(n, id)
			}
		}
		MarkSuspicious(n, ev.Location)
	case "strange_sound":
		AddFear(n, 10)
		AddStress(n, 5)
	}
	Remember(n, types.MemoryEvent{Type: ev.Type, Turn: ev.Turn, Details: ev.Details}, memoryLimit)
}
