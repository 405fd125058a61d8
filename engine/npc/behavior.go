package npc

import (
	"sort"

	"github.com/nathoo/hauntcore/engine/state"
	"github.com/nathoo/hauntcore/types"
)

// staminaCost returns the base stamina price of an action.
func staminaCost(a types.Action) int {
	switch a {
	case types.ActionMove:
		return 5
	case types.ActionInvestigate:
		return 10
	case types.ActionRun:
		return 20
	case types.ActionHide:
		return 3
	case types.ActionTalk:
		return 2
	case types.ActionRest:
		return 0
	default:
		return 1
	}
}

// SpendStamina charges the NPC for an action. Panic and fright make
// movement more expensive; running on empty has a price of its own.
func SpendStamina(n *types.NPC, a types.Action) {
	cost := staminaCost(a)
	if a == types.ActionMove || a == types.ActionRun {
		switch n.Status {
		case types.StatusPanicked:
			cost = cost * 3 / 2
		case types.StatusFrightened:
			cost = cost * 6 / 5
		}
	}
	before := n.Stamina
	n.Stamina = clamp(n.Stamina - cost)
	if before > 0 && n.Stamina == 0 {
		AddFear(n, 10)
		AddStress(n, 15)
	}
}

// Execute acts out the chosen action, mutating the actor (and any talk
// partner) and returning the structured events describing what happened.
func Execute(n *types.NPC, a types.Action, s *state.State, defs *state.Defs, rng RNG) []types.Event {
	var events []types.Event
	emit := func(typ string, details map[string]any) {
		events = append(events, types.Event{
			Type: typ, Actor: n.ID, Location: n.Location, Details: details,
		})
	}

	switch a {
	case types.ActionMove:
		from := n.Location
		dest := chooseDestination(n, s, defs, rng)
		if dest == "" {
			emit("stayed_put", nil)
			break
		}
		n.Location = dest
		emit("moved", map[string]any{"from": from, "to": dest})

	case types.ActionRun:
		from := n.Location
		dest := chooseEscape(n, s, defs, rng)
		if dest == "" {
			emit("cornered", nil)
			break
		}
		n.Location = dest
		ReduceFear(n, 3)
		emit("ran", map[string]any{"from": from, "to": dest})

	case types.ActionTalk:
		peers := peersAt(s, n)
		if len(peers) == 0 {
			emit("talked_to_nobody", nil)
			break
		}
		p := peers[int(rng.Float()*float64(len(peers)))%len(peers)]
		for _, each := range []*types.NPC{n, p} {
			ReduceFear(each, 5)
			AddSuspicion(each, -3)
		}
		bumpTrust(n, p.ID, 1)
		bumpTrust(p, n.ID, 1)
		emit("talked", map[string]any{"with": p.ID})

	case types.ActionRest:
		n.Stamina = clamp(n.Stamina + 20)
		emit("rested", nil)

	case types.ActionInvestigate:
		AddSuspicion(n, 10)
		target := ""
		if objs := defs.Locations[n.Location].Objects; len(objs) > 0 {
			target = objs[int(rng.Float()*float64(len(objs)))%len(objs)]
		}
		emit("investigated", map[string]any{"target": target})

	case types.ActionHide:
		ReduceFear(n, 2)
		emit("hid", nil)

	case types.ActionUseItem:
		events = append(events, useItem(n, defs)...)

	case types.ActionLookAround:
		if defs.Locations[n.Location].HasProperty("dangerous") || len(state.EffectsAt(s, n.Location)) > 0 {
			MarkSuspicious(n, n.Location)
		}
		emit("looked_around", nil)

	case types.ActionTurnAround:
		emit("turned_around", nil)

	case types.ActionOpenDoor:
		emit("opened_door", nil)

	case types.ActionLookMirror:
		emit("looked_in_mirror", nil)

	case types.ActionNone:
		return nil
	}

	SpendStamina(n, a)
	return events
}

// chooseDestination scores each adjacent location and takes the best one.
// Safety attracts, remembered danger repels, darkness repels the timid, and
// company matters to the sociable.
func chooseDestination(n *types.NPC, s *state.State, defs *state.Defs, rng RNG) string {
	loc, ok := defs.Locations[n.Location]
	if !ok || len(loc.Connections) == 0 {
		return ""
	}
	conns := append([]string(nil), loc.Connections...)
	sort.Strings(conns)

	best, bestScore := "", -1e9
	for _, c := range conns {
		dest, ok := defs.Locations[c]
		if !ok {
			continue
		}
		score := 1.0
		if dest.HasProperty("safe") {
			score += 2
		}
		if dest.HasProperty("dangerous") {
			score -= 2
		}
		if dest.HasProperty("dark") && n.Personality.Courage < 5 {
			score -= 1
		}
		if contains(n.Memory.SuspiciousLocations, c) {
			score -= 3
		}
		crowd := float64(len(state.NPCsAt(s, c)))
		if n.Personality.Sociability > 5 {
			score += crowd * 0.5
		} else {
			score -= crowd * 0.5
		}
		// Small jitter so equally scored rooms are not always the first.
		score += rng.Float() * 0.1
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// chooseEscape prefers safe neighbors, otherwise any neighbor.
func chooseEscape(n *types.NPC, s *state.State, defs *state.Defs, rng RNG) string {
	loc, ok := defs.Locations[n.Location]
	if !ok || len(loc.Connections) == 0 {
		return ""
	}
	conns := append([]string(nil), loc.Connections...)
	sort.Strings(conns)

	var safe []string
	for _, c := range conns {
		if defs.Locations[c].HasProperty("safe") && !contains(n.Memory.SuspiciousLocations, c) {
			safe = append(safe, c)
		}
	}
	pool := conns
	if len(safe) > 0 {
		pool = safe
	}
	return pool[int(rng.Float()*float64(len(pool)))%len(pool)]
}

// useItem applies the effect of one carried item.
func useItem(n *types.NPC, defs *state.Defs) []types.Event {
	for i, item := range n.Inventory {
		switch item {
		case "sedative":
			ReduceFear(n, 20)
			n.Inventory = append(n.Inventory[:i], n.Inventory[i+1:]...)
			return []types.Event{{Type: "used_item", Actor: n.ID, Location: n.Location,
				Details: map[string]any{"item": "sedative", "consumed": true}}}
		case "flashlight":
			if defs.Locations[n.Location].HasProperty("dark") {
				ReduceFear(n, 5)
				return []types.Event{{Type: "used_item", Actor: n.ID, Location: n.Location,
					Details: map[string]any{"item": "flashlight"}}}
			}
		case "phone":
			AddStress(n, -5)
			return []types.Event{{Type: "used_item", Actor: n.ID, Location: n.Location,
				Details: map[string]any{"item": "phone"}}}
		}
	}
	return []types.Event{{Type: "fumbled_items", Actor: n.ID, Location: n.Location}}
}

func bumpTrust(n *types.NPC, peer string, delta int) {
	if n.Relationships == nil {
		n.Relationships = map[string]int{}
	}
	n.Relationships[peer] += delta
}
