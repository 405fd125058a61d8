package rules

import (
	"github.com/nathoo/hauntcore/types"
)

// RNG is the slice of the session RNG the detector needs.
type RNG interface {
	Float() float64
}

// DiscoveryChance is the probability that one NPC spots one loophole this
// turn. Perceptive, rational NPCs with a nose for loopholes do better; each
// past execution of the rule leaves more to notice; harder loopholes scale
// everything down.
func DiscoveryChance(n *types.NPC, r *types.Rule, lh types.Loophole) float64 {
	base := float64(n.Personality.Observation+n.Personality.Rationality+n.Personality.LoopholeSense) / 3.0 / 10.0
	base += 0.05 * float64(r.TimesTriggered)
	adjusted := base * float64(11-lh.DiscoveryDifficulty) / 10.0
	if adjusted < 0 {
		return 0
	}
	if adjusted > 1 {
		return 1
	}
	return adjusted
}

// DetectLoophole searches a rule's unpatched, not-yet-known loopholes in
// declared order and stops at the first discovery, which is recorded in the
// NPC's memory. Returns the discovered id, or false when nothing was found.
// turn drives unconditional reveals.
func DetectLoophole(n *types.NPC, r *types.Rule, turn int, rng RNG) (string, bool) {
	for _, lh := range r.Loopholes {
		if lh.Patched {
			continue
		}
		if knownLoophole(n, lh.ID) {
			continue
		}
		if lh.AutoDiscoverAfter != nil && turn >= *lh.AutoDiscoverAfter {
			n.Memory.KnownLoopholes = append(n.Memory.KnownLoopholes, lh.ID)
			return lh.ID, true
		}
		if rng.Float() < DiscoveryChance(n, r, lh) {
			n.Memory.KnownLoopholes = append(n.Memory.KnownLoopholes, lh.ID)
			return lh.ID, true
		}
	}
	return "", false
}

func knownLoophole(n *types.NPC, id string) bool {
	for _, k := range n.Memory.KnownLoopholes {
		if k == id {
			return true
		}
	}
	return false
}
