package rules

import "github.com/nathoo/hauntcore/types"

// ResolveProbability adjusts a rule's base trigger chance for the acting
// NPC's condition. High fear and low sanity make victims, curiosity makes
// volunteers. The result is clamped to [0,1]; the RNG draw belongs to the
// caller.
func ResolveProbability(base float64, actor *types.NPC) float64 {
	p := base
	if actor.Fear > 50 {
		p += 0.20
	}
	if actor.Sanity < 50 {
		p += 0.15
	}
	if actor.Personality.Curiosity > 7 {
		p += 0.10
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
