package rules

import (
	"fmt"
	"sort"

	"github.com/nathoo/hauntcore/engine/state"
	"github.com/nathoo/hauntcore/types"
)

// Candidate pairs an eligible rule with its resolved trigger probability.
type Candidate struct {
	Rule        *types.Rule
	Probability float64
}

// CheckAll runs every rule in the catalog against the context and returns
// the eligible candidates sorted by resolved probability, descending. Ties
// break by rule id so identical seeds replay identically.
func CheckAll(ctx Context, cooldowns *CooldownTracker) []Candidate {
	ids := make([]string, 0, len(ctx.State.Rules))
	for id := range ctx.State.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []Candidate
	for _, id := range ids {
		r := ctx.State.Rules[id]
		if !CanTrigger(r, ctx, cooldowns) {
			continue
		}
		out = append(out, Candidate{
			Rule:        r,
			Probability: ResolveProbability(r.Trigger.Probability, ctx.Actor),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].Rule.ID < out[j].Rule.ID
	})
	return out
}

// TotalCost prices a rule: base plus surcharges for power level and
// specificity, discounted for every unpatched loophole. Never below 50.
func TotalCost(r *types.Rule) int {
	cost := r.BaseCost
	cost += r.Level * 50
	cost += len(r.Requirements.Items) * 10
	cost += len(r.Requirements.Areas) * 15
	for _, lh := range r.Loopholes {
		if !lh.Patched {
			cost -= 20
		}
	}
	if cost < 50 {
		return 50
	}
	return cost
}

// CreateRule spends fear points to add a rule to the live catalog. On
// insufficient funds nothing changes.
func CreateRule(s *state.State, r types.Rule) error {
	if _, exists := s.Rules[r.ID]; exists {
		return fmt.Errorf("rule %q already exists", r.ID)
	}
	if err := state.SpendFearPoints(s, TotalCost(&r)); err != nil {
		return err
	}
	r.Active = true
	s.Rules[r.ID] = &r
	return nil
}

// PatchLoophole spends fear points to close a discovered weakness. On
// insufficient funds nothing changes.
func PatchLoophole(s *state.State, ruleID, loopholeID string) error {
	r, err := state.Rule(s, ruleID)
	if err != nil {
		return err
	}
	for i := range r.Loopholes {
		lh := &r.Loopholes[i]
		if lh.ID != loopholeID {
			continue
		}
		if lh.Patched {
			return nil
		}
		if err := state.SpendFearPoints(s, lh.PatchCost); err != nil {
			return err
		}
		lh.Patched = true
		return nil
	}
	return fmt.Errorf("rule %q has no loophole %q", ruleID, loopholeID)
}
