package rules

import (
	"log/slog"

	"github.com/nathoo/hauntcore/engine/state"
	"github.com/nathoo/hauntcore/types"
)

// Context is everything a trigger check needs: the acting NPC, the action it
// chose, and the world around them.
type Context struct {
	Actor  *types.NPC
	Action types.Action
	State  *state.State
	Defs   *state.Defs
	Logger *slog.Logger
}

func (c Context) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// CanTrigger reports whether a rule is eligible to fire for this context.
// Checks run cheapest-first; any failure short-circuits.
func CanTrigger(r *types.Rule, ctx Context, cooldowns *CooldownTracker) bool {
	if !r.Active {
		return false
	}
	if cooldowns != nil && !cooldowns.Ready(r.ID) {
		return false
	}
	if r.Trigger.Action != ctx.Action {
		return false
	}
	if len(r.Trigger.Locations) > 0 && !inList(r.Trigger.Locations, ctx.Actor.Location) {
		return false
	}
	if tr := r.Trigger.TimeRange; tr != nil {
		if !clockMatches(ctx.State.Clock, *tr, ctx.logger()) {
			return false
		}
	}
	for _, item := range r.Requirements.Items {
		if !ctx.Actor.HasItem(item) {
			return false
		}
	}
	if len(r.Requirements.Areas) > 0 && !inList(r.Requirements.Areas, ctx.Actor.Location) {
		return false
	}
	if !traitsMatch(r.Requirements.ActorTraits, ctx.Actor.Personality) {
		return false
	}
	for _, name := range r.Trigger.ExtraConditions {
		if !EvalCondition(name, ctx) {
			return false
		}
	}
	return true
}

// clockMatches parses the window and tests the session clock against it.
// Malformed bounds are logged and fail closed.
func clockMatches(clock int, tr types.TimeRange, logger *slog.Logger) bool {
	from, err := state.ParseClock(tr.From)
	if err != nil {
		logger.Error("malformed time range", "from", tr.From, "err", err)
		return false
	}
	to, err := state.ParseClock(tr.To)
	if err != nil {
		logger.Error("malformed time range", "to", tr.To, "err", err)
		return false
	}
	return state.ClockInRange(clock, from, to)
}

// traitsMatch tests each named trait requirement against the personality.
// Exact wins over bounds; a nil bound is unbounded.
func traitsMatch(reqs map[string]types.TraitRequirement, p types.Personality) bool {
	for name, req := range reqs {
		v := p.Trait(name)
		if req.Exact != nil {
			if v != *req.Exact {
				return false
			}
			continue
		}
		if req.Min != nil && v < *req.Min {
			return false
		}
		if req.Max != nil && v > *req.Max {
			return false
		}
	}
	return true
}

func inList(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
