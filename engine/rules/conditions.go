// Package rules implements rule trigger matching, probability resolution,
// cooldown tracking, loophole discovery, and the rule catalog operations.
package rules

import "github.com/nathoo/hauntcore/engine/state"

// Predicate is a named extra condition evaluated against a trigger context.
type Predicate func(ctx Context) bool

// predicates is the registry of named extra conditions.
var predicates = map[string]Predicate{
	"alone": func(ctx Context) bool {
		return len(state.NPCsAt(ctx.State, ctx.Actor.Location)) == 1
	},
	"multiple_people": func(ctx Context) bool {
		return len(state.NPCsAt(ctx.State, ctx.Actor.Location)) >= 2
	},
	"low_sanity": func(ctx Context) bool {
		return ctx.Actor.Sanity < 50
	},
	"high_fear": func(ctx Context) bool {
		return ctx.Actor.Fear > 50
	},
	"lights_off": func(ctx Context) bool {
		loc, ok := ctx.Defs.Locations[ctx.Actor.Location]
		if ok && loc.HasProperty("dark") {
			return true
		}
		return state.HasEffect(ctx.State, ctx.Actor.Location, "light_flicker")
	},
}

// KnownPredicate reports whether a named extra condition exists. The loader
// rejects unknown names at validation time.
func KnownPredicate(name string) bool {
	_, ok := predicates[name]
	return ok
}

// PredicateNames returns the registered condition names.
func PredicateNames() []string {
	names := make([]string, 0, len(predicates))
	for name := range predicates {
		names = append(names, name)
	}
	return names
}

// EvalCondition evaluates one named condition. Unknown names are logged and
// treated as satisfied so a typo in a programmatic rule cannot silently make
// it dead.
func EvalCondition(name string, ctx Context) bool {
	p, ok := predicates[name]
	if !ok {
		ctx.logger().Warn("unknown extra condition", "name", name)
		return true
	}
	return p(ctx)
}
