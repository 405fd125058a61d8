package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/hauntcore/engine/effects"
	"github.com/nathoo/hauntcore/engine/rules"
	"github.com/nathoo/hauntcore/engine/state"
	"github.com/nathoo/hauntcore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known trigger actions.
var validActions = map[types.Action]bool{
	types.ActionMove:        true,
	types.ActionInvestigate: true,
	types.ActionTalk:        true,
	types.ActionHide:        true,
	types.ActionRun:         true,
	types.ActionRest:        true,
	types.ActionUseItem:     true,
	types.ActionLookAround:  true,
	types.ActionTurnAround:  true,
	types.ActionOpenDoor:    true,
	types.ActionLookMirror:  true,
}

// Known effect kinds.
var validEffectKinds = map[types.EffectKind]bool{
	types.EffectInstantDeath: true,
	types.EffectFearGain:     true,
	types.EffectSanityLoss:   true,
	types.EffectTeleport:     true,
	types.EffectTransform:    true,
	types.EffectSpawnSpirit:  true,
	types.EffectTriggerEvent: true,
}

// Known personality trait names.
var validTraits = map[string]bool{
	"rationality":    true,
	"courage":        true,
	"curiosity":      true,
	"sociability":    true,
	"paranoia":       true,
	"observation":    true,
	"loophole_sense": true,
}

// validate checks the compiled defs for referential integrity and consistency.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}
	sideEffects := effects.NewSideEffectRegistry(nil)

	// Scenario title required.
	if defs.Scenario.Title == "" {
		ve.Errors = append(ve.Errors, "Scenario.Title is required")
	}
	if len(defs.Locations) == 0 {
		ve.Errors = append(ve.Errors, "at least one Location is required")
	}
	if len(defs.NPCs) == 0 {
		ve.Errors = append(ve.Errors, "at least one Survivor is required")
	}

	// Connection targets valid.
	for locID, loc := range defs.Locations {
		for _, target := range loc.Connections {
			if _, ok := defs.Locations[target]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"location %q connects to undefined location %q", locID, target))
			}
		}
	}

	// Survivors placed in defined locations, traits in range, IDs unique.
	npcIDs := map[string]bool{}
	for _, n := range defs.NPCs {
		if npcIDs[n.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate survivor ID %q", n.ID))
		}
		npcIDs[n.ID] = true
		if _, ok := defs.Locations[n.Location]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"survivor %q starts in undefined location %q", n.ID, n.Location))
		}
		validateTraits(&n, ve)
	}

	// Rule IDs unique, then per-rule checks.
	ruleIDs := map[string]bool{}
	for i := range defs.Rules {
		r := &defs.Rules[i]
		if ruleIDs[r.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate rule ID %q", r.ID))
		}
		ruleIDs[r.ID] = true
		validateRule(r, defs, sideEffects, ve)
	}

	// Print warnings to stderr.
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateTraits(n *types.NPC, ve *ValidationError) {
	traits := map[string]int{
		"rationality":    n.Personality.Rationality,
		"courage":        n.Personality.Courage,
		"curiosity":      n.Personality.Curiosity,
		"sociability":    n.Personality.Sociability,
		"paranoia":       n.Personality.Paranoia,
		"observation":    n.Personality.Observation,
		"loophole_sense": n.Personality.LoopholeSense,
	}
	for _, name := range []string{
		"rationality", "courage", "curiosity", "sociability",
		"paranoia", "observation", "loophole_sense",
	} {
		if v := traits[name]; v < 1 || v > 10 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"survivor %q trait %s = %d, want 1..10", n.ID, name, v))
		}
	}
}

func validateRule(r *types.Rule, defs *state.Defs, sideEffects *effects.SideEffectRegistry, ve *ValidationError) {
	if !validActions[r.Trigger.Action] {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"rule %q triggers on unknown action %q", r.ID, r.Trigger.Action))
	}
	if r.Trigger.Probability < 0 || r.Trigger.Probability > 1 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"rule %q probability %v is outside [0,1]", r.ID, r.Trigger.Probability))
	}
	if tr := r.Trigger.TimeRange; tr != nil {
		if _, err := state.ParseClock(tr.From); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("rule %q time_range from: %v", r.ID, err))
		}
		if _, err := state.ParseClock(tr.To); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("rule %q time_range to: %v", r.ID, err))
		}
	}
	for _, loc := range r.Trigger.Locations {
		if _, ok := defs.Locations[loc]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"rule %q trigger references undefined location %q", r.ID, loc))
		}
	}
	for _, name := range r.Trigger.ExtraConditions {
		if !rules.KnownPredicate(name) {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"rule %q uses unknown condition %q", r.ID, name))
		}
	}
	for _, area := range r.Requirements.Areas {
		if _, ok := defs.Locations[area]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"rule %q requires undefined area %q", r.ID, area))
		}
	}
	for name := range r.Requirements.ActorTraits {
		if !validTraits[name] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"rule %q requires unknown trait %q", r.ID, name))
		}
	}

	if !validEffectKinds[r.Effect.Kind] {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"rule %q has unknown effect kind %q", r.ID, r.Effect.Kind))
	}
	if r.Effect.Kind == types.EffectTeleport {
		target, _ := r.Effect.Params["target_location"].(string)
		if target == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"rule %q teleport effect needs params.target_location", r.ID))
		} else if _, ok := defs.Locations[target]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"rule %q teleports to undefined location %q", r.ID, target))
		}
	}
	for _, name := range r.Effect.SideEffects {
		if !sideEffects.Known(name) {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"rule %q uses unknown side effect %q", r.ID, name))
		}
	}

	lhIDs := map[string]bool{}
	for _, lh := range r.Loopholes {
		if lh.ID == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"rule %q has a loophole with no id", r.ID))
			continue
		}
		if lhIDs[lh.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"rule %q has duplicate loophole ID %q", r.ID, lh.ID))
		}
		lhIDs[lh.ID] = true
		if lh.DiscoveryDifficulty < 1 || lh.DiscoveryDifficulty > 10 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"rule %q loophole %q difficulty %d, want 1..10",
				r.ID, lh.ID, lh.DiscoveryDifficulty))
		}
	}
}
