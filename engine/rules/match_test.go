package rules

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/nathoo/hauntcore/engine/state"
	"github.com/nathoo/hauntcore/types"
)

func intp(v int) *int { return &v }

func matchWorld() (*state.State, *state.Defs) {
	defs := &state.Defs{
		Locations: map[string]types.Location{
			"bathroom": {ID: "bathroom", Properties: []string{"dark"}, Objects: []string{"mirror"}},
			"hall":     {ID: "hall"},
		},
	}
	s := &state.State{
		Turn:  1,
		Clock: 23 * 60, // 23:00
		NPCs:  map[string]*types.NPC{},
		Rules: map[string]*types.Rule{},
	}
	return s, defs
}

func matchActor() *types.NPC {
	return &types.NPC{
		ID: "ava", HP: 100, Sanity: 100, Stamina: 100,
		Personality: types.Personality{Rationality: 5, Courage: 5, Curiosity: 5, Sociability: 5},
		Location:    "bathroom",
		Status:      types.StatusNormal,
	}
}

func mirrorRule() *types.Rule {
	return &types.Rule{
		ID: "mirror_death", Name: "Mirror Death", Level: 3, Active: true,
		Trigger: types.TriggerCondition{
			Action:      types.ActionLookMirror,
			TimeRange:   &types.TimeRange{From: "22:00", To: "02:00"},
			Locations:   []string{"bathroom"},
			Probability: 0.6,
		},
		Effect: types.RuleEffect{Kind: types.EffectInstantDeath, FearGain: 50},
	}
}

func TestCanTrigger(t *testing.T) {
	tests := []struct {
		name  string
		mutor func(r *types.Rule, ctx *Context)
		want  bool
	}{
		{"all checks pass", func(r *types.Rule, ctx *Context) {}, true},
		{"inactive rule", func(r *types.Rule, ctx *Context) { r.Active = false }, false},
		{"wrong action", func(r *types.Rule, ctx *Context) { ctx.Action = types.ActionMove }, false},
		{"wrong location", func(r *types.Rule, ctx *Context) { ctx.Actor.Location = "hall" }, false},
		{"outside time window", func(r *types.Rule, ctx *Context) { ctx.State.Clock = 12 * 60 }, false},
		{"inside wrapped window", func(r *types.Rule, ctx *Context) { ctx.State.Clock = 90 }, true}, // 01:30
		{"malformed time fails closed", func(r *types.Rule, ctx *Context) {
			r.Trigger.TimeRange = &types.TimeRange{From: "late", To: "02:00"}
		}, false},
		{"missing required item", func(r *types.Rule, ctx *Context) {
			r.Requirements.Items = []string{"candle"}
		}, false},
		{"required item held", func(r *types.Rule, ctx *Context) {
			r.Requirements.Items = []string{"candle"}
			ctx.Actor.Inventory = []string{"candle"}
		}, true},
		{"trait exact mismatch", func(r *types.Rule, ctx *Context) {
			r.Requirements.ActorTraits = map[string]types.TraitRequirement{
				"curiosity": {Exact: intp(9)},
			}
		}, false},
		{"trait within bounds", func(r *types.Rule, ctx *Context) {
			r.Requirements.ActorTraits = map[string]types.TraitRequirement{
				"curiosity": {Min: intp(3), Max: intp(7)},
			}
		}, true},
		{"trait below min", func(r *types.Rule, ctx *Context) {
			r.Requirements.ActorTraits = map[string]types.TraitRequirement{
				"courage": {Min: intp(8)},
			}
		}, false},
		{"extra condition alone holds", func(r *types.Rule, ctx *Context) {
			r.Trigger.ExtraConditions = []string{"alone"}
		}, true},
		{"extra condition fails with company", func(r *types.Rule, ctx *Context) {
			r.Trigger.ExtraConditions = []string{"alone"}
			ctx.State.NPCs["ben"] = &types.NPC{ID: "ben", HP: 100, Location: "bathroom", Status: types.StatusNormal}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, defs := matchWorld()
			actor := matchActor()
			s.NPCs[actor.ID] = actor
			c := Context{Actor: actor, Action: types.ActionLookMirror, State: s, Defs: defs}
			r := mirrorRule()
			tt.mutor(r, &c)
			if got := CanTrigger(r, c, nil); got != tt.want {
				t.Errorf("CanTrigger = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMalformedTimeRangeIsLogged(t *testing.T) {
	s, defs := matchWorld()
	actor := matchActor()
	s.NPCs[actor.ID] = actor

	var buf bytes.Buffer
	ctx := Context{
		Actor:  actor,
		Action: types.ActionLookMirror,
		State:  s,
		Defs:   defs,
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
	}
	r := mirrorRule()
	r.Trigger.TimeRange = &types.TimeRange{From: "late", To: "02:00"}

	if CanTrigger(r, ctx, nil) {
		t.Fatal("malformed window should fail closed")
	}
	if !strings.Contains(buf.String(), "malformed time range") {
		t.Errorf("log output %q, want a malformed time range error", buf.String())
	}
}

func TestCanTriggerRespectsCooldown(t *testing.T) {
	s, defs := matchWorld()
	actor := matchActor()
	s.NPCs[actor.ID] = actor
	ctx := Context{Actor: actor, Action: types.ActionLookMirror, State: s, Defs: defs}

	r := mirrorRule()
	cds := NewCooldownTracker()
	if !CanTrigger(r, ctx, cds) {
		t.Fatal("rule should trigger with empty tracker")
	}
	cds.Set(r.ID, 2)
	if CanTrigger(r, ctx, cds) {
		t.Error("rule should be blocked right after Set")
	}
}
