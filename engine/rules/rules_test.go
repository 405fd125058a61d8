package rules

import (
	"errors"
	"testing"

	"github.com/nathoo/hauntcore/engine/state"
	"github.com/nathoo/hauntcore/types"
)

// seqRNG returns a fixed sequence of draws, then repeats the last one.
type seqRNG struct {
	vals []float64
	i    int
}

func (r *seqRNG) Float() float64 {
	if r.i < len(r.vals) {
		v := r.vals[r.i]
		r.i++
		return v
	}
	if len(r.vals) == 0 {
		return 0
	}
	return r.vals[len(r.vals)-1]
}

func TestResolveProbability(t *testing.T) {
	calm := &types.NPC{Fear: 10, Sanity: 90, Personality: types.Personality{Curiosity: 5}}
	tests := []struct {
		name  string
		base  float64
		actor *types.NPC
		want  float64
	}{
		{"no modifiers", 0.3, calm, 0.3},
		{"high fear", 0.3, &types.NPC{Fear: 60, Sanity: 90, Personality: types.Personality{Curiosity: 5}}, 0.5},
		{"low sanity", 0.3, &types.NPC{Fear: 10, Sanity: 40, Personality: types.Personality{Curiosity: 5}}, 0.45},
		{"curious", 0.3, &types.NPC{Fear: 10, Sanity: 90, Personality: types.Personality{Curiosity: 8}}, 0.4},
		{"all stacked clamps at one", 0.8, &types.NPC{Fear: 90, Sanity: 10, Personality: types.Personality{Curiosity: 9}}, 1.0},
		{"boundary fear 50 does not count", 0.3, &types.NPC{Fear: 50, Sanity: 90, Personality: types.Personality{Curiosity: 5}}, 0.3},
		{"boundary sanity 50 does not count", 0.3, &types.NPC{Fear: 10, Sanity: 50, Personality: types.Personality{Curiosity: 5}}, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveProbability(tt.base, tt.actor)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("ResolveProbability = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCooldownWindow(t *testing.T) {
	cds := NewCooldownTracker()

	// Executed during turn T with cooldown 3.
	cds.Set("r1", 3)
	if cds.Ready("r1") {
		t.Fatal("blocked for the rest of the triggering turn")
	}

	for turn := 1; turn <= 3; turn++ {
		cds.Tick()
		if cds.Ready("r1") {
			t.Fatalf("ready %d turn(s) after trigger, want blocked", turn)
		}
	}
	cds.Tick()
	if !cds.Ready("r1") {
		t.Error("still blocked on the fourth turn after trigger")
	}
}

func TestCooldownZeroClears(t *testing.T) {
	cds := NewCooldownTracker()
	cds.Set("r1", 2)
	cds.Set("r1", 0)
	if !cds.Ready("r1") {
		t.Error("Set(0) should clear the cooldown")
	}
}

func TestCooldownSnapshotRoundTrip(t *testing.T) {
	cds := NewCooldownTracker()
	cds.Set("r1", 3)
	cds.Tick() // arm

	restored := NewCooldownTracker()
	restored.Restore(cds.Snapshot())
	if restored.Ready("r1") {
		t.Fatal("restored tracker lost the cooldown")
	}
	if got := restored.Remaining("r1"); got != 3 {
		t.Errorf("Remaining = %d, want 3", got)
	}
}

func checkAllWorld() (Context, *types.NPC) {
	defs := &state.Defs{
		Locations: map[string]types.Location{"hall": {ID: "hall"}},
	}
	actor := &types.NPC{
		ID: "ava", HP: 100, Sanity: 100, Fear: 60, Stamina: 100,
		Location: "hall", Status: types.StatusFrightened,
	}
	s := &state.State{
		NPCs: map[string]*types.NPC{"ava": actor},
		Rules: map[string]*types.Rule{
			"weak": {
				ID: "weak", Active: true,
				Trigger: types.TriggerCondition{Action: types.ActionOpenDoor, Probability: 0.1},
			},
			"strong": {
				ID: "strong", Active: true,
				Trigger: types.TriggerCondition{Action: types.ActionOpenDoor, Probability: 0.5},
			},
			"other": {
				ID: "other", Active: true,
				Trigger: types.TriggerCondition{Action: types.ActionLookMirror, Probability: 0.9},
			},
		},
	}
	return Context{Actor: actor, Action: types.ActionOpenDoor, State: s, Defs: defs}, actor
}

func TestCheckAllSortsByProbability(t *testing.T) {
	ctx, _ := checkAllWorld()
	got := CheckAll(ctx, nil)
	if len(got) != 2 {
		t.Fatalf("candidates = %d, want 2", len(got))
	}
	if got[0].Rule.ID != "strong" || got[1].Rule.ID != "weak" {
		t.Errorf("order = %s, %s; want strong, weak", got[0].Rule.ID, got[1].Rule.ID)
	}
	// Fear 60 adds 0.20 to each base.
	if diff := got[0].Probability - 0.7; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("top probability = %v, want 0.7", got[0].Probability)
	}
}

func TestTotalCost(t *testing.T) {
	tests := []struct {
		name string
		rule types.Rule
		want int
	}{
		{"floor", types.Rule{BaseCost: 10}, 50},
		{"level surcharge", types.Rule{BaseCost: 100, Level: 3}, 250},
		{
			"items and areas",
			types.Rule{
				BaseCost: 100,
				Requirements: types.RuleRequirement{
					Items: []string{"candle", "salt"},
					Areas: []string{"bathroom"},
				},
			},
			135,
		},
		{
			"loophole discount",
			types.Rule{
				BaseCost: 200,
				Loopholes: []types.Loophole{
					{ID: "a"},
					{ID: "b", Patched: true},
				},
			},
			180,
		},
		{
			"discount never breaks the floor",
			types.Rule{
				BaseCost: 60,
				Loopholes: []types.Loophole{
					{ID: "a"}, {ID: "b"}, {ID: "c"},
				},
			},
			50,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalCost(&tt.rule); got != tt.want {
				t.Errorf("TotalCost = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCreateRule(t *testing.T) {
	s := &state.State{FearPoints: 100, Rules: map[string]*types.Rule{}}
	r := types.Rule{ID: "knock", BaseCost: 80}

	if err := CreateRule(s, r); err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	if s.FearPoints != 20 {
		t.Errorf("FearPoints = %d, want 20", s.FearPoints)
	}
	if !s.Rules["knock"].Active {
		t.Error("created rule should be active")
	}

	err := CreateRule(s, types.Rule{ID: "stairs", BaseCost: 80})
	if !errors.Is(err, state.ErrInsufficientFearPoints) {
		t.Errorf("err = %v, want ErrInsufficientFearPoints", err)
	}
	if _, exists := s.Rules["stairs"]; exists {
		t.Error("failed creation must not add the rule")
	}
	if s.FearPoints != 20 {
		t.Errorf("failed creation spent points: %d", s.FearPoints)
	}
}

func TestPatchLoophole(t *testing.T) {
	s := &state.State{
		FearPoints: 50,
		Rules: map[string]*types.Rule{
			"r1": {ID: "r1", Loopholes: []types.Loophole{{ID: "lh1", PatchCost: 30}}},
		},
	}
	if err := PatchLoophole(s, "r1", "lh1"); err != nil {
		t.Fatalf("PatchLoophole: %v", err)
	}
	if !s.Rules["r1"].Loopholes[0].Patched {
		t.Error("loophole not patched")
	}
	if s.FearPoints != 20 {
		t.Errorf("FearPoints = %d, want 20", s.FearPoints)
	}

	// Patching again is a no-op.
	if err := PatchLoophole(s, "r1", "lh1"); err != nil {
		t.Fatalf("re-patch: %v", err)
	}
	if s.FearPoints != 20 {
		t.Errorf("re-patch spent points: %d", s.FearPoints)
	}

	if err := PatchLoophole(s, "r1", "nope"); err == nil {
		t.Error("unknown loophole should error")
	}
}

func TestDiscoveryChance(t *testing.T) {
	n := &types.NPC{Personality: types.Personality{Observation: 6, Rationality: 6, LoopholeSense: 6}}
	r := &types.Rule{TimesTriggered: 2}
	lh := types.Loophole{DiscoveryDifficulty: 1}

	// base = 6/10 + 0.05*2 = 0.7; difficulty 1 keeps it all.
	got := DiscoveryChance(n, r, lh)
	if diff := got - 0.7; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("DiscoveryChance = %v, want 0.7", got)
	}

	hard := types.Loophole{DiscoveryDifficulty: 10}
	if got := DiscoveryChance(n, r, hard); got >= 0.1 {
		t.Errorf("difficulty 10 chance = %v, want under 0.1", got)
	}
}

func TestDetectLoophole(t *testing.T) {
	n := &types.NPC{
		ID:          "ava",
		Personality: types.Personality{Observation: 6, Rationality: 6, LoopholeSense: 6},
	}
	r := &types.Rule{
		ID:             "r1",
		TimesTriggered: 2,
		Loopholes: []types.Loophole{
			{ID: "sealed", DiscoveryDifficulty: 1, Patched: true},
			{ID: "open", DiscoveryDifficulty: 1},
		},
	}

	id, ok := DetectLoophole(n, r, 1, &seqRNG{vals: []float64{0.1}})
	if !ok || id != "open" {
		t.Fatalf("found %q (%v), want open", id, ok)
	}

	// Known loopholes are not rediscovered.
	if id, ok := DetectLoophole(n, r, 1, &seqRNG{vals: []float64{0.1}}); ok {
		t.Errorf("rediscovered %q", id)
	}
}

func TestDetectLoopholeStopsAtFirst(t *testing.T) {
	n := &types.NPC{
		ID:          "ava",
		Personality: types.Personality{Observation: 10, Rationality: 10, LoopholeSense: 10},
	}
	r := &types.Rule{
		ID: "r1",
		Loopholes: []types.Loophole{
			{ID: "first", DiscoveryDifficulty: 1},
			{ID: "second", DiscoveryDifficulty: 1},
		},
	}

	// Every draw would succeed, but one search reveals one loophole only.
	rng := &seqRNG{vals: []float64{0, 0, 0}}
	id, ok := DetectLoophole(n, r, 1, rng)
	if !ok || id != "first" {
		t.Fatalf("found %q (%v), want first", id, ok)
	}
	if len(n.Memory.KnownLoopholes) != 1 {
		t.Fatalf("KnownLoopholes = %v, want the first discovery only", n.Memory.KnownLoopholes)
	}
	if rng.i != 1 {
		t.Errorf("search made %d draws, want 1", rng.i)
	}

	// The next search picks up the remaining one.
	if id, ok := DetectLoophole(n, r, 1, &seqRNG{vals: []float64{0}}); !ok || id != "second" {
		t.Errorf("second search found %q (%v), want second", id, ok)
	}
}

func TestDetectLoopholeAutoReveal(t *testing.T) {
	after := 5
	n := &types.NPC{ID: "ava"} // zero perception
	r := &types.Rule{
		ID:        "r1",
		Loopholes: []types.Loophole{{ID: "timed", DiscoveryDifficulty: 10, AutoDiscoverAfter: &after}},
	}

	if id, ok := DetectLoophole(n, r, 4, &seqRNG{vals: []float64{0.99}}); ok {
		t.Fatalf("turn 4: found %q, want nothing", id)
	}
	if id, ok := DetectLoophole(n, r, 5, &seqRNG{vals: []float64{0.99}}); !ok || id != "timed" {
		t.Fatalf("turn 5: found %q (%v), want timed", id, ok)
	}
}
