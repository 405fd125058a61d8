package loader

import (
	"testing"

	"github.com/nathoo/hauntcore/types"
	lua "github.com/yuin/gopher-lua"
)

// newTestVM creates a sandboxed Lua VM with the API registered and a fresh collector.
func newTestVM() (*lua.LState, *collector) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}

func TestCompileScenario(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Scenario {
			title = "Blackwood Manor",
			author = "Tester",
			version = "1.0",
			intro = "The doors lock behind you."
		}
		Location "hall" { name = "Hall" }
		Survivor "ava" {
			location = "hall",
			personality = {
				rationality = 5, courage = 5, curiosity = 5, sociability = 5,
				paranoia = 5, observation = 5, loophole_sense = 5
			}
		}
	`); err != nil {
		t.Fatal(err)
	}

	defs, err := compile(coll)
	if err != nil {
		t.Fatal(err)
	}

	if defs.Scenario.Title != "Blackwood Manor" {
		t.Errorf("Title = %q, want %q", defs.Scenario.Title, "Blackwood Manor")
	}
	if defs.Scenario.Author != "Tester" {
		t.Errorf("Author = %q, want %q", defs.Scenario.Author, "Tester")
	}
	if defs.Scenario.Version != "1.0" {
		t.Errorf("Version = %q, want %q", defs.Scenario.Version, "1.0")
	}
	if defs.Scenario.Intro != "The doors lock behind you." {
		t.Errorf("Intro = %q", defs.Scenario.Intro)
	}
}

func TestCompileLocation(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Location "bathroom" {
			name = "Bathroom",
			description = "Cracked tiles and a clouded mirror.",
			connections = { "corridor" },
			properties = { "dark", "cold" },
			objects = { "mirror", "door" }
		}
	`); err != nil {
		t.Fatal(err)
	}

	if len(coll.locations) != 1 {
		t.Fatalf("expected 1 location, got %d", len(coll.locations))
	}
	loc := compileLocation(coll.locations[0])

	if loc.ID != "bathroom" {
		t.Errorf("ID = %q, want bathroom", loc.ID)
	}
	if loc.Name != "Bathroom" {
		t.Errorf("Name = %q, want Bathroom", loc.Name)
	}
	if len(loc.Connections) != 1 || loc.Connections[0] != "corridor" {
		t.Errorf("Connections = %v, want [corridor]", loc.Connections)
	}
	if !loc.HasProperty("dark") || !loc.HasProperty("cold") {
		t.Errorf("Properties = %v, want dark and cold", loc.Properties)
	}
	if len(loc.Objects) != 2 || loc.Objects[0] != "mirror" {
		t.Errorf("Objects = %v, want [mirror door]", loc.Objects)
	}
}

func TestCompileSurvivor(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Survivor "ava" {
			name = "Ava Chen",
			background = "Paramedic.",
			location = "hall",
			items = { "flashlight", "sedative" },
			personality = {
				rationality = 8, courage = 6, curiosity = 4, sociability = 7,
				paranoia = 3, observation = 9, loophole_sense = 5
			}
		}
	`); err != nil {
		t.Fatal(err)
	}

	n, err := compileSurvivor(coll.survivors[0])
	if err != nil {
		t.Fatal(err)
	}

	if n.ID != "ava" || n.Name != "Ava Chen" {
		t.Errorf("identity = %q/%q", n.ID, n.Name)
	}
	if n.HP != 100 || n.Sanity != 100 || n.Stamina != 100 {
		t.Errorf("vitals = %d/%d/%d, want 100/100/100", n.HP, n.Sanity, n.Stamina)
	}
	if n.Status != types.StatusNormal {
		t.Errorf("Status = %q, want normal", n.Status)
	}
	if n.Location != "hall" {
		t.Errorf("Location = %q, want hall", n.Location)
	}
	if !n.HasItem("flashlight") || !n.HasItem("sedative") {
		t.Errorf("Inventory = %v", n.Inventory)
	}
	if n.Personality.Rationality != 8 || n.Personality.Observation != 9 {
		t.Errorf("Personality = %+v", n.Personality)
	}
	if n.Personality.Trait("loophole_sense") != 5 {
		t.Errorf("loophole_sense = %d, want 5", n.Personality.Trait("loophole_sense"))
	}
}

func TestCompileSurvivor_NameDefaultsToID(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Survivor "ben" {
			location = "hall",
			personality = {
				rationality = 5, courage = 5, curiosity = 5, sociability = 5,
				paranoia = 5, observation = 5, loophole_sense = 5
			}
		}
	`); err != nil {
		t.Fatal(err)
	}

	n, err := compileSurvivor(coll.survivors[0])
	if err != nil {
		t.Fatal(err)
	}
	if n.Name != "ben" {
		t.Errorf("Name = %q, want ben", n.Name)
	}
}

func TestCompileSurvivor_PersonalityRequired(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`Survivor "ghost" { location = "hall" }`); err != nil {
		t.Fatal(err)
	}

	if _, err := compileSurvivor(coll.survivors[0]); err == nil {
		t.Fatal("expected error for missing personality table")
	}
}

func TestCompileRule_Full(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Rule "mirror_death" {
			name = "Never Look in the Mirror",
			description = "The mirror looks back.",
			level = 3,
			base_cost = 40,
			cooldown = 2,
			trigger = {
				action = "look_mirror",
				locations = { "bathroom" },
				conditions = { "alone" },
				probability = 0.8,
				time_range = TimeRange("22:00", "02:00")
			},
			requires = {
				items = { "candle" },
				areas = { "bathroom" },
				traits = { curiosity = { min = 6 }, courage = 3 }
			},
			effect = {
				kind = "instant_death",
				fear_gain = 50,
				side_effects = { "blood_message", "light_flicker" },
				params = { cause = "pulled through the glass" }
			},
			loopholes = {
				Loophole("closed_eyes", "Keep your eyes shut", 6, 30),
				Loophole("broken_glass", "A broken mirror has no gaze", 8, 50, 10)
			}
		}
	`); err != nil {
		t.Fatal(err)
	}

	r, err := compileRule(coll.rules[0])
	if err != nil {
		t.Fatal(err)
	}

	if r.ID != "mirror_death" || r.Name != "Never Look in the Mirror" {
		t.Errorf("identity = %q/%q", r.ID, r.Name)
	}
	if r.Level != 3 || r.BaseCost != 40 || r.CooldownTurns != 2 {
		t.Errorf("level/cost/cooldown = %d/%d/%d", r.Level, r.BaseCost, r.CooldownTurns)
	}
	if !r.Active {
		t.Error("Active should default to true")
	}

	if r.Trigger.Action != types.ActionLookMirror {
		t.Errorf("Action = %q, want look_mirror", r.Trigger.Action)
	}
	if len(r.Trigger.Locations) != 1 || r.Trigger.Locations[0] != "bathroom" {
		t.Errorf("Locations = %v", r.Trigger.Locations)
	}
	if len(r.Trigger.ExtraConditions) != 1 || r.Trigger.ExtraConditions[0] != "alone" {
		t.Errorf("ExtraConditions = %v", r.Trigger.ExtraConditions)
	}
	if r.Trigger.Probability != 0.8 {
		t.Errorf("Probability = %v, want 0.8", r.Trigger.Probability)
	}
	if r.Trigger.TimeRange == nil {
		t.Fatal("TimeRange is nil")
	}
	if r.Trigger.TimeRange.From != "22:00" || r.Trigger.TimeRange.To != "02:00" {
		t.Errorf("TimeRange = %+v", r.Trigger.TimeRange)
	}

	if len(r.Requirements.Items) != 1 || r.Requirements.Items[0] != "candle" {
		t.Errorf("Items = %v", r.Requirements.Items)
	}
	if len(r.Requirements.Areas) != 1 || r.Requirements.Areas[0] != "bathroom" {
		t.Errorf("Areas = %v", r.Requirements.Areas)
	}
	cur, ok := r.Requirements.ActorTraits["curiosity"]
	if !ok || cur.Min == nil || *cur.Min != 6 || cur.Exact != nil {
		t.Errorf("curiosity requirement = %+v", cur)
	}
	cou, ok := r.Requirements.ActorTraits["courage"]
	if !ok || cou.Exact == nil || *cou.Exact != 3 {
		t.Errorf("courage requirement = %+v", cou)
	}

	if r.Effect.Kind != types.EffectInstantDeath {
		t.Errorf("Kind = %q, want instant_death", r.Effect.Kind)
	}
	if r.Effect.FearGain != 50 {
		t.Errorf("FearGain = %d, want 50", r.Effect.FearGain)
	}
	if len(r.Effect.SideEffects) != 2 || r.Effect.SideEffects[0] != "blood_message" {
		t.Errorf("SideEffects = %v", r.Effect.SideEffects)
	}
	if r.Effect.Params["cause"] != "pulled through the glass" {
		t.Errorf("Params = %v", r.Effect.Params)
	}

	if len(r.Loopholes) != 2 {
		t.Fatalf("expected 2 loopholes, got %d", len(r.Loopholes))
	}
	lh := r.Loopholes[0]
	if lh.ID != "closed_eyes" || lh.DiscoveryDifficulty != 6 || lh.PatchCost != 30 {
		t.Errorf("loophole[0] = %+v", lh)
	}
	if lh.AutoDiscoverAfter != nil {
		t.Error("loophole[0] should not auto-discover")
	}
	auto := r.Loopholes[1]
	if auto.AutoDiscoverAfter == nil || *auto.AutoDiscoverAfter != 10 {
		t.Errorf("loophole[1].AutoDiscoverAfter = %v, want 10", auto.AutoDiscoverAfter)
	}
}

func TestCompileRule_MissingTriggerOrEffect(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Rule "no_trigger" {
			effect = { kind = "fear_gain", fear_gain = 10 }
		}
		Rule "no_effect" {
			trigger = { action = "hide", probability = 0.5 }
		}
	`); err != nil {
		t.Fatal(err)
	}

	if _, err := compileRule(coll.rules[0]); err == nil {
		t.Error("expected error for missing trigger table")
	}
	if _, err := compileRule(coll.rules[1]); err == nil {
		t.Error("expected error for missing effect table")
	}
}

func TestCompileRule_InactiveAndDefaults(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Rule "dormant" {
			active = false,
			trigger = { action = "hide", probability = 0.5 },
			effect = { kind = "fear_gain", fear_gain = 10 }
		}
	`); err != nil {
		t.Fatal(err)
	}

	r, err := compileRule(coll.rules[0])
	if err != nil {
		t.Fatal(err)
	}
	if r.Active {
		t.Error("active = false should be honored")
	}
	if r.Name != "dormant" {
		t.Errorf("Name = %q, want dormant (defaulted from id)", r.Name)
	}
	if r.Trigger.TimeRange != nil {
		t.Error("TimeRange should be nil when omitted")
	}
	if r.Requirements.ActorTraits != nil {
		t.Error("ActorTraits should be nil when omitted")
	}
}

func TestCompileRule_TeleportParams(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Rule "drag" {
			trigger = { action = "open_door", probability = 0.4 },
			effect = {
				kind = "teleport",
				fear_gain = 15,
				params = { target_location = "basement" }
			}
		}
	`); err != nil {
		t.Fatal(err)
	}

	r, err := compileRule(coll.rules[0])
	if err != nil {
		t.Fatal(err)
	}
	if r.Effect.Params["target_location"] != "basement" {
		t.Errorf("target_location = %v, want basement", r.Effect.Params["target_location"])
	}
}

func TestSortedLuaFiles(t *testing.T) {
	files := sortedLuaFiles([]string{"rules.lua", "scenario.lua", "locations.lua", "survivors.lua"})
	if files[0] != "scenario.lua" {
		t.Errorf("first file = %q, want scenario.lua", files[0])
	}
	if files[1] != "locations.lua" {
		t.Errorf("second file = %q, want locations.lua", files[1])
	}
	if files[2] != "rules.lua" || files[3] != "survivors.lua" {
		t.Errorf("rest = %v, want alphabetical", files[1:])
	}
}
