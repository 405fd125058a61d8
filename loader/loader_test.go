package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/hauntcore/types"
)

const validScenario = `
Scenario {
	title = "Blackwood Manor",
	author = "Tester",
	version = "1.0",
	intro = "The front door will not open again."
}

Location "hall" {
	name = "Entrance Hall",
	description = "Dust sheets over furniture.",
	connections = { "bathroom" },
	objects = { "door" }
}

Location "bathroom" {
	name = "Bathroom",
	connections = { "hall" },
	properties = { "dark" },
	objects = { "mirror" }
}

Survivor "ava" {
	name = "Ava",
	location = "hall",
	items = { "flashlight" },
	personality = {
		rationality = 8, courage = 6, curiosity = 4, sociability = 7,
		paranoia = 3, observation = 9, loophole_sense = 5
	}
}

Rule "mirror_death" {
	name = "Never Look in the Mirror",
	level = 3,
	cooldown = 2,
	trigger = {
		action = "look_mirror",
		locations = { "bathroom" },
		conditions = { "alone" },
		probability = 0.8,
		time_range = TimeRange("22:00", "02:00")
	},
	effect = {
		kind = "instant_death",
		fear_gain = 50,
		side_effects = { "blood_message" }
	},
	loopholes = {
		Loophole("closed_eyes", "Keep your eyes shut", 6, 30)
	}
}
`

func TestLoadString_ValidScenario(t *testing.T) {
	defs, err := LoadString(validScenario)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}

	if defs.Scenario.Title != "Blackwood Manor" {
		t.Errorf("Title = %q", defs.Scenario.Title)
	}
	if len(defs.Locations) != 2 {
		t.Errorf("expected 2 locations, got %d", len(defs.Locations))
	}
	if len(defs.NPCs) != 1 || defs.NPCs[0].ID != "ava" {
		t.Errorf("NPCs = %+v", defs.NPCs)
	}
	if len(defs.Rules) != 1 || defs.Rules[0].ID != "mirror_death" {
		t.Errorf("Rules = %+v", defs.Rules)
	}
	if defs.Rules[0].Trigger.Action != types.ActionLookMirror {
		t.Errorf("trigger action = %q", defs.Rules[0].Trigger.Action)
	}
}

func TestLoadString_NoScenarioDef_Fails(t *testing.T) {
	_, err := LoadString(`Location "hall" { name = "Hall" }`)
	if err == nil {
		t.Fatal("expected error for missing Scenario{} definition")
	}
	if !strings.Contains(err.Error(), "no Scenario{} definition") {
		t.Errorf("error = %q, expected 'no Scenario{} definition'", err.Error())
	}
}

func TestLoadString_BadLuaSyntax_Fails(t *testing.T) {
	if _, err := LoadString(`Location "hall" {{{`); err == nil {
		t.Fatal("expected error for bad Lua syntax")
	}
}

func TestLoadString_UndefinedConnection_Fails(t *testing.T) {
	src := strings.Replace(validScenario,
		`connections = { "hall" },`,
		`connections = { "attic" },`, 1)
	_, err := LoadString(src)
	if err == nil {
		t.Fatal("expected error for undefined connection target")
	}
	if !strings.Contains(err.Error(), "undefined location") {
		t.Errorf("error = %q, expected 'undefined location'", err.Error())
	}
}

func TestLoadString_UnknownSideEffect_Fails(t *testing.T) {
	src := strings.Replace(validScenario,
		`side_effects = { "blood_message" }`,
		`side_effects = { "ceiling_melt" }`, 1)
	_, err := LoadString(src)
	if err == nil {
		t.Fatal("expected error for unknown side effect")
	}
	if !strings.Contains(err.Error(), "unknown side effect") {
		t.Errorf("error = %q, expected 'unknown side effect'", err.Error())
	}
}

func TestLoadString_UnknownCondition_Fails(t *testing.T) {
	src := strings.Replace(validScenario,
		`conditions = { "alone" },`,
		`conditions = { "is_tuesday" },`, 1)
	_, err := LoadString(src)
	if err == nil {
		t.Fatal("expected error for unknown condition")
	}
	if !strings.Contains(err.Error(), "unknown condition") {
		t.Errorf("error = %q, expected 'unknown condition'", err.Error())
	}
}

func TestLoadString_MalformedTimeRange_Fails(t *testing.T) {
	src := strings.Replace(validScenario,
		`TimeRange("22:00", "02:00")`,
		`TimeRange("25:00", "02:00")`, 1)
	if _, err := LoadString(src); err == nil {
		t.Fatal("expected error for malformed time range")
	}
}

func TestLoadString_ProbabilityOutOfRange_Fails(t *testing.T) {
	src := strings.Replace(validScenario,
		`probability = 0.8,`,
		`probability = 1.5,`, 1)
	_, err := LoadString(src)
	if err == nil {
		t.Fatal("expected error for probability outside [0,1]")
	}
	if !strings.Contains(err.Error(), "outside [0,1]") {
		t.Errorf("error = %q, expected 'outside [0,1]'", err.Error())
	}
}

func TestLoad_BlackwoodScenario(t *testing.T) {
	defs, err := Load("../scenarios/blackwood")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if defs.Scenario.Title != "Blackwood Manor" {
		t.Errorf("Title = %q", defs.Scenario.Title)
	}
	if len(defs.Locations) != 8 {
		t.Errorf("expected 8 locations, got %d", len(defs.Locations))
	}
	if len(defs.NPCs) != 4 {
		t.Errorf("expected 4 survivors, got %d", len(defs.NPCs))
	}
	if len(defs.Rules) != 8 {
		t.Errorf("expected 8 rules, got %d", len(defs.Rules))
	}
	for _, r := range defs.Rules {
		if !r.Active {
			t.Errorf("rule %q should start active", r.ID)
		}
	}
}

func TestLoad_MissingDir(t *testing.T) {
	if _, err := Load("testdata/nope"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoadString_SandboxEnforced(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	if err := L.DoString(`os.execute("echo pwned")`); err == nil {
		t.Fatal("expected sandbox to block os.execute")
	}
	if err := L.DoString(`dofile("/etc/passwd")`); err == nil {
		t.Fatal("expected sandbox to block dofile")
	}
}
