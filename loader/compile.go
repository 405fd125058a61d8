// Package loader loads Lua scenario content into Go structs at startup.
// The Lua VM is discarded after loading; no Lua runs at runtime.
package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/hauntcore/engine/state"
	"github.com/nathoo/hauntcore/types"
	lua "github.com/yuin/gopher-lua"
)

// rawLocation holds a location table before compilation.
type rawLocation struct {
	id    string
	table *lua.LTable
}

// rawSurvivor holds a survivor table before compilation.
type rawSurvivor struct {
	id    string
	table *lua.LTable
}

// rawRule holds a rule table before compilation.
type rawRule struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// stringList converts an array-style Lua table to a []string.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// tableToAnyMap converts a Lua table to a map[string]any.
func tableToAnyMap(tbl *lua.LTable) map[string]any {
	if tbl == nil {
		return nil
	}
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Locations: map[string]types.Location{},
	}

	if coll.scenario == nil {
		return nil, fmt.Errorf("no Scenario{} definition found")
	}
	defs.Scenario = types.ScenarioDef{
		Title:   getString(coll.scenario, "title"),
		Author:  getString(coll.scenario, "author"),
		Version: getString(coll.scenario, "version"),
		Intro:   getString(coll.scenario, "intro"),
	}

	for _, raw := range coll.locations {
		defs.Locations[raw.id] = compileLocation(raw)
	}

	for _, raw := range coll.survivors {
		n, err := compileSurvivor(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling survivor %s: %w", raw.id, err)
		}
		defs.NPCs = append(defs.NPCs, n)
	}

	for _, raw := range coll.rules {
		r, err := compileRule(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling rule %s: %w", raw.id, err)
		}
		defs.Rules = append(defs.Rules, r)
	}

	return defs, nil
}

func compileLocation(raw rawLocation) types.Location {
	tbl := raw.table
	return types.Location{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Connections: stringList(getTable(tbl, "connections")),
		Properties:  stringList(getTable(tbl, "properties")),
		Objects:     stringList(getTable(tbl, "objects")),
	}
}

func compileSurvivor(raw rawSurvivor) (types.NPC, error) {
	tbl := raw.table
	n := types.NPC{
		ID:         raw.id,
		Name:       getString(tbl, "name"),
		Background: getString(tbl, "background"),
		HP:         100,
		Sanity:     100,
		Stamina:    100,
		Location:   getString(tbl, "location"),
		Status:     types.StatusNormal,
		Inventory:  stringList(getTable(tbl, "items")),
	}
	if n.Name == "" {
		n.Name = raw.id
	}

	p := getTable(tbl, "personality")
	if p == nil {
		return n, fmt.Errorf("personality table is required")
	}
	n.Personality = types.Personality{
		Rationality:   getInt(p, "rationality"),
		Courage:       getInt(p, "courage"),
		Curiosity:     getInt(p, "curiosity"),
		Sociability:   getInt(p, "sociability"),
		Paranoia:      getInt(p, "paranoia"),
		Observation:   getInt(p, "observation"),
		LoopholeSense: getInt(p, "loophole_sense"),
	}
	return n, nil
}

func compileRule(raw rawRule) (types.Rule, error) {
	tbl := raw.table
	r := types.Rule{
		ID:            raw.id,
		Name:          getString(tbl, "name"),
		Description:   getString(tbl, "description"),
		Level:         getInt(tbl, "level"),
		BaseCost:      getInt(tbl, "base_cost"),
		CooldownTurns: getInt(tbl, "cooldown"),
		Active:        getBool(tbl, "active", true),
	}
	if r.Name == "" {
		r.Name = raw.id
	}

	trig := getTable(tbl, "trigger")
	if trig == nil {
		return r, fmt.Errorf("trigger table is required")
	}
	r.Trigger = types.TriggerCondition{
		Action:          types.Action(getString(trig, "action")),
		Locations:       stringList(getTable(trig, "locations")),
		ExtraConditions: stringList(getTable(trig, "conditions")),
		Probability:     getNumber(trig, "probability"),
	}
	if tr := getTable(trig, "time_range"); tr != nil {
		r.Trigger.TimeRange = &types.TimeRange{
			From: getString(tr, "from"),
			To:   getString(tr, "to"),
		}
	}

	if req := getTable(tbl, "requires"); req != nil {
		r.Requirements = types.RuleRequirement{
			Items: stringList(getTable(req, "items")),
			Areas: stringList(getTable(req, "areas")),
		}
		if traits := getTable(req, "traits"); traits != nil {
			r.Requirements.ActorTraits = compileTraits(traits)
		}
	}

	eff := getTable(tbl, "effect")
	if eff == nil {
		return r, fmt.Errorf("effect table is required")
	}
	r.Effect = types.RuleEffect{
		Kind:        types.EffectKind(getString(eff, "kind")),
		FearGain:    getInt(eff, "fear_gain"),
		SideEffects: stringList(getTable(eff, "side_effects")),
		Delay:       getInt(eff, "delay"),
		Params:      tableToAnyMap(getTable(eff, "params")),
	}

	if lhs := getTable(tbl, "loopholes"); lhs != nil {
		for i := 1; i <= lhs.MaxN(); i++ {
			lhTbl, ok := lhs.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			lh := types.Loophole{
				ID:                  getString(lhTbl, "id"),
				Description:         getString(lhTbl, "description"),
				DiscoveryDifficulty: getInt(lhTbl, "difficulty"),
				PatchCost:           getInt(lhTbl, "patch_cost"),
			}
			if v := lhTbl.RawGetString("auto_after"); v != lua.LNil {
				if n, ok := v.(lua.LNumber); ok {
					after := int(n)
					lh.AutoDiscoverAfter = &after
				}
			}
			r.Loopholes = append(r.Loopholes, lh)
		}
	}

	return r, nil
}

// compileTraits maps trait names to requirements. A bare number means an
// exact match; a table carries min/max (or exact).
func compileTraits(tbl *lua.LTable) map[string]types.TraitRequirement {
	out := map[string]types.TraitRequirement{}
	tbl.ForEach(func(k, v lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok {
			return
		}
		switch val := v.(type) {
		case lua.LNumber:
			exact := int(val)
			out[string(name)] = types.TraitRequirement{Exact: &exact}
		case *lua.LTable:
			var req types.TraitRequirement
			if n, ok := val.RawGetString("exact").(lua.LNumber); ok {
				e := int(n)
				req.Exact = &e
			}
			if n, ok := val.RawGetString("min").(lua.LNumber); ok {
				m := int(n)
				req.Min = &m
			}
			if n, ok := val.RawGetString("max").(lua.LNumber); ok {
				m := int(n)
				req.Max = &m
			}
			out[string(name)] = req
		}
	})
	return out
}

// sortedLuaFiles returns .lua files with scenario.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var scenarioFile string
	var others []string
	for _, f := range files {
		if f == "scenario.lua" {
			scenarioFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if scenarioFile != "" {
		return append([]string{scenarioFile}, others...)
	}
	return others
}
