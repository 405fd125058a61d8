package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Scenario { title = "...", ... }
	L.SetGlobal("Scenario", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.scenario = tbl
		return 0
	}))

	// Location "id" { ... }. Curried: Location("id") returns a function
	// that takes a table.
	L.SetGlobal("Location", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.locations = append(coll.locations, rawLocation{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Survivor "id" { ... }, curried the same way.
	L.SetGlobal("Survivor", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.survivors = append(coll.survivors, rawSurvivor{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Rule "id" { ... }, curried the same way.
	L.SetGlobal("Rule", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.rules = append(coll.rules, rawRule{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// TimeRange("22:00", "02:00")
	L.SetGlobal("TimeRange", L.NewFunction(func(L *lua.LState) int {
		from := L.CheckString(1)
		to := L.CheckString(2)
		tbl := L.NewTable()
		tbl.RawSetString("from", lua.LString(from))
		tbl.RawSetString("to", lua.LString(to))
		L.Push(tbl)
		return 1
	}))

	// Loophole("id", "description", difficulty, patch_cost [, auto_after])
	L.SetGlobal("Loophole", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		desc := L.CheckString(2)
		difficulty := L.CheckNumber(3)
		patchCost := L.CheckNumber(4)
		tbl := L.NewTable()
		tbl.RawSetString("id", lua.LString(id))
		tbl.RawSetString("description", lua.LString(desc))
		tbl.RawSetString("difficulty", difficulty)
		tbl.RawSetString("patch_cost", patchCost)
		if L.GetTop() >= 5 {
			tbl.RawSetString("auto_after", L.CheckNumber(5))
		}
		L.Push(tbl)
		return 1
	}))
}
