package effects

import (
	"log/slog"

	"github.com/nathoo/hauntcore/engine/npc"
	"github.com/nathoo/hauntcore/engine/state"
	"github.com/nathoo/hauntcore/types"
)

// Handler applies one named ambient effect at a location. The int is a fear
// bonus the session pool earns when the effect lands.
type Handler func(location string, s *state.State, defs *state.Defs) ([]types.Event, int)

// SideEffectRegistry maps side-effect names to handlers. Unknown names are
// logged and skipped, never applied.
type SideEffectRegistry struct {
	handlers map[string]Handler
	logger   *slog.Logger
}

// NewSideEffectRegistry returns a registry with the built-in handlers.
func NewSideEffectRegistry(logger *slog.Logger) *SideEffectRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &SideEffectRegistry{handlers: map[string]Handler{}, logger: logger}
	r.handlers["blood_message"] = bloodMessage
	r.handlers["light_flicker"] = lightFlicker
	r.handlers["temperature_drop"] = temperatureDrop
	r.handlers["scream_heard"] = screamHeard
	r.handlers["item_appear"] = itemAppear
	r.handlers["door_lock"] = doorLock
	return r
}

// Known reports whether a side-effect name has a handler. The loader rejects
// unknown names at validation time.
func (r *SideEffectRegistry) Known(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names returns the registered handler names.
func (r *SideEffectRegistry) Names() []string {
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	return out
}

// Apply runs a named handler at a location and returns its events and fear
// bonus. Unknown names degrade to a logged no-op.
func (r *SideEffectRegistry) Apply(name, location string, s *state.State, defs *state.Defs) ([]types.Event, int) {
	h, ok := r.handlers[name]
	if !ok {
		r.logger.Warn("unknown side effect", "name", name, "location", location)
		return nil, 0
	}
	return h(location, s, defs)
}

func addInstance(s *state.State, name, location string, duration int, params map[string]any) {
	s.ActiveEffects = append(s.ActiveEffects, types.SideEffectInstance{
		Name: name, Location: location, TurnApplied: s.Turn, Duration: duration, Params: params,
	})
}

// bloodMessage smears a warning on the wall. Frightening to whoever is in
// the room, it lingers, and the house earns a fear bonus for the display.
func bloodMessage(location string, s *state.State, defs *state.Defs) ([]types.Event, int) {
	addInstance(s, "blood_message", location, 5, nil)
	for _, w := range state.NPCsAt(s, location) {
		npc.AddFear(w, 10)
	}
	return []types.Event{{Type: "blood_message", Location: location}}, 10
}

// lightFlicker dims the room for a few turns. The timid take it worse.
func lightFlicker(location string, s *state.State, defs *state.Defs) ([]types.Event, int) {
	addInstance(s, "light_flicker", location, 3, nil)
	for _, w := range state.NPCsAt(s, location) {
		if w.Personality.Courage < 5 {
			npc.AddFear(w, 10)
		} else {
			npc.AddFear(w, 5)
		}
	}
	return []types.Event{{Type: "light_flicker", Location: location}}, 0
}

// temperatureDrop chills the room.
func temperatureDrop(location string, s *state.State, defs *state.Defs) ([]types.Event, int) {
	addInstance(s, "temperature_drop", location, 5, nil)
	for _, w := range state.NPCsAt(s, location) {
		npc.AddFear(w, 3)
		npc.AddStress(w, 5)
	}
	return []types.Event{{Type: "temperature_drop", Location: location}}, 0
}

// screamHeard carries through walls: full effect at the source, half fear
// one room away. No lingering instance.
func screamHeard(location string, s *state.State, defs *state.Defs) ([]types.Event, int) {
	for _, w := range state.NPCsAt(s, location) {
		npc.AddFear(w, 10)
		npc.AddStress(w, 15)
		npc.AddSuspicion(w, 5)
	}
	for _, w := range s.NPCs {
		if !w.Alive() || w.Location == location {
			continue
		}
		if state.Connected(defs, location, w.Location) {
			npc.AddFear(w, 5)
		}
	}
	return []types.Event{{Type: "strange_sound", Location: location, Details: map[string]any{"sound": "scream"}}}, 0
}

// itemAppear leaves something that was not there before.
func itemAppear(location string, s *state.State, defs *state.Defs) ([]types.Event, int) {
	addInstance(s, "item_appear", location, 10, map[string]any{"item": "ominous_note"})
	return []types.Event{{Type: "item_appear", Location: location, Details: map[string]any{"item": "ominous_note"}}}, 0
}

// doorLock traps whoever is inside for a few turns.
func doorLock(location string, s *state.State, defs *state.Defs) ([]types.Event, int) {
	addInstance(s, "door_lock", location, 3, nil)
	for _, w := range state.NPCsAt(s, location) {
		npc.AddFear(w, 20)
	}
	return []types.Event{{Type: "door_lock", Location: location}}, 0
}
