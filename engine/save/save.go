// Package save implements JSON serialization and deserialization of a
// running session.
package save

import (
	"encoding/json"

	"github.com/nathoo/hauntcore/engine"
	"github.com/nathoo/hauntcore/engine/state"
	"github.com/nathoo/hauntcore/types"
)

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string                      `json:"version"`
	Scenario    string                      `json:"scenario"`
	Turn        int                         `json:"turn"`
	Clock       int                         `json:"clock"`
	Day         int                         `json:"day"`
	FearPoints  int                         `json:"fear_points"`
	NPCs        map[string]*types.NPC       `json:"npcs"`
	Rules       map[string]*types.Rule      `json:"rules"`
	Cooldowns   map[string]int              `json:"cooldowns"`
	Effects     []types.SideEffectInstance  `json:"effects"`
	Events      []types.Event               `json:"events"`
	RNGSeed     int64                       `json:"rng_seed"`
	RNGPosition int64                       `json:"rng_position"`
}

// Save serializes a session to JSON bytes.
func Save(ss *engine.Session) ([]byte, error) {
	s := ss.State
	data := SaveData{
		Version:     ss.Defs.Scenario.Version,
		Scenario:    ss.Defs.Scenario.Title,
		Turn:        s.Turn,
		Clock:       s.Clock,
		Day:         s.Day,
		FearPoints:  s.FearPoints,
		NPCs:        s.NPCs,
		Rules:       s.Rules,
		Cooldowns:   ss.Cooldowns.Snapshot(),
		Effects:     s.ActiveEffects,
		Events:      s.Events,
		RNGSeed:     ss.RNG.Seed(),
		RNGPosition: ss.RNG.Position(),
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.NPCs == nil {
		sd.NPCs = map[string]*types.NPC{}
	}
	if sd.Rules == nil {
		sd.Rules = map[string]*types.Rule{}
	}
	if sd.Cooldowns == nil {
		sd.Cooldowns = map[string]int{}
	}
	return &sd, nil
}

// ApplySave restores a session from loaded save data, RNG included.
func ApplySave(ss *engine.Session, sd *SaveData) {
	ss.State = &state.State{
		Turn:          sd.Turn,
		Clock:         sd.Clock,
		Day:           sd.Day,
		FearPoints:    sd.FearPoints,
		NPCs:          sd.NPCs,
		Rules:         sd.Rules,
		ActiveEffects: sd.Effects,
		Events:        sd.Events,
	}
	ss.Cooldowns.Restore(sd.Cooldowns)
	ss.RestoreRNG(sd.RNGSeed, sd.RNGPosition)
}
