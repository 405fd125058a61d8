// Package types defines the shared data structures for the HauntCore engine.
// This package contains only type definitions and trivial accessors, no
// game logic.
package types

// Status is an NPC's behavioral state, derived from vitals. It is never set
// directly; the npc package owns the derivation.
type Status string

const (
	StatusNormal     Status = "normal"
	StatusFrightened Status = "frightened"
	StatusPanicked   Status = "panicked"
	StatusInsane     Status = "insane"
	StatusDead       Status = "dead"
)

// Action is something an NPC can attempt during its turn.
type Action string

const (
	ActionNone        Action = ""
	ActionMove        Action = "move"
	ActionInvestigate Action = "investigate"
	ActionTalk        Action = "talk"
	ActionHide        Action = "hide"
	ActionRun         Action = "run"
	ActionRest        Action = "rest"
	ActionUseItem     Action = "use_item"
	ActionLookAround  Action = "look_around"
	ActionTurnAround  Action = "turn_around"
	ActionOpenDoor    Action = "open_door"
	ActionLookMirror  Action = "look_mirror"
)

// EffectKind is the primary effect a rule applies when it fires.
type EffectKind string

const (
	EffectInstantDeath EffectKind = "instant_death"
	EffectFearGain     EffectKind = "fear_gain"
	EffectSanityLoss   EffectKind = "sanity_loss"
	EffectTeleport     EffectKind = "teleport"
	EffectTransform    EffectKind = "transform"
	EffectSpawnSpirit  EffectKind = "spawn_spirit"
	EffectTriggerEvent EffectKind = "trigger_event"
)

// TimeRange is a clock window in "HH:MM" strings. From later than To means
// the window wraps past midnight (e.g. 22:00 → 02:00).
type TimeRange struct {
	From string
	To   string
}

// TraitRequirement constrains an actor trait. Exact takes precedence; with
// Exact nil the Min/Max bounds apply (a nil bound is unbounded).
type TraitRequirement struct {
	Exact *int
	Min   *int
	Max   *int
}

// TriggerCondition gates whether a rule may fire against a chosen action.
type TriggerCondition struct {
	Action          Action
	TimeRange       *TimeRange
	Locations       []string
	ExtraConditions []string
	Probability     float64 // base chance in [0,1]
}

// RuleRequirement is the set of preconditions on the acting NPC.
type RuleRequirement struct {
	Items       []string
	Areas       []string
	ActorTraits map[string]TraitRequirement
}

// RuleEffect describes what a fired rule does.
type RuleEffect struct {
	Kind        EffectKind
	Params      map[string]any
	FearGain    int // fear points credited to the session pool
	SideEffects []string
	Delay       int
}

// Loophole is an authored weakness of a rule that NPCs may discover.
type Loophole struct {
	ID                  string
	Description         string
	DiscoveryDifficulty int // 1..10
	PatchCost           int
	Patched             bool
	AutoDiscoverAfter   *int // session turn at which it is revealed regardless
}

// Rule is an authored trigger→effect pair evaluated against NPC actions.
type Rule struct {
	ID             string
	Name           string
	Description    string
	Level          int
	Trigger        TriggerCondition
	Requirements   RuleRequirement
	Effect         RuleEffect
	Loopholes      []Loophole
	BaseCost       int
	CooldownTurns  int
	Active         bool
	TimesTriggered int
	History        []ExecutionRecord
}

// ExecutionRecord is one entry of a rule's execution history.
type ExecutionRecord struct {
	Turn     int
	Actor    string
	Location string
}

// Personality holds the 1..10 trait weights that drive NPC decisions.
type Personality struct {
	Rationality   int
	Courage       int
	Curiosity     int
	Sociability   int
	Paranoia      int
	Observation   int
	LoopholeSense int
}

// Trait returns a named personality trait value. Unknown names return 0.
func (p Personality) Trait(name string) int {
	switch name {
	case "rationality":
		return p.Rationality
	case "courage":
		return p.Courage
	case "curiosity":
		return p.Curiosity
	case "sociability":
		return p.Sociability
	case "paranoia":
		return p.Paranoia
	case "observation":
		return p.Observation
	case "loophole_sense":
		return p.LoopholeSense
	default:
		return 0
	}
}

// MemoryEvent is one remembered occurrence.
type MemoryEvent struct {
	Type    string
	Turn    int
	Details map[string]any
}

// Memory is an NPC's bounded recollection of the session.
type Memory struct {
	Events              []MemoryEvent
	KnownRules          []string
	KnownLoopholes      []string
	SuspiciousLocations []string
	FearedObjects       []string
}

// NPC is the single owned representation of a character. Vitals stay in
// [0,100]; Status is a cache of the derivation over them.
type NPC struct {
	ID         string
	Name       string
	Background string

	HP      int
	Sanity  int
	Stamina int

	Fear      int
	Suspicion int
	Stress    int

	Personality Personality

	Location string
	Status   Status

	Inventory     []string
	Memory        Memory
	Relationships map[string]int // peer id → trust

	DeathCause string
	DeathTurn  int
}

// Alive reports whether the NPC has not died.
func (n *NPC) Alive() bool { return n.Status != StatusDead }

// HasItem reports whether the NPC carries the given item.
func (n *NPC) HasItem(item string) bool {
	for _, id := range n.Inventory {
		if id == item {
			return true
		}
	}
	return false
}

// Location is a node of the scenario map.
type Location struct {
	ID          string
	Name        string
	Description string
	Connections []string
	Properties  []string // "safe", "dangerous", "dark", "cold"
	Objects     []string // investigation targets
}

// HasProperty reports whether the location carries the named property.
func (l Location) HasProperty(p string) bool {
	for _, prop := range l.Properties {
		if prop == p {
			return true
		}
	}
	return false
}

// Event is one structured entry of the per-turn event stream. The engine
// never formats prose; consumers (narrator, persistence) interpret these.
type Event struct {
	Type     string
	Actor    string
	Location string
	Details  map[string]any
	Turn     int
}

// SideEffectInstance is a live, area-scoped ambient effect. It is removed
// once currentTurn - TurnApplied >= Duration.
type SideEffectInstance struct {
	Name        string
	Location    string
	TurnApplied int
	Duration    int
	Params      map[string]any
}

// Expired reports whether the instance should be removed at the given turn.
func (s SideEffectInstance) Expired(currentTurn int) bool {
	return currentTurn-s.TurnApplied >= s.Duration
}

// ScenarioDef holds scenario metadata from Lua.
type ScenarioDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
}
