package rules

// CooldownTracker blocks rules from re-firing for a number of turns after
// execution. Set(id, n) during turn T blocks the rule for the rest of T and
// for turns T+1..T+n; it is eligible again at T+n+1.
//
// Entries set during the current turn sit in pending until the next Tick,
// which arms them without decrementing. Armed entries lose one turn per
// Tick and drop out at zero.
type CooldownTracker struct {
	pending map[string]int
	armed   map[string]int
}

// NewCooldownTracker returns an empty tracker.
func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{
		pending: map[string]int{},
		armed:   map[string]int{},
	}
}

// Set starts a cooldown for a rule. Zero or negative turns clear any
// existing cooldown instead.
func (t *CooldownTracker) Set(ruleID string, turns int) {
	if turns <= 0 {
		delete(t.pending, ruleID)
		delete(t.armed, ruleID)
		return
	}
	t.pending[ruleID] = turns
}

// Ready reports whether a rule is free of cooldown.
func (t *CooldownTracker) Ready(ruleID string) bool {
	return t.pending[ruleID] == 0 && t.armed[ruleID] == 0
}

// Remaining returns how many full turns of cooldown are left.
func (t *CooldownTracker) Remaining(ruleID string) int {
	if v := t.pending[ruleID]; v > 0 {
		return v
	}
	return t.armed[ruleID]
}

// Tick advances the tracker by one turn. Call it at the start of every turn,
// before any trigger checks.
func (t *CooldownTracker) Tick() {
	for id, v := range t.armed {
		v--
		if v <= 0 {
			delete(t.armed, id)
		} else {
			t.armed[id] = v
		}
	}
	for id, v := range t.pending {
		t.armed[id] = v
		delete(t.pending, id)
	}
}

// Snapshot returns the armed cooldowns for persistence. Pending entries are
// folded in as armed since a save always happens between turns.
func (t *CooldownTracker) Snapshot() map[string]int {
	out := map[string]int{}
	for id, v := range t.armed {
		out[id] = v
	}
	for id, v := range t.pending {
		out[id] = v
	}
	return out
}

// Restore replaces the tracker contents from a snapshot.
func (t *CooldownTracker) Restore(armed map[string]int) {
	t.pending = map[string]int{}
	t.armed = map[string]int{}
	for id, v := range armed {
		if v > 0 {
			t.armed[id] = v
		}
	}
}
