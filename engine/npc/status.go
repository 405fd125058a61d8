// Package npc implements the behavioral state machine for survivors: vital
// bookkeeping, status derivation, the per-turn decision engine, and acting
// out chosen actions.
package npc

import "github.com/nathoo/hauntcore/types"

// clamp bounds a vital to [0,100].
func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// DeriveStatus computes the behavioral status from vitals. Priority order:
// dead beats insane beats panicked beats frightened.
func DeriveStatus(n *types.NPC) types.Status {
	switch {
	case n.HP <= 0:
		return types.StatusDead
	case n.Sanity <= 20:
		return types.StatusInsane
	case n.Fear >= 80:
		return types.StatusPanicked
	case n.Fear >= 50:
		return types.StatusFrightened
	default:
		return types.StatusNormal
	}
}

// Refresh re-derives Status from the current vitals. Death is terminal: a
// dead NPC never transitions back.
func Refresh(n *types.NPC) {
	if n.Status == types.StatusDead {
		return
	}
	n.Status = DeriveStatus(n)
}

// AddFear raises fear and cascades into sanity and stress. Fear above 50
// erodes sanity by (fear-50)/10; stress rises by half the fear delta.
func AddFear(n *types.NPC, amount int) {
	n.Fear = clamp(n.Fear + amount)
	if n.Fear > 50 {
		n.Sanity = clamp(n.Sanity - (n.Fear-50)/10)
	}
	n.Stress = clamp(n.Stress + amount/2)
	Refresh(n)
}

// ReduceFear lowers fear and stress. Sanity does not recover here.
func ReduceFear(n *types.NPC, amount int) {
	n.Fear = clamp(n.Fear - amount)
	n.Stress = clamp(n.Stress - amount/2)
	Refresh(n)
}

// AddSanity adjusts sanity by a signed delta.
func AddSanity(n *types.NPC, delta int) {
	n.Sanity = clamp(n.Sanity + delta)
	Refresh(n)
}

// AddSuspicion adjusts suspicion by a signed delta.
func AddSuspicion(n *types.NPC, delta int) {
	n.Suspicion = clamp(n.Suspicion + delta)
}

// AddStress adjusts stress by a signed delta.
func AddStress(n *types.NPC, delta int) {
	n.Stress = clamp(n.Stress + delta)
}

// Kill marks the NPC dead, recording cause and turn.
func Kill(n *types.NPC, cause string, turn int) {
	n.HP = 0
	n.Status = types.StatusDead
	n.DeathCause = cause
	n.DeathTurn = turn
}

// CanAct reports whether the NPC can take an action this turn. The dead and
// the insane cannot; neither can the fully exhausted.
func CanAct(n *types.NPC) bool {
	if n.Status == types.StatusDead || n.Status == types.StatusInsane {
		return false
	}
	return n.Stamina > 0
}
