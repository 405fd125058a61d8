package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/hauntcore/engine/state"
)

// locationDisplayName derives a human-readable name from a location ID.
// "living_room" -> "Living Room", "second_bedroom" -> "Second Bedroom".
func locationDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// renderStatusBar produces a full-width inverted status line showing the
// clock, the fear point pool, and the survivor count.
func (m Model) renderStatusBar() string {
	s := m.session.State

	title := m.session.Defs.Scenario.Title
	if title == "" {
		title = "Haunting"
	}

	left := fmt.Sprintf(" %s | Day %d %s", title, s.Day, state.FormatClock(s.Clock))

	alive := len(state.AliveNPCs(s))
	right := fmt.Sprintf("Fear: %d | Alive: %d/%d | T:%d ",
		s.FearPoints, alive, len(s.NPCs), s.Turn)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
