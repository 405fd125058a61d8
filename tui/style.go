package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTurnHeader = lipgloss.NewStyle().
			Bold(true)

	styleDeath = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleRule = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	styleOmen = lipgloss.NewStyle().
			Foreground(lipgloss.Color("109"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindTurnHeader
	kindDeath
	kindRule
	kindOmen
	kindSystem
	kindTrace
)

// omenPhrases are substrings of ambience lines the narrator emits for
// haunting side effects.
var omenPhrases = []string{
	"Words appear on a wall",
	"The lights in",
	"The air in",
	"slams shut",
	"rings out",
	"Something new is lying",
}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Turn ") && strings.Contains(line, ", day "):
		return kindTurnHeader
	case strings.Contains(line, " dies in "), strings.Contains(line, "grip on reality slips"):
		return kindDeath
	case strings.HasPrefix(line, "Something answers "), strings.Contains(line, "notices a flaw"):
		return kindRule
	default:
		for _, p := range omenPhrases {
			if strings.Contains(line, p) {
				return kindOmen
			}
		}
		return kindNarrative
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
