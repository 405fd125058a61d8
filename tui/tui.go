package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/hauntcore/engine"
	"github.com/nathoo/hauntcore/engine/save"
	"github.com/nathoo/hauntcore/engine/state"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed director input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the HauntCore TUI.
type Model struct {
	session   *engine.Session
	narrator  engine.Narrator
	recorder  engine.Recorder
	sessionID string

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated feed lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
	saveDir  string
}

// feedMsg carries output from the simulation into the Update loop.
type feedMsg struct {
	input    string   // echoed director input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model wired to the given session.
func New(ss *engine.Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	home, _ := os.UserHomeDir()
	return Model{
		session:  ss,
		narrator: engine.StubNarrator{},
		input:    ti,
		history:  NewHistory(100),
		saveDir:  filepath.Join(home, ".hauntcore", "saves"),
	}
}

// WithRecorder enables event persistence for the session.
func (m Model) WithRecorder(rec engine.Recorder, sessionID string) Model {
	m.recorder = rec
	m.sessionID = sessionID
	return m
}

// Run starts the Bubble Tea program.
func Run(ss *engine.Session, rec engine.Recorder, sessionID string) error {
	m := New(ss)
	if rec != nil {
		m = m.WithRecorder(rec, sessionID)
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the intro text.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		sc := m.session.Defs.Scenario
		var lines []string

		header := sc.Title
		if sc.Version != "" {
			header += " v" + sc.Version
		}
		if sc.Author != "" {
			header += " by " + sc.Author
		}
		lines = append(lines, header, "")

		if sc.Intro != "" {
			lines = append(lines, sc.Intro, "")
		}
		lines = append(lines, "Press Enter to advance a turn. /help lists commands.")

		return feedMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, simulation output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case feedMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line. An empty line advances
// one turn.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		lines := m.cmdAdvance(1)
		m = m.appendOutput(feedMsg{lines: lines})
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(feedMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(feedMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Simulation command.
	lines, isSystem := m.dispatch(input)
	m = m.appendOutput(feedMsg{input: input, lines: lines, isSystem: isSystem})
	return m, nil
}

// dispatch handles simulation commands. Returns output lines and whether
// they are system-styled.
func (m *Model) dispatch(input string) ([]string, bool) {
	parts := strings.Fields(strings.ToLower(input))
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "advance", "turn", "next":
		n := 1
		if arg != "" {
			parsed, err := strconv.Atoi(arg)
			if err != nil || parsed < 1 {
				return []string{fmt.Sprintf("Not a turn count: %s", arg)}, true
			}
			n = parsed
		}
		return m.cmdAdvance(n), false

	case "status":
		return m.cmdStatus(), true

	case "npc", "survivor":
		if arg == "" {
			return []string{"Usage: npc <id>"}, true
		}
		return m.cmdNPC(arg), true

	case "rules":
		return m.cmdRules(), true

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, true
	}
}

func (m *Model) cmdAdvance(n int) []string {
	var lines []string
	for i := 0; i < n; i++ {
		if m.session.Over() {
			lines = append(lines, "No one is left alive. The house falls silent.")
			break
		}
		result := m.session.Advance()
		lines = append(lines, strings.Split(m.narrator.Narrate(result), "\n")...)
		if m.trace {
			lines = append(lines, m.formatTrace(result)...)
		}
		if m.recorder != nil {
			if err := m.recorder.Append(context.Background(), m.sessionID, result.Events); err != nil {
				lines = append(lines, fmt.Sprintf("[Event log write failed: %v]", err))
			}
		}
	}
	return lines
}

func (m *Model) cmdStatus() []string {
	s := m.session.State
	lines := []string{
		fmt.Sprintf("Turn %d, day %d, %s", s.Turn, s.Day, state.FormatClock(s.Clock)),
		fmt.Sprintf("Fear points: %d", s.FearPoints),
	}
	for _, id := range state.NPCIDs(s) {
		n := s.NPCs[id]
		if !n.Alive() {
			lines = append(lines, fmt.Sprintf("%-12s dead (turn %d: %s)", n.Name, n.DeathTurn, n.DeathCause))
			continue
		}
		lines = append(lines, fmt.Sprintf("%-12s %s in %s  fear %d  sanity %d  stamina %d",
			n.Name, n.Status, locationDisplayName(n.Location), n.Fear, n.Sanity, n.Stamina))
	}
	return lines
}

func (m *Model) cmdNPC(id string) []string {
	n, err := state.NPC(m.session.State, id)
	if err != nil {
		return []string{fmt.Sprintf("No such survivor: %s", id)}
	}
	lines := []string{
		fmt.Sprintf("%s (%s)", n.Name, n.ID),
		fmt.Sprintf("Status: %s, location: %s", n.Status, locationDisplayName(n.Location)),
		fmt.Sprintf("HP %d  Sanity %d  Stamina %d  Fear %d  Suspicion %d  Stress %d",
			n.HP, n.Sanity, n.Stamina, n.Fear, n.Suspicion, n.Stress),
	}
	if len(n.Inventory) > 0 {
		lines = append(lines, "Carrying: "+strings.Join(n.Inventory, ", "))
	}
	if len(n.Memory.KnownRules) > 0 {
		lines = append(lines, "Suspects rules: "+strings.Join(n.Memory.KnownRules, ", "))
	}
	if len(n.Memory.KnownLoopholes) > 0 {
		lines = append(lines, "Knows loopholes: "+strings.Join(n.Memory.KnownLoopholes, ", "))
	}
	return lines
}

func (m *Model) cmdRules() []string {
	s := m.session.State
	ids := make([]string, 0, len(s.Rules))
	for id := range s.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var lines []string
	for _, id := range ids {
		r := s.Rules[id]
		status := "active"
		if !r.Active {
			status = "dormant"
		}
		lines = append(lines, fmt.Sprintf("%-20s %s  level %d  triggered %d times",
			r.ID, status, r.Level, r.TimesTriggered))
	}
	return lines
}

// appendOutput adds lines to the feed and refreshes the viewport.
func (m Model) appendOutput(msg feedMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTurnHeader:
		return styleTurnHeader.Render(line)
	case kindDeath:
		return styleDeath.Render(line)
	case kindRule:
		return styleRule.Render(line)
	case kindOmen:
		return styleOmen.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Preserves existing newlines within the text.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/help":
		return m.cmdHelp(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Save(m.session)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Session saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(m.saveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	sd, err := save.Load(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	save.ApplySave(m.session, sd)

	output := []string{fmt.Sprintf("Session loaded from %s (turn %d).", name, sd.Turn)}
	output = append(output, m.cmdStatus()...)
	return output
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]  — Save session (default: quicksave)",
		"  /load [name]  — Load session (default: quicksave)",
		"  /quit         — Exit",
		"  /help         — Show this help",
		"  /trace        — Toggle debug trace output",
		"",
		"Simulation:",
		"  advance [n]   — Run n turns (default 1; Enter on an empty line also advances)",
		"  status        — Clock, fear points, survivor overview",
		"  npc <id>      — Inspect a survivor",
		"  rules         — List rules",
		"  again (g)     — Repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m *Model) formatTrace(result engine.TurnResult) []string {
	var lines []string
	if len(result.Triggered) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Rules fired: %v", result.Triggered))
	}
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s %s@%s", e.Type, e.Actor, e.Location))
		}
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
