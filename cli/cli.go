// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the HauntCore simulation.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/hauntcore/engine"
	"github.com/nathoo/hauntcore/engine/save"
	"github.com/nathoo/hauntcore/engine/state"
)

// CLI handles terminal interaction with the director.
type CLI struct {
	Session   *engine.Session
	Narrator  engine.Narrator
	Recorder  engine.Recorder // optional event persistence
	SessionID string
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given session.
func New(ss *engine.Session) *CLI {
	home, _ := os.UserHomeDir()
	saveDir := filepath.Join(home, ".hauntcore", "saves")
	return &CLI{
		Session:  ss,
		Narrator: engine.StubNarrator{},
		In:       os.Stdin,
		Out:      os.Stdout,
		SaveDir:  saveDir,
	}
}

// Run starts the director loop. It shows the intro, then loops:
// prompt → input → dispatch → output.
func (c *CLI) Run() {
	if c.Session.Defs.Scenario.Intro != "" {
		c.printLine(c.Session.Defs.Scenario.Intro)
		c.printLine("")
	}
	c.cmdStatus()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.dispatch(input)

		if c.Session.Over() {
			c.printSystem("No one is left alive. The house falls silent.")
			return
		}
	}
}

// dispatch handles simulation commands.
func (c *CLI) dispatch(input string) {
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
				c.printSystem(fmt.Sprintf("Not a turn count: %s", arg))
				return
			}
			n = parsed
		}
		c.cmdAdvance(n)

	case "status":
		c.cmdStatus()

	case "npc", "survivor":
		if arg == "" {
			c.printSystem("Usage: npc <id>")
			return
		}
		c.cmdNPC(arg)

	case "rules":
		c.cmdRules()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
}

// handleMeta dispatches meta-commands. Returns true if the program should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdAdvance(n int) {
	for i := 0; i < n; i++ {
		if c.Session.Over() {
			return
		}
		result := c.Session.Advance()
		c.printLine(c.Narrator.Narrate(result))
		if c.Trace {
			c.printTrace(result)
		}
		if c.Recorder != nil {
			if err := c.Recorder.Append(context.Background(), c.SessionID, result.Events); err != nil {
				c.printSystem(fmt.Sprintf("Event log write failed: %v", err))
			}
		}
	}
}

func (c *CLI) cmdStatus() {
	s := c.Session.State
	c.printSystem(fmt.Sprintf("Turn %d, day %d, %s", s.Turn, s.Day, state.FormatClock(s.Clock)))
	c.printSystem(fmt.Sprintf("Fear points: %d", s.FearPoints))
	alive := state.AliveNPCs(s)
	c.printSystem(fmt.Sprintf("Survivors alive: %d/%d", len(alive), len(s.NPCs)))
	for _, id := range state.NPCIDs(s) {
		n := s.NPCs[id]
		if !n.Alive() {
			c.printLine(fmt.Sprintf("  %-12s dead (turn %d: %s)", n.Name, n.DeathTurn, n.DeathCause))
			continue
		}
		c.printLine(fmt.Sprintf("  %-12s %s in %s  fear %d  sanity %d  stamina %d",
			n.Name, n.Status, n.Location, n.Fear, n.Sanity, n.Stamina))
	}
}

func (c *CLI) cmdNPC(id string) {
	n, err := state.NPC(c.Session.State, id)
	if err != nil {
		c.printSystem(fmt.Sprintf("No such survivor: %s", id))
		return
	}
	c.printLine(fmt.Sprintf("%s (%s)", n.Name, n.ID))
	if n.Background != "" {
		c.printLine("  " + n.Background)
	}
	c.printLine(fmt.Sprintf("  Status: %s, location: %s", n.Status, n.Location))
	c.printLine(fmt.Sprintf("  HP %d  Sanity %d  Stamina %d  Fear %d  Suspicion %d  Stress %d",
		n.HP, n.Sanity, n.Stamina, n.Fear, n.Suspicion, n.Stress))
	if len(n.Inventory) > 0 {
		c.printLine(fmt.Sprintf("  Carrying: %s", strings.Join(n.Inventory, ", ")))
	}
	if len(n.Memory.KnownRules) > 0 {
		c.printLine(fmt.Sprintf("  Suspects rules: %s", strings.Join(n.Memory.KnownRules, ", ")))
	}
	if len(n.Memory.KnownLoopholes) > 0 {
		c.printLine(fmt.Sprintf("  Knows loopholes: %s", strings.Join(n.Memory.KnownLoopholes, ", ")))
	}
	if !n.Alive() {
		c.printLine(fmt.Sprintf("  Died turn %d: %s", n.DeathTurn, n.DeathCause))
	}
}

func (c *CLI) cmdRules() {
	s := c.Session.State
	ids := make([]string, 0, len(s.Rules))
	for id := range s.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		r := s.Rules[id]
		status := "active"
		if !r.Active {
			status = "dormant"
		}
		c.printLine(fmt.Sprintf("%-20s %s  level %d  triggered %d times", r.ID, status, r.Level, r.TimesTriggered))
		patched := 0
		for _, lh := range r.Loopholes {
			if lh.Patched {
				patched++
			}
		}
		if len(r.Loopholes) > 0 {
			c.printLine(fmt.Sprintf("  loopholes: %d (%d patched)", len(r.Loopholes), patched))
		}
	}
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Save(c.Session)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Session saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	save.ApplySave(c.Session, sd)
	c.printSystem(fmt.Sprintf("Session loaded from %s (turn %d).", name, sd.Turn))
	c.cmdStatus()
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  — Save session (default: quicksave)",
		"  /load [name]  — Load session (default: quicksave)",
		"  /quit         — Exit",
		"  /help         — Show this help",
		"  /trace        — Toggle debug trace output",
		"",
		"Simulation:",
		"  advance [n]   — Run n turns (default 1)",
		"  status        — Clock, fear points, survivor overview",
		"  npc <id>      — Inspect a survivor",
		"  rules         — List rules and loopholes",
		"  again (g)     — Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) printTrace(result engine.TurnResult) {
	if len(result.Triggered) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Rules fired: %v", result.Triggered))
	}
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s %s@%s", e.Type, e.Actor, e.Location))
		}
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
