// HauntCore is a deterministic, rule-driven horror house simulator.
// Usage: hauntcore [--version] [--plain] [--config <file>] [--seed <n>] [--cast <n>] [--script <file>] [--trace] <scenario_directory>
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/nathoo/hauntcore/cli"
	"github.com/nathoo/hauntcore/config"
	"github.com/nathoo/hauntcore/engine"
	"github.com/nathoo/hauntcore/eventlog"
	"github.com/nathoo/hauntcore/loader"
	"github.com/nathoo/hauntcore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	trace := false
	var scenarioDir string
	var scriptFile string
	var configFile string
	var seedOverride *int64
	extraCast := 0

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("hauntcore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		case "--config":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--config requires a file path\n")
				os.Exit(1)
			}
			i++
			configFile = args[i]
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires a number\n")
				os.Exit(1)
			}
			i++
			seed, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed: %v\n", err)
				os.Exit(1)
			}
			seedOverride = &seed
		case "--cast":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--cast requires a number\n")
				os.Exit(1)
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 0 {
				fmt.Fprintf(os.Stderr, "--cast: not a survivor count: %s\n", args[i])
				os.Exit(1)
			}
			extraCast = n
		default:
			if scenarioDir == "" {
				scenarioDir = args[i]
			}
		}
	}

	if scenarioDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: hauntcore [--version] [--plain] [--config <file>] [--seed <n>] [--cast <n>] [--script <file>] [--trace] <scenario_directory>\n")
		os.Exit(1)
	}

	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if seedOverride != nil {
		cfg.Seed = *seedOverride
	}

	// Load and compile Lua scenario content.
	defs, err := loader.Load(scenarioDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
		os.Exit(1)
	}

	ss := engine.New(defs, cfg.Options())
	for i := 0; i < extraCast; i++ {
		ss.AddRandomNPC()
	}
	sessionID := uuid.NewString()

	var recorder engine.Recorder
	if cfg.Database != "" {
		store, err := eventlog.Open(cfg.Database)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening event log: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		recorder = store
	}

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		printBanner(defs.Scenario.Title, defs.Scenario.Version, defs.Scenario.Author)
		c := cli.New(ss)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Recorder = recorder
		c.SessionID = sessionID
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		printBanner(defs.Scenario.Title, defs.Scenario.Version, defs.Scenario.Author)
		c := cli.New(ss)
		c.Trace = trace
		c.Recorder = recorder
		c.SessionID = sessionID
		c.Run()
		return
	}

	if err := tui.Run(ss, recorder, sessionID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printBanner(title, version, author string) {
	banner := title
	if version != "" {
		banner += " v" + version
	}
	if author != "" {
		banner += " by " + author
	}
	fmt.Printf("%s\n\n", banner)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
