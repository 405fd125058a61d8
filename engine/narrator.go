package engine

import (
	"fmt"
	"strings"

	"github.com/nathoo/hauntcore/types"
)

// Narrator turns a turn's structured events into prose. The engine itself
// never formats text; front-ends pick a narrator.
type Narrator interface {
	Narrate(result TurnResult) string
}

// StubNarrator is a deterministic, template-free narrator. It reads the
// event stream literally, which is what you want in tests and scripted runs.
type StubNarrator struct{}

// Narrate renders one line per notable event.
func (StubNarrator) Narrate(result TurnResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turn %d, day %d, %s.", result.Turn, result.Day, result.Clock)
	for _, ev := range result.Events {
		line := describeEvent(ev)
		if line == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

func describeEvent(ev types.Event) string {
	switch ev.Type {
	case "moved":
		return fmt.Sprintf("%s moves from %v to %v.", ev.Actor, ev.Details["from"], ev.Details["to"])
	case "ran":
		return fmt.Sprintf("%s runs from %v to %v.", ev.Actor, ev.Details["from"], ev.Details["to"])
	case "talked":
		return fmt.Sprintf("%s talks with %v.", ev.Actor, ev.Details["with"])
	case "investigated":
		return fmt.Sprintf("%s pokes around %s.", ev.Actor, ev.Location)
	case "hid":
		return fmt.Sprintf("%s hides in %s.", ev.Actor, ev.Location)
	case "rested":
		return fmt.Sprintf("%s catches a breath.", ev.Actor)
	case "collapsed":
		return fmt.Sprintf("%s collapses from exhaustion.", ev.Actor)
	case "rule_triggered":
		return fmt.Sprintf("Something answers %s in %s. (%v)", ev.Actor, ev.Location, ev.Details["rule_name"])
	case "npc_death":
		return fmt.Sprintf("%s dies in %s: %v.", ev.Actor, ev.Location, ev.Details["cause"])
	case "sanity_loss":
		return fmt.Sprintf("%s's grip on reality slips.", ev.Actor)
	case "fear_gain":
		return fmt.Sprintf("Dread settles on %s.", ev.Actor)
	case "teleported":
		return fmt.Sprintf("%s is suddenly elsewhere: %v.", ev.Actor, ev.Details["to"])
	case "strange_sound":
		return fmt.Sprintf("A %v rings out near %s.", ev.Details["sound"], ev.Location)
	case "blood_message":
		return fmt.Sprintf("Words appear on a wall of %s, written in something dark.", ev.Location)
	case "light_flicker":
		return fmt.Sprintf("The lights in %s stutter.", ev.Location)
	case "temperature_drop":
		return fmt.Sprintf("The air in %s turns cold.", ev.Location)
	case "door_lock":
		return fmt.Sprintf("Every door in %s slams shut.", ev.Location)
	case "item_appear":
		return fmt.Sprintf("Something new is lying in %s.", ev.Location)
	case "loophole_discovered":
		return fmt.Sprintf("%s notices a flaw in the pattern.", ev.Actor)
	case "effect_faded":
		return ""
	default:
		return ""
	}
}
