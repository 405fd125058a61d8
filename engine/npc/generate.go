package npc

import (
	"github.com/google/uuid"

	"github.com/nathoo/hauntcore/types"
)

var generatedNames = []string{
	"Mara", "Theo", "June", "Silas", "Priya", "Owen",
	"Nadia", "Felix", "Iris", "Cole", "Wren", "Marcus",
}

var generatedBackgrounds = []string{
	"Student home for the holidays.",
	"Office worker who stayed too late.",
	"Night guard on the building's rotation.",
	"Cleaner who keeps the place presentable.",
	"Journalist chasing a local ghost story.",
	"Urban explorer looking for a thrill.",
	"Neighbor who came over to borrow something.",
	"Courier whose last delivery was this address.",
}

var generatedItems = []string{"flashlight", "phone", "key", "medicine", "knife", "rope"}

// Generate builds a random NPC placed at the given location. Name, vitals,
// personality and 0 to 2 starting items are drawn from the session RNG so
// identical seeds produce the same cast.
func Generate(location string, rng RNG) types.NPC {
	n := types.NPC{
		ID:         uuid.NewString(),
		Name:       generatedNames[randInt(rng, 0, len(generatedNames)-1)],
		Background: generatedBackgrounds[randInt(rng, 0, len(generatedBackgrounds)-1)],
		HP:         randInt(rng, 80, 100),
		Sanity:     randInt(rng, 70, 100),
		Stamina:    randInt(rng, 80, 100),
		Location:   location,
		Status:     types.StatusNormal,
		Personality: types.Personality{
			Rationality:   randInt(rng, 3, 8),
			Courage:       randInt(rng, 2, 8),
			Curiosity:     randInt(rng, 3, 9),
			Sociability:   randInt(rng, 2, 8),
			Paranoia:      randInt(rng, 1, 6),
			Observation:   randInt(rng, 2, 9),
			LoopholeSense: randInt(rng, 1, 8),
		},
	}

	for _, item := range sample(generatedItems, randInt(rng, 0, 2), rng) {
		n.Inventory = append(n.Inventory, item)
	}
	return n
}

// randInt draws an integer in [lo, hi].
func randInt(rng RNG, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	v := lo + int(rng.Float()*float64(hi-lo+1))
	if v > hi {
		v = hi
	}
	return v
}

// sample picks n distinct entries from pool.
func sample(pool []string, n int, rng RNG) []string {
	if n <= 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}
	rest := append([]string(nil), pool...)
	var out []string
	for i := 0; i < n; i++ {
		j := randInt(rng, 0, len(rest)-1)
		out = append(out, rest[j])
		rest = append(rest[:j], rest[j+1:]...)
	}
	return out
}
