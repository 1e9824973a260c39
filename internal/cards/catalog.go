package cards

import (
	"math/rand"
	"strings"

	"github.com/ericogr/duelgrid/internal/config"
)

// Catalog is the configured card list indexed by lowercase name. Cards are
// content to the orchestrator: it only ever asks for initiative speeds.
type Catalog struct {
	entries []config.CardEntry
	byName  map[string]config.CardEntry
}

func NewCatalog(entries []config.CardEntry) *Catalog {
	c := &Catalog{
		entries: entries,
		byName:  make(map[string]config.CardEntry, len(entries)),
	}
	for _, e := range entries {
		c.byName[strings.ToLower(e.Name)] = e
	}
	return c
}

// SpeedOf returns the cross-fight initiative speed of a card.
func (c *Catalog) SpeedOf(cardName string) (int, bool) {
	e, ok := c.byName[strings.ToLower(cardName)]
	if !ok {
		return 0, false
	}
	return e.Speed, true
}

// Lookup returns the full card definition.
func (c *Catalog) Lookup(cardName string) (config.CardEntry, bool) {
	e, ok := c.byName[strings.ToLower(cardName)]
	return e, ok
}

// Random picks a uniformly random card, used by draws.
func (c *Catalog) Random(rng *rand.Rand) config.CardEntry {
	return c.entries[rng.Intn(len(c.entries))]
}

// List returns the configured cards in config order.
func (c *Catalog) List() []config.CardEntry {
	out := make([]config.CardEntry, len(c.entries))
	copy(out, c.entries)
	return out
}
