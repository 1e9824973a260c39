package cards

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/ericogr/duelgrid/internal/combat"
	"github.com/ericogr/duelgrid/internal/logging"
)

// Hands is the default HandManager: server-side hands drawn from the
// catalog. Clients only ever see their own mirror of these.
type Hands struct {
	mu         sync.Mutex
	catalog    *Catalog
	rng        *rand.Rand
	hands      map[uint][]string
	discarding int
}

func NewHands(catalog *Catalog, rng *rand.Rand) *Hands {
	return &Hands{
		catalog: catalog,
		rng:     rng,
		hands:   make(map[uint][]string),
	}
}

func (h *Hands) DrawCards(c *combat.Combatant, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := 0; i < n; i++ {
		card := h.catalog.Random(h.rng)
		h.hands[c.ID] = append(h.hands[c.ID], card.Name)
	}
	logging.Info("cards drawn", logging.Fields{
		"combatant_id": c.ID,
		"count":        n,
		"hand_size":    len(h.hands[c.ID]),
	})
}

// DiscardHand clears the combatant's hand. The in-progress counter spans the
// whole call so concurrent observers see the discard window, not just its
// end state.
func (h *Hands) DiscardHand(c *combat.Combatant) {
	h.mu.Lock()
	h.discarding++
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.discarding--
		h.mu.Unlock()
	}()

	h.mu.Lock()
	h.hands[c.ID] = nil
	h.mu.Unlock()
}

func (h *Hands) DespawnHand(c *combat.Combatant) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.hands, c.ID)
}

func (h *Hands) IsDiscardInProgress() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.discarding > 0
}

// HandOf returns a copy of the combatant's current hand.
func (h *Hands) HandOf(combatantID uint) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.hands[combatantID]...)
}

// consume removes one instance of the named card from the hand. It reports
// whether the combatant actually held the card.
func (h *Hands) consume(combatantID uint, cardName string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	hand := h.hands[combatantID]
	for i, name := range hand {
		if strings.EqualFold(name, cardName) {
			h.hands[combatantID] = append(hand[:i], hand[i+1:]...)
			return true
		}
	}
	return false
}
