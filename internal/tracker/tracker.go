package tracker

import (
	"sync"

	"github.com/ericogr/duelgrid/internal/combat"
)

// TurnStats is the per-combatant bookkeeping kept across a fight.
type TurnStats struct {
	TurnsStarted int
	TurnsEnded   int
	InTurn       bool
}

// Tracker is the default EntityTracker: it keeps turn counters per
// combatant so turn-scoped systems can tell whose turn window is open.
type Tracker struct {
	mu    sync.Mutex
	stats map[uint]*TurnStats
}

func New() *Tracker {
	return &Tracker{stats: make(map[uint]*TurnStats)}
}

func (t *Tracker) statsFor(id uint) *TurnStats {
	s, ok := t.stats[id]
	if !ok {
		s = &TurnStats{}
		t.stats[id] = s
	}
	return s
}

func (t *Tracker) ResetForNewFight(c *combat.Combatant) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats[c.ID] = &TurnStats{}
}

func (t *Tracker) ResetTurnData(c *combat.Combatant) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statsFor(c.ID).InTurn = false
}

func (t *Tracker) OnTurnStart(c *combat.Combatant) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.statsFor(c.ID)
	s.TurnsStarted++
	s.InTurn = true
}

func (t *Tracker) OnTurnEnd(c *combat.Combatant) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.statsFor(c.ID)
	s.TurnsEnded++
	s.InTurn = false
}

// StatsFor returns a copy of the combatant's counters.
func (t *Tracker) StatsFor(id uint) TurnStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *t.statsFor(id)
}
