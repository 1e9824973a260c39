package tracker

import (
	"testing"

	"github.com/ericogr/duelgrid/internal/combat"
)

func TestTrackerCountsTurnWindows(t *testing.T) {
	tr := New()
	c := &combat.Combatant{ID: 1, Name: "A"}

	tr.OnTurnStart(c)
	if s := tr.StatsFor(1); s.TurnsStarted != 1 || !s.InTurn {
		t.Fatalf("unexpected stats after start: %+v", s)
	}
	tr.OnTurnEnd(c)
	if s := tr.StatsFor(1); s.TurnsEnded != 1 || s.InTurn {
		t.Fatalf("unexpected stats after end: %+v", s)
	}
}

func TestResetForNewFightClearsCounters(t *testing.T) {
	tr := New()
	c := &combat.Combatant{ID: 1, Name: "A"}

	tr.OnTurnStart(c)
	tr.OnTurnEnd(c)
	tr.ResetForNewFight(c)
	if s := tr.StatsFor(1); s.TurnsStarted != 0 || s.TurnsEnded != 0 || s.InTurn {
		t.Fatalf("counters must reset for a new fight: %+v", s)
	}
}

func TestResetTurnDataClosesOpenWindow(t *testing.T) {
	tr := New()
	c := &combat.Combatant{ID: 1, Name: "A"}

	tr.OnTurnStart(c)
	tr.ResetTurnData(c)
	if s := tr.StatsFor(1); s.InTurn {
		t.Fatalf("turn window must close on round reset: %+v", s)
	}
	if s := tr.StatsFor(1); s.TurnsStarted != 1 {
		t.Fatalf("round reset must not erase counters: %+v", s)
	}
}
