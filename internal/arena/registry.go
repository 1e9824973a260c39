package arena

import "github.com/ericogr/duelgrid/internal/combat"

// fightRegistry tracks every active fight and indexes them by combatant.
// It carries no lock of its own: the orchestrator is its single writer and
// guards every access with its own mutex.
type fightRegistry struct {
	fights      map[uint]*combat.Fight
	byCombatant map[uint]*combat.Fight
	nextFightID uint
}

func newFightRegistry() *fightRegistry {
	return &fightRegistry{
		fights:      make(map[uint]*combat.Fight),
		byCombatant: make(map[uint]*combat.Fight),
	}
}

func (r *fightRegistry) add(left, right *combat.Combatant) *combat.Fight {
	r.nextFightID++
	f := &combat.Fight{
		ID:    r.nextFightID,
		Left:  left,
		Right: right,
		Phase: combat.PhaseNone,
	}
	r.fights[f.ID] = f
	r.byCombatant[left.ID] = f
	r.byCombatant[right.ID] = f
	return f
}

func (r *fightRegistry) remove(f *combat.Fight) {
	delete(r.fights, f.ID)
	delete(r.byCombatant, f.Left.ID)
	delete(r.byCombatant, f.Right.ID)
}

func (r *fightRegistry) get(fightID uint) *combat.Fight {
	return r.fights[fightID]
}

func (r *fightRegistry) findByCombatant(combatantID uint) *combat.Fight {
	return r.byCombatant[combatantID]
}

func (r *fightRegistry) size() int { return len(r.fights) }

// active returns the fights in ascending fight-ID order so iteration is
// deterministic regardless of map layout.
func (r *fightRegistry) active() []*combat.Fight {
	out := make([]*combat.Fight, 0, len(r.fights))
	for id := uint(1); id <= r.nextFightID && len(out) < len(r.fights); id++ {
		if f, ok := r.fights[id]; ok {
			out = append(out, f)
		}
	}
	return out
}

// allReady reports whether every active fight has requested end of turn.
// An empty registry is never "ready": there is nothing to execute.
func (r *fightRegistry) allReady() bool {
	if len(r.fights) == 0 {
		return false
	}
	for _, f := range r.fights {
		if !f.ReadyToEndTurn {
			return false
		}
	}
	return true
}

// resetReady clears every fight's readiness flag in one pass, so the next
// round starts clean before execution begins.
func (r *fightRegistry) resetReady() {
	for _, f := range r.fights {
		f.ReadyToEndTurn = false
	}
}
