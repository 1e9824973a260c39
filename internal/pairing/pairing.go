package pairing

import (
	"github.com/ericogr/duelgrid/internal/combat"
	"github.com/ericogr/duelgrid/internal/logging"
)

// Options tune the pairing pass. When PreferSameKind is set, combatants of
// PreferredKind are first matched against each other before the general
// pass runs over whatever remains.
type Options struct {
	PreferSameKind bool
	PreferredKind  combat.CombatantKind
}

// Pair assigns every combat-eligible combatant to at most one fight such
// that no pair are allies. Greedy in encounter order, O(n²); it does not
// backtrack, so it can leave combatants unpaired even when a complete
// matching exists. Unpairable combatants are returned (and logged), never
// silently dropped.
func Pair(pool []*combat.Combatant, opts Options) (pairs [][2]*combat.Combatant, unpaired []*combat.Combatant) {
	remaining := make([]*combat.Combatant, 0, len(pool))
	for _, c := range pool {
		if c == nil || c.Defeated {
			continue
		}
		remaining = append(remaining, c)
	}

	if opts.PreferSameKind && opts.PreferredKind != "" {
		pairs, remaining = pairPreferredKind(pairs, remaining, opts.PreferredKind)
	}

	for len(remaining) > 0 {
		head := remaining[0]
		matched := -1
		for i := 1; i < len(remaining); i++ {
			if !combat.Allied(head, remaining[i]) {
				matched = i
				break
			}
		}
		if matched == -1 {
			logging.Warn("combatant left unpaired: no non-ally candidate", logging.Fields{
				"combatant_id": head.ID,
				"name":         head.Name,
			})
			unpaired = append(unpaired, head)
			remaining = remaining[1:]
			continue
		}
		pairs = append(pairs, [2]*combat.Combatant{head, remaining[matched]})
		remaining = append(remaining[1:matched], remaining[matched+1:]...)
	}
	return pairs, unpaired
}

// pairPreferredKind greedily pairs combatants of the preferred kind against
// each other in encounter order, skipping ally pairs. Combatants it cannot
// place stay in the pool for the general pass.
func pairPreferredKind(pairs [][2]*combat.Combatant, pool []*combat.Combatant, kind combat.CombatantKind) ([][2]*combat.Combatant, []*combat.Combatant) {
	taken := make(map[uint]bool, len(pool))
	for i := 0; i < len(pool); i++ {
		a := pool[i]
		if taken[a.ID] || a.Kind != kind {
			continue
		}
		for j := i + 1; j < len(pool); j++ {
			b := pool[j]
			if taken[b.ID] || b.Kind != kind || combat.Allied(a, b) {
				continue
			}
			pairs = append(pairs, [2]*combat.Combatant{a, b})
			taken[a.ID] = true
			taken[b.ID] = true
			break
		}
	}
	rest := pool[:0]
	for _, c := range pool {
		if !taken[c.ID] {
			rest = append(rest, c)
		}
	}
	return pairs, rest
}
