package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/duelgrid/internal/combat"
)

func player(id uint, name string) *combat.Combatant {
	return &combat.Combatant{ID: id, Name: name, Kind: combat.KindPlayer}
}

func creature(id uint, name string, owner uint) *combat.Combatant {
	return &combat.Combatant{ID: id, Name: name, Kind: combat.KindCreature, OwnerID: owner}
}

func TestPairNeverMatchesAllies(t *testing.T) {
	p1 := player(1, "P1")
	p2 := player(2, "P2")
	pool := []*combat.Combatant{
		p1, creature(3, "Pet1a", 1), creature(4, "Pet1b", 1),
		p2, creature(5, "Pet2a", 2), creature(6, "Pet2b", 2),
	}

	pairs, unpaired := Pair(pool, Options{})
	assert.Len(t, pairs, 3)
	assert.Empty(t, unpaired)
	for _, pair := range pairs {
		assert.False(t, combat.Allied(pair[0], pair[1]),
			"paired allies %s vs %s", pair[0].Name, pair[1].Name)
	}
}

func TestPairCrossMatchesPlayersAndCreatures(t *testing.T) {
	p1 := player(1, "P1")
	pet1 := creature(2, "Pet1", 1)
	p2 := player(3, "P2")
	pet2 := creature(4, "Pet2", 3)

	pairs, unpaired := Pair([]*combat.Combatant{p1, pet1, pet2, p2}, Options{})
	require.Len(t, pairs, 2)
	assert.Empty(t, unpaired)

	// Greedy in encounter order: P1 skips its own pet and takes the other
	// player's, leaving that pet's owner for the remaining creature.
	assert.Equal(t, p1, pairs[0][0])
	assert.Equal(t, pet2, pairs[0][1])
	assert.Equal(t, pet1, pairs[1][0])
	assert.Equal(t, p2, pairs[1][1])
}

func TestPairPreferredKindPassRunsFirst(t *testing.T) {
	p1 := player(1, "P1")
	pet1 := creature(2, "Pet1", 1)
	p2 := player(3, "P2")
	pet2 := creature(4, "Pet2", 3)

	pairs, unpaired := Pair(
		[]*combat.Combatant{p1, pet1, p2, pet2},
		Options{PreferSameKind: true, PreferredKind: combat.KindPlayer},
	)
	require.Len(t, pairs, 2)
	assert.Empty(t, unpaired)
	assert.Equal(t, p1, pairs[0][0])
	assert.Equal(t, p2, pairs[0][1])
	assert.Equal(t, pet1, pairs[1][0])
	assert.Equal(t, pet2, pairs[1][1])
}

func TestPairReportsUnpairableCombatants(t *testing.T) {
	p1 := player(1, "P1")
	pet1 := creature(2, "Pet1", 1)

	pairs, unpaired := Pair([]*combat.Combatant{p1, pet1}, Options{})
	assert.Empty(t, pairs)
	require.Len(t, unpaired, 2)
	assert.Equal(t, p1, unpaired[0])
	assert.Equal(t, pet1, unpaired[1])
}

func TestPairOddPoolLeavesOneUnpaired(t *testing.T) {
	pool := []*combat.Combatant{player(1, "P1"), player(2, "P2"), player(3, "P3")}
	pairs, unpaired := Pair(pool, Options{})
	assert.Len(t, pairs, 1)
	require.Len(t, unpaired, 1)
	assert.Equal(t, uint(3), unpaired[0].ID)
}

func TestPairSkipsNilAndDefeated(t *testing.T) {
	down := player(2, "Down")
	down.Defeated = true
	pool := []*combat.Combatant{player(1, "P1"), nil, down, player(3, "P3")}

	pairs, unpaired := Pair(pool, Options{})
	require.Len(t, pairs, 1)
	assert.Empty(t, unpaired)
	assert.Equal(t, uint(1), pairs[0][0].ID)
	assert.Equal(t, uint(3), pairs[0][1].ID)
}
