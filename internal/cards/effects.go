package cards

import (
	"context"

	"github.com/ericogr/duelgrid/internal/combat"
)

// Effects is the default EffectHandler: a flat energy regen at the start of
// every round. It runs before the fight's phase opens for play.
type Effects struct {
	EnergyPerRound int
}

func NewEffects(energyPerRound int) *Effects {
	return &Effects{EnergyPerRound: energyPerRound}
}

func (e *Effects) ProcessStartOfRoundEffects(ctx context.Context, fight *combat.Fight, c *combat.Combatant) {
	if c.Defeated {
		return
	}
	c.Energy += e.EnergyPerRound
}
