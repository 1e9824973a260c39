package arena

import (
	"context"

	"github.com/ericogr/duelgrid/internal/combat"
)

// EntityTracker receives per-combatant turn and round bookkeeping hooks.
// OnTurnEnd for a superseded phase always fires strictly before OnTurnStart
// for the phase replacing it.
type EntityTracker interface {
	ResetForNewFight(c *combat.Combatant)
	ResetTurnData(c *combat.Combatant)
	OnTurnStart(c *combat.Combatant)
	OnTurnEnd(c *combat.Combatant)
}

// EffectHandler applies start-of-round passive effects for one side of a
// fight. It runs before the fight's phase is set to SharedTurn.
type EffectHandler interface {
	ProcessStartOfRoundEffects(ctx context.Context, fight *combat.Fight, c *combat.Combatant)
}

// HandManager owns card hands on behalf of the orchestrator.
type HandManager interface {
	DrawCards(c *combat.Combatant, n int)
	DiscardHand(c *combat.Combatant)
	// DespawnHand removes every card a retired combatant still owns. It
	// must be cheap and non-blocking: the registry lock is held.
	DespawnHand(c *combat.Combatant)
	// IsDiscardInProgress reports whether any discard is still settling.
	// The round pipeline holds "server discard complete" until it clears.
	IsDiscardInProgress() bool
}

// PlayResolver applies one queued play. It returns once the play's effects
// (possibly asynchronous against downstream systems) have completed, so the
// orchestrator can guarantee strictly sequential execution.
type PlayResolver interface {
	ResolvePlay(ctx context.Context, play combat.QueuedPlay) error
}

// CardInfo resolves the initiative speed of a card at queue time.
type CardInfo interface {
	SpeedOf(cardName string) (int, bool)
}

// Notifier pushes authoritative state changes to connected clients. Clients
// hold rendering-level mirrors only; these calls are their refresh signal.
// Phase transitions carry the round generation; clients echo it back in
// their acknowledgments so acks from a previous round cannot satisfy the
// current wait.
type Notifier interface {
	NotifyRoundStarted(fightID, leftID, rightID uint, round int)
	NotifyWaitingState(combatantID uint, waiting bool)
	NotifyPhaseTransition(phase combat.TransitionPhase, gen uint64)
	NotifyFightEnded(fightID, winnerID uint)
	NotifyCombatConcluded(summary combat.CombatSummary)
}

// ClientRoster reports the client connections alive right now. Each
// rendezvous phase snapshots this set when it begins; later connects are
// not waited on.
type ClientRoster interface {
	ActiveClientIDs() []string
}

// ResultSink receives fight outcomes for persistence and the final summary
// when the registry empties.
type ResultSink interface {
	OnFightEnded(result combat.FightResult)
	OnCombatConcluded(summary combat.CombatSummary)
}
