package hub

import "github.com/ericogr/duelgrid/internal/combat"

// inboundMessage is the envelope for every client-to-server message.
type inboundMessage struct {
	Type        string `json:"type"`
	CombatantID uint   `json:"combatant_id,omitempty"`
	ActorID     uint   `json:"actor_id,omitempty"`
	TargetID    uint   `json:"target_id,omitempty"`
	Card        string `json:"card,omitempty"`
	Phase       string `json:"phase,omitempty"`
	// Generation echoes the value carried by the phase_transition broadcast
	// being acknowledged.
	Generation uint64 `json:"generation,omitempty"`
}

// outboundMessage is the envelope for every server-to-client broadcast.
type outboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type roundStartedPayload struct {
	FightID uint `json:"fight_id"`
	LeftID  uint `json:"left_id"`
	RightID uint `json:"right_id"`
	Round   int  `json:"round"`
}

type waitingStatePayload struct {
	CombatantID uint `json:"combatant_id"`
	Waiting     bool `json:"waiting"`
}

type phaseTransitionPayload struct {
	Phase      combat.TransitionPhase `json:"phase"`
	Generation uint64                 `json:"generation"`
}

type fightEndedPayload struct {
	FightID  uint `json:"fight_id"`
	WinnerID uint `json:"winner_id"`
}

type combatConcludedPayload struct {
	Summary combat.CombatSummary `json:"summary"`
}
