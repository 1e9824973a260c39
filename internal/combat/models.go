package combat

// CombatantKind distinguishes human-controlled fighters from the creatures
// (pets) they own. Pairing can be configured to prefer like-vs-like.
type CombatantKind string

const (
	KindPlayer   CombatantKind = "player"
	KindCreature CombatantKind = "creature"
)

// Combatant is a participant in combat. The orchestrator treats it as a
// capability handle: identity, ownership (for ally detection) and a hand of
// cards managed by the hand collaborator. Stats are only touched by the
// play resolver.
type Combatant struct {
	ID      uint          `json:"id"`
	Name    string        `json:"name"`
	Kind    CombatantKind `json:"kind"`
	// OwnerID is zero for self-owned combatants (players). Creatures carry
	// the ID of the player combatant that owns them.
	OwnerID uint `json:"owner_id"`

	// PlayerUUID ties the combatant back to the session participant that
	// controls it (players control their own creatures too).
	PlayerUUID string `json:"player_uuid"`

	HitPoints int  `json:"hit_points"`
	Energy    int  `json:"energy"`
	Speed     int  `json:"speed"`
	Defeated  bool `json:"defeated"`
}

// Allied reports whether two combatants must never fight each other:
// the same combatant, one owning the other, or both owned by the same
// third combatant.
func Allied(a, b *Combatant) bool {
	if a == nil || b == nil {
		return false
	}
	if a.ID == b.ID {
		return true
	}
	if a.OwnerID == b.ID || b.OwnerID == a.ID {
		return true
	}
	if a.OwnerID != 0 && a.OwnerID == b.OwnerID {
		return true
	}
	return false
}

// TurnPhase enumerates who may act within a fight's current round.
type TurnPhase int

const (
	PhaseNone TurnPhase = iota
	PhaseLeftTurn
	PhaseRightTurn
	PhaseSharedTurn
)

func (p TurnPhase) String() string {
	switch p {
	case PhaseLeftTurn:
		return "left_turn"
	case PhaseRightTurn:
		return "right_turn"
	case PhaseSharedTurn:
		return "shared_turn"
	default:
		return "none"
	}
}

// grants reports whether the phase gives the given side action rights.
func (p TurnPhase) grants(left bool) bool {
	switch p {
	case PhaseSharedTurn:
		return true
	case PhaseLeftTurn:
		return left
	case PhaseRightTurn:
		return !left
	default:
		return false
	}
}

// GrantsLeft reports whether the left side may act in this phase.
func (p TurnPhase) GrantsLeft() bool { return p.grants(true) }

// GrantsRight reports whether the right side may act in this phase.
func (p TurnPhase) GrantsRight() bool { return p.grants(false) }

// Fight is one active 1-vs-1 encounter plus its authoritative per-fight
// state. The two combatants are never allies (enforced by pairing).
type Fight struct {
	ID    uint       `json:"id"`
	Left  *Combatant `json:"left"`
	Right *Combatant `json:"right"`

	// Round starts at 0 on creation and is incremented at the start of
	// every round, so the first played round is round 1. It never resets.
	Round          int       `json:"round"`
	Phase          TurnPhase `json:"phase"`
	ReadyToEndTurn bool      `json:"ready_to_end_turn"`
}

// Contains reports whether the combatant fights on either side.
func (f *Fight) Contains(combatantID uint) bool {
	return f.Left.ID == combatantID || f.Right.ID == combatantID
}

// Opponent returns the other side of the fight, or nil when the combatant
// is not part of it.
func (f *Fight) Opponent(combatantID uint) *Combatant {
	switch combatantID {
	case f.Left.ID:
		return f.Right
	case f.Right.ID:
		return f.Left
	default:
		return nil
	}
}

// QueuedPlay is one card play waiting for the global execution pass.
// Ordering across all fights: Speed descending, then Seq (submission order)
// ascending, then ActorID ascending as a stable tiebreak.
type QueuedPlay struct {
	Seq      uint64 `json:"seq"`
	FightID  uint   `json:"fight_id"`
	ActorID  uint   `json:"actor_id"`
	TargetID uint   `json:"target_id"`
	CardName string `json:"card_name"`
	Speed    int    `json:"speed"`
}

// AckPhase names the two client-completion rendezvous phases.
type AckPhase string

const (
	AckCardExecution AckPhase = "card_execution"
	AckHandDiscard   AckPhase = "hand_discard"
)

// TransitionPhase names the round-boundary broadcasts sent to clients.
type TransitionPhase string

const (
	TransitionCardExecutionStarting   TransitionPhase = "card_execution_starting"
	TransitionServerExecutionComplete TransitionPhase = "server_execution_complete"
	TransitionHandDiscardStarting     TransitionPhase = "hand_discard_starting"
	TransitionServerDiscardComplete   TransitionPhase = "server_discard_complete"
)

// FightResult is emitted exactly once when a fight is retired.
type FightResult struct {
	FightID    uint   `json:"fight_id"`
	WinnerID   uint   `json:"winner_id"`
	WinnerUUID string `json:"winner_uuid"`
	WinnerName string `json:"winner_name"`
	LoserUUID  string `json:"loser_uuid"`
	LoserName  string `json:"loser_name"`
	Rounds     int    `json:"rounds"`
}

// CombatSummary is emitted once when the last fight is retired.
type CombatSummary struct {
	Results []FightResult `json:"results"`
}
