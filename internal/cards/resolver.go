package cards

import (
	"context"
	"fmt"
	"sync"

	"github.com/ericogr/duelgrid/internal/combat"
	"github.com/ericogr/duelgrid/internal/logging"
)

// DeathSink receives defeat signals produced while resolving plays. The
// orchestrator's HandleEntityDeath is bound here after construction.
type DeathSink func(combatantID uint)

// Resolver is the default PlayResolver: direct damage equal to the card's
// power, paid for by consuming the card from the actor's hand. Anything
// richer (buffs, multi-target effects) plugs in behind the same interface.
type Resolver struct {
	mu      sync.Mutex
	catalog *Catalog
	hands   *Hands
	byID    map[uint]*combat.Combatant
	deaths  DeathSink
}

func NewResolver(catalog *Catalog, hands *Hands) *Resolver {
	return &Resolver{
		catalog: catalog,
		hands:   hands,
		byID:    make(map[uint]*combat.Combatant),
	}
}

// Register makes a combatant targetable by queued plays.
func (r *Resolver) Register(c *combat.Combatant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
}

// BindDeathSink wires defeat signaling; done after the orchestrator exists
// because the two reference each other.
func (r *Resolver) BindDeathSink(sink DeathSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deaths = sink
}

func (r *Resolver) lookup(id uint) *combat.Combatant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

// ResolvePlay applies one play and returns when its effects are complete.
// Plays are executed strictly one at a time by the orchestrator, so no
// locking of combatant stats is needed beyond the resolver's own index.
func (r *Resolver) ResolvePlay(ctx context.Context, play combat.QueuedPlay) error {
	actor := r.lookup(play.ActorID)
	target := r.lookup(play.TargetID)
	if actor == nil || target == nil {
		return fmt.Errorf("unknown combatant in play (actor=%d target=%d)", play.ActorID, play.TargetID)
	}
	if actor.Defeated || target.Defeated {
		return fmt.Errorf("play against defeated combatant (actor=%d target=%d)", play.ActorID, play.TargetID)
	}
	card, ok := r.catalog.Lookup(play.CardName)
	if !ok {
		return fmt.Errorf("card %q not in catalog", play.CardName)
	}
	if actor.Energy < card.Cost {
		return fmt.Errorf("combatant %d cannot pay cost %d for %q", actor.ID, card.Cost, card.Name)
	}
	if !r.hands.consume(actor.ID, card.Name) {
		return fmt.Errorf("combatant %d no longer holds %q", actor.ID, card.Name)
	}
	actor.Energy -= card.Cost
	target.HitPoints -= card.Power

	logging.Info("play resolved", logging.Fields{
		"card":      card.Name,
		"actor_id":  actor.ID,
		"target_id": target.ID,
		"damage":    card.Power,
		"target_hp": target.HitPoints,
	})

	if target.HitPoints <= 0 {
		target.Defeated = true
		r.mu.Lock()
		sink := r.deaths
		r.mu.Unlock()
		if sink != nil {
			sink(target.ID)
		}
	}
	return nil
}
