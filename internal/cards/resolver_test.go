package cards

import (
	"context"
	"math/rand"
	"testing"

	"github.com/ericogr/duelgrid/internal/combat"
	"github.com/ericogr/duelgrid/internal/config"
)

func testCatalog() *Catalog {
	return NewCatalog([]config.CardEntry{
		{Name: "Strike", Speed: 5, Power: 4, Cost: 1},
		{Name: "Costly Blast", Speed: 3, Power: 8, Cost: 99},
	})
}

func strikePlay(actor, target uint) combat.QueuedPlay {
	return combat.QueuedPlay{FightID: 1, ActorID: actor, TargetID: target, CardName: "Strike", Speed: 5}
}

func newTestResolver(t *testing.T) (*Resolver, *Hands, *combat.Combatant, *combat.Combatant) {
	t.Helper()
	catalog := testCatalog()
	hands := NewHands(catalog, rand.New(rand.NewSource(1)))
	r := NewResolver(catalog, hands)
	actor := &combat.Combatant{ID: 1, Name: "A", HitPoints: 10, Energy: 3}
	target := &combat.Combatant{ID: 2, Name: "B", HitPoints: 10, Energy: 3}
	r.Register(actor)
	r.Register(target)
	return r, hands, actor, target
}

func giveCard(hands *Hands, combatantID uint, card string) {
	hands.mu.Lock()
	defer hands.mu.Unlock()
	hands.hands[combatantID] = append(hands.hands[combatantID], card)
}

func TestResolvePlayAppliesDamageAndCost(t *testing.T) {
	r, hands, actor, target := newTestResolver(t)
	giveCard(hands, actor.ID, "Strike")

	if err := r.ResolvePlay(context.Background(), strikePlay(actor.ID, target.ID)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.HitPoints != 6 {
		t.Fatalf("expected 6 hit points, got %d", target.HitPoints)
	}
	if actor.Energy != 2 {
		t.Fatalf("expected cost paid, energy is %d", actor.Energy)
	}
	if len(hands.HandOf(actor.ID)) != 0 {
		t.Fatalf("card must be consumed from hand")
	}
}

func TestResolvePlaySignalsDeathOnce(t *testing.T) {
	r, hands, actor, target := newTestResolver(t)
	target.HitPoints = 3
	giveCard(hands, actor.ID, "Strike")

	var deaths []uint
	r.BindDeathSink(func(id uint) { deaths = append(deaths, id) })

	if err := r.ResolvePlay(context.Background(), strikePlay(actor.ID, target.ID)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !target.Defeated {
		t.Fatalf("target at %d hit points must be defeated", target.HitPoints)
	}
	if len(deaths) != 1 || deaths[0] != target.ID {
		t.Fatalf("expected one death signal for target, got %v", deaths)
	}

	// Further plays against the defeated target fail without signaling again.
	giveCard(hands, actor.ID, "Strike")
	if err := r.ResolvePlay(context.Background(), strikePlay(actor.ID, target.ID)); err == nil {
		t.Fatalf("expected rejection of play against defeated target")
	}
	if len(deaths) != 1 {
		t.Fatalf("death signal must not repeat, got %v", deaths)
	}
}

func TestResolvePlayRejections(t *testing.T) {
	r, hands, actor, target := newTestResolver(t)

	if err := r.ResolvePlay(context.Background(), strikePlay(99, target.ID)); err == nil {
		t.Fatalf("expected rejection of unknown actor")
	}
	// Card not held.
	if err := r.ResolvePlay(context.Background(), strikePlay(actor.ID, target.ID)); err == nil {
		t.Fatalf("expected rejection when card not in hand")
	}
	// Unpayable cost: the card must stay in hand.
	giveCard(hands, actor.ID, "Costly Blast")
	play := strikePlay(actor.ID, target.ID)
	play.CardName = "Costly Blast"
	if err := r.ResolvePlay(context.Background(), play); err == nil {
		t.Fatalf("expected rejection of unpayable cost")
	}
	if len(hands.HandOf(actor.ID)) != 1 {
		t.Fatalf("failed play must not consume the card")
	}
	if target.HitPoints != 10 {
		t.Fatalf("failed play must not apply damage, got %d", target.HitPoints)
	}
}

func TestHandsDrawAndDiscard(t *testing.T) {
	catalog := testCatalog()
	hands := NewHands(catalog, rand.New(rand.NewSource(7)))
	c := &combat.Combatant{ID: 5, Name: "C"}

	hands.DrawCards(c, 3)
	if got := len(hands.HandOf(c.ID)); got != 3 {
		t.Fatalf("expected 3 cards, got %d", got)
	}
	for _, name := range hands.HandOf(c.ID) {
		if _, ok := catalog.Lookup(name); !ok {
			t.Fatalf("drew card %q not in catalog", name)
		}
	}

	hands.DiscardHand(c)
	if got := len(hands.HandOf(c.ID)); got != 0 {
		t.Fatalf("expected empty hand after discard, got %d", got)
	}

	hands.DrawCards(c, 2)
	hands.DespawnHand(c)
	if got := len(hands.HandOf(c.ID)); got != 0 {
		t.Fatalf("expected no hand after despawn, got %d", got)
	}
}

func TestConsumeIsCaseInsensitive(t *testing.T) {
	catalog := testCatalog()
	hands := NewHands(catalog, rand.New(rand.NewSource(1)))
	giveCard(hands, 1, "Strike")
	if !hands.consume(1, "strike") {
		t.Fatalf("consume must match card names case-insensitively")
	}
	if hands.consume(1, "strike") {
		t.Fatalf("consume must fail once the hand is empty")
	}
}

func TestEffectsAddEnergyToLivingOnly(t *testing.T) {
	e := NewEffects(3)
	alive := &combat.Combatant{ID: 1, Energy: 1}
	down := &combat.Combatant{ID: 2, Energy: 1, Defeated: true}

	e.ProcessStartOfRoundEffects(context.Background(), nil, alive)
	e.ProcessStartOfRoundEffects(context.Background(), nil, down)
	if alive.Energy != 4 {
		t.Fatalf("expected energy 4, got %d", alive.Energy)
	}
	if down.Energy != 1 {
		t.Fatalf("defeated combatant must not regain energy, got %d", down.Energy)
	}
}
