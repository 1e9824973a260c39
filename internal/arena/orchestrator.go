package arena

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ericogr/duelgrid/internal/combat"
	"github.com/ericogr/duelgrid/internal/constants"
	"github.com/ericogr/duelgrid/internal/logging"
	"github.com/ericogr/duelgrid/internal/pairing"
)

var (
	ErrMissingCollaborator = errors.New("orchestrator collaborator is missing")
	ErrAlreadyStarted      = errors.New("combat already started")
	ErrNoActiveFight       = errors.New("combatant has no active fight")
	ErrOutOfPhase          = errors.New("request not valid in current turn phase")
	ErrUnknownCard         = errors.New("card is not in the catalog")
	ErrNoWaitInProgress    = errors.New("no rendezvous wait in progress")
)

// Options wires every collaborator the orchestrator depends on. All
// references are injected here; nothing is discovered at runtime. A missing
// collaborator is a configuration error that blocks combat entirely.
type Options struct {
	Tracker  EntityTracker
	Effects  EffectHandler
	Hands    HandManager
	Resolver PlayResolver
	Cards    CardInfo
	Notifier Notifier
	Roster   ClientRoster
	Results  ResultSink

	CardsPerDraw      int
	RendezvousTimeout time.Duration
	Pairing           pairing.Options
}

// Orchestrator owns the fight registry, the readiness barrier, the global
// play queue and the rendezvous wait sets. It is the single writer for all
// of them: every mutation happens under mu, and the round-boundary pipeline
// runs on one goroutine per trigger.
type Orchestrator struct {
	mu   sync.Mutex
	opts Options

	reg   *fightRegistry
	queue *playQueue

	started      bool
	initialDraws bool
	executing    bool
	gen          uint64
	wait         *ackWait

	roundStartedAt map[uint]time.Time

	results   []combat.FightResult
	concluded bool
}

// New validates the collaborator set and returns a ready orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Tracker == nil || opts.Effects == nil || opts.Hands == nil ||
		opts.Resolver == nil || opts.Cards == nil || opts.Notifier == nil ||
		opts.Roster == nil || opts.Results == nil {
		return nil, ErrMissingCollaborator
	}
	if opts.CardsPerDraw <= 0 {
		opts.CardsPerDraw = 3
	}
	if opts.RendezvousTimeout <= 0 {
		opts.RendezvousTimeout = 10 * time.Second
	}
	return &Orchestrator{
		opts:           opts,
		reg:            newFightRegistry(),
		queue:          newPlayQueue(),
		roundStartedAt: make(map[uint]time.Time),
	}, nil
}

// StartAllFights pairs the given combatants and starts round 1 for every
// resulting fight. Combatants the pairing pass could not place are logged
// by the pairing package and reported back to the caller.
func (o *Orchestrator) StartAllFights(ctx context.Context, combatants []*combat.Combatant) ([]*combat.Combatant, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return nil, ErrAlreadyStarted
	}

	pairs, unpaired := pairing.Pair(combatants, o.opts.Pairing)
	for _, pair := range pairs {
		o.opts.Tracker.ResetForNewFight(pair[0])
		o.opts.Tracker.ResetForNewFight(pair[1])
		o.reg.add(pair[0], pair[1])
	}
	o.started = true

	for _, f := range o.reg.active() {
		o.startNewRoundLocked(ctx, f)
	}
	logging.Info("combat started", logging.Fields{
		"fights":   o.reg.size(),
		"unpaired": len(unpaired),
	})
	return unpaired, nil
}

// AddFight registers one extra fight mid-combat (re-pairing winners after
// their opponents died) and starts its first round. The new fight joins the
// readiness barrier with a clear flag, so its arrival can never trip an
// in-progress wait for the older fights.
func (o *Orchestrator) AddFight(ctx context.Context, left, right *combat.Combatant) (uint, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.started {
		return 0, ErrNoActiveFight
	}
	if combat.Allied(left, right) {
		return 0, errors.New("refusing to pair allies")
	}
	if o.reg.findByCombatant(left.ID) != nil || o.reg.findByCombatant(right.ID) != nil {
		return 0, ErrAlreadyStarted
	}
	o.opts.Tracker.ResetForNewFight(left)
	o.opts.Tracker.ResetForNewFight(right)
	f := o.reg.add(left, right)
	o.startNewRoundLocked(ctx, f)
	return f.ID, nil
}

// startNewRoundLocked advances one fight into its next round. Round-start
// processing (trackers, passive effects, draws) always completes before the
// phase flips to SharedTurn, so no client can act on a half-started round.
func (o *Orchestrator) startNewRoundLocked(ctx context.Context, f *combat.Fight) {
	f.Round++
	f.ReadyToEndTurn = false
	o.roundStartedAt[f.ID] = time.Now()

	o.opts.Tracker.ResetTurnData(f.Left)
	o.opts.Tracker.ResetTurnData(f.Right)

	o.opts.Effects.ProcessStartOfRoundEffects(ctx, f, f.Left)
	o.opts.Effects.ProcessStartOfRoundEffects(ctx, f, f.Right)

	// Round 1 draws are deferred until the scene-ready signal arrives, so
	// initial hand timing is decoupled from round-start timing. Fights
	// added after that signal draw immediately.
	if f.Round > 1 || o.initialDraws {
		o.opts.Hands.DrawCards(f.Left, o.opts.CardsPerDraw)
		o.opts.Hands.DrawCards(f.Right, o.opts.CardsPerDraw)
	}

	o.setTurnLocked(f, combat.PhaseSharedTurn)
	o.opts.Notifier.NotifyRoundStarted(f.ID, f.Left.ID, f.Right.ID, f.Round)
}

// setTurnLocked transitions a fight's phase, firing OnTurnEnd for every
// side losing action rights strictly before OnTurnStart fires for any side
// gaining them. Turn-scoped effects rely on this never interleaving.
func (o *Orchestrator) setTurnLocked(f *combat.Fight, phase combat.TurnPhase) {
	old := f.Phase
	if old == phase {
		return
	}
	if old.GrantsLeft() && !phase.GrantsLeft() {
		o.opts.Tracker.OnTurnEnd(f.Left)
	}
	if old.GrantsRight() && !phase.GrantsRight() {
		o.opts.Tracker.OnTurnEnd(f.Right)
	}
	if !old.GrantsLeft() && phase.GrantsLeft() {
		o.opts.Tracker.OnTurnStart(f.Left)
	}
	if !old.GrantsRight() && phase.GrantsRight() {
		o.opts.Tracker.OnTurnStart(f.Right)
	}
	f.Phase = phase
}

// SetTurn exposes the phase transition for single-sided turn modes.
func (o *Orchestrator) SetTurn(fightID uint, phase combat.TurnPhase) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	f := o.reg.get(fightID)
	if f == nil {
		return ErrNoActiveFight
	}
	o.setTurnLocked(f, phase)
	return nil
}

// SceneReady performs the deferred round-1 draws. The first signal wins;
// repeats are idempotent no-ops.
func (o *Orchestrator) SceneReady() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.initialDraws || !o.started {
		return
	}
	o.initialDraws = true
	for _, f := range o.reg.active() {
		o.opts.Hands.DrawCards(f.Left, o.opts.CardsPerDraw)
		o.opts.Hands.DrawCards(f.Right, o.opts.CardsPerDraw)
	}
	logging.Info("scene ready: initial hands drawn", logging.Fields{"fights": o.reg.size()})
}

// QueuePlay stages one card play for the next global execution pass.
// Players may keep queueing while waiting on slower fights; only the
// execution pass itself locks submissions out.
func (o *Orchestrator) QueuePlay(actorID, targetID uint, cardName string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	f := o.reg.findByCombatant(actorID)
	if f == nil {
		logging.Warn("queue_play for combatant with no active fight", logging.Fields{
			constants.LogFieldCombatantID: actorID,
		})
		return ErrNoActiveFight
	}
	if o.executing {
		logging.Warn("queue_play rejected: round is executing", logging.Fields{
			constants.LogFieldCombatantID: actorID,
		})
		return ErrOutOfPhase
	}
	left := f.Left.ID == actorID
	if (left && !f.Phase.GrantsLeft()) || (!left && !f.Phase.GrantsRight()) {
		logging.Warn("queue_play out of phase", logging.Fields{
			constants.LogFieldCombatantID: actorID,
			constants.LogFieldPhase:       f.Phase.String(),
		})
		return ErrOutOfPhase
	}
	speed, ok := o.opts.Cards.SpeedOf(cardName)
	if !ok {
		logging.Warn("queue_play for unknown card", logging.Fields{
			constants.LogFieldCombatantID: actorID,
			"card":                        cardName,
		})
		return ErrUnknownCard
	}
	o.queue.add(combat.QueuedPlay{
		FightID:  f.ID,
		ActorID:  actorID,
		TargetID: targetID,
		CardName: cardName,
		Speed:    speed,
	})
	return nil
}

// RequestEndTurn marks the requesting combatant's fight ready to end its
// turn. Rejected (logged, no state change) outside a phase that grants the
// requester action rights. When every active fight is ready the execution
// phase triggers exactly once.
func (o *Orchestrator) RequestEndTurn(combatantID uint) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	f := o.reg.findByCombatant(combatantID)
	if f == nil {
		// The fight may already have been retired by a concurrent death
		// event; callers tolerate idempotent retries.
		logging.Warn("end_turn for combatant with no active fight", logging.Fields{
			constants.LogFieldCombatantID: combatantID,
		})
		return ErrNoActiveFight
	}
	left := f.Left.ID == combatantID
	if (left && !f.Phase.GrantsLeft()) || (!left && !f.Phase.GrantsRight()) {
		logging.Warn("end_turn out of phase", logging.Fields{
			constants.LogFieldCombatantID: combatantID,
			constants.LogFieldFightID:     f.ID,
			constants.LogFieldPhase:       f.Phase.String(),
		})
		return ErrOutOfPhase
	}
	if !f.ReadyToEndTurn {
		f.ReadyToEndTurn = true
		o.opts.Notifier.NotifyWaitingState(combatantID, true)
	}
	o.checkAllReadyLocked()
	return nil
}

// AutoEndStalledTurns force-readies fights whose planning phase has been
// open longer than maxAge. Called periodically by the session's deadline
// scanner so one absent player cannot stall the round boundary forever.
func (o *Orchestrator) AutoEndStalledTurns(maxAge time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.executing || maxAge <= 0 {
		return
	}
	now := time.Now()
	for _, f := range o.reg.active() {
		if f.ReadyToEndTurn || f.Phase != combat.PhaseSharedTurn {
			continue
		}
		started, ok := o.roundStartedAt[f.ID]
		if !ok || now.Sub(started) < maxAge {
			continue
		}
		logging.Warn("auto-ending stalled turn", logging.Fields{
			constants.LogFieldFightID: f.ID,
			constants.LogFieldRound:   f.Round,
		})
		f.ReadyToEndTurn = true
	}
	o.checkAllReadyLocked()
}

// checkAllReadyLocked trips the barrier: when every active fight is ready,
// all readiness flags reset atomically before execution starts, so a play
// queued mid-execution can never be attributed to the wrong round.
func (o *Orchestrator) checkAllReadyLocked() {
	if o.executing || !o.reg.allReady() {
		return
	}
	o.reg.resetReady()
	// Planning closes for everyone at once: turn windows end here, waiting
	// indicators clear, and the next round's SharedTurn reopens them.
	for _, f := range o.reg.active() {
		o.setTurnLocked(f, combat.PhaseNone)
		o.opts.Notifier.NotifyWaitingState(f.Left.ID, false)
		o.opts.Notifier.NotifyWaitingState(f.Right.ID, false)
	}
	o.executing = true
	o.gen++
	go o.runRoundBoundary(o.gen)
}

// runRoundBoundary is the round pipeline: execute the global queue, hold
// the two client rendezvous, discard hands, then start the next round for
// every surviving fight. It runs on its own goroutine, once per trigger.
func (o *Orchestrator) runRoundBoundary(gen uint64) {
	ctx := context.Background()

	o.opts.Notifier.NotifyPhaseTransition(combat.TransitionCardExecutionStarting, gen)
	o.executeQueuedPlays(ctx)

	// The wait set must snapshot the roster before clients hear "complete",
	// or a fast client's acknowledgment would race the wait's creation.
	w := o.beginWait(combat.AckCardExecution, gen)
	o.opts.Notifier.NotifyPhaseTransition(combat.TransitionServerExecutionComplete, gen)
	o.awaitAcks(w)

	o.opts.Notifier.NotifyPhaseTransition(combat.TransitionHandDiscardStarting, gen)
	o.discardAllHands()
	o.awaitDiscardSettled()
	w = o.beginWait(combat.AckHandDiscard, gen)
	o.opts.Notifier.NotifyPhaseTransition(combat.TransitionServerDiscardComplete, gen)
	o.awaitAcks(w)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.executing = false
	for _, f := range o.reg.active() {
		o.startNewRoundLocked(ctx, f)
	}
	// Readiness may already be complete again (auto-ended fights, or a
	// death that shrank the registry while we were waiting).
	o.checkAllReadyLocked()
}

// executeQueuedPlays drains the global queue and applies each play in
// initiative order, sequentially. A play whose fight, actor or target has
// been invalidated since submission is skipped with a warning rather than
// aborting the batch.
func (o *Orchestrator) executeQueuedPlays(ctx context.Context) {
	o.mu.Lock()
	plays := o.queue.drainSorted()
	o.mu.Unlock()

	for _, play := range plays {
		o.mu.Lock()
		f := o.reg.get(play.FightID)
		valid := f != nil && f.Contains(play.ActorID) &&
			!f.Left.Defeated && !f.Right.Defeated
		o.mu.Unlock()
		if !valid {
			logging.Warn("skipping invalidated play", logging.Fields{
				constants.LogFieldFightID:     play.FightID,
				constants.LogFieldCombatantID: play.ActorID,
				"card":                        play.CardName,
			})
			continue
		}
		// Resolution happens outside the lock: the resolver may signal a
		// death back into HandleEntityDeath, and its effects may block.
		if err := o.opts.Resolver.ResolvePlay(ctx, play); err != nil {
			logging.Warn("play resolution failed; continuing batch", logging.Fields{
				constants.LogFieldFightID: play.FightID,
				"card":                    play.CardName,
				"error":                   err.Error(),
			})
		}
	}
}

// discardAllHands performs the server-side discard for every combatant
// still in an active fight.
func (o *Orchestrator) discardAllHands() {
	o.mu.Lock()
	living := make([]*combat.Combatant, 0, o.reg.size()*2)
	for _, f := range o.reg.active() {
		living = append(living, f.Left, f.Right)
	}
	o.mu.Unlock()
	for _, c := range living {
		o.opts.Hands.DiscardHand(c)
	}
}

// awaitDiscardSettled holds the pipeline while the hand manager still
// reports a discard in flight. A HandManager may complete discards
// asynchronously against downstream systems; "server discard complete" must
// not be broadcast before they settle. The interface only exposes a boolean,
// so this checks it on a short interval, bounded like the rendezvous waits.
func (o *Orchestrator) awaitDiscardSettled() {
	deadline := time.Now().Add(o.opts.RendezvousTimeout)
	for o.opts.Hands.IsDiscardInProgress() {
		if time.Now().After(deadline) {
			logging.Warn("hand discard still in flight past deadline; proceeding", nil)
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// beginWait snapshots the connected clients into a fresh rendezvous wait
// set. Generation keys the wait so stale acknowledgments from a previous
// round are rejected.
func (o *Orchestrator) beginWait(phase combat.AckPhase, gen uint64) *ackWait {
	o.mu.Lock()
	defer o.mu.Unlock()
	w := newAckWait(phase, gen, o.opts.Roster.ActiveClientIDs())
	o.wait = w
	return w
}

// awaitAcks blocks the pipeline until every client in the wait set has
// acknowledged, a disconnect shrinks the set to empty, or the bounded
// deadline passes.
func (o *Orchestrator) awaitAcks(w *ackWait) {
	select {
	case <-w.done:
	case <-time.After(o.opts.RendezvousTimeout):
		o.mu.Lock()
		outstanding := w.outstanding()
		o.mu.Unlock()
		logging.Warn("rendezvous timed out; proceeding without stragglers", logging.Fields{
			constants.LogFieldPhase: string(w.phase),
			"outstanding":           outstanding,
		})
	}

	o.mu.Lock()
	if o.wait == w {
		o.wait = nil
	}
	o.mu.Unlock()
}

// AcknowledgePhase records a client's completion of a rendezvous phase. The
// generation is the one broadcast with the phase transition; acks for the
// wrong phase, a stale generation, or an unregistered connection are
// rejected and logged.
func (o *Orchestrator) AcknowledgePhase(connID string, phase combat.AckPhase, gen uint64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.wait == nil {
		logging.Warn("phase ack with no wait in progress", logging.Fields{
			constants.LogFieldConnID: connID,
			constants.LogFieldPhase:  string(phase),
		})
		return ErrNoWaitInProgress
	}
	if o.wait.phase != phase || o.wait.gen != gen {
		logging.Warn("phase ack for wrong phase or stale round", logging.Fields{
			constants.LogFieldConnID: connID,
			"got_phase":              string(phase),
			"got_gen":                gen,
			"want_phase":             string(o.wait.phase),
			"want_gen":               o.wait.gen,
		})
		return ErrNoWaitInProgress
	}
	if !o.wait.acknowledge(connID) {
		logging.Warn("phase ack from connection outside wait set", logging.Fields{
			constants.LogFieldConnID: connID,
			constants.LogFieldPhase:  string(phase),
		})
		return ErrNoWaitInProgress
	}
	return nil
}

// ClientDisconnected excludes a gone client from any in-progress wait so
// it cannot deadlock the round for everyone else.
func (o *Orchestrator) ClientDisconnected(connID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.wait != nil {
		o.wait.drop(connID)
	}
}

// HandleEntityDeath retires the fight containing the dead combatant:
// records the winner, discards both sides' queued plays and hands, removes
// the fight, and notifies clients exactly once. A combatant with no
// registered fight is a logged no-op (it may already have been retired by
// a concurrent death event).
func (o *Orchestrator) HandleEntityDeath(deadID uint) {
	o.mu.Lock()
	f := o.reg.findByCombatant(deadID)
	if f == nil {
		o.mu.Unlock()
		logging.Info("death event for combatant with no active fight", logging.Fields{
			constants.LogFieldCombatantID: deadID,
		})
		return
	}
	winner := f.Opponent(deadID)
	loser := f.Opponent(winner.ID)

	dropped := o.queue.discardForFight(f.ID)
	o.opts.Hands.DespawnHand(f.Left)
	o.opts.Hands.DespawnHand(f.Right)
	o.reg.remove(f)
	delete(o.roundStartedAt, f.ID)

	result := combat.FightResult{
		FightID:    f.ID,
		WinnerID:   winner.ID,
		WinnerUUID: winner.PlayerUUID,
		WinnerName: winner.Name,
		LoserUUID:  loser.PlayerUUID,
		LoserName:  loser.Name,
		Rounds:     f.Round,
	}
	o.results = append(o.results, result)

	concluded := o.reg.size() == 0 && !o.concluded
	if concluded {
		o.concluded = true
	}
	summary := combat.CombatSummary{Results: append([]combat.FightResult(nil), o.results...)}

	// Retiring a fight can complete the barrier for the survivors.
	o.checkAllReadyLocked()
	o.mu.Unlock()

	logging.Info("fight retired", logging.Fields{
		constants.LogFieldFightID: f.ID,
		"winner":                  winner.Name,
		"dropped_plays":           dropped,
	})
	o.opts.Notifier.NotifyFightEnded(f.ID, winner.ID)
	o.opts.Results.OnFightEnded(result)
	if concluded {
		o.opts.Notifier.NotifyCombatConcluded(summary)
		o.opts.Results.OnCombatConcluded(summary)
	}
}

// FightSnapshot is a read-only view of one active fight for API consumers.
type FightSnapshot struct {
	FightID   uint   `json:"fight_id"`
	LeftID    uint   `json:"left_id"`
	LeftName  string `json:"left_name"`
	RightID   uint   `json:"right_id"`
	RightName string `json:"right_name"`
	Round     int    `json:"round"`
	Phase     string `json:"phase"`
	Ready     bool   `json:"ready_to_end_turn"`
}

// Snapshot lists the active fights in fight-ID order.
func (o *Orchestrator) Snapshot() []FightSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]FightSnapshot, 0, o.reg.size())
	for _, f := range o.reg.active() {
		out = append(out, FightSnapshot{
			FightID:   f.ID,
			LeftID:    f.Left.ID,
			LeftName:  f.Left.Name,
			RightID:   f.Right.ID,
			RightName: f.Right.Name,
			Round:     f.Round,
			Phase:     f.Phase.String(),
			Ready:     f.ReadyToEndTurn,
		})
	}
	return out
}

// Concluded reports whether every fight has been retired.
func (o *Orchestrator) Concluded() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started && o.concluded
}
