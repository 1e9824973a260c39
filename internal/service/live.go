package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/ericogr/duelgrid/internal/arena"
	"github.com/ericogr/duelgrid/internal/cards"
	"github.com/ericogr/duelgrid/internal/combat"
	"github.com/ericogr/duelgrid/internal/config"
	"github.com/ericogr/duelgrid/internal/hub"
	"github.com/ericogr/duelgrid/internal/logging"
	"github.com/ericogr/duelgrid/internal/pairing"
	"github.com/ericogr/duelgrid/internal/storage"
	"github.com/ericogr/duelgrid/internal/tracker"
)

// LiveSession holds the in-memory machinery of one in-combat session: the
// orchestrator (authoritative state), its hub (client connections) and the
// default collaborators. It also implements arena.ResultSink, feeding fight
// outcomes back into storage.
type LiveSession struct {
	Code   string
	Orch   *arena.Orchestrator
	Hub    *hub.Hub
	Hands  *cards.Hands
	record *combat.Session
	repo   storage.Repository
}

func (ls *LiveSession) OnFightEnded(result combat.FightResult) {
	RecordFightResult(ls.repo, ls.record, result)
}

func (ls *LiveSession) OnCombatConcluded(summary combat.CombatSummary) {
	FinishSession(ls.repo, ls.record, summary)
	logging.Info("combat concluded", logging.Fields{
		"session_code": ls.Code,
		"fights":       len(summary.Results),
	})
}

// Manager owns every live session keyed by join code.
type Manager struct {
	mu   sync.Mutex
	cfg  *config.LoadedConfig
	repo storage.Repository
	live map[string]*LiveSession
}

func NewManager(cfg *config.LoadedConfig, repo storage.Repository) *Manager {
	return &Manager{
		cfg:  cfg,
		repo: repo,
		live: make(map[string]*LiveSession),
	}
}

// Start flips a lobby session into combat and wires up its live machinery:
// hub, catalog, hands, resolver, tracker, orchestrator — all injected at
// construction, nothing discovered later.
func (m *Manager) Start(ctx context.Context, s *combat.Session) (*LiveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.live[s.JoinCode]; ok {
		return existing, ErrSessionNotInLobby
	}

	combatants, err := StartSession(m.repo, s, m.cfg)
	if err != nil {
		return nil, err
	}

	catalog := cards.NewCatalog(m.cfg.Cards)
	hands := cards.NewHands(catalog, rand.New(rand.NewSource(time.Now().UnixNano())))
	resolver := cards.NewResolver(catalog, hands)
	for _, c := range combatants {
		resolver.Register(c)
	}
	h := hub.New()

	ls := &LiveSession{
		Code:   s.JoinCode,
		Hub:    h,
		Hands:  hands,
		record: s,
		repo:   m.repo,
	}

	pairOpts := pairing.Options{}
	if m.cfg.PreferSameKind {
		pairOpts = pairing.Options{
			PreferSameKind: true,
			PreferredKind:  combat.CombatantKind(m.cfg.PreferredKind),
		}
	}
	orch, err := arena.New(arena.Options{
		Tracker:           tracker.New(),
		Effects:           cards.NewEffects(1),
		Hands:             hands,
		Resolver:          resolver,
		Cards:             catalog,
		Notifier:          h,
		Roster:            h,
		Results:           ls,
		CardsPerDraw:      m.cfg.CardsPerDraw,
		RendezvousTimeout: m.cfg.RendezvousTimeout,
		Pairing:           pairOpts,
	})
	if err != nil {
		return nil, err
	}
	ls.Orch = orch
	resolver.BindDeathSink(orch.HandleEntityDeath)
	h.Bind(orch)

	unpaired, err := orch.StartAllFights(ctx, combatants)
	if err != nil {
		return nil, err
	}
	if len(unpaired) > 0 {
		names := make([]string, 0, len(unpaired))
		for _, c := range unpaired {
			names = append(names, c.Name)
		}
		logging.Warn("combat started with unpaired combatants", logging.Fields{
			"session_code": s.JoinCode,
			"unpaired":     names,
		})
	}

	m.live[s.JoinCode] = ls
	return ls, nil
}

// Get returns the live session for a join code, if combat is running.
func (m *Manager) Get(code string) (*LiveSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ls, ok := m.live[code]
	return ls, ok
}

// ScanStalledTurns runs one deadline sweep over every live session and
// drops sessions whose combat has concluded. Called from the background
// scanner ticker in main.
func (m *Manager) ScanStalledTurns() {
	m.mu.Lock()
	sessions := make([]*LiveSession, 0, len(m.live))
	for _, ls := range m.live {
		sessions = append(sessions, ls)
	}
	m.mu.Unlock()

	for _, ls := range sessions {
		ls.Orch.AutoEndStalledTurns(m.cfg.ActionTimeout)
		if ls.Orch.Concluded() {
			m.mu.Lock()
			delete(m.live, ls.Code)
			m.mu.Unlock()
			logging.Info("live session retired", logging.Fields{"session_code": ls.Code})
		}
	}
}
