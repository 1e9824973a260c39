package service

import (
	"errors"
	"strings"

	"github.com/ericogr/duelgrid/internal/combat"
	"github.com/ericogr/duelgrid/internal/config"
	"github.com/ericogr/duelgrid/internal/logging"
	"github.com/ericogr/duelgrid/internal/storage"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionNotJoinable = errors.New("session is not accepting players")
	ErrAlreadyJoined      = errors.New("player already joined this session")
	ErrNotEnoughPlayers   = errors.New("at least two players are required")
	ErrSessionNotInLobby  = errors.New("session is not in the lobby")
	ErrTooManyCreatures   = errors.New("too many creatures for one player")
)

const maxCreaturesPerPlayer = 2

// JoinSession adds a player (and the creatures they bring) to a lobby
// session and ensures their profile row exists.
func JoinSession(repo storage.Repository, code, playerUUID, playerName string, creatureNames []string) (*combat.Session, error) {
	s, err := repo.FindSessionByJoinCode(code)
	if err != nil || s == nil {
		return nil, ErrSessionNotFound
	}
	if s.Status != combat.StatusLobby {
		return nil, ErrSessionNotJoinable
	}
	for i := range s.Players {
		if s.Players[i].PlayerUUID == playerUUID {
			return nil, ErrAlreadyJoined
		}
	}
	if len(creatureNames) > maxCreaturesPerPlayer {
		return nil, ErrTooManyCreatures
	}
	s.Players = append(s.Players, combat.SessionPlayer{
		PlayerUUID:    playerUUID,
		PlayerName:    playerName,
		CreatureNames: strings.Join(creatureNames, ","),
	})
	if err := repo.EnsureProfile(playerUUID, playerName); err != nil {
		logging.Error("failed to ensure player profile", err, logging.Fields{"player_uuid": playerUUID})
	}
	if err := repo.UpdateSession(s); err != nil {
		return nil, err
	}
	return s, nil
}

// BuildCombatants turns the session's joined players into the combatant
// pool handed to the pairing pass: one player combatant per participant
// plus one creature combatant per creature they brought, owned by them.
// IDs are assigned sequentially and are stable for the session's lifetime.
func BuildCombatants(s *combat.Session, cfg *config.LoadedConfig) []*combat.Combatant {
	var out []*combat.Combatant
	var nextID uint
	for i := range s.Players {
		p := &s.Players[i]
		nextID++
		owner := &combat.Combatant{
			ID:         nextID,
			Name:       p.PlayerName,
			Kind:       combat.KindPlayer,
			PlayerUUID: p.PlayerUUID,
			HitPoints:  cfg.StartingHitPoints,
			Energy:     cfg.StartingEnergy,
		}
		out = append(out, owner)
		if p.CreatureNames == "" {
			continue
		}
		for _, name := range strings.Split(p.CreatureNames, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			nextID++
			out = append(out, &combat.Combatant{
				ID:         nextID,
				Name:       name,
				Kind:       combat.KindCreature,
				OwnerID:    owner.ID,
				PlayerUUID: p.PlayerUUID,
				HitPoints:  cfg.StartingHitPoints,
				Energy:     cfg.StartingEnergy,
			})
		}
	}
	return out
}

// StartSession validates the lobby and flips the session into combat. The
// caller wires the returned combatants into a live orchestrator.
func StartSession(repo storage.Repository, s *combat.Session, cfg *config.LoadedConfig) ([]*combat.Combatant, error) {
	if s.Status != combat.StatusLobby {
		return nil, ErrSessionNotInLobby
	}
	if len(s.Players) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	combatants := BuildCombatants(s, cfg)
	s.Status = combat.StatusInProgress
	s.Message = "Combat started. Queue your plays."
	if err := repo.UpdateSession(s); err != nil {
		return nil, err
	}
	return combatants, nil
}

// RecordFightResult persists one retired fight and bumps the participant
// profiles. Failures are contained: a storage error never aborts combat.
func RecordFightResult(repo storage.Repository, s *combat.Session, result combat.FightResult) {
	rec := &combat.FightRecord{
		SessionID:  s.ID,
		FightID:    result.FightID,
		WinnerName: result.WinnerName,
		LoserName:  result.LoserName,
		WinnerUUID: result.WinnerUUID,
		Rounds:     result.Rounds,
	}
	if err := repo.CreateFightRecord(rec); err != nil {
		logging.Error("failed to persist fight record", err, logging.Fields{"fight_id": result.FightID})
	}
	participants := []string{result.WinnerUUID, result.LoserUUID}
	if err := repo.UpdateProfilesOnFightEnd(result.WinnerUUID, participants); err != nil {
		logging.Error("failed to update profiles", err, logging.Fields{"fight_id": result.FightID})
	}
}

// FinishSession marks the session record concluded.
func FinishSession(repo storage.Repository, s *combat.Session, summary combat.CombatSummary) {
	s.Status = combat.StatusFinished
	if len(summary.Results) > 0 {
		s.Message = "Combat concluded."
	} else {
		s.Message = "Combat concluded with no fights."
	}
	if err := repo.UpdateSession(s); err != nil {
		logging.Error("failed to finish session record", err, logging.Fields{"session_id": s.ID})
	}
}
