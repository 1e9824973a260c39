package storage

import "github.com/ericogr/duelgrid/internal/combat"

// Repository is the persistence boundary used by the service and API
// layers. The sqlite implementation is the only production one; tests use
// hand-written fakes.
type Repository interface {
	CreateSession(s *combat.Session) error
	FindSessionByJoinCode(code string) (*combat.Session, error)
	ListPublicSessions() ([]combat.Session, error)
	UpdateSession(s *combat.Session) error

	CreateFightRecord(rec *combat.FightRecord) error
	UpdateProfilesOnFightEnd(winnerUUID string, participantUUIDs []string) error
	Leaderboard(limit int) ([]combat.PlayerProfile, error)
	EnsureProfile(playerUUID, playerName string) error
}
