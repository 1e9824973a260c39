package storage

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericogr/duelgrid/internal/combat"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateSession(s *combat.Session) error {
	return r.db.Create(s).Error
}

func (r *sqliteRepository) FindSessionByJoinCode(code string) (*combat.Session, error) {
	var s combat.Session
	err := r.db.Preload("Players").Preload("Fights").
		Where("join_code = ?", code).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) ListPublicSessions() ([]combat.Session, error) {
	var sessions []combat.Session
	err := r.db.Preload("Players").
		Where("private = ? AND status = ?", false, combat.StatusLobby).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sqliteRepository) UpdateSession(s *combat.Session) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(s).Error
}

func (r *sqliteRepository) CreateFightRecord(rec *combat.FightRecord) error {
	return r.db.Create(rec).Error
}

// UpdateProfilesOnFightEnd bumps fights-played for every participant and
// fights-won for the winner. Profiles missing a row are skipped; they are
// created at join time via EnsureProfile.
func (r *sqliteRepository) UpdateProfilesOnFightEnd(winnerUUID string, participantUUIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, uuid := range participantUUIDs {
			if uuid == "" {
				continue
			}
			updates := map[string]interface{}{
				"fights_played": gorm.Expr("fights_played + 1"),
			}
			if uuid == winnerUUID {
				updates["fights_won"] = gorm.Expr("fights_won + 1")
			}
			if err := tx.Model(&combat.PlayerProfile{}).
				Where("player_uuid = ?", uuid).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sqliteRepository) Leaderboard(limit int) ([]combat.PlayerProfile, error) {
	if limit <= 0 {
		limit = 20
	}
	var profiles []combat.PlayerProfile
	err := r.db.Order("fights_won DESC, fights_played ASC").
		Limit(limit).Find(&profiles).Error
	return profiles, err
}

// EnsureProfile creates the profile row on first contact and refreshes the
// display name on conflict.
func (r *sqliteRepository) EnsureProfile(playerUUID, playerName string) error {
	if playerUUID == "" {
		return errors.New("empty player uuid")
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{"player_name"}),
	}).Create(&combat.PlayerProfile{
		PlayerUUID: playerUUID,
		PlayerName: playerName,
	}).Error
}
