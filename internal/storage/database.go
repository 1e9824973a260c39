package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ericogr/duelgrid/internal/combat"
)

// OpenAndMigrate opens the sqlite database and keeps its schema current via
// AutoMigrate. Only session bookkeeping and outcomes are persisted; live
// fight state is in-memory and rebuilt at the start of each combat phase.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&combat.Session{},
		&combat.SessionPlayer{},
		&combat.FightRecord{},
		&combat.PlayerProfile{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
