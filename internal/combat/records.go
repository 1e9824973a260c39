package combat

import "gorm.io/gorm"

// Session lifecycle values persisted with the session record.
const (
	StatusLobby      = "lobby"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
)

// Session is the persisted record of one combat session. The authoritative
// fight registry lives in memory for the session's lifetime; only the
// lobby/join bookkeeping and the final outcome are stored.
type Session struct {
	gorm.Model
	Name        string          `json:"name" gorm:"size:32"`
	Description string          `json:"description" gorm:"size:256"`
	Private     bool            `json:"private"`
	JoinCode    string          `json:"join_code" gorm:"unique"`
	Players     []SessionPlayer `json:"players"`
	Status      string          `json:"status"`
	Message     string          `json:"message"`
	Fights      []FightRecord   `json:"fights"`
}

// SessionPlayer is one human participant of a session.
type SessionPlayer struct {
	gorm.Model
	SessionID  uint   `json:"-"`
	PlayerUUID string `json:"player_uuid"`
	PlayerName string `json:"player_name"`
	// CreatureNames holds the display names of the creatures this player
	// brings into combat, comma-separated. Kept denormalized: creatures
	// have no life outside a session.
	CreatureNames string `json:"creature_names"`
}

func (SessionPlayer) TableName() string { return "session_players" }

// FightRecord is the persisted outcome of one retired fight.
type FightRecord struct {
	gorm.Model
	SessionID  uint   `json:"-"`
	FightID    uint   `json:"fight_id"`
	WinnerName string `json:"winner_name"`
	LoserName  string `json:"loser_name"`
	WinnerUUID string `json:"winner_uuid"`
	Rounds     int    `json:"rounds"`
}

func (FightRecord) TableName() string { return "fight_records" }

// PlayerProfile stores unique player identity and aggregate stats.
type PlayerProfile struct {
	gorm.Model
	PlayerUUID   string `gorm:"uniqueIndex" json:"player_uuid"`
	PlayerName   string `json:"player_name"`
	FightsPlayed int    `json:"fights_played"`
	FightsWon    int    `json:"fights_won"`
}

func (PlayerProfile) TableName() string { return "player_profiles" }
