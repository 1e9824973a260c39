package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ericogr/duelgrid/internal/cards"
	"github.com/ericogr/duelgrid/internal/combat"
	"github.com/ericogr/duelgrid/internal/config"
	"github.com/ericogr/duelgrid/internal/constants"
	"github.com/ericogr/duelgrid/internal/logging"
	"github.com/ericogr/duelgrid/internal/service"
	"github.com/ericogr/duelgrid/internal/storage"
)

// SessionHandler exposes the session lifecycle over HTTP. Combat itself is
// driven over the websocket endpoint; HTTP only creates, joins, starts and
// reads sessions.
type SessionHandler struct {
	repo    storage.Repository
	manager *service.Manager
	cfg     *config.LoadedConfig
	catalog *cards.Catalog
}

func NewSessionHandler(repo storage.Repository, manager *service.Manager, cfg *config.LoadedConfig) *SessionHandler {
	return &SessionHandler{
		repo:    repo,
		manager: manager,
		cfg:     cfg,
		catalog: cards.NewCatalog(cfg.Cards),
	}
}

type createSessionRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Private     bool     `json:"private"`
	PlayerName  string   `json:"player_name"`
	Creatures   []string `json:"creatures"`
}

// CreateSession creates a lobby session with the caller as first player and
// returns their identity token alongside the join code.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlayerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	playerUUID := uuid.NewString()
	token, err := issuePlayerToken(playerUUID, req.PlayerName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: "failed to issue token"})
		return
	}
	s := &combat.Session{
		Name:        req.Name,
		Description: req.Description,
		Private:     req.Private,
		JoinCode:    generateJoinCode(),
		Status:      combat.StatusLobby,
	}
	if err := h.repo.CreateSession(s); err != nil {
		logging.Error("failed to create session", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: "failed to create session"})
		return
	}
	if _, err := service.JoinSession(h.repo, s.JoinCode, playerUUID, req.PlayerName, req.Creatures); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"join_code":   s.JoinCode,
		"player_uuid": playerUUID,
		"token":       token,
	})
}

type joinSessionRequest struct {
	PlayerName string   `json:"player_name"`
	Creatures  []string `json:"creatures"`
}

// JoinSession adds a new player to a lobby session.
func (h *SessionHandler) JoinSession(c *gin.Context) {
	code := normalizeJoinCode(c.Param("sessionCode"))
	if !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionCode})
		return
	}
	var req joinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlayerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	playerUUID := uuid.NewString()
	token, err := issuePlayerToken(playerUUID, req.PlayerName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: "failed to issue token"})
		return
	}
	s, err := service.JoinSession(h.repo, code, playerUUID, req.PlayerName, req.Creatures)
	if err != nil {
		status := http.StatusConflict
		if err == service.ErrSessionNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{constants.JSONKeyError: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"join_code":   s.JoinCode,
		"player_uuid": playerUUID,
		"token":       token,
		"players":     s.Players,
	})
}

// StartSession pairs the joined combatants and starts every fight.
func (h *SessionHandler) StartSession(c *gin.Context) {
	code := normalizeJoinCode(c.Param("sessionCode"))
	if !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionCode})
		return
	}
	s, err := h.repo.FindSessionByJoinCode(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return
	}
	if !h.isParticipant(c, s) {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotAParticipant})
		return
	}
	ls, err := h.manager.Start(c.Request.Context(), s)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"join_code": code,
		"fights":    ls.Orch.Snapshot(),
	})
}

// GetSession returns the persisted session record plus, while combat runs,
// the live fight snapshots.
func (h *SessionHandler) GetSession(c *gin.Context) {
	code := normalizeJoinCode(c.Param("sessionCode"))
	if !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionCode})
		return
	}
	s, err := h.repo.FindSessionByJoinCode(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return
	}
	resp := gin.H{"session": s}
	if ls, ok := h.manager.Get(code); ok {
		resp["fights"] = ls.Orch.Snapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// ListSessions lists public lobbies waiting for players.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.repo.ListPublicSessions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: "failed to list sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// ListCards returns the configured card catalog.
func (h *SessionHandler) ListCards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cards": h.catalog.List()})
}

// Leaderboard returns the top player profiles by fights won.
func (h *SessionHandler) Leaderboard(c *gin.Context) {
	profiles, err := h.repo.Leaderboard(20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: "failed to read leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": profiles})
}

func (h *SessionHandler) isParticipant(c *gin.Context, s *combat.Session) bool {
	caller := callerUUID(c)
	for i := range s.Players {
		if s.Players[i].PlayerUUID == caller {
			return true
		}
	}
	return false
}
