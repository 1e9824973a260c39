package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ericogr/duelgrid/internal/constants"
	"github.com/ericogr/duelgrid/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Clients are served from the game launcher, not a browser origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeCombatSocket upgrades the connection and hands it to the session's
// hub. The identity token rides in the `token` query parameter because
// browser websocket clients cannot set headers.
func (h *SessionHandler) ServeCombatSocket(c *gin.Context) {
	code := normalizeJoinCode(c.Param("sessionCode"))
	if !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionCode})
		return
	}
	if _, err := parsePlayerToken(c.Query("token")); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	ls, ok := h.manager.Get(code)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrSessionNotInCombat})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, logging.Fields{constants.LogFieldSessionCode: code})
		return
	}
	// Blocks for the connection lifetime; gin handlers run per-connection
	// goroutines already.
	ls.Hub.HandleConnection(conn)
}
