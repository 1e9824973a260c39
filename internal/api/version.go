package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/duelgrid/internal/version"
)

// Version reports build metadata injected via -ldflags.
func (h *SessionHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
		"dirty":   version.Dirty,
	})
}
