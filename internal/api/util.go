package api

import (
	"math/rand"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/duelgrid/internal/constants"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 8

// generateJoinCode creates a short alphanumeric code for joining sessions.
func generateJoinCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}

var joinCodeRegex = regexp.MustCompile("^[A-Z0-9]{8}$")

func normalizeJoinCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// AuthRequired validates the bearer token and stores the caller's identity
// in the gin context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := callerClaims(c.GetHeader(constants.HeaderAuthorization))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		c.Set("playerUUID", claims.Sub)
		c.Set("playerName", claims.Name)
		c.Next()
	}
}

func callerClaims(authHeader string) (*tokenClaims, bool) {
	if !strings.HasPrefix(authHeader, constants.BearerPrefix) {
		return nil, false
	}
	claims, err := parsePlayerToken(strings.TrimPrefix(authHeader, constants.BearerPrefix))
	if err != nil {
		return nil, false
	}
	return claims, true
}

// callerUUID reads the identity AuthRequired stored on the context.
func callerUUID(c *gin.Context) string {
	v, _ := c.Get("playerUUID")
	s, _ := v.(string)
	return s
}
