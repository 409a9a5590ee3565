package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/portalsvc/domain"
)

// Context keys populated by the session middleware
const (
	CtxSessionToken = "session_token"
	CtxPhone        = "phone"
	CtxProfileID    = "profile_id"
	CtxRole         = "user_role"
)

// SessionMW authenticates requests by the opaque bearer token issued at
// OTP verification. The token resolves to a session in Redis; there is
// nothing to decode client-side and revocation is a key delete.
type SessionMW struct {
	sessions domain.SessionStore
	resolver domain.ProfileResolver
}

// NewSessionMW creates new session middleware
func NewSessionMW(sessions domain.SessionStore, resolver domain.ProfileResolver) *SessionMW {
	return &SessionMW{sessions: sessions, resolver: resolver}
}

// WithSession returns the session authentication middleware
func (mw *SessionMW) WithSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing session token"})
			c.Abort()
			return
		}

		session, err := mw.sessions.Load(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrSessionExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			}
			c.Abort()
			return
		}

		profile, err := mw.resolver.Resolve(c.Request.Context(), session.Phone, "")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve profile"})
			c.Abort()
			return
		}

		c.Set(CtxSessionToken, token)
		c.Set(CtxPhone, session.Phone)
		c.Set(CtxProfileID, profile.ID)
		c.Set(CtxRole, profile.ProfileType)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
