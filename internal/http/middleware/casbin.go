package middleware

import (
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/you/portalsvc/domain"
)

// CasbinMW wraps the casbin enforcer for route authorization
type CasbinMW struct {
	enforcer *casbin.Enforcer
	audit    domain.AuditLogger
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(enforcer *casbin.Enforcer, audit domain.AuditLogger) *CasbinMW {
	return &CasbinMW{enforcer: enforcer, audit: audit}
}

// Enforce returns the casbin authorization middleware. It expects the
// session middleware to have run first and set the role in context.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in session"})
			c.Abort()
			return
		}

		path := c.Request.URL.Path
		method := c.Request.Method

		// Policies are keyed by the prefixed role form
		casbinRole := "role_" + role.(string)
		allowed, err := mw.enforcer.Enforce(casbinRole, path, method)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			c.Abort()
			return
		}

		if !allowed {
			phone, _ := c.Get(CtxPhone)
			phoneStr, _ := phone.(string)
			mw.audit.LogEvent(c.Request.Context(), &domain.AuditEvent{
				EventType: domain.AccessDeniedEvent,
				Phone:     phoneStr,
				ErrorMsg:  method + " " + path,
			})
			c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}
