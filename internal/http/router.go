package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/you/portalsvc/internal/http/handlers"
	"github.com/you/portalsvc/internal/http/middleware"
)

// BuildRouter wires all routes. The auth group is public; everything
// behind the session middleware also passes casbin enforcement.
func BuildRouter(ah *handlers.AuthHandlers, ph *handlers.PatientHandlers, pol *handlers.PolicyHandlers, smw *middleware.SessionMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/auth")
	auth.POST("/otp/send", ah.SendOTP)
	auth.POST("/otp/verify", ah.VerifyOTP)
	auth.POST("/session/validate", ah.ValidateSession)

	v := r.Group("/").Use(smw.WithSession(), cb.Enforce())
	v.GET("/auth/me", ah.Me)
	v.POST("/auth/logout", ah.Logout)
	v.GET("/patients", ph.List)
	v.POST("/patients", ph.Create)
	v.GET("/patients/:id", ph.Get)
	v.PUT("/patients/:id", ph.Update)
	v.GET("/patients/:id/reports", ph.ListReports)
	v.POST("/patients/:id/reports", ph.AddReport)
	v.GET("/admin/policies", pol.List)
	v.POST("/admin/policies", pol.Add)
	v.DELETE("/admin/policies", pol.Remove)

	return r
}
