package http

import (
	"mywallet/internal/http/handlers"
	"mywallet/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the engine with the global middleware chain and
// registers every route.
func NewRouter(h *handlers.Handler, health *handlers.HealthHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics(), middleware.CORS())
	RegisterRoutes(r, h, health)
	return r
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler) {
	// Health checks and metrics
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/mywallet")

	// Auth
	api.POST("/sign-up", h.SignUp)
	api.POST("/sign-in", h.SignIn)

	// Session-protected. The gate runs before any body is read.
	session := middleware.Session(h.Auth)
	api.GET("/show-transactions", session, h.ShowTransactions)
	api.POST("/new-transaction", session, h.NewTransaction)
	api.DELETE("/end-sessions", session, h.EndSessions)
}
