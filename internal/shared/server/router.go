package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"minutes-backend/internal/minutes"
	"minutes-backend/internal/services/health"
	"minutes-backend/internal/shared/config"
	"minutes-backend/internal/shared/metrics"
	"minutes-backend/internal/shared/server/middleware"
	"minutes-backend/internal/shared/server/respond"
	"minutes-backend/internal/web"
)

const uploadRateGroup = "UPLOAD"

// RouterDeps bundles handlers required to build the router.
type RouterDeps struct {
	Config         config.Config
	MinutesHandler *minutes.Handler
	Health         *health.Service
	Limiter        *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:  deps.Limiter,
			GroupFor: rateGroup,
			Rules: map[string]middleware.RateLimitRule{
				uploadRateGroup: {Rate: deps.Config.RateLimitRPS, Burst: deps.Config.RateLimitBurst},
			},
		}),
	)

	web.RegisterRoutes(r)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil)
	}
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	api.GET("/ready", func(c *gin.Context) {
		payload, ok := healthSvc.Ready(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, payload)
	})
	if deps.MinutesHandler != nil {
		deps.MinutesHandler.RegisterRoutes(api)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "route not found", nil)
	})

	return r
}

// rateGroup limits only pipeline uploads; reads are free.
func rateGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && strings.HasPrefix(c.Request.URL.Path, "/api/v1/minutes") {
		return uploadRateGroup
	}
	return "READ"
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
