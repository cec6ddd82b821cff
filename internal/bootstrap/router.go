package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/terraverde/terraverde-api/internal/api/http"
	"github.com/terraverde/terraverde-api/internal/api/http/middleware"
	"github.com/terraverde/terraverde-api/internal/api/http/response"
	"github.com/terraverde/terraverde-api/internal/auth"
	authmw "github.com/terraverde/terraverde-api/internal/auth/middleware"
	dashboardhttp "github.com/terraverde/terraverde-api/internal/dashboard/http"
	"github.com/terraverde/terraverde-api/internal/platform/logger"
	reportshttp "github.com/terraverde/terraverde-api/internal/reports/http"
	specieshttp "github.com/terraverde/terraverde-api/internal/species/http"
	usershttp "github.com/terraverde/terraverde-api/internal/users/http"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	ExposeErrors   bool
	RateLimitRPS   float64
	RateLimitBurst int
	Stores         *Stores
	Services       *Services
	Log            *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	log := logger.OrNop(dep.Log)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoRoute(response.NotFound)
	r.NoMethod(response.MethodNotAllowed)

	r.Use(
		gin.CustomRecovery(response.Recovery),
		middleware.RequestIDMiddleware(log.Named("http")),
		cors.New(corsConfig(dep.AllowedOrigins)),
		response.ExposeErrors(dep.ExposeErrors),
	)

	var db httpapi.Pinger
	if dep.Stores.DB != nil {
		db = dep.Stores.DB
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version,
		dep.Stores.Docs.Name(), dep.Stores.Docs, dep.Stores.Blobs.Name(), db)
	healthHandler.RegisterRoutes(r)

	api := r.Group("")
	if dep.Stores.Verifier != nil {
		api.Use(authmw.FirebaseAuthMiddleware(dep.Stores.Verifier))
	} else {
		log.Warn("firebase auth not configured, trusting X-User-Id")
		api.Use(auth.OptionalUser())
	}

	var limiter *middleware.IPRateLimiter
	if dep.RateLimitRPS > 0 {
		limiter = middleware.NewIPRateLimiter(dep.RateLimitRPS, dep.RateLimitBurst)
	}
	write := middleware.RateLimit(limiter)

	specieshttp.New(dep.Services.Species, log.Named("species")).Register(api.Group("/species"), write)
	usershttp.New(dep.Services.Users).Register(api.Group("/users"), write)
	reportshttp.New(dep.Services.Reports).Register(api.Group("/reports"))
	dashboardhttp.New(dep.Services.Dashboard).Register(api.Group("/dashboard"))
	httpapi.RegisterUtilRoutes(api.Group("/utils"))

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-User-Id", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Disposition", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
