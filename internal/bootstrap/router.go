package bootstrap

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/lhci-dashboard/config"
	httpapi "github.com/GoSim-25-26J-441/lhci-dashboard/internal/api/http"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/api/http/routes"
	dashhttp "github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/http"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/repository"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/service"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/view"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	DB          *sql.DB
	Redis       *redis.Client // nil runs without a cache
	Time        *view.TimeFormatter
}

// NewDashboardService wires the repositories and optional cache.
func NewDashboardService(db *sql.DB, rdb *redis.Client, cacheTTL time.Duration) (*service.DashboardService, *repository.DashboardCache) {
	var (
		cache    *repository.DashboardCache
		svcCache service.Cache
	)
	if rdb != nil {
		cache = repository.NewDashboardCache(rdb, cacheTTL)
		svcCache = cache
	}

	svc := service.NewDashboardService(
		repository.NewProjectRepository(db),
		repository.NewBuildRepository(db),
		svcCache,
	)
	return svc, cache
}

func BuildRouter(dep RouterDeps) (*gin.Engine, *service.DashboardService) {
	cfg := dep.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(cfg.API.AllowedOrigins)))

	svc, cache := NewDashboardService(dep.DB, dep.Redis, cfg.Cache.TTL)

	var cachePinger httpapi.CachePinger
	if cache != nil {
		cachePinger = cache
	}
	var dbPinger httpapi.DBPinger
	if dep.DB != nil {
		dbPinger = dep.DB
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, cfg.App.Version, dbPinger, cachePinger)
	healthHandler.RegisterRoutes(r)

	dashboard := dashhttp.New(svc, dashhttp.Options{
		RenderTimeout: cfg.Dashboard.RenderTimeout,
		Time:          dep.Time,
		PublicBaseURL: cfg.Server.PublicBaseURL,
	})

	routes.RegisterV1(r, routes.V1Deps{
		Dashboard: dashboard,
		APIKey:    cfg.API.Key,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
	})

	return r, svc
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "X-API-Key", "X-Request-Id")
	c.ExposeHeaders = []string{"X-Request-Id"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
