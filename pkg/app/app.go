// Package app wires the repository, services and adapters into an HTTP handler.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/wadjakorntonsri/go-job-board/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-job-board/pkg/adapters/ratelimit"
	"github.com/wadjakorntonsri/go-job-board/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-job-board/pkg/adapters/session"
	"github.com/wadjakorntonsri/go-job-board/pkg/adapters/spreadsheet"
	"github.com/wadjakorntonsri/go-job-board/pkg/config"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/services"
	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

type App struct {
	Handler http.Handler
	Admin   *services.AdminService

	repo *sqlite.SQLiteRepository
	rdb  *redis.Client
}

// New opens the database and builds the router. Close releases both.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	a := &App{repo: repo}
	limiter, err := a.newLimiter(ctx, cfg)
	if err != nil {
		repo.Close()
		return nil, err
	}

	sessions := session.NewManager(cfg.SessionSecret, cfg.IsProduction())
	a.Admin = services.NewAdminService(repo)
	a.Handler = handler.NewRouter(cfg, handler.Deps{
		Jobs:       services.NewJobService(repo, limiter),
		Admin:      a.Admin,
		Import:     services.NewImportService(repo),
		Newsletter: services.NewNewsletterService(repo),
		Sheets:     spreadsheet.NewCodec(),
		Auth:       sessions,
		Sessions:   sessions,
	})
	return a, nil
}

func (a *App) newLimiter(ctx context.Context, cfg *config.Config) (ports.RateLimiter, error) {
	if cfg.RedisURL == "" {
		log.Printf("[config] rate limiting in memory: %d per %s", cfg.RateLimitMax, cfg.RateLimitWindow)
		return ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow), nil
	}

	rdb, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.rdb = rdb
	log.Printf("[config] rate limiting in redis: %d per %s", cfg.RateLimitMax, cfg.RateLimitWindow)
	return ratelimit.NewRedisLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow), nil
}

func (a *App) Close() error {
	if a.rdb != nil {
		a.rdb.Close()
	}
	return a.repo.Close()
}
