package app

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/textbook-backend/internal/cache"
	"github.com/yungbote/textbook-backend/internal/data/db"
	progressrepo "github.com/yungbote/textbook-backend/internal/data/repos/progress"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
)

type Repos struct {
	Progress    progressrepo.KVRepo
	RenderCache cache.Cache
}

// wireRepos opens the database only for the sql backend; the returned *gorm.DB is nil otherwise.
func wireRepos(log *logger.Logger, cfg Config) (Repos, *gorm.DB, error) {
	log.Info("Wiring repos...", "progress_backend", cfg.ProgressBackend, "render_cache", cfg.RenderCache)

	var (
		out   Repos
		theDB *gorm.DB
		err   error
	)
	switch strings.ToLower(cfg.ProgressBackend) {
	case "", "sql":
		theDB, err = db.Open(cfg.DB, log)
		if err != nil {
			return Repos{}, nil, fmt.Errorf("init database: %w", err)
		}
		out.Progress = progressrepo.NewGormRepo(theDB, log)
	case "redis":
		out.Progress, err = progressrepo.NewRedisRepo(cfg.RedisAddr, cfg.RedisPrefix, log)
		if err != nil {
			return Repos{}, nil, fmt.Errorf("init redis progress store: %w", err)
		}
	case "memory":
		log.Warn("Progress is kept in memory and lost on restart")
		out.Progress = progressrepo.NewMemoryRepo()
	default:
		return Repos{}, nil, fmt.Errorf("unknown PROGRESS_BACKEND %q", cfg.ProgressBackend)
	}

	switch strings.ToLower(cfg.RenderCache) {
	case "", "memory":
		out.RenderCache = cache.NewMemory(cfg.RenderCacheSize)
	case "redis":
		out.RenderCache, err = cache.NewRedis(cfg.RedisAddr, cfg.RedisPrefix+":render", log)
		if err != nil {
			log.Warn("Redis render cache unavailable; using memory", "error", err)
			out.RenderCache = cache.NewMemory(cfg.RenderCacheSize)
		}
	case "off", "none":
	default:
		return Repos{}, nil, fmt.Errorf("unknown RENDER_CACHE %q", cfg.RenderCache)
	}
	return out, theDB, nil
}

func (r Repos) Close() {
	if r.Progress != nil {
		_ = r.Progress.Close()
	}
	if r.RenderCache != nil {
		_ = r.RenderCache.Close()
	}
}
