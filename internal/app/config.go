package app

import (
	"time"

	"github.com/yungbote/textbook-backend/internal/data/db"
	"github.com/yungbote/textbook-backend/internal/platform/envutil"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
)

type Config struct {
	Port        string
	Environment string
	Version     string

	ChaptersPath string
	GlossaryPath string

	DB db.Config
	// ProgressBackend is "sql", "redis" or "memory".
	ProgressBackend string
	// RenderCache is "memory", "redis" or "off".
	RenderCache     string
	RenderCacheTTL  time.Duration
	RenderCacheSize int

	RedisAddr    string
	RedisPrefix  string
	RedisChannel string

	LearnerJWTSecret string
	CORSOrigins      []string
	MetricsAddr      string
}

func LoadConfig(log *logger.Logger) Config {
	env := envutil.Reader{Log: log}
	return Config{
		Port:        env.String("PORT", "8080"),
		Environment: env.String("APP_ENV", "development"),
		Version:     env.String("APP_VERSION", "dev"),

		ChaptersPath: env.String("CHAPTERS_PATH", "data/chapters/chapters.json"),
		GlossaryPath: env.String("GLOSSARY_PATH", "data/glossary.json"),

		DB: db.Config{
			Driver:           env.String("DB_DRIVER", "sqlite"),
			SQLitePath:       env.String("SQLITE_PATH", "data/progress.db"),
			PostgresHost:     env.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     env.String("POSTGRES_PORT", "5432"),
			PostgresUser:     env.String("POSTGRES_USER", "postgres"),
			PostgresPassword: env.Secret("POSTGRES_PASSWORD", ""),
			PostgresName:     env.String("POSTGRES_NAME", "textbook"),
			PostgresSSLMode:  env.String("POSTGRES_SSLMODE", "disable"),
		},
		ProgressBackend: env.String("PROGRESS_BACKEND", "sql"),
		RenderCache:     env.String("RENDER_CACHE", "memory"),
		RenderCacheTTL:  env.Duration("RENDER_CACHE_TTL", 10*time.Minute),
		RenderCacheSize: env.Int("RENDER_CACHE_SIZE", 1024),

		RedisAddr:    env.String("REDIS_ADDR", ""),
		RedisPrefix:  env.String("REDIS_PREFIX", "textbook"),
		RedisChannel: env.String("REDIS_CHANNEL", "textbook-sse"),

		LearnerJWTSecret: env.Secret("LEARNER_JWT_SECRET", ""),
		CORSOrigins:      env.List("CORS_ORIGINS", nil),
		MetricsAddr:      env.String("METRICS_ADDR", ""),
	}
}
