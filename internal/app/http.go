package app

import (
	"github.com/yungbote/textbook-backend/internal/http"
	httpH "github.com/yungbote/textbook-backend/internal/http/handlers"
	httpMW "github.com/yungbote/textbook-backend/internal/http/middleware"
	"github.com/yungbote/textbook-backend/internal/observability"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
	"github.com/yungbote/textbook-backend/internal/realtime"
)

type Middleware struct {
	Learner *httpMW.LearnerMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Chapter  *httpH.ChapterHandler
	Glossary *httpH.GlossaryHandler
	Progress *httpH.ProgressHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, services Services, sseHub *realtime.SSEHub, m *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(services.Catalog),
		Chapter:  httpH.NewChapterHandler(services.Catalog, services.Reader),
		Glossary: httpH.NewGlossaryHandler(services.Glossary),
		Progress: httpH.NewProgressHandler(services.Progress),
		Realtime: httpH.NewRealtimeHandler(log, sseHub, m),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	if cfg.LearnerJWTSecret == "" {
		log.Warn("LEARNER_JWT_SECRET not set; trusting the X-Learner-Id header")
	}
	return Middleware{
		Learner: httpMW.NewLearnerMiddleware(log, cfg.LearnerJWTSecret),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, m *observability.Metrics) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:               log,
		ServiceName:       "textbook",
		CORSOrigins:       cfg.CORSOrigins,
		Metrics:           m,
		LearnerMiddleware: middleware.Learner,
		HealthHandler:     handlers.Health,
		ChapterHandler:    handlers.Chapter,
		GlossaryHandler:   handlers.Glossary,
		ProgressHandler:   handlers.Progress,
		RealtimeHandler:   handlers.Realtime,
	})
}
