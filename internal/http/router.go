package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/textbook-backend/internal/http/handlers"
	httpMW "github.com/yungbote/textbook-backend/internal/http/middleware"
	"github.com/yungbote/textbook-backend/internal/observability"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	LearnerMiddleware *httpMW.LearnerMiddleware

	HealthHandler   *httpH.HealthHandler
	ChapterHandler  *httpH.ChapterHandler
	GlossaryHandler *httpH.GlossaryHandler
	ProgressHandler *httpH.ProgressHandler
	RealtimeHandler *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "textbook"
	}
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	if cfg.LearnerMiddleware != nil {
		api.Use(cfg.LearnerMiddleware.Identify())
	}
	// Logged after identification so entries carry the learner.
	api.Use(httpMW.RequestLogger(cfg.Log))
	{
		// Chapters
		if cfg.ChapterHandler != nil {
			api.GET("/chapters", cfg.ChapterHandler.ListChapters)
			api.GET("/chapters/:slug", cfg.ChapterHandler.GetChapter)
			api.GET("/chapters/:slug/render", cfg.ChapterHandler.RenderChapter)
			api.GET("/chapters/:slug/sections/:index", cfg.ChapterHandler.GetSection)
			api.GET("/search", cfg.ChapterHandler.Search)
		}

		// Glossary
		if cfg.GlossaryHandler != nil {
			api.GET("/glossary", cfg.GlossaryHandler.GetGlossary)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			api.GET("/progress", cfg.ProgressHandler.ListProgress)
			api.GET("/progress/:slug", cfg.ProgressHandler.GetChapterProgress)
			api.PUT("/progress/:slug/sections/:index", cfg.ProgressHandler.SaveSectionProgress)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			api.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
		}
	}

	return r
}
