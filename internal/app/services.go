package app

import (
	"context"

	"github.com/yungbote/textbook-backend/internal/catalog"
	"github.com/yungbote/textbook-backend/internal/observability"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
	"github.com/yungbote/textbook-backend/internal/realtime"
	"github.com/yungbote/textbook-backend/internal/realtime/bus"
	"github.com/yungbote/textbook-backend/internal/services"
)

type Services struct {
	Catalog  *catalog.Store
	Glossary *catalog.GlossaryStore
	Reader   services.ReaderService
	Progress services.ProgressService
	Bus      bus.Bus
}

func wireServices(log *logger.Logger, cfg Config, repos Repos, hub *realtime.SSEHub, m *observability.Metrics) Services {
	log.Info("Wiring services...")
	store := catalog.NewStore(cfg.ChaptersPath, log)
	glossary := catalog.NewGlossaryStore(cfg.GlossaryPath, log)

	var sseBus bus.Bus
	var pub realtime.Publisher
	if cfg.RedisAddr != "" {
		b, err := bus.NewRedisBus(cfg.RedisAddr, cfg.RedisChannel, log)
		if err != nil {
			log.Warn("Redis SSE bus unavailable; events stay on this instance", "error", err)
		} else {
			sseBus, pub = b, b
		}
	}
	notifier := realtime.NewNotifier(hub, pub, log)

	return Services{
		Catalog:  store,
		Glossary: glossary,
		Reader:   services.NewReaderService(log, store, glossary, repos.RenderCache, cfg.RenderCacheTTL, m),
		Progress: services.NewProgressService(log, repos.Progress, store, notifier, m),
		Bus:      sseBus,
	}
}

// startForwarder delivers bus messages from every instance into the local hub.
func (s Services) startForwarder(ctx context.Context, log *logger.Logger, hub *realtime.SSEHub) {
	if s.Bus == nil {
		return
	}
	if err := s.Bus.StartForwarder(ctx, hub.Broadcast); err != nil {
		log.Warn("SSE forwarder failed to start", "error", err)
	}
}
