package handlers

import (
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/textbook-backend/internal/observability"
	"github.com/yungbote/textbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
	"github.com/yungbote/textbook-backend/internal/realtime"
)

type RealtimeHandler struct {
	log     *logger.Logger
	hub     *realtime.SSEHub
	metrics *observability.Metrics
	open    atomic.Int64
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, m *observability.Metrics) *RealtimeHandler {
	return &RealtimeHandler{
		log:     log.With("handler", "RealtimeHandler"),
		hub:     hub,
		metrics: m,
	}
}

// GET /api/sse/stream
// Every stream of a learner joins the learner channel, so all open tabs see updates.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	learnerID := ctxutil.LearnerID(c.Request.Context())
	client := h.hub.NewSSEClient(learnerID)
	h.hub.AddChannel(client, realtime.LearnerChannel(learnerID))
	h.metrics.SetSSEClients(int(h.open.Add(1)))
	h.log.Debug("SSEStream open", "clientID", client.ID, "learner_id", learnerID.String())

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.metrics.SetSSEClients(int(h.open.Add(-1)))
}
