package realtime

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/textbook-backend/internal/domain/progress"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
)

// Publisher fans a message out to every instance; bus.Bus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, msg SSEMessage) error
}

// Notifier delivers progress events to a learner's open streams.
type Notifier interface {
	SectionProgressChanged(ctx context.Context, learnerID uuid.UUID, evt SectionProgressChanged)
	ChapterProgressChanged(ctx context.Context, learnerID uuid.UUID, cp progress.ChapterProgress)
}

type hubNotifier struct {
	hub *SSEHub
	pub Publisher
	log *logger.Logger
}

// NewNotifier publishes through pub when set, so that a forwarder on every instance
// delivers into its local hub. Without pub, messages go straight to hub.
func NewNotifier(hub *SSEHub, pub Publisher, log *logger.Logger) Notifier {
	return &hubNotifier{hub: hub, pub: pub, log: log.With("service", "ProgressNotifier")}
}

func (n *hubNotifier) SectionProgressChanged(ctx context.Context, learnerID uuid.UUID, evt SectionProgressChanged) {
	n.deliver(ctx, SSEMessage{
		Channel: LearnerChannel(learnerID),
		Event:   SSEEventSectionProgressChanged,
		Data:    evt,
	})
}

func (n *hubNotifier) ChapterProgressChanged(ctx context.Context, learnerID uuid.UUID, cp progress.ChapterProgress) {
	n.deliver(ctx, SSEMessage{
		Channel: LearnerChannel(learnerID),
		Event:   SSEEventChapterProgressChanged,
		Data:    cp,
	})
}

func (n *hubNotifier) deliver(ctx context.Context, msg SSEMessage) {
	if n.pub != nil {
		err := n.pub.Publish(ctx, msg)
		if err == nil {
			return
		}
		n.log.Warn("Publish failed; delivering locally", "error", err)
	}
	if n.hub != nil {
		n.hub.Broadcast(msg)
	}
}
