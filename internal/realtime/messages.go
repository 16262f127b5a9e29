package realtime

import (
	"github.com/google/uuid"

	"github.com/yungbote/textbook-backend/internal/domain/progress"
)

type SSEEvent string

const (
	SSEEventSectionProgressChanged SSEEvent = "sectionProgressChanged"
	SSEEventChapterProgressChanged SSEEvent = "chapterProgressChanged"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// SectionProgressChanged is published after every section progress write.
type SectionProgressChanged struct {
	ChapterSlug  string          `json:"chapterSlug"`
	SectionIndex int             `json:"sectionIndex"`
	NewStatus    progress.Status `json:"newStatus"`
}

// LearnerChannel is the channel a learner's own stream subscribes to.
func LearnerChannel(learnerID uuid.UUID) string {
	return "learner:" + learnerID.String()
}
