package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Entry is one stored progress record. Keys follow ChapterKey and SectionKey; Value is
// the JSON encoding of ChapterProgress or SectionProgress.
type Entry struct {
	LearnerID uuid.UUID      `gorm:"type:uuid;primaryKey;column:learner_id" json:"learner_id"`
	Key       string         `gorm:"primaryKey;column:key;size:512" json:"key"`
	Value     datatypes.JSON `gorm:"column:value;not null" json:"value"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;index" json:"updated_at"`
}

func (Entry) TableName() string { return "progress_entry" }
