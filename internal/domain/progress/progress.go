package progress

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	default:
		return false
	}
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown progress status %q", raw)
	}
	return s, nil
}

type ChapterProgress struct {
	ChapterSlug       string     `json:"chapterSlug"`
	Status            Status     `json:"status"`
	SectionsCompleted int        `json:"sectionsCompleted"`
	TotalSections     int        `json:"totalSections"`
	LastAccessed      *time.Time `json:"lastAccessed,omitempty"`
}

type SectionProgress struct {
	SectionIndex int        `json:"sectionIndex"`
	Status       Status     `json:"status"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// NewSectionProgress stamps CompletedAt only for completed sections.
func NewSectionProgress(index int, status Status, now time.Time) SectionProgress {
	sp := SectionProgress{SectionIndex: index, Status: status}
	if status == StatusCompleted {
		t := now.UTC()
		sp.CompletedAt = &t
	}
	return sp
}

const (
	chapterKeyPrefix = "chapter-progress-"
	sectionKeyPrefix = "section-progress-"
)

func ChapterKey(slug string) string { return chapterKeyPrefix + slug }

func SectionKey(slug string, index int) string {
	return sectionKeyPrefix + slug + "-" + strconv.Itoa(index)
}

// SectionPrefix matches every section record of slug, and possibly of slugs that extend
// it with a dash; callers look up exact SectionKey values in the result.
func SectionPrefix(slug string) string { return sectionKeyPrefix + slug + "-" }

// ChapterPrefix matches every chapter record.
func ChapterPrefix() string { return chapterKeyPrefix }

// SlugFromChapterKey reverses ChapterKey.
func SlugFromChapterKey(key string) (string, bool) {
	if !strings.HasPrefix(key, chapterKeyPrefix) || len(key) == len(chapterKeyPrefix) {
		return "", false
	}
	return key[len(chapterKeyPrefix):], true
}

// Rollup derives a chapter status from its section statuses. Missing sections count as
// not started; sections beyond total are ignored.
func Rollup(sections map[int]Status, total int) (Status, int) {
	var completed, inProgress, skipped int
	for i := 0; i < total; i++ {
		switch sections[i] {
		case StatusCompleted:
			completed++
		case StatusInProgress:
			inProgress++
		case StatusSkipped:
			skipped++
		}
	}
	switch {
	case completed == total:
		return StatusCompleted, completed
	case completed+skipped == total:
		return StatusSkipped, completed
	case inProgress > 0 || completed > 0:
		return StatusInProgress, completed
	default:
		return StatusNotStarted, completed
	}
}

type Overall struct {
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Skipped    int `json:"skipped"`
	NotStarted int `json:"notStarted"`
	Percentage int `json:"percentage"`
}

// Summarize counts chapter statuses against the number of chapters in the catalog.
// Chapters without a record, and records that say not_started, are both not started.
func Summarize(totalChapters int, chapters map[string]ChapterProgress) Overall {
	var o Overall
	for _, p := range chapters {
		switch p.Status {
		case StatusCompleted:
			o.Completed++
		case StatusInProgress:
			o.InProgress++
		case StatusSkipped:
			o.Skipped++
		}
	}
	o.NotStarted = totalChapters - o.Completed - o.InProgress - o.Skipped
	if o.NotStarted < 0 {
		o.NotStarted = 0
	}
	if totalChapters > 0 {
		o.Percentage = int(math.Round(float64(o.Completed) / float64(totalChapters) * 100))
	}
	return o
}
