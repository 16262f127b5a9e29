// Package catalog loads the chapter file and the glossary that the reader renders from.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/yungbote/textbook-backend/internal/domain/chapter"
	apperr "github.com/yungbote/textbook-backend/internal/pkg/errors"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
)

// Store serves chapters from a JSON file, reloading it when the file changes on disk.
// Returned chapters are shared snapshots and must be treated as read-only.
type Store struct {
	log       *logger.Logger
	file      *watchedFile
	refreshMu sync.Mutex // held across poll and swap

	mu       sync.RWMutex
	chapters []chapter.Chapter
	bySlug   map[string]int
	version  string
}

func NewStore(path string, baseLog *logger.Logger) *Store {
	return &Store{
		log:    baseLog.With("service", "ChapterStore", "path", path),
		file:   &watchedFile{path: path},
		bySlug: map[string]int{},
	}
}

func (s *Store) Path() string { return s.file.path }

func (s *Store) refresh() {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	st, err := s.file.poll()
	if err != nil {
		s.log.Warn("Could not read chapters file", "error", err)
		return
	}
	if !st.changed {
		return
	}
	var chapters []chapter.Chapter
	if st.missing {
		s.log.Warn("Chapters file not found; serving no chapters")
	} else if err := json.Unmarshal(st.data, &chapters); err != nil {
		s.log.Warn("Could not parse chapters file; serving no chapters", "error", err)
		chapters = nil
	}
	sortChapters(chapters)
	bySlug := make(map[string]int, len(chapters))
	for i, c := range chapters {
		if _, dup := bySlug[c.Slug]; dup {
			s.log.Warn("Duplicate chapter slug; keeping the first", "slug", c.Slug)
			continue
		}
		bySlug[c.Slug] = i
	}
	version := ""
	if st.data != nil && chapters != nil {
		version = digest(st.data)
	}

	s.mu.Lock()
	s.chapters, s.bySlug, s.version = chapters, bySlug, version
	s.mu.Unlock()
	s.log.Info("Chapters loaded", "count", len(chapters), "version", version)
}

func sortChapters(chapters []chapter.Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool { return chapters[i].Order < chapters[j].Order })
}

// Chapters returns every chapter ordered by Order.
func (s *Store) Chapters() []chapter.Chapter {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chapters
}

// Version identifies the loaded file contents; empty when nothing is loaded.
func (s *Store) Version() string {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) ChapterBySlug(slug string) (*chapter.Chapter, error) {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("chapter %q: %w", slug, apperr.ErrNotFound)
	}
	return &s.chapters[i], nil
}

// Neighbors returns the chapters before and after slug in reading order.
func (s *Store) Neighbors(slug string) (prev, next *chapter.Summary, err error) {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.bySlug[slug]
	if !ok {
		return nil, nil, fmt.Errorf("chapter %q: %w", slug, apperr.ErrNotFound)
	}
	if i > 0 {
		p := s.chapters[i-1].Summary()
		prev = &p
	}
	if i+1 < len(s.chapters) {
		n := s.chapters[i+1].Summary()
		next = &n
	}
	return prev, next, nil
}

// Save writes chapters as indented JSON, creating the directory if needed, and makes
// them the current snapshot.
func (s *Store) Save(chapters []chapter.Chapter) error {
	out := make([]chapter.Chapter, len(chapters))
	copy(out, chapters)
	sortChapters(out)

	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode chapters: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.file.path), 0o755); err != nil {
		return fmt.Errorf("create chapters dir: %w", err)
	}
	tmp := s.file.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write chapters: %w", err)
	}
	if err := os.Rename(tmp, s.file.path); err != nil {
		return fmt.Errorf("replace chapters: %w", err)
	}
	s.file.forget()
	s.refresh()
	s.log.Info("Chapters saved", "count", len(out))
	return nil
}
