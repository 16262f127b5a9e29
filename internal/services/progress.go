package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	progressrepo "github.com/yungbote/textbook-backend/internal/data/repos/progress"
	"github.com/yungbote/textbook-backend/internal/domain/chapter"
	"github.com/yungbote/textbook-backend/internal/domain/progress"
	"github.com/yungbote/textbook-backend/internal/observability"
	apperr "github.com/yungbote/textbook-backend/internal/pkg/errors"
	"github.com/yungbote/textbook-backend/internal/platform/apierr"
	"github.com/yungbote/textbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
	"github.com/yungbote/textbook-backend/internal/realtime"
)

// ProgressService reads and writes the calling learner's progress (see ctxutil.LearnerID).
type ProgressService interface {
	SectionProgress(ctx context.Context, slug string, index int) (progress.SectionProgress, error)
	ChapterSections(ctx context.Context, slug string) ([]progress.SectionProgress, error)
	ChapterProgress(ctx context.Context, slug string) (progress.ChapterProgress, error)
	SaveSectionProgress(ctx context.Context, slug string, index int, status progress.Status) (progress.ChapterProgress, error)
	AllChapterProgress(ctx context.Context) (map[string]progress.ChapterProgress, error)
	Overall(ctx context.Context) (progress.Overall, error)
}

type progressService struct {
	log      *logger.Logger
	repo     progressrepo.KVRepo
	chapters ChapterSource
	notifier realtime.Notifier
	metrics  *observability.Metrics
	now      func() time.Time
}

func NewProgressService(log *logger.Logger, repo progressrepo.KVRepo, chapters ChapterSource, notifier realtime.Notifier, m *observability.Metrics) ProgressService {
	return &progressService{
		log:      log.With("service", "ProgressService"),
		repo:     repo,
		chapters: chapters,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
	}
}

func (ps *progressService) chapter(slug string, index int) (*chapter.Chapter, error) {
	ch, err := ps.chapters.ChapterBySlug(slug)
	if err != nil {
		return nil, err
	}
	if index >= 0 {
		if _, ok := ch.Section(index); !ok {
			return nil, fmt.Errorf("section index %d out of range for %q: %w", index, slug, apperr.ErrInvalidArgument)
		}
	}
	return ch, nil
}

func (ps *progressService) SectionProgress(ctx context.Context, slug string, index int) (progress.SectionProgress, error) {
	if _, err := ps.chapter(slug, index); err != nil {
		return progress.SectionProgress{}, err
	}
	learnerID := ctxutil.LearnerID(ctx)
	raw, ok, err := ps.repo.Get(ctx, learnerID, progress.SectionKey(slug, index))
	if err != nil {
		return progress.SectionProgress{}, fmt.Errorf("load section progress: %w", err)
	}
	if !ok {
		return progress.SectionProgress{SectionIndex: index, Status: progress.StatusNotStarted}, nil
	}
	return ps.decodeSection(raw, index), nil
}

func (ps *progressService) ChapterSections(ctx context.Context, slug string) ([]progress.SectionProgress, error) {
	ch, err := ps.chapter(slug, -1)
	if err != nil {
		return nil, err
	}
	return ps.loadSections(ctx, ctxutil.LearnerID(ctx), slug, len(ch.Sections))
}

func (ps *progressService) loadSections(ctx context.Context, learnerID uuid.UUID, slug string, total int) ([]progress.SectionProgress, error) {
	entries, err := ps.repo.List(ctx, learnerID, progress.SectionPrefix(slug))
	if err != nil {
		return nil, fmt.Errorf("list section progress: %w", err)
	}
	out := make([]progress.SectionProgress, total)
	for i := range out {
		raw, ok := entries[progress.SectionKey(slug, i)]
		if !ok {
			out[i] = progress.SectionProgress{SectionIndex: i, Status: progress.StatusNotStarted}
			continue
		}
		out[i] = ps.decodeSection(raw, i)
	}
	return out, nil
}

// decodeSection treats an unreadable record as not started.
func (ps *progressService) decodeSection(raw []byte, index int) progress.SectionProgress {
	var sp progress.SectionProgress
	if err := json.Unmarshal(raw, &sp); err != nil || !sp.Status.Valid() {
		ps.log.Warn("Discarding unreadable section progress", "section", index, "error", err)
		return progress.SectionProgress{SectionIndex: index, Status: progress.StatusNotStarted}
	}
	sp.SectionIndex = index
	return sp
}

func (ps *progressService) ChapterProgress(ctx context.Context, slug string) (progress.ChapterProgress, error) {
	ch, err := ps.chapter(slug, -1)
	if err != nil {
		return progress.ChapterProgress{}, err
	}
	raw, ok, err := ps.repo.Get(ctx, ctxutil.LearnerID(ctx), progress.ChapterKey(slug))
	if err != nil {
		return progress.ChapterProgress{}, fmt.Errorf("load chapter progress: %w", err)
	}
	empty := progress.ChapterProgress{
		ChapterSlug:   slug,
		Status:        progress.StatusNotStarted,
		TotalSections: len(ch.Sections),
	}
	if !ok {
		return empty, nil
	}
	var cp progress.ChapterProgress
	if err := json.Unmarshal(raw, &cp); err != nil || !cp.Status.Valid() {
		ps.log.Warn("Discarding unreadable chapter progress", "chapter", slug, "error", err)
		return empty, nil
	}
	cp.ChapterSlug = slug
	return cp, nil
}

func (ps *progressService) SaveSectionProgress(ctx context.Context, slug string, index int, status progress.Status) (progress.ChapterProgress, error) {
	ctx, span := observability.Tracer().Start(ctx, "progress.SaveSectionProgress")
	defer span.End()
	span.SetAttributes(
		attribute.String("chapter.slug", slug),
		attribute.Int("section.index", index),
		attribute.String("progress.status", string(status)),
	)

	if !status.Valid() {
		return progress.ChapterProgress{}, fmt.Errorf("unknown progress status %q: %w", status, apperr.ErrInvalidArgument)
	}
	ch, err := ps.chapter(slug, index)
	if err != nil {
		return progress.ChapterProgress{}, err
	}
	learnerID := ctxutil.LearnerID(ctx)
	now := ps.now().UTC()
	total := len(ch.Sections)

	sections, err := ps.loadSections(ctx, learnerID, slug, total)
	if err != nil {
		return progress.ChapterProgress{}, err
	}
	sp := progress.NewSectionProgress(index, status, now)
	sections[index] = sp

	statuses := make(map[int]progress.Status, total)
	for _, s := range sections {
		statuses[s.SectionIndex] = s.Status
	}
	rolled, completed := progress.Rollup(statuses, total)
	cp := progress.ChapterProgress{
		ChapterSlug:       slug,
		Status:            rolled,
		SectionsCompleted: completed,
		TotalSections:     total,
		LastAccessed:      &now,
	}

	sectionRaw, err := json.Marshal(sp)
	if err != nil {
		return progress.ChapterProgress{}, fmt.Errorf("encode section progress: %w", err)
	}
	chapterRaw, err := json.Marshal(cp)
	if err != nil {
		return progress.ChapterProgress{}, fmt.Errorf("encode chapter progress: %w", err)
	}
	if err := ps.repo.PutMany(ctx, learnerID, map[string][]byte{
		progress.SectionKey(slug, index): sectionRaw,
		progress.ChapterKey(slug):        chapterRaw,
	}); err != nil {
		ps.log.Error("Failed to save progress", "chapter", slug, "section", index, "learner_id", learnerID.String(), "error", err)
		return progress.ChapterProgress{}, apierr.Unavailable("progress_store_unavailable", fmt.Errorf("save progress: %w", err))
	}
	ps.metrics.IncProgressUpdate(string(status))

	if ps.notifier != nil {
		ps.notifier.SectionProgressChanged(ctx, learnerID, realtime.SectionProgressChanged{
			ChapterSlug:  slug,
			SectionIndex: index,
			NewStatus:    status,
		})
		ps.notifier.ChapterProgressChanged(ctx, learnerID, cp)
	}
	return cp, nil
}

// AllChapterProgress returns stored chapter records keyed by slug. Records for chapters
// no longer in the catalog are omitted.
func (ps *progressService) AllChapterProgress(ctx context.Context) (map[string]progress.ChapterProgress, error) {
	entries, err := ps.repo.List(ctx, ctxutil.LearnerID(ctx), progress.ChapterPrefix())
	if err != nil {
		return nil, fmt.Errorf("list chapter progress: %w", err)
	}
	known := map[string]struct{}{}
	for _, ch := range ps.chapters.Chapters() {
		known[ch.Slug] = struct{}{}
	}
	out := make(map[string]progress.ChapterProgress, len(entries))
	for key, raw := range entries {
		slug, ok := progress.SlugFromChapterKey(key)
		if !ok {
			continue
		}
		if _, ok := known[slug]; !ok {
			continue
		}
		var cp progress.ChapterProgress
		if err := json.Unmarshal(raw, &cp); err != nil || !cp.Status.Valid() {
			ps.log.Warn("Discarding unreadable chapter progress", "chapter", slug, "error", err)
			continue
		}
		cp.ChapterSlug = slug
		out[slug] = cp
	}
	return out, nil
}

func (ps *progressService) Overall(ctx context.Context) (progress.Overall, error) {
	all, err := ps.AllChapterProgress(ctx)
	if err != nil {
		return progress.Overall{}, err
	}
	return progress.Summarize(len(ps.chapters.Chapters()), all), nil
}
