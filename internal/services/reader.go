package services

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/zeebo/blake3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/textbook-backend/internal/cache"
	"github.com/yungbote/textbook-backend/internal/content/markup"
	"github.com/yungbote/textbook-backend/internal/domain/chapter"
	"github.com/yungbote/textbook-backend/internal/observability"
	apperr "github.com/yungbote/textbook-backend/internal/pkg/errors"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
)

// ChapterSource is the read side of the chapter catalog.
type ChapterSource interface {
	Chapters() []chapter.Chapter
	ChapterBySlug(slug string) (*chapter.Chapter, error)
}

// GlossarySource yields the current term table and a version that changes with it.
type GlossarySource interface {
	Glossary() (*markup.MapGlossary, string)
}

type RenderOptions struct {
	Highlight       markup.HighlightSettings
	HideDiagnostics bool
}

// RenderedSection is the cacheable result of rendering one section.
type RenderedSection struct {
	ChapterSlug          string                `json:"chapterSlug"`
	Index                int                   `json:"index"`
	Title                string                `json:"title"`
	ETag                 string                `json:"etag"`
	Document             json.RawMessage       `json:"document"`
	HTML                 string                `json:"html"`
	MissingGlossaryTerms []string              `json:"missingGlossaryTerms"`
	DroppedMedia         []markup.DroppedMedia `json:"droppedMedia,omitempty"`
	Media                []chapter.MediaEmbed  `json:"media,omitempty"`
}

type ReaderService interface {
	SectionETag(ctx context.Context, slug string, index int, opts RenderOptions) (string, error)
	RenderSection(ctx context.Context, slug string, index int, opts RenderOptions) (*RenderedSection, error)
	RenderChapter(ctx context.Context, slug string, opts RenderOptions) ([]*RenderedSection, error)
}

type readerService struct {
	log      *logger.Logger
	chapters ChapterSource
	glossary GlossarySource
	cache    cache.Cache
	ttl      time.Duration
	metrics  *observability.Metrics
}

// NewReaderService renders through c when it is non-nil; m may be nil.
func NewReaderService(log *logger.Logger, chapters ChapterSource, glossary GlossarySource, c cache.Cache, ttl time.Duration, m *observability.Metrics) ReaderService {
	return &readerService{
		log:      log.With("service", "ReaderService"),
		chapters: chapters,
		glossary: glossary,
		cache:    c,
		ttl:      ttl,
		metrics:  m,
	}
}

func (rs *readerService) section(slug string, index int) (*chapter.Chapter, *chapter.Section, error) {
	ch, err := rs.chapters.ChapterBySlug(slug)
	if err != nil {
		return nil, nil, err
	}
	sec, ok := ch.Section(index)
	if !ok {
		return nil, nil, fmt.Errorf("chapter %q section %d: %w", slug, index, apperr.ErrNotFound)
	}
	return ch, sec, nil
}

func (rs *readerService) SectionETag(ctx context.Context, slug string, index int, opts RenderOptions) (string, error) {
	_, sec, err := rs.section(slug, index)
	if err != nil {
		return "", err
	}
	_, version := rs.glossary.Glossary()
	return sectionETag(slug, index, sec, version, opts), nil
}

func (rs *readerService) RenderSection(ctx context.Context, slug string, index int, opts RenderOptions) (*RenderedSection, error) {
	ctx, span := observability.Tracer().Start(ctx, "reader.RenderSection")
	defer span.End()
	span.SetAttributes(attribute.String("chapter.slug", slug), attribute.Int("section.index", index))

	_, sec, err := rs.section(slug, index)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "section lookup failed")
		return nil, err
	}
	glossary, version := rs.glossary.Glossary()
	etag := sectionETag(slug, index, sec, version, opts)

	if cached, ok := rs.cached(ctx, etag); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	out, err := rs.render(slug, index, sec, glossary, etag, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, err
	}
	rs.store(ctx, out)
	return out, nil
}

func (rs *readerService) RenderChapter(ctx context.Context, slug string, opts RenderOptions) ([]*RenderedSection, error) {
	ctx, span := observability.Tracer().Start(ctx, "reader.RenderChapter")
	defer span.End()
	span.SetAttributes(attribute.String("chapter.slug", slug))

	ch, err := rs.chapters.ChapterBySlug(slug)
	if err != nil {
		return nil, err
	}
	out := make([]*RenderedSection, len(ch.Sections))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range ch.Sections {
		g.Go(func() error {
			rendered, err := rs.RenderSection(gctx, slug, i, opts)
			if err != nil {
				return err
			}
			out[i] = rendered
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chapter render failed")
		return nil, err
	}
	return out, nil
}

func (rs *readerService) render(slug string, index int, sec *chapter.Section, glossary markup.Glossary, etag string, opts RenderOptions) (*RenderedSection, error) {
	start := time.Now()
	doc := markup.Render(sec.Content, sec.Media, glossary)
	rs.metrics.ObserveRender("document", time.Since(start))

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	htmlStart := time.Now()
	body, err := markup.HTML(doc, sec.Media, markup.HTMLOptions{
		Highlight:       opts.Highlight,
		Models:          sec.Models,
		HideDiagnostics: opts.HideDiagnostics,
	})
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	rs.metrics.ObserveRender("html", time.Since(htmlStart))

	if len(doc.MissingGlossaryTerms) > 0 || len(doc.DroppedMedia) > 0 {
		rs.log.Debug("Section rendered with diagnostics",
			"chapter", slug,
			"section", index,
			"missing_terms", len(doc.MissingGlossaryTerms),
			"dropped_media", len(doc.DroppedMedia),
		)
	}
	return &RenderedSection{
		ChapterSlug:          slug,
		Index:                index,
		Title:                sec.Title,
		ETag:                 etag,
		Document:             raw,
		HTML:                 body,
		MissingGlossaryTerms: doc.MissingGlossaryTerms,
		DroppedMedia:         doc.DroppedMedia,
		Media:                sec.Media,
	}, nil
}

func (rs *readerService) cached(ctx context.Context, etag string) (*RenderedSection, bool) {
	if rs.cache == nil {
		return nil, false
	}
	raw, ok, err := rs.cache.Get(ctx, etag)
	if err != nil {
		rs.log.Warn("Render cache read failed", "error", err)
		return nil, false
	}
	if !ok {
		rs.metrics.ObserveRenderCache("miss")
		return nil, false
	}
	var out RenderedSection
	if err := json.Unmarshal(raw, &out); err != nil {
		rs.log.Warn("Render cache entry unreadable", "error", err)
		return nil, false
	}
	rs.metrics.ObserveRenderCache("hit")
	return &out, true
}

func (rs *readerService) store(ctx context.Context, out *RenderedSection) {
	if rs.cache == nil {
		return
	}
	raw, err := json.Marshal(out)
	if err != nil {
		rs.log.Warn("Render cache encode failed", "error", err)
		return
	}
	if err := rs.cache.Set(ctx, out.ETag, raw, rs.ttl); err != nil {
		rs.log.Warn("Render cache write failed", "error", err)
	}
}

// sectionETag digests every input that can change the rendered output.
func sectionETag(slug string, index int, sec *chapter.Section, glossaryVersion string, opts RenderOptions) string {
	h := blake3.New()
	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = h.Write([]byte(p))
			_, _ = h.Write([]byte{0})
		}
	}
	media, _ := json.Marshal(sec.Media)
	models, _ := json.Marshal(sec.Models)
	write(
		slug,
		strconv.Itoa(index),
		sec.Title,
		sec.Content,
		string(media),
		string(models),
		glossaryVersion,
		string(opts.Highlight.Density),
		string(opts.Highlight.Underline),
		string(opts.Highlight.Color),
		strconv.FormatBool(opts.HideDiagnostics),
	)
	return hex.EncodeToString(h.Sum(nil)[:16])
}
