package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/textbook-backend/internal/catalog"
	"github.com/yungbote/textbook-backend/internal/content/markup"
	"github.com/yungbote/textbook-backend/internal/domain/chapter"
	"github.com/yungbote/textbook-backend/internal/http/response"
	"github.com/yungbote/textbook-backend/internal/services"
)

// Catalog is the chapter store as the HTTP layer sees it; *catalog.Store satisfies it.
type Catalog interface {
	Chapters() []chapter.Chapter
	ChapterBySlug(slug string) (*chapter.Chapter, error)
	Neighbors(slug string) (prev, next *chapter.Summary, err error)
	Search(query string) []catalog.SearchResult
}

type ChapterHandler struct {
	catalog Catalog
	reader  services.ReaderService
}

func NewChapterHandler(catalog Catalog, reader services.ReaderService) *ChapterHandler {
	return &ChapterHandler{catalog: catalog, reader: reader}
}

// GET /api/chapters
func (h *ChapterHandler) ListChapters(c *gin.Context) {
	chapters := h.catalog.Chapters()
	out := make([]chapter.Summary, 0, len(chapters))
	for _, ch := range chapters {
		out = append(out, ch.Summary())
	}
	response.RespondOK(c, gin.H{"chapters": out})
}

// GET /api/chapters/:slug
func (h *ChapterHandler) GetChapter(c *gin.Context) {
	slug := c.Param("slug")
	ch, err := h.catalog.ChapterBySlug(slug)
	if err != nil {
		response.RespondServiceError(c, "load_chapter_failed", err)
		return
	}
	prev, next, err := h.catalog.Neighbors(slug)
	if err != nil {
		response.RespondServiceError(c, "load_chapter_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"chapter": ch,
		"prev":    prev,
		"next":    next,
	})
}

// GET /api/chapters/:slug/render
func (h *ChapterHandler) RenderChapter(c *gin.Context) {
	opts, err := renderOptions(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_highlight", err)
		return
	}
	sections, err := h.reader.RenderChapter(c.Request.Context(), c.Param("slug"), opts)
	if err != nil {
		response.RespondServiceError(c, "render_chapter_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"sections": sections})
}

// GET /api/chapters/:slug/sections/:index?format=json|html
func (h *ChapterHandler) GetSection(c *gin.Context) {
	slug := c.Param("slug")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_section_index", err)
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "json")))
	if format != "json" && format != "html" {
		response.RespondError(c, http.StatusBadRequest, "invalid_format", errors.New("format must be json or html"))
		return
	}
	opts, err := renderOptions(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_highlight", err)
		return
	}

	ctx := c.Request.Context()
	etag, err := h.reader.SectionETag(ctx, slug, index, opts)
	if err != nil {
		response.RespondServiceError(c, "render_section_failed", err)
		return
	}
	// The representation differs per format, so the tag does too.
	quoted := `"` + etag + "-" + format + `"`
	c.Header("ETag", quoted)
	c.Header("Cache-Control", "no-cache")
	if etagMatches(c.GetHeader("If-None-Match"), quoted) {
		c.Status(http.StatusNotModified)
		return
	}

	rendered, err := h.reader.RenderSection(ctx, slug, index, opts)
	if err != nil {
		response.RespondServiceError(c, "render_section_failed", err)
		return
	}
	if format == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(rendered.HTML))
		return
	}
	response.RespondOK(c, gin.H{"section": rendered})
}

// GET /api/search?q=
func (h *ChapterHandler) Search(c *gin.Context) {
	results := h.catalog.Search(c.Query("q"))
	if results == nil {
		results = []catalog.SearchResult{}
	}
	response.RespondOK(c, gin.H{"results": results})
}

// renderOptions reads density, underline, color and diagnostics=hide from the query.
func renderOptions(c *gin.Context) (services.RenderOptions, error) {
	hl, err := markup.ParseHighlightSettings(c.Query("density"), c.Query("underline"), c.Query("color"))
	if err != nil {
		return services.RenderOptions{}, err
	}
	return services.RenderOptions{
		Highlight:       hl,
		HideDiagnostics: strings.EqualFold(c.Query("diagnostics"), "hide"),
	}, nil
}

func etagMatches(header, etag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}
