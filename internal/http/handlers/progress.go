package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/textbook-backend/internal/domain/progress"
	"github.com/yungbote/textbook-backend/internal/http/response"
	"github.com/yungbote/textbook-backend/internal/services"
)

type ProgressHandler struct {
	progress services.ProgressService
}

func NewProgressHandler(progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// GET /api/progress
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	ctx := c.Request.Context()
	chapters, err := h.progress.AllChapterProgress(ctx)
	if err != nil {
		response.RespondServiceError(c, "load_progress_failed", err)
		return
	}
	overall, err := h.progress.Overall(ctx)
	if err != nil {
		response.RespondServiceError(c, "load_progress_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"chapters": chapters,
		"overall":  overall,
	})
}

// GET /api/progress/:slug
func (h *ProgressHandler) GetChapterProgress(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")
	cp, err := h.progress.ChapterProgress(ctx, slug)
	if err != nil {
		response.RespondServiceError(c, "load_progress_failed", err)
		return
	}
	sections, err := h.progress.ChapterSections(ctx, slug)
	if err != nil {
		response.RespondServiceError(c, "load_progress_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"chapter":  cp,
		"sections": sections,
	})
}

type saveSectionProgressRequest struct {
	Status string `json:"status" binding:"required"`
}

// PUT /api/progress/:slug/sections/:index
func (h *ProgressHandler) SaveSectionProgress(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_section_index", err)
		return
	}
	var req saveSectionProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	status, err := progress.ParseStatus(req.Status)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_status", err)
		return
	}
	cp, err := h.progress.SaveSectionProgress(c.Request.Context(), c.Param("slug"), index, status)
	if err != nil {
		response.RespondServiceError(c, "save_progress_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"chapter": cp})
}
