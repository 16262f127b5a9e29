package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/textbook-backend/internal/http/response"
	"github.com/yungbote/textbook-backend/internal/services"
)

type GlossaryHandler struct {
	glossary services.GlossarySource
}

func NewGlossaryHandler(glossary services.GlossarySource) *GlossaryHandler {
	return &GlossaryHandler{glossary: glossary}
}

// GET /api/glossary
func (h *GlossaryHandler) GetGlossary(c *gin.Context) {
	g, version := h.glossary.Glossary()
	response.RespondOK(c, gin.H{
		"terms":   g.Entries(),
		"version": version,
	})
}
