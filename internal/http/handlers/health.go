package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	catalog Catalog
}

func NewHealthHandler(catalog Catalog) *HealthHandler { return &HealthHandler{catalog: catalog} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.catalog == nil {
		c.String(http.StatusOK, "ok")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "chapters": len(h.catalog.Chapters())})
}
