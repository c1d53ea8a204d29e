package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"berlingo_backend/content"
)

type HealthHandler struct {
	db      *sql.DB
	catalog *content.Catalog
}

func NewHealthHandler(db *sql.DB, catalog *content.Catalog) *HealthHandler {
	return &HealthHandler{db: db, catalog: catalog}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "Database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"lessons": len(h.catalog.Lessons),
	})
}
