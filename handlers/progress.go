package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"berlingo_backend/content"
	"berlingo_backend/progress"
)

type ProgressHandler struct {
	catalog *content.Catalog
	tracker *progress.Tracker
}

func NewProgressHandler(catalog *content.Catalog, tracker *progress.Tracker) *ProgressHandler {
	return &ProgressHandler{catalog: catalog, tracker: tracker}
}

// GetProgress returns the completion record of every known content id.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	records := make(map[string]progress.Record)
	add := func(id string) bool {
		rec, err := h.tracker.Record(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read progress"})
			return false
		}
		records[id] = rec
		return true
	}
	for i := range h.catalog.Lessons {
		if !add(h.catalog.Lessons[i].ID) {
			return
		}
	}
	for i := range h.catalog.Rules.Grammar {
		if !add(h.catalog.Rules.Grammar[i].ID) {
			return
		}
	}
	for i := range h.catalog.Rules.Listening {
		if !add(h.catalog.Rules.Listening[i].ID) {
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"progress": records})
}

// ResetProgress wipes every stored record and setting.
func (h *ProgressHandler) ResetProgress(c *gin.Context) {
	if err := h.tracker.Reset(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// GetSettings reads the global flags.
func (h *ProgressHandler) GetSettings(c *gin.Context) {
	dev, err := h.tracker.Flag(progress.FlagDevMode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read settings"})
		return
	}
	skip, err := h.tracker.Flag(progress.FlagSkipEnabled)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dev_mode": dev, "skip_enabled": skip})
}

type settingsRequest struct {
	DevMode     *bool `json:"dev_mode"`
	SkipEnabled *bool `json:"skip_enabled"`
}

// UpdateSettings toggles the global flags. Absent fields are untouched.
func (h *ProgressHandler) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DevMode != nil {
		if err := h.tracker.SetFlag(progress.FlagDevMode, *req.DevMode); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
			return
		}
	}
	if req.SkipEnabled != nil {
		if err := h.tracker.SetFlag(progress.FlagSkipEnabled, *req.SkipEnabled); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
			return
		}
	}
	h.GetSettings(c)
}
