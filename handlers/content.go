package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"berlingo_backend/content"
	"berlingo_backend/models"
	"berlingo_backend/progress"
)

type ContentHandler struct {
	catalog *content.Catalog
	tracker *progress.Tracker
}

func NewContentHandler(catalog *content.Catalog, tracker *progress.Tracker) *ContentHandler {
	return &ContentHandler{catalog: catalog, tracker: tracker}
}

type contentItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Level  string `json:"level,omitempty"`
	Intro  string `json:"intro,omitempty"`
	Locked bool   `json:"locked"`
	Done   bool   `json:"done"`
	Points int    `json:"points,omitempty"`
	Hearts int    `json:"hearts,omitempty"`
}

// GetLessons lists the lesson track with per-lesson lock and completion
// state. Dev mode unlocks everything.
func (h *ContentHandler) GetLessons(c *gin.Context) {
	dev, err := h.tracker.Flag(progress.FlagDevMode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read settings"})
		return
	}

	items := make([]contentItem, 0, len(h.catalog.Lessons))
	for i := range h.catalog.Lessons {
		l := &h.catalog.Lessons[i]
		unlocked := dev
		if !unlocked {
			unlocked, err = h.catalog.LessonUnlocked(h.tracker, i)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read progress"})
				return
			}
		}
		rec, err := h.tracker.Record(l.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read progress"})
			return
		}
		items = append(items, contentItem{
			ID:     l.ID,
			Title:  l.Title,
			Level:  l.Level,
			Intro:  l.Intro,
			Locked: !unlocked,
			Done:   rec.Done,
			Points: rec.Points,
			Hearts: rec.Hearts,
		})
	}
	c.JSON(http.StatusOK, gin.H{"lessons": items})
}

// GetRules lists the grammar and listening rule sections. Rules are never
// locked; completion still shows.
func (h *ContentHandler) GetRules(c *gin.Context) {
	grammar, err := h.ruleItems(h.catalog.Rules.Grammar)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read progress"})
		return
	}
	listening, err := h.ruleItems(h.catalog.Rules.Listening)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"grammar": grammar, "listening": listening})
}

func (h *ContentHandler) ruleItems(rules []models.Rule) ([]contentItem, error) {
	items := make([]contentItem, 0, len(rules))
	for i := range rules {
		r := &rules[i]
		rec, err := h.tracker.Record(r.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, contentItem{
			ID:     r.ID,
			Title:  r.Title,
			Level:  r.Level,
			Intro:  r.Intro,
			Done:   rec.Done,
			Points: rec.Points,
			Hearts: rec.Hearts,
		})
	}
	return items, nil
}

// GetPractices lists the endless practice drills; each unlocks once all of
// its base lessons are done.
func (h *ContentHandler) GetPractices(c *gin.Context) {
	dev, err := h.tracker.Flag(progress.FlagDevMode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read settings"})
		return
	}

	items := make([]contentItem, 0, len(h.catalog.Practices))
	for i := range h.catalog.Practices {
		p := &h.catalog.Practices[i]
		unlocked := dev
		if !unlocked {
			unlocked, err = h.catalog.PracticeUnlocked(h.tracker, p)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read progress"})
				return
			}
		}
		items = append(items, contentItem{
			ID:     p.ID,
			Title:  p.Description,
			Locked: !unlocked,
		})
	}
	c.JSON(http.StatusOK, gin.H{"practices": items})
}
