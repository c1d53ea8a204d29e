package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"berlingo_backend/content"
	"berlingo_backend/exercise"
	"berlingo_backend/logger"
	"berlingo_backend/progress"
	"berlingo_backend/session"
	"berlingo_backend/speech"
)

type SessionHandler struct {
	catalog    *content.Catalog
	tracker    *progress.Tracker
	manager    *session.Manager
	speaker    exercise.Speaker
	recognizer speech.Recognizer
	hearts     int
	log        *logger.Logger
}

func NewSessionHandler(
	catalog *content.Catalog,
	tracker *progress.Tracker,
	manager *session.Manager,
	speaker exercise.Speaker,
	recognizer speech.Recognizer,
	hearts int,
	log *logger.Logger,
) *SessionHandler {
	return &SessionHandler{
		catalog:    catalog,
		tracker:    tracker,
		manager:    manager,
		speaker:    speaker,
		recognizer: recognizer,
		hearts:     hearts,
		log:        log,
	}
}

type startRequest struct {
	Kind    string `json:"kind" binding:"required"` // lesson, rule or practice
	ID      string `json:"id" binding:"required"`
	Section string `json:"section"` // grammar or listening, rules only
}

// StartSession opens a new run over a lesson, rule or practice and returns
// its first view. Locked content is refused unless dev mode is on.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dev, err := h.tracker.Flag(progress.FlagDevMode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read settings"})
		return
	}

	deps := session.Deps{
		Speaker:       h.speaker,
		HasRecognizer: h.recognizer != nil,
		Hearts:        h.hearts,
	}

	var s *session.Session
	switch req.Kind {
	case "lesson":
		lesson, ok := h.catalog.Lesson(req.ID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
			return
		}
		if !dev {
			unlocked, err := h.catalog.LessonUnlocked(h.tracker, h.catalog.LessonIndex(req.ID))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read progress"})
				return
			}
			if !unlocked {
				c.JSON(http.StatusForbidden, gin.H{"error": "Lesson is locked"})
				return
			}
		}
		s = session.NewLesson(h.catalog, h.tracker, lesson, deps)

	case "rule":
		rule, ok := h.catalog.Rule(req.Section, req.ID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
			return
		}
		s = session.NewRule(h.catalog, h.tracker, rule, deps)

	case "practice":
		p, ok := h.catalog.Practice(req.ID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Practice not found"})
			return
		}
		if !dev {
			unlocked, err := h.catalog.PracticeUnlocked(h.tracker, p)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read progress"})
				return
			}
			if !unlocked {
				c.JSON(http.StatusForbidden, gin.H{"error": "Practice is locked"})
				return
			}
		}
		s = session.NewPractice(h.catalog, h.tracker, p, deps)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown session kind"})
		return
	}

	h.manager.Put(s)
	h.log.Info("session started", "id", s.ID, "kind", s.Kind, "content", s.ContentID)
	c.JSON(http.StatusCreated, s.View())
}

// GetSession returns the current view of a running session.
func (h *SessionHandler) GetSession(c *gin.Context) {
	s, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, s.View())
}

// AdvanceSession moves past the current theory page or the vocab step.
func (h *SessionHandler) AdvanceSession(c *gin.Context) {
	s, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err := s.Advance(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.View())
}

type eventRequest struct {
	Action string   `json:"action" binding:"required"`
	Option int      `json:"option"`
	Text   string   `json:"text"`
	Order  []string `json:"order"`
	Word   int      `json:"word"`
}

// SessionEvent applies one interaction to the current exercise: an option
// click, a text check, a reorder, a match selection, a replay or a speak
// request. Continue has its own endpoint.
func (h *SessionHandler) SessionEvent(c *gin.Context) {
	s, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.WithInstance(func(in *exercise.Instance) error {
		switch req.Action {
		case "choose_option":
			return in.ChooseOption(req.Option)
		case "check_text":
			return in.CheckText(req.Text)
		case "replay":
			return in.Replay()
		case "arrange":
			return in.Arrange(req.Order)
		case "check_order":
			return in.CheckOrder()
		case "select_left":
			return in.SelectLeft(req.Text)
		case "select_right":
			return in.SelectRight(req.Text)
		case "check_matches":
			return in.CheckMatches()
		case "speak_phrase":
			return in.SpeakPhrase()
		case "speak_word":
			return in.SpeakWord(req.Word)
		default:
			return errUnknownAction
		}
	})
	if err != nil {
		h.writeExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

// ContinueSession acknowledges a resolved exercise and moves to the next
// step.
func (h *SessionHandler) ContinueSession(c *gin.Context) {
	s, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	err := s.WithInstance(func(in *exercise.Instance) error {
		return in.Continue()
	})
	if err != nil {
		h.writeExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

type pronounceRequest struct {
	Audio    string `json:"audio" binding:"required"` // base64
	Encoding string `json:"encoding"`
}

// PronounceSession feeds recorded audio through speech recognition into
// the current pronounce exercise. Recognition failures keep the attempt
// open, so the learner can retry.
func (h *SessionHandler) PronounceSession(c *gin.Context) {
	s, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if h.recognizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Speech recognition is not configured"})
		return
	}
	var req pronounceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid audio encoding"})
		return
	}

	transcript, recErr := h.recognizer.Recognize(c.Request.Context(), audio, req.Encoding)
	if recErr != nil {
		h.log.Warn("recognition failed", "session", s.ID, "error", recErr)
	}
	err = s.WithInstance(func(in *exercise.Instance) error {
		return in.SubmitTranscript(transcript, recErr)
	})
	if err != nil {
		h.writeExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

// RestartSession rewinds a session to its first step.
func (h *SessionHandler) RestartSession(c *gin.Context) {
	s, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err := s.Restart(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset progress"})
		return
	}
	c.JSON(http.StatusOK, s.View())
}

// SkipSession completes the remaining exercises at once. It is gated on
// the skip setting.
func (h *SessionHandler) SkipSession(c *gin.Context) {
	s, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	enabled, err := h.tracker.Flag(progress.FlagSkipEnabled)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read settings"})
		return
	}
	if !enabled {
		c.JSON(http.StatusForbidden, gin.H{"error": "Skipping is disabled"})
		return
	}
	if err := s.Skip(); err != nil {
		h.writeExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

// DeleteSession drops a session from the registry.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	h.manager.Delete(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

var errUnknownAction = errors.New("unknown action")

func (h *SessionHandler) writeExerciseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errUnknownAction),
		errors.Is(err, exercise.ErrWrongKind),
		errors.Is(err, exercise.ErrBadOption),
		errors.Is(err, exercise.ErrBadArrangement):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, exercise.ErrNotResolved),
		errors.Is(err, exercise.ErrAlreadyContinued),
		errors.Is(err, session.ErrNotExercise),
		errors.Is(err, session.ErrOver):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, exercise.ErrNoRecognizer):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
