package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"berlingo_backend/content"
	"berlingo_backend/logger"
	"berlingo_backend/progress"
	"berlingo_backend/session"
)

const handlerLessons = `{
  "lessons": [
    {
      "id": "lesson_1",
      "title": "Знакомство",
      "exercises": [
        {"type": "mcq", "question": "?", "options": ["Nein", "Ja"], "answer": 1},
        {"type": "input", "question": "?", "answer": "Danke"}
      ]
    },
    {
      "id": "lesson_2",
      "title": "Семья",
      "exercises": [
        {"type": "input", "question": "?", "answer": "Haus"}
      ]
    }
  ]
}`

const handlerRules = `{"grammar": [], "listening": []}`

const handlerPractice = `{"practices": []}`

type testServer struct {
	router  *gin.Engine
	tracker *progress.Tracker
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lessons.json"), []byte(handlerLessons), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.json"), []byte(handlerRules), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "practice.json"), []byte(handlerPractice), 0o644))
	cat, err := content.Load(context.Background(), dir)
	require.NoError(t, err)

	tracker := progress.NewTracker(progress.NewMemory())
	sh := NewSessionHandler(cat, tracker, session.NewManager(), nil, nil, 10, logger.NewNop())
	ch := NewContentHandler(cat, tracker)
	ph := NewProgressHandler(cat, tracker)

	r := gin.New()
	r.GET("/api/lessons", ch.GetLessons)
	r.POST("/api/sessions", sh.StartSession)
	r.GET("/api/sessions/:id", sh.GetSession)
	r.POST("/api/sessions/:id/event", sh.SessionEvent)
	r.POST("/api/sessions/:id/continue", sh.ContinueSession)
	r.POST("/api/sessions/:id/skip", sh.SkipSession)
	r.PUT("/api/settings", ph.UpdateSettings)

	return &testServer{router: r, tracker: tracker}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestLessonSessionOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	w, body := ts.do(t, http.MethodPost, "/api/sessions", gin.H{"kind": "lesson", "id": "lesson_1"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := body["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "exercise", body["phase"])

	// wrong mcq answer costs a heart as soon as the verdict lands
	w, body = ts.do(t, http.MethodPost, "/api/sessions/"+id+"/event", gin.H{"action": "choose_option", "option": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(9), body["hearts"])
	ex := body["exercise"].(map[string]interface{})
	assert.Equal(t, "Неправильно.", ex["feedback"])

	w, body = ts.do(t, http.MethodPost, "/api/sessions/"+id+"/continue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(9), body["hearts"])

	w, body = ts.do(t, http.MethodPost, "/api/sessions/"+id+"/event", gin.H{"action": "check_text", "text": "  danke "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(10), body["points"])

	w, body = ts.do(t, http.MethodPost, "/api/sessions/"+id+"/continue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "finished", body["phase"])

	done, err := ts.tracker.IsDone("lesson_1")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestStartLockedLessonRefused(t *testing.T) {
	ts := newTestServer(t)

	w, _ := ts.do(t, http.MethodPost, "/api/sessions", gin.H{"kind": "lesson", "id": "lesson_2"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// dev mode bypasses the lock
	w, _ = ts.do(t, http.MethodPut, "/api/settings", gin.H{"dev_mode": true})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = ts.do(t, http.MethodPost, "/api/sessions", gin.H{"kind": "lesson", "id": "lesson_2"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestStartUnknownContent(t *testing.T) {
	ts := newTestServer(t)

	w, _ := ts.do(t, http.MethodPost, "/api/sessions", gin.H{"kind": "lesson", "id": "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = ts.do(t, http.MethodPost, "/api/sessions", gin.H{"kind": "quiz", "id": "lesson_1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownSessionAndAction(t *testing.T) {
	ts := newTestServer(t)

	w, _ := ts.do(t, http.MethodGet, "/api/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, body := ts.do(t, http.MethodPost, "/api/sessions", gin.H{"kind": "lesson", "id": "lesson_1"})
	id := body["id"].(string)

	w, _ = ts.do(t, http.MethodPost, "/api/sessions/"+id+"/event", gin.H{"action": "teleport"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// continue before answering
	w, _ = ts.do(t, http.MethodPost, "/api/sessions/"+id+"/continue", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSkipRequiresSetting(t *testing.T) {
	ts := newTestServer(t)

	_, body := ts.do(t, http.MethodPost, "/api/sessions", gin.H{"kind": "lesson", "id": "lesson_1"})
	id := body["id"].(string)

	w, _ := ts.do(t, http.MethodPost, "/api/sessions/"+id+"/skip", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = ts.do(t, http.MethodPut, "/api/settings", gin.H{"skip_enabled": true})
	require.Equal(t, http.StatusOK, w.Code)

	w, body = ts.do(t, http.MethodPost, "/api/sessions/"+id+"/skip", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "finished", body["phase"])
}

func TestGetLessonsLockState(t *testing.T) {
	ts := newTestServer(t)

	w, body := ts.do(t, http.MethodGet, "/api/lessons", nil)
	require.Equal(t, http.StatusOK, w.Code)

	lessons := body["lessons"].([]interface{})
	require.Len(t, lessons, 2)
	first := lessons[0].(map[string]interface{})
	second := lessons[1].(map[string]interface{})
	assert.False(t, first["locked"].(bool))
	assert.True(t, second["locked"].(bool))
}
