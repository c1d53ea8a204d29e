package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"berlingo_backend/content"
	"berlingo_backend/exercise"
	"berlingo_backend/handlers"
	"berlingo_backend/logger"
	"berlingo_backend/progress"
	"berlingo_backend/session"
	"berlingo_backend/speech"
	"berlingo_backend/tts"
)

// Deps carries everything the handlers need.
type Deps struct {
	DB         *sql.DB
	Catalog    *content.Catalog
	Tracker    *progress.Tracker
	Sessions   *session.Manager
	Speaker    exercise.Speaker
	Recognizer speech.Recognizer
	TTSClient  *tts.Client
	TTSSpeaker *speech.Speaker
	TTSLang    string
	Hearts     int
	Log        *logger.Logger
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, d Deps) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(d.DB, d.Catalog)
	contentHandler := handlers.NewContentHandler(d.Catalog, d.Tracker)
	sessionHandler := handlers.NewSessionHandler(d.Catalog, d.Tracker, d.Sessions, d.Speaker, d.Recognizer, d.Hearts, d.Log)
	speechHandler := handlers.NewSpeechHandler(d.TTSClient, d.TTSSpeaker, d.TTSLang, d.Log)
	progressHandler := handlers.NewProgressHandler(d.Catalog, d.Tracker)

	r.GET("/health", healthHandler.HealthCheck)

	api := r.Group("/api")
	{
		// Content routes
		api.GET("/lessons", contentHandler.GetLessons)
		api.GET("/rules", contentHandler.GetRules)
		api.GET("/practices", contentHandler.GetPractices)

		// Session routes
		api.POST("/sessions", sessionHandler.StartSession)
		api.GET("/sessions/:id", sessionHandler.GetSession)
		api.POST("/sessions/:id/advance", sessionHandler.AdvanceSession)
		api.POST("/sessions/:id/event", sessionHandler.SessionEvent)
		api.POST("/sessions/:id/continue", sessionHandler.ContinueSession)
		api.POST("/sessions/:id/pronounce", sessionHandler.PronounceSession)
		api.POST("/sessions/:id/restart", sessionHandler.RestartSession)
		api.POST("/sessions/:id/skip", sessionHandler.SkipSession)
		api.DELETE("/sessions/:id", sessionHandler.DeleteSession)

		// Speech routes
		api.GET("/tts", speechHandler.GetAudio)
		api.GET("/voices", speechHandler.GetVoices)

		// Progress routes
		api.GET("/progress", progressHandler.GetProgress)
		api.POST("/progress/reset", progressHandler.ResetProgress)
		api.GET("/settings", progressHandler.GetSettings)
		api.PUT("/settings", progressHandler.UpdateSettings)
	}
}
