package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"berlingo_backend/config"
	"berlingo_backend/content"
	"berlingo_backend/db"
	"berlingo_backend/logger"
	"berlingo_backend/middleware"
	"berlingo_backend/progress"
	"berlingo_backend/routes"
	"berlingo_backend/session"
	"berlingo_backend/speech"
	"berlingo_backend/tts"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Non-fatal in production
		os.Stderr.WriteString("Warning: .env file not found\n")
	}

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	// Connect to database
	database, err := db.Open(cfg)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	defer database.Close()

	// Initialize database schema
	if err := db.InitSchema(database); err != nil {
		log.Fatal("schema init failed", "error", err)
	}

	// Load and validate content
	catalog, err := content.Load(context.Background(), cfg.ContentDir)
	if err != nil {
		log.Fatal("content load failed", "error", err)
	}
	log.Info("content loaded",
		"lessons", len(catalog.Lessons),
		"grammar", len(catalog.Rules.Grammar),
		"listening", len(catalog.Rules.Listening),
		"practices", len(catalog.Practices),
	)

	tracker := progress.NewTracker(db.NewKV(database))
	sessions := session.NewManager()

	// Speech synthesis: cache dir lives under the data dir, pre-recorded
	// overrides under the content dir.
	ttsClient := tts.NewClient(
		filepath.Join(cfg.DataDir, "tts-cache"),
		filepath.Join(cfg.ContentDir, "audio"),
		cfg.TTSAPIKey,
		log,
	)
	synth := tts.NewSynth(ttsClient, cfg.TTSLang)
	speaker := speech.NewSpeaker(synth, cfg.TTSLang)
	if speaker.Available() && ttsClient.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		voices := speaker.LoadVoices(ctx, 4*time.Second)
		cancel()
		log.Info("synthesis voices loaded", "count", len(voices))
		if !speaker.WarmUp(2 * time.Second) {
			log.Warn("synthesis warm-up timed out")
		}
	} else {
		log.Warn("speech synthesis disabled; exercises run silent")
	}

	var recognizer speech.Recognizer
	if cfg.STTAPIKey != "" {
		recognizer = tts.NewRecognizer(cfg.STTAPIKey, cfg.TTSLang)
	} else {
		log.Warn("speech recognition disabled; pronounce exercises degrade")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	// Setup CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
	}
	corsConfig.AllowMethods = []string{
		"GET",
		"POST",
		"PUT",
		"DELETE",
		"PATCH",
	}
	r.Use(cors.New(corsConfig))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		DB:         database,
		Catalog:    catalog,
		Tracker:    tracker,
		Sessions:   sessions,
		Speaker:    speaker,
		Recognizer: recognizer,
		TTSClient:  ttsClient,
		TTSSpeaker: speaker,
		TTSLang:    cfg.TTSLang,
		Hearts:     cfg.Hearts,
		Log:        log,
	})

	// Run server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("server listening", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen failed", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", "error", err)
	}
}
