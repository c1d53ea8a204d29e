package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"berlingo_backend/logger"
	"berlingo_backend/speech"
	"berlingo_backend/tts"
)

type SpeechHandler struct {
	client  *tts.Client
	speaker *speech.Speaker
	lang    string
	log     *logger.Logger
}

func NewSpeechHandler(client *tts.Client, speaker *speech.Speaker, lang string, log *logger.Logger) *SpeechHandler {
	return &SpeechHandler{client: client, speaker: speaker, lang: lang, log: log}
}

// GetAudio synthesizes (or serves cached) speech for a phrase. The result
// is an MP3 stream.
func (h *SpeechHandler) GetAudio(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	if h.client == nil || !h.client.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Speech synthesis is not configured"})
		return
	}
	lang := c.DefaultQuery("lang", h.lang)

	audio, contentType, err := h.client.GetAudio(c.Request.Context(), text, lang)
	if err != nil {
		h.log.Warn("synthesis failed", "text", text, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Speech synthesis failed"})
		return
	}
	c.Data(http.StatusOK, contentType, audio)
}

// GetVoices lists the cached synthesis voices for the configured language.
func (h *SpeechHandler) GetVoices(c *gin.Context) {
	if h.speaker == nil || !h.speaker.Available() {
		c.JSON(http.StatusOK, gin.H{"available": false, "voices": []speech.Voice{}})
		return
	}
	voices := h.speaker.Voices()
	if voices == nil {
		voices = []speech.Voice{}
	}
	c.JSON(http.StatusOK, gin.H{"available": true, "voices": voices})
}
