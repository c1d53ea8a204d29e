package tts

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"berlingo_backend/logger"
)

const (
	synthesizeURL = "https://texttospeech.googleapis.com/v1/text:synthesize"
	voicesURL     = "https://texttospeech.googleapis.com/v1/voices"
)

// Voice is one entry of the remote voice list.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// Client synthesizes speech through the Google TTS REST API and caches the
// resulting MP3s on disk. Pre-recorded overrides in audioDir win over the
// cache and the API. Caching is best effort: a read-only cache dir is
// logged, not fatal.
type Client struct {
	cacheDir   string
	audioDir   string
	apiKey     string
	log        *logger.Logger
	mu         sync.Mutex
	httpClient *http.Client
}

func NewClient(cacheDir, audioDir, apiKey string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		log.Warn("tts cache dir unavailable", "dir", cacheDir, "error", err)
	}
	return &Client{
		cacheDir: cacheDir,
		audioDir: audioDir,
		apiKey:   apiKey,
		log:      log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether the client can reach the API at all.
func (c *Client) Enabled() bool { return c.apiKey != "" }

func (c *Client) cacheKey(text, lang string) string {
	h := sha256.Sum256([]byte(lang + ":" + text))
	return hex.EncodeToString(h[:16])
}

// GetAudio returns audio for the given text. It checks, in order:
// pre-recorded overrides, the on-disk cache, and finally the API.
func (c *Client) GetAudio(ctx context.Context, text, lang string) ([]byte, string, error) {
	key := c.cacheKey(text, lang)
	overridePath := filepath.Join(c.audioDir, key+".mp3")
	if data, err := os.ReadFile(overridePath); err == nil {
		return data, "audio/mpeg", nil
	}

	cachePath := filepath.Join(c.cacheDir, key+".mp3")
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, "audio/mpeg", nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check the cache after acquiring the lock.
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, "audio/mpeg", nil
	}

	if c.apiKey == "" {
		return nil, "", fmt.Errorf("TTS unavailable for %q", text)
	}

	data, err := c.synthesize(ctx, text, lang)
	if err != nil {
		// Don't cache failures.
		return nil, "", err
	}
	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		c.log.Warn("tts cache write failed", "path", cachePath, "error", err)
	}
	return data, "audio/mpeg", nil
}

func (c *Client) synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	if lang == "" {
		lang = "de-DE"
	}

	reqBody := map[string]interface{}{
		"input": map[string]string{
			"text": text,
		},
		"voice": map[string]interface{}{
			"languageCode": lang,
			"ssmlGender":   "FEMALE",
		},
		"audioConfig": map[string]string{
			"audioEncoding": "MP3",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		synthesizeURL+"?key="+url.QueryEscape(c.apiKey), bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TTS API error %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}

	return audio, nil
}

// ListVoices fetches the remote voice list for a language code.
func (c *Client) ListVoices(ctx context.Context, lang string) ([]Voice, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("TTS unavailable: no API key")
	}

	u := voicesURL + "?key=" + url.QueryEscape(c.apiKey)
	if lang != "" {
		u += "&languageCode=" + url.QueryEscape(lang)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voices request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voices API error %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Voices []struct {
			Name          string   `json:"name"`
			LanguageCodes []string `json:"languageCodes"`
		} `json:"voices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	voices := make([]Voice, 0, len(result.Voices))
	for _, v := range result.Voices {
		lang := ""
		if len(v.LanguageCodes) > 0 {
			lang = v.LanguageCodes[0]
		}
		voices = append(voices, Voice{Name: v.Name, Lang: lang})
	}
	return voices, nil
}
