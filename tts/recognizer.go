package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const recognizeURL = "https://speech.googleapis.com/v1/speech:recognize"

// Recognizer transcribes short audio clips through the Google Speech REST
// API. It implements speech.Recognizer.
type Recognizer struct {
	apiKey     string
	lang       string
	httpClient *http.Client
}

func NewRecognizer(apiKey, lang string) *Recognizer {
	return &Recognizer{
		apiKey: apiKey,
		lang:   lang,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Recognize sends the clip and returns the top transcript. Encoding names
// follow the API ("WEBM_OPUS", "LINEAR16", ...).
func (r *Recognizer) Recognize(ctx context.Context, audio []byte, encoding string) (string, error) {
	if encoding == "" {
		encoding = "WEBM_OPUS"
	}

	reqBody := map[string]interface{}{
		"config": map[string]interface{}{
			"encoding":     encoding,
			"languageCode": r.lang,
		},
		"audio": map[string]string{
			"content": base64.StdEncoding.EncodeToString(audio),
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		recognizeURL+"?key="+url.QueryEscape(r.apiKey), bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognize request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recognize API error %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Results []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	if len(result.Results) == 0 || len(result.Results[0].Alternatives) == 0 {
		return "", fmt.Errorf("no transcript recognized")
	}
	return result.Results[0].Alternatives[0].Transcript, nil
}
