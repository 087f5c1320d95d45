// Package elevenlabs is a minimal client for the ElevenLabs text-to-speech API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the public ElevenLabs API base URL.
	DefaultBaseURL = "https://api.elevenlabs.io"
	// DefaultModel is the synthesis model used when none is configured.
	DefaultModel = "eleven_monolingual_v1"

	maxErrorBody = 512
)

// VoiceSettings tunes how a voice is rendered.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// SpeechRequest is the text-to-speech request body.
type SpeechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// Client synthesizes speech.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	modelID    string
	debug      bool
}

// NewClient constructs a new ElevenLabs client. An empty baseURL uses
// DefaultBaseURL.
func NewClient(apiKey, baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		baseURL:    baseURL,
		modelID:    DefaultModel,
		debug:      os.Getenv("ENV") == "development",
	}
}

// TextToSpeech renders text with the given voice and returns MP3 bytes.
func (c *Client) TextToSpeech(ctx context.Context, voiceID, text string, settings VoiceSettings) ([]byte, error) {
	if c.apiKey == "" {
		return nil, errors.New("elevenlabs: api key is not configured")
	}

	payload, err := json.Marshal(SpeechRequest{Text: text, ModelID: c.modelID, VoiceSettings: settings})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + "/v1/text-to-speech/" + url.PathEscape(voiceID)
	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("text_length", len(text)).
			Msg("[ELEVENLABS] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Int("status_code", resp.StatusCode).
			Int("audio_bytes", len(body)).
			Msg("[ELEVENLABS] Incoming response")
	}

	if resp.StatusCode != http.StatusOK {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("elevenlabs: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(body) == 0 {
		return nil, errors.New("elevenlabs: empty audio response")
	}
	return body, nil
}
