// Package speech is the pass-through boundary to the hosted speech API:
// audio bytes in, text out, and text in, audio bytes out. Provider specifics
// never leak past this package.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/deadinside/backend/internal/config"
)

// MaxSynthesisChars caps a single synthesis request.
const MaxSynthesisChars = 4000

// Service calls the OpenAI-compatible audio endpoints.
type Service struct {
	httpClient *http.Client
	cfg        config.SpeechConfig
}

// NewService creates the speech client.
func NewService(cfg config.SpeechConfig) *Service {
	return &Service{
		httpClient: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
		cfg:        cfg,
	}
}

// Transcribe converts audio bytes into text.
func (s *Service) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("model", s.cfg.STTModel); err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/audio/transcriptions", body)
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError("transcription", resp)
	}

	payload := struct {
		Text string `json:"text"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}
	return payload.Text, nil
}

// Synthesize converts text into speech audio using the supplied voice tag
// and delivery instructions.
func (s *Service) Synthesize(ctx context.Context, text, voice, instructions string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("synthesis text is empty")
	}
	if len(text) > MaxSynthesisChars {
		return nil, fmt.Errorf("synthesis text too long: %d > %d", len(text), MaxSynthesisChars)
	}
	if voice == "" {
		voice = "coral"
	}

	payload := map[string]string{
		"model":        s.cfg.TTSModel,
		"voice":        voice,
		"input":        text,
		"instructions": instructions,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("build synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("synthesis", resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read synthesis response: %w", err)
	}
	return audio, nil
}

func apiError(op string, resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s failed: status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(detail)))
}
