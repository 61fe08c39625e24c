package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deadinside/backend/internal/config"
)

func newTestService(baseURL string) *Service {
	return NewService(config.SpeechConfig{
		APIKey:   "test-key",
		BaseURL:  baseURL,
		STTModel: "gpt-4o-transcribe",
		TTSModel: "gpt-4o-mini-tts",
		Timeout:  5,
		Enabled:  true,
	})
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.FormValue("model"); got != "gpt-4o-transcribe" {
			t.Errorf("unexpected model %q", got)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "hello doctor"})
	}))
	defer srv.Close()

	text, err := newTestService(srv.URL).Transcribe(context.Background(), []byte("fake-audio"), "clip.webm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello doctor" {
		t.Fatalf("unexpected transcript %q", text)
	}
}

func TestTranscribeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad audio", http.StatusBadRequest)
	}))
	defer srv.Close()

	if _, err := newTestService(srv.URL).Transcribe(context.Background(), []byte("x"), "clip.webm"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload["voice"] != "onyx" || payload["input"] != "Come in." {
			t.Errorf("unexpected payload %v", payload)
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	audio, err := newTestService(srv.URL).Synthesize(context.Background(), "Come in.", "onyx", "slow delivery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(audio, []byte("mp3-bytes")) {
		t.Fatalf("unexpected audio %q", audio)
	}
}

func TestSynthesizeDefaultsVoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["voice"] != "coral" {
			t.Errorf("expected default voice coral, got %q", payload["voice"])
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	if _, err := newTestService(srv.URL).Synthesize(context.Background(), "hi", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSynthesizeRejectsEmptyAndOversizedText(t *testing.T) {
	svc := newTestService("http://unused")

	if _, err := svc.Synthesize(context.Background(), "   ", "coral", ""); err == nil {
		t.Fatal("expected error for blank text")
	}
	if _, err := svc.Synthesize(context.Background(), strings.Repeat("a", MaxSynthesisChars+1), "coral", ""); err == nil {
		t.Fatal("expected error for oversized text")
	}
}
