package speech

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	chathandler "github.com/deadinside/backend/internal/handler/chat"
	"github.com/deadinside/backend/internal/service/session"
	speechsvc "github.com/deadinside/backend/internal/service/speech"
	"github.com/deadinside/backend/internal/store"
	"github.com/deadinside/backend/pkg/utils"
)

// maxAudioBytes bounds an uploaded audio clip (25 MB, the provider limit).
const maxAudioBytes = 25 << 20

// Handler serves the speech endpoints: transcription, synthesis, and the
// combined voice interaction flow.
type Handler struct {
	speech     *speechsvc.Service
	sessions   *session.Service
	characters *store.Characters
}

// New creates the speech handler.
func New(speech *speechsvc.Service, sessions *session.Service, characters *store.Characters) *Handler {
	return &Handler{speech: speech, sessions: sessions, characters: characters}
}

// RegisterRoutes mounts the speech routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/speech/transcriptions", h.handleTranscribe)
	r.Post("/speech/speech", h.handleSynthesize)
	r.Post("/speech/interactions", h.handleInteraction)
}

// handleTranscribe converts an uploaded audio clip into text.
func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	audio, filename, ok := h.readAudioForm(w, r)
	if !ok {
		return
	}

	text, err := h.speech.Transcribe(r.Context(), audio, filename)
	if err != nil {
		utils.RespondError(w, http.StatusBadGateway, "transcription failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"text": text})
}

// handleSynthesize speaks a text in a character's voice.
func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text        string `json:"text"`
		CharacterID string `json:"characterId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	var voice, instructions string
	if payload.CharacterID != "" {
		ch, err := h.characters.Get(r.Context(), payload.CharacterID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.RespondError(w, http.StatusNotFound, "character not found")
				return
			}
			utils.RespondError(w, http.StatusInternalServerError, "failed to load character")
			return
		}
		voice = ch.VoiceSelection
		instructions = ch.VoiceInstructions
	}

	audio, err := h.speech.Synthesize(r.Context(), payload.Text, voice, instructions)
	if err != nil {
		utils.RespondError(w, http.StatusBadGateway, "synthesis failed")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		return
	}
}

type interactionResponse struct {
	Transcript string              `json:"transcript,omitempty"`
	Turn       *session.TurnResult `json:"turn"`
}

// handleInteraction runs one voice turn: transcribe the clip, feed the text
// through the session, and return the character's reply. Without audio it
// opens the session with the character speaking first.
func (h *Handler) handleInteraction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	characterID := r.FormValue("characterId")
	if characterID == "" {
		utils.RespondError(w, http.StatusBadRequest, "characterId is required")
		return
	}
	conversationID := r.FormValue("conversationId")

	file, header, err := r.FormFile("audio")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			utils.RespondError(w, http.StatusBadRequest, "invalid audio upload")
			return
		}

		// No clip: the character opens the session.
		result, err := h.sessions.Open(r.Context(), conversationID, characterID)
		if err != nil {
			status, message := chathandler.StatusForTurnError(err)
			utils.RespondError(w, status, message)
			return
		}
		utils.RespondJSON(w, http.StatusOK, interactionResponse{Turn: result})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read audio upload")
		return
	}

	transcript, err := h.speech.Transcribe(r.Context(), audio, header.Filename)
	if err != nil {
		utils.RespondError(w, http.StatusBadGateway, "transcription failed")
		return
	}

	result, err := h.sessions.ProcessTurn(r.Context(), conversationID, characterID, transcript)
	if err != nil {
		status, message := chathandler.StatusForTurnError(err)
		utils.RespondError(w, status, message)
		return
	}

	utils.RespondJSON(w, http.StatusOK, interactionResponse{Transcript: transcript, Turn: result})
}

func (h *Handler) readAudioForm(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, "", false
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return nil, "", false
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read audio upload")
		return nil, "", false
	}
	return audio, header.Filename, true
}
