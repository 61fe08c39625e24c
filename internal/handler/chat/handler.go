package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deadinside/backend/internal/service/ai"
	"github.com/deadinside/backend/internal/service/session"
	"github.com/deadinside/backend/internal/store"
	"github.com/deadinside/backend/pkg/utils"
)

// Handler serves the conversation endpoints.
type Handler struct {
	sessions *session.Service
	admin    *store.Admin
}

// New creates the chat handler.
func New(sessions *session.Service, admin *store.Admin) *Handler {
	return &Handler{sessions: sessions, admin: admin}
}

// RegisterRoutes mounts the conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/conversations", h.handleStartConversation)
	r.Get("/chat/conversations", h.handleListConversations)
	r.Get("/chat/conversations/{conversationID}", h.handleGetConversation)
	r.Delete("/chat/conversations/{conversationID}", h.handleDeleteConversation)
	r.Post("/chat/conversations/{conversationID}/messages", h.handleAddMessage)
	r.Delete("/chat/cleanup", h.handleCleanup)
}

type turnRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
	CharacterID    string `json:"characterId"`
}

// handleStartConversation starts a new session or continues an existing one.
func (h *Handler) handleStartConversation(w http.ResponseWriter, r *http.Request) {
	var payload turnRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}
	if payload.CharacterID == "" {
		utils.RespondError(w, http.StatusBadRequest, "characterId is required")
		return
	}

	result, err := h.sessions.ProcessTurn(r.Context(), payload.ConversationID, payload.CharacterID, payload.Message)
	if err != nil {
		status, message := StatusForTurnError(err)
		utils.RespondError(w, status, message)
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

// handleAddMessage appends a turn to an existing session.
func (h *Handler) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	var payload turnRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}
	if payload.CharacterID == "" {
		utils.RespondError(w, http.StatusBadRequest, "characterId is required")
		return
	}

	result, err := h.sessions.ProcessTurn(r.Context(), conversationID, payload.CharacterID, payload.Message)
	if err != nil {
		status, message := StatusForTurnError(err)
		utils.RespondError(w, status, message)
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

// handleListConversations lists session summaries, most recent first.
func (h *Handler) handleListConversations(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.sessions.List(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to list conversations")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"conversations": summaries,
		"total":         len(summaries),
	})
}

// handleGetConversation returns the full transcript.
func (h *Handler) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	conv, err := h.sessions.Get(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, session.ErrConversationNotFound) {
			utils.RespondError(w, http.StatusNotFound, "conversation not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}

	utils.RespondJSON(w, http.StatusOK, conv)
}

// handleDeleteConversation removes one session.
func (h *Handler) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	if err := h.sessions.Delete(r.Context(), conversationID); err != nil {
		if errors.Is(err, session.ErrConversationNotFound) {
			utils.RespondError(w, http.StatusNotFound, "conversation not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete conversation")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "conversation deleted"})
}

// handleCleanup wipes every stored record. Administrative use only.
func (h *Handler) handleCleanup(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.admin.Wipe(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "cleanup failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"deletedCount": deleted})
}

// StatusForTurnError maps orchestrator and gateway failures onto HTTP
// statuses. Persistence failure after a successful generation stays
// distinguishable so the caller can retry the save path alone.
func StatusForTurnError(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		return http.StatusBadRequest, "message is required"
	case errors.Is(err, session.ErrConversationNotFound):
		return http.StatusNotFound, "conversation not found"
	case errors.Is(err, session.ErrCharacterNotFound):
		return http.StatusNotFound, "character not found"
	case errors.Is(err, session.ErrSessionEnded):
		return http.StatusConflict, "session already ended"
	case errors.Is(err, ai.ErrInvalidReply):
		return http.StatusBadGateway, "character reply failed validation"
	case errors.Is(err, ai.ErrModel):
		return http.StatusBadGateway, "character reply unavailable"
	case errors.Is(err, session.ErrReplyNotSaved):
		return http.StatusInternalServerError, "reply generated but not saved"
	default:
		return http.StatusInternalServerError, "turn failed"
	}
}
