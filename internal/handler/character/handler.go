package character

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deadinside/backend/internal/service/ai"
	"github.com/deadinside/backend/internal/service/catalog"
	"github.com/deadinside/backend/internal/store"
	"github.com/deadinside/backend/pkg/utils"
)

// Handler serves the character catalog endpoints.
type Handler struct {
	catalog *catalog.Service
}

// New creates the character handler.
func New(catalogSvc *catalog.Service) *Handler {
	return &Handler{catalog: catalogSvc}
}

// RegisterRoutes mounts the character routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/characters/generate", h.handleGenerate)
	r.Get("/characters", h.handleList)
	r.Get("/characters/{characterID}", h.handleGet)
	r.Delete("/characters/{characterID}", h.handleDelete)
}

// handleGenerate produces and persists a character batch for a theme.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Theme string `json:"theme"`
		Count int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Theme == "" {
		utils.RespondError(w, http.StatusBadRequest, "theme is required")
		return
	}

	result, err := h.catalog.Generate(r.Context(), payload.Theme, payload.Count)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrInvalidReply):
			utils.RespondError(w, http.StatusBadGateway, "character generation failed validation")
		case errors.Is(err, ai.ErrModel):
			utils.RespondError(w, http.StatusBadGateway, "character generation unavailable")
		default:
			utils.RespondError(w, http.StatusInternalServerError, "character generation failed")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

// handleList returns every stored character.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	characters, err := h.catalog.List(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to list characters")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"characters": characters,
		"total":      len(characters),
	})
}

// handleGet returns one character by id.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	ch, err := h.catalog.Get(r.Context(), characterID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "character not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to load character")
		return
	}

	utils.RespondJSON(w, http.StatusOK, ch)
}

// handleDelete removes one character.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	ok, err := h.catalog.Delete(r.Context(), characterID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete character")
		return
	}
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "character not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "character deleted"})
}
