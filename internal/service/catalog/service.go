// Package catalog owns character definitions: batch generation plus thin
// pass-throughs to the character store.
package catalog

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deadinside/backend/internal/model/character"
	"github.com/deadinside/backend/internal/service/ai"
	"github.com/deadinside/backend/internal/store"
)

// DefaultBatchSize is used when the caller does not ask for a count.
const DefaultBatchSize = 3

// Generator produces character batches from a theme.
type Generator interface {
	GenerateCharacters(ctx context.Context, theme string, count int) ([]ai.GeneratedCharacter, error)
}

// Service is the character catalog.
type Service struct {
	characters *store.Characters
	generator  Generator
}

// NewService wires the catalog.
func NewService(characters *store.Characters, generator Generator) *Service {
	return &Service{characters: characters, generator: generator}
}

// BatchResult reports partial-success semantics for one generation call:
// siblings saved before a failure stay saved.
type BatchResult struct {
	Theme     string                `json:"theme"`
	Requested int                   `json:"requested"`
	Failed    int                   `json:"failed"`
	Saved     []character.Character `json:"characters"`
}

// Generate invokes one batch generation call, assigns fresh identifiers, and
// persists each character individually.
func (s *Service) Generate(ctx context.Context, theme string, count int) (*BatchResult, error) {
	if count <= 0 {
		count = DefaultBatchSize
	}
	theme = strings.TrimSpace(theme)

	generated, err := s.generator.GenerateCharacters(ctx, theme, count)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Theme: theme, Requested: count, Saved: make([]character.Character, 0, len(generated))}
	for _, g := range generated {
		ch := character.Character{
			ID:                 uuid.NewString(),
			Name:               g.Name,
			Gender:             g.Gender,
			Appearance:         g.Appearance,
			Background:         g.Background,
			Problem:            g.Problem,
			ProblemDescription: g.ProblemDescription,
			MentalState:        g.MentalState,
			InteractionWarning: g.InteractionWarning,
			VoiceSelection:     g.VoiceSelection,
			VoiceInstructions:  g.VoiceInstructions,
			CreatedAt:          time.Now().UTC(),
		}
		if err := s.characters.Save(ctx, ch); err != nil {
			log.Printf("[catalog] save character %s (%s) failed: %v", ch.ID, ch.Name, err)
			result.Failed++
			continue
		}
		result.Saved = append(result.Saved, ch)
	}

	log.Printf("[catalog] theme %q: saved %d of %d generated characters", theme, len(result.Saved), len(generated))
	return result, nil
}

// Get loads one character. Returns store.ErrNotFound when absent.
func (s *Service) Get(ctx context.Context, id string) (*character.Character, error) {
	return s.characters.Get(ctx, id)
}

// List loads every registered character.
func (s *Service) List(ctx context.Context) ([]character.Character, error) {
	return s.characters.List(ctx)
}

// Delete removes one character and reports whether it existed.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.characters.Delete(ctx, id)
}
