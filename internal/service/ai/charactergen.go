package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/deadinside/backend/internal/model/character"
)

// GeneratedCharacter mirrors the generation schema before identifiers are
// assigned by the catalog.
type GeneratedCharacter struct {
	Name               string `json:"name"`
	Gender             string `json:"gender"`
	Appearance         string `json:"appearance"`
	Background         string `json:"background"`
	Problem            string `json:"problem"`
	ProblemDescription string `json:"problem_description"`
	MentalState        string `json:"mental_state"`
	InteractionWarning string `json:"interaction_warning"`
	VoiceSelection     string `json:"voice_selection"`
	VoiceInstructions  string `json:"voice_instructions"`
}

type characterBatchPayload struct {
	Theme      string               `json:"theme"`
	Characters []GeneratedCharacter `json:"characters"`
}

// GenerateCharacters produces a whole batch of characters for a theme in a
// single model call.
func (s *Service) GenerateCharacters(ctx context.Context, theme string, count int) ([]GeneratedCharacter, error) {
	input := map[string]any{
		"system": characterGenSystemPrompt(count),
		"query":  characterGenQuery(theme, count),
	}

	msg, err := s.textChain.Invoke(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModel, err)
	}

	batch, err := parseCharacterBatch(msg.Content)
	if err != nil {
		return nil, err
	}

	log.Printf("[ai] generated %d characters for theme %q", len(batch), theme)
	return batch, nil
}

func parseCharacterBatch(content string) ([]GeneratedCharacter, error) {
	raw, err := extractJSONObject(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	payload := characterBatchPayload{}
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}

	if len(payload.Characters) == 0 {
		return nil, fmt.Errorf("%w: empty character batch", ErrInvalidReply)
	}
	for i, ch := range payload.Characters {
		if err := validateGenerated(ch); err != nil {
			return nil, fmt.Errorf("%w: character %d: %v", ErrInvalidReply, i, err)
		}
	}

	return payload.Characters, nil
}

func validateGenerated(ch GeneratedCharacter) error {
	required := map[string]string{
		"name":                ch.Name,
		"background":          ch.Background,
		"problem":             ch.Problem,
		"problem_description": ch.ProblemDescription,
		"mental_state":        ch.MentalState,
		"interaction_warning": ch.InteractionWarning,
		"voice_instructions":  ch.VoiceInstructions,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("blank %s", field)
		}
	}
	if !character.ValidVoice(ch.VoiceSelection) {
		return fmt.Errorf("unknown voice %q", ch.VoiceSelection)
	}
	return nil
}
