package ai

import (
	"errors"
	"strings"
	"testing"
)

func validCharacterJSON(name string) string {
	return `{
		"name": "` + name + `",
		"gender": "male",
		"appearance": "gaunt, pale",
		"background": "office worker bitten during the outbreak",
		"problem": "undead identity crisis",
		"problem_description": "struggles to accept what he has become",
		"mental_state": "confused and mournful",
		"interaction_warning": "groans when distressed",
		"voice_selection": "onyx",
		"voice_instructions": "slow, rasping delivery"
	}`
}

func TestParseCharacterBatchValid(t *testing.T) {
	content := `{"theme": "zombie", "characters": [` +
		validCharacterJSON("Boris") + "," + validCharacterJSON("Gleb") + `]}`

	batch, err := parseCharacterBatch(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("expected 2 characters, got %d", len(batch))
	}
	if batch[0].Name != "Boris" || batch[1].Name != "Gleb" {
		t.Fatalf("names lost: %q, %q", batch[0].Name, batch[1].Name)
	}
}

func TestParseCharacterBatchEmptyRejected(t *testing.T) {
	if _, err := parseCharacterBatch(`{"theme": "zombie", "characters": []}`); !errors.Is(err, ErrInvalidReply) {
		t.Fatalf("expected ErrInvalidReply, got %v", err)
	}
}

func TestParseCharacterBatchUnknownFieldRejected(t *testing.T) {
	content := `{"theme": "zombie", "rating": 5, "characters": [` + validCharacterJSON("Boris") + `]}`
	if _, err := parseCharacterBatch(content); !errors.Is(err, ErrInvalidReply) {
		t.Fatalf("expected ErrInvalidReply, got %v", err)
	}
}

func TestParseCharacterBatchBlankRequiredField(t *testing.T) {
	content := `{"theme": "zombie", "characters": [` +
		strings.Replace(validCharacterJSON("Boris"), `"undead identity crisis"`, `"  "`, 1) + `]}`
	if _, err := parseCharacterBatch(content); !errors.Is(err, ErrInvalidReply) {
		t.Fatalf("expected ErrInvalidReply, got %v", err)
	}
}

func TestParseCharacterBatchUnknownVoiceRejected(t *testing.T) {
	content := `{"theme": "zombie", "characters": [` +
		strings.Replace(validCharacterJSON("Boris"), `"onyx"`, `"baritone"`, 1) + `]}`
	if _, err := parseCharacterBatch(content); !errors.Is(err, ErrInvalidReply) {
		t.Fatalf("expected ErrInvalidReply, got %v", err)
	}
}
