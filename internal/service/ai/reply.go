package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Bounds accepted for a single turn's emotional swing. A delta outside this
// range fails validation; the orchestrator never sees it.
const (
	MinEmotionalChange = -50
	MaxEmotionalChange = 50
)

// Reply is the validated structured response for one turn.
type Reply struct {
	EmotionalChange int    `json:"emotional_change"`
	Comment         string `json:"comment"`
}

// replyPayload uses pointers so a missing field is distinguishable from a
// zero value.
type replyPayload struct {
	EmotionalChange *int    `json:"emotional_change"`
	Comment         *string `json:"comment"`
}

// parseReply enforces the fixed reply schema: exactly the two declared
// fields, delta within bounds, non-blank comment. Anything else is a
// validation failure, never a best-effort partial result.
func parseReply(content string) (*Reply, error) {
	raw, err := extractJSONObject(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	payload := replyPayload{}
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}

	if payload.EmotionalChange == nil {
		return nil, fmt.Errorf("%w: missing emotional_change", ErrInvalidReply)
	}
	if payload.Comment == nil {
		return nil, fmt.Errorf("%w: missing comment", ErrInvalidReply)
	}

	delta := *payload.EmotionalChange
	if delta < MinEmotionalChange || delta > MaxEmotionalChange {
		return nil, fmt.Errorf("%w: emotional_change %d outside [%d, %d]", ErrInvalidReply, delta, MinEmotionalChange, MaxEmotionalChange)
	}

	comment := strings.TrimSpace(*payload.Comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: blank comment", ErrInvalidReply)
	}

	return &Reply{EmotionalChange: delta, Comment: comment}, nil
}

// extractJSONObject isolates the outermost object in a completion. Models
// occasionally wrap the payload in prose or code fences.
func extractJSONObject(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no json object in completion")
	}
	return trimmed[start : end+1], nil
}
