package chat

import (
	"time"

	"github.com/google/uuid"
)

// Emotional state bounds. Every session starts balanced at the midpoint and
// ends once the cumulative score reaches either edge.
const (
	EmotionalStateMin     = 0
	EmotionalStateMax     = 100
	EmotionalStateInitial = 50
)

// Conversation is the unit of persistence: an append-only transcript plus the
// character's cumulative emotional score. Transcript order is semantic, it is
// the order shown to the response generator.
type Conversation struct {
	ID             string    `json:"id"`
	Title          string    `json:"title,omitempty"`
	CharacterID    string    `json:"characterId,omitempty"`
	Messages       []Message `json:"messages"`
	EmotionalState int       `json:"emotionalState"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewConversation provisions an empty conversation bound to a character.
func NewConversation(characterID string) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		ID:             uuid.NewString(),
		CharacterID:    characterID,
		Messages:       make([]Message, 0, 16),
		EmotionalState: EmotionalStateInitial,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Append adds a message to the end of the transcript. Messages are never
// reordered or removed individually.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
}

// ApplyDelta folds an emotional delta into the score, clamping the result
// into the valid range, and returns the new state.
func (c *Conversation) ApplyDelta(delta int) int {
	c.EmotionalState = ClampEmotionalState(c.EmotionalState + delta)
	return c.EmotionalState
}

// Ended reports whether the score sits on a terminal edge.
func (c *Conversation) Ended() bool {
	return c.EmotionalState <= EmotionalStateMin || c.EmotionalState >= EmotionalStateMax
}

// ClampEmotionalState constrains a computed score into the valid range.
func ClampEmotionalState(v int) int {
	if v < EmotionalStateMin {
		return EmotionalStateMin
	}
	if v > EmotionalStateMax {
		return EmotionalStateMax
	}
	return v
}

// Summary is the listing projection of a conversation.
type Summary struct {
	ID             string    `json:"id"`
	Title          string    `json:"title,omitempty"`
	CharacterID    string    `json:"characterId,omitempty"`
	MessageCount   int       `json:"messageCount"`
	EmotionalState int       `json:"emotionalState"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Summarize returns the listing projection.
func (c *Conversation) Summarize() Summary {
	return Summary{
		ID:             c.ID,
		Title:          c.Title,
		CharacterID:    c.CharacterID,
		MessageCount:   len(c.Messages),
		EmotionalState: c.EmotionalState,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
