// Package session drives the per-turn state machine: load or create the
// conversation, append the exchange, fold the emotional delta into the
// clamped score, decide termination, persist. A turn is all-or-nothing; a
// failed generation leaves the stored record exactly as it was.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/deadinside/backend/internal/model/character"
	"github.com/deadinside/backend/internal/model/chat"
	"github.com/deadinside/backend/internal/service/ai"
	"github.com/deadinside/backend/internal/store"
)

var (
	ErrEmptyMessage         = errors.New("message is required")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrCharacterNotFound    = errors.New("character not found")
	// ErrSessionEnded rejects turns on a conversation whose score already
	// sits on a terminal edge. Terminal sessions are never reopened.
	ErrSessionEnded = errors.New("session already ended")
	// ErrReplyNotSaved reports a turn whose reply was generated but whose
	// conversation could not be persisted. The caller may retry without
	// burning another generation.
	ErrReplyNotSaved = errors.New("reply generated but conversation not saved")
)

// Gateway produces character replies.
type Gateway interface {
	GenerateReply(ctx context.Context, transcript []chat.Message, charCtx character.Context, currentState int) (*ai.Reply, error)
	GenerateOpening(ctx context.Context, charCtx character.Context) (string, error)
}

// Characters resolves read-only character context.
type Characters interface {
	Get(ctx context.Context, id string) (*character.Character, error)
}

// Service is the session orchestrator.
type Service struct {
	conversations *store.Conversations
	characters    Characters
	gateway       Gateway
	locks         *keyedMutex
	replyTimeout  time.Duration
}

// NewService wires the orchestrator. replyTimeout bounds every gateway call;
// zero disables the bound.
func NewService(conversations *store.Conversations, characters Characters, gateway Gateway, replyTimeout time.Duration) *Service {
	return &Service{
		conversations: conversations,
		characters:    characters,
		gateway:       gateway,
		locks:         newKeyedMutex(),
		replyTimeout:  replyTimeout,
	}
}

// TurnResult reports one completed exchange.
type TurnResult struct {
	ConversationID  string    `json:"conversationId"`
	MessageID       string    `json:"messageId"`
	Response        string    `json:"response"`
	Timestamp       time.Time `json:"timestamp"`
	EmotionalChange int       `json:"emotionalChange"`
	EmotionalState  int       `json:"emotionalState"`
	SessionEnded    bool      `json:"sessionEnded"`
}

// ProcessTurn runs one user utterance through the state machine. With an
// empty conversationID a fresh conversation is created and persisted up
// front so the caller can recover the id even if a later step fails.
func (s *Service) ProcessTurn(ctx context.Context, conversationID, characterID, text string) (*TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	charRec, err := s.resolveCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}

	conv, unlock, err := s.resolveConversation(ctx, conversationID, characterID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	userMsg := chat.NewMessage(chat.RoleUser, text)
	conv.Append(userMsg)

	reply, err := s.generateReply(ctx, conv, charRec.Context())
	if err != nil {
		// The appended user message dies with the in-memory copy; the
		// stored record still holds the pre-turn state.
		return nil, err
	}

	assistantMsg := chat.NewMessage(chat.RoleAssistant, reply.Comment)
	conv.Append(assistantMsg)
	conv.ApplyDelta(reply.EmotionalChange)
	conv.UpdatedAt = time.Now().UTC()
	if conv.Title == "" && len(conv.Messages) == 2 {
		conv.Title = deriveTitle(text)
	}

	if err := s.conversations.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReplyNotSaved, err)
	}

	log.Printf("[session] turn complete: conversation=%s state=%d delta=%+d", conv.ID, conv.EmotionalState, reply.EmotionalChange)
	return &TurnResult{
		ConversationID:  conv.ID,
		MessageID:       assistantMsg.ID,
		Response:        reply.Comment,
		Timestamp:       assistantMsg.CreatedAt,
		EmotionalChange: reply.EmotionalChange,
		EmotionalState:  conv.EmotionalState,
		SessionEnded:    conv.Ended(),
	}, nil
}

// Open has the character speak first. No user message is recorded and the
// emotional state is untouched.
func (s *Service) Open(ctx context.Context, conversationID, characterID string) (*TurnResult, error) {
	charRec, err := s.resolveCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}

	conv, unlock, err := s.resolveConversation(ctx, conversationID, characterID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	openCtx, cancel := s.boundContext(ctx)
	defer cancel()
	opening, err := s.gateway.GenerateOpening(openCtx, charRec.Context())
	if err != nil {
		return nil, err
	}

	assistantMsg := chat.NewMessage(chat.RoleAssistant, opening)
	conv.Append(assistantMsg)
	conv.UpdatedAt = time.Now().UTC()

	if err := s.conversations.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReplyNotSaved, err)
	}

	return &TurnResult{
		ConversationID: conv.ID,
		MessageID:      assistantMsg.ID,
		Response:       opening,
		Timestamp:      assistantMsg.CreatedAt,
		EmotionalState: conv.EmotionalState,
		SessionEnded:   conv.Ended(),
	}, nil
}

// List returns conversation summaries, most recently updated first.
func (s *Service) List(ctx context.Context) ([]chat.Summary, error) {
	ids, err := s.conversations.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]chat.Summary, 0, len(ids))
	for _, id := range ids {
		conv, err := s.conversations.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, conv.Summarize())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// Get loads the full conversation.
func (s *Service) Get(ctx context.Context, id string) (*chat.Conversation, error) {
	conv, err := s.conversations.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrConversationNotFound
	}
	return conv, err
}

// Delete removes the conversation and all its messages.
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	ok, err := s.conversations.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConversationNotFound
	}
	return nil
}

// resolveCharacter fails before any conversation mutation so a bad character
// reference has zero side effects.
func (s *Service) resolveCharacter(ctx context.Context, characterID string) (*character.Character, error) {
	if strings.TrimSpace(characterID) == "" {
		return nil, ErrCharacterNotFound
	}
	charRec, err := s.characters.Get(ctx, characterID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrCharacterNotFound
	}
	if err != nil {
		return nil, err
	}
	return charRec, nil
}

// resolveConversation loads an existing conversation or creates and persists
// a fresh one, and acquires its turn lock. The caller must invoke the
// returned unlock.
func (s *Service) resolveConversation(ctx context.Context, conversationID, characterID string) (*chat.Conversation, func(), error) {
	if conversationID != "" {
		unlock := s.locks.Lock(conversationID)
		conv, err := s.conversations.Get(ctx, conversationID)
		if errors.Is(err, store.ErrNotFound) {
			unlock()
			return nil, nil, ErrConversationNotFound
		}
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if conv.Ended() {
			unlock()
			return nil, nil, fmt.Errorf("%w: emotional state %d", ErrSessionEnded, conv.EmotionalState)
		}
		return conv, unlock, nil
	}

	conv := chat.NewConversation(characterID)
	unlock := s.locks.Lock(conv.ID)
	if err := s.conversations.Save(ctx, conv); err != nil {
		unlock()
		return nil, nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, unlock, nil
}

func (s *Service) generateReply(ctx context.Context, conv *chat.Conversation, charCtx character.Context) (*ai.Reply, error) {
	replyCtx, cancel := s.boundContext(ctx)
	defer cancel()
	return s.gateway.GenerateReply(replyCtx, conv.Messages, charCtx, conv.EmotionalState)
}

func (s *Service) boundContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.replyTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.replyTimeout)
}

const titleRuneLimit = 30

func deriveTitle(firstUtterance string) string {
	runes := []rune(strings.TrimSpace(firstUtterance))
	if len(runes) > titleRuneLimit {
		runes = runes[:titleRuneLimit]
	}
	return "Therapy Session: " + string(runes) + "..."
}
