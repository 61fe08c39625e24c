package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deadinside/backend/internal/model/chat"
)

// Conversations persists chat.Conversation records under the conversation
// namespace. Every write replaces the whole record.
type Conversations struct {
	kv KV
}

// NewConversations wraps kv with the conversation namespace.
func NewConversations(kv KV) *Conversations {
	return &Conversations{kv: kv}
}

// Save serializes and stores the conversation.
func (s *Conversations) Save(ctx context.Context, conv *chat.Conversation) error {
	payload, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("encode conversation %s: %w", conv.ID, err)
	}
	return s.kv.Set(ctx, conversationPrefix+conv.ID, string(payload))
}

// Get loads a conversation by id, or ErrNotFound.
func (s *Conversations) Get(ctx context.Context, id string) (*chat.Conversation, error) {
	raw, err := s.kv.Get(ctx, conversationPrefix+id)
	if err != nil {
		return nil, err
	}
	conv := &chat.Conversation{}
	if err := json.Unmarshal([]byte(raw), conv); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", id, err)
	}
	return conv, nil
}

// Delete removes a conversation and reports whether it existed.
func (s *Conversations) Delete(ctx context.Context, id string) (bool, error) {
	return s.kv.Delete(ctx, conversationPrefix+id)
}

// ListIDs enumerates every stored conversation id, unordered.
func (s *Conversations) ListIDs(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx, conversationPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, conversationPrefix))
	}
	return ids, nil
}
