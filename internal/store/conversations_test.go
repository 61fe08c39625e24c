package store

import (
	"context"
	"errors"
	"testing"

	"github.com/deadinside/backend/internal/model/chat"
)

func TestConversationsRoundTrip(t *testing.T) {
	conversations := NewConversations(NewMemory())
	ctx := context.Background()

	conv := chat.NewConversation("char-1")
	conv.Title = "Therapy Session: hello..."
	conv.Append(chat.NewMessage(chat.RoleUser, "hello"))
	conv.Append(chat.NewMessage(chat.RoleAssistant, "hi, come in"))
	conv.ApplyDelta(7)

	if err := conversations.Save(ctx, conv); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := conversations.Get(ctx, conv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.ID != conv.ID || loaded.Title != conv.Title || loaded.CharacterID != "char-1" {
		t.Fatalf("identity fields lost: %+v", loaded)
	}
	if loaded.EmotionalState != 57 {
		t.Fatalf("expected state 57, got %d", loaded.EmotionalState)
	}
	if len(loaded.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(loaded.Messages))
	}
	// Transcript order is semantic and must survive persistence.
	if loaded.Messages[0].Role != chat.RoleUser || loaded.Messages[1].Role != chat.RoleAssistant {
		t.Fatalf("message order lost: %v, %v", loaded.Messages[0].Role, loaded.Messages[1].Role)
	}
	if !loaded.Messages[0].CreatedAt.Equal(conv.Messages[0].CreatedAt) {
		t.Fatalf("timestamp drifted: %v vs %v", loaded.Messages[0].CreatedAt, conv.Messages[0].CreatedAt)
	}
}

func TestConversationsGetMissing(t *testing.T) {
	conversations := NewConversations(NewMemory())
	if _, err := conversations.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConversationsListIDs(t *testing.T) {
	conversations := NewConversations(NewMemory())
	ctx := context.Background()

	first := chat.NewConversation("char-1")
	second := chat.NewConversation("char-2")
	for _, conv := range []*chat.Conversation{first, second} {
		if err := conversations.Save(ctx, conv); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	ids, err := conversations.ListIDs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v", ids)
	}
	seen := map[string]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[first.ID] || !seen[second.ID] {
		t.Fatalf("ids incomplete: %v", ids)
	}
}

func TestConversationsDelete(t *testing.T) {
	conversations := NewConversations(NewMemory())
	ctx := context.Background()

	conv := chat.NewConversation("char-1")
	if err := conversations.Save(ctx, conv); err != nil {
		t.Fatalf("save: %v", err)
	}

	ok, err := conversations.Delete(ctx, conv.ID)
	if err != nil || !ok {
		t.Fatalf("delete existing: ok=%v err=%v", ok, err)
	}
	ok, err = conversations.Delete(ctx, conv.ID)
	if err != nil || ok {
		t.Fatalf("delete missing: ok=%v err=%v", ok, err)
	}
}
