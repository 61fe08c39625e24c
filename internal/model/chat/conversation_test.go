package chat

import "testing"

func TestApplyDeltaClamps(t *testing.T) {
	cases := []struct {
		start, delta, want int
	}{
		{50, 5, 55},
		{96, 10, 100},
		{8, -20, 0},
		{0, -50, 0},
		{100, 50, 100},
		{50, 0, 50},
	}
	for _, tc := range cases {
		conv := NewConversation("char-1")
		conv.EmotionalState = tc.start
		if got := conv.ApplyDelta(tc.delta); got != tc.want {
			t.Fatalf("start %d delta %+d: got %d, want %d", tc.start, tc.delta, got, tc.want)
		}
	}
}

func TestEndedOnlyAtEdges(t *testing.T) {
	conv := NewConversation("char-1")
	for _, state := range []int{1, 50, 99} {
		conv.EmotionalState = state
		if conv.Ended() {
			t.Fatalf("state %d must not be terminal", state)
		}
	}
	for _, state := range []int{0, 100} {
		conv.EmotionalState = state
		if !conv.Ended() {
			t.Fatalf("state %d must be terminal", state)
		}
	}
}

func TestNewConversationStartsBalanced(t *testing.T) {
	conv := NewConversation("char-1")
	if conv.EmotionalState != EmotionalStateInitial {
		t.Fatalf("expected initial state %d, got %d", EmotionalStateInitial, conv.EmotionalState)
	}
	if conv.ID == "" || conv.CharacterID != "char-1" {
		t.Fatalf("identity fields missing: %+v", conv)
	}
	if len(conv.Messages) != 0 {
		t.Fatalf("expected empty transcript, got %d messages", len(conv.Messages))
	}
}

func TestSummarizeCountsMessages(t *testing.T) {
	conv := NewConversation("char-1")
	conv.Append(NewMessage(RoleUser, "hi"))
	conv.Append(NewMessage(RoleAssistant, "hello"))

	summary := conv.Summarize()
	if summary.MessageCount != 2 {
		t.Fatalf("expected 2 messages, got %d", summary.MessageCount)
	}
	if summary.ID != conv.ID {
		t.Fatalf("summary id mismatch: %s vs %s", summary.ID, conv.ID)
	}
}
