// Package ai is the boundary to the external structured-completion model.
// It builds role-tagged transcripts, submits them through eino chains, and
// validates every structured reply before handing it back. Retries are the
// caller's policy, never applied here.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/deadinside/backend/internal/config"
	"github.com/deadinside/backend/internal/model/character"
	"github.com/deadinside/backend/internal/model/chat"
)

var (
	// ErrModel reports a transport or completion failure from the upstream
	// model. Retryable by the caller.
	ErrModel = errors.New("model request failed")
	// ErrInvalidReply reports a completion that failed strict schema
	// validation. Not retryable without a new generation.
	ErrInvalidReply = errors.New("invalid model reply")
)

// Service wraps the chat model behind compiled prompt chains.
type Service struct {
	chatModel  model.ChatModel
	replyChain compose.Runnable[map[string]any, *schema.Message]
	textChain  compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the gateway and compiles its chains.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	replyTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
	)
	replyChain := compose.NewChain[map[string]any, *schema.Message]()
	replyChain.AppendChatTemplate(replyTemplate)
	replyChain.AppendChatModel(chatModel)
	replyRunnable, err := replyChain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile reply chain: %w", err)
	}

	textTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)
	textChain := compose.NewChain[map[string]any, *schema.Message]()
	textChain.AppendChatTemplate(textTemplate)
	textChain.AppendChatModel(chatModel)
	textRunnable, err := textChain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile text chain: %w", err)
	}

	return &Service{
		chatModel:  chatModel,
		replyChain: replyRunnable,
		textChain:  textRunnable,
	}, nil
}

// GenerateReply submits the full transcript plus character context and the
// pre-turn emotional state, and returns the validated structured reply. The
// emotional delta is not clamped here; the cumulative clamp belongs to the
// session orchestrator.
func (s *Service) GenerateReply(ctx context.Context, transcript []chat.Message, charCtx character.Context, currentState int) (*Reply, error) {
	input := map[string]any{
		"system":  replySystemPrompt(charCtx, currentState, latestUserUtterance(transcript)),
		"history": toSchemaMessages(transcript),
	}

	msg, err := s.replyChain.Invoke(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModel, err)
	}

	reply, err := parseReply(msg.Content)
	if err != nil {
		return nil, err
	}

	log.Printf("[ai] reply for %s: delta=%+d, comment length=%d", charCtx.Name, reply.EmotionalChange, len(reply.Comment))
	return reply, nil
}

// GenerateOpening asks the character to speak first, before any user input.
func (s *Service) GenerateOpening(ctx context.Context, charCtx character.Context) (string, error) {
	input := map[string]any{
		"system": openingSystemPrompt(charCtx),
		"query":  openingInstruction,
	}

	msg, err := s.textChain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModel, err)
	}

	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty opening line", ErrInvalidReply)
	}
	return text, nil
}

func toSchemaMessages(transcript []chat.Message) []*schema.Message {
	if len(transcript) == 0 {
		return nil
	}
	history := make([]*schema.Message, 0, len(transcript))
	for _, msg := range transcript {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		case chat.RoleSystem:
			history = append(history, schema.SystemMessage(msg.Content))
		}
	}
	return history
}

func latestUserUtterance(transcript []chat.Message) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == chat.RoleUser {
			return transcript[i].Content
		}
	}
	return ""
}
