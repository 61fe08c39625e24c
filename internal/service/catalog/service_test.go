package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/deadinside/backend/internal/service/ai"
	"github.com/deadinside/backend/internal/store"
)

type stubGenerator struct {
	batch []ai.GeneratedCharacter
	err   error
}

func (g *stubGenerator) GenerateCharacters(_ context.Context, _ string, _ int) ([]ai.GeneratedCharacter, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.batch, nil
}

func generated(name string) ai.GeneratedCharacter {
	return ai.GeneratedCharacter{
		Name:               name,
		Gender:             "male",
		Appearance:         "gaunt",
		Background:         "office worker",
		Problem:            "identity crisis",
		ProblemDescription: "cannot accept what he has become",
		MentalState:        "confused",
		InteractionWarning: "groans when distressed",
		VoiceSelection:     "onyx",
		VoiceInstructions:  "slow and rasping",
	}
}

// countingKV fails every Set call past a threshold so a batch can be made to
// fail partway through.
type countingKV struct {
	store.KV
	sets     int
	failFrom int // 0 disables failures
}

func (c *countingKV) Set(ctx context.Context, key, value string) error {
	c.sets++
	if c.failFrom > 0 && c.sets >= c.failFrom {
		return errors.New("kv unavailable")
	}
	return c.KV.Set(ctx, key, value)
}

func TestGenerateAssignsIDsAndPersists(t *testing.T) {
	characters := store.NewCharacters(store.NewMemory())
	svc := NewService(characters, &stubGenerator{batch: []ai.GeneratedCharacter{generated("Boris"), generated("Gleb")}})

	result, err := svc.Generate(context.Background(), "zombie", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Failed != 0 {
		t.Fatalf("expected no failures, got %d", result.Failed)
	}
	if len(result.Saved) != 2 {
		t.Fatalf("expected 2 saved, got %d", len(result.Saved))
	}
	if result.Saved[0].ID == "" || result.Saved[0].ID == result.Saved[1].ID {
		t.Fatalf("ids must be fresh and distinct: %q, %q", result.Saved[0].ID, result.Saved[1].ID)
	}

	list, err := characters.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 persisted characters, got %d", len(list))
	}
}

func TestGenerateDefaultsCount(t *testing.T) {
	gen := &stubGenerator{batch: []ai.GeneratedCharacter{generated("Boris")}}
	svc := NewService(store.NewCharacters(store.NewMemory()), gen)

	result, err := svc.Generate(context.Background(), "zombie", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Requested != DefaultBatchSize {
		t.Fatalf("expected requested %d, got %d", DefaultBatchSize, result.Requested)
	}
}

func TestGeneratePartialSaveKeepsSiblings(t *testing.T) {
	kv := &countingKV{KV: store.NewMemory(), failFrom: 2}
	characters := store.NewCharacters(kv)
	svc := NewService(characters, &stubGenerator{batch: []ai.GeneratedCharacter{generated("Boris"), generated("Gleb")}})

	result, err := svc.Generate(context.Background(), "zombie", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Saved) != 1 || result.Failed != 1 {
		t.Fatalf("expected 1 saved and 1 failed, got %d saved %d failed", len(result.Saved), result.Failed)
	}

	kv.failFrom = 0
	list, err := characters.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != result.Saved[0].ID {
		t.Fatalf("saved sibling must survive the failure, got %+v", list)
	}
}

func TestGeneratePropagatesGatewayError(t *testing.T) {
	svc := NewService(store.NewCharacters(store.NewMemory()), &stubGenerator{err: ai.ErrModel})
	if _, err := svc.Generate(context.Background(), "zombie", 2); !errors.Is(err, ai.ErrModel) {
		t.Fatalf("expected ErrModel, got %v", err)
	}
}
