package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/deadinside/backend/internal/model/character"
)

// Characters persists character.Character records under the character
// namespace and maintains the membership set used for enumeration.
type Characters struct {
	kv KV
}

// NewCharacters wraps kv with the character namespace.
func NewCharacters(kv KV) *Characters {
	return &Characters{kv: kv}
}

// Save stores the character and registers its id in the membership set.
func (s *Characters) Save(ctx context.Context, ch character.Character) error {
	payload, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("encode character %s: %w", ch.ID, err)
	}
	if err := s.kv.Set(ctx, characterPrefix+ch.ID, string(payload)); err != nil {
		return err
	}
	return s.kv.SetAdd(ctx, characterSetKey, ch.ID)
}

// Get loads a character by id, or ErrNotFound.
func (s *Characters) Get(ctx context.Context, id string) (*character.Character, error) {
	raw, err := s.kv.Get(ctx, characterPrefix+id)
	if err != nil {
		return nil, err
	}
	ch := &character.Character{}
	if err := json.Unmarshal([]byte(raw), ch); err != nil {
		return nil, fmt.Errorf("decode character %s: %w", id, err)
	}
	return ch, nil
}

// Delete removes a character and unregisters its id from the membership set.
func (s *Characters) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.kv.Delete(ctx, characterPrefix+id)
	if err != nil || !ok {
		return ok, err
	}
	if err := s.kv.SetRemove(ctx, characterSetKey, id); err != nil {
		return true, err
	}
	return true, nil
}

// ListIDs enumerates the membership set, unordered.
func (s *Characters) ListIDs(ctx context.Context) ([]string, error) {
	return s.kv.SetMembers(ctx, characterSetKey)
}

// List loads every registered character. Ids whose record has gone missing
// are skipped; the membership reference is weak.
func (s *Characters) List(ctx context.Context) ([]character.Character, error) {
	ids, err := s.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	characters := make([]character.Character, 0, len(ids))
	for _, id := range ids {
		ch, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			log.Printf("[store] character %s listed but record missing, skipping", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		characters = append(characters, *ch)
	}
	return characters, nil
}
