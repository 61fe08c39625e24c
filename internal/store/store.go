// Package store persists conversation and character records in an external
// key-value service. Records are whole-value JSON documents; partial field
// patches are never issued.
package store

import (
	"context"
	"errors"
)

// Key namespaces. The character membership set enumerates every character id
// and is kept consistent with the individual records.
const (
	conversationPrefix = "conversation:"
	characterPrefix    = "character:"
	characterSetKey    = "characters:list"
)

// ErrNotFound reports a missing record.
var ErrNotFound = errors.New("record not found")

// KV is the narrow key-value surface the typed stores are built on. Redis
// provides the production implementation; Memory is the test double behind
// the same interface.
type KV interface {
	// Get returns the value for key, or ErrNotFound when absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
	// Keys lists every key beginning with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	SetAdd(ctx context.Context, key, member string) error
	SetRemove(ctx context.Context, key, member string) error
	SetMembers(ctx context.Context, key string) ([]string, error)
	// DeleteAll removes every key and returns the number deleted.
	DeleteAll(ctx context.Context) (int64, error)
}

// Admin exposes the bulk maintenance operation behind the cleanup endpoint.
type Admin struct {
	kv KV
}

// NewAdmin wraps kv for administrative use.
func NewAdmin(kv KV) *Admin {
	return &Admin{kv: kv}
}

// Wipe deletes every record in the store and returns the number removed.
func (a *Admin) Wipe(ctx context.Context) (int64, error) {
	return a.kv.DeleteAll(ctx)
}
