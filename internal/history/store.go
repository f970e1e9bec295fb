// Package history persists and groups per-user chat histories.
//
// Histories live in object storage as one JSON array per user. Writes are
// unconditional overwrites: two concurrent turns for the same user can
// interleave load-modify-save and one turn's update is lost. That is an
// accepted limitation of the design, not something this package guards
// against.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"character-chat-demo/backend/internal/models"
	"character-chat-demo/backend/internal/storage"
	"character-chat-demo/backend/pkg/logger"
)

// Prefix is where per-user history objects live in storage
const Prefix = "chat_history/"

// ObjectStore is the slice of the storage client the history store needs
type ObjectStore interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
}

// Store reads and writes bounded per-user chat histories
type Store struct {
	objects ObjectStore
	log     *logger.Logger
}

// NewStore creates a history store. objects may be nil, in which case the
// store is disabled: loads return empty and saves are no-ops.
func NewStore(objects ObjectStore, log *logger.Logger) *Store {
	return &Store{objects: objects, log: log}
}

// Enabled reports whether histories are actually persisted
func (s *Store) Enabled() bool {
	return s.objects != nil
}

// Key derives the storage key for a user's history object
func Key(userID string) string {
	return Prefix + userID + ".json"
}

// Load returns the user's history. It fails soft: a missing object, a
// disabled store, or any storage or decode error yields an empty history.
// The error is returned alongside so the caller can see why it degraded,
// but callers are expected to proceed with the empty history either way.
func (s *Store) Load(ctx context.Context, userID string) (models.ChatHistory, error) {
	if !s.Enabled() {
		return models.ChatHistory{}, nil
	}

	data, err := s.objects.GetObject(ctx, Key(userID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.ChatHistory{}, nil
		}
		return models.ChatHistory{}, fmt.Errorf("loading history for %s: %w", userID, err)
	}

	var history models.ChatHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return models.ChatHistory{}, fmt.Errorf("decoding history for %s: %w", userID, err)
	}
	return history, nil
}

// Save writes the full history as a single unit, overwriting any prior
// content. Last write wins. No-op when the store is disabled.
func (s *Store) Save(ctx context.Context, userID string, history models.ChatHistory) error {
	if !s.Enabled() {
		return nil
	}

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encoding history for %s: %w", userID, err)
	}

	if err := s.objects.PutObject(ctx, Key(userID), data, "application/json"); err != nil {
		return fmt.Errorf("saving history for %s: %w", userID, err)
	}
	return nil
}
