// Package progress tracks which roadmap steps the learner has completed.
//
// The store is a flat mapping from step id to a completed flag. Keys that are
// absent read as not completed, and keys for steps that no longer belong to
// any visible roadmap are kept untouched. Every mutation rewrites the whole
// mapping to the storage collaborator under a single fixed key.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
)

// StorageKey is the key under which the serialized mapping is persisted.
const StorageKey = "learningProgress"

// Storage is the persisted key-value collaborator.
type Storage interface {
	// Get returns the value stored under key. ok is false when absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for non-fatal storage failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store holds the step completion flags.
type Store struct {
	storage Storage
	key     string
	logger  *slog.Logger
	flags   map[string]bool
	loadErr error
}

// Load reads the persisted mapping and returns a ready Store.
//
// A missing value yields an empty store. A value that cannot be read or
// parsed also yields an empty store; the cause is logged and kept in LoadErr
// so callers can surface a warning. Load never fails.
func Load(ctx context.Context, storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     StorageKey,
		logger:  slog.Default(),
		flags:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, ok, err := storage.Get(ctx, s.key)
	switch {
	case err != nil:
		s.loadErr = fmt.Errorf("read progress: %w", err)
	case !ok:
		return s
	default:
		flags, err := decode(raw)
		if err != nil {
			s.loadErr = fmt.Errorf("parse progress: %w", err)
		} else {
			s.flags = flags
		}
	}

	if s.loadErr != nil {
		s.logger.Warn("starting with empty progress", "key", s.key, "err", s.loadErr)
	}
	return s
}

// LoadErr returns the read or parse failure that forced an empty start, if any.
func (s *Store) LoadErr() error {
	return s.loadErr
}

// IsCompleted reports whether the step is marked complete.
func (s *Store) IsCompleted(stepID string) bool {
	return s.flags[stepID]
}

// Toggle flips the completed flag of stepID, persists the whole mapping and
// returns the new value. Persistence failures are logged, never returned.
func (s *Store) Toggle(ctx context.Context, stepID string) bool {
	done := !s.flags[stepID]
	s.flags[stepID] = done
	s.persist(ctx)
	return done
}

// Reset clears every flag and removes the persisted mapping. A failed
// delete is logged and the in-memory state stays cleared.
func (s *Store) Reset(ctx context.Context) {
	s.flags = make(map[string]bool)
	if err := s.storage.Delete(ctx, s.key); err != nil {
		s.logger.Warn("delete progress", "key", s.key, "err", err)
	}
}

// Snapshot returns a copy of the mapping.
func (s *Store) Snapshot() map[string]bool {
	return maps.Clone(s.flags)
}

// CompletedTotal returns how many keys are marked complete, across all
// roadmaps including orphaned ones.
func (s *Store) CompletedTotal() int {
	n := 0
	for _, done := range s.flags {
		if done {
			n++
		}
	}
	return n
}

func (s *Store) persist(ctx context.Context) {
	raw, err := encode(s.flags)
	if err != nil {
		s.logger.Warn("encode progress", "err", err)
		return
	}
	if err := s.storage.Set(ctx, s.key, raw); err != nil {
		s.logger.Warn("persist progress", "key", s.key, "err", err)
	}
}

func decode(raw string) (map[string]bool, error) {
	var flags map[string]bool
	if err := json.Unmarshal([]byte(raw), &flags); err != nil {
		return nil, err
	}
	if flags == nil {
		flags = make(map[string]bool)
	}
	return flags, nil
}

func encode(flags map[string]bool) (string, error) {
	b, err := json.Marshal(flags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
