package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ayoubalgboom-bot/brglive-website/logging"
	"github.com/ayoubalgboom-bot/brglive-website/metrics"
)

var (
	// ErrUnknownBucket indicates a day name outside yesterday/today/tomorrow.
	ErrUnknownBucket = errors.New("unknown day bucket")
	// ErrIndexOutOfRange indicates a match position outside the bucket's list.
	ErrIndexOutOfRange = errors.New("match index out of range")
)

// Store provides thread-safe access to the match registry with automatic
// persistence. Every mutation computes the next document, persists it, and
// only then makes it visible, so a failed write never leaves memory ahead
// of the snapshot on disk.
type Store struct {
	mu     sync.RWMutex
	data   Data
	path   string
	logger *logging.Logger
}

// NewStore loads the registry snapshot from path. When the file is absent
// or unreadable the well-known default dataset is seeded and persisted
// immediately.
func NewStore(path string, logger *logging.Logger) (*Store, error) {
	data, err := load(path)
	if err != nil {
		if isCorrupt(err) {
			logger.Warn("registry snapshot unusable, reseeding", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		} else {
			logger.Info("registry snapshot missing, seeding defaults", map[string]interface{}{
				"path": path,
			})
		}

		data = seed()
		if err := save(path, data); err != nil {
			return nil, fmt.Errorf("failed to seed registry: %w", err)
		}
	}

	logger.Info("registry loaded", map[string]interface{}{
		"path":      path,
		"yesterday": len(data.Yesterday),
		"today":     len(data.Today),
		"tomorrow":  len(data.Tomorrow),
	})

	return &Store{data: data, path: path, logger: logger}, nil
}

// Get returns a deep-copied snapshot of the registry.
func (s *Store) Get() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.clone()
}

// commit persists next and swaps it in as the current document.
// Callers must hold the write lock.
func (s *Store) commit(next Data, op string) error {
	if err := save(s.path, next); err != nil {
		metrics.RecordPersistFailure("registry")
		return fmt.Errorf("registry %s not persisted: %w", op, err)
	}
	s.data = next
	metrics.RecordStoreMutation("registry", op)
	return nil
}

// Add appends entry to the end of the named bucket and persists.
func (s *Store) Add(day string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	bucket := next.bucket(day)
	if bucket == nil {
		return fmt.Errorf("%w: %s", ErrUnknownBucket, day)
	}

	*bucket = append(*bucket, entry)
	return s.commit(next, "add")
}

// Update replaces the entry at index in the named bucket and persists.
func (s *Store) Update(day string, index int, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	bucket := next.bucket(day)
	if bucket == nil {
		return fmt.Errorf("%w: %s", ErrUnknownBucket, day)
	}
	if index < 0 || index >= len(*bucket) {
		return fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, day, index)
	}

	(*bucket)[index] = entry
	return s.commit(next, "update")
}

// Delete removes the entry at index in the named bucket, shifting later
// entries down one position, and persists. Positions are transient: any
// index cached by a caller is stale after a delete in the same bucket.
func (s *Store) Delete(day string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	bucket := next.bucket(day)
	if bucket == nil {
		return fmt.Errorf("%w: %s", ErrUnknownBucket, day)
	}
	if index < 0 || index >= len(*bucket) {
		return fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, day, index)
	}

	*bucket = append((*bucket)[:index], (*bucket)[index+1:]...)
	return s.commit(next, "delete")
}

// Shift advances the registry by one day in a single step:
// yesterday takes today's entries, today takes tomorrow's, and tomorrow is
// cleared. The old yesterday bucket is discarded. The rotation is persisted
// once, after all three buckets are computed, so no reader ever observes a
// partially rotated registry.
func (s *Store) Shift() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.data.clone()
	next := Data{
		Yesterday: current.Today,
		Today:     current.Tomorrow,
		Tomorrow:  []Entry{},
	}
	if err := s.commit(next, "shift"); err != nil {
		return err
	}

	s.logger.Info("registry day shifted", map[string]interface{}{
		"yesterday": len(next.Yesterday),
		"today":     len(next.Today),
	})
	return nil
}
