package channels

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ayoubalgboom-bot/brglive-website/logging"
	"github.com/ayoubalgboom-bot/brglive-website/metrics"
)

// ErrNotFound indicates no channel carries the requested ID.
var ErrNotFound = errors.New("channel not found")

// Store provides thread-safe access to the channel catalog with automatic
// persistence. Like the registry store, mutations persist the next document
// before making it visible, so a failed write never advances memory past
// the snapshot on disk.
type Store struct {
	mu     sync.RWMutex
	doc    Document
	path   string
	logger *logging.Logger
}

// NewStore loads the catalog snapshot from path. When the file is absent
// or unreadable an empty catalog is persisted immediately.
func NewStore(path string, logger *logging.Logger) (*Store, error) {
	doc, err := load(path)
	if err != nil {
		if isCorrupt(err) {
			logger.Warn("channel snapshot unusable, resetting", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		} else {
			logger.Info("channel snapshot missing, creating empty catalog", map[string]interface{}{
				"path": path,
			})
		}

		doc = Document{Channels: []Channel{}}
		if err := save(path, doc); err != nil {
			return nil, fmt.Errorf("failed to create channel snapshot: %w", err)
		}
	}

	logger.Info("channel catalog loaded", map[string]interface{}{
		"path":     path,
		"channels": len(doc.Channels),
	})

	return &Store{doc: doc, path: path, logger: logger}, nil
}

// List returns a deep-copied snapshot of the catalog in insertion order.
func (s *Store) List() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.clone()
}

// commit persists next and swaps it in as the current document.
// Callers must hold the write lock.
func (s *Store) commit(next Document, op string) error {
	if err := save(s.path, next); err != nil {
		metrics.RecordPersistFailure("channels")
		return fmt.Errorf("channel %s not persisted: %w", op, err)
	}
	s.doc = next
	metrics.RecordStoreMutation("channels", op)
	return nil
}

// Create appends a new channel built from the partial fields, assigns it
// the next numeric ID, persists, and returns the stored record.
func (s *Store) Create(partial Partial) (Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	ch := Channel{ID: next.nextID()}
	partial.apply(&ch)
	next.Channels = append(next.Channels, ch)

	if err := s.commit(next, "create"); err != nil {
		return Channel{}, err
	}
	return ch, nil
}

// Update merges the partial fields over the channel with the given ID and
// persists. The ID itself never changes.
func (s *Store) Update(id string, partial Partial) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	i := next.indexOf(id)
	if i == -1 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	partial.apply(&next.Channels[i])
	next.Channels[i].ID = id
	return s.commit(next, "update")
}

// Delete removes the channel with the given ID and persists.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	i := next.indexOf(id)
	if i == -1 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next.Channels = append(next.Channels[:i], next.Channels[i+1:]...)
	return s.commit(next, "delete")
}
