// Package channels owns the TV channel catalog: an insertion-ordered list
// of channels keyed by numeric-string IDs, persisted as a single JSON
// snapshot document rewritten in full on every mutation.
package channels

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Channel is one catalog record. The ID is a string of decimal digits,
// assigned on creation and immutable afterwards.
type Channel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Logo      string `json:"logo"`
	StreamURL string `json:"streamUrl"`
}

// Document is the full catalog snapshot.
type Document struct {
	Channels []Channel `json:"channels"`
}

// Partial carries the channel fields of a create or update request.
// Pointer fields distinguish "not sent" (nil) from "set to empty".
type Partial struct {
	Name      *string `json:"name"`
	Category  *string `json:"category"`
	Logo      *string `json:"logo"`
	StreamURL *string `json:"streamUrl"`
}

// apply merges the non-nil fields of p over ch.
func (p Partial) apply(ch *Channel) {
	if p.Name != nil {
		ch.Name = *p.Name
	}
	if p.Category != nil {
		ch.Category = *p.Category
	}
	if p.Logo != nil {
		ch.Logo = *p.Logo
	}
	if p.StreamURL != nil {
		ch.StreamURL = *p.StreamURL
	}
}

// normalize replaces a nil channel list with an empty one so the snapshot
// always marshals "channels" as an array.
func (d *Document) normalize() {
	if d.Channels == nil {
		d.Channels = []Channel{}
	}
}

// clone returns a deep copy of the document.
func (d *Document) clone() Document {
	out := Document{Channels: make([]Channel, len(d.Channels))}
	copy(out.Channels, d.Channels)
	return out
}

// nextID computes the ID for a new channel: one past the highest numeric
// ID currently in the catalog, starting at 1. IDs that do not parse as
// decimal integers are skipped.
func (d *Document) nextID() string {
	max := 0
	for _, ch := range d.Channels {
		if n, err := strconv.Atoi(ch.ID); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

// indexOf returns the position of the channel with the given ID, or -1.
func (d *Document) indexOf(id string) int {
	for i, ch := range d.Channels {
		if ch.ID == id {
			return i
		}
	}
	return -1
}

// load reads and parses the catalog snapshot from path.
func load(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse channel snapshot: %w", err)
	}

	doc.normalize()
	return doc, nil
}

// save writes the catalog to path as an indented JSON document.
func save(path string, doc Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal channel snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write channel snapshot: %w", err)
	}

	return nil
}

// isCorrupt reports whether the load error means the snapshot exists but
// cannot be used, as opposed to simply not existing yet.
func isCorrupt(err error) bool {
	return err != nil && !errors.Is(err, os.ErrNotExist)
}
