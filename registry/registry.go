// Package registry owns the day-bucketed match registry: three ordered
// lists of matches (yesterday, today, tomorrow) persisted as a single JSON
// snapshot document that is rewritten in full on every mutation.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Entry is one scheduled or live match. Entries carry no identifier;
// a match is addressed by its bucket and list position.
type Entry struct {
	Home        string `json:"home"`
	Away        string `json:"away"`
	HomeLogo    string `json:"homeLogo"`
	AwayLogo    string `json:"awayLogo"`
	Time        string `json:"time"`
	Status      string `json:"status"`
	Score       string `json:"score"`
	League      string `json:"league"`
	Channel     string `json:"channel"`
	Commentator string `json:"commentator"`
	StreamURL   string `json:"streamUrl"`
}

// Data is the full registry document. All three buckets are always
// present, possibly empty, never nil.
type Data struct {
	Yesterday []Entry `json:"yesterday"`
	Today     []Entry `json:"today"`
	Tomorrow  []Entry `json:"tomorrow"`
}

// Day bucket names, as they appear in the snapshot document and in API paths.
const (
	Yesterday = "yesterday"
	Today     = "today"
	Tomorrow  = "tomorrow"
)

// normalize replaces nil buckets with empty lists so the snapshot always
// marshals all three buckets as arrays.
func (d *Data) normalize() {
	if d.Yesterday == nil {
		d.Yesterday = []Entry{}
	}
	if d.Today == nil {
		d.Today = []Entry{}
	}
	if d.Tomorrow == nil {
		d.Tomorrow = []Entry{}
	}
}

// bucket returns a pointer to the named bucket's list, or nil for an
// unknown day.
func (d *Data) bucket(day string) *[]Entry {
	switch day {
	case Yesterday:
		return &d.Yesterday
	case Today:
		return &d.Today
	case Tomorrow:
		return &d.Tomorrow
	}
	return nil
}

// clone returns a deep copy of the registry document.
func (d *Data) clone() Data {
	out := Data{
		Yesterday: make([]Entry, len(d.Yesterday)),
		Today:     make([]Entry, len(d.Today)),
		Tomorrow:  make([]Entry, len(d.Tomorrow)),
	}
	copy(out.Yesterday, d.Yesterday)
	copy(out.Today, d.Today)
	copy(out.Tomorrow, d.Tomorrow)
	return out
}

// seed returns the well-known default registry used when no usable
// snapshot exists: the dataset the site first shipped with.
func seed() Data {
	return Data{
		Yesterday: []Entry{},
		Today: []Entry{
			{
				Home:        "برشلونة",
				Away:        "ريال مدريد",
				HomeLogo:    "assets/barcelona.png",
				AwayLogo:    "assets/real_madrid.png",
				Time:        "23:00",
				Status:      "23:00",
				Score:       "0 - 0",
				League:      "الدوري الإسباني",
				Channel:     "beIN Sports 1",
				Commentator: "عصام الشوالي",
				StreamURL:   "http://het129c.ycn-redirect.com/live/918454578001/index.m3u8?t=dt_PzZsOxY6_xqEQ7PGKtw&e=1768111577",
			},
		},
		Tomorrow: []Entry{},
	}
}

// load reads and parses the registry snapshot from path.
// A missing file is reported via os.ErrNotExist so callers can seed.
func load(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, err
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("failed to parse registry snapshot: %w", err)
	}

	data.normalize()
	return data, nil
}

// save writes data to path as an indented JSON document, creating the
// parent directory if needed. The document is the external contract: it is
// consumed verbatim by GET /api/matches and by static deployments.
func save(path string, data Data) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write registry snapshot: %w", err)
	}

	return nil
}

// isCorrupt reports whether the load error means the snapshot exists but
// cannot be used, as opposed to simply not existing yet.
func isCorrupt(err error) bool {
	return err != nil && !errors.Is(err, os.ErrNotExist)
}
