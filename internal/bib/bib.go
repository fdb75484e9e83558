// Package bib loads CSL-JSON bibliographies into a store keyed by citation key.
package bib

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/starford/laguz/internal/apperr"
)

// Entry is a single bibliography record. Raw keeps every field of the
// original record so it can be handed to citeproc unchanged.
type Entry struct {
	ID    string
	Title string
	Raw   map[string]any
}

// Year returns the publication year from issued.date-parts. The record must
// carry exactly one date-parts component whose first element is the year.
func (e *Entry) Year() (int, error) {
	issued, ok := e.Raw["issued"].(map[string]any)
	if !ok {
		return 0, e.dateErr("missing issued date")
	}
	parts, ok := issued["date-parts"].([]any)
	if !ok {
		return 0, e.dateErr("missing date-parts")
	}
	if len(parts) != 1 {
		return 0, e.dateErr(fmt.Sprintf("expected exactly 1 date-parts entry, got %d", len(parts)))
	}
	first, ok := parts[0].([]any)
	if !ok || len(first) == 0 {
		return 0, e.dateErr("empty date-parts entry")
	}
	year, ok := toInt(first[0])
	if !ok {
		return 0, e.dateErr(fmt.Sprintf("year %v is not an integer", first[0]))
	}
	return year, nil
}

// JSON serializes the raw record.
func (e *Entry) JSON() (string, error) {
	data, err := json.Marshal(e.Raw)
	if err != nil {
		return "", fmt.Errorf("bib: encode %s: %w", e.ID, err)
	}
	return string(data), nil
}

func (e *Entry) dateErr(reason string) error {
	return &apperr.EntryError{ID: e.ID, Reason: reason, Err: apperr.ErrDateShape}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

// Store maps citation keys to entries and remembers file order.
type Store struct {
	entries map[string]*Entry
	order   []string
}

// NewStore builds a store from decoded records. A record without a string
// id fails the whole load. A repeated id replaces the earlier record but
// keeps its position.
func NewStore(records []map[string]any) (*Store, error) {
	s := &Store{entries: make(map[string]*Entry, len(records))}
	for i, rec := range records {
		id, _ := rec["id"].(string)
		if id == "" {
			return nil, &apperr.EntryError{
				Reason: fmt.Sprintf("record %d has no id", i),
				Err:    apperr.ErrMalformedEntry,
			}
		}
		title, _ := rec["title"].(string)
		if _, dup := s.entries[id]; !dup {
			s.order = append(s.order, id)
		}
		s.entries[id] = &Entry{ID: id, Title: title, Raw: rec}
	}
	return s, nil
}

// Load decodes a CSL-JSON array from r.
func Load(r io.Reader) (*Store, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, &apperr.EntryError{Reason: err.Error(), Err: apperr.ErrMalformedEntry}
	}
	return NewStore(records)
}

// LoadFile reads a CSL-JSON bibliography file. An empty path yields an
// empty store.
func LoadFile(path string) (*Store, error) {
	if path == "" {
		return &Store{entries: map[string]*Entry{}}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bib: read %s: %w", path, err)
	}
	s, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("bib: load %s: %w", path, err)
	}
	return s, nil
}

// Get returns the entry for key.
func (s *Store) Get(key string) (*Entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// Has reports whether key is a known citation key.
func (s *Store) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Entries returns all entries in file order.
func (s *Store) Entries() []*Entry {
	out := make([]*Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.order)
}
