package index

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

// Document represents a row in the documents table.
type Document struct {
	Path     string
	URL      string
	Title    string
	Kind     models.Kind
	Checksum string
	Body     string
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string
	URL     string
	Title   string
	Snippet string
}

// FromNotes converts built notes and pages into index rows.
func FromNotes(notes []*models.Note) []Document {
	out := make([]Document, 0, len(notes))
	for _, n := range notes {
		out = append(out, Document{
			Path:     n.Path,
			URL:      n.URL,
			Title:    n.DisplayTitle(),
			Kind:     n.Kind,
			Checksum: n.Checksum,
			Body:     n.Body,
		})
	}
	return out
}

// ReplaceAll swaps the whole index for docs in one transaction.
func (db *DB) ReplaceAll(buildID string, docs []Document) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM documents`); err != nil {
		return fmt.Errorf("index: clear documents: %w", err)
	}
	if err := ftsClear(tx); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO documents (path, url, title, kind, checksum, body, build_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		if _, err := stmt.Exec(d.Path, d.URL, d.Title, string(d.Kind), d.Checksum, d.Body, buildID); err != nil {
			return fmt.Errorf("index: insert %s: %w", d.Path, err)
		}
		if err := ftsInsert(tx, d); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get returns the indexed document at path.
func (db *DB) Get(path string) (*Document, error) {
	var d Document
	var kind string
	err := db.conn.QueryRow(`
		SELECT path, url, title, kind, checksum, body FROM documents WHERE path = ?
	`, path).Scan(&d.Path, &d.URL, &d.Title, &kind, &d.Checksum, &d.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: %s: %w", path, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index: get: %w", err)
	}
	d.Kind = models.Kind(kind)
	return &d, nil
}

// Count returns the number of indexed documents.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

func scanResults(rows *sql.Rows) ([]SearchResult, error) {
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Path, &r.URL, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
