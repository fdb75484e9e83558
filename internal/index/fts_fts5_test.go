//go:build sqlite_fts5

package index

import "testing"

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents_fts`).Scan(&count); err != nil {
		t.Fatalf("documents_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	err := db.ReplaceAll("b1", []Document{{
		Path:  "fts.md",
		URL:   "/fts/",
		Title: "FTS Note",
		Body:  "Laguz provides powerful full-text search over the vault.",
	}})
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	results, err := db.Search("powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Path != "fts.md" || results[0].URL != "/fts/" {
		t.Errorf("result = %+v", results[0])
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_ReplaceAllReplacesContent(t *testing.T) {
	db := testDB(t)
	_ = db.ReplaceAll("b1", []Document{{Path: "evo.md", Title: "Old", Body: "original text"}})
	_ = db.ReplaceAll("b2", []Document{{Path: "evo.md", Title: "New", Body: "replacement text"}})

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 || results[0].Title != "New" {
		t.Errorf("FTS not updated: %+v", results)
	}
}
