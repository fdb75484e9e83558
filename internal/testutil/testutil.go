// Package testutil provides shared test helpers for setting up vaults and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/laguz/internal/index"
	"github.com/starford/laguz/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "laguz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// WriteFiles writes path → content pairs into the vault.
func WriteFiles(t *testing.T, store storage.Provider, files map[string]string) {
	t.Helper()
	for p, content := range files {
		if err := store.Write(p, []byte(content)); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}

// SmithBibliography is a one-entry CSL-JSON bibliography.
const SmithBibliography = `[
  {
    "id": "smith2020",
    "type": "book",
    "title": "On Notes",
    "author": [{"family": "Smith", "given": "Ann"}],
    "issued": {"date-parts": [[2020, 3]]}
  }
]`

// WriteBibliography writes content to a bibliography file inside dir and
// returns its path.
func WriteBibliography(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, "references.json")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write bibliography: %v", err)
	}
	return p
}
