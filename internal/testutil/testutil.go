// Package testutil provides shared test helpers for setting up stores, indexes and template directories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/s-oshima-kops/automakedoc/internal/index"
	"github.com/s-oshima-kops/automakedoc/internal/logstore"
)

// TestIndex creates a temporary SQLite index that is automatically cleaned up.
func TestIndex(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "automakedoc-test-*.db")
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

// TestStore creates a temporary entry directory with a logstore.Provider.
func TestStore(t *testing.T) (string, logstore.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := logstore.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteTemplate writes a report definition file into dir.
func WriteTemplate(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
