package index

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/s-oshima-kops/automakedoc/internal/logstore"
	"github.com/s-oshima-kops/automakedoc/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "automakedoc-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func entry(t *testing.T, key, body string, tags ...string) models.LogEntry {
	t.Helper()
	d, err := time.ParseInLocation(models.DateKeyLayout, key, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	return models.LogEntry{Date: d, Body: body, Tags: tags, UpdatedAt: time.Now()}
}

func TestUpsertAndSearch(t *testing.T) {
	db := testDB(t)
	if err := db.Upsert(entry(t, "2024-01-01", "サーバの設定を変更した", "infra")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := db.Upsert(entry(t, "2024-01-02", "会議の議事録を書いた")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	hits, err := db.Search("サーバ", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Date != "2024-01-01" {
		t.Errorf("hits = %+v", hits)
	}
}

func TestSearchMatchesTags(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(entry(t, "2024-02-01", "some body", "meeting"))
	hits, err := db.Search("meeting", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("hits = %+v", hits)
	}
}

func TestUpsertReplaces(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(entry(t, "2024-03-01", "古い内容"))
	_ = db.Upsert(entry(t, "2024-03-01", "新しい内容"))

	if hits, _ := db.Search("古い", 10); len(hits) != 0 {
		t.Errorf("stale content still searchable: %+v", hits)
	}
	if hits, _ := db.Search("新しい", 10); len(hits) != 1 {
		t.Errorf("replacement not searchable")
	}
	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalEntries != 1 {
		t.Errorf("TotalEntries = %d, want 1", stats.TotalEntries)
	}
}

func TestDeleteAndStats(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(entry(t, "2024-04-01", "abc"))
	_ = db.Upsert(entry(t, "2024-04-03", "defgh"))

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalEntries != 2 || stats.FirstDate != "2024-04-01" || stats.LastDate != "2024-04-03" {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TotalChars != 8 {
		t.Errorf("TotalChars = %d, want 8", stats.TotalChars)
	}

	if err := db.Delete("2024-04-01"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	stats, _ = db.Stats()
	if stats.TotalEntries != 1 || stats.FirstDate != "2024-04-03" {
		t.Errorf("stats after delete = %+v", stats)
	}
}

func TestStatsEmpty(t *testing.T) {
	db := testDB(t)
	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalEntries != 0 || stats.FirstDate != "" || stats.TotalChars != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSyncReconciles(t *testing.T) {
	db := testDB(t)
	store, err := logstore.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	day := func(key string) time.Time {
		d, _ := time.ParseInLocation(models.DateKeyLayout, key, time.UTC)
		return d
	}
	_ = store.Save(day("2024-05-01"), "リリース作業", nil)
	_ = store.Save(day("2024-05-02"), "障害対応", nil)
	// Stale row not present in the store.
	_ = db.Upsert(entry(t, "2024-04-30", "消えるはず"))

	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if hits, _ := db.Search("リリース", 10); len(hits) != 1 {
		t.Errorf("new entry not indexed")
	}
	if hits, _ := db.Search("消える", 10); len(hits) != 0 {
		t.Errorf("stale entry survived sync")
	}

	stats, _ := db.Stats()
	if stats.TotalEntries != 2 {
		t.Errorf("TotalEntries = %d, want 2", stats.TotalEntries)
	}
}
