package internal

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/s-oshima-kops/automakedoc/internal/apperr"
	"github.com/s-oshima-kops/automakedoc/internal/render"
)

const appTestSchema = `id: daily
name: 日報
sections:
  - name: body
    title: 本文
    order: 1
    fields:
      - name: 作業内容
        type: daily_content
        required: true
`

func testConfig(t *testing.T) *Config {
	t.Helper()
	root := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.Store.Path = filepath.Join(root, "logs")
	cfg.Templates.Path = filepath.Join(root, "templates")
	cfg.Index.Path = filepath.Join(root, "index.db")
	cfg.Tokenizer.Order = []string{"statistical"}
	return cfg
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := New(
		WithConfig(testConfig(t)),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestSaveEntryIndexesBody(t *testing.T) {
	app := newTestApp(t)
	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	if err := app.SaveEntry(date, "EC2インスタンスを設定した。", []string{"aws"}); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}

	entry, err := app.Store.Get(date)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Body != "EC2インスタンスを設定した。" {
		t.Fatalf("unexpected body %q", entry.Body)
	}

	results, err := app.Index.Search("EC2", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Date != "2024-04-01" {
		t.Fatalf("unexpected search results %+v", results)
	}
}

func TestDeleteEntryRemovesFromIndex(t *testing.T) {
	app := newTestApp(t)
	date := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)

	if err := app.SaveEntry(date, "削除対象の記録。", nil); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}
	if err := app.DeleteEntry(date); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}

	if _, err := app.Store.Get(date); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	results, err := app.Index.Search("削除", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("stale index results %+v", results)
	}
}

func TestSyncRecoversExistingEntries(t *testing.T) {
	cfg := testConfig(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	first, err := New(WithConfig(cfg), WithLogger(logger))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	date := time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC)
	if err := first.Store.Save(date, "インデックス未反映の記録。", nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first.Close()

	second, err := New(WithConfig(cfg), WithLogger(logger))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer second.Close()

	results, err := second.Index.Search("未反映", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected sync to index the entry, got %+v", results)
	}
}

func TestRenderThroughApp(t *testing.T) {
	app := newTestApp(t)

	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	if err := app.SaveEntry(start, "設計レビューを実施した。", nil); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}
	if err := app.SaveEntry(end, "実装を開始した。", nil); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}

	path := filepath.Join(app.Config.Templates.Path, "daily.yaml")
	if err := os.WriteFile(path, []byte(appTestSchema), 0o644); err != nil {
		t.Fatal(err)
	}

	schema, err := app.Templates.Get("daily")
	if err != nil {
		t.Fatalf("Get template: %v", err)
	}
	out, err := app.Renderer.Render(schema, render.Request{Start: start, End: end}, render.FormatText)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(out.Data)
	for _, want := range []string{"【2024年4月1日】", "設計レビューを実施した。", "【2024年4月2日】", "実装を開始した。"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if out.Filename != "日報_2024-04-01_2024-04-02.txt" {
		t.Fatalf("unexpected filename %q", out.Filename)
	}
}
