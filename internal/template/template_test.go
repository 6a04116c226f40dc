package template

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/s-oshima-kops/automakedoc/internal/apperr"
)

const validSchema = `
id: weekly_report
name: 週報
description: 一週間の作業報告
output_format: text
sections:
  - name: overview
    title: 概要
    order: 2
    fields:
      - name: summary
        type: summary
        required: true
        sentence_count: 5
  - name: header
    title: ヘッダー
    order: 1
    fields:
      - name: reporter
        type: text
        default: 未設定
      - name: report_date
        type: date
`

func TestLoadValid(t *testing.T) {
	schema, err := Load([]byte(validSchema))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if schema.ID != "weekly_report" || schema.Name != "週報" {
		t.Errorf("identity = %q/%q", schema.ID, schema.Name)
	}
	// Sections must come back sorted by order.
	if schema.Sections[0].Name != "header" || schema.Sections[1].Name != "overview" {
		t.Errorf("sections not sorted by order: %s, %s", schema.Sections[0].Name, schema.Sections[1].Name)
	}
	f := schema.Sections[1].Fields[0]
	if f.Type != FieldSummary || !f.Required || f.SentenceCount != 5 {
		t.Errorf("summary field = %+v", f)
	}
	if !schema.Sections[0].IsVisible() {
		t.Error("visible should default to true")
	}
}

func TestLoadRejections(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not yaml", "id: [unclosed"},
		{"missing id", "name: x\nsections: []"},
		{"missing name", "id: x\nsections: []"},
		{"missing field type", `
id: x
name: x
sections:
  - name: s
    fields:
      - name: f
`},
		{"unknown field type", `
id: x
name: x
sections:
  - name: s
    fields:
      - name: f
        type: hologram
`},
		{"empty section name", `
id: x
name: x
sections:
  - title: s
    fields: []
`},
		{"duplicate field name", `
id: x
name: x
sections:
  - name: s
    fields:
      - name: f
        type: text
      - name: f
        type: date
`},
		{"non-numeric order", `
id: x
name: x
sections:
  - name: s
    order: first
    fields: []
`},
		{"list default not a sequence", `
id: x
name: x
sections:
  - name: s
    fields:
      - name: f
        type: list
        default: not-a-list
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, err := Load([]byte(tt.in))
			if !errors.Is(err, apperr.ErrSchemaInvalid) {
				t.Errorf("err = %v, want ErrSchemaInvalid", err)
			}
			if schema != nil {
				t.Error("partial schema returned on failure")
			}
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRegistrySkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.yaml", validSchema)
	writeFile(t, dir, "bad.yaml", "id: broken\nsections: {nope")
	writeFile(t, dir, "notes.txt", "ignored")

	r := NewRegistry(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	infos, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 || infos[0].ID != "weekly_report" {
		t.Errorf("infos = %+v", infos)
	}

	if _, err := r.Get("weekly_report"); err != nil {
		t.Errorf("Get: %v", err)
	}
	if _, err := r.Get("broken"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get(broken) err = %v, want ErrNotFound", err)
	}
}

func TestRegistryDuplicateID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", validSchema)
	writeFile(t, dir, "b.yaml", validSchema)

	r := NewRegistry(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	infos, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 {
		t.Errorf("duplicate id loaded twice: %+v", infos)
	}
}

func TestRegistryInvalidate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", validSchema)

	r := NewRegistry(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := r.Get("weekly_report"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	writeFile(t, dir, "b.yaml", `
id: daily_report
name: 日報
sections: []
`)
	// Still cached: the new file is not visible yet.
	if _, err := r.Get("daily_report"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("cache unexpectedly reloaded: %v", err)
	}
	r.Invalidate()
	if _, err := r.Get("daily_report"); err != nil {
		t.Errorf("Get after Invalidate: %v", err)
	}
}

func TestRegistryWatchInvalidates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", validSchema)

	r := NewRegistry(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := r.List(); err != nil {
		t.Fatalf("List: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Watch(ctx)
	}()

	// Give the watcher time to register, then drop a new definition.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "b.yaml", "id: extra\nname: Extra\nsections: []")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := r.Get("extra"); err == nil {
			cancel()
			<-done
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("watcher did not invalidate the cache")
}
