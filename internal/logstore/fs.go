package logstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/s-oshima-kops/automakedoc/internal/apperr"
	"github.com/s-oshima-kops/automakedoc/internal/models"
)

// FS implements Provider with one JSON file per date under a root directory.
// Writes go through tmp file → fsync → rename, so a concurrent reader either
// sees the old entry or the new one, never a torn file. A store-level mutex
// serializes in-process writers to the same date (last writer wins).
type FS struct {
	root string
	mu   sync.Mutex
}

// NewFS creates a store rooted at dir, creating it if necessary.
func NewFS(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("logstore: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("logstore: create root: %w", err)
	}
	return &FS{root: abs}, nil
}

// normalize strips the time-of-day component so every representation of the
// same calendar date maps to the same key.
func normalize(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func (f *FS) path(d time.Time) string {
	return filepath.Join(f.root, normalize(d).Format(models.DateKeyLayout)+".json")
}

// Save upserts the entry for date.
func (f *FS) Save(date time.Time, body string, tags []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	date = normalize(date)
	now := time.Now()
	entry := models.LogEntry{
		Date:      date,
		Body:      body,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if prev, err := f.read(date); err == nil {
		entry.CreatedAt = prev.CreatedAt
	}

	data, err := json.MarshalIndent(&entry, "", "  ")
	if err != nil {
		return fmt.Errorf("logstore: encode %s: %v: %w", entry.DateKey(), err, apperr.ErrWriteFailure)
	}
	if err := f.writeAtomic(f.path(date), data); err != nil {
		return fmt.Errorf("logstore: save %s: %v: %w", entry.DateKey(), err, apperr.ErrWriteFailure)
	}
	return nil
}

// writeAtomic writes content via tmp file → fsync → rename.
func (f *FS) writeAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(f.root, ".automakedoc-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	success = true
	return nil
}

func (f *FS) read(date time.Time) (*models.LogEntry, error) {
	data, err := os.ReadFile(f.path(date))
	if err != nil {
		return nil, err
	}
	var entry models.LogEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Get returns the entry for date.
func (f *FS) Get(date time.Time) (*models.LogEntry, error) {
	entry, err := f.read(normalize(date))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("logstore: %s: %w", normalize(date).Format(models.DateKeyLayout), apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("logstore: read %s: %w", normalize(date).Format(models.DateKeyLayout), err)
	}
	return entry, nil
}

// GetRange returns entries between start and end inclusive, ascending by date.
func (f *FS) GetRange(start, end time.Time) ([]models.LogEntry, error) {
	start, end = normalize(start), normalize(end)
	if end.Before(start) {
		return nil, fmt.Errorf("logstore: range %s..%s: end before start: %w",
			start.Format(models.DateKeyLayout), end.Format(models.DateKeyLayout), apperr.ErrInvalidArgument)
	}
	var out []models.LogEntry
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		entry, err := f.read(d)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("logstore: read %s: %w", d.Format(models.DateKeyLayout), err)
		}
		out = append(out, *entry)
	}
	return out, nil
}

// Delete removes the entry for date.
func (f *FS) Delete(date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := normalize(date).Format(models.DateKeyLayout)
	if err := os.Remove(f.path(date)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("logstore: %s: %w", key, apperr.ErrNotFound)
		}
		return fmt.Errorf("logstore: delete %s: %v: %w", key, err, apperr.ErrWriteFailure)
	}
	return nil
}

// Dates returns every stored date in ascending order.
func (f *FS) Dates() ([]time.Time, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("logstore: list: %w", err)
	}
	var out []time.Time
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		d, err := time.ParseInLocation(models.DateKeyLayout, strings.TrimSuffix(e.Name(), ".json"), time.UTC)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}
