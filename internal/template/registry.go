package template

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/s-oshima-kops/automakedoc/internal/apperr"
)

// Info is the lightweight listing entry for one loaded schema.
type Info struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	OutputFormat string `json:"output_format"`
}

// Registry loads every *.yaml definition from a directory and caches the
// result by schema id. Invalid files are skipped with a warning, keeping the
// rest of the directory usable. Watch invalidates the cache when files
// change, so a long-running caller always sees the on-disk definitions.
type Registry struct {
	dir    string
	logger *slog.Logger

	mu     sync.RWMutex
	cache  map[string]*Schema
	infos  []Info
	loaded bool
}

// NewRegistry creates a registry over dir. File names carry no meaning;
// only the id inside each definition does.
func NewRegistry(dir string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{dir: dir, logger: logger}
}

// Get returns the schema with the given id, or apperr.ErrNotFound.
func (r *Registry) Get(id string) (*Schema, error) {
	if err := r.ensure(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	schema, ok := r.cache[id]
	if !ok {
		return nil, fmt.Errorf("template: schema %q: %w", id, apperr.ErrNotFound)
	}
	return schema, nil
}

// List returns metadata for every loaded schema, sorted by id.
func (r *Registry) List() ([]Info, error) {
	if err := r.ensure(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, len(r.infos))
	copy(out, r.infos)
	return out, nil
}

// Invalidate drops the cache; the next access reloads from disk.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.loaded = false
	r.mu.Unlock()
}

func (r *Registry) ensure() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("template: read dir %s: %w", r.dir, err)
	}

	cache := make(map[string]*Schema)
	var infos []Info
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, name))
		if err != nil {
			r.logger.Warn("template: read failed", slog.String("file", name), slog.String("error", err.Error()))
			continue
		}
		schema, err := Load(data)
		if err != nil {
			r.logger.Warn("template: skipping invalid definition", slog.String("file", name), slog.String("error", err.Error()))
			continue
		}
		if _, dup := cache[schema.ID]; dup {
			r.logger.Warn("template: duplicate schema id", slog.String("file", name), slog.String("id", schema.ID))
			continue
		}
		cache[schema.ID] = schema
		infos = append(infos, Info{
			ID:           schema.ID,
			Name:         schema.Name,
			Description:  schema.Description,
			OutputFormat: schema.OutputFormat,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })

	r.cache = cache
	r.infos = infos
	r.loaded = true
	return nil
}

// Watch invalidates the cache whenever a definition file changes, until ctx
// is cancelled. Bursts of events are debounced into a single reload.
func (r *Registry) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("template: watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(r.dir); err != nil {
		return fmt.Errorf("template: watch %s: %w", r.dir, err)
	}
	r.logger.Info("template: watching definitions", slog.String("dir", r.dir))

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(200 * time.Millisecond)
			timerCh = timer.C
		} else {
			timer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case <-timerCh:
			r.Invalidate()
			r.logger.Debug("template: cache invalidated")

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if strings.HasSuffix(ev.Name, ".yaml") || strings.HasSuffix(ev.Name, ".yml") {
				schedule()
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("template: watcher error", slog.String("error", werr.Error()))
		}
	}
}
