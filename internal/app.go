package internal

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/s-oshima-kops/automakedoc/internal/index"
	"github.com/s-oshima-kops/automakedoc/internal/logstore"
	"github.com/s-oshima-kops/automakedoc/internal/models"
	"github.com/s-oshima-kops/automakedoc/internal/render"
	"github.com/s-oshima-kops/automakedoc/internal/summarize"
	"github.com/s-oshima-kops/automakedoc/internal/template"
	"github.com/s-oshima-kops/automakedoc/internal/tokenize"
)

// App wires the log store, search index, template registry, summarizer and
// renderer together for a caller (CLI or GUI shell).
type App struct {
	Config     *Config
	Logger     *slog.Logger
	Store      logstore.Provider
	Index      *index.DB
	Templates  *template.Registry
	Summarizer *summarize.Summarizer
	Renderer   *render.Renderer
}

// New initializes the application with the given options.
func New(opts ...Option) (*App, error) {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}
	if app.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.Config

	if app.Logger == nil {
		app.Logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	logger := app.Logger
	slog.SetDefault(logger)

	logger.Debug("configuration loaded",
		slog.String("store_path", cfg.Store.Path),
		slog.String("templates_path", cfg.Templates.Path),
		slog.String("index_path", cfg.Index.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := logstore.NewFS(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	app.Store = store

	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}
	app.Index = db

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial index sync failed", slog.String("error", err.Error()))
	}

	if err := os.MkdirAll(cfg.Templates.Path, 0o755); err != nil {
		db.Close()
		return nil, fmt.Errorf("create templates dir: %w", err)
	}
	app.Templates = template.NewRegistry(cfg.Templates.Path, logger)

	chain, err := buildChain(cfg.Tokenizer.Order, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	app.Summarizer = summarize.New(chain)
	app.Renderer = render.New(store, app.Summarizer, cfg.Summary.SentenceCount, logger)

	return app, nil
}

func buildChain(order []string, logger *slog.Logger) (*tokenize.Chain, error) {
	if len(order) == 0 {
		return tokenize.DefaultChain(logger), nil
	}
	ctors := make([]tokenize.Constructor, 0, len(order))
	for _, name := range order {
		ctor, err := tokenize.ByName(name)
		if err != nil {
			return nil, err
		}
		ctors = append(ctors, ctor)
	}
	return tokenize.NewChain(logger, ctors...), nil
}

// Close releases the application's resources.
func (a *App) Close() error {
	if a.Index != nil {
		return a.Index.Close()
	}
	return nil
}

// SaveEntry writes an entry to the store and refreshes the search index.
// An index failure does not fail the save; the store is the source of truth
// and the next sync repairs the index.
func (a *App) SaveEntry(date time.Time, body string, tags []string) error {
	if err := a.Store.Save(date, body, tags); err != nil {
		return err
	}
	entry, err := a.Store.Get(date)
	if err != nil {
		return err
	}
	if err := a.Index.Upsert(*entry); err != nil {
		a.Logger.Warn("index upsert failed",
			slog.String("date", entry.DateKey()),
			slog.String("error", err.Error()))
	}
	return nil
}

// DeleteEntry removes an entry from the store and the search index.
func (a *App) DeleteEntry(date time.Time) error {
	if err := a.Store.Delete(date); err != nil {
		return err
	}
	key := date.Format(models.DateKeyLayout)
	if err := a.Index.Delete(key); err != nil {
		a.Logger.Warn("index delete failed",
			slog.String("date", key),
			slog.String("error", err.Error()))
	}
	return nil
}
