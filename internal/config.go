// Package internal provides application configuration and component wiring.
package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Store     StoreConfig       `yaml:"store"`
	Templates TemplatesConfig   `yaml:"templates"`
	Index     IndexConfig       `yaml:"index"`
	Summary   SummaryConfig     `yaml:"summary"`
	Tokenizer TokenizerConfig   `yaml:"tokenizer"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Templates.Validate(); err != nil {
		return err
	}
	if err := c.Index.Validate(); err != nil {
		return err
	}
	if err := c.Summary.Validate(); err != nil {
		return err
	}
	return c.Tokenizer.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// StoreConfig holds the path to the log entry directory.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// TemplatesConfig holds the path to the report definition directory.
type TemplatesConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the templates configuration.
func (c *TemplatesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// IndexConfig holds the SQLite search index configuration.
type IndexConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the index configuration.
func (c *IndexConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SummaryConfig holds summarization defaults.
type SummaryConfig struct {
	// SentenceCount applies to summary fields without their own
	// sentence_count.
	SentenceCount int `yaml:"sentence_count"`
}

// Validate validates the summary configuration.
func (c *SummaryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SentenceCount, validation.Required, validation.Min(1)),
	)
}

// TokenizerConfig holds the segmenter preference order.
type TokenizerConfig struct {
	Order []string `yaml:"order"`
}

// Validate validates the tokenizer configuration.
func (c *TokenizerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Order, validation.Each(validation.In("statistical", "morphological", "rune"))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Store: StoreConfig{
			Path: "./data/logs",
		},
		Templates: TemplatesConfig{
			Path: "./templates",
		},
		Index: IndexConfig{
			Path: "./automakedoc.db",
		},
		Summary: SummaryConfig{
			SentenceCount: 3,
		},
		Tokenizer: TokenizerConfig{
			Order: []string{"statistical", "morphological"},
		},
	}
}
