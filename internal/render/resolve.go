// Package render resolves a template schema against the log store and
// summarizer, then serializes the resolved document into an output encoding.
//
// Resolution and serialization are separate passes: Resolve runs exactly
// once per render and every serializer consumes the same resolved document,
// so the same inputs produce identical content in every format.
package render

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/s-oshima-kops/automakedoc/internal/apperr"
	"github.com/s-oshima-kops/automakedoc/internal/logstore"
	"github.com/s-oshima-kops/automakedoc/internal/models"
	"github.com/s-oshima-kops/automakedoc/internal/summarize"
	"github.com/s-oshima-kops/automakedoc/internal/template"
)

// Request carries the caller's render parameters. Overrides supply values
// for non-summary fields by field name, bypassing store/summarizer
// resolution; summary and daily_content fields always resolve from the
// store. A zero Now means the current clock.
type Request struct {
	Start     time.Time
	End       time.Time
	Overrides map[string]any
	Now       time.Time
}

// DayBlock is one labeled per-day block of a daily_content field.
type DayBlock struct {
	Date time.Time
	Body string
}

// Value is a resolved field value. Exactly one shape is populated,
// according to Type.
type Value struct {
	Type  template.FieldType
	Text  string     // text; also default fallback for summary
	Time  time.Time  // date, datetime
	Items []string   // list items or summary sentences
	Days  []DayBlock // daily_content
}

// IsEmpty reports whether the value resolved to nothing.
func (v Value) IsEmpty() bool {
	switch v.Type {
	case template.FieldDate, template.FieldDateTime:
		return v.Time.IsZero() && v.Text == ""
	case template.FieldList, template.FieldSummary:
		return len(v.Items) == 0 && v.Text == ""
	case template.FieldDailyContent:
		return len(v.Days) == 0
	default:
		return v.Text == ""
	}
}

// Document is the fully resolved report, ready for any serializer.
type Document struct {
	SchemaID    string
	Title       string
	GeneratedAt time.Time
	Start       time.Time
	End         time.Time
	Sections    []DocSection
}

// DocSection is a resolved, visible section.
type DocSection struct {
	Name   string
	Title  string
	Fields []DocField
}

// DocField pairs a field name with its resolved value.
type DocField struct {
	Name  string
	Value Value
}

// Renderer resolves schemas against the log store and summarizer.
type Renderer struct {
	store            logstore.Provider
	summarizer       *summarize.Summarizer
	logger           *slog.Logger
	defaultSentences int
}

// New creates a Renderer. defaultSentences applies to summary fields that
// carry no sentence_count of their own; zero falls back to the package
// default.
func New(store logstore.Provider, summarizer *summarize.Summarizer, defaultSentences int, logger *slog.Logger) *Renderer {
	if defaultSentences <= 0 {
		defaultSentences = summarize.DefaultSentenceCount
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		store:            store,
		summarizer:       summarizer,
		logger:           logger,
		defaultSentences: defaultSentences,
	}
}

// Resolve walks the schema and produces the resolved document. It is
// read-only on the store. A required field that resolves to nothing aborts
// the whole render with apperr.ErrMissingRequiredField.
func (r *Renderer) Resolve(schema *template.Schema, req Request) (*Document, error) {
	if req.End.Before(req.Start) {
		return nil, fmt.Errorf("render: range %s..%s: end before start: %w",
			req.Start.Format(models.DateKeyLayout), req.End.Format(models.DateKeyLayout),
			apperr.ErrInvalidArgument)
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	// Range entries load lazily, at most once, shared by every summary and
	// daily_content field in the schema.
	var entries []models.LogEntry
	entriesLoaded := false
	loadEntries := func() ([]models.LogEntry, error) {
		if !entriesLoaded {
			var err error
			entries, err = r.store.GetRange(req.Start, req.End)
			if err != nil {
				return nil, err
			}
			entriesLoaded = true
		}
		return entries, nil
	}

	doc := &Document{
		SchemaID:    schema.ID,
		Title:       schema.Name,
		GeneratedAt: now,
		Start:       req.Start,
		End:         req.End,
	}

	for i := range schema.Sections {
		sec := &schema.Sections[i]
		if !sec.IsVisible() {
			continue
		}
		out := DocSection{Name: sec.Name, Title: sec.Title}
		if out.Title == "" {
			out.Title = sec.Name
		}
		for j := range sec.Fields {
			f := &sec.Fields[j]
			value, err := r.resolveField(f, req, now, loadEntries)
			if err != nil {
				return nil, err
			}
			if f.Required && value.IsEmpty() {
				return nil, fmt.Errorf("render: section %q field %q has no value and no default: %w",
					sec.Name, f.Name, apperr.ErrMissingRequiredField)
			}
			out.Fields = append(out.Fields, DocField{Name: f.Name, Value: value})
		}
		doc.Sections = append(doc.Sections, out)
	}
	return doc, nil
}

func (r *Renderer) resolveField(f *template.Field, req Request, now time.Time, loadEntries func() ([]models.LogEntry, error)) (Value, error) {
	v := Value{Type: f.Type}
	override, hasOverride := req.Overrides[f.Name]

	switch f.Type {
	case template.FieldText:
		if hasOverride {
			v.Text = toString(override)
		} else if f.Default != nil {
			v.Text = toString(f.Default)
		}

	case template.FieldDate, template.FieldDateTime:
		switch {
		case hasOverride:
			v.Time, v.Text = parseClock(toString(override))
		case f.Default != nil:
			v.Time, v.Text = parseClock(toString(f.Default))
		default:
			v.Time = now
		}

	case template.FieldList:
		if hasOverride {
			v.Items = toStrings(override)
		} else if f.Default != nil {
			v.Items = toStrings(f.Default)
		}

	case template.FieldSummary:
		entries, err := loadEntries()
		if err != nil {
			return Value{}, err
		}
		res, err := r.summarizer.SummarizeEntries(entries, r.sentenceCount(f))
		if err != nil {
			return Value{}, fmt.Errorf("render: field %q: %w", f.Name, err)
		}
		v.Items = res.Sentences
		if len(v.Items) == 0 && f.Default != nil {
			v.Text = toString(f.Default)
		}

	case template.FieldDailyContent:
		entries, err := loadEntries()
		if err != nil {
			return Value{}, err
		}
		for _, e := range entries {
			body := strings.TrimSpace(e.Body)
			if body == "" {
				continue
			}
			if f.Summarize {
				res, err := r.summarizer.Summarize(body, r.sentenceCount(f))
				if err != nil {
					return Value{}, fmt.Errorf("render: field %q: %w", f.Name, err)
				}
				body = res.Text()
			}
			v.Days = append(v.Days, DayBlock{Date: e.Date, Body: body})
		}
	}
	return v, nil
}

func (r *Renderer) sentenceCount(f *template.Field) int {
	if f.SentenceCount > 0 {
		return f.SentenceCount
	}
	return r.defaultSentences
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	default:
		return []string{fmt.Sprint(t)}
	}
}

// parseClock interprets a caller-supplied date or datetime string. Values it
// cannot parse pass through verbatim as text.
func parseClock(s string) (time.Time, string) {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04",
		models.DateKeyLayout,
	} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, ""
		}
	}
	return time.Time{}, s
}
