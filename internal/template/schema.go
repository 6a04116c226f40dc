// Package template loads and validates declarative report definitions.
//
// A definition file describes a report as ordered sections of typed fields.
// Schemas are immutable after load; a definition that fails validation is
// excluded wholesale, never partially accepted or defaulted.
package template

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FieldType is the closed enumeration of field kinds. Each kind governs how
// the renderer sources and formats the field's value.
type FieldType string

const (
	FieldText         FieldType = "text"
	FieldDate         FieldType = "date"
	FieldDateTime     FieldType = "datetime"
	FieldList         FieldType = "list"
	FieldSummary      FieldType = "summary"
	FieldDailyContent FieldType = "daily_content"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldDate, FieldDateTime, FieldList, FieldSummary, FieldDailyContent:
		return true
	}
	return false
}

// Field is one typed slot in a section.
type Field struct {
	Name        string    `yaml:"name"`
	Type        FieldType `yaml:"type"`
	Required    bool      `yaml:"required"`
	Description string    `yaml:"description"`
	Default     any       `yaml:"default"`

	// Summarize switches a daily_content field from verbatim bodies to a
	// per-day summarizer pass. SentenceCount overrides the summary length
	// for summary and daily_content fields; zero means the global default.
	Summarize     bool `yaml:"summarize"`
	SentenceCount int  `yaml:"sentence_count"`
}

// Validate checks the field in isolation.
func (f *Field) Validate() error {
	if err := validation.ValidateStruct(f,
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.Type, validation.Required, validation.By(func(any) error {
			if !f.Type.Valid() {
				return fmt.Errorf("unknown field type %q", f.Type)
			}
			return nil
		})),
		validation.Field(&f.SentenceCount, validation.Min(0)),
	); err != nil {
		return err
	}
	return f.validateDefault()
}

// validateDefault rejects defaults whose shape cannot satisfy the declared
// type: lists take sequences, every other kind takes a scalar.
func (f *Field) validateDefault() error {
	if f.Default == nil {
		return nil
	}
	switch f.Type {
	case FieldList:
		if _, ok := f.Default.([]any); !ok {
			return fmt.Errorf("field %q: default for list must be a sequence", f.Name)
		}
	default:
		switch f.Default.(type) {
		case string, int, float64, bool:
		default:
			return fmt.Errorf("field %q: default must be a scalar", f.Name)
		}
	}
	return nil
}

// Section groups fields under a heading. Order defines render order;
// Visible (default true) gates the whole section.
type Section struct {
	Name    string  `yaml:"name"`
	Title   string  `yaml:"title"`
	Order   int     `yaml:"order"`
	Visible *bool   `yaml:"visible"`
	Fields  []Field `yaml:"fields"`
}

// IsVisible reports whether the section renders at all.
func (s *Section) IsVisible() bool {
	return s.Visible == nil || *s.Visible
}

// Validate checks the section and its fields.
func (s *Section) Validate() error {
	if err := validation.ValidateStruct(s,
		validation.Field(&s.Name, validation.Required),
	); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if err := f.Validate(); err != nil {
			return fmt.Errorf("section %q: %w", s.Name, err)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("section %q: duplicate field %q", s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// Schema is a full report definition.
type Schema struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name"`
	Description  string    `yaml:"description"`
	OutputFormat string    `yaml:"output_format"` // advisory UI hint only
	Sections     []Section `yaml:"sections"`
}

// Validate checks the whole definition; any failure rejects the schema.
func (s *Schema) Validate() error {
	if err := validation.ValidateStruct(s,
		validation.Field(&s.ID, validation.Required),
		validation.Field(&s.Name, validation.Required),
	); err != nil {
		return err
	}
	for i := range s.Sections {
		if err := s.Sections[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
