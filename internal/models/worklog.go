// Package models defines the domain types shared across the application.
package models

import "time"

// DateKeyLayout is the canonical key format for a log entry's calendar date.
const DateKeyLayout = "2006-01-02"

// LogEntry is one free-text work log, keyed by calendar date.
type LogEntry struct {
	Date      time.Time `json:"date"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DateKey returns the entry's date formatted as its storage key.
func (e LogEntry) DateKey() string {
	return e.Date.Format(DateKeyLayout)
}

// SummaryResult holds the sentences selected by an extractive summarization
// pass, in their original narrative order. It is computed per render request
// and never persisted.
type SummaryResult struct {
	Sentences        []string `json:"sentences"`
	SourceEntryCount int      `json:"source_entry_count"`
}

// Text returns the summary as one sentence per line.
func (r SummaryResult) Text() string {
	out := ""
	for i, s := range r.Sentences {
		if i > 0 {
			out += "\n"
		}
		out += s
	}
	return out
}
