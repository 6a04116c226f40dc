// Package logstore persists one work-log entry per calendar date.
package logstore

import (
	"time"

	"github.com/s-oshima-kops/automakedoc/internal/models"
)

// Provider is the interface for log entry persistence.
type Provider interface {
	// Save upserts the entry for date. An existing entry keeps its creation
	// timestamp; body and tags are replaced and the update timestamp bumped.
	Save(date time.Time, body string, tags []string) error
	// Get returns the entry for date, or apperr.ErrNotFound.
	Get(date time.Time) (*models.LogEntry, error)
	// GetRange returns entries between start and end (inclusive), ascending
	// by date. Dates with no entry are simply absent.
	GetRange(start, end time.Time) ([]models.LogEntry, error)
	// Delete removes the entry for date, or returns apperr.ErrNotFound.
	Delete(date time.Time) error
	// Dates returns every stored date in ascending order.
	Dates() ([]time.Time, error)
}
