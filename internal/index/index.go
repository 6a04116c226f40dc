package index

import (
	"github.com/s-oshima-kops/automakedoc/internal/models"
)

// EntryIndex defines the interface for log-entry indexing operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type EntryIndex interface {
	Upsert(entry models.LogEntry) error
	Delete(dateKey string) error
	Search(query string, limit int) ([]SearchResult, error)
	Stats() (*Stats, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies EntryIndex at compile time.
var _ EntryIndex = (*DB)(nil)

// SearchResult is one keyword-search hit.
type SearchResult struct {
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

// Stats summarizes the indexed history.
type Stats struct {
	TotalEntries int    `json:"total_entries"`
	FirstDate    string `json:"first_date,omitempty"`
	LastDate     string `json:"last_date,omitempty"`
	TotalChars   int    `json:"total_chars"`
}
