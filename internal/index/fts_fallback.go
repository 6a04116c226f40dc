//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not compiled in; search uses a LIKE scan over the entries table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _, _, _ string) error {
	// Body and tags already live in the entries table; nothing extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// Search performs a LIKE-based scan (fallback when FTS5 is not compiled in).
// Substring matching suits Japanese queries, which FTS5's unicode61
// tokenizer splits poorly anyway.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT date, substr(body, 1, 120)
		FROM entries
		WHERE body LIKE ? OR tags LIKE ?
		ORDER BY date DESC
		LIMIT ?
	`, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Date, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
