// Package index provides a SQLite-backed keyword-search index over log
// entries, with optional FTS5 full-text search. The index is derived data;
// the log store remains the source of truth and Sync reconciles the two.
package index

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/s-oshima-kops/automakedoc/internal/models"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS entries (
	date       TEXT PRIMARY KEY,
	body       TEXT NOT NULL DEFAULT '',
	tags       TEXT NOT NULL DEFAULT '',
	checksum   TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Checksum fingerprints an entry's indexable content, used by Sync to skip
// entries that have not changed.
func Checksum(body string, tags []string) string {
	h := sha256.New()
	h.Write([]byte(body))
	for _, t := range tags {
		h.Write([]byte{0})
		h.Write([]byte(t))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Upsert inserts or replaces the index row for one entry.
func (db *DB) Upsert(entry models.LogEntry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin: %w", err)
	}
	defer tx.Rollback()

	key := entry.DateKey()
	tags := strings.Join(entry.Tags, " ")
	_, err = tx.Exec(`
		INSERT INTO entries (date, body, tags, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			body = excluded.body,
			tags = excluded.tags,
			checksum = excluded.checksum,
			updated_at = excluded.updated_at
	`, key, entry.Body, tags, Checksum(entry.Body, entry.Tags), entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert %s: %w", key, err)
	}
	if err := ftsUpsert(tx, key, entry.Body, tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("index: commit: %w", err)
	}
	return nil
}

// Delete removes the index row for a date key.
func (db *DB) Delete(dateKey string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entries WHERE date = ?`, dateKey); err != nil {
		return fmt.Errorf("index: delete %s: %w", dateKey, err)
	}
	ftsDelete(tx, dateKey)
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("index: commit: %w", err)
	}
	return nil
}

// Stats reports totals over the indexed history.
func (db *DB) Stats() (*Stats, error) {
	row := db.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(MIN(date), ''),
		       COALESCE(MAX(date), ''),
		       COALESCE(SUM(LENGTH(body)), 0)
		FROM entries
	`)
	var s Stats
	if err := row.Scan(&s.TotalEntries, &s.FirstDate, &s.LastDate, &s.TotalChars); err != nil {
		return nil, fmt.Errorf("index: stats: %w", err)
	}
	return &s, nil
}

// AllChecksums returns date key → checksum for every indexed entry.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT date, checksum FROM entries`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var date, cs string
		if err := rows.Scan(&date, &cs); err != nil {
			return nil, err
		}
		out[date] = cs
	}
	return out, rows.Err()
}
