package index

import (
	"log/slog"

	"github.com/s-oshima-kops/automakedoc/internal/logstore"
	"github.com/s-oshima-kops/automakedoc/internal/models"
)

// Sync walks the log store and brings the index up to date:
//   - new/changed entries are upserted
//   - entries removed from the store are deleted from the index
func Sync(db *DB, store logstore.Provider, logger *slog.Logger) error {
	dates, err := store.Dates()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	present := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		entry, err := store.Get(d)
		if err != nil {
			logger.Warn("sync: read failed",
				slog.String("date", d.Format(models.DateKeyLayout)),
				slog.String("error", err.Error()))
			continue
		}
		key := entry.DateKey()
		present[key] = struct{}{}
		if checksums[key] == Checksum(entry.Body, entry.Tags) {
			continue
		}
		if err := db.Upsert(*entry); err != nil {
			logger.Warn("sync: upsert failed", slog.String("date", key), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: indexed", slog.String("date", key))
	}

	for key := range checksums {
		if _, ok := present[key]; ok {
			continue
		}
		if err := db.Delete(key); err != nil {
			logger.Warn("sync: delete stale failed", slog.String("date", key), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: removed stale", slog.String("date", key))
	}
	return nil
}
