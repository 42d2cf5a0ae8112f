package data

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

const (
	insertStateSQL = `INSERT INTO state (corpus, org, repo, since) VALUES (?, ?, ?, ?)
		ON CONFLICT (corpus, org, repo) DO UPDATE SET since = excluded.since
	`

	selectStateSQL = `SELECT since FROM state WHERE corpus = ? AND org = ? AND repo = ?`

	deleteStateSQL = `DELETE FROM state WHERE corpus = ? AND org = ?`
)

// GetImportState returns the high-water mark of the last import for the
// given corpus/org/repo, or the zero time when none was recorded.
func GetImportState(db *sql.DB, corpus, org, repo string) (time.Time, error) {
	if db == nil {
		return time.Time{}, errDBNotInitialized
	}

	var since string
	err := db.QueryRow(selectStateSQL, corpus, org, repo).Scan(&since)
	if err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, nil
		}
		return time.Time{}, errors.Wrap(err, "failed to scan state row")
	}

	t, err := time.Parse(time.RFC3339, since)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid state timestamp: %s", since)
	}
	return t, nil
}

// SaveImportState records the import high-water mark for a corpus/org/repo.
func SaveImportState(db *sql.DB, corpus, org, repo string, since time.Time) error {
	if db == nil {
		return errDBNotInitialized
	}
	if corpus == "" || org == "" || repo == "" {
		return errors.Errorf("corpus: %s, org: %s, repo: %s are all required", corpus, org, repo)
	}

	if _, err := db.Exec(insertStateSQL, corpus, org, repo, since.UTC().Format(time.RFC3339)); err != nil {
		return errors.Wrap(err, "failed to save import state")
	}
	return nil
}

// ClearImportState removes the import state for all repos of an org, so the
// next import starts from scratch.
func ClearImportState(db *sql.DB, corpus, org string) error {
	if db == nil {
		return errDBNotInitialized
	}
	if _, err := db.Exec(deleteStateSQL, corpus, org); err != nil {
		return errors.Wrap(err, "failed to clear import state")
	}
	return nil
}
