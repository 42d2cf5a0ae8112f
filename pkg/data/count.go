package data

import (
	"database/sql"
	"time"

	"github.com/mchmarny/termpulse/pkg/table"
	"github.com/pkg/errors"
)

const (
	upsertTermCountSQL = `INSERT INTO term_count (corpus, set_id, term, n, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (corpus, set_id, term) DO UPDATE SET n = excluded.n, updated_at = excluded.updated_at
	`

	incrementTermCountSQL = `INSERT INTO term_count (corpus, set_id, term, n, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (corpus, set_id, term) DO UPDATE SET n = n + excluded.n, updated_at = excluded.updated_at
	`

	selectTermCountsSQL = `SELECT set_id, term, n
		FROM term_count
		WHERE corpus = ?
		ORDER BY set_id, term
	`

	selectSetsSQL = `SELECT set_id, COUNT(*) AS terms, SUM(n) AS total
		FROM term_count
		WHERE corpus = ?
		GROUP BY set_id
		ORDER BY set_id
	`

	selectCorporaSQL = `SELECT corpus, COUNT(*) AS rows_, COUNT(DISTINCT set_id) AS sets
		FROM term_count
		GROUP BY corpus
		ORDER BY corpus
	`

	deleteCorpusCountsSQL = `DELETE FROM term_count WHERE corpus = ?`
	deleteCorpusScoresSQL = `DELETE FROM score WHERE corpus = ?`
	deleteCorpusStateSQL  = `DELETE FROM state WHERE corpus = ?`
)

// TermCount is one observed count of a term within a set.
type TermCount struct {
	Set  string  `json:"set" yaml:"set"`
	Term string  `json:"term" yaml:"term"`
	N    float64 `json:"n" yaml:"n"`
}

// SetSummary describes one set within a corpus.
type SetSummary struct {
	Set   string  `json:"set" yaml:"set"`
	Terms int     `json:"terms" yaml:"terms"`
	Total float64 `json:"total" yaml:"total"`
}

// CorpusSummary describes one stored corpus.
type CorpusSummary struct {
	Corpus string `json:"corpus" yaml:"corpus"`
	Rows   int    `json:"rows" yaml:"rows"`
	Sets   int    `json:"sets" yaml:"sets"`
}

// SaveTermCounts writes the given counts, replacing any count already
// stored for the same (set, term) pair in the corpus.
func SaveTermCounts(db *sql.DB, corpus string, counts []*TermCount) error {
	return writeTermCounts(db, corpus, counts, upsertTermCountSQL)
}

// AddTermCounts writes the given counts, adding to any count already stored
// for the same (set, term) pair. Used by incremental importers.
func AddTermCounts(db *sql.DB, corpus string, counts []*TermCount) error {
	return writeTermCounts(db, corpus, counts, incrementTermCountSQL)
}

func writeTermCounts(db *sql.DB, corpus string, counts []*TermCount, query string) error {
	if db == nil {
		return errDBNotInitialized
	}
	if corpus == "" {
		return errors.New("corpus is required")
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		return errors.Wrap(err, "failed to prepare term count statement")
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, c := range counts {
		if c.Set == "" || c.Term == "" {
			if rbErr := tx.Rollback(); rbErr != nil {
				return errors.Wrap(rbErr, "failed to rollback transaction")
			}
			return errors.Errorf("set and term are required, got set: %q, term: %q", c.Set, c.Term)
		}
		if _, err = stmt.Exec(corpus, c.Set, c.Term, c.N, now); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return errors.Wrap(rbErr, "failed to rollback transaction")
			}
			return errors.Wrapf(err, "failed to save count for %s/%s", c.Set, c.Term)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// GetCountTable loads the corpus counts as a table with set, term, and n
// columns, ordered by set then term.
func GetCountTable(db *sql.DB, corpus string) (*table.Table, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectTermCountsSQL, corpus)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query counts for corpus: %s", corpus)
	}
	defer rows.Close()

	var sets, terms []string
	var counts []float64
	for rows.Next() {
		var s, term string
		var n float64
		if err := rows.Scan(&s, &term, &n); err != nil {
			return nil, errors.Wrap(err, "failed to scan count row")
		}
		sets = append(sets, s)
		terms = append(terms, term)
		counts = append(counts, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read count rows")
	}

	t, err := table.New().WithStrings("set", sets)
	if err != nil {
		return nil, err
	}
	if t, err = t.WithStrings("term", terms); err != nil {
		return nil, err
	}
	return t.WithFloats("n", counts)
}

// GetSets lists the sets of a corpus with term and total counts.
func GetSets(db *sql.DB, corpus string) ([]*SetSummary, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectSetsSQL, corpus)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query sets for corpus: %s", corpus)
	}
	defer rows.Close()

	list := make([]*SetSummary, 0)
	for rows.Next() {
		s := &SetSummary{}
		if err := rows.Scan(&s.Set, &s.Terms, &s.Total); err != nil {
			return nil, errors.Wrap(err, "failed to scan set row")
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetCorpora lists all stored corpora.
func GetCorpora(db *sql.DB) ([]*CorpusSummary, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectCorporaSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query corpora")
	}
	defer rows.Close()

	list := make([]*CorpusSummary, 0)
	for rows.Next() {
		c := &CorpusSummary{}
		if err := rows.Scan(&c.Corpus, &c.Rows, &c.Sets); err != nil {
			return nil, errors.Wrap(err, "failed to scan corpus row")
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// DeleteCorpus removes a corpus with its counts, scores, and import state.
func DeleteCorpus(db *sql.DB, corpus string) error {
	if db == nil {
		return errDBNotInitialized
	}
	if corpus == "" {
		return errors.New("corpus is required")
	}

	for _, q := range []string{deleteCorpusCountsSQL, deleteCorpusScoresSQL, deleteCorpusStateSQL} {
		if _, err := db.Exec(q, corpus); err != nil {
			return errors.Wrapf(err, "failed to delete corpus: %s", corpus)
		}
	}
	return nil
}
