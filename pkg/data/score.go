package data

import (
	"database/sql"
	"time"

	"github.com/mchmarny/termpulse/pkg/logodds"
	"github.com/pkg/errors"
)

const (
	insertScoreSQL = `INSERT INTO score (corpus, set_id, term, n, log_odds, log_odds_weighted, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (corpus, set_id, term) DO UPDATE SET
			n = excluded.n,
			log_odds = excluded.log_odds,
			log_odds_weighted = excluded.log_odds_weighted,
			updated_at = excluded.updated_at
	`

	selectTopTermsSQL = `SELECT set_id, term, n, log_odds, log_odds_weighted
		FROM score
		WHERE corpus = ?
		  AND set_id = COALESCE(?, set_id)
		ORDER BY log_odds_weighted DESC
		LIMIT ?
	`
)

// TermScore is the weighted log-odds of one term within one set.
type TermScore struct {
	Set             string   `json:"set" yaml:"set"`
	Term            string   `json:"term" yaml:"term"`
	N               float64  `json:"n" yaml:"n"`
	LogOdds         *float64 `json:"log_odds,omitempty" yaml:"log_odds,omitempty"`
	LogOddsWeighted float64  `json:"log_odds_weighted" yaml:"log_odds_weighted"`
}

// ScoreResult is the outcome of scoring one corpus.
type ScoreResult struct {
	Corpus string       `json:"corpus" yaml:"corpus"`
	Rows   int          `json:"rows" yaml:"rows"`
	Saved  bool         `json:"saved" yaml:"saved"`
	Scores []*TermScore `json:"scores,omitempty" yaml:"scores,omitempty"`
}

// ComputeScores runs the weighted log-odds computation over the stored
// counts of a corpus. With save set, the scores replace any previously
// stored scores for the corpus.
func ComputeScores(db *sql.DB, corpus string, opts logodds.Options, save bool) (*ScoreResult, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if corpus == "" {
		return nil, errors.New("corpus is required")
	}

	t, err := GetCountTable(db, corpus)
	if err != nil {
		return nil, err
	}

	scored, err := logodds.Compute(t, "set", "term", "n", opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to score corpus: %s", corpus)
	}

	sets, err := scored.Strings("set")
	if err != nil {
		return nil, err
	}
	terms, err := scored.Strings("term")
	if err != nil {
		return nil, err
	}
	counts, err := scored.Floats("n")
	if err != nil {
		return nil, err
	}
	zeta, err := scored.Floats(logodds.ColWeighted)
	if err != nil {
		return nil, err
	}

	var delta []float64
	if opts.Unweighted {
		if delta, err = scored.Floats(logodds.ColUnweighted); err != nil {
			return nil, err
		}
	}

	res := &ScoreResult{
		Corpus: corpus,
		Rows:   scored.NumRows(),
		Scores: make([]*TermScore, scored.NumRows()),
	}
	for i := range sets {
		s := &TermScore{
			Set:             sets[i],
			Term:            terms[i],
			N:               counts[i],
			LogOddsWeighted: zeta[i],
		}
		if delta != nil {
			d := delta[i]
			s.LogOdds = &d
		}
		res.Scores[i] = s
	}

	if save {
		if err := saveScores(db, corpus, res.Scores); err != nil {
			return nil, err
		}
		res.Saved = true
	}

	return res, nil
}

func saveScores(db *sql.DB, corpus string, scores []*TermScore) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	if _, err = tx.Exec(deleteCorpusScoresSQL, corpus); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrap(rbErr, "failed to rollback transaction")
		}
		return errors.Wrapf(err, "failed to clear scores for corpus: %s", corpus)
	}

	stmt, err := tx.Prepare(insertScoreSQL)
	if err != nil {
		return errors.Wrap(err, "failed to prepare score statement")
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, s := range scores {
		var delta any
		if s.LogOdds != nil {
			delta = *s.LogOdds
		}
		if _, err = stmt.Exec(corpus, s.Set, s.Term, s.N, delta, s.LogOddsWeighted, now); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return errors.Wrap(rbErr, "failed to rollback transaction")
			}
			return errors.Wrapf(err, "failed to save score for %s/%s", s.Set, s.Term)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// GetTopTerms returns stored scores ranked by weighted log-odds, optionally
// narrowed to a single set.
func GetTopTerms(db *sql.DB, corpus string, set *string, limit int) ([]*TermScore, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if limit < 1 {
		limit = 25
	}

	rows, err := db.Query(selectTopTermsSQL, corpus, set, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query scores for corpus: %s", corpus)
	}
	defer rows.Close()

	list := make([]*TermScore, 0)
	for rows.Next() {
		s := &TermScore{}
		var delta sql.NullFloat64
		if err := rows.Scan(&s.Set, &s.Term, &s.N, &delta, &s.LogOddsWeighted); err != nil {
			return nil, errors.Wrap(err, "failed to scan score row")
		}
		if delta.Valid {
			d := delta.Float64
			s.LogOdds = &d
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
