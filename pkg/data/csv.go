package data

import (
	"database/sql"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// CSVImportResult summarizes one CSV import.
type CSVImportResult struct {
	Corpus string `json:"corpus" yaml:"corpus"`
	File   string `json:"file" yaml:"file"`
	Rows   int    `json:"rows" yaml:"rows"`
}

// ImportCSV loads set,term,count rows from a CSV file into the corpus,
// replacing counts already stored for the same (set, term) pair. A header
// row is skipped when its count field is not numeric. Duplicate pairs
// within the file are rejected, matching the scoring input contract.
func ImportCSV(db *sql.DB, corpus, path string) (*CSVImportResult, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if corpus == "" || path == "" {
		return nil, errors.New("corpus and path are required")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true

	counts := make([]*TermCount, 0)
	seen := make(map[[2]string]bool)
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		line++

		n, convErr := strconv.ParseFloat(rec[2], 64)
		if convErr != nil {
			if line == 1 {
				// header row
				continue
			}
			return nil, errors.Errorf("line %d: count %q is not numeric", line, rec[2])
		}
		if n < 0 {
			return nil, errors.Errorf("line %d: count %v is negative", line, n)
		}

		k := [2]string{rec[0], rec[1]}
		if seen[k] {
			return nil, errors.Errorf("line %d: duplicate row for set %q and term %q", line, rec[0], rec[1])
		}
		seen[k] = true

		counts = append(counts, &TermCount{Set: rec[0], Term: rec[1], N: n})
	}

	if len(counts) == 0 {
		return nil, errors.Errorf("no count rows found in: %s", path)
	}

	if err := SaveTermCounts(db, corpus, counts); err != nil {
		return nil, err
	}

	return &CSVImportResult{Corpus: corpus, File: path, Rows: len(counts)}, nil
}
