// Package logodds computes weighted log-odds ratios for features counted
// across sets, following the multinomial model with a Dirichlet prior of
// Monroe, Colaresi & Quinn (2008). The weighted statistic is the posterior
// log-odds ratio standardized by its approximate variance, so features with
// very different total counts rank on a comparable scale.
package logodds

import (
	"math"

	"github.com/mchmarny/termpulse/pkg/table"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Canonical output column names.
const (
	ColWeighted   = "log_odds_weighted"
	ColUnweighted = "log_odds"
)

// Internal column names used while the pipeline runs. They never appear in
// the output table.
const (
	colAlpha = "__alpha"
	colYwi   = "__y_wi"
	colYw    = "__y_w"
	colNi    = "__n_i"
)

// Options control the prior and the output columns.
type Options struct {
	// Uninformative uses alpha = 1 for every feature instead of the
	// empirical Bayes prior estimated from feature totals.
	Uninformative bool
	// Unweighted adds the unstandardized log_odds column to the output.
	Unweighted bool
}

// Compute returns a new table with the same rows, order, and columns as t,
// plus log_odds_weighted (and log_odds when opts.Unweighted). The set,
// feature, and count columns are identified by name. The input table is
// never modified, and its grouping metadata, if any, carries through to the
// output unchanged.
func Compute(t *table.Table, setKey, featureKey, countKey string, opts Options) (*table.Table, error) {
	if t == nil {
		return nil, errors.New("table is required")
	}

	counts, err := validate(t, setKey, featureKey, countKey)
	if err != nil {
		return nil, err
	}

	// The computation always runs on an ungrouped view. The original table,
	// grouping metadata included, is the base the results attach to.
	work := t.Ungrouped().Drop(ColWeighted, ColUnweighted)

	// Prior: alpha per feature. Empirical Bayes uses the feature's total
	// count across all sets as the pseudo-count, so common features get a
	// strong pull toward the corpus baseline and rare ones barely any.
	if opts.Uninformative {
		ones := make([]float64, len(counts))
		for i := range ones {
			ones[i] = 1
		}
		if work, err = work.WithFloats(colAlpha, ones); err != nil {
			return nil, err
		}
	} else {
		totals, gerr := work.GroupBySum(featureKey, countKey, colAlpha)
		if gerr != nil {
			return nil, gerr
		}
		if work, err = work.JoinOn(totals, featureKey); err != nil {
			return nil, err
		}
	}

	alpha, err := work.Floats(colAlpha)
	if err != nil {
		return nil, err
	}

	// Pseudo-counts: y_wi per row, then y_w per feature and n_i per set.
	ywi := make([]float64, len(counts))
	copy(ywi, counts)
	floats.Add(ywi, alpha)
	if work, err = work.WithFloats(colYwi, ywi); err != nil {
		return nil, err
	}

	byFeature, err := work.GroupBySum(featureKey, colYwi, colYw)
	if err != nil {
		return nil, err
	}
	if work, err = work.JoinOn(byFeature, featureKey); err != nil {
		return nil, err
	}

	bySet, err := work.GroupBySum(setKey, colYwi, colNi)
	if err != nil {
		return nil, err
	}
	if work, err = work.JoinOn(bySet, setKey); err != nil {
		return nil, err
	}

	yw, err := work.Floats(colYw)
	if err != nil {
		return nil, err
	}
	ni, err := work.Floats(colNi)
	if err != nil {
		return nil, err
	}

	// Odds, log-odds ratio, variance, and the standardized statistic.
	// Every denominator is strictly positive: alpha >= 1 makes y_wi > 0,
	// and each set and each feature has at least one other pseudo-count in
	// its complement whenever the table has more than one feature or set.
	total := floats.Sum(ywi)
	delta := make([]float64, len(ywi))
	zeta := make([]float64, len(ywi))
	for i := range ywi {
		omegaWi := ywi[i] / (ni[i] - ywi[i])
		omegaW := yw[i] / (total - yw[i])
		delta[i] = math.Log(omegaWi) - math.Log(omegaW)
		sigma2 := 1/ywi[i] + 1/yw[i]
		zeta[i] = delta[i] / math.Sqrt(sigma2)
	}

	// Assemble onto the original table so untouched columns, row order, and
	// grouping metadata come through verbatim.
	out := t.Drop(ColWeighted, ColUnweighted)
	if opts.Unweighted {
		if out, err = out.WithFloats(ColUnweighted, delta); err != nil {
			return nil, err
		}
	}
	return out.WithFloats(ColWeighted, zeta)
}

// validate enforces the input contract: the count column is numeric with
// non-negative finite values, the (set, feature) pair is unique per row,
// and the table is not empty.
func validate(t *table.Table, setKey, featureKey, countKey string) ([]float64, error) {
	if t.NumRows() == 0 {
		return nil, ErrEmptyInput
	}

	sets, err := t.Keys(setKey)
	if err != nil {
		return nil, err
	}
	features, err := t.Keys(featureKey)
	if err != nil {
		return nil, err
	}

	kind, err := t.Kind(countKey)
	if err != nil {
		return nil, err
	}
	if kind != table.KindFloat {
		return nil, &InvalidCountError{Column: countKey, Row: -1, Reason: "column is not numeric"}
	}
	counts, err := t.Floats(countKey)
	if err != nil {
		return nil, err
	}

	for i, n := range counts {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, &InvalidCountError{Column: countKey, Row: i, Value: n, Reason: "count is not finite"}
		}
		if n < 0 {
			return nil, &InvalidCountError{Column: countKey, Row: i, Value: n, Reason: "count is negative"}
		}
	}

	seen := make(map[[2]string]bool, len(sets))
	for i := range sets {
		k := [2]string{sets[i], features[i]}
		if seen[k] {
			return nil, &DuplicateRowError{Set: sets[i], Feature: features[i]}
		}
		seen[k] = true
	}

	return counts, nil
}
