package data

import (
	"testing"

	"github.com/mchmarny/termpulse/pkg/logodds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeScores(t *testing.T) {
	db := setupTestDB(t)
	seedSampleCorpus(t, db, "sample")

	res, err := ComputeScores(db, "sample", logodds.Options{}, false)
	require.NoError(t, err)
	assert.Equal(t, "sample", res.Corpus)
	assert.Equal(t, 10, res.Rows)
	assert.False(t, res.Saved)
	require.Len(t, res.Scores, 10)

	for _, s := range res.Scores {
		switch s.Term {
		case "quick", "fox", "jumped", "over", "lazy", "dog":
			assert.Positivef(t, s.LogOddsWeighted, "term %s in set %s", s.Term, s.Set)
		}
		assert.Nil(t, s.LogOdds)
	}
}

func TestComputeScores_Unweighted(t *testing.T) {
	db := setupTestDB(t)
	seedSampleCorpus(t, db, "sample")

	res, err := ComputeScores(db, "sample", logodds.Options{Unweighted: true}, false)
	require.NoError(t, err)
	for _, s := range res.Scores {
		assert.NotNil(t, s.LogOdds)
	}
}

func TestComputeScores_SaveAndQuery(t *testing.T) {
	db := setupTestDB(t)
	seedSampleCorpus(t, db, "sample")

	res, err := ComputeScores(db, "sample", logodds.Options{}, true)
	require.NoError(t, err)
	assert.True(t, res.Saved)

	top, err := GetTopTerms(db, "sample", nil, 5)
	require.NoError(t, err)
	require.Len(t, top, 5)

	// descending by weighted log-odds
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].LogOddsWeighted, top[i].LogOddsWeighted)
	}

	set := "1"
	top1, err := GetTopTerms(db, "sample", &set, 10)
	require.NoError(t, err)
	require.NotEmpty(t, top1)
	for _, s := range top1 {
		assert.Equal(t, "1", s.Set)
	}
}

func TestComputeScores_SaveReplaces(t *testing.T) {
	db := setupTestDB(t)
	seedSampleCorpus(t, db, "sample")

	_, err := ComputeScores(db, "sample", logodds.Options{}, true)
	require.NoError(t, err)
	_, err = ComputeScores(db, "sample", logodds.Options{}, true)
	require.NoError(t, err)

	top, err := GetTopTerms(db, "sample", nil, 100)
	require.NoError(t, err)
	assert.Len(t, top, 10)
}

func TestComputeScores_EmptyCorpus(t *testing.T) {
	db := setupTestDB(t)

	_, err := ComputeScores(db, "missing", logodds.Options{}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, logodds.ErrEmptyInput)
}

func TestComputeScores_Invalid(t *testing.T) {
	db := setupTestDB(t)
	_, err := ComputeScores(nil, "c", logodds.Options{}, false)
	assert.Error(t, err)
	_, err = ComputeScores(db, "", logodds.Options{}, false)
	assert.Error(t, err)
}
