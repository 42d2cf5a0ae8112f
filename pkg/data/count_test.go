package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveTermCounts_Replaces(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SaveTermCounts(db, "c", []*TermCount{{Set: "a", Term: "x", N: 1}}))
	require.NoError(t, SaveTermCounts(db, "c", []*TermCount{{Set: "a", Term: "x", N: 5}}))

	tbl, err := GetCountTable(db, "c")
	require.NoError(t, err)
	require.Equal(t, 1, tbl.NumRows())

	n, err := tbl.Floats("n")
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, n)
}

func TestAddTermCounts_Increments(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, AddTermCounts(db, "c", []*TermCount{{Set: "a", Term: "x", N: 1}}))
	require.NoError(t, AddTermCounts(db, "c", []*TermCount{{Set: "a", Term: "x", N: 2}}))

	tbl, err := GetCountTable(db, "c")
	require.NoError(t, err)

	n, err := tbl.Floats("n")
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, n)
}

func TestSaveTermCounts_Invalid(t *testing.T) {
	db := setupTestDB(t)

	assert.Error(t, SaveTermCounts(nil, "c", nil))
	assert.Error(t, SaveTermCounts(db, "", nil))
	assert.Error(t, SaveTermCounts(db, "c", []*TermCount{{Set: "", Term: "x", N: 1}}))
	assert.Error(t, SaveTermCounts(db, "c", []*TermCount{{Set: "a", Term: "", N: 1}}))
}

func TestGetCountTable(t *testing.T) {
	db := setupTestDB(t)
	seedSampleCorpus(t, db, "sample")

	tbl, err := GetCountTable(db, "sample")
	require.NoError(t, err)
	assert.Equal(t, 10, tbl.NumRows())
	assert.Equal(t, []string{"set", "term", "n"}, tbl.Names())

	// unknown corpus yields an empty table
	empty, err := GetCountTable(db, "nope")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.NumRows())
}

func TestGetSets(t *testing.T) {
	db := setupTestDB(t)
	seedSampleCorpus(t, db, "sample")

	sets, err := GetSets(db, "sample")
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "1", sets[0].Set)
	assert.Equal(t, 5, sets[0].Terms)
	assert.Equal(t, float64(6), sets[0].Total)
	assert.Equal(t, "2", sets[1].Set)
	assert.Equal(t, float64(6), sets[1].Total)
}

func TestGetCorpora(t *testing.T) {
	db := setupTestDB(t)
	seedSampleCorpus(t, db, "a")
	seedSampleCorpus(t, db, "b")

	list, err := GetCorpora(db)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Corpus)
	assert.Equal(t, 10, list[0].Rows)
	assert.Equal(t, 2, list[0].Sets)
}

func TestDeleteCorpus(t *testing.T) {
	db := setupTestDB(t)
	seedSampleCorpus(t, db, "gone")
	seedSampleCorpus(t, db, "kept")

	require.NoError(t, DeleteCorpus(db, "gone"))

	list, err := GetCorpora(db)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "kept", list[0].Corpus)

	assert.Error(t, DeleteCorpus(db, ""))
}
