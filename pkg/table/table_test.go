package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New().WithStrings("set", []string{"a", "a", "b", "b"})
	require.NoError(t, err)
	tbl, err = tbl.WithStrings("feature", []string{"x", "y", "x", "z"})
	require.NoError(t, err)
	tbl, err = tbl.WithFloats("n", []float64{1, 2, 3, 4})
	require.NoError(t, err)
	return tbl
}

func TestWithColumn(t *testing.T) {
	tbl := testTable(t)
	assert.Equal(t, 4, tbl.NumRows())
	assert.Equal(t, []string{"set", "feature", "n"}, tbl.Names())
	assert.True(t, tbl.Has("n"))
	assert.False(t, tbl.Has("m"))

	k, err := tbl.Kind("n")
	require.NoError(t, err)
	assert.Equal(t, KindFloat, k)

	_, err = tbl.WithFloats("short", []float64{1})
	assert.Error(t, err)

	_, err = tbl.WithFloats("", []float64{1, 2, 3, 4})
	assert.Error(t, err)
}

func TestWithColumn_ReplaceKeepsPosition(t *testing.T) {
	tbl := testTable(t)
	tbl, err := tbl.WithFloats("n", []float64{9, 9, 9, 9})
	require.NoError(t, err)
	assert.Equal(t, []string{"set", "feature", "n"}, tbl.Names())

	vals, err := tbl.Floats("n")
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 9, 9, 9}, vals)
}

func TestDrop(t *testing.T) {
	tbl := testTable(t)
	out := tbl.Drop("feature", "missing")
	assert.Equal(t, []string{"set", "n"}, out.Names())
	assert.Equal(t, 4, out.NumRows())
	// receiver untouched
	assert.Equal(t, []string{"set", "feature", "n"}, tbl.Names())
}

func TestAccessors(t *testing.T) {
	tbl := testTable(t)

	s, err := tbl.Strings("set")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a", "b", "b"}, s)

	_, err = tbl.Strings("n")
	assert.Error(t, err)

	_, err = tbl.Floats("set")
	assert.Error(t, err)

	_, err = tbl.Floats("missing")
	assert.Error(t, err)
}

func TestKeys_FloatColumn(t *testing.T) {
	tbl, err := New().WithFloats("id", []float64{1, 2, 2.5})
	require.NoError(t, err)

	keys, err := tbl.Keys("id")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "2.5"}, keys)
}

func TestGroupBySum(t *testing.T) {
	tbl := testTable(t)

	g, err := tbl.GroupBySum("feature", "n", "total")
	require.NoError(t, err)
	assert.Equal(t, []string{"feature", "total"}, g.Names())

	keys, err := g.Strings("feature")
	require.NoError(t, err)
	sums, err := g.Floats("total")
	require.NoError(t, err)

	// first appearance order
	assert.Equal(t, []string{"x", "y", "z"}, keys)
	assert.Equal(t, []float64{4, 2, 4}, sums)
}

func TestGroupBySum_Errors(t *testing.T) {
	tbl := testTable(t)

	_, err := tbl.GroupBySum("missing", "n", "total")
	assert.Error(t, err)

	_, err = tbl.GroupBySum("feature", "set", "total")
	assert.Error(t, err)
}

func TestJoinOn(t *testing.T) {
	tbl := testTable(t)
	g, err := tbl.GroupBySum("feature", "n", "total")
	require.NoError(t, err)

	joined, err := tbl.JoinOn(g, "feature")
	require.NoError(t, err)
	assert.Equal(t, []string{"set", "feature", "n", "total"}, joined.Names())
	assert.Equal(t, 4, joined.NumRows())

	totals, err := joined.Floats("total")
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 2, 4, 4}, totals)
}

func TestJoinOn_Errors(t *testing.T) {
	tbl := testTable(t)

	// duplicate keys on the right
	dup, err := New().WithStrings("feature", []string{"x", "x"})
	require.NoError(t, err)
	dup, err = dup.WithFloats("v", []float64{1, 2})
	require.NoError(t, err)
	_, err = tbl.JoinOn(dup, "feature")
	assert.Error(t, err)

	// left key missing on the right
	part, err := New().WithStrings("feature", []string{"x"})
	require.NoError(t, err)
	part, err = part.WithFloats("v", []float64{1})
	require.NoError(t, err)
	_, err = tbl.JoinOn(part, "feature")
	assert.Error(t, err)
}

func TestGrouping(t *testing.T) {
	tbl := testTable(t)
	assert.Nil(t, tbl.GroupedBy())

	grouped := tbl.WithGrouping("set")
	assert.Equal(t, []string{"set"}, grouped.GroupedBy())

	// metadata carries through table operations
	dropped := grouped.Drop("n")
	assert.Equal(t, []string{"set"}, dropped.GroupedBy())

	with, err := grouped.WithFloats("m", []float64{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"set"}, with.GroupedBy())

	assert.Nil(t, grouped.Ungrouped().GroupedBy())
	// original remains grouped
	assert.Equal(t, []string{"set"}, grouped.GroupedBy())
}
