package table

import (
	"strconv"

	"github.com/pkg/errors"
)

// Kind identifies the storage type of a column.
type Kind int

const (
	KindString Kind = iota
	KindFloat
)

type column interface {
	length() int
	kind() Kind
}

type stringCol []string

func (c stringCol) length() int { return len(c) }
func (c stringCol) kind() Kind  { return KindString }

type floatCol []float64

func (c floatCol) length() int { return len(c) }
func (c floatCol) kind() Kind  { return KindFloat }

// Table is an ordered, column-oriented collection of rows. Row order is
// stable: every operation that returns a new Table keeps the rows of the
// receiver in their original order. Tables are treated as immutable,
// operations return a new Table that shares unchanged columns with the
// receiver.
type Table struct {
	names  []string
	cols   map[string]column
	rows   int
	groups []string
}

// New returns an empty table.
func New() *Table {
	return &Table{cols: make(map[string]column)}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return t.rows
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Kind returns the storage kind of the named column.
func (t *Table) Kind(name string) (Kind, error) {
	c, ok := t.cols[name]
	if !ok {
		return 0, errors.Errorf("no such column: %s", name)
	}
	return c.kind(), nil
}

func (t *Table) shallowCopy() *Table {
	n := &Table{
		names: make([]string, len(t.names)),
		cols:  make(map[string]column, len(t.cols)),
		rows:  t.rows,
	}
	copy(n.names, t.names)
	for k, v := range t.cols {
		n.cols[k] = v
	}
	if t.groups != nil {
		n.groups = make([]string, len(t.groups))
		copy(n.groups, t.groups)
	}
	return n
}

func (t *Table) with(name string, c column) (*Table, error) {
	if name == "" {
		return nil, errors.New("column name required")
	}
	if t.rows > 0 || len(t.names) > 0 {
		if c.length() != t.rows {
			return nil, errors.Errorf("column %s has %d values, table has %d rows", name, c.length(), t.rows)
		}
	}
	n := t.shallowCopy()
	if !n.Has(name) {
		n.names = append(n.names, name)
	}
	n.cols[name] = c
	n.rows = c.length()
	return n, nil
}

// WithStrings returns a new table with the named string column appended,
// or replaced if a column of that name already exists.
func (t *Table) WithStrings(name string, vals []string) (*Table, error) {
	return t.with(name, stringCol(vals))
}

// WithFloats returns a new table with the named float column appended,
// or replaced if a column of that name already exists.
func (t *Table) WithFloats(name string, vals []float64) (*Table, error) {
	return t.with(name, floatCol(vals))
}

// Drop returns a new table without the given columns. Dropping a column
// that does not exist is not an error.
func (t *Table) Drop(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	n := &Table{
		cols: make(map[string]column, len(t.cols)),
		rows: t.rows,
	}
	for _, name := range t.names {
		if drop[name] {
			continue
		}
		n.names = append(n.names, name)
		n.cols[name] = t.cols[name]
	}
	if t.groups != nil {
		n.groups = make([]string, len(t.groups))
		copy(n.groups, t.groups)
	}
	return n
}

// Strings returns the values of a string column.
func (t *Table) Strings(name string) ([]string, error) {
	c, ok := t.cols[name]
	if !ok {
		return nil, errors.Errorf("no such column: %s", name)
	}
	s, ok := c.(stringCol)
	if !ok {
		return nil, errors.Errorf("column %s is not a string column", name)
	}
	return s, nil
}

// Floats returns the values of a float column.
func (t *Table) Floats(name string) ([]float64, error) {
	c, ok := t.cols[name]
	if !ok {
		return nil, errors.Errorf("no such column: %s", name)
	}
	f, ok := c.(floatCol)
	if !ok {
		return nil, errors.Errorf("column %s is not a numeric column", name)
	}
	return f, nil
}

// Keys returns the values of a column rendered as strings, suitable for
// grouping and joining. Float keys use the shortest exact representation.
func (t *Table) Keys(name string) ([]string, error) {
	c, ok := t.cols[name]
	if !ok {
		return nil, errors.Errorf("no such column: %s", name)
	}
	switch v := c.(type) {
	case stringCol:
		return v, nil
	case floatCol:
		out := make([]string, len(v))
		for i, f := range v {
			out[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return out, nil
	default:
		return nil, errors.Errorf("column %s has unsupported kind", name)
	}
}

// GroupBySum groups the table by the key column, sums the val column per
// group, and returns a two column table: the key column (first appearance
// order) and the sums under the given result name.
func (t *Table) GroupBySum(key, val, as string) (*Table, error) {
	keys, err := t.Keys(key)
	if err != nil {
		return nil, err
	}
	vals, err := t.Floats(val)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64, len(keys))
	order := make([]string, 0, len(keys))
	for i, k := range keys {
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += vals[i]
	}

	out := make([]float64, len(order))
	for i, k := range order {
		out[i] = sums[k]
	}

	g, err := New().WithStrings(key, order)
	if err != nil {
		return nil, err
	}
	return g.WithFloats(as, out)
}

// JoinOn equi-joins the other table onto the receiver by the key column.
// Every non-key column of other is appended, aligned row by row through
// the key. Keys in other must be unique, and every key of the receiver
// must be present in other.
func (t *Table) JoinOn(other *Table, key string) (*Table, error) {
	leftKeys, err := t.Keys(key)
	if err != nil {
		return nil, err
	}
	rightKeys, err := other.Keys(key)
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(rightKeys))
	for i, k := range rightKeys {
		if _, dup := idx[k]; dup {
			return nil, errors.Errorf("join key %s is not unique in right table: %s", key, k)
		}
		idx[k] = i
	}

	rows := make([]int, len(leftKeys))
	for i, k := range leftKeys {
		j, ok := idx[k]
		if !ok {
			return nil, errors.Errorf("join key %s value not found in right table: %s", key, k)
		}
		rows[i] = j
	}

	out := t
	for _, name := range other.names {
		if name == key {
			continue
		}
		switch c := other.cols[name].(type) {
		case stringCol:
			vals := make([]string, len(rows))
			for i, j := range rows {
				vals[i] = c[j]
			}
			out, err = out.WithStrings(name, vals)
		case floatCol:
			vals := make([]float64, len(rows))
			for i, j := range rows {
				vals[i] = c[j]
			}
			out, err = out.WithFloats(name, vals)
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GroupedBy returns the grouping metadata attached to the table. The
// metadata is opaque to every table operation: it tags the table for the
// caller and is carried through unchanged.
func (t *Table) GroupedBy() []string {
	if t.groups == nil {
		return nil
	}
	out := make([]string, len(t.groups))
	copy(out, t.groups)
	return out
}

// WithGrouping returns a new table tagged with the given grouping columns.
func (t *Table) WithGrouping(cols ...string) *Table {
	n := t.shallowCopy()
	n.groups = make([]string, len(cols))
	copy(n.groups, cols)
	return n
}

// Ungrouped returns a new table with no grouping metadata.
func (t *Table) Ungrouped() *Table {
	n := t.shallowCopy()
	n.groups = nil
	return n
}
