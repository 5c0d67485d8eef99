package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabsolver/tabsolver/pkg/errors"
)

func TestIndexHasDuplicates(t *testing.T) {
	tests := []struct {
		name string
		keys []Key
		want bool
	}{
		{"unique scalars", []Key{K("a"), K("b"), K("c")}, false},
		{"repeated scalar", []Key{K("a"), K("b"), K("a")}, true},
		{"unique tuples", []Key{K("a", 1), K("a", 2), K("b", 1)}, false},
		{"repeated tuple", []Key{K("a", 1), K("b", 2), K("a", 1)}, true},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewIndex(tt.keys...).HasDuplicates())
		})
	}
}

func TestIndexKeyTypesDistinct(t *testing.T) {
	// The int 1 and the string "1" are different keys.
	ix := NewIndex(K(1), K("1"))
	assert.False(t, ix.HasDuplicates())
}

func TestIndexValidate(t *testing.T) {
	require.NoError(t, NewIndex(K("a", 1), K("b", 2)).Validate())
	require.NoError(t, NewIndex().Validate())

	err := NewIndex(K("a", "b"), K("c")).Validate()
	require.Error(t, err)
	assert.True(t, errors.IsTypeConstraint(err))
}

func TestIndexUnion(t *testing.T) {
	// Joint index of two overlapping constraint families.
	a := NewIndex(K("p"), K("q"), K("r"))
	b := NewIndex(K("q"), K("s"))

	joint := a.Union(b)
	require.Equal(t, 4, joint.Len())
	assert.Equal(t, []Key{K("p"), K("q"), K("r"), K("s")}, joint.Keys())
	assert.False(t, joint.HasDuplicates())

	// Union with an empty index is the identity.
	assert.Equal(t, a.Keys(), a.Union(NewIndex()).Keys())
}

func TestSameKeySet(t *testing.T) {
	a := NewIndex(K("x"), K("y"), K("z"))
	reordered := NewIndex(K("z"), K("x"), K("y"))
	missing := NewIndex(K("x"), K("y"))
	extra := NewIndex(K("x"), K("y"), K("z"), K("w"))
	different := NewIndex(K("x"), K("y"), K("q"))

	assert.True(t, a.SameKeySet(reordered))
	assert.True(t, a.SameKeySet(a))
	assert.False(t, a.SameKeySet(missing))
	assert.False(t, a.SameKeySet(extra))
	assert.False(t, a.SameKeySet(different))
}

func TestRangeIndex(t *testing.T) {
	ix := RangeIndex(3)
	require.Equal(t, 3, ix.Len())
	assert.Equal(t, K(0), ix.Key(0))
	assert.Equal(t, K(2), ix.Key(2))
	assert.False(t, ix.HasDuplicates())
}

func TestSeriesReindexPermutation(t *testing.T) {
	ix := NewIndex(K("a"), K("b"), K("c"))
	s, err := NewSeries(NewIndex(K("c"), K("a"), K("b")), []interface{}{3.0, 1.0, 2.0})
	require.NoError(t, err)

	aligned, err := s.Reindex(ix)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, aligned.Values())
}

func TestSeriesReindexMissingKey(t *testing.T) {
	ix := NewIndex(K("a"), K("b"))
	s, err := NewSeries(NewIndex(K("a"), K("c")), []interface{}{1.0, 3.0})
	require.NoError(t, err)

	_, err = s.Reindex(ix)
	assert.Error(t, err)
}

func TestSeriesLengthMismatch(t *testing.T) {
	_, err := NewSeries(RangeIndex(3), []interface{}{1.0})
	assert.Error(t, err)
}

func TestSeriesNulls(t *testing.T) {
	s, err := NewSeries(RangeIndex(3), []interface{}{1.0, nil, 3.0})
	require.NoError(t, err)
	assert.True(t, s.HasNulls())

	s2, err := NewSeries(RangeIndex(2), []interface{}{1.0, 2.0})
	require.NoError(t, err)
	assert.False(t, s2.HasNulls())
}

func TestDataFrameColumns(t *testing.T) {
	df, err := NewDataFrame(RangeIndex(2)).WithColumn("a", []interface{}{1.0, 2.0})
	require.NoError(t, err)
	df, err = df.WithColumn("b", []interface{}{3.0, 4.0})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, df.Columns())
	col, ok := df.Column("a")
	require.True(t, ok)
	assert.Equal(t, []interface{}{1.0, 2.0}, col.Values())

	_, err = df.WithColumn("a", []interface{}{5.0, 6.0})
	assert.Error(t, err, "duplicate column names are rejected")
}

func TestDataFrameJoinAligns(t *testing.T) {
	ix := NewIndex(K("p"), K("q"))
	df, err := NewDataFrame(ix).WithColumn("a", []interface{}{1.0, 2.0})
	require.NoError(t, err)

	s, err := NewSeries(NewIndex(K("q"), K("p")), []interface{}{20.0, 10.0})
	require.NoError(t, err)

	joined, err := df.Join(s.WithName("b"))
	require.NoError(t, err)
	col, ok := joined.Column("b")
	require.True(t, ok)
	assert.Equal(t, []interface{}{10.0, 20.0}, col.Values())
}

func TestDataFrameJoinMisaligned(t *testing.T) {
	df, err := NewDataFrame(NewIndex(K("p"), K("q"))).WithColumn("a", []interface{}{1.0, 2.0})
	require.NoError(t, err)

	s, err := NewSeries(NewIndex(K("p"), K("r")), []interface{}{1.0, 2.0})
	require.NoError(t, err)

	_, err = df.Join(s.WithName("b"))
	assert.Error(t, err)
}

func TestRenameColumn(t *testing.T) {
	df, err := NewDataFrame(RangeIndex(1)).WithColumn("unit cost", []interface{}{5.0})
	require.NoError(t, err)

	renamed, err := df.RenameColumn("unit cost", "_renamed_column_0")
	require.NoError(t, err)
	assert.False(t, renamed.HasColumn("unit cost"))
	assert.True(t, renamed.HasColumn("_renamed_column_0"))
	// The original frame is untouched.
	assert.True(t, df.HasColumn("unit cost"))
}

func TestGroupByAggregate(t *testing.T) {
	ix := NewIndex(K("a", 1), K("a", 2), K("b", 1))
	s, err := NewSeries(ix, []interface{}{1.0, 2.0, 10.0})
	require.NoError(t, err)

	sum := func(vals []interface{}) (interface{}, error) {
		total := 0.0
		for _, v := range vals {
			total += v.(float64)
		}
		return total, nil
	}

	grouped, err := s.GroupByLevel(0).Aggregate(sum)
	require.NoError(t, err)
	require.Equal(t, 2, grouped.Len())
	assert.Equal(t, K("a"), grouped.Index().Key(0))
	assert.Equal(t, 3.0, grouped.Value(0))
	assert.Equal(t, K("b"), grouped.Index().Key(1))
	assert.Equal(t, 10.0, grouped.Value(1))
}

func TestSeriesMarshalJSON(t *testing.T) {
	s, err := NewSeries(RangeIndex(2), []interface{}{1.5, "v"})
	require.NoError(t, err)
	data, err := s.WithName("col").MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"col","index":["0","1"],"values":[1.5,"v"]}`, string(data))
}
