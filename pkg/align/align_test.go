package align

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabsolver/tabsolver/pkg/errors"
	"github.com/tabsolver/tabsolver/pkg/table"
)

func targetIndex() *table.Index {
	return table.NewIndex(table.K("a"), table.K("b"), table.K("c"))
}

func TestValuesPermutationInvariant(t *testing.T) {
	target := targetIndex()
	s, err := table.NewSeries(
		table.NewIndex(table.K("c"), table.K("a"), table.K("b")),
		[]interface{}{3.0, 1.0, 2.0})
	require.NoError(t, err)

	vals, err := Values(s, target, "lb")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, vals)
}

func TestValuesKeySetMismatch(t *testing.T) {
	target := targetIndex()
	tests := []struct {
		name string
		keys []table.Key
	}{
		{"missing key", []table.Key{table.K("a"), table.K("b")}},
		{"surplus key", []table.Key{table.K("a"), table.K("b"), table.K("c"), table.K("d")}},
		{"substituted key", []table.Key{table.K("a"), table.K("b"), table.K("z")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vals := make([]interface{}, len(tt.keys))
			for i := range vals {
				vals[i] = float64(i)
			}
			s, err := table.NewSeries(table.NewIndex(tt.keys...), vals)
			require.NoError(t, err)

			_, err = Values(s, target, "ub")
			require.Error(t, err)
			assert.True(t, errors.IsAlignment(err))
			assert.Contains(t, err.Error(), "'ub' series not aligned with index")
		})
	}
}

func TestValuesMissing(t *testing.T) {
	target := targetIndex()
	for _, null := range []interface{}{nil, math.NaN()} {
		s, err := table.NewSeries(target, []interface{}{1.0, null, 3.0})
		require.NoError(t, err)

		_, err = Values(s, target, "obj")
		require.Error(t, err)
		assert.True(t, errors.IsMissingValue(err))
		assert.Contains(t, err.Error(), "'obj' series has missing values")
	}
}

func TestResolveConstBroadcasts(t *testing.T) {
	vals, err := Resolve(Const(5.0), targetIndex(), nil, "lb")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{5.0, 5.0, 5.0}, vals)
}

func TestResolveColumn(t *testing.T) {
	target := targetIndex()
	df, err := table.NewDataFrame(target).WithColumn("cap", []interface{}{1.0, 2.0, 3.0})
	require.NoError(t, err)

	vals, err := Resolve(Column("cap"), target, df, "ub")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, vals)

	_, err = Resolve(Column("nope"), target, df, "ub")
	require.Error(t, err)
	assert.True(t, errors.IsTypeConstraint(err))

	_, err = Resolve(Column("cap"), target, nil, "ub")
	require.Error(t, err, "column references need a frame context")
}

func TestResolveUnsupplied(t *testing.T) {
	_, err := Resolve(Attr{}, targetIndex(), nil, "lb")
	require.Error(t, err)
	assert.True(t, errors.IsTypeConstraint(err))
}

func TestResolveNumericCoercion(t *testing.T) {
	target := targetIndex()
	s, err := table.NewSeries(target, []interface{}{1, int64(2), 3.5})
	require.NoError(t, err)

	vals, err := ResolveNumeric(FromSeries(s), target, nil, "obj")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3.5}, vals)

	bad, err := table.NewSeries(target, []interface{}{1.0, "two", 3.0})
	require.NoError(t, err)
	_, err = ResolveNumeric(FromSeries(bad), target, nil, "obj")
	require.Error(t, err)
	assert.True(t, errors.IsTypeConstraint(err))
}

func TestResolveStrings(t *testing.T) {
	target := targetIndex()
	s, err := table.NewSeries(target, []interface{}{"x", "y", "z"})
	require.NoError(t, err)

	vals, err := ResolveStrings(FromSeries(s), target, nil, "name")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, vals)

	bad, err := table.NewSeries(target, []interface{}{"x", 2, "z"})
	require.NoError(t, err)
	_, err = ResolveStrings(FromSeries(bad), target, nil, "name")
	require.Error(t, err)
	assert.True(t, errors.IsTypeConstraint(err))
}

func TestAttrKinds(t *testing.T) {
	assert.True(t, Attr{}.IsZero())
	assert.True(t, Const(1.0).IsConst())
	assert.True(t, Column("c").IsColumn())
	s, err := table.NewSeries(table.RangeIndex(1), []interface{}{1.0})
	require.NoError(t, err)
	assert.True(t, FromSeries(s).IsSeries())
}
