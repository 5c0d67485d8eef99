package format

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabsolver/tabsolver/pkg/errors"
	"github.com/tabsolver/tabsolver/pkg/table"
)

func TestDefaultSanitizes(t *testing.T) {
	tests := []struct {
		value interface{}
		want  string
	}{
		{"a  b", "a_b"},
		{"c*d", "c_d"},
		{"e:f", "e_f"},
		{"x+y-z", "x_y_z"},
		{"p^q", "p_q"},
		{"a - b", "a_b"},
		{"clean", "clean"},
		{42, "42"},
		{int64(-7), "-7"},
		{time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC), "2022_01_02T03_04_05"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.value), func(t *testing.T) {
			keys, err := Format(table.NewIndex(table.K(tt.value)), Default)
			require.NoError(t, err)
			require.Len(t, keys, 1)
			assert.Equal(t, tt.want, keys[0].Part(0))
		})
	}
}

func TestDefaultIsDeterministic(t *testing.T) {
	ix := table.NewIndex(table.K("a b"), table.K(3), table.K("x:y"))
	first, err := Format(ix, Default)
	require.NoError(t, err)
	second, err := Format(ix, Default)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDisabledLeavesValuesAlone(t *testing.T) {
	ix := table.NewIndex(table.K("a  b"), table.K("c*d"))
	keys, err := Format(ix, Disabled)
	require.NoError(t, err)
	assert.Equal(t, "a  b", keys[0].Part(0))
	assert.Equal(t, "c*d", keys[1].Part(0))
}

func TestIdentityNumericOnly(t *testing.T) {
	keys, err := Format(table.NewIndex(table.K(7), table.K(1.5)), Identity)
	require.NoError(t, err)
	assert.Equal(t, "7", keys[0].Part(0))
	assert.Equal(t, "1.5", keys[1].Part(0))

	_, err = Format(table.NewIndex(table.K("seven")), Identity)
	require.Error(t, err)
	assert.True(t, errors.IsTypeConstraint(err))
}

func TestFuncMode(t *testing.T) {
	upper := FuncMode(func(v interface{}) (string, error) {
		return strings.ToUpper(fmt.Sprint(v)), nil
	})
	keys, err := Format(table.NewIndex(table.K("ab")), upper)
	require.NoError(t, err)
	assert.Equal(t, "AB", keys[0].Part(0))

	_, err = Format(table.NewIndex(table.K("ab")), FuncMode(nil))
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
}

func TestPerLevelModes(t *testing.T) {
	ix := table.NewIndex(
		table.K("a b", "x*y"),
		table.K("c d", "p:q"),
	).WithNames("first", "second")

	mode := PerLevel(map[string]Mode{"second": Disabled})
	keys, err := Format(ix, mode)
	require.NoError(t, err)
	// Unmapped level falls back to the default sanitizer.
	assert.Equal(t, table.K("a_b", "x*y"), keys[0])
	assert.Equal(t, table.K("c_d", "p:q"), keys[1])
}

func TestPerLevelFallback(t *testing.T) {
	ix := table.NewIndex(table.K("a b", "c d")).WithNames("first", "second")
	mode := PerLevelWithFallback(map[string]Mode{"first": Disabled}, Disabled)
	keys, err := Format(ix, mode)
	require.NoError(t, err)
	assert.Equal(t, table.K("a b", "c d"), keys[0])
}

func TestPerLevelCannotNest(t *testing.T) {
	nested := PerLevel(map[string]Mode{"inner": PerLevel(nil)})
	_, err := Format(table.RangeIndex(1), nested)
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
}

func TestFormatMixedWidthIndex(t *testing.T) {
	ix := table.NewIndex(table.K("a", "b"), table.K("c"))
	_, err := Format(ix, Default)
	require.Error(t, err)
	assert.True(t, errors.IsTypeConstraint(err))

	_, err = Names("x", ix, Default)
	require.Error(t, err)
	assert.True(t, errors.IsTypeConstraint(err))
}

func TestFormatEmptyIndex(t *testing.T) {
	keys, err := Format(table.NewIndex(), Default)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestNames(t *testing.T) {
	ix := table.NewIndex(table.K("a  b"), table.K("c*d"), table.K("e:f"))
	names, err := Names("x", ix, Default)
	require.NoError(t, err)
	assert.Equal(t, []string{"x[a_b]", "x[c_d]", "x[e_f]"}, names)

	raw, err := Names("x", ix, Disabled)
	require.NoError(t, err)
	assert.Equal(t, []string{"x[a  b]", "x[c*d]", "x[e:f]"}, raw)
}

func TestNamesTupleIndex(t *testing.T) {
	ix := table.NewIndex(table.K("plant a", 1), table.K("plant b", 2))
	names, err := Names("flow", ix, Default)
	require.NoError(t, err)
	assert.Equal(t, []string{"flow[plant_a,1]", "flow[plant_b,2]"}, names)
}

func TestNamesRangeIndex(t *testing.T) {
	names, err := Names("x", table.RangeIndex(3), Default)
	require.NoError(t, err)
	assert.Equal(t, []string{"x[0]", "x[1]", "x[2]"}, names)
}

func TestModeFromString(t *testing.T) {
	for _, s := range []string{"", "default", "disable", "disabled", "identity"} {
		_, err := ModeFromString(s)
		assert.NoError(t, err, s)
	}
	_, err := ModeFromString("bogus")
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
}
