// Package align resolves per-row attribute specifications against a target
// row index.
//
// An attribute for a family of entities can be supplied three ways: a
// constant applied to every row, the name of a column in a caller-provided
// frame, or a parallel series. Resolution always produces a flat value
// slice in target index order, or a typed error naming the offending
// attribute.
//
// The shapes are distinct constructors rather than inferred from value
// types, so a string is never ambiguously "maybe a column name, maybe a
// constant": Const("3.0") is a constant, Column("3.0") is a lookup.
package align

import (
	"github.com/tabsolver/tabsolver/pkg/errors"
	"github.com/tabsolver/tabsolver/pkg/table"
)

type attrKind int

const (
	kindUnset attrKind = iota
	kindConst
	kindColumn
	kindSeries
)

// Attr is a tagged attribute specification: a constant, a column
// reference, or a parallel series. The zero value means "not supplied".
type Attr struct {
	kind   attrKind
	value  interface{}
	column string
	series *table.Series
}

// Const supplies one value for every row.
func Const(v interface{}) Attr {
	return Attr{kind: kindConst, value: v}
}

// Column supplies values from a named column of the calling frame.
func Column(name string) Attr {
	return Attr{kind: kindColumn, column: name}
}

// FromSeries supplies values from a parallel series. The series key set
// must match the target index exactly.
func FromSeries(s *table.Series) Attr {
	return Attr{kind: kindSeries, series: s}
}

// IsZero reports whether the attribute was left unsupplied.
func (a Attr) IsZero() bool { return a.kind == kindUnset }

// IsConst reports whether the attribute is a constant.
func (a Attr) IsConst() bool { return a.kind == kindConst }

// IsColumn reports whether the attribute is a column reference.
func (a Attr) IsColumn() bool { return a.kind == kindColumn }

// IsSeries reports whether the attribute is a parallel series.
func (a Attr) IsSeries() bool { return a.kind == kindSeries }

// ConstValue returns the constant for a Const attribute.
func (a Attr) ConstValue() interface{} { return a.value }

// ColumnName returns the referenced column for a Column attribute.
func (a Attr) ColumnName() string { return a.column }

// Series returns the parallel series for a FromSeries attribute.
func (a Attr) Series() *table.Series { return a.series }

// Resolve flattens an attribute into one value per target row. Constants
// broadcast; column references require a frame and resolve through it;
// series are alignment-checked and reordered into target order.
func Resolve(a Attr, target *table.Index, frame *table.DataFrame, label string) ([]interface{}, error) {
	switch a.kind {
	case kindConst:
		out := make([]interface{}, target.Len())
		for i := range out {
			out[i] = a.value
		}
		return out, nil
	case kindColumn:
		if frame == nil {
			return nil, errors.Newf(errors.ErrorTypeTypeConstraint,
				"'%s' references column %q but no frame context is available", label, a.column)
		}
		col, ok := frame.Column(a.column)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeTypeConstraint,
				"'%s' references column %q which does not exist", label, a.column)
		}
		return Values(col, target, label)
	case kindSeries:
		return Values(a.series, target, label)
	}
	return nil, errors.Newf(errors.ErrorTypeTypeConstraint, "'%s' was not supplied", label)
}

// Values aligns a series with the target index and returns its values in
// target order. The series key set must equal the target key set;
// reordering alone is never an error. Null values after alignment are a
// distinct error.
func Values(s *table.Series, target *table.Index, label string) ([]interface{}, error) {
	if !target.SameKeySet(s.Index()) {
		return nil, errors.Newf(errors.ErrorTypeAlignment,
			"'%s' series not aligned with index", label)
	}
	aligned, err := s.Reindex(target)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeAlignment,
			"'"+label+"' series not aligned with index")
	}
	if aligned.HasNulls() {
		return nil, errors.Newf(errors.ErrorTypeMissingValue,
			"'%s' series has missing values", label)
	}
	return aligned.Values(), nil
}

// ResolveNumeric resolves an attribute and coerces every value to float64.
func ResolveNumeric(a Attr, target *table.Index, frame *table.DataFrame, label string) ([]float64, error) {
	vals, err := Resolve(a, target, frame, label)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		f, ok := toFloat(v)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeTypeConstraint,
				"'%s' requires numeric values, got %T", label, v)
		}
		out[i] = f
	}
	return out, nil
}

// ResolveStrings resolves an attribute and requires every value to be a
// string.
func ResolveStrings(a Attr, target *table.Index, frame *table.DataFrame, label string) ([]string, error) {
	vals, err := Resolve(a, target, frame, label)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeTypeConstraint,
				"'%s' requires string values, got %T", label, v)
		}
		out[i] = s
	}
	return out, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
