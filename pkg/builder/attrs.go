package builder

import (
	"github.com/tabsolver/tabsolver/pkg/align"
	"github.com/tabsolver/tabsolver/pkg/errors"
	"github.com/tabsolver/tabsolver/pkg/solver"
	"github.com/tabsolver/tabsolver/pkg/table"
)

// GetAttr reads a named solver attribute for every handle in the series
// and returns the values as a new series on the same index.
//
// Attribute reads never consult the visibility flag: they reflect
// whatever synchronization state the solver is currently in.
func (s *Session) GetAttr(handles *table.Series, attr string) (*table.Series, error) {
	vals := make([]interface{}, handles.Len())
	for i := 0; i < handles.Len(); i++ {
		h, ok := handles.Value(i).(solver.Handle)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeTypeConstraint,
				"series value at position %d is not a solver handle, got %T", i, handles.Value(i))
		}
		v, err := s.solver.GetAttr(h, attr)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	out, err := table.NewSeries(handles.Index(), vals)
	if err != nil {
		return nil, err
	}
	return out.WithName(handles.Name()), nil
}

// SetAttr writes a named solver attribute for every handle in the series.
// A Const value is broadcast; a FromSeries value is aligned with the
// handle series first, so storage order differences never misassign.
func (s *Session) SetAttr(handles *table.Series, attr string, value align.Attr) error {
	var vals []interface{}
	switch {
	case value.IsConst():
		vals = make([]interface{}, handles.Len())
		for i := range vals {
			vals[i] = value.ConstValue()
		}
	case value.IsSeries():
		var err error
		vals, err = align.Values(value.Series(), handles.Index(), attr)
		if err != nil {
			return err
		}
	default:
		return errors.Newf(errors.ErrorTypeTypeConstraint,
			"'%s' value must be a constant or a series", attr)
	}

	for i := 0; i < handles.Len(); i++ {
		h, ok := handles.Value(i).(solver.Handle)
		if !ok {
			return errors.Newf(errors.ErrorTypeTypeConstraint,
				"series value at position %d is not a solver handle, got %T", i, handles.Value(i))
		}
		if err := s.solver.SetAttr(h, attr, vals[i]); err != nil {
			return err
		}
	}
	return nil
}

// Value evaluates a series of expression operands (variables, linear or
// quadratic expressions, constants) at the solver's current solution and
// returns the numeric results.
func (s *Session) Value(exprs *table.Series) (*table.Series, error) {
	point := func(v solver.Var) (float64, error) {
		raw, err := s.solver.GetAttr(v, "X")
		if err != nil {
			return 0, err
		}
		f, ok := solver.Numeric(raw)
		if !ok {
			return 0, errors.Newf(errors.ErrorTypeSolver,
				"solution value has non-numeric type %T", raw)
		}
		return f, nil
	}

	vals := make([]interface{}, exprs.Len())
	for i := 0; i < exprs.Len(); i++ {
		f, err := solver.Value(exprs.Value(i), point)
		if err != nil {
			return nil, err
		}
		vals[i] = f
	}
	out, err := table.NewSeries(exprs.Index(), vals)
	if err != nil {
		return nil, err
	}
	return out.WithName(exprs.Name()), nil
}
