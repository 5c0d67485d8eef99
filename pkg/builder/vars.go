package builder

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tabsolver/tabsolver/pkg/align"
	"github.com/tabsolver/tabsolver/pkg/errors"
	"github.com/tabsolver/tabsolver/pkg/format"
	"github.com/tabsolver/tabsolver/pkg/solver"
	"github.com/tabsolver/tabsolver/pkg/table"
)

// VarOptions configures AddVars. Every attribute may independently be a
// constant or a parallel series aligned with the target index. Zero
// values select the conventional defaults: lb 0, ub infinity, obj 0,
// continuous type, solver-assigned names.
type VarOptions struct {
	// Name controls variable naming. Const(string) is used as a prefix
	// with per-row suffixes rendered from the index by IndexFormat.
	// FromSeries supplies full names verbatim, skipping formatting; the
	// caller accepts responsibility for their legality. Zero leaves
	// naming to the solver.
	Name align.Attr

	// LB, UB and Obj are numeric: Const or FromSeries.
	LB  align.Attr
	UB  align.Attr
	Obj align.Attr

	// Type is Const(string) with one of the solver type tags, or a
	// parallel series of tags.
	Type align.Attr

	// IndexFormat selects how index keys become name fragments. The zero
	// value is the sanitizing default mode.
	IndexFormat format.Mode
}

// FrameVarOptions configures AddVarsFrame. Attributes are constants or
// names of columns in the frame; a string always refers to a column and
// is never parsed as a number.
type FrameVarOptions struct {
	// Name is the prefix for variable names and the name of the returned
	// series. Empty leaves naming to the solver.
	Name string

	// LB, UB and Obj are Const or Column.
	LB  align.Attr
	UB  align.Attr
	Obj align.Attr

	// Type applies to all rows. It cannot reference a column: type tags
	// are strings, and a string Type would be ambiguous between a tag
	// and a column name.
	Type solver.VarType

	// IndexFormat selects how index keys become name fragments.
	IndexFormat format.Mode
}

// AddVars creates one variable per index entry and returns the handles as
// a series on that index. Exactly one bulk solver call is issued.
func (s *Session) AddVars(ctx context.Context, index *table.Index, opts VarOptions) (*table.Series, error) {
	if err := index.Validate(); err != nil {
		return nil, err
	}
	if index.HasDuplicates() {
		return nil, errors.New(errors.ErrorTypeDuplicateIndex,
			"index contains duplicate entries, cannot create variables")
	}

	lb, err := resolveNumeric(opts.LB, 0.0, index, nil, "lb")
	if err != nil {
		return nil, err
	}
	ub, err := resolveNumeric(opts.UB, solver.Infinity, index, nil, "ub")
	if err != nil {
		return nil, err
	}
	obj, err := resolveNumeric(opts.Obj, 0.0, index, nil, "obj")
	if err != nil {
		return nil, err
	}
	types, err := resolveTypes(opts.Type, index, nil)
	if err != nil {
		return nil, err
	}
	names, seriesName, err := resolveNames(opts.Name, index, opts.IndexFormat)
	if err != nil {
		return nil, err
	}

	batch := solver.VarBatch{LB: lb, UB: ub, Obj: obj, Types: types, Names: names}
	handles, err := s.createVars(ctx, batch, seriesName)
	if err != nil {
		return nil, err
	}
	out, err := table.NewSeries(index, handles)
	if err != nil {
		return nil, err
	}
	return out.WithName(seriesName), nil
}

// AddVarsFrame creates one variable per frame row. Attribute strings name
// frame columns; the returned series is aligned with the frame index and
// can be joined back as a column.
func (s *Session) AddVarsFrame(ctx context.Context, df *table.DataFrame, opts FrameVarOptions) (*table.Series, error) {
	index := df.Index()
	if err := index.Validate(); err != nil {
		return nil, err
	}
	if index.HasDuplicates() {
		return nil, errors.New(errors.ErrorTypeDuplicateIndex,
			"index contains duplicate entries, cannot create variables")
	}

	lb, err := resolveNumericFrame(opts.LB, 0.0, index, df, "lb")
	if err != nil {
		return nil, err
	}
	ub, err := resolveNumericFrame(opts.UB, solver.Infinity, index, df, "ub")
	if err != nil {
		return nil, err
	}
	obj, err := resolveNumericFrame(opts.Obj, 0.0, index, df, "obj")
	if err != nil {
		return nil, err
	}

	vtype := opts.Type
	if vtype == "" {
		vtype = solver.Continuous
	}
	types := make([]solver.VarType, index.Len())
	for i := range types {
		types[i] = vtype
	}

	var names []string
	if opts.Name != "" {
		names, err = format.Names(opts.Name, index, opts.IndexFormat)
		if err != nil {
			return nil, err
		}
	}

	batch := solver.VarBatch{LB: lb, UB: ub, Obj: obj, Types: types, Names: names}
	handles, err := s.createVars(ctx, batch, opts.Name)
	if err != nil {
		return nil, err
	}
	out, err := table.NewSeries(index, handles)
	if err != nil {
		return nil, err
	}
	return out.WithName(opts.Name), nil
}

// createVars issues the single bulk creation call and applies the
// visibility policy.
func (s *Session) createVars(ctx context.Context, batch solver.VarBatch, name string) ([]interface{}, error) {
	ctx, span := s.tracer.Start(ctx, "builder.AddVars", trace.WithAttributes(
		attribute.Int("rows", batch.Len()),
		attribute.String("name", name),
	))
	defer span.End()

	start := time.Now()
	vars, err := s.solver.AddVars(ctx, batch)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.ErrorTypeSolver, "bulk variable creation failed")
	}
	s.collector.RecordBulkCall("var", len(vars), time.Since(start))
	s.log.Debug("created variables",
		zap.Int("rows", len(vars)),
		zap.String("name", name),
		zap.Duration("elapsed", time.Since(start)))

	if err := s.afterCreate(ctx); err != nil {
		return nil, err
	}

	handles := make([]interface{}, len(vars))
	for i, v := range vars {
		handles[i] = v
	}
	return handles, nil
}

// resolveNumeric flattens a numeric attribute for the index variant,
// where series are allowed and column references are not.
func resolveNumeric(a align.Attr, def float64, index *table.Index, df *table.DataFrame, label string) ([]float64, error) {
	if a.IsZero() {
		out := make([]float64, index.Len())
		for i := range out {
			out[i] = def
		}
		return out, nil
	}
	if a.IsColumn() {
		return nil, errors.Newf(errors.ErrorTypeTypeConstraint,
			"'%s' must be a constant or a series in this context", label)
	}
	return align.ResolveNumeric(a, index, df, label)
}

// resolveNumericFrame flattens a numeric attribute for the frame variant,
// where column references are allowed and external series are not.
func resolveNumericFrame(a align.Attr, def float64, index *table.Index, df *table.DataFrame, label string) ([]float64, error) {
	if a.IsZero() {
		out := make([]float64, index.Len())
		for i := range out {
			out[i] = def
		}
		return out, nil
	}
	if a.IsSeries() {
		return nil, errors.Newf(errors.ErrorTypeTypeConstraint,
			"'%s' must be a constant or a column name in this context", label)
	}
	return align.ResolveNumeric(a, index, df, label)
}

// resolveTypes flattens the variable type attribute.
func resolveTypes(a align.Attr, index *table.Index, df *table.DataFrame) ([]solver.VarType, error) {
	out := make([]solver.VarType, index.Len())
	if a.IsZero() {
		for i := range out {
			out[i] = solver.Continuous
		}
		return out, nil
	}
	if a.IsConst() {
		var tag string
		switch v := a.ConstValue().(type) {
		case solver.VarType:
			tag = string(v)
		case string:
			tag = v
		default:
			return nil, errors.Newf(errors.ErrorTypeTypeConstraint,
				"'vtype' must be a string or series, got %T", v)
		}
		for i := range out {
			out[i] = solver.VarType(tag)
		}
		return out, nil
	}
	tags, err := align.ResolveStrings(a, index, df, "vtype")
	if err != nil {
		return nil, err
	}
	for i, tag := range tags {
		out[i] = solver.VarType(tag)
	}
	return out, nil
}

// resolveNames flattens the name attribute for the index variant. A
// constant string becomes a per-row template through the index formatter;
// an empty constant leaves naming to the solver, like the unsupplied
// case; a series supplies names verbatim.
func resolveNames(a align.Attr, index *table.Index, mode format.Mode) ([]string, string, error) {
	switch {
	case a.IsZero():
		return nil, "", nil
	case a.IsConst():
		prefix, ok := a.ConstValue().(string)
		if !ok {
			return nil, "", errors.Newf(errors.ErrorTypeTypeConstraint,
				"'name' must be a string or series, got %T", a.ConstValue())
		}
		if prefix == "" {
			return nil, "", nil
		}
		names, err := format.Names(prefix, index, mode)
		if err != nil {
			return nil, "", err
		}
		return names, prefix, nil
	case a.IsSeries():
		names, err := align.ResolveStrings(a, index, nil, "name")
		if err != nil {
			return nil, "", err
		}
		return names, "", nil
	}
	return nil, "", errors.New(errors.ErrorTypeTypeConstraint,
		"'name' must be a constant string or a series")
}
