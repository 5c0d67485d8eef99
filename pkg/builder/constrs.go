package builder

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tabsolver/tabsolver/pkg/align"
	"github.com/tabsolver/tabsolver/pkg/errors"
	"github.com/tabsolver/tabsolver/pkg/expr"
	"github.com/tabsolver/tabsolver/pkg/format"
	"github.com/tabsolver/tabsolver/pkg/solver"
	"github.com/tabsolver/tabsolver/pkg/table"
)

// ConstrOptions configures constraint creation.
type ConstrOptions struct {
	// Name is the prefix for constraint names and the name of the
	// returned series. Empty leaves naming to the solver.
	Name string

	// IndexFormat selects how index keys become name fragments.
	IndexFormat format.Mode
}

// AddConstrs creates one constraint per row from an operand triple. The
// left and right sides are series of expression operands or single
// values broadcast to all rows; the sense is a single Sense or a parallel
// series of senses. At least one side must be a series, and series key
// sets must match exactly.
func (s *Session) AddConstrs(ctx context.Context, lhs, sense, rhs interface{}, opts ConstrOptions) (*table.Series, error) {
	index, err := constraintIndex(lhs, rhs)
	if err != nil {
		return nil, err
	}
	if index.HasDuplicates() {
		return nil, errors.New(errors.ErrorTypeDuplicateIndex,
			"index contains duplicate entries, cannot create constraints")
	}

	lhsVals, err := sideValues(lhs, index, "lhs")
	if err != nil {
		return nil, err
	}
	rhsVals, err := sideValues(rhs, index, "rhs")
	if err != nil {
		return nil, err
	}
	senses, err := senseValues(sense, index)
	if err != nil {
		return nil, err
	}

	var names []string
	if opts.Name != "" {
		names, err = format.Names(opts.Name, index, opts.IndexFormat)
		if err != nil {
			return nil, err
		}
	}

	batch := solver.ConstrBatch{LHS: lhsVals, Senses: senses, RHS: rhsVals, Names: names}
	if err := batch.Validate(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "builder.AddConstrs", trace.WithAttributes(
		attribute.Int("rows", batch.Len()),
		attribute.String("name", opts.Name),
	))
	defer span.End()

	start := time.Now()
	constrs, err := s.solver.AddConstrs(ctx, batch)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.ErrorTypeSolver, "bulk constraint creation failed")
	}
	s.collector.RecordBulkCall("constr", len(constrs), time.Since(start))
	s.log.Debug("created constraints",
		zap.Int("rows", len(constrs)),
		zap.String("name", opts.Name),
		zap.Duration("elapsed", time.Since(start)))

	if err := s.afterCreate(ctx); err != nil {
		return nil, err
	}

	handles := make([]interface{}, len(constrs))
	for i, c := range constrs {
		handles[i] = c
	}
	out, err := table.NewSeries(index, handles)
	if err != nil {
		return nil, err
	}
	return out.WithName(opts.Name), nil
}

// AddConstrsExpr creates one constraint per frame row from a two-sided
// relational expression over the frame's columns.
func (s *Session) AddConstrsExpr(ctx context.Context, df *table.DataFrame, expression string, opts ConstrOptions) (*table.Series, error) {
	lhs, sense, rhs, err := expr.Decompose(df, expression)
	if err != nil {
		return nil, err
	}
	return s.AddConstrs(ctx, lhs, sense, rhs, opts)
}

// constraintIndex picks the row index for a constraint family and checks
// that two series sides agree on it.
func constraintIndex(lhs, rhs interface{}) (*table.Index, error) {
	ls, lok := lhs.(*table.Series)
	rs, rok := rhs.(*table.Series)
	switch {
	case lok && rok:
		if !ls.Index().SameKeySet(rs.Index()) {
			return nil, errors.New(errors.ErrorTypeAlignment, "lhs and rhs series must be aligned")
		}
		return ls.Index(), nil
	case lok:
		return ls.Index(), nil
	case rok:
		return rs.Index(), nil
	}
	return nil, errors.New(errors.ErrorTypeTypeConstraint,
		"at least one of lhs and rhs must be a series")
}

// sideValues flattens one constraint side into per-row operands.
func sideValues(side interface{}, index *table.Index, label string) ([]interface{}, error) {
	if s, ok := side.(*table.Series); ok {
		return align.Values(s, index, label)
	}
	switch side.(type) {
	case solver.Var, *solver.LinExpr, *solver.QuadExpr:
	default:
		if _, ok := solver.Numeric(side); !ok {
			return nil, errors.Newf(errors.ErrorTypeTypeConstraint,
				"'%s' must be a series, expression or number, got %T", label, side)
		}
	}
	out := make([]interface{}, index.Len())
	for i := range out {
		out[i] = side
	}
	return out, nil
}

// senseValues flattens the sense into per-row senses, validating
// membership in the closed three-symbol set.
func senseValues(sense interface{}, index *table.Index) ([]solver.Sense, error) {
	out := make([]solver.Sense, index.Len())
	switch v := sense.(type) {
	case solver.Sense:
		if !v.Valid() {
			return nil, errors.Newf(errors.ErrorTypeInvalidSense,
				"'%c' is not a valid constraint sense", v)
		}
		for i := range out {
			out[i] = v
		}
		return out, nil
	case string:
		sv, err := solver.SenseFromToken(v)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = sv
		}
		return out, nil
	case *table.Series:
		vals, err := align.Values(v, index, "sense")
		if err != nil {
			return nil, err
		}
		for i, raw := range vals {
			switch sv := raw.(type) {
			case solver.Sense:
				if !sv.Valid() {
					return nil, errors.Newf(errors.ErrorTypeInvalidSense,
						"'%c' is not a valid constraint sense", sv)
				}
				out[i] = sv
			case string:
				parsed, err := solver.SenseFromToken(sv)
				if err != nil {
					return nil, err
				}
				out[i] = parsed
			default:
				return nil, errors.Newf(errors.ErrorTypeInvalidSense,
					"'%v' is not a valid constraint sense", raw)
			}
		}
		return out, nil
	}
	return nil, errors.Newf(errors.ErrorTypeInvalidSense,
		"'%v' is not a valid constraint sense", sense)
}
