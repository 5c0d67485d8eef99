// Package tabsolver maps tabular data onto named entities in an external
// optimization solver while preserving row/column alignment.
//
// Optimization models are naturally tabular: decision variables and
// constraints come in families indexed by products, time periods, machines,
// or combinations of these. tabsolver lets callers build those families in
// bulk from indexed tables, with one solver call per family rather than one
// per row, while keeping the result row-aligned with the input.
//
// # Architecture
//
// The library is split into small collaborating packages:
//
//	pkg/table   - indexed tabular container (Index, Series, DataFrame)
//	pkg/solver  - the solver collaborator interface, expression arithmetic
//	              over variable handles, and an in-memory recording solver
//	pkg/format  - deterministic conversion of index keys to name fragments
//	pkg/align   - attribute specs (constant / column / series) and the
//	              alignment validator that flattens them per row
//	pkg/expr    - decomposition of two-sided relational expressions written
//	              against table columns
//	pkg/builder - the bulk entity builder and the interactive/batched
//	              visibility controller (Session)
//	pkg/errors  - structured error handling
//	pkg/logger  - structured logging
//	pkg/metrics - Prometheus metrics collection
//	pkg/config  - configuration loading
//
// # Quick Start
//
// Build three variables and three constraints from a small frame:
//
//	import (
//	    "context"
//	    "github.com/tabsolver/tabsolver/pkg/builder"
//	    "github.com/tabsolver/tabsolver/pkg/solver"
//	    "github.com/tabsolver/tabsolver/pkg/table"
//	)
//
//	ctx := context.Background()
//	idx := table.RangeIndex(3)
//	df, _ := table.NewDataFrame(idx).WithColumn("a", []any{1.0, 2.0, 3.0})
//
//	sess := builder.NewSession(solver.NewMock())
//	x, _ := sess.AddVarsFrame(ctx, df, builder.FrameVarOptions{Name: "x"})
//	df, _ = df.Join(x)
//	_, _ = sess.AddConstrsExpr(ctx, df, "x <= a", builder.ConstrOptions{Name: "cap"})
//
// Creation calls are batched: new entities become visible to attribute
// reads only after the solver synchronizes. Call Session.SetInteractive to
// trade throughput for immediate visibility in exploratory sessions.
package tabsolver
