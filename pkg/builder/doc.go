// Package builder creates solver entities in bulk from tabular inputs.
//
// A Session wraps a solver and exposes the four entry points: AddVars and
// AddVarsFrame for variables, AddConstrs and AddConstrsExpr for
// constraints. Every invocation issues exactly one bulk creation call to
// the solver, never one call per row, and returns a series of opaque
// handles aligned position for position with the input index.
//
// # Visibility
//
// Newly created entities are not visible to attribute reads until the
// solver synchronizes. Synchronizing per row would cost O(rows) round
// trips, so the Session defaults to batched mode: the caller synchronizes
// once, explicitly, via Sync. Interactive mode (SetInteractive) opts back
// into an automatic synchronization after every creation call, a cost
// exploratory callers accept for immediate readability of names and
// attributes. The flag is consulted at call time by creation calls only;
// attribute reads never consult it and always reflect whatever state the
// solver is in.
//
// The flag is scoped to the Session and guarded by a mutex so that the
// controller itself is race-free; ordering of model mutations across
// goroutines sharing one Session remains the caller's responsibility.
package builder
