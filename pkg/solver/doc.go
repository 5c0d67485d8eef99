// Package solver defines the narrow interface the entity builder consumes
// from an optimization solver, plus the expression algebra spoken across
// that interface.
//
// The builder never needs more than this from a solver:
//
//   - bulk variable creation from parallel attribute arrays
//   - bulk constraint creation from parallel (lhs, sense, rhs, name) rows
//   - an Update call that makes prior creations visible to reads
//   - attribute get/set keyed by handle and attribute name
//
// Handles returned from creation calls are opaque; attribute access is the
// only way back in. This keeps the builder free of any reflection over
// concrete solver types.
//
// The package also ships Mock, an in-memory recording solver that honors
// the pending-until-update visibility contract. It backs the test suite
// and the bench command; production callers supply their own Solver
// implementation wrapping a real optimizer.
package solver
