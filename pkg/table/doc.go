// Package table provides the indexed tabular container consumed by the
// entity builder: an ordered row Index of scalar or fixed-width tuple keys,
// a Series of per-row values on an Index, and a DataFrame of named columns
// sharing one Index.
//
// The container deliberately implements only the primitives the builder
// layer needs:
//
//   - ordered iteration and duplicate detection on the Index
//   - key-set comparison and reindexing (alignment)
//   - column/series extraction by name
//   - null detection
//   - join-by-index and groupby-aggregate
//
// Storage order is never semantically meaningful for alignment: two series
// whose indexes contain the same keys in different orders are aligned.
//
// Values are held as interface{} cells. Numeric coercion and shape checks
// live in pkg/align; this package only moves values around by key.
package table
