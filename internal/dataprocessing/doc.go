// Package dataprocessing implements the results-vs-expectations
// comparison core: schema validation of raw broker tables, derivation of
// margins and differential metrics, Beat/Inline/Miss classification, and
// per-broker aggregation.
//
// # Architecture
//
// The package is organized as a three-stage pipeline, evaluated
// leaf-to-root:
//
//  1. Validator: checks a raw table against the required-column contract
//     and coerces numeric cells, rejecting malformed input early
//  2. Calculator: derives margins, percentage and basis-point
//     differentials, and beat flags per row
//  3. Aggregator: rolls enriched rows up into per-broker summaries
//
// # Data Flow
//
//	domain.Table → Validator → []domain.ResultRow → Calculator →
//	[]domain.EnrichedRow → Aggregator → domain.SummaryTable
//
// Every stage is pure and synchronous: full input in, new structure out,
// no shared mutable state and no I/O. Re-running the pipeline on the same
// input yields identical output, so callers recompute freely on every
// filter change instead of caching.
//
// # Error Handling
//
// Validation is all-or-nothing. A missing required column fails the load
// with a *SchemaError listing every absent column; an unparseable numeric
// cell fails it with a *CoercionError naming the row, column and raw
// value. No row is enriched unless the whole batch validates. Zero
// denominators downstream are not errors: the affected derived value is
// carried as an undefined domain.NullFloat and classifies Inline.
package dataprocessing
