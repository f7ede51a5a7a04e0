// Package reporting computes the dashboard's analytics rollups from flat
// per-campaign per-day metric rows.
//
// Everything here is a pure function over rows already materialized in
// memory: no I/O, no shared state, no persistence of results. Handlers fetch
// rows from the store, run them through this package, and discard the output
// after rendering. Malformed input is coerced, never raised: NULL counters
// count as zero, rows for unknown campaigns are skipped, and zero
// denominators yield a 0 rate rather than NaN.
package reporting
