// Package archive provides access to the year-partitioned historical
// event archive stored as JSON objects in object storage.
//
// The archive is read-only for the process's lifetime: the Cache loads
// the aggregated snapshot at most once and serves it from memory. A
// missing archive degrades to an empty snapshot rather than an error,
// which makes the reconciliation engine fall back to admitting more
// live previous-year data.
//
// The `archive generate` command is the writer side: it aggregates past
// years from the live database and uploads the JSON objects this package
// reads.
package archive
