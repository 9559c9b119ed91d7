// Package stats aggregates performer and event statistics.
//
// The current season is aggregated live over the reconciled display
// set; prior years come from the historical archive. Aggregation shares
// its shape with the archive format so the `archive generate` command
// reuses the same code.
package stats
