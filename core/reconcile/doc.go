// Package reconcile implements the event reconciliation engine.
//
// The engine merges three overlapping data sources (the live event
// collection, the live deletion collection and the static historical
// archive) into one deduplicated event set, and classifies every
// observed change into add, edit, delete or reagregado (re-add).
//
// # Re-add detection
//
// A common data-entry pattern is an organizer deleting an event and
// re-entering it with slightly corrected fields. The engine detects this
// by correlating provisional adds against recent deletions: a fuzzy
// similarity predicate over five fields (orquesta, municipio, tipo, hora
// within a tolerance, normalized lugar) combined with a time window
// around the deletion. Matches collapse into a single reagregado entry
// instead of an unrelated delete plus add.
//
// # Dual-stream tracking
//
// The Tracker holds the latest snapshot of both live streams plus the
// archive and re-runs the engine whenever either stream pushes a new
// snapshot. Each pass is a pure function over its inputs; the tracker
// serializes passes so a deletion can never be claimed twice.
//
// All thresholds (similarity 4-of-5, 15 minute time tolerance, 12 hour
// re-add window, 400 day retention, feed size 5) live in Config.
package reconcile
