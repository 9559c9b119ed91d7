// Package events is the vertical slice owning the live event and
// deletion collections.
//
// The write path mirrors the data-entry rules of the schedule tracker:
// FechaAgregado is set once, FechaEditado on every write, a cancellation
// flips the soft-delete flag and records a full pre-deletion snapshot,
// and a creation runs re-add detection so a delete-then-re-enter is
// flagged before it even reaches the engine.
//
// The read path serves the reconciled view produced by the
// core/reconcile tracker, which this package feeds with fresh database
// snapshots after every write and on a schedule.
package events
