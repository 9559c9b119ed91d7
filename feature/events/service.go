package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"verbena/core/archive"
	"verbena/core/reconcile"
	"verbena/feature/events/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrMissingMunicipio is returned when an event is saved without the
// required locality.
var ErrMissingMunicipio = errors.New("municipio is required")

// ListResult is the payload consumed by the UI: the reconciled event
// set, the activity feed, and whether the first pass has completed.
type ListResult struct {
	Events         []reconcile.Event        `json:"events"`
	RecentActivity []reconcile.ActivityItem `json:"recentActivity"`
	Loading        bool                     `json:"loading"`
}

// Service owns the write path for events and deletions and feeds the
// reconciliation tracker with live snapshots.
type Service struct {
	db      *gorm.DB
	logger  *zap.Logger
	tracker *reconcile.Tracker
	archive *archive.Cache
	cfg     reconcile.Config
	now     func() time.Time
}

// NewService creates a new events service. db may be nil, in which case
// the service serves the archive-only view and rejects writes.
func NewService(db *gorm.DB, logger *zap.Logger, tracker *reconcile.Tracker, cache *archive.Cache, cfg reconcile.Config) *Service {
	return &Service{
		db:      db,
		logger:  logger,
		tracker: tracker,
		archive: cache,
		cfg:     cfg,
		now:     time.Now,
	}
}

// ListEvents returns the latest reconciled view.
func (s *Service) ListEvents() ListResult {
	result, loading := s.tracker.Snapshot()
	return ListResult{
		Events:         result.Events,
		RecentActivity: result.RecentActivity,
		Loading:        loading,
	}
}

// SaveEvent creates or updates an event. FechaAgregado is set once on
// creation and never overwritten; FechaEditado is stamped on every
// write. A normal update clears the re-add flags, while a creation runs
// re-add detection against the recent deletion history so a
// delete-then-re-enter shows up as one logical edit.
func (s *Service) SaveEvent(ctx context.Context, ev reconcile.Event, isUpdate bool) (reconcile.Event, error) {
	if s.db == nil {
		return ev, errors.New("event store unavailable")
	}
	if ev.Municipio == "" {
		return ev, ErrMissingMunicipio
	}

	now := s.now().UTC()
	ev.FechaEditado = now
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.FechaAgregado.IsZero() {
		ev.FechaAgregado = now
	}

	if isUpdate {
		ev.ReAgregado = false
		ev.OriginalEventID = ""
	} else if d, ok := s.findSimilarDeletion(ctx, ev); ok {
		ev.ReAgregado = true
		ev.OriginalEventID = d.EventID
		ev.CancelTimestamp = d.DeletedAt
	}

	rec := models.FromEvent(ev)
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return ev, fmt.Errorf("failed to save event: %w", err)
	}

	s.refreshAfterWrite(ctx)
	return ev, nil
}

// CancelEvent soft-deletes an event and records the deletion with a full
// pre-deletion snapshot. The snapshot keeps Cancelado false so re-add
// detection compares against the event as the organizer last saw it.
func (s *Service) CancelEvent(ctx context.Context, id, deletedBy string) error {
	if s.db == nil {
		return errors.New("event store unavailable")
	}

	var rec models.EventRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to load event %s: %w", id, err)
	}

	now := s.now().UTC()
	snapshot := rec.ToEvent()
	snapshot.Cancelado = false

	rec.Cancelado = true
	rec.FechaEditado = now
	rec.CancelTimestamp = &now

	deletion := models.DeletionRecord{
		Key:       deletionKey(id, now),
		EventID:   id,
		DeletedBy: deletedBy,
		DeletedAt: now,
		EventData: snapshot,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		return tx.Create(&deletion).Error
	})
	if err != nil {
		return fmt.Errorf("failed to cancel event %s: %w", id, err)
	}

	s.refreshAfterWrite(ctx)
	return nil
}

// RefreshSnapshots reloads both live collections from the database and
// pushes them to the tracker. Deletions are filtered by the retention
// window and the previous-calendar-year relevance cutoff before they
// reach the engine.
func (s *Service) RefreshSnapshots(ctx context.Context) error {
	if s.db == nil {
		return nil
	}

	var evRecs []models.EventRecord
	if err := s.db.WithContext(ctx).Find(&evRecs).Error; err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	live := make([]reconcile.Event, 0, len(evRecs))
	for _, r := range evRecs {
		live = append(live, r.ToEvent())
	}

	now := s.now().UTC()
	var delRecs []models.DeletionRecord
	if err := s.db.WithContext(ctx).Where("deleted_at >= ?", deletionCutoff(now, s.cfg.RetentionDays)).Find(&delRecs).Error; err != nil {
		return fmt.Errorf("failed to load deletions: %w", err)
	}
	deletions := make([]reconcile.Deletion, 0, len(delRecs))
	for _, r := range delRecs {
		deletions = append(deletions, r.ToDeletion())
	}

	s.tracker.SetEvents(live)
	s.tracker.SetDeletions(deletions)
	return nil
}

// LoadArchive loads the historical archive (plus the previous year's
// standalone file, when present) into the tracker. Happens at most once
// per process; the cache absorbs repeat calls.
func (s *Service) LoadArchive(ctx context.Context) error {
	if s.archive == nil {
		return nil
	}

	snap, err := s.archive.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load archive: %w", err)
	}

	prevYear := s.now().Year() - 1
	events := snap.Events
	hasPrev := snap.HasYear(prevYear)

	if ya, err := s.archive.LoadYear(ctx, prevYear); err != nil {
		s.logger.Warn("Year archive load failed", zap.Int("year", prevYear), zap.Error(err))
	} else if ya != nil {
		events = append(append([]reconcile.Event(nil), events...), ya.Events...)
		hasPrev = true
	}

	s.tracker.SetArchive(events, hasPrev)
	return nil
}

// PurgeExpired removes deletion records past the retention window.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return PurgeExpiredDeletions(ctx, s.db, s.now().UTC(), s.cfg.RetentionDays)
}

// PurgeExpiredDeletions deletes deletion rows older than the retention
// window and returns how many were removed.
func PurgeExpiredDeletions(ctx context.Context, db *gorm.DB, now time.Time, retentionDays int) (int64, error) {
	cutoff := now.AddDate(0, 0, -retentionDays)
	res := db.WithContext(ctx).Where("deleted_at < ?", cutoff).Delete(&models.DeletionRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge deletions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// findSimilarDeletion scans the recent deletion history for a snapshot
// similar to the new event within the re-add window.
func (s *Service) findSimilarDeletion(ctx context.Context, ev reconcile.Event) (reconcile.Deletion, bool) {
	cutoff := ev.FechaAgregado.Add(-time.Duration(s.cfg.ReaddWindowHours) * time.Hour)

	var delRecs []models.DeletionRecord
	if err := s.db.WithContext(ctx).Where("deleted_at >= ?", cutoff).Find(&delRecs).Error; err != nil {
		// Detection is best effort; the engine catches what we miss here.
		s.logger.Warn("Re-add detection query failed", zap.Error(err))
		return reconcile.Deletion{}, false
	}

	for _, r := range delRecs {
		d := r.ToDeletion()
		if reconcile.Similar(ev, d.EventData, s.cfg) && reconcile.WithinReaddWindow(ev.FechaAgregado, d.DeletedAt, s.cfg) {
			return d, true
		}
	}
	return reconcile.Deletion{}, false
}

func (s *Service) refreshAfterWrite(ctx context.Context) {
	if err := s.RefreshSnapshots(ctx); err != nil {
		s.logger.Warn("Snapshot refresh after write failed", zap.Error(err))
	}
}

// deletionCutoff returns the later of the retention-window start and the
// start of the previous calendar year.
func deletionCutoff(now time.Time, retentionDays int) time.Time {
	retention := now.AddDate(0, 0, -retentionDays)
	prevYearStart := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, now.Location())
	if prevYearStart.After(retention) {
		return prevYearStart
	}
	return retention
}

// deletionKey builds the stable composite key "<id>_<timestamp>" used
// for deletion rows.
func deletionKey(id string, ts time.Time) string {
	return fmt.Sprintf("%s_%s", id, ts.UTC().Format("2006-01-02T15-04-05Z"))
}
