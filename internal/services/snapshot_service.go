package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "troskovi/internal/errors"
	"troskovi/internal/history"
	"troskovi/internal/logger"
	"troskovi/internal/models"
)

// snapshotService writes and reads history snapshots.
type snapshotService struct {
	db    *gorm.DB
	store *history.Store
	now   func() time.Time
}

// NewSnapshotService creates a new SnapshotServicer.
func NewSnapshotService(db *gorm.DB, store *history.Store) SnapshotServicer {
	return &snapshotService{
		db:    db,
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Snapshot overwrites the history file of (personID, month) with the
// current rows.
func (s *snapshotService) Snapshot(ctx context.Context, personID uint, month string) error {
	if _, err := models.ParseMonth(month); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	if err := ensurePerson(db, personID); err != nil {
		return err
	}
	incomes, expenses, err := loadMonth(db, personID, month)
	if err != nil {
		return err
	}

	return s.store.Write(history.NewSnapshot(personID, month, incomes, expenses, s.now()))
}

// GetSnapshot reads a stored snapshot.
func (s *snapshotService) GetSnapshot(ctx context.Context, personID uint, month string) (*history.Snapshot, error) {
	if _, err := models.ParseMonth(month); err != nil {
		return nil, err
	}
	if err := ensurePerson(s.db.WithContext(ctx), personID); err != nil {
		return nil, err
	}
	return s.store.Read(personID, month)
}

// ListSnapshotMonths lists the months with a stored snapshot, newest first.
func (s *snapshotService) ListSnapshotMonths(ctx context.Context, personID uint) ([]string, error) {
	if err := ensurePerson(s.db.WithContext(ctx), personID); err != nil {
		return nil, err
	}
	return s.store.Months(personID)
}

// RebuildAll re-snapshots every month that has a report row. Failures are
// logged and counted; the rest of the months are still processed.
func (s *snapshotService) RebuildAll(ctx context.Context) (int, error) {
	var pairs []personMonth
	if err := s.db.WithContext(ctx).Model(&models.MonthlyReport{}).
		Select("person_id, month").
		Order("person_id ASC, month ASC").
		Scan(&pairs).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	count, failed := 0, 0
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return count, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.Snapshot(ctx, p.PersonID, p.Month); err != nil {
			failed++
			logger.Get().Errorw("Failed to rebuild snapshot", "person_id", p.PersonID, "month", p.Month, "error", err)
			continue
		}
		count++
	}

	if failed > 0 {
		return count, apperrors.WithMessage(apperrors.ErrSnapshotWrite, fmt.Sprintf("%d of %d snapshots failed", failed, len(pairs)))
	}
	return count, nil
}
