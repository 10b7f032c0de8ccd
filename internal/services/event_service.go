package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	apperrors "troskovi/internal/errors"
	"troskovi/internal/logger"
	"troskovi/internal/models"
	"troskovi/internal/pagination"
)

// eventService records committed ledger mutations.
type eventService struct {
	db *gorm.DB
}

// NewEventService creates a new EventServicer.
func NewEventService(db *gorm.DB) EventServicer {
	return &eventService{db: db}
}

// Record appends a ledger event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *eventService) Record(ctx context.Context, personID uint, month, action, resourceType string, resourceID uint, changes map[string]any) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal ledger event changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.LedgerEvent{
		PersonID:     personID,
		Month:        month,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Changes:      changesJSON,
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create ledger event",
			"error", err,
			"person_id", personID,
			"month", month,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// ListEvents returns a person's events, newest first.
func (s *eventService) ListEvents(ctx context.Context, personID uint, page pagination.PageRequest) (*pagination.PageResponse[models.LedgerEvent], error) {
	page.Defaults()

	if err := ensurePerson(s.db.WithContext(ctx), personID); err != nil {
		return nil, err
	}

	var totalItems int64
	base := s.db.WithContext(ctx).Model(&models.LedgerEvent{}).Where("person_id = ?", personID).Session(&gorm.Session{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var events []models.LedgerEvent
	if err := base.Order("id DESC").Scopes(pagination.Paginate(page)).Find(&events).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(events, page, totalItems)
	return &result, nil
}
