package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "troskovi/internal/errors"
	"troskovi/internal/models"
)

// categoryService handles the global expense categories.
type categoryService struct {
	db        *gorm.DB
	events    EventServicer
	snapshots SnapshotTrigger
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB, events EventServicer, snapshots SnapshotTrigger) CategoryServicer {
	return &categoryService{
		db:        db,
		events:    events,
		snapshots: snapshots,
	}
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(ctx context.Context, name, color string) (*models.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if color == "" {
		color = models.DefaultCategoryColor
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureUniqueName(db, name, 0); err != nil {
		return nil, err
	}

	category := &models.ExpenseCategory{Name: name, Color: color}
	if err := db.Create(category).Error; err != nil {
		return nil, categoryWriteError(err)
	}
	return category, nil
}

// ListCategories returns all categories ordered by name.
func (s *categoryService) ListCategories(ctx context.Context) ([]models.ExpenseCategory, error) {
	categories := []models.ExpenseCategory{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(ctx context.Context, id uint) (*models.ExpenseCategory, error) {
	return getCategory(s.db.WithContext(ctx), id)
}

func getCategory(db *gorm.DB, id uint) (*models.ExpenseCategory, error) {
	var category models.ExpenseCategory
	if err := db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory renames or recolors a category. Empty values are left as is.
// A rename re-snapshots every month that uses the category.
func (s *categoryService) UpdateCategory(ctx context.Context, id uint, name, color string) (*models.ExpenseCategory, error) {
	db := s.db.WithContext(ctx)
	category, err := getCategory(db, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	updates := make(map[string]interface{})
	if name != "" && name != category.Name {
		if err := s.ensureUniqueName(db, name, id); err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if color != "" && color != category.Color {
		updates["color"] = color
	}
	if len(updates) == 0 {
		return category, nil
	}

	if err := db.Model(category).Updates(updates).Error; err != nil {
		return nil, categoryWriteError(err)
	}
	if v, ok := updates["name"]; ok {
		category.Name = v.(string)
	}
	if v, ok := updates["color"]; ok {
		category.Color = v.(string)
	}

	if _, renamed := updates["name"]; renamed {
		affected, err := affectedMonths(db, id)
		if err != nil {
			return nil, err
		}
		for _, p := range affected {
			s.trigger(ctx, p)
		}
	}
	return category, nil
}

// DeleteCategory removes a category and every expense filed under it, then
// recomputes the reports of the months those expenses belonged to.
func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	var (
		category *models.ExpenseCategory
		affected []personMonth
		removed  int64
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if category, err = getCategory(tx, id); err != nil {
			return err
		}
		if affected, err = affectedMonths(tx, id); err != nil {
			return err
		}

		res := tx.Where("category_id = ?", id).Delete(&models.Expense{})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		removed = res.RowsAffected

		if err := tx.Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		for _, p := range affected {
			if _, err := recomputeReport(tx, p.PersonID, p.Month); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range affected {
		if s.events != nil {
			s.events.Record(ctx, p.PersonID, p.Month, models.ActionCategoryDeleted, "category", id, map[string]any{
				"name":             category.Name,
				"expenses_removed": removed,
			})
		}
		s.trigger(ctx, p)
	}
	return nil
}

func (s *categoryService) trigger(ctx context.Context, p personMonth) {
	if s.snapshots != nil {
		s.snapshots.Trigger(ctx, p.PersonID, p.Month)
	}
}

func (s *categoryService) ensureUniqueName(db *gorm.DB, name string, exceptID uint) error {
	var count int64
	q := db.Model(&models.ExpenseCategory{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

// categoryWriteError maps a unique index violation from a concurrent writer
// that passed ensureUniqueName at the same time.
func categoryWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicateCategory
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// affectedMonths lists the distinct (person, month) pairs with expenses in a category.
func affectedMonths(db *gorm.DB, categoryID uint) ([]personMonth, error) {
	var pairs []personMonth
	if err := db.Model(&models.Expense{}).
		Distinct("person_id", "month").
		Where("category_id = ?", categoryID).
		Order("person_id ASC, month ASC").
		Scan(&pairs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pairs, nil
}
