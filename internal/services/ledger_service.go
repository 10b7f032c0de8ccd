package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "troskovi/internal/errors"
	"troskovi/internal/logger"
	"troskovi/internal/models"
	"troskovi/internal/money"
)

// ledgerService handles income and expense rows. Every mutation recomputes
// the month's report in the same transaction, then records an event and
// requests a snapshot once committed.
type ledgerService struct {
	db        *gorm.DB
	events    EventServicer
	snapshots SnapshotTrigger
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB, events EventServicer, snapshots SnapshotTrigger) LedgerServicer {
	return &ledgerService{
		db:        db,
		events:    events,
		snapshots: snapshots,
	}
}

// AddIncome records an income line for a person's month.
func (s *ledgerService) AddIncome(ctx context.Context, personID uint, name, rawAmount, month string) (*models.Income, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "income name is required")
	}
	if _, err := models.ParseMonth(month); err != nil {
		return nil, err
	}
	amount, err := money.ParseAmount(rawAmount)
	if err != nil {
		return nil, err
	}

	income := &models.Income{
		PersonID: personID,
		Name:     name,
		Amount:   amount,
		Month:    month,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePerson(tx, personID); err != nil {
			return err
		}
		if err := tx.Create(income).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		_, err := recomputeReport(tx, personID, month)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, personID, month, models.ActionIncomeCreated, "income", income.ID, map[string]any{
		"name":   income.Name,
		"amount": income.Amount.String(),
	})
	return income, nil
}

// AddExpense records an expense line under an existing category.
func (s *ledgerService) AddExpense(ctx context.Context, personID, categoryID uint, name, rawAmount, month, note string) (*models.Expense, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense name is required")
	}
	if categoryID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category ID is required")
	}
	if _, err := models.ParseMonth(month); err != nil {
		return nil, err
	}
	amount, err := money.ParseAmount(rawAmount)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		PersonID:   personID,
		CategoryID: categoryID,
		Name:       name,
		Amount:     amount,
		Month:      month,
		Note:       strings.TrimSpace(note),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePerson(tx, personID); err != nil {
			return err
		}
		var category models.ExpenseCategory
		if err := tx.First(&category, categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Omit("Category").Create(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		expense.Category = category
		_, err := recomputeReport(tx, personID, month)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, personID, month, models.ActionExpenseCreated, "expense", expense.ID, map[string]any{
		"name":     expense.Name,
		"amount":   expense.Amount.String(),
		"category": expense.Category.Name,
	})
	return expense, nil
}

// DeleteIncome removes an income line. Unknown ids leave the ledger untouched.
func (s *ledgerService) DeleteIncome(ctx context.Context, id uint) error {
	var income models.Income
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&income, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrIncomeNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&income).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		_, err := recomputeReport(tx, income.PersonID, income.Month)
		return err
	})
	if err != nil {
		return err
	}

	s.afterCommit(ctx, income.PersonID, income.Month, models.ActionIncomeDeleted, "income", income.ID, map[string]any{
		"name":   income.Name,
		"amount": income.Amount.String(),
	})
	return nil
}

// DeleteExpense removes an expense line. Unknown ids leave the ledger untouched.
func (s *ledgerService) DeleteExpense(ctx context.Context, id uint) error {
	var expense models.Expense
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&expense, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrExpenseNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		_, err := recomputeReport(tx, expense.PersonID, expense.Month)
		return err
	})
	if err != nil {
		return err
	}

	s.afterCommit(ctx, expense.PersonID, expense.Month, models.ActionExpenseDeleted, "expense", expense.ID, map[string]any{
		"name":   expense.Name,
		"amount": expense.Amount.String(),
	})
	return nil
}

// ListIncomes returns a month's incomes in insertion order.
func (s *ledgerService) ListIncomes(ctx context.Context, personID uint, month string) ([]models.Income, error) {
	incomes, _, err := s.list(ctx, personID, month)
	return incomes, err
}

// ListExpenses returns a month's expenses with their categories, in insertion order.
func (s *ledgerService) ListExpenses(ctx context.Context, personID uint, month string) ([]models.Expense, error) {
	_, expenses, err := s.list(ctx, personID, month)
	return expenses, err
}

func (s *ledgerService) list(ctx context.Context, personID uint, month string) ([]models.Income, []models.Expense, error) {
	if _, err := models.ParseMonth(month); err != nil {
		return nil, nil, err
	}
	db := s.db.WithContext(ctx)
	if err := ensurePerson(db, personID); err != nil {
		return nil, nil, err
	}
	incomes, expenses, err := loadMonth(db, personID, month)
	if err != nil {
		return nil, nil, err
	}
	if incomes == nil {
		incomes = []models.Income{}
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return incomes, expenses, nil
}

// afterCommit runs the best-effort side effects of a committed mutation.
func (s *ledgerService) afterCommit(ctx context.Context, personID uint, month, action, resourceType string, resourceID uint, changes map[string]any) {
	if s.events != nil {
		s.events.Record(ctx, personID, month, action, resourceType, resourceID, changes)
	}
	if s.snapshots != nil {
		s.snapshots.Trigger(ctx, personID, month)
	} else {
		logger.Named("ledger").Debugw("no snapshot trigger configured", "person_id", personID, "month", month)
	}
}
