package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "troskovi/internal/errors"
	"troskovi/internal/models"
)

// getPerson loads a person or returns ErrPersonNotFound.
func getPerson(db *gorm.DB, id uint) (*models.Person, error) {
	var person models.Person
	if err := db.First(&person, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPersonNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &person, nil
}

func ensurePerson(db *gorm.DB, id uint) error {
	_, err := getPerson(db, id)
	return err
}

// loadMonth returns the live rows of (personID, month) in insertion order.
func loadMonth(db *gorm.DB, personID uint, month string) ([]models.Income, []models.Expense, error) {
	var incomes []models.Income
	if err := db.Where("person_id = ? AND month = ?", personID, month).
		Order("id ASC").
		Find(&incomes).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := db.Preload("Category").
		Where("person_id = ? AND month = ?", personID, month).
		Order("id ASC").
		Find(&expenses).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return incomes, expenses, nil
}

// recomputeReport rescans every row of (personID, month) and stores the
// totals, creating the report row on first use. Call it inside the
// transaction that changed the rows.
func recomputeReport(tx *gorm.DB, personID uint, month string) (*models.MonthlyReport, error) {
	incomes, expenses, err := loadMonth(tx, personID, month)
	if err != nil {
		return nil, err
	}
	agg := Aggregate(incomes, expenses)

	var rep models.MonthlyReport
	err = tx.Where("person_id = ? AND month = ?", personID, month).First(&rep).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rep = models.MonthlyReport{
			PersonID:     personID,
			Month:        month,
			TotalIncome:  agg.TotalIncome,
			TotalExpense: agg.TotalExpense,
		}
		if err := tx.Create(&rep).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	case err != nil:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	default:
		if err := tx.Model(&rep).Updates(map[string]any{
			"total_income":  agg.TotalIncome,
			"total_expense": agg.TotalExpense,
		}).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		rep.TotalIncome = agg.TotalIncome
		rep.TotalExpense = agg.TotalExpense
	}
	return &rep, nil
}

// personMonth identifies one aggregate.
type personMonth struct {
	PersonID uint
	Month    string
}
