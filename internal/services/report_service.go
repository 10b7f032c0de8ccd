package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "troskovi/internal/errors"
	"troskovi/internal/models"
	"troskovi/internal/money"
)

// CategoryTotal is the share of one category in a month's expenses.
type CategoryTotal struct {
	Amount     decimal.Decimal `json:"amount"`
	Color      string          `json:"color"`
	Percentage float64         `json:"percentage"`
}

// Aggregation holds the derived figures of one month.
type Aggregation struct {
	TotalIncome  decimal.Decimal          `json:"total_income"`
	TotalExpense decimal.Decimal          `json:"total_expense"`
	Balance      decimal.Decimal          `json:"balance"`
	ByCategory   map[string]CategoryTotal `json:"by_category"`
	IncomeCount  int                      `json:"income_count"`
	ExpenseCount int                      `json:"expense_count"`
}

// MonthlySummary is an Aggregation with its person header.
type MonthlySummary struct {
	PersonID  uint   `json:"person_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Photo     string `json:"photo,omitempty"`
	Month     string `json:"month"`
	Aggregation
}

// Aggregate sums the given rows. Only categories with at least one expense
// appear in ByCategory; percentages are 0 when the expense total is 0.
// Expenses are expected to carry their Category.
func Aggregate(incomes []models.Income, expenses []models.Expense) Aggregation {
	agg := Aggregation{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		ByCategory:   make(map[string]CategoryTotal),
		IncomeCount:  len(incomes),
		ExpenseCount: len(expenses),
	}

	for _, in := range incomes {
		agg.TotalIncome = agg.TotalIncome.Add(in.Amount)
	}
	for _, ex := range expenses {
		agg.TotalExpense = agg.TotalExpense.Add(ex.Amount)

		ct, ok := agg.ByCategory[ex.Category.Name]
		if !ok {
			ct = CategoryTotal{Amount: decimal.Zero, Color: ex.Category.Color}
		}
		ct.Amount = ct.Amount.Add(ex.Amount)
		agg.ByCategory[ex.Category.Name] = ct
	}
	for name, ct := range agg.ByCategory {
		ct.Percentage = money.Percentage(ct.Amount, agg.TotalExpense)
		agg.ByCategory[name] = ct
	}

	agg.Balance = agg.TotalIncome.Sub(agg.TotalExpense)
	return agg
}

// reportService computes monthly aggregations.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// ComputeReport aggregates the live rows of a month. It never reads the
// cached report row.
func (s *reportService) ComputeReport(ctx context.Context, personID uint, month string) (*MonthlySummary, error) {
	if _, err := models.ParseMonth(month); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	person, err := getPerson(db, personID)
	if err != nil {
		return nil, err
	}

	incomes, expenses, err := loadMonth(db, personID, month)
	if err != nil {
		return nil, err
	}

	return &MonthlySummary{
		PersonID:    person.ID,
		FirstName:   person.FirstName,
		LastName:    person.LastName,
		Photo:       person.Photo,
		Month:       month,
		Aggregation: Aggregate(incomes, expenses),
	}, nil
}

// GetMonthlyReport returns the stored totals of a month.
func (s *reportService) GetMonthlyReport(ctx context.Context, personID uint, month string) (*models.MonthlyReport, error) {
	if _, err := models.ParseMonth(month); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensurePerson(db, personID); err != nil {
		return nil, err
	}

	var rep models.MonthlyReport
	if err := db.Where("person_id = ? AND month = ?", personID, month).First(&rep).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReportNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &rep, nil
}

// ListMonths lists the months that have a report row, newest first.
func (s *reportService) ListMonths(ctx context.Context, personID uint) ([]string, error) {
	db := s.db.WithContext(ctx)
	if err := ensurePerson(db, personID); err != nil {
		return nil, err
	}

	months := []string{}
	if err := db.Model(&models.MonthlyReport{}).
		Where("person_id = ?", personID).
		Order("month DESC").
		Pluck("month", &months).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return months, nil
}
