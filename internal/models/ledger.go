package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#3498db"

// ExpenseCategory is a global expense grouping shared by every person and month.
type ExpenseCategory struct {
	Base
	Name  string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Color string `gorm:"size:7;not null;default:'#3498db'" json:"color"`
}

// Income is a single income line of a person's month. Immutable once created.
type Income struct {
	Base
	PersonID uint            `gorm:"not null;index:idx_incomes_person_month" json:"person_id"`
	Name     string          `gorm:"size:100;not null" json:"name"`
	Amount   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Month    string          `gorm:"size:7;not null;index:idx_incomes_person_month" json:"month"`
}

// Expense is a single expense line of a person's month.
type Expense struct {
	Base
	PersonID   uint            `gorm:"not null;index:idx_expenses_person_month" json:"person_id"`
	CategoryID uint            `gorm:"not null;index" json:"category_id"`
	Name       string          `gorm:"size:100;not null" json:"name"`
	Amount     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Month      string          `gorm:"size:7;not null;index:idx_expenses_person_month" json:"month"`
	Note       string          `gorm:"type:text" json:"note"`

	Category ExpenseCategory `gorm:"foreignKey:CategoryID" json:"category"`
}

// MonthlyReport caches the totals of one (person, month). It is recomputed
// inside every mutating transaction and never edited directly.
type MonthlyReport struct {
	Base
	PersonID     uint            `gorm:"not null;uniqueIndex:idx_reports_person_month" json:"person_id"`
	Month        string          `gorm:"size:7;not null;uniqueIndex:idx_reports_person_month" json:"month"`
	TotalIncome  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_income"`
	TotalExpense decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_expense"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Balance is income minus expense; it may be negative.
func (r *MonthlyReport) Balance() decimal.Decimal {
	return r.TotalIncome.Sub(r.TotalExpense)
}
