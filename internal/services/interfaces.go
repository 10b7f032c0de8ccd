package services

import (
	"context"
	"time"

	"troskovi/internal/history"
	"troskovi/internal/models"
	"troskovi/internal/pagination"
	"troskovi/internal/report"
)

// PersonServicer defines the contract for managing ledger owners.
type PersonServicer interface {
	CreatePerson(ctx context.Context, firstName, lastName string, birthDate time.Time, photo string) (*models.Person, error)
	GetPerson(ctx context.Context, id uint) (*models.Person, error)
	ListPersons(ctx context.Context) ([]models.Person, error)
	UpdatePerson(ctx context.Context, id uint, firstName, lastName string, birthDate *time.Time, photo *string) (*models.Person, error)
	DeletePerson(ctx context.Context, id uint) error
}

// CategoryServicer defines the contract for the global expense categories.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, name, color string) (*models.ExpenseCategory, error)
	ListCategories(ctx context.Context) ([]models.ExpenseCategory, error)
	GetCategoryByID(ctx context.Context, id uint) (*models.ExpenseCategory, error)
	UpdateCategory(ctx context.Context, id uint, name, color string) (*models.ExpenseCategory, error)
	DeleteCategory(ctx context.Context, id uint) error
}

// LedgerServicer defines the contract for income and expense rows.
type LedgerServicer interface {
	AddIncome(ctx context.Context, personID uint, name, rawAmount, month string) (*models.Income, error)
	AddExpense(ctx context.Context, personID, categoryID uint, name, rawAmount, month, note string) (*models.Expense, error)
	DeleteIncome(ctx context.Context, id uint) error
	DeleteExpense(ctx context.Context, id uint) error
	ListIncomes(ctx context.Context, personID uint, month string) ([]models.Income, error)
	ListExpenses(ctx context.Context, personID uint, month string) ([]models.Expense, error)
}

// ReportServicer defines the contract for monthly aggregation.
type ReportServicer interface {
	ComputeReport(ctx context.Context, personID uint, month string) (*MonthlySummary, error)
	GetMonthlyReport(ctx context.Context, personID uint, month string) (*models.MonthlyReport, error)
	ListMonths(ctx context.Context, personID uint) ([]string, error)
}

// SnapshotServicer defines the contract for history snapshots.
type SnapshotServicer interface {
	Snapshot(ctx context.Context, personID uint, month string) error
	GetSnapshot(ctx context.Context, personID uint, month string) (*history.Snapshot, error)
	ListSnapshotMonths(ctx context.Context, personID uint) ([]string, error)
	RebuildAll(ctx context.Context) (int, error)
}

// SnapshotTrigger requests a snapshot without waiting for it. Implementations
// must not report failures to the caller.
type SnapshotTrigger interface {
	Trigger(ctx context.Context, personID uint, month string)
}

// EventServicer defines the contract for the append-only ledger event log.
type EventServicer interface {
	Record(ctx context.Context, personID uint, month, action, resourceType string, resourceID uint, changes map[string]any)
	ListEvents(ctx context.Context, personID uint, page pagination.PageRequest) (*pagination.PageResponse[models.LedgerEvent], error)
}

// ExportServicer defines the contract for document exports.
type ExportServicer interface {
	Render(ctx context.Context, format report.Format, personID uint, month string) (*report.File, error)
}
