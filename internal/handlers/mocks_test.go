package handlers

import (
	"context"
	"errors"
	"time"

	"troskovi/internal/history"
	"troskovi/internal/models"
	"troskovi/internal/pagination"
	"troskovi/internal/report"
	"troskovi/internal/services"
)

var errTest = errors.New("database is on fire")

// --- mock person service ---

type mockPersonService struct {
	createPersonFn func(ctx context.Context, firstName, lastName string, birthDate time.Time, photo string) (*models.Person, error)
	getPersonFn    func(ctx context.Context, id uint) (*models.Person, error)
	listPersonsFn  func(ctx context.Context) ([]models.Person, error)
	updatePersonFn func(ctx context.Context, id uint, firstName, lastName string, birthDate *time.Time, photo *string) (*models.Person, error)
	deletePersonFn func(ctx context.Context, id uint) error
}

func (m *mockPersonService) CreatePerson(ctx context.Context, firstName, lastName string, birthDate time.Time, photo string) (*models.Person, error) {
	if m.createPersonFn != nil {
		return m.createPersonFn(ctx, firstName, lastName, birthDate, photo)
	}
	return &models.Person{}, nil
}

func (m *mockPersonService) GetPerson(ctx context.Context, id uint) (*models.Person, error) {
	if m.getPersonFn != nil {
		return m.getPersonFn(ctx, id)
	}
	return &models.Person{}, nil
}

func (m *mockPersonService) ListPersons(ctx context.Context) ([]models.Person, error) {
	if m.listPersonsFn != nil {
		return m.listPersonsFn(ctx)
	}
	return []models.Person{}, nil
}

func (m *mockPersonService) UpdatePerson(ctx context.Context, id uint, firstName, lastName string, birthDate *time.Time, photo *string) (*models.Person, error) {
	if m.updatePersonFn != nil {
		return m.updatePersonFn(ctx, id, firstName, lastName, birthDate, photo)
	}
	return &models.Person{}, nil
}

func (m *mockPersonService) DeletePerson(ctx context.Context, id uint) error {
	if m.deletePersonFn != nil {
		return m.deletePersonFn(ctx, id)
	}
	return nil
}

var _ services.PersonServicer = (*mockPersonService)(nil)

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn  func(ctx context.Context, name, color string) (*models.ExpenseCategory, error)
	listCategoriesFn  func(ctx context.Context) ([]models.ExpenseCategory, error)
	getCategoryByIDFn func(ctx context.Context, id uint) (*models.ExpenseCategory, error)
	updateCategoryFn  func(ctx context.Context, id uint, name, color string) (*models.ExpenseCategory, error)
	deleteCategoryFn  func(ctx context.Context, id uint) error
}

func (m *mockCategoryService) CreateCategory(ctx context.Context, name, color string) (*models.ExpenseCategory, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(ctx, name, color)
	}
	return &models.ExpenseCategory{}, nil
}

func (m *mockCategoryService) ListCategories(ctx context.Context) ([]models.ExpenseCategory, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(ctx)
	}
	return []models.ExpenseCategory{}, nil
}

func (m *mockCategoryService) GetCategoryByID(ctx context.Context, id uint) (*models.ExpenseCategory, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(ctx, id)
	}
	return &models.ExpenseCategory{}, nil
}

func (m *mockCategoryService) UpdateCategory(ctx context.Context, id uint, name, color string) (*models.ExpenseCategory, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(ctx, id, name, color)
	}
	return &models.ExpenseCategory{}, nil
}

func (m *mockCategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(ctx, id)
	}
	return nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

// --- mock ledger service ---

type mockLedgerService struct {
	addIncomeFn     func(ctx context.Context, personID uint, name, rawAmount, month string) (*models.Income, error)
	addExpenseFn    func(ctx context.Context, personID, categoryID uint, name, rawAmount, month, note string) (*models.Expense, error)
	deleteIncomeFn  func(ctx context.Context, id uint) error
	deleteExpenseFn func(ctx context.Context, id uint) error
	listIncomesFn   func(ctx context.Context, personID uint, month string) ([]models.Income, error)
	listExpensesFn  func(ctx context.Context, personID uint, month string) ([]models.Expense, error)
}

func (m *mockLedgerService) AddIncome(ctx context.Context, personID uint, name, rawAmount, month string) (*models.Income, error) {
	if m.addIncomeFn != nil {
		return m.addIncomeFn(ctx, personID, name, rawAmount, month)
	}
	return &models.Income{}, nil
}

func (m *mockLedgerService) AddExpense(ctx context.Context, personID, categoryID uint, name, rawAmount, month, note string) (*models.Expense, error) {
	if m.addExpenseFn != nil {
		return m.addExpenseFn(ctx, personID, categoryID, name, rawAmount, month, note)
	}
	return &models.Expense{}, nil
}

func (m *mockLedgerService) DeleteIncome(ctx context.Context, id uint) error {
	if m.deleteIncomeFn != nil {
		return m.deleteIncomeFn(ctx, id)
	}
	return nil
}

func (m *mockLedgerService) DeleteExpense(ctx context.Context, id uint) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(ctx, id)
	}
	return nil
}

func (m *mockLedgerService) ListIncomes(ctx context.Context, personID uint, month string) ([]models.Income, error) {
	if m.listIncomesFn != nil {
		return m.listIncomesFn(ctx, personID, month)
	}
	return []models.Income{}, nil
}

func (m *mockLedgerService) ListExpenses(ctx context.Context, personID uint, month string) ([]models.Expense, error) {
	if m.listExpensesFn != nil {
		return m.listExpensesFn(ctx, personID, month)
	}
	return []models.Expense{}, nil
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

// --- mock report service ---

type mockReportService struct {
	computeReportFn    func(ctx context.Context, personID uint, month string) (*services.MonthlySummary, error)
	getMonthlyReportFn func(ctx context.Context, personID uint, month string) (*models.MonthlyReport, error)
	listMonthsFn       func(ctx context.Context, personID uint) ([]string, error)
}

func (m *mockReportService) ComputeReport(ctx context.Context, personID uint, month string) (*services.MonthlySummary, error) {
	if m.computeReportFn != nil {
		return m.computeReportFn(ctx, personID, month)
	}
	return &services.MonthlySummary{}, nil
}

func (m *mockReportService) GetMonthlyReport(ctx context.Context, personID uint, month string) (*models.MonthlyReport, error) {
	if m.getMonthlyReportFn != nil {
		return m.getMonthlyReportFn(ctx, personID, month)
	}
	return &models.MonthlyReport{}, nil
}

func (m *mockReportService) ListMonths(ctx context.Context, personID uint) ([]string, error) {
	if m.listMonthsFn != nil {
		return m.listMonthsFn(ctx, personID)
	}
	return []string{}, nil
}

var _ services.ReportServicer = (*mockReportService)(nil)

// --- mock snapshot service ---

type mockSnapshotService struct {
	snapshotFn           func(ctx context.Context, personID uint, month string) error
	getSnapshotFn        func(ctx context.Context, personID uint, month string) (*history.Snapshot, error)
	listSnapshotMonthsFn func(ctx context.Context, personID uint) ([]string, error)
	rebuildAllFn         func(ctx context.Context) (int, error)
}

func (m *mockSnapshotService) Snapshot(ctx context.Context, personID uint, month string) error {
	if m.snapshotFn != nil {
		return m.snapshotFn(ctx, personID, month)
	}
	return nil
}

func (m *mockSnapshotService) GetSnapshot(ctx context.Context, personID uint, month string) (*history.Snapshot, error) {
	if m.getSnapshotFn != nil {
		return m.getSnapshotFn(ctx, personID, month)
	}
	return &history.Snapshot{}, nil
}

func (m *mockSnapshotService) ListSnapshotMonths(ctx context.Context, personID uint) ([]string, error) {
	if m.listSnapshotMonthsFn != nil {
		return m.listSnapshotMonthsFn(ctx, personID)
	}
	return []string{}, nil
}

func (m *mockSnapshotService) RebuildAll(ctx context.Context) (int, error) {
	if m.rebuildAllFn != nil {
		return m.rebuildAllFn(ctx)
	}
	return 0, nil
}

var _ services.SnapshotServicer = (*mockSnapshotService)(nil)

// --- mock event service ---

type mockEventService struct {
	listEventsFn func(ctx context.Context, personID uint, page pagination.PageRequest) (*pagination.PageResponse[models.LedgerEvent], error)
}

func (m *mockEventService) Record(_ context.Context, _ uint, _, _, _ string, _ uint, _ map[string]any) {}

func (m *mockEventService) ListEvents(ctx context.Context, personID uint, page pagination.PageRequest) (*pagination.PageResponse[models.LedgerEvent], error) {
	if m.listEventsFn != nil {
		return m.listEventsFn(ctx, personID, page)
	}
	page.Defaults()
	resp := pagination.NewPageResponse([]models.LedgerEvent{}, page, 0)
	return &resp, nil
}

var _ services.EventServicer = (*mockEventService)(nil)

// --- mock export service ---

type mockExportService struct {
	renderFn func(ctx context.Context, format report.Format, personID uint, month string) (*report.File, error)
}

func (m *mockExportService) Render(ctx context.Context, format report.Format, personID uint, month string) (*report.File, error) {
	if m.renderFn != nil {
		return m.renderFn(ctx, format, personID, month)
	}
	return &report.File{}, nil
}

var _ services.ExportServicer = (*mockExportService)(nil)
