package services

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"troskovi/internal/models"
	"troskovi/internal/money"
	"troskovi/internal/testutil"
)

func TestAggregate(t *testing.T) {
	housing := models.ExpenseCategory{Name: "Housing", Color: "#e74c3c"}
	groceries := models.ExpenseCategory{Name: "Groceries", Color: "#2ecc71"}

	t.Run("scenario", func(t *testing.T) {
		incomes := []models.Income{
			{Name: "Salary", Amount: decimal.RequireFromString("1000")},
			{Name: "Bonus", Amount: decimal.RequireFromString("500")},
		}
		expenses := []models.Expense{
			{Name: "Rent", Amount: decimal.RequireFromString("500"), Category: housing},
			{Name: "Food", Amount: decimal.RequireFromString("300"), Category: groceries},
		}

		agg := Aggregate(incomes, expenses)
		testutil.AssertDecimal(t, agg.TotalIncome, "1500")
		testutil.AssertDecimal(t, agg.TotalExpense, "800")
		testutil.AssertDecimal(t, agg.Balance, "700")
		if agg.IncomeCount != 2 || agg.ExpenseCount != 2 {
			t.Errorf("counts = %d/%d, want 2/2", agg.IncomeCount, agg.ExpenseCount)
		}
		if got := agg.ByCategory["Housing"].Percentage; math.Abs(got-62.5) > 1e-9 {
			t.Errorf("Housing percentage = %v, want 62.5", got)
		}
		if got := agg.ByCategory["Groceries"].Percentage; math.Abs(got-37.5) > 1e-9 {
			t.Errorf("Groceries percentage = %v, want 37.5", got)
		}
		if agg.ByCategory["Housing"].Color != "#e74c3c" {
			t.Errorf("Housing color = %s", agg.ByCategory["Housing"].Color)
		}
	})

	t.Run("same_category_summed", func(t *testing.T) {
		expenses := []models.Expense{
			{Amount: decimal.RequireFromString("10.10"), Category: groceries},
			{Amount: decimal.RequireFromString("20.20"), Category: groceries},
		}
		agg := Aggregate(nil, expenses)
		if len(agg.ByCategory) != 1 {
			t.Fatalf("expected 1 category, got %d", len(agg.ByCategory))
		}
		testutil.AssertDecimal(t, agg.ByCategory["Groceries"].Amount, "30.30")
		if agg.ByCategory["Groceries"].Percentage != 100 {
			t.Errorf("percentage = %v, want 100", agg.ByCategory["Groceries"].Percentage)
		}
		testutil.AssertDecimal(t, agg.Balance, "-30.30")
	})

	t.Run("empty", func(t *testing.T) {
		agg := Aggregate(nil, nil)
		testutil.AssertDecimal(t, agg.TotalIncome, "0")
		testutil.AssertDecimal(t, agg.TotalExpense, "0")
		testutil.AssertDecimal(t, agg.Balance, "0")
		if agg.ByCategory == nil || len(agg.ByCategory) != 0 {
			t.Errorf("expected empty non-nil category map, got %v", agg.ByCategory)
		}
	})

	t.Run("zero_total_has_zero_percentages", func(t *testing.T) {
		expenses := []models.Expense{{Amount: decimal.Zero, Category: groceries}}
		agg := Aggregate(nil, expenses)
		if agg.ByCategory["Groceries"].Percentage != 0 {
			t.Errorf("percentage = %v, want 0", agg.ByCategory["Groceries"].Percentage)
		}
	})

	t.Run("thirds_sum_to_hundred", func(t *testing.T) {
		transport := models.ExpenseCategory{Name: "Transport", Color: "#9b59b6"}
		expenses := []models.Expense{
			{Amount: decimal.RequireFromString("100"), Category: housing},
			{Amount: decimal.RequireFromString("100"), Category: groceries},
			{Amount: decimal.RequireFromString("100"), Category: transport},
		}
		agg := Aggregate(nil, expenses)
		if len(agg.ByCategory) != 3 {
			t.Fatalf("expected 3 categories, got %d", len(agg.ByCategory))
		}

		sum := 0.0
		for name, ct := range agg.ByCategory {
			if math.Abs(ct.Percentage-100.0/3) > 1e-9 {
				t.Errorf("%s percentage = %v, want 33.333...", name, ct.Percentage)
			}
			if got := money.FormatPercent(ct.Percentage); got != "33.3%" {
				t.Errorf("%s formatted = %s, want 33.3%%", name, got)
			}
			sum += ct.Percentage
		}
		if math.Abs(sum-100) > 1e-9 {
			t.Errorf("percentages sum to %v, want 100", sum)
		}
	})
}

func TestComputeReport(t *testing.T) {
	ctx := context.Background()

	t.Run("live_rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		person := testutil.CreateTestPerson(t, db)
		cat := testutil.CreateTestCategory(t, db, "Groceries")

		testutil.CreateTestIncome(t, db, person.ID, "2024-03", "Salary", "1000")
		testutil.CreateTestExpense(t, db, person.ID, cat.ID, "2024-03", "Food", "200")
		testutil.CreateTestIncome(t, db, person.ID, "2024-04", "Other month", "999")

		sum, err := svc.ComputeReport(ctx, person.ID, "2024-03")
		testutil.AssertNoError(t, err)

		if sum.FirstName != person.FirstName || sum.Month != "2024-03" {
			t.Errorf("unexpected header %+v", sum)
		}
		testutil.AssertDecimal(t, sum.TotalIncome, "1000")
		testutil.AssertDecimal(t, sum.TotalExpense, "200")
		testutil.AssertDecimal(t, sum.Balance, "800")
	})

	t.Run("empty_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		person := testutil.CreateTestPerson(t, db)

		sum, err := svc.ComputeReport(ctx, person.ID, "2020-01")
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, sum.Balance, "0")
		if len(sum.ByCategory) != 0 {
			t.Errorf("expected no categories, got %v", sum.ByCategory)
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		person := testutil.CreateTestPerson(t, db)

		_, err := svc.ComputeReport(ctx, person.ID, "2024-3")
		testutil.AssertAppError(t, err, "INVALID_MONTH")
	})

	t.Run("unknown_person", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		_, err := svc.ComputeReport(ctx, 99999, "2024-03")
		testutil.AssertAppError(t, err, "PERSON_NOT_FOUND")
	})
}

func TestGetMonthlyReport(t *testing.T) {
	ctx := context.Background()

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		person := testutil.CreateTestPerson(t, db)

		_, err := svc.GetMonthlyReport(ctx, person.ID, "2024-03")
		testutil.AssertAppError(t, err, "REPORT_NOT_FOUND")
	})

	t.Run("list_months_newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		ledger := NewLedgerService(db, nil, nil)
		person := testutil.CreateTestPerson(t, db)

		for _, m := range []string{"2024-02", "2023-12", "2024-05"} {
			_, err := ledger.AddIncome(ctx, person.ID, "Salary", "100", m)
			testutil.AssertNoError(t, err)
		}

		months, err := svc.ListMonths(ctx, person.ID)
		testutil.AssertNoError(t, err)
		want := []string{"2024-05", "2024-02", "2023-12"}
		if len(months) != len(want) {
			t.Fatalf("months = %v, want %v", months, want)
		}
		for i := range want {
			if months[i] != want[i] {
				t.Errorf("months[%d] = %s, want %s", i, months[i], want[i])
			}
		}
	})
}
