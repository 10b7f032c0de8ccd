package testutil_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"troskovi/internal/errors"
	"troskovi/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"persons", "expense_categories", "incomes", "expenses", "monthly_reports", "ledger_events"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	a := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, a)
	b := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, b)

	testutil.CreateTestPerson(t, a)

	var count int64
	b.Table("persons").Count(&count)
	if count != 0 {
		t.Errorf("expected isolated database, found %d persons", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	person := testutil.CreateTestPerson(t, db)
	if person.ID == 0 {
		t.Fatal("person should have a non-zero ID")
	}

	category := testutil.CreateTestCategory(t, db, "Food")
	if category.Name != "Food" {
		t.Errorf("expected Food, got %s", category.Name)
	}

	income := testutil.CreateTestIncome(t, db, person.ID, "2024-01", "Salary", "1000")
	testutil.AssertDecimal(t, income.Amount, "1000.00")

	expense := testutil.CreateTestExpense(t, db, person.ID, category.ID, "2024-01", "Groceries", "250.5")
	if !expense.Amount.Equal(decimal.RequireFromString("250.50")) {
		t.Errorf("expected 250.50, got %s", expense.Amount)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrPersonNotFound, "custom message")
	testutil.AssertAppError(t, err, "PERSON_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
