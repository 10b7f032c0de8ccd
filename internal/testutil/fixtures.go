package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"troskovi/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestPerson creates a person with a unique last name.
func CreateTestPerson(t *testing.T, db *gorm.DB) *models.Person {
	t.Helper()

	person := &models.Person{
		FirstName: "Marko",
		LastName:  fmt.Sprintf("Markovic%d", nextID()),
		BirthDate: time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(person).Error; err != nil {
		t.Fatalf("failed to create test person: %v", err)
	}
	return person
}

// CreateTestCategory creates an expense category. An empty name gets a unique one.
func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *models.ExpenseCategory {
	t.Helper()

	if name == "" {
		name = fmt.Sprintf("Test Category %d", nextID())
	}
	category := &models.ExpenseCategory{Name: name, Color: models.DefaultCategoryColor}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestIncome inserts an income row directly, bypassing report recomputation.
func CreateTestIncome(t *testing.T, db *gorm.DB, personID uint, month, name, amount string) *models.Income {
	t.Helper()

	income := &models.Income{
		PersonID: personID,
		Name:     name,
		Amount:   decimal.RequireFromString(amount),
		Month:    month,
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestExpense inserts an expense row directly, bypassing report recomputation.
func CreateTestExpense(t *testing.T, db *gorm.DB, personID, categoryID uint, month, name, amount string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		PersonID:   personID,
		CategoryID: categoryID,
		Name:       name,
		Amount:     decimal.RequireFromString(amount),
		Month:      month,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
