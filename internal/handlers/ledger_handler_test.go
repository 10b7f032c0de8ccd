package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "troskovi/internal/errors"
	"troskovi/internal/models"
)

func setupLedgerRouter(handler *LedgerHandler) *gin.Engine {
	r := gin.New()
	r.POST("/persons/:id/months/:month/incomes", handler.AddIncome)
	r.GET("/persons/:id/months/:month/incomes", handler.ListIncomes)
	r.POST("/persons/:id/months/:month/expenses", handler.AddExpense)
	r.GET("/persons/:id/months/:month/expenses", handler.ListExpenses)
	r.DELETE("/incomes/:id", handler.DeleteIncome)
	r.DELETE("/expenses/:id", handler.DeleteExpense)
	return r
}

func TestLedgerHandler_AddIncome(t *testing.T) {
	t.Run("accepts numeric and string amounts", func(t *testing.T) {
		for _, body := range []string{
			`{"name":"Salary","amount":1500.5}`,
			`{"name":"Salary","amount":"1500.5"}`,
		} {
			var gotAmount, gotMonth string
			var gotPerson uint
			svc := &mockLedgerService{
				addIncomeFn: func(_ context.Context, personID uint, name, raw, month string) (*models.Income, error) {
					gotPerson, gotAmount, gotMonth = personID, raw, month
					return &models.Income{Base: models.Base{ID: 1}, Name: name, Amount: decimal.RequireFromString(raw), Month: month}, nil
				},
			}
			r := setupLedgerRouter(NewLedgerHandler(svc))

			rec := doRequest(r, "POST", "/persons/4/months/2024-03/incomes", body)

			if rec.Code != http.StatusCreated {
				t.Fatalf("%s: expected 201, got %d: %s", body, rec.Code, rec.Body.String())
			}
			if gotPerson != 4 || gotAmount != "1500.5" || gotMonth != "2024-03" {
				t.Errorf("%s: got person=%d amount=%q month=%q", body, gotPerson, gotAmount, gotMonth)
			}
			income := parseJSON(t, rec)["income"].(map[string]interface{})
			if income["amount"] != 1500.5 {
				t.Errorf("amount should serialize as a JSON number, got %v", income["amount"])
			}
		}
	})

	t.Run("returns 400 on missing amount", func(t *testing.T) {
		r := setupLedgerRouter(NewLedgerHandler(&mockLedgerService{}))

		rec := doRequest(r, "POST", "/persons/4/months/2024-03/incomes", `{"name":"Salary"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("maps service errors", func(t *testing.T) {
		svc := &mockLedgerService{
			addIncomeFn: func(context.Context, uint, string, string, string) (*models.Income, error) {
				return nil, apperrors.ErrInvalidMonth
			},
		}
		r := setupLedgerRouter(NewLedgerHandler(svc))

		rec := doRequest(r, "POST", "/persons/4/months/2024-13/incomes", `{"name":"Salary","amount":1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_MONTH")
	})
}

func TestLedgerHandler_AddExpense(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var gotCategory uint
		var gotNote string
		svc := &mockLedgerService{
			addExpenseFn: func(_ context.Context, _, categoryID uint, name, raw, month, note string) (*models.Expense, error) {
				gotCategory, gotNote = categoryID, note
				return &models.Expense{Base: models.Base{ID: 2}, CategoryID: categoryID, Name: name}, nil
			},
		}
		r := setupLedgerRouter(NewLedgerHandler(svc))

		rec := doRequest(r, "POST", "/persons/4/months/2024-03/expenses",
			`{"category_id":5,"name":"Food","amount":"200","note":"market"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotCategory != 5 || gotNote != "market" {
			t.Errorf("got category=%d note=%q", gotCategory, gotNote)
		}
	})

	t.Run("returns 400 on missing category", func(t *testing.T) {
		r := setupLedgerRouter(NewLedgerHandler(&mockLedgerService{}))

		rec := doRequest(r, "POST", "/persons/4/months/2024-03/expenses", `{"name":"Food","amount":"200"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 on unknown category", func(t *testing.T) {
		svc := &mockLedgerService{
			addExpenseFn: func(context.Context, uint, uint, string, string, string, string) (*models.Expense, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupLedgerRouter(NewLedgerHandler(svc))

		rec := doRequest(r, "POST", "/persons/4/months/2024-03/expenses", `{"category_id":99,"name":"Food","amount":"200"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})
}

func TestLedgerHandler_List(t *testing.T) {
	svc := &mockLedgerService{
		listIncomesFn: func(context.Context, uint, string) ([]models.Income, error) {
			return []models.Income{{Name: "Salary"}, {Name: "Bonus"}}, nil
		},
	}
	r := setupLedgerRouter(NewLedgerHandler(svc))

	rec := doRequest(r, "GET", "/persons/1/months/2024-03/incomes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if incomes := parseJSON(t, rec)["incomes"].([]interface{}); len(incomes) != 2 {
		t.Errorf("expected 2 incomes, got %d", len(incomes))
	}

	rec = doRequest(r, "GET", "/persons/1/months/2024-03/expenses", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if expenses := parseJSON(t, rec)["expenses"].([]interface{}); len(expenses) != 0 {
		t.Errorf("expected empty list, got %v", expenses)
	}
}

func TestLedgerHandler_Delete(t *testing.T) {
	t.Run("income not found", func(t *testing.T) {
		svc := &mockLedgerService{
			deleteIncomeFn: func(context.Context, uint) error { return apperrors.ErrIncomeNotFound },
		}
		r := setupLedgerRouter(NewLedgerHandler(svc))

		rec := doRequest(r, "DELETE", "/incomes/5", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INCOME_NOT_FOUND")
	})

	t.Run("expense deleted", func(t *testing.T) {
		var deleted uint
		svc := &mockLedgerService{
			deleteExpenseFn: func(_ context.Context, id uint) error {
				deleted = id
				return nil
			},
		}
		r := setupLedgerRouter(NewLedgerHandler(svc))

		rec := doRequest(r, "DELETE", "/expenses/8", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if deleted != 8 {
			t.Errorf("deleted %d, want 8", deleted)
		}
	})
}
