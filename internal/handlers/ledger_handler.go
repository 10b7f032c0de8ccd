package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "troskovi/internal/errors"
	"troskovi/internal/money"
	"troskovi/internal/services"
)

// LedgerHandler handles income and expense rows.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.LedgerServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// AddIncomeRequest represents the request payload for adding an income.
// Amount may be a JSON number or a numeric string.
type AddIncomeRequest struct {
	Name   string      `json:"name" binding:"required,max=100"`
	Amount money.Input `json:"amount" binding:"required" swaggertype:"string" example:"1500.00"`
}

// AddExpenseRequest represents the request payload for adding an expense
type AddExpenseRequest struct {
	CategoryID uint        `json:"category_id" binding:"required"`
	Name       string      `json:"name" binding:"required,max=100"`
	Amount     money.Input `json:"amount" binding:"required" swaggertype:"string" example:"42.50"`
	Note       string      `json:"note" binding:"max=1000"`
}

// AddIncome handles adding an income to a person's month
// @Summary     Add income
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Param       id      path int    true "Person ID"
// @Param       month   path string true "Month (YYYY-MM)"
// @Param       request body AddIncomeRequest true "Income details"
// @Success     201 {object} models.Income "Income created"
// @Failure     400 {object} ErrorResponse "Invalid input, amount or month"
// @Failure     404 {object} ErrorResponse "Person not found"
// @Router      /persons/{id}/months/{month}/incomes [post]
func (h *LedgerHandler) AddIncome(c *gin.Context) {
	personID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	income, err := h.ledgerService.AddIncome(c.Request.Context(), personID, req.Name, req.Amount.String(), c.Param("month"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"income": income})
}

// ListIncomes handles listing a month's incomes
// @Summary     List incomes
// @Tags        ledger
// @Produce     json
// @Param       id    path int    true "Person ID"
// @Param       month path string true "Month (YYYY-MM)"
// @Success     200 {array} models.Income "Incomes in insertion order"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     404 {object} ErrorResponse "Person not found"
// @Router      /persons/{id}/months/{month}/incomes [get]
func (h *LedgerHandler) ListIncomes(c *gin.Context) {
	personID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomes, err := h.ledgerService.ListIncomes(c.Request.Context(), personID, c.Param("month"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"incomes": incomes})
}

// AddExpense handles adding an expense to a person's month
// @Summary     Add expense
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Param       id      path int    true "Person ID"
// @Param       month   path string true "Month (YYYY-MM)"
// @Param       request body AddExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input, amount or month"
// @Failure     404 {object} ErrorResponse "Person or category not found"
// @Router      /persons/{id}/months/{month}/expenses [post]
func (h *LedgerHandler) AddExpense(c *gin.Context) {
	personID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.ledgerService.AddExpense(c.Request.Context(), personID, req.CategoryID, req.Name, req.Amount.String(), c.Param("month"), req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// ListExpenses handles listing a month's expenses
// @Summary     List expenses
// @Tags        ledger
// @Produce     json
// @Param       id    path int    true "Person ID"
// @Param       month path string true "Month (YYYY-MM)"
// @Success     200 {array} models.Expense "Expenses in insertion order"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     404 {object} ErrorResponse "Person not found"
// @Router      /persons/{id}/months/{month}/expenses [get]
func (h *LedgerHandler) ListExpenses(c *gin.Context) {
	personID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.ledgerService.ListExpenses(c.Request.Context(), personID, c.Param("month"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// DeleteIncome handles deleting an income
// @Summary     Delete income
// @Tags        ledger
// @Produce     json
// @Param       id path int true "Income ID"
// @Success     200 {object} MessageResponse "Income deleted"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Router      /incomes/{id} [delete]
func (h *LedgerHandler) DeleteIncome(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteIncome(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Income deleted successfully"})
}

// DeleteExpense handles deleting an expense
// @Summary     Delete expense
// @Tags        ledger
// @Produce     json
// @Param       id path int true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *LedgerHandler) DeleteExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteExpense(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
