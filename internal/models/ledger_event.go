package models

// Ledger event actions.
const (
	ActionIncomeCreated   = "INCOME_CREATED"
	ActionIncomeDeleted   = "INCOME_DELETED"
	ActionExpenseCreated  = "EXPENSE_CREATED"
	ActionExpenseDeleted  = "EXPENSE_DELETED"
	ActionCategoryDeleted = "CATEGORY_DELETED"
)

// LedgerEvent is an append-only record of a committed ledger mutation.
type LedgerEvent struct {
	Base
	PersonID     uint   `gorm:"not null;index" json:"person_id"`
	Month        string `gorm:"size:7;not null" json:"month"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   uint   `json:"resource_id"`
	Changes      string `json:"changes,omitempty"`
}
