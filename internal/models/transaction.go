package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction represents a financial transaction in the system.
// Amount is always positive cents; the sign applied to the owning account's
// balance is derived from the type (see SignedAmount).
//
// Transfers are stored as two linked legs: the outgoing leg carries
// ToAccountID, the incoming leg carries FromAccountID.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	AccountID   uint            `gorm:"not null;index" json:"account_id"`
	CategoryID  *uint           `json:"category_id,omitempty"`
	GoalID      *uint           `json:"goal_id,omitempty"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	// Transfer leg linkage
	ToAccountID   *uint `json:"to_account_id,omitempty"`
	FromAccountID *uint `json:"from_account_id,omitempty"`

	// Recurring rule back-reference
	IsRecurring     bool  `gorm:"default:false" json:"is_recurring"`
	RecurringRuleID *uint `json:"recurring_rule_id,omitempty"`

	// Relationships
	Account  Account         `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category *BudgetCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Goal     *Goal           `gorm:"foreignKey:GoalID" json:"goal,omitempty"`
}

// SignedAmount returns the effect of this transaction on its owning account's
// balance: income is positive, expense negative, and a transfer leg is
// negative on the source account and positive on the destination.
func (t *Transaction) SignedAmount() int64 {
	switch t.Type {
	case TransactionTypeIncome:
		return t.Amount
	case TransactionTypeExpense:
		return -t.Amount
	case TransactionTypeTransfer:
		if t.ToAccountID != nil {
			return -t.Amount
		}
		return t.Amount
	}
	return 0
}
