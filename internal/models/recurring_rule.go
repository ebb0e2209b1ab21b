package models

import "time"

// Frequency represents how often a recurring rule materializes a transaction
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// RecurringRule represents a template that is materialized into ledger
// transactions on a schedule. Rules with AutoCreate execute in the daily
// batch; any active rule can also be executed manually.
type RecurringRule struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	AccountID   uint            `gorm:"not null" json:"account_id"`
	CategoryID  *uint           `json:"category_id,omitempty"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `gorm:"not null" json:"description"`
	Frequency   Frequency       `gorm:"not null" json:"frequency"`
	StartDate   time.Time       `gorm:"not null" json:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	NextDueDate time.Time       `gorm:"not null;index" json:"next_due_date"`
	AutoCreate  bool            `gorm:"default:false" json:"auto_create"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`

	Account  Account         `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category *BudgetCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
