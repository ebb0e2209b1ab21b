package models

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeCash       AccountType = "cash"
	AccountTypeInvestment AccountType = "investment"
)

// Account represents a financial account in the system.
// Balance is stored in cents and must always equal the initial balance plus
// the signed sum of all non-deleted transactions referencing the account.
type Account struct {
	Base
	UserID   uint        `gorm:"not null;index" json:"user_id"`
	Name     string      `gorm:"not null" json:"name"`
	Type     AccountType `gorm:"not null;default:'checking'" json:"type"`
	BankName string      `json:"bank_name,omitempty"`
	Balance  int64       `gorm:"type:bigint;not null;default:0" json:"balance"`
	Currency string      `gorm:"not null;default:'USD'" json:"currency"`
	IsActive bool        `gorm:"default:true" json:"is_active"`

	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
