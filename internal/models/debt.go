package models

// DebtType represents the kind of debt being tracked
type DebtType string

const (
	DebtTypeCreditCard   DebtType = "credit-card"
	DebtTypePersonalLoan DebtType = "personal-loan"
	DebtTypeStudentLoan  DebtType = "student-loan"
	DebtTypeMortgage     DebtType = "mortgage"
	DebtTypeOther        DebtType = "other"
)

// Debt represents an outstanding debt used as input to the payoff plan
// calculator. Balance and MonthlyPayment are cents; InterestRate is an
// annual percentage in [0, 100].
type Debt struct {
	Base
	UserID         uint     `gorm:"not null;index" json:"user_id"`
	Name           string   `gorm:"not null" json:"name"`
	Balance        int64    `gorm:"type:bigint;not null" json:"balance"`
	InterestRate   float64  `gorm:"not null" json:"interest_rate"`
	MonthlyPayment int64    `gorm:"type:bigint;not null" json:"monthly_payment"`
	Type           DebtType `gorm:"not null" json:"type"`
}
