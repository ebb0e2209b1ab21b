package models

import "time"

// TaxDeduction represents a deductible expense tracked for tax filing.
type TaxDeduction struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Description string    `gorm:"not null" json:"description"`
	Amount      int64     `gorm:"type:bigint;not null" json:"amount"`
	Category    string    `gorm:"not null" json:"category"`
	Date        time.Time `gorm:"not null" json:"date"`
	Receipt     string    `json:"receipt,omitempty"`
}
