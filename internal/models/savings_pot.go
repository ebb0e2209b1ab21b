package models

// SavingsPot represents a named pot of savings with an optional target.
type SavingsPot struct {
	Base
	UserID       uint    `gorm:"not null;index" json:"user_id"`
	Name         string  `gorm:"not null" json:"name"`
	Balance      int64   `gorm:"type:bigint;not null;default:0" json:"balance"`
	TargetAmount *int64  `gorm:"type:bigint" json:"target_amount,omitempty"`
	InterestRate float64 `gorm:"default:0" json:"interest_rate"`
	Color        string  `gorm:"default:'#10B981'" json:"color"`
	Icon         string  `gorm:"default:'piggy-bank'" json:"icon"`
}
