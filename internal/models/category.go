package models

// BudgetCategory represents a spending category with an optional monthly
// limit. Categories with a nil UserID are shared defaults visible to all
// users.
type BudgetCategory struct {
	Base
	UserID       *uint  `gorm:"index" json:"user_id,omitempty"`
	Name         string `gorm:"not null" json:"name"`
	Icon         string `json:"icon,omitempty"`
	Color        string `json:"color,omitempty"`
	MonthlyLimit *int64 `gorm:"type:bigint" json:"monthly_limit,omitempty"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}

// TableName overrides the default to match the migrations.
func (BudgetCategory) TableName() string {
	return "budget_categories"
}
