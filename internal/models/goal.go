package models

import "time"

// Goal represents a savings goal. CurrentAmount is increased monotonically by
// contributions; IsAchieved flips true exactly once, when CurrentAmount first
// reaches TargetAmount.
type Goal struct {
	Base
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	Name          string     `gorm:"not null" json:"name"`
	Description   string     `json:"description,omitempty"`
	TargetAmount  int64      `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount int64      `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
	Priority      int        `gorm:"default:2" json:"priority"`
	IsAchieved    bool       `gorm:"default:false" json:"is_achieved"`
}

// ProgressPercentage returns contribution progress as a percentage of the
// target, 0 when the target is zero.
func (g *Goal) ProgressPercentage() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return float64(g.CurrentAmount) / float64(g.TargetAmount) * 100
}
