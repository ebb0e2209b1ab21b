package models

// Notification represents a best-effort user notification persisted by
// fire-and-forget side effects (goal achievement, recurring execution).
type Notification struct {
	Base
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Title   string `gorm:"not null" json:"title"`
	Message string `json:"message"`
	Type    string `gorm:"not null" json:"type"`
	IsRead  bool   `gorm:"default:false" json:"is_read"`
}
