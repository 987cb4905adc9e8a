package entities

import "time"

// AIReport is a locally kept copy of AI suggestions generated for a user and period.
type AIReport struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Period      string    `gorm:"size:32;not null" json:"period"`
	Suggestions string    `gorm:"type:text" json:"suggestions"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
