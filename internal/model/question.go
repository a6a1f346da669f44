package model

import "time"

// Question belongs to exactly one session. Answer is "" until one is written.
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;index" json:"session"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text" json:"answer"`
	Note      string    `gorm:"type:text" json:"note"`
	IsPinned  bool      `gorm:"not null" json:"isPinned"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
