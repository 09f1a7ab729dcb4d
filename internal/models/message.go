package models

import "time"

// Message is a single chat-board entry. Rows are append-only: nothing
// updates a message after insert, and deletion only happens through the
// best-effort cleanup worker.
type Message struct {
	ID          int64     `gorm:"primarykey" json:"id"`
	UserName    string    `gorm:"size:100;not null" json:"user_name"`
	Message     string    `gorm:"size:500;not null" json:"message"`
	IsAnonymous bool      `gorm:"not null;default:false" json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
}
