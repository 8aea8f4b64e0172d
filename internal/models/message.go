package models

import (
	"time"
)

// Message is a single anonymous submission. Content is stored verbatim and
// immutable once created; the only mutation allowed is deletion by the owner.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for Message model
func (Message) TableName() string {
	return "messages"
}
