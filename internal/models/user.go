package models

import (
	"time"
)

// User represents a registered account that can receive anonymous messages.
//
// An account starts unverified: VerifyCode/VerifyCodeExpiry hold the pending
// one-time code and IsVerified stays false until the code is confirmed.
// Username is deliberately not a unique column: uniqueness is enforced in the
// registration flow among verified users only, so an unverified placeholder
// never blocks someone else from claiming the name. Email stays unique because
// re-registration overwrites the existing unverified row in place.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Username         string    `gorm:"index;size:32;not null" json:"username"`
	Email            string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash     string    `gorm:"size:255;not null" json:"-"`
	VerifyCode       string    `gorm:"size:6;not null" json:"-"`
	VerifyCodeExpiry time.Time `gorm:"not null" json:"-"`
	IsVerified       bool      `gorm:"default:false" json:"is_verified"`
	AcceptsMessages  bool      `gorm:"default:true" json:"accepts_messages"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relations
	Messages []Message `gorm:"foreignKey:UserID" json:"messages,omitempty"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// ProfileResponse is the response structure for the authenticated profile
type ProfileResponse struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	IsVerified      bool   `json:"is_verified"`
	AcceptsMessages bool   `json:"accepts_messages"`
	ProfileURL      string `json:"profile_url"`
}
