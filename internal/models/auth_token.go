package models

import "time"

// AuthToken is the bearer credential for a user. There is exactly one row
// per user; registration or first login creates it, later logins reuse it.
type AuthToken struct {
	Token     string    `gorm:"primaryKey;size:512" json:"token"`
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}
