package models

import "time"

type Session struct {
	ID        string    `gorm:"primaryKey"`
	Username  string    `gorm:"not null;index"`
	Role      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`

	// Token is the signed client-facing value; it is never persisted.
	Token string `gorm:"-"`
}
