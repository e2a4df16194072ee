package models

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

const (
	EventKindSignup       = "signup"
	EventKindAdminCreated = "admin_created"
)

type Account struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null;default:member"`
	CreatedAt    time.Time `gorm:"not null"`
}

type AccountEvent struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"not null;index"`
	Role      string    `gorm:"not null"`
	Kind      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func IsKnownRole(role string) bool {
	return role == RoleMember || role == RoleAdmin
}
