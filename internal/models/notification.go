package models

import (
	"time"

	"gorm.io/datatypes"
)

const NotificationPageSize = 50

type Notification struct {
	ID        string    `gorm:"primaryKey"`
	AccountID uint      `gorm:"not null;index"`
	Type      string    `gorm:"not null"`
	Data      datatypes.JSONMap
	CreatedAt time.Time `gorm:"not null;index"`
	ReadAt    *time.Time
}
