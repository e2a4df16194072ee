package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

type ContactChannel struct {
	Address         *string
	VerifiedAt      *time.Time
	CodeHash        string `gorm:"not null;default:''"`
	CodeExpiresAt   *time.Time
	CodeRequestedAt *time.Time
	CodeAttempts    int `gorm:"not null;default:0"`
}

func (channel ContactChannel) HasPendingCode() bool {
	return channel.CodeHash != "" && channel.CodeExpiresAt != nil
}

// ClearPendingCode keeps CodeRequestedAt.
func (channel *ContactChannel) ClearPendingCode() {
	channel.CodeHash = ""
	channel.CodeExpiresAt = nil
	channel.CodeAttempts = 0
}

func (channel *ContactChannel) Reset() {
	channel.ClearPendingCode()
	channel.VerifiedAt = nil
	channel.CodeRequestedAt = nil
}

func (channel ContactChannel) AddressValue() string {
	if channel.Address == nil {
		return ""
	}
	return *channel.Address
}

type Profile struct {
	ID        uint `gorm:"primaryKey"`
	AccountID uint `gorm:"not null;uniqueIndex"`

	Email ContactChannel `gorm:"embedded;embeddedPrefix:email_"`
	Phone ContactChannel `gorm:"embedded;embeddedPrefix:phone_"`

	FirstName   string `gorm:"not null;default:''"`
	LastName    string `gorm:"not null;default:''"`
	DisplayName string `gorm:"not null;default:''"`
	AvatarURL   string `gorm:"column:avatar_url;not null;default:''"`
	Bio         string `gorm:"not null;default:''"`
	Timezone    string `gorm:"not null;default:''"`
	Locale      string `gorm:"not null;default:''"`

	MarketingOptIn bool `gorm:"not null;default:false"`
	NotifyPrefs    datatypes.JSONMap

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (profile *Profile) Channel(name string) *ContactChannel {
	switch name {
	case ChannelEmail:
		return &profile.Email
	case ChannelPhone:
		return &profile.Phone
	default:
		return nil
	}
}
