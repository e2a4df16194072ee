package db

import "gorm.io/gorm"

type Repositories struct {
	Accounts      *AccountRepository
	Events        *EventRepository
	Sessions      *SessionRepository
	Profiles      *ProfileRepository
	Notifications *NotificationRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Accounts:      NewAccountRepository(database),
		Events:        NewEventRepository(database),
		Sessions:      NewSessionRepository(database),
		Profiles:      NewProfileRepository(database),
		Notifications: NewNotificationRepository(database),
	}
}
