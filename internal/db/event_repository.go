package db

import (
	"context"

	"github.com/terraincognita07/accounts/internal/models"
	"gorm.io/gorm"
)

type EventRepository struct {
	database *gorm.DB
}

func NewEventRepository(database *gorm.DB) *EventRepository {
	return &EventRepository{database: database}
}

func (repo *EventRepository) Create(ctx context.Context, event *models.AccountEvent) error {
	return repo.database.WithContext(ctx).Create(event).Error
}

func (repo *EventRepository) ListRecent(ctx context.Context, limit int) ([]models.AccountEvent, error) {
	events := make([]models.AccountEvent, 0)
	if err := repo.database.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
