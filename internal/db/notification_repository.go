package db

import (
	"context"
	"time"

	"github.com/terraincognita07/accounts/internal/models"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	database *gorm.DB
}

func NewNotificationRepository(database *gorm.DB) *NotificationRepository {
	return &NotificationRepository{database: database}
}

func (repo *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return repo.database.WithContext(ctx).Create(notification).Error
}

func (repo *NotificationRepository) ListRecent(ctx context.Context, accountID uint, limit int) ([]models.Notification, error) {
	notifications := make([]models.Notification, 0, limit)
	if err := repo.database.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead stamps read_at on a notification owned by accountID. It reports
// false when no such notification exists for that account.
func (repo *NotificationRepository) MarkRead(ctx context.Context, accountID uint, notificationID string, readAt time.Time) (bool, error) {
	result := repo.database.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND account_id = ?", notificationID, accountID).
		Update("read_at", readAt.UTC())
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
