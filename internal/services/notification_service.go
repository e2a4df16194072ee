package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/accounts/internal/models"
	"gorm.io/datatypes"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListRecent(ctx context.Context, accountID uint, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, accountID uint, notificationID string, readAt time.Time) (bool, error)
}

type NotificationView struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"createdAt"`
	ReadAt    *time.Time     `json:"readAt"`
}

type NotificationService struct {
	accounts      AccountFinder
	notifications NotificationRepository
	now           func() time.Time
	newID         func() string
}

func NewNotificationService(accounts AccountFinder, notifications NotificationRepository) *NotificationService {
	return &NotificationService{
		accounts:      accounts,
		notifications: notifications,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

func (service *NotificationService) WithClock(now func() time.Time) *NotificationService {
	service.now = now
	return service
}

func (service *NotificationService) List(ctx context.Context, username string) ([]NotificationView, error) {
	account, err := service.findAccount(ctx, username)
	if err != nil {
		return nil, err
	}

	notifications, err := service.notifications.ListRecent(ctx, account.ID, models.NotificationPageSize)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	views := make([]NotificationView, 0, len(notifications))
	for _, notification := range notifications {
		views = append(views, BuildNotificationView(notification))
	}
	return views, nil
}

func (service *NotificationService) MarkRead(ctx context.Context, username string, notificationID string) error {
	account, err := service.findAccount(ctx, username)
	if err != nil {
		return err
	}

	notificationID = strings.TrimSpace(notificationID)
	if notificationID == "" {
		return ErrNotFound
	}

	updated, err := service.notifications.MarkRead(ctx, account.ID, notificationID, service.now().UTC())
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

func (service *NotificationService) Publish(ctx context.Context, username string, kind string, data map[string]any) (NotificationView, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return NotificationView{}, fmt.Errorf("%w: notification type is required", ErrInvalidInput)
	}

	account, err := service.findAccount(ctx, username)
	if err != nil {
		return NotificationView{}, err
	}

	notification := models.Notification{
		ID:        service.newID(),
		AccountID: account.ID,
		Type:      kind,
		CreatedAt: service.now().UTC(),
	}
	if data != nil {
		notification.Data = datatypes.JSONMap(data)
	}

	if err := service.notifications.Create(ctx, &notification); err != nil {
		return NotificationView{}, fmt.Errorf("create notification: %w", err)
	}
	return BuildNotificationView(notification), nil
}

func BuildNotificationView(notification models.Notification) NotificationView {
	data := map[string]any{}
	for key, value := range notification.Data {
		data[key] = value
	}

	return NotificationView{
		ID:        notification.ID,
		Type:      notification.Type,
		Data:      data,
		CreatedAt: notification.CreatedAt,
		ReadAt:    notification.ReadAt,
	}
}

func (service *NotificationService) findAccount(ctx context.Context, username string) (models.Account, error) {
	account, err := service.accounts.FindByUsername(ctx, username)
	if err != nil {
		return models.Account{}, profileOperationError("load account", err)
	}
	return account, nil
}
