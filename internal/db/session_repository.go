package db

import (
	"context"
	"time"

	"github.com/terraincognita07/accounts/internal/models"
	"gorm.io/gorm"
)

type SessionRepository struct {
	database *gorm.DB
}

func NewSessionRepository(database *gorm.DB) *SessionRepository {
	return &SessionRepository{database: database}
}

// CreateUnique inserts the session unless a row with the same id exists.
// An existing row is never overwritten; the caller gets false instead.
func (repo *SessionRepository) CreateUnique(ctx context.Context, session *models.Session) (bool, error) {
	created := false
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Session{}).Where("id = ?", session.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (repo *SessionRepository) FindByID(ctx context.Context, sessionID string) (models.Session, error) {
	var session models.Session
	if err := repo.database.WithContext(ctx).Where("id = ?", sessionID).First(&session).Error; err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (repo *SessionRepository) DeleteByID(ctx context.Context, sessionID string) error {
	return repo.database.WithContext(ctx).Where("id = ?", sessionID).Delete(&models.Session{}).Error
}

func (repo *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := repo.database.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
