package db

import (
	"context"
	"errors"

	"github.com/terraincognita07/accounts/internal/models"
	"gorm.io/gorm"
)

type AccountRepository struct {
	database *gorm.DB
}

func NewAccountRepository(database *gorm.DB) *AccountRepository {
	return &AccountRepository{database: database}
}

func (repo *AccountRepository) FindByUsername(ctx context.Context, username string) (models.Account, error) {
	var account models.Account
	if err := repo.database.WithContext(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (repo *AccountRepository) CreateWithEvent(ctx context.Context, account *models.Account, event *models.AccountEvent) (bool, error) {
	created := false
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Account{}).Where("username = ?", account.Username).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		if err := tx.Create(account).Error; err != nil {
			return err
		}
		if event != nil {
			if err := tx.Create(event).Error; err != nil {
				return err
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (repo *AccountRepository) UpdatePasswordHash(ctx context.Context, username string, passwordHash string) error {
	result := repo.database.WithContext(ctx).
		Model(&models.Account{}).
		Where("username = ?", username).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
