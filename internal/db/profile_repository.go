package db

import (
	"context"

	"github.com/terraincognita07/accounts/internal/models"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	database *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{database: database}
}

func (repo *ProfileRepository) GetOrCreate(ctx context.Context, username string) (models.Account, models.Profile, error) {
	var account models.Account
	var profile models.Profile
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		account, profile, err = loadAccountProfile(tx, username)
		return err
	})
	if err != nil {
		return models.Account{}, models.Profile{}, err
	}
	return account, profile, nil
}

// Mutate runs mutate against the caller's profile inside one transaction.
// The profile is written back only when mutate reports a change; an error
// from mutate rolls everything back.
func (repo *ProfileRepository) Mutate(
	ctx context.Context,
	username string,
	mutate func(account models.Account, profile *models.Profile) (bool, error),
) (models.Account, models.Profile, error) {
	var account models.Account
	var profile models.Profile
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		account, profile, err = loadAccountProfile(tx, username)
		if err != nil {
			return err
		}

		changed, err := mutate(account, &profile)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return tx.Save(&profile).Error
	})
	if err != nil {
		return models.Account{}, models.Profile{}, err
	}
	return account, profile, nil
}

func loadAccountProfile(tx *gorm.DB, username string) (models.Account, models.Profile, error) {
	var account models.Account
	if err := tx.Where("username = ?", username).First(&account).Error; err != nil {
		return models.Account{}, models.Profile{}, err
	}

	var profile models.Profile
	err := tx.Where("account_id = ?", account.ID).First(&profile).Error
	if err == nil {
		return account, profile, nil
	}
	if !isRecordNotFound(err) {
		return models.Account{}, models.Profile{}, err
	}

	profile = models.Profile{AccountID: account.ID}
	if err := tx.Create(&profile).Error; err != nil {
		return models.Account{}, models.Profile{}, err
	}
	return account, profile, nil
}
