package services

import (
	"context"

	"github.com/terraincognita07/accounts/internal/models"
)

type AccountFinder interface {
	FindByUsername(ctx context.Context, username string) (models.Account, error)
}

type SecretHasher interface {
	Hash(secret string) (string, error)
	Matches(hash string, secret string) bool
}

type CodeSource interface {
	Generate() (string, error)
}

type ProfileRepository interface {
	GetOrCreate(ctx context.Context, username string) (models.Account, models.Profile, error)
	Mutate(
		ctx context.Context,
		username string,
		mutate func(account models.Account, profile *models.Profile) (bool, error),
	) (models.Account, models.Profile, error)
}
