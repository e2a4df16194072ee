package services

import (
	"context"
	"strings"
	"time"

	"github.com/terraincognita07/accounts/internal/models"
)

type ProfileView struct {
	Username        string         `json:"username"`
	Role            string         `json:"role"`
	Email           *string        `json:"email"`
	EmailVerifiedAt *time.Time     `json:"emailVerifiedAt"`
	PhoneE164       *string        `json:"phoneE164"`
	PhoneVerifiedAt *time.Time     `json:"phoneVerifiedAt"`
	FirstName       string         `json:"firstName"`
	LastName        string         `json:"lastName"`
	DisplayName     string         `json:"displayName"`
	AvatarURL       string         `json:"avatarUrl"`
	Bio             string         `json:"bio"`
	Timezone        string         `json:"timezone"`
	Locale          string         `json:"locale"`
	MarketingOptIn  bool           `json:"marketingOptIn"`
	NotifyPrefs     map[string]any `json:"notifyPrefs"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// ProfileUpdate carries a partial update; nil fields are left untouched.
// An empty Email or PhoneE164 removes that contact channel.
type ProfileUpdate struct {
	Email          *string        `json:"email"`
	PhoneE164      *string        `json:"phoneE164"`
	FirstName      *string        `json:"firstName"`
	LastName       *string        `json:"lastName"`
	DisplayName    *string        `json:"displayName"`
	AvatarURL      *string        `json:"avatarUrl"`
	Bio            *string        `json:"bio"`
	Timezone       *string        `json:"timezone"`
	Locale         *string        `json:"locale"`
	MarketingOptIn *bool          `json:"marketingOptIn"`
	NotifyPrefs    map[string]any `json:"notifyPrefs"`
}

type ProfileService struct {
	profiles ProfileRepository
}

func NewProfileService(profiles ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

func (service *ProfileService) GetProfile(ctx context.Context, username string) (ProfileView, error) {
	account, profile, err := service.profiles.GetOrCreate(ctx, username)
	if err != nil {
		return ProfileView{}, profileOperationError("load profile", err)
	}
	return BuildProfileView(account, profile), nil
}

func (service *ProfileService) UpdateProfile(ctx context.Context, username string, update ProfileUpdate) (ProfileView, error) {
	normalized, err := normalizeProfileUpdate(update)
	if err != nil {
		return ProfileView{}, err
	}

	account, profile, err := service.profiles.Mutate(ctx, username, func(_ models.Account, profile *models.Profile) (bool, error) {
		normalized.applyTo(profile)
		return true, nil
	})
	if err != nil {
		return ProfileView{}, profileOperationError("update profile", err)
	}
	return BuildProfileView(account, profile), nil
}

func BuildProfileView(account models.Account, profile models.Profile) ProfileView {
	notifyPrefs := map[string]any{}
	for key, value := range profile.NotifyPrefs {
		notifyPrefs[key] = value
	}

	return ProfileView{
		Username:        account.Username,
		Role:            account.Role,
		Email:           profile.Email.Address,
		EmailVerifiedAt: profile.Email.VerifiedAt,
		PhoneE164:       profile.Phone.Address,
		PhoneVerifiedAt: profile.Phone.VerifiedAt,
		FirstName:       profile.FirstName,
		LastName:        profile.LastName,
		DisplayName:     profile.DisplayName,
		AvatarURL:       profile.AvatarURL,
		Bio:             profile.Bio,
		Timezone:        profile.Timezone,
		Locale:          profile.Locale,
		MarketingOptIn:  profile.MarketingOptIn,
		NotifyPrefs:     notifyPrefs,
		UpdatedAt:       profile.UpdatedAt,
	}
}

func normalizeProfileUpdate(update ProfileUpdate) (ProfileUpdate, error) {
	normalized := ProfileUpdate{
		MarketingOptIn: update.MarketingOptIn,
		NotifyPrefs:    update.NotifyPrefs,
	}

	var err error
	if normalized.Email, err = normalizeOptionalContact(models.ChannelEmail, update.Email); err != nil {
		return ProfileUpdate{}, err
	}
	if normalized.PhoneE164, err = normalizeOptionalContact(models.ChannelPhone, update.PhoneE164); err != nil {
		return ProfileUpdate{}, err
	}

	texts := []struct {
		field  string
		source *string
		target **string
		limit  int
	}{
		{field: "firstName", source: update.FirstName, target: &normalized.FirstName, limit: MaxProfileTextLength},
		{field: "lastName", source: update.LastName, target: &normalized.LastName, limit: MaxProfileTextLength},
		{field: "displayName", source: update.DisplayName, target: &normalized.DisplayName, limit: MaxDisplayNameLength},
		{field: "bio", source: update.Bio, target: &normalized.Bio, limit: MaxBioLength},
		{field: "locale", source: update.Locale, target: &normalized.Locale, limit: MaxProfileTextLength},
	}
	for _, text := range texts {
		if text.source == nil {
			continue
		}
		value, err := normalizeProfileText(text.field, *text.source, text.limit)
		if err != nil {
			return ProfileUpdate{}, err
		}
		*text.target = &value
	}

	if update.Timezone != nil {
		value, err := normalizeTimezone(*update.Timezone)
		if err != nil {
			return ProfileUpdate{}, err
		}
		normalized.Timezone = &value
	}
	if update.AvatarURL != nil {
		value, err := normalizeAvatarURL(*update.AvatarURL)
		if err != nil {
			return ProfileUpdate{}, err
		}
		normalized.AvatarURL = &value
	}

	return normalized, nil
}

func normalizeOptionalContact(channel string, raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	if strings.TrimSpace(*raw) == "" {
		empty := ""
		return &empty, nil
	}
	value, err := NormalizeContact(channel, *raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (update ProfileUpdate) applyTo(profile *models.Profile) {
	if update.Email != nil {
		replaceContact(&profile.Email, *update.Email)
	}
	if update.PhoneE164 != nil {
		replaceContact(&profile.Phone, *update.PhoneE164)
	}

	assignText(&profile.FirstName, update.FirstName)
	assignText(&profile.LastName, update.LastName)
	assignText(&profile.DisplayName, update.DisplayName)
	assignText(&profile.AvatarURL, update.AvatarURL)
	assignText(&profile.Bio, update.Bio)
	assignText(&profile.Timezone, update.Timezone)
	assignText(&profile.Locale, update.Locale)

	if update.MarketingOptIn != nil {
		profile.MarketingOptIn = *update.MarketingOptIn
	}
	if update.NotifyPrefs != nil {
		profile.NotifyPrefs = update.NotifyPrefs
	}
}

func replaceContact(channel *models.ContactChannel, value string) {
	if channel.AddressValue() == value {
		return
	}

	channel.Reset()
	if value == "" {
		channel.Address = nil
		return
	}
	channel.Address = &value
}

func assignText(target *string, value *string) {
	if value != nil {
		*target = *value
	}
}
