package services

import (
	"context"
	mathrand "math/rand"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/terraincognita07/accounts/internal/models"
	"gorm.io/gorm"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(step time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(step)
}

// prefixHasher stands in for bcrypt so tests stay fast.
type prefixHasher struct{}

func (prefixHasher) Hash(secret string) (string, error) {
	return "hashed:" + secret, nil
}

func (prefixHasher) Matches(hash string, secret string) bool {
	return hash != "" && hash == "hashed:"+secret
}

type sequenceCodes struct {
	codes []string
	next  int
}

func (source *sequenceCodes) Generate() (string, error) {
	code := source.codes[source.next%len(source.codes)]
	source.next++
	return code, nil
}

type stubAccountRepo struct {
	accounts       map[string]models.Account
	events         []models.AccountEvent
	nextID         uint
	lastEventLimit int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]models.Account)}
}

func (repo *stubAccountRepo) add(username string, role string) models.Account {
	repo.nextID++
	account := models.Account{ID: repo.nextID, Username: username, PasswordHash: "hashed:pw", Role: role}
	repo.accounts[username] = account
	return account
}

func (repo *stubAccountRepo) FindByUsername(_ context.Context, username string) (models.Account, error) {
	account, ok := repo.accounts[username]
	if !ok {
		return models.Account{}, gorm.ErrRecordNotFound
	}
	return account, nil
}

func (repo *stubAccountRepo) CreateWithEvent(_ context.Context, account *models.Account, event *models.AccountEvent) (bool, error) {
	if _, exists := repo.accounts[account.Username]; exists {
		return false, nil
	}
	repo.nextID++
	account.ID = repo.nextID
	repo.accounts[account.Username] = *account
	if event != nil {
		event.ID = uint(len(repo.events) + 1)
		repo.events = append(repo.events, *event)
	}
	return true, nil
}

func (repo *stubAccountRepo) UpdatePasswordHash(_ context.Context, username string, passwordHash string) error {
	account, ok := repo.accounts[username]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	account.PasswordHash = passwordHash
	repo.accounts[username] = account
	return nil
}

func (repo *stubAccountRepo) ListRecent(_ context.Context, limit int) ([]models.AccountEvent, error) {
	repo.lastEventLimit = limit
	events := make([]models.AccountEvent, 0, len(repo.events))
	for index := len(repo.events) - 1; index >= 0 && len(events) < limit; index-- {
		events = append(events, repo.events[index])
	}
	return events, nil
}

type stubSessionRepo struct {
	sessions map[string]models.Session
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]models.Session)}
}

func (repo *stubSessionRepo) CreateUnique(_ context.Context, session *models.Session) (bool, error) {
	if _, exists := repo.sessions[session.ID]; exists {
		return false, nil
	}
	repo.sessions[session.ID] = *session
	return true, nil
}

func (repo *stubSessionRepo) FindByID(_ context.Context, sessionID string) (models.Session, error) {
	session, ok := repo.sessions[sessionID]
	if !ok {
		return models.Session{}, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (repo *stubSessionRepo) DeleteByID(_ context.Context, sessionID string) error {
	delete(repo.sessions, sessionID)
	return nil
}

func (repo *stubSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var purged int64
	for id, session := range repo.sessions {
		if !session.ExpiresAt.After(now) {
			delete(repo.sessions, id)
			purged++
		}
	}
	return purged, nil
}

type stubProfileRepo struct {
	accounts *stubAccountRepo
	profiles map[uint]models.Profile
	creates  int
	saves    int
}

func newStubProfileRepo(accounts *stubAccountRepo) *stubProfileRepo {
	return &stubProfileRepo{accounts: accounts, profiles: make(map[uint]models.Profile)}
}

func (repo *stubProfileRepo) load(username string) (models.Account, models.Profile, error) {
	account, err := repo.accounts.FindByUsername(context.Background(), username)
	if err != nil {
		return models.Account{}, models.Profile{}, err
	}
	profile, ok := repo.profiles[account.ID]
	if !ok {
		repo.creates++
		profile = models.Profile{ID: uint(len(repo.profiles) + 1), AccountID: account.ID}
		repo.profiles[account.ID] = profile
	}
	return account, profile, nil
}

func (repo *stubProfileRepo) GetOrCreate(_ context.Context, username string) (models.Account, models.Profile, error) {
	return repo.load(username)
}

func (repo *stubProfileRepo) Mutate(
	_ context.Context,
	username string,
	mutate func(account models.Account, profile *models.Profile) (bool, error),
) (models.Account, models.Profile, error) {
	account, profile, err := repo.load(username)
	if err != nil {
		return models.Account{}, models.Profile{}, err
	}

	working := cloneProfile(profile)
	changed, err := mutate(account, &working)
	if err != nil {
		return models.Account{}, models.Profile{}, err
	}
	if !changed {
		return account, profile, nil
	}
	repo.saves++
	repo.profiles[account.ID] = working
	return account, working, nil
}

func (repo *stubProfileRepo) stored(t *testing.T, username string) models.Profile {
	t.Helper()
	account, ok := repo.accounts.accounts[username]
	if !ok {
		t.Fatalf("unknown account %s", username)
	}
	return cloneProfile(repo.profiles[account.ID])
}

// cloneProfile copies the pointer fields so a discarded mutation cannot leak
// into stored state.
func cloneProfile(profile models.Profile) models.Profile {
	clone := profile
	clone.Email = cloneChannel(profile.Email)
	clone.Phone = cloneChannel(profile.Phone)
	return clone
}

func cloneChannel(channel models.ContactChannel) models.ContactChannel {
	clone := channel
	clone.Address = cloneString(channel.Address)
	clone.VerifiedAt = cloneTime(channel.VerifiedAt)
	clone.CodeExpiresAt = cloneTime(channel.CodeExpiresAt)
	clone.CodeRequestedAt = cloneTime(channel.CodeRequestedAt)
	return clone
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

type stubNotificationRepo struct {
	notifications []models.Notification
}

func (repo *stubNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	repo.notifications = append(repo.notifications, *notification)
	return nil
}

func (repo *stubNotificationRepo) ListRecent(_ context.Context, accountID uint, limit int) ([]models.Notification, error) {
	owned := make([]models.Notification, 0)
	for _, notification := range repo.notifications {
		if notification.AccountID == accountID {
			owned = append(owned, notification)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return strings.Compare(owned[i].ID, owned[j].ID) > 0
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	if len(owned) > limit {
		owned = owned[:limit]
	}
	return owned, nil
}

func (repo *stubNotificationRepo) MarkRead(_ context.Context, accountID uint, notificationID string, readAt time.Time) (bool, error) {
	for index := range repo.notifications {
		if repo.notifications[index].ID == notificationID && repo.notifications[index].AccountID == accountID {
			stamp := readAt
			repo.notifications[index].ReadAt = &stamp
			return true, nil
		}
	}
	return false, nil
}

func mathrandSource(seed byte) *mathrand.Rand {
	return mathrand.New(mathrand.NewSource(int64(seed)))
}
