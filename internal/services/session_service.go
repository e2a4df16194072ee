package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/accounts/internal/models"
	"github.com/terraincognita07/accounts/internal/security"
	"gorm.io/gorm"
)

const sessionIDBytes = 32

type SessionRepository interface {
	CreateUnique(ctx context.Context, session *models.Session) (bool, error)
	FindByID(ctx context.Context, sessionID string) (models.Session, error)
	DeleteByID(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type SessionService struct {
	sessions SessionRepository
	secret   []byte
	ttl      time.Duration
	idSource io.Reader
	now      func() time.Time

	mu      sync.Mutex
	signups map[string]int
}

func NewSessionService(sessions SessionRepository, secretKey string, ttl time.Duration) *SessionService {
	return &SessionService{
		sessions: sessions,
		secret:   []byte(secretKey),
		ttl:      ttl,
		idSource: rand.Reader,
		now:      time.Now,
		signups:  make(map[string]int),
	}
}

func (service *SessionService) WithClock(now func() time.Time) *SessionService {
	service.now = now
	return service
}

func (service *SessionService) WithIDSource(source io.Reader) *SessionService {
	service.idSource = source
	return service
}

func (service *SessionService) TTL() time.Duration {
	return service.ttl
}

func (service *SessionService) Create(ctx context.Context, username string, role string) (models.Session, error) {
	sessionID, err := security.RandomHex(service.idSource, sessionIDBytes)
	if err != nil {
		return models.Session{}, fmt.Errorf("generate session id: %w", err)
	}

	issuedAt := service.now().UTC()
	session := models.Session{
		ID:        sessionID,
		Username:  username,
		Role:      role,
		CreatedAt: issuedAt,
		ExpiresAt: issuedAt.Add(service.ttl),
	}

	created, err := service.sessions.CreateUnique(ctx, &session)
	if err != nil {
		return models.Session{}, fmt.Errorf("store session: %w", err)
	}
	if !created {
		return models.Session{}, ErrSessionCollision
	}

	token, err := service.sign(session)
	if err != nil {
		return models.Session{}, err
	}
	session.Token = token
	return session, nil
}

func (service *SessionService) Validate(ctx context.Context, token string) (models.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.Session{}, ErrUnauthenticated
	}

	claims, err := service.parse(token,
		jwt.WithTimeFunc(service.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.Session{}, ErrUnauthenticated
	}

	session, err := service.sessions.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Session{}, ErrUnauthenticated
		}
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}
	if !service.now().Before(session.ExpiresAt) || session.Username != claims.Subject {
		return models.Session{}, ErrUnauthenticated
	}

	session.Token = token
	return session, nil
}

// Invalidate removes the session behind token. Unknown, malformed and
// expired tokens are ignored.
func (service *SessionService) Invalidate(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	claims, err := service.parse(token, jwt.WithoutClaimsValidation())
	if err != nil || claims.ID == "" {
		return nil
	}
	if err := service.sessions.DeleteByID(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (service *SessionService) RecordSignup(username string, role string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	service.signups[role]++
}

func (service *SessionService) SignupCount() int {
	service.mu.Lock()
	defer service.mu.Unlock()

	total := 0
	for _, count := range service.signups {
		total += count
	}
	return total
}

func (service *SessionService) SignupCountByRole(role string) int {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.signups[role]
}

func (service *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	purged, err := service.sessions.DeleteExpired(ctx, service.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	return purged, nil
}

func (service *SessionService) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purged, err := service.PurgeExpired(ctx)
				if err != nil {
					log.Printf("sessions: janitor failed: %v", err)
					continue
				}
				if purged > 0 {
					log.Printf("sessions: purged %d expired sessions", purged)
				}
			}
		}
	}()
}

func (service *SessionService) sign(session models.Session) (string, error) {
	claims := sessionClaims{
		Role: session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   session.Username,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

func (service *SessionService) parse(token string, options ...jwt.ParserOption) (*sessionClaims, error) {
	claims := &sessionClaims{}
	options = append(options, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return service.secret, nil
	}, options...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}
