package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/accounts/internal/config"
	"github.com/terraincognita07/accounts/internal/db"
	"github.com/terraincognita07/accounts/internal/services"
	"golang.org/x/crypto/bcrypt"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type testClock struct {
	mu      sync.Mutex
	current time.Time
}

func (clock *testClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

func (clock *testClock) Advance(step time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.current = clock.current.Add(step)
}

type capturingDispatcher struct {
	mu     sync.Mutex
	issued []services.CodeIssue
}

func (dispatcher *capturingDispatcher) Dispatch(_ context.Context, issue services.CodeIssue) error {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	dispatcher.issued = append(dispatcher.issued, issue)
	return nil
}

func (dispatcher *capturingDispatcher) last(t *testing.T) services.CodeIssue {
	t.Helper()
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	if len(dispatcher.issued) == 0 {
		t.Fatal("expected a dispatched verification code")
	}
	return dispatcher.issued[len(dispatcher.issued)-1]
}

type testEnv struct {
	app        *fiber.App
	deps       *Dependencies
	clock      *testClock
	dispatcher *capturingDispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithCookieSecure(t, false)
}

func newTestEnvWithCookieSecure(t *testing.T, cookieSecure bool) *testEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "accounts-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	cfg := config.Default()
	cfg.SecretKey = testSecretKey
	cfg.CookieSecure = cookieSecure
	cfg.BcryptCost = bcrypt.MinCost

	clock := &testClock{current: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)}
	dispatcher := &capturingDispatcher{}
	deps := NewDependencies(database, cfg).WithClock(clock.Now)
	handler := NewHandler(deps, cookieSecure, dispatcher).WithClock(clock.Now)

	return &testEnv{
		app:        NewApp(handler, AppOptions{}),
		deps:       deps,
		clock:      clock,
		dispatcher: dispatcher,
	}
}

type testCall struct {
	method string
	path   string
	body   any
	cookie string
	bearer string
}

func (env *testEnv) do(t *testing.T, call testCall) *http.Response {
	t.Helper()

	var body io.Reader
	if call.body != nil {
		encoded, err := json.Marshal(call.body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(call.method, call.path, body)
	if call.body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if call.cookie != "" {
		request.Header.Set("Cookie", call.cookie)
	}
	if call.bearer != "" {
		request.Header.Set("Authorization", "Bearer "+call.bearer)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", call.method, call.path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func (env *testEnv) signup(t *testing.T, username string, password string) {
	t.Helper()

	response := env.do(t, testCall{
		method: http.MethodPost,
		path:   "/api/auth/signup",
		body:   fiber.Map{"username": username, "password": password},
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected signup status 201, got %d", response.StatusCode)
	}
}

func (env *testEnv) createAdmin(t *testing.T, username string, password string) {
	t.Helper()

	if _, err := env.deps.Auth.CreateAdmin(context.Background(), username, password); err != nil {
		t.Fatalf("create admin: %v", err)
	}
}

// login returns a Cookie header carrying the session cookie.
func (env *testEnv) login(t *testing.T, username string, password string, role string) string {
	t.Helper()

	response := env.do(t, testCall{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   fiber.Map{"username": username, "password": password, "role": role},
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected login status 200, got %d", response.StatusCode)
	}

	value := responseCookieValue(response.Cookies(), sessionCookieName)
	if value == "" {
		t.Fatal("session cookie is missing in login response")
	}
	return sessionCookieName + "=" + value
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	if cookie := responseCookie(cookies, name); cookie != nil {
		return cookie.Value
	}
	return ""
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(payload), err)
	}
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()

	payload := map[string]string{}
	decodeJSON(t, response, &payload)
	return payload["error"]
}
