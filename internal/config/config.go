package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort                = "8080"
	DefaultSessionTTLMinutes   = 60
	DefaultJanitorMinutes      = 5
	DefaultCodeTTLMinutes      = 15
	DefaultCodeCooldownSeconds = 60
	DefaultCodeMaxAttempts     = 5
	DefaultBcryptCost          = 10
	minimumSecretKeyLength     = 32
	configFileEnvironmentKey   = "ACCOUNTS_CONFIG"
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
	"secret":                                     {},
}

type Config struct {
	Port         string             `yaml:"port"`
	DBPath       string             `yaml:"db_path"`
	SecretKey    string             `yaml:"secret_key"`
	CookieSecure bool               `yaml:"cookie_secure"`
	Timezone     string             `yaml:"timezone"`
	BcryptCost   int                `yaml:"bcrypt_cost"`
	Session      SessionConfig      `yaml:"session"`
	Verification VerificationConfig `yaml:"verification"`
}

type SessionConfig struct {
	TTLMinutes     int `yaml:"ttl_minutes"`
	JanitorMinutes int `yaml:"janitor_minutes"`
}

type VerificationConfig struct {
	CodeTTLMinutes  int `yaml:"code_ttl_minutes"`
	CooldownSeconds int `yaml:"cooldown_seconds"`
	MaxAttempts     int `yaml:"max_attempts"`
}

func Default() Config {
	return Config{
		Port:       DefaultPort,
		DBPath:     filepath.Join("data", "accounts.db"),
		Timezone:   "UTC",
		BcryptCost: DefaultBcryptCost,
		Session: SessionConfig{
			TTLMinutes:     DefaultSessionTTLMinutes,
			JanitorMinutes: DefaultJanitorMinutes,
		},
		Verification: VerificationConfig{
			CodeTTLMinutes:  DefaultCodeTTLMinutes,
			CooldownSeconds: DefaultCodeCooldownSeconds,
			MaxAttempts:     DefaultCodeMaxAttempts,
		},
	}
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := strings.TrimSpace(os.Getenv(configFileEnvironmentKey)); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnvironment(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (cfg *Config) applyEnvironment() error {
	overrideString(&cfg.Port, "PORT")
	overrideString(&cfg.DBPath, "DB_PATH")
	overrideString(&cfg.SecretKey, "SECRET_KEY")
	overrideString(&cfg.Timezone, "TZ")

	if err := overrideBool(&cfg.CookieSecure, "COOKIE_SECURE"); err != nil {
		return err
	}

	for key, target := range map[string]*int{
		"BCRYPT_COST":             &cfg.BcryptCost,
		"SESSION_TTL_MINUTES":     &cfg.Session.TTLMinutes,
		"SESSION_JANITOR_MINUTES": &cfg.Session.JanitorMinutes,
		"CODE_TTL_MINUTES":        &cfg.Verification.CodeTTLMinutes,
		"CODE_COOLDOWN_SECONDS":   &cfg.Verification.CooldownSeconds,
		"CODE_MAX_ATTEMPTS":       &cfg.Verification.MaxAttempts,
	} {
		if err := overrideInt(target, key); err != nil {
			return err
		}
	}
	return nil
}

func (cfg Config) Validate() error {
	if _, err := ResolveSecretKey(cfg.SecretKey); err != nil {
		return err
	}
	if _, err := ResolvePort(cfg.Port); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("DB_PATH must not be empty")
	}

	for name, value := range map[string]int{
		"SESSION_TTL_MINUTES":     cfg.Session.TTLMinutes,
		"SESSION_JANITOR_MINUTES": cfg.Session.JanitorMinutes,
		"CODE_TTL_MINUTES":        cfg.Verification.CodeTTLMinutes,
		"CODE_MAX_ATTEMPTS":       cfg.Verification.MaxAttempts,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, value)
		}
	}
	if cfg.Verification.CooldownSeconds < 0 {
		return fmt.Errorf("CODE_COOLDOWN_SECONDS must not be negative, got %d", cfg.Verification.CooldownSeconds)
	}
	return nil
}

func (cfg Config) SessionTTL() time.Duration {
	return time.Duration(cfg.Session.TTLMinutes) * time.Minute
}

func (cfg Config) JanitorInterval() time.Duration {
	return time.Duration(cfg.Session.JanitorMinutes) * time.Minute
}

func (cfg Config) CodeTTL() time.Duration {
	return time.Duration(cfg.Verification.CodeTTLMinutes) * time.Minute
}

func (cfg Config) CodeCooldown() time.Duration {
	return time.Duration(cfg.Verification.CooldownSeconds) * time.Second
}

func (cfg Config) Location() *time.Location {
	location, err := time.LoadLocation(strings.TrimSpace(cfg.Timezone))
	if err != nil {
		return time.UTC
	}
	return location
}

func ResolveSecretKey(value string) (string, error) {
	secret := strings.TrimSpace(value)
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minimumSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minimumSecretKeyLength)
	}
	return secret, nil
}

func ResolvePort(value string) (string, error) {
	port := strings.TrimSpace(value)
	if port == "" {
		return DefaultPort, nil
	}
	number, err := strconv.Atoi(port)
	if err != nil || number < 1 || number > 65535 {
		return "", fmt.Errorf("PORT must be between 1 and 65535, got %q", value)
	}
	return port, nil
}

func overrideString(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}

func overrideBool(target *bool, key string) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s must be a boolean, got %q", key, value)
	}
	*target = parsed
	return nil
}

func overrideInt(target *int, key string) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	*target = parsed
	return nil
}
