package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/terraincognita07/accounts/internal/models"
	"github.com/terraincognita07/accounts/internal/services"
)

const (
	CommandCreateAdmin   = "create-admin"
	CommandResetPassword = "reset-password"
	CommandNotify        = "notify"
)

type AdminCreator interface {
	CreateAdmin(ctx context.Context, username string, password string) (models.Account, error)
}

type PasswordResetter interface {
	ResetPassword(ctx context.Context, username string) (string, error)
}

type NotificationPublisher interface {
	Publish(ctx context.Context, username string, kind string, data map[string]any) (services.NotificationView, error)
}

type Commands struct {
	admins        AdminCreator
	passwords     PasswordResetter
	notifications NotificationPublisher
	prompt        PasswordPrompt
	out           io.Writer
}

func NewCommands(auth *services.AuthService, notifications *services.NotificationService, prompt PasswordPrompt, out io.Writer) *Commands {
	return &Commands{
		admins:        auth,
		passwords:     auth,
		notifications: notifications,
		prompt:        prompt,
		out:           out,
	}
}

func IsCommand(name string) bool {
	switch name {
	case CommandCreateAdmin, CommandResetPassword, CommandNotify:
		return true
	default:
		return false
	}
}

func (commands *Commands) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("command is required")
	}

	switch args[0] {
	case CommandCreateAdmin:
		if len(args) != 2 {
			return fmt.Errorf("usage: %s <username>", CommandCreateAdmin)
		}
		return commands.CreateAdmin(ctx, args[1])
	case CommandResetPassword:
		if len(args) != 2 {
			return fmt.Errorf("usage: %s <username>", CommandResetPassword)
		}
		return commands.ResetPassword(ctx, args[1])
	case CommandNotify:
		if len(args) < 3 || len(args) > 4 {
			return fmt.Errorf("usage: %s <username> <type> [json-object]", CommandNotify)
		}
		rawData := ""
		if len(args) == 4 {
			rawData = args[3]
		}
		return commands.Notify(ctx, args[1], args[2], rawData)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (commands *Commands) CreateAdmin(ctx context.Context, username string) error {
	password, err := commands.prompt("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	confirmation, err := commands.prompt("Confirm password: ")
	if err != nil {
		return fmt.Errorf("read password confirmation: %w", err)
	}
	if password != confirmation {
		return errors.New("passwords do not match")
	}

	account, err := commands.admins.CreateAdmin(ctx, username, password)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			return fmt.Errorf("account %s already exists", strings.TrimSpace(username))
		}
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Fprintf(commands.out, "Admin account %s created\n", account.Username)
	return nil
}

func (commands *Commands) ResetPassword(ctx context.Context, username string) error {
	temporaryPassword, err := commands.passwords.ResetPassword(ctx, username)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			return fmt.Errorf("account %s not found", strings.TrimSpace(username))
		}
		return fmt.Errorf("reset password: %w", err)
	}

	fmt.Fprintln(commands.out, "Password reset successful")
	fmt.Fprintf(commands.out, "Temporary password: %s\n", temporaryPassword)
	return nil
}

func (commands *Commands) Notify(ctx context.Context, username string, kind string, rawData string) error {
	var data map[string]any
	if strings.TrimSpace(rawData) != "" {
		if err := json.Unmarshal([]byte(rawData), &data); err != nil {
			return fmt.Errorf("notification data must be a JSON object: %w", err)
		}
	}

	notification, err := commands.notifications.Publish(ctx, username, kind, data)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			return fmt.Errorf("account %s not found", strings.TrimSpace(username))
		}
		return fmt.Errorf("publish notification: %w", err)
	}

	fmt.Fprintf(commands.out, "Notification %s published\n", notification.ID)
	return nil
}
