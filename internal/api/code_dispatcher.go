package api

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/terraincognita07/accounts/internal/services"
)

type logDispatcher struct{}

func (logDispatcher) Dispatch(_ context.Context, issue services.CodeIssue) error {
	log.Printf("verification code issued channel=%s destination=%s expires_at=%s",
		issue.Channel, maskDestination(issue.Destination), issue.ExpiresAt.Format(time.RFC3339))
	return nil
}

func maskDestination(destination string) string {
	if at := strings.IndexByte(destination, '@'); at > 0 {
		return destination[:1] + "***" + destination[at:]
	}
	if len(destination) > 4 {
		return strings.Repeat("*", len(destination)-4) + destination[len(destination)-4:]
	}
	return "****"
}
