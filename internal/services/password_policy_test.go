package services

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePasswordStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		password string
		wantHint string
	}{
		{password: "Short1", wantHint: "at least 8"},
		{password: "alllowercase1", wantHint: "upper-case"},
		{password: "ALLUPPERCASE1", wantHint: "lower-case"},
		{password: "NoDigitsHere", wantHint: "digit"},
		{password: "StrongPass1"},
		{password: "Ünïcödé1x"},
	}

	for _, tc := range tests {
		err := ValidatePasswordStrength(tc.password)
		if tc.wantHint == "" {
			if err != nil {
				t.Fatalf("expected %q to pass, got %v", tc.password, err)
			}
			continue
		}
		if !errors.Is(err, ErrWeakPassword) || !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected weak password input error for %q, got %v", tc.password, err)
		}
		if !strings.Contains(err.Error(), tc.wantHint) {
			t.Fatalf("expected hint %q for %q, got %v", tc.wantHint, tc.password, err)
		}
	}
}
