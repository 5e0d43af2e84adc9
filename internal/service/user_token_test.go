package service

import (
	"errors"
	"testing"
)

func TestIssueAndParseUserToken(t *testing.T) {
	secret := "token-test-secret-0123456789"

	token, err := IssueUserToken(secret, "user-42", 1)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}

	claims, err := ParseUserToken(secret, token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != "user-42" {
		t.Fatalf("expected user-42, got %s", claims.UserID)
	}
}

func TestParseUserTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueUserToken("secret-one-0123456789abcdef", "user-42", 1)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}

	if _, err := ParseUserToken("secret-two-0123456789abcdef", token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected token invalid, got %v", err)
	}
}

func TestIssueUserTokenRejectsEmptyUser(t *testing.T) {
	if _, err := IssueUserToken("secret", "  ", 1); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected token invalid for empty user, got %v", err)
	}
}
