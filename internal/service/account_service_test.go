package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestAccountService_SignupAndAuthenticate(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewAccountService(zap.NewNop(), repo)

	profile, err := svc.Signup(context.Background(), SignupInput{
		Email:    " Dev@Example.COM ",
		Password: "correct-horse",
		FullName: "Dev One",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if profile.Email != "dev@example.com" {
		t.Fatalf("expected normalized email, got %q", profile.Email)
	}
	if profile.Role != "developer" {
		t.Fatalf("expected default role, got %q", profile.Role)
	}
	if profile.PasswordHash == "" || profile.PasswordHash == "correct-horse" {
		t.Fatalf("expected hashed password")
	}

	got, err := svc.Authenticate(context.Background(), "dev@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != profile.ID {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestAccountService_RejectsDuplicateEmail(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewAccountService(zap.NewNop(), repo)

	input := SignupInput{Email: "dev@example.com", Password: "correct-horse"}
	if _, err := svc.Signup(context.Background(), input); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(context.Background(), input); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAccountService_RejectsBadInput(t *testing.T) {
	svc := NewAccountService(zap.NewNop(), newMockProfileRepo())

	if _, err := svc.Signup(context.Background(), SignupInput{Email: "not-an-email", Password: "correct-horse"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), SignupInput{Email: "dev@example.com", Password: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAccountService_AuthenticateWrongPassword(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewAccountService(zap.NewNop(), repo)

	if _, err := svc.Signup(context.Background(), SignupInput{Email: "dev@example.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "dev@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
