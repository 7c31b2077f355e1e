package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"devops-gateway/internal/domain"
	"devops-gateway/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password too short")
)

const minPasswordLen = 8

// AccountService handles signup, login and profile lookups.
type AccountService struct {
	logger   *zap.Logger
	profiles repository.ProfileRepository
}

func NewAccountService(logger *zap.Logger, profiles repository.ProfileRepository) *AccountService {
	return &AccountService{logger: logger, profiles: profiles}
}

type SignupInput struct {
	Email    string
	Password string
	FullName string
}

func (s *AccountService) Signup(ctx context.Context, input SignupInput) (domain.Profile, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return domain.Profile{}, ErrInvalidEmail
	}
	if len(strings.TrimSpace(input.Password)) < minPasswordLen {
		return domain.Profile{}, ErrWeakPassword
	}

	if _, err := s.profiles.GetByEmail(ctx, email); err == nil {
		return domain.Profile{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrProfileNotFound) {
		return domain.Profile{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Profile{}, err
	}

	profile := domain.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         "developer",
		PasswordHash: string(hashBytes),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return domain.Profile{}, err
	}

	s.logger.Info("profile created", zap.String("profile_id", profile.ID))
	return profile, nil
}

func (s *AccountService) Authenticate(ctx context.Context, emailAddr, password string) (domain.Profile, error) {
	email := normalizeEmail(emailAddr)
	if email == "" {
		return domain.Profile{}, ErrInvalidCredentials
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return domain.Profile{}, ErrInvalidCredentials
		}
		return domain.Profile{}, err
	}

	if profile.PasswordHash == "" {
		return domain.Profile{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return domain.Profile{}, ErrInvalidCredentials
	}

	return profile, nil
}

func (s *AccountService) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

func normalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return ""
	}
	return email
}
