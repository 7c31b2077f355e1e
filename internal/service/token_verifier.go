package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"devops-gateway/internal/domain"
	"devops-gateway/internal/identity"
	"devops-gateway/internal/metrics"
	"devops-gateway/internal/repository"
)

// ErrUnauthorized marks a credential rejected by every verification strategy.
var ErrUnauthorized = errors.New("unauthorized")

// AuthenticatedIdentity is the result of a successful verification: the token
// subject and the profile it resolves to. Never partially populated.
type AuthenticatedIdentity struct {
	Subject string
	Profile domain.Profile
}

type verifyStrategy func(ctx context.Context, credential string) (string, error)

// TokenVerifier validates bearer credentials with an ordered list of
// strategies, first success wins: the gateway's own HS256 signature first,
// then the remote identity provider. The remote tier exists for legacy-issued
// tokens whose signature differs from the gateway's signing key.
type TokenVerifier struct {
	logger     *zap.Logger
	jwt        *JWTService
	remote     identity.Verifier
	profiles   repository.ProfileRepository
	cache      VerificationCache
	cacheTTL   time.Duration
	strategies []verifyStrategy
}

func NewTokenVerifier(
	logger *zap.Logger,
	jwtSvc *JWTService,
	remote identity.Verifier,
	profiles repository.ProfileRepository,
	cache VerificationCache,
	cacheTTL time.Duration,
) *TokenVerifier {
	v := &TokenVerifier{
		logger:   logger,
		jwt:      jwtSvc,
		remote:   remote,
		profiles: profiles,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
	v.strategies = []verifyStrategy{v.verifyLocal, v.verifyRemote}
	return v
}

// Verify resolves a bearer credential to an identity, or fails with
// ErrUnauthorized / repository.ErrProfileNotFound.
func (v *TokenVerifier) Verify(ctx context.Context, credential string) (AuthenticatedIdentity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return AuthenticatedIdentity{}, ErrUnauthorized
	}

	var subject string
	var lastErr error
	for _, strategy := range v.strategies {
		sub, err := strategy(ctx, credential)
		if err == nil {
			subject = sub
			break
		}
		lastErr = err
	}
	if subject == "" {
		v.logger.Warn("credential rejected by all strategies", zap.Error(lastErr))
		return AuthenticatedIdentity{}, ErrUnauthorized
	}

	profile, err := v.profiles.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return AuthenticatedIdentity{}, err
		}
		return AuthenticatedIdentity{}, fmt.Errorf("resolve profile: %w", err)
	}

	return AuthenticatedIdentity{Subject: subject, Profile: profile}, nil
}

func (v *TokenVerifier) verifyLocal(_ context.Context, credential string) (string, error) {
	if v.jwt == nil {
		return "", ErrJWTInvalid
	}
	claims, err := v.jwt.ParseAccessToken(credential)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (v *TokenVerifier) verifyRemote(ctx context.Context, credential string) (string, error) {
	if v.remote == nil {
		return "", ErrUnauthorized
	}

	if v.cache != nil {
		subject, ok, err := v.cache.Get(credential)
		if err != nil {
			v.logger.Warn("verification cache read failed", zap.Error(err))
		} else if ok {
			return subject, nil
		}
	}

	metrics.AuthFallbacksTotal.Inc()
	subject, err := v.remote.VerifyToken(ctx, credential)
	if err != nil {
		return "", err
	}

	if v.cache != nil {
		if err := v.cache.Put(credential, subject, v.cacheTTL); err != nil {
			v.logger.Warn("verification cache write failed", zap.Error(err))
		}
	}
	return subject, nil
}
