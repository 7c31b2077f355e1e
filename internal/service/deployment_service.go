package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"devops-gateway/internal/domain"
)

// ErrEmptyRepo marks a repo-info request with a blank identifier.
var ErrEmptyRepo = errors.New("empty repository identifier")

// RepoGateway abstracts the GitHub client so the service can be tested
// without network access.
type RepoGateway interface {
	GetRepoMetadata(ctx context.Context, identifier string) (domain.RepoInfo, error)
}

// DeploymentService answers repository metadata lookups for the deployments
// surface.
type DeploymentService struct {
	logger *zap.Logger
	repos  RepoGateway
}

func NewDeploymentService(logger *zap.Logger, repos RepoGateway) *DeploymentService {
	return &DeploymentService{logger: logger, repos: repos}
}

func (s *DeploymentService) RepoInfo(ctx context.Context, identifier string) (domain.RepoInfo, error) {
	if strings.TrimSpace(identifier) == "" {
		return domain.RepoInfo{}, ErrEmptyRepo
	}

	info, err := s.repos.GetRepoMetadata(ctx, identifier)
	if err != nil {
		return domain.RepoInfo{}, err
	}

	s.logger.Info("repo metadata resolved", zap.String("repo", info.FullName))
	return info, nil
}
