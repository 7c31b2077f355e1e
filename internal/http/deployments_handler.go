package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devops-gateway/internal/github"
	"devops-gateway/internal/service"
)

// DeploymentsHandler exposes repository metadata lookups.
type DeploymentsHandler struct {
	logger      *zap.Logger
	deployments *service.DeploymentService
}

func NewDeploymentsHandler(logger *zap.Logger, deployments *service.DeploymentService) *DeploymentsHandler {
	return &DeploymentsHandler{logger: logger, deployments: deployments}
}

// RepoInfo handles POST /api/v1/deployments/repo-info.
func (h *DeploymentsHandler) RepoInfo(c *gin.Context) {
	var req struct {
		Repo string `json:"repo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid repo-info request", zap.Error(err))
		problem(c, http.StatusUnprocessableEntity, "validation/error", "repo is required")
		return
	}

	info, err := h.deployments.RepoInfo(c.Request.Context(), req.Repo)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyRepo), errors.Is(err, github.ErrInvalidRepo):
			problem(c, http.StatusBadRequest, "deployments/invalid-repo", "repo must be owner/name or a github.com URL")
		case errors.Is(err, github.ErrRepoNotFound):
			problem(c, http.StatusNotFound, "deployments/repo-not-found", "repository not found")
		case errors.Is(err, github.ErrBadCredentials):
			problem(c, http.StatusUnauthorized, "deployments/bad-credentials", "github rejected the configured token")
		case errors.Is(err, github.ErrRateLimited):
			problem(c, http.StatusTooManyRequests, "deployments/rate-limited", "github rate limit exceeded")
		default:
			h.logger.Error("repo-info failed", zap.Error(err), zap.String("request_id", GetRequestID(c)))
			problem(c, http.StatusBadGateway, "deployments/github-error", "github unavailable")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"repo": info})
}
