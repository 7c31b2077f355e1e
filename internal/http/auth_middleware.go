package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"devops-gateway/internal/repository"
	"devops-gateway/internal/service"
)

const identityKey = "auth_identity"

// AuthRequired verifies the bearer credential and stores the resolved identity
// in the request context. Auth failures short-circuit before any handler runs.
func AuthRequired(verifier *service.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			problem(c, http.StatusInternalServerError, "internal/error", "authentication not configured")
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			problem(c, http.StatusUnauthorized, "auth/missing-token", "missing bearer credential")
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		ident, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				problem(c, http.StatusNotFound, "auth/profile-not-found", "no profile for authenticated subject")
				return
			}
			if errors.Is(err, service.ErrUnauthorized) {
				problem(c, http.StatusUnauthorized, "auth/invalid-token", "invalid or expired token")
				return
			}
			problem(c, http.StatusInternalServerError, "internal/error", "could not verify credential")
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// GetIdentity returns the authenticated identity stored by AuthRequired.
func GetIdentity(c *gin.Context) (service.AuthenticatedIdentity, bool) {
	val, ok := c.Get(identityKey)
	if !ok {
		return service.AuthenticatedIdentity{}, false
	}
	ident, ok := val.(service.AuthenticatedIdentity)
	return ident, ok
}
