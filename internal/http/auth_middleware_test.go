package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"devops-gateway/internal/domain"
	"devops-gateway/internal/llm"
	"devops-gateway/internal/repository"
	"devops-gateway/internal/service"
)

const testSecret = "test-secret-key"

type stubProfileRepo struct {
	profiles map[string]domain.Profile
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]domain.Profile)}
}

func (s *stubProfileRepo) Create(_ context.Context, profile domain.Profile) error {
	s.profiles[profile.ID] = profile
	return nil
}

func (s *stubProfileRepo) GetByID(_ context.Context, id string) (domain.Profile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return domain.Profile{}, repository.ErrProfileNotFound
	}
	return profile, nil
}

func (s *stubProfileRepo) GetByEmail(_ context.Context, email string) (domain.Profile, error) {
	for _, p := range s.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return domain.Profile{}, repository.ErrProfileNotFound
}

type stubRepoGateway struct{}

func (stubRepoGateway) GetRepoMetadata(_ context.Context, _ string) (domain.RepoInfo, error) {
	return domain.RepoInfo{FullName: "octocat/hello-world"}, nil
}

// testGateway wires the full router over in-memory stores and a mocked
// inference backend.
type testGateway struct {
	router        *gin.Engine
	jwt           *service.JWTService
	llm           *llm.MockClient
	conversations *repository.MemoryConversationRepository
	profiles      *stubProfileRepo
}

func newTestGateway(t *testing.T) *testGateway {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	profiles := newStubProfileRepo()
	jwtSvc := service.NewJWTService(testSecret, time.Hour, 24*time.Hour)
	verifier := service.NewTokenVerifier(logger, jwtSvc, nil, profiles, nil, 0)

	mockLLM := &llm.MockClient{Response: "use terraform plan before apply"}
	conversations := repository.NewMemoryConversationRepository()
	agent := service.NewAgentService(logger, mockLLM, conversations, service.NewPromptBuilder(""), 20)
	accounts := service.NewAccountService(logger, profiles)
	deployments := service.NewDeploymentService(logger, stubRepoGateway{})

	router := NewRouter(
		logger,
		verifier,
		NewAuthHandler(logger, accounts, jwtSvc),
		NewChatHandler(logger, agent),
		NewDeploymentsHandler(logger, deployments),
		[]string{"*"},
	)

	return &testGateway{
		router:        router,
		jwt:           jwtSvc,
		llm:           mockLLM,
		conversations: conversations,
		profiles:      profiles,
	}
}

// authHeader registers a profile and returns a bearer value for it.
func (g *testGateway) authHeader(t *testing.T) (string, domain.Profile) {
	t.Helper()
	profile := domain.Profile{
		ID:    "profile-1",
		Email: "dev@example.com",
		Role:  "developer",
	}
	g.profiles.profiles[profile.ID] = profile

	pair, err := g.jwt.GeneratePair(profile)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	return "Bearer " + pair.AccessToken, profile
}

// expiredToken signs a token with the gateway secret whose expiry is in the
// past.
func expiredToken(t *testing.T, subject string) string {
	t.Helper()
	now := time.Now().UTC().Add(-2 * time.Hour)
	claims := jwt.MapClaims{
		"uid": subject,
		"typ": "access",
		"iss": "devops-gateway",
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	return signed
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetail {
	t.Helper()
	var pd ProblemDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &pd); err != nil {
		t.Fatalf("decode problem detail: %v (body: %s)", err, rec.Body.String())
	}
	return pd
}

func TestAuthRequired_MissingToken(t *testing.T) {
	g := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/conversations/some-id", nil)
	rec := httptest.NewRecorder()
	g.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if pd := decodeProblem(t, rec); pd.Type != "auth/missing-token" {
		t.Fatalf("unexpected problem type %q", pd.Type)
	}
}

func TestAuthRequired_MalformedHeader(t *testing.T) {
	g := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/conversations/some-id", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	g.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRequired_ValidToken(t *testing.T) {
	g := newTestGateway(t)
	header, _ := g.authHeader(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/conversations/some-id", nil)
	req.Header.Set("Authorization", header)
	rec := httptest.NewRecorder()
	g.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestAuthRequired_UnknownSubject(t *testing.T) {
	g := newTestGateway(t)

	pair, err := g.jwt.GeneratePair(domain.Profile{ID: "ghost", Email: "ghost@example.com"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/conversations/some-id", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	g.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if pd := decodeProblem(t, rec); pd.Type != "auth/profile-not-found" {
		t.Fatalf("unexpected problem type %q", pd.Type)
	}
}

func TestAuthRequired_UnprotectedHealthRoutes(t *testing.T) {
	g := newTestGateway(t)

	for _, path := range []string{"/health", "/api/v1/chat/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		g.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", path, rec.Code)
		}
	}
}
