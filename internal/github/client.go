package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	gh "github.com/google/go-github/v66/github"

	"devops-gateway/internal/domain"
)

var (
	ErrInvalidRepo    = errors.New("invalid repository identifier")
	ErrRepoNotFound   = errors.New("repository not found")
	ErrBadCredentials = errors.New("github rejected credentials")
	ErrRateLimited    = errors.New("github rate limit exceeded")
	ErrUnavailable    = errors.New("github unavailable")
)

var repoNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// ParseRepoIdentifier accepts "owner/repo" or a github.com URL and returns the
// canonical "owner/repo" form.
func ParseRepoIdentifier(identifier string) (string, error) {
	id := strings.TrimSpace(identifier)
	id = strings.TrimPrefix(id, "https://")
	id = strings.TrimPrefix(id, "http://")
	id = strings.TrimPrefix(id, "github.com/")
	id = strings.TrimSuffix(id, ".git")
	id = strings.Trim(id, "/")

	if !repoNamePattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRepo, identifier)
	}
	return id, nil
}

// Client fetches repository metadata from the GitHub API.
type Client struct {
	api *gh.Client
}

// NewClient builds a client. An empty token means unauthenticated access,
// which GitHub rate-limits aggressively but still serves for public repos.
func NewClient(token string) *Client {
	api := gh.NewClient(nil)
	if token != "" {
		api = api.WithAuthToken(token)
	}
	return &Client{api: api}
}

// GetRepoMetadata resolves an identifier and returns the repository metadata.
func (c *Client) GetRepoMetadata(ctx context.Context, identifier string) (domain.RepoInfo, error) {
	fullName, err := ParseRepoIdentifier(identifier)
	if err != nil {
		return domain.RepoInfo{}, err
	}

	parts := strings.SplitN(fullName, "/", 2)
	repo, resp, err := c.api.Repositories.Get(ctx, parts[0], parts[1])
	if err != nil {
		return domain.RepoInfo{}, mapError(resp, err)
	}

	info := domain.RepoInfo{
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		DefaultBranch: repo.GetDefaultBranch(),
		Private:       repo.GetPrivate(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		OpenIssues:    repo.GetOpenIssuesCount(),
		Language:      repo.GetLanguage(),
		HTMLURL:       repo.GetHTMLURL(),
	}
	if ts := repo.GetPushedAt(); !ts.IsZero() {
		t := ts.Time
		info.PushedAt = &t
	}
	return info, nil
}

func mapError(resp *gh.Response, err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrRepoNotFound, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrBadCredentials, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
