package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrRejected is returned when the provider does not recognize the token.
var ErrRejected = errors.New("identity provider rejected token")

// Verifier resolves a bearer token to its subject id at a remote provider.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// Client verifies tokens against the identity provider's user endpoint. It
// exists for legacy-issued tokens whose signature differs from the gateway's
// own signing key.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// VerifyToken asks the provider who the token belongs to. Any transport error
// or non-success status counts as a rejection; the caller maps it to 401.
func (c *Client) VerifyToken(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRejected, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrRejected, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status=%d", ErrRejected, resp.StatusCode)
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", ErrRejected, err)
	}
	if strings.TrimSpace(user.ID) == "" {
		return "", fmt.Errorf("%w: empty subject", ErrRejected)
	}

	return user.ID, nil
}
