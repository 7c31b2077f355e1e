package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"devops-gateway/internal/domain"
)

// ErrUpstream marks any failure of the inference backend: transport errors,
// non-success statuses and unparseable bodies. The gateway never retries;
// callers surface it as a 502.
var ErrUpstream = errors.New("inference backend error")

// Client generates one assistant reply for an ordered message list.
type Client interface {
	Complete(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

// FoundryClient calls the Azure AI Foundry chat completions API.
type FoundryClient struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	client     *http.Client
}

// NewFoundryClient builds a client with a bounded request timeout. A timeout
// of zero defaults to 60 seconds.
func NewFoundryClient(endpoint, apiKey, deployment, apiVersion string, timeout time.Duration) *FoundryClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &FoundryClient{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		deployment: deployment,
		apiVersion: apiVersion,
		client:     &http.Client{Timeout: timeout},
	}
}

func (c *FoundryClient) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	payload := completionRequest{
		Messages:            toWireMessages(messages),
		MaxCompletionTokens: 800,
		Temperature:         0.1,
		Model:               c.deployment,
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: status=%d", ErrUpstream, resp.StatusCode)
	}

	var cr completionResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", ErrUpstream, err)
	}

	if cr.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrUpstream, cr.Error.Message)
	}

	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUpstream)
	}

	return cr.Choices[0].Message.Content, nil
}

func toWireMessages(messages []domain.ChatMessage) []wireMessage {
	wire := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, wireMessage{Role: m.Role, Content: m.Content})
	}
	return wire
}

type completionRequest struct {
	Messages            []wireMessage `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens"`
	Temperature         float64       `json:"temperature"`
	Model               string        `json:"model"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
