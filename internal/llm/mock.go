package llm

import (
	"context"

	"devops-gateway/internal/domain"
)

// MockClient allows tests to run without a real inference backend.
type MockClient struct {
	Response string
	Err      error
	Calls    [][]domain.ChatMessage
}

func (m *MockClient) Complete(_ context.Context, messages []domain.ChatMessage) (string, error) {
	m.Calls = append(m.Calls, messages)
	return m.Response, m.Err
}
