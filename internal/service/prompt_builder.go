package service

import (
	"strings"

	"devops-gateway/internal/domain"
)

// DefaultSystemPrompt is the fixed instruction for the DevOps assistant. It is
// prepended at composition time and never persisted with the conversation.
const DefaultSystemPrompt = `You are an expert DevOps and Cloud Engineering AI Assistant. You help engineers with:

- Cloud platforms (AWS, Azure, GCP)
- Infrastructure as Code (Terraform, ARM templates, CloudFormation)
- Container orchestration (Docker, Kubernetes)
- CI/CD pipelines (Jenkins, GitHub Actions, Azure DevOps)
- Monitoring and observability
- Security best practices
- Configuration management
- Site reliability engineering (SRE)

Provide practical, actionable advice with code examples when helpful. Be concise but thorough.`

// PromptBuilder assembles the ordered message list sent to the inference
// backend: [system, history..., new user message].
type PromptBuilder struct {
	systemPrompt string
}

func NewPromptBuilder(systemPrompt string) PromptBuilder {
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return PromptBuilder{systemPrompt: systemPrompt}
}

// Build returns exactly len(history)+2 messages: one synthesized system turn,
// the history in its original order, and the new message as a user turn.
func (b PromptBuilder) Build(history []domain.ChatMessage, newMessage string) []domain.ChatMessage {
	messages := make([]domain.ChatMessage, 0, len(history)+2)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: b.systemPrompt})
	for _, msg := range history {
		messages = append(messages, domain.ChatMessage{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: newMessage})
	return messages
}
