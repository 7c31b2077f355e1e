package domain

import "time"

// Message roles accepted by the chat completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single conversation turn. Immutable once created.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// NewUserMessage builds a user turn stamped with the current UTC time.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content, CreatedAt: time.Now().UTC()}
}

// NewAssistantMessage builds an assistant turn stamped with the current UTC time.
func NewAssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content, CreatedAt: time.Now().UTC()}
}
