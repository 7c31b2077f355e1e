package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"devops-gateway/internal/domain"
	"devops-gateway/internal/llm"
	"devops-gateway/internal/metrics"
	"devops-gateway/internal/repository"
)

// ChatRequest is one inbound chat turn. An empty ConversationID starts a new
// conversation.
type ChatRequest struct {
	ConversationID string
	Message        string
}

// ChatResponse carries the assistant reply. Sources stays empty: retrieval is
// handled inside the inference backend, not by the gateway.
type ChatResponse struct {
	Response       string   `json:"response"`
	ConversationID string   `json:"conversation_id"`
	Sources        []string `json:"sources"`
}

// AgentService orchestrates a chat turn: resolve the conversation, load
// history, compose the prompt, call inference, persist both new turns.
type AgentService struct {
	logger        *zap.Logger
	llmClient     llm.Client
	conversations repository.ConversationRepository
	prompts       PromptBuilder
	historyWindow int
}

func NewAgentService(
	logger *zap.Logger,
	llmClient llm.Client,
	conversations repository.ConversationRepository,
	prompts PromptBuilder,
	historyWindow int,
) *AgentService {
	if historyWindow <= 0 {
		historyWindow = 20
	}
	return &AgentService{
		logger:        logger,
		llmClient:     llmClient,
		conversations: conversations,
		prompts:       prompts,
		historyWindow: historyWindow,
	}
}

// Chat executes one synchronous turn. A failure at any step aborts the whole
// turn; nothing is persisted unless inference succeeded.
func (s *AgentService) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return ChatResponse{}, fmt.Errorf("empty message")
	}

	conversationID := strings.TrimSpace(req.ConversationID)
	if conversationID == "" {
		conversationID = s.conversations.NewConversationID()
	}

	history, err := s.conversations.GetHistory(ctx, conversationID, s.historyWindow)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("load history: %w", err)
	}

	messages := s.prompts.Build(history, message)

	start := time.Now()
	reply, err := s.llmClient.Complete(ctx, messages)
	metrics.UpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrorsTotal.Inc()
		return ChatResponse{}, fmt.Errorf("chat completion: %w", err)
	}

	// Persist on a detached context: once inference succeeded, a client
	// disconnect must not leave the turn pair half-written.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	userTurn := domain.NewUserMessage(message)
	assistantTurn := domain.NewAssistantMessage(reply)
	if err := s.conversations.AppendTurnPair(persistCtx, conversationID, userTurn, assistantTurn); err != nil {
		return ChatResponse{}, fmt.Errorf("persist turns: %w", err)
	}

	metrics.ChatTurnsTotal.Inc()
	s.logger.Info("chat turn completed",
		zap.String("conversation_id", conversationID),
		zap.Int("history_len", len(history)),
	)

	return ChatResponse{
		Response:       reply,
		ConversationID: conversationID,
		Sources:        []string{},
	}, nil
}

// History returns the stored messages for a conversation, oldest first. An
// unknown id yields an empty list.
func (s *AgentService) History(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	return s.conversations.GetHistory(ctx, conversationID, 0)
}
