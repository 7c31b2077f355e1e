package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devops-gateway/internal/domain"
	"devops-gateway/internal/llm"
	"devops-gateway/internal/service"
)

// ChatHandler exposes the chat orchestration endpoints.
type ChatHandler struct {
	logger *zap.Logger
	agent  *service.AgentService
}

func NewChatHandler(logger *zap.Logger, agent *service.AgentService) *ChatHandler {
	return &ChatHandler{logger: logger, agent: agent}
}

// Chat handles POST /api/v1/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req struct {
		ConversationID string `json:"conversation_id"`
		Message        string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		problem(c, http.StatusUnprocessableEntity, "validation/error", "message is required")
		return
	}

	resp, err := h.agent.Chat(c.Request.Context(), service.ChatRequest{
		ConversationID: req.ConversationID,
		Message:        req.Message,
	})
	if err != nil {
		if errors.Is(err, llm.ErrUpstream) {
			h.logger.Error("inference backend failed",
				zap.Error(err),
				zap.String("request_id", GetRequestID(c)),
			)
			problem(c, http.StatusBadGateway, "upstream/inference-error", "inference backend unavailable")
			return
		}
		h.logger.Error("chat turn failed",
			zap.Error(err),
			zap.String("request_id", GetRequestID(c)),
		)
		problem(c, http.StatusInternalServerError, "internal/error", "failed to process your request")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetConversation handles GET /api/v1/chat/conversations/:id. An unknown id
// returns an empty list, not an error.
func (h *ChatHandler) GetConversation(c *gin.Context) {
	id := c.Param("id")

	history, err := h.agent.History(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("load conversation failed",
			zap.Error(err),
			zap.String("conversation_id", id),
			zap.String("request_id", GetRequestID(c)),
		)
		problem(c, http.StatusInternalServerError, "internal/error", "failed to load conversation")
		return
	}
	if history == nil {
		history = []domain.ChatMessage{}
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": id,
		"messages":        history,
	})
}

// Health handles GET /api/v1/chat/health.
func (h *ChatHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "devops-chat"})
}
