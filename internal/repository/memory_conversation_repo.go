package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"devops-gateway/internal/domain"
)

// MemoryConversationRepository keeps conversations in process memory. It honors
// the same per-id serialization contract as the Postgres implementation and
// backs tests and local development without a database.
type MemoryConversationRepository struct {
	mu            sync.Mutex
	conversations map[string][]domain.ChatMessage
	locks         map[string]*sync.Mutex
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{
		conversations: make(map[string][]domain.ChatMessage),
		locks:         make(map[string]*sync.Mutex),
	}
}

func (r *MemoryConversationRepository) NewConversationID() string {
	return uuid.NewString()
}

func (r *MemoryConversationRepository) convLock(conversationID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[conversationID] = lock
	}
	return lock
}

func (r *MemoryConversationRepository) GetHistory(_ context.Context, conversationID string, limit int) ([]domain.ChatMessage, error) {
	lock := r.convLock(conversationID)
	lock.Lock()
	defer lock.Unlock()

	history := r.conversations[conversationID]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	out := make([]domain.ChatMessage, len(history))
	copy(out, history)
	return out, nil
}

func (r *MemoryConversationRepository) AppendTurnPair(_ context.Context, conversationID string, user, assistant domain.ChatMessage) error {
	lock := r.convLock(conversationID)
	lock.Lock()
	defer lock.Unlock()

	r.conversations[conversationID] = append(r.conversations[conversationID], user, assistant)
	return nil
}
