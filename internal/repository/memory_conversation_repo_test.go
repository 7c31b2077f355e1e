package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"devops-gateway/internal/domain"
)

func TestMemoryConversationRepo_UnknownConversationIsEmpty(t *testing.T) {
	repo := NewMemoryConversationRepository()

	history, err := repo.GetHistory(context.Background(), "missing", 0)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d messages", len(history))
	}
}

func TestMemoryConversationRepo_AppendPreservesOrder(t *testing.T) {
	repo := NewMemoryConversationRepository()
	id := repo.NewConversationID()

	for i := 0; i < 3; i++ {
		user := domain.NewUserMessage(fmt.Sprintf("q%d", i))
		assistant := domain.NewAssistantMessage(fmt.Sprintf("a%d", i))
		if err := repo.AppendTurnPair(context.Background(), id, user, assistant); err != nil {
			t.Fatalf("append pair %d: %v", i, err)
		}
	}

	history, err := repo.GetHistory(context.Background(), id, 0)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(history))
	}
	for i := 0; i < 3; i++ {
		if history[2*i].Content != fmt.Sprintf("q%d", i) || history[2*i].Role != domain.RoleUser {
			t.Fatalf("unexpected message at %d: %+v", 2*i, history[2*i])
		}
		if history[2*i+1].Content != fmt.Sprintf("a%d", i) || history[2*i+1].Role != domain.RoleAssistant {
			t.Fatalf("unexpected message at %d: %+v", 2*i+1, history[2*i+1])
		}
	}
}

func TestMemoryConversationRepo_WindowKeepsNewest(t *testing.T) {
	repo := NewMemoryConversationRepository()
	id := repo.NewConversationID()

	for i := 0; i < 5; i++ {
		user := domain.NewUserMessage(fmt.Sprintf("q%d", i))
		assistant := domain.NewAssistantMessage(fmt.Sprintf("a%d", i))
		if err := repo.AppendTurnPair(context.Background(), id, user, assistant); err != nil {
			t.Fatalf("append pair %d: %v", i, err)
		}
	}

	history, err := repo.GetHistory(context.Background(), id, 4)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(history))
	}
	if history[0].Content != "q3" || history[3].Content != "a4" {
		t.Fatalf("window kept wrong slice: first=%q last=%q", history[0].Content, history[3].Content)
	}
}

func TestMemoryConversationRepo_ReturnedHistoryIsACopy(t *testing.T) {
	repo := NewMemoryConversationRepository()
	id := repo.NewConversationID()

	if err := repo.AppendTurnPair(context.Background(), id, domain.NewUserMessage("q"), domain.NewAssistantMessage("a")); err != nil {
		t.Fatalf("append pair: %v", err)
	}

	history, _ := repo.GetHistory(context.Background(), id, 0)
	history[0].Content = "mutated"

	again, _ := repo.GetHistory(context.Background(), id, 0)
	if again[0].Content != "q" {
		t.Fatalf("stored history was mutated through the returned slice")
	}
}

// Concurrent appends to the same conversation must never interleave the two
// messages of a pair; a user message is always immediately followed by its
// assistant reply.
func TestMemoryConversationRepo_ConcurrentPairsNeverSplit(t *testing.T) {
	repo := NewMemoryConversationRepository()
	id := repo.NewConversationID()

	const writers = 8
	const pairsPerWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < pairsPerWriter; i++ {
				tag := fmt.Sprintf("w%d-%d", w, i)
				user := domain.NewUserMessage("q-" + tag)
				assistant := domain.NewAssistantMessage("a-" + tag)
				if err := repo.AppendTurnPair(context.Background(), id, user, assistant); err != nil {
					t.Errorf("append pair %s: %v", tag, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	history, err := repo.GetHistory(context.Background(), id, 0)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != writers*pairsPerWriter*2 {
		t.Fatalf("expected %d messages, got %d", writers*pairsPerWriter*2, len(history))
	}
	for i := 0; i < len(history); i += 2 {
		user, assistant := history[i], history[i+1]
		if user.Role != domain.RoleUser || assistant.Role != domain.RoleAssistant {
			t.Fatalf("pair split at index %d: %q then %q", i, user.Role, assistant.Role)
		}
		if "a-"+user.Content[2:] != assistant.Content {
			t.Fatalf("pair mismatch at index %d: %q answered by %q", i, user.Content, assistant.Content)
		}
	}
}

func TestMemoryConversationRepo_ConversationsAreIndependent(t *testing.T) {
	repo := NewMemoryConversationRepository()
	first := repo.NewConversationID()
	second := repo.NewConversationID()

	if err := repo.AppendTurnPair(context.Background(), first, domain.NewUserMessage("hello"), domain.NewAssistantMessage("hi")); err != nil {
		t.Fatalf("append pair: %v", err)
	}

	history, err := repo.GetHistory(context.Background(), second, 0)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("second conversation should be empty, got %d messages", len(history))
	}
}
