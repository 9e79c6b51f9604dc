package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/hugohenrick/chat-mobile/internal/domain/conversation"
)

// MemoryConversationRepository é uma implementação em memória usada em
// desenvolvimento local e nos testes.
type MemoryConversationRepository struct {
	mu            sync.RWMutex
	seq           int64
	conversations map[string]*storedConversation
	messages      map[string][]*storedMessage
}

type storedConversation struct {
	conversation.Conversation
	seq int64
}

type storedMessage struct {
	conversation.Message
	seq int64
}

// NewMemoryConversationRepository cria um repositório vazio
func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{
		conversations: make(map[string]*storedConversation),
		messages:      make(map[string][]*storedMessage),
	}
}

// ListConversations retorna as conversas do usuário, mais recentes primeiro
func (r *MemoryConversationRepository) ListConversations(ctx context.Context, userID string) ([]*conversation.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, conversation.NewStoreError("listar conversas", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]*storedConversation, 0)
	for _, c := range r.conversations {
		if c.UserID == userID {
			owned = append(owned, c)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].seq > owned[j].seq
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	out := make([]*conversation.Conversation, 0, len(owned))
	for _, c := range owned {
		cp := c.Conversation
		out = append(out, &cp)
	}
	return out, nil
}

// ListMessages retorna as mensagens de uma conversa do usuário, mais antigas primeiro
func (r *MemoryConversationRepository) ListMessages(ctx context.Context, userID, conversationID string) ([]*conversation.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, conversation.NewStoreError("listar mensagens", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*conversation.Message, 0)
	c, ok := r.conversations[conversationID]
	if !ok || c.UserID != userID {
		return out, nil
	}

	stored := append([]*storedMessage(nil), r.messages[conversationID]...)
	sort.SliceStable(stored, func(i, j int) bool {
		if stored[i].CreatedAt.Equal(stored[j].CreatedAt) {
			return stored[i].seq < stored[j].seq
		}
		return stored[i].CreatedAt.Before(stored[j].CreatedAt)
	})
	for _, m := range stored {
		cp := m.Message
		out = append(out, &cp)
	}
	return out, nil
}

// CreateConversation cria uma conversa com id e data gerados em memória
func (r *MemoryConversationRepository) CreateConversation(ctx context.Context, userID, title string) (*conversation.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, conversation.NewStoreError("criar conversa", err)
	}

	c := conversation.NewConversation(userID, title)
	c.ID = uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.conversations[c.ID] = &storedConversation{Conversation: *c, seq: r.seq}

	return c, nil
}

// DeleteConversation remove a conversa do usuário junto com suas mensagens
func (r *MemoryConversationRepository) DeleteConversation(ctx context.Context, userID, conversationID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, conversation.NewStoreError("excluir conversa", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[conversationID]
	if !ok || c.UserID != userID {
		return 0, nil
	}
	delete(r.conversations, conversationID)
	delete(r.messages, conversationID)

	return 1, nil
}

// CreateMessage insere a mensagem somente se a conversa pertencer ao usuário
func (r *MemoryConversationRepository) CreateMessage(ctx context.Context, userID string, message *conversation.Message) error {
	if err := ctx.Err(); err != nil {
		return conversation.NewStoreError("criar mensagem", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[message.ConversationID]
	if !ok || c.UserID != userID {
		return conversation.ErrConversationNotFound
	}

	message.ID = uuid.NewString()
	r.seq++
	r.messages[message.ConversationID] = append(r.messages[message.ConversationID], &storedMessage{Message: *message, seq: r.seq})

	return nil
}
