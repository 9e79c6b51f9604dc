package conversation

import "context"

// Repository define as operações de persistência de conversas e mensagens.
// Todas as operações são filtradas pelo usuário dono (sub do provedor de identidade).
type Repository interface {
	// ListConversations retorna as conversas do usuário, mais recentes primeiro
	ListConversations(ctx context.Context, userID string) ([]*Conversation, error)

	// ListMessages retorna as mensagens de uma conversa do usuário, mais antigas primeiro.
	// Conversas de outros usuários resultam em lista vazia.
	ListMessages(ctx context.Context, userID, conversationID string) ([]*Message, error)

	// CreateConversation cria uma conversa; título vazio usa DefaultTitle
	CreateConversation(ctx context.Context, userID, title string) (*Conversation, error)

	// DeleteConversation remove a conversa se pertencer ao usuário e retorna
	// a quantidade de linhas afetadas
	DeleteConversation(ctx context.Context, userID, conversationID string) (int64, error)

	// CreateMessage insere uma mensagem em uma conversa do usuário.
	// Retorna ErrConversationNotFound se a conversa não pertencer a ele.
	CreateMessage(ctx context.Context, userID string, message *Message) error
}
