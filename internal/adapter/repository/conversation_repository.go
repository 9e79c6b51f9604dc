package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hugohenrick/chat-mobile/internal/domain/conversation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConversationRepository implementa conversation.Repository sobre o PostgreSQL.
// O dono da conversa é verificado dentro de cada consulta.
type PostgresConversationRepository struct {
	db *pgxpool.Pool
}

// NewPostgresConversationRepository cria um novo repositório de conversas
func NewPostgresConversationRepository(db *pgxpool.Pool) *PostgresConversationRepository {
	return &PostgresConversationRepository{
		db: db,
	}
}

// ListConversations retorna as conversas do usuário, mais recentes primeiro
func (r *PostgresConversationRepository) ListConversations(ctx context.Context, userID string) ([]*conversation.Conversation, error) {
	query := `
		SELECT id::text, user_id, title, created_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, conversation.NewStoreError("listar conversas", err)
	}
	defer rows.Close()

	conversations := []*conversation.Conversation{}
	for rows.Next() {
		c := &conversation.Conversation{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt); err != nil {
			return nil, conversation.NewStoreError("ler conversa", err)
		}
		conversations = append(conversations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, conversation.NewStoreError("iterar conversas", err)
	}

	return conversations, nil
}

// ListMessages retorna as mensagens de uma conversa do usuário, mais antigas primeiro
func (r *PostgresConversationRepository) ListMessages(ctx context.Context, userID, conversationID string) ([]*conversation.Message, error) {
	messages := []*conversation.Message{}
	if _, err := uuid.Parse(conversationID); err != nil {
		return messages, nil
	}

	query := `
		SELECT m.id::text, m.conversation_id::text, m.role, m.content, m.image_url, m.message_type, m.created_at
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE m.conversation_id = $1 AND c.user_id = $2
		ORDER BY m.created_at ASC
	`

	rows, err := r.db.Query(ctx, query, conversationID, userID)
	if err != nil {
		return nil, conversation.NewStoreError("listar mensagens", err)
	}
	defer rows.Close()

	for rows.Next() {
		m := &conversation.Message{}
		var role, messageType string
		if err := rows.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &m.ImageURL, &messageType, &m.CreatedAt); err != nil {
			return nil, conversation.NewStoreError("ler mensagem", err)
		}
		m.Role = conversation.Role(role)
		m.MessageType = conversation.MessageType(messageType)
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, conversation.NewStoreError("iterar mensagens", err)
	}

	return messages, nil
}

// CreateConversation cria uma conversa; o id e a data são gerados pelo banco
func (r *PostgresConversationRepository) CreateConversation(ctx context.Context, userID, title string) (*conversation.Conversation, error) {
	c := conversation.NewConversation(userID, title)

	query := `
		INSERT INTO conversations (user_id, title)
		VALUES ($1, $2)
		RETURNING id::text, created_at
	`

	if err := r.db.QueryRow(ctx, query, c.UserID, c.Title).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, conversation.NewStoreError("criar conversa", err)
	}

	return c, nil
}

// DeleteConversation remove a conversa do usuário; as mensagens são removidas em cascata.
// Conversas de outros usuários não são afetadas e não geram erro.
func (r *PostgresConversationRepository) DeleteConversation(ctx context.Context, userID, conversationID string) (int64, error) {
	if _, err := uuid.Parse(conversationID); err != nil {
		return 0, nil
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM conversations WHERE id = $1 AND user_id = $2", conversationID, userID)
	if err != nil {
		return 0, conversation.NewStoreError("excluir conversa", err)
	}

	return tag.RowsAffected(), nil
}

// CreateMessage insere a mensagem somente se a conversa pertencer ao usuário
func (r *PostgresConversationRepository) CreateMessage(ctx context.Context, userID string, message *conversation.Message) error {
	if _, err := uuid.Parse(message.ConversationID); err != nil {
		return conversation.ErrConversationNotFound
	}

	query := `
		INSERT INTO messages (conversation_id, role, content, image_url, message_type)
		SELECT $1::uuid, $2::text, $3::text, $4::text, $5::text
		WHERE EXISTS (
			SELECT 1 FROM conversations WHERE id = $1::uuid AND user_id = $6::text
		)
		RETURNING id::text, created_at
	`

	err := r.db.QueryRow(ctx, query,
		message.ConversationID,
		string(message.Role),
		message.Content,
		message.ImageURL,
		string(message.MessageType),
		userID,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return conversation.ErrConversationNotFound
		}
		return conversation.NewStoreError("criar mensagem", err)
	}

	return nil
}
