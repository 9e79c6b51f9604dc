package conversation

import (
	"time"
	"unicode/utf8"
)

// DefaultTitle é o título usado quando a conversa é criada sem título
const DefaultTitle = "New Conversation"

// maxDerivedTitleRunes limita o título derivado do primeiro conteúdo
const maxDerivedTitleRunes = 50

// Role representa o autor de uma mensagem
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageType representa o tipo de troca solicitada pelo usuário
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
)

// IsValid verifica se o tipo de mensagem é suportado
func (t MessageType) IsValid() bool {
	return t == MessageTypeText || t == MessageTypeImage
}

// Conversation representa um tópico de chat pertencente a um único usuário
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Message representa uma mensagem de uma conversa
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	Role           Role        `json:"role"`
	Content        string      `json:"content"`
	ImageURL       *string     `json:"image_url"`
	MessageType    MessageType `json:"message_type"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewConversation cria uma conversa aplicando o título padrão quando vazio
func NewConversation(userID, title string) *Conversation {
	if title == "" {
		title = DefaultTitle
	}
	return &Conversation{
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
	}
}

// NewUserMessage cria a mensagem do usuário de uma troca
func NewUserMessage(conversationID, content string, messageType MessageType) *Message {
	return &Message{
		ConversationID: conversationID,
		Role:           RoleUser,
		Content:        content,
		MessageType:    messageType,
		CreatedAt:      time.Now(),
	}
}

// NewAssistantMessage cria a resposta do assistente. Em trocas de imagem o
// conteúdo é a URL gerada, que também é registrada em ImageURL.
func NewAssistantMessage(conversationID, content string, messageType MessageType) *Message {
	msg := &Message{
		ConversationID: conversationID,
		Role:           RoleAssistant,
		Content:        content,
		MessageType:    messageType,
		CreatedAt:      time.Now(),
	}
	if messageType == MessageTypeImage {
		url := content
		msg.ImageURL = &url
	}
	return msg
}

// TitleFromContent deriva o título de uma conversa a partir da primeira mensagem
func TitleFromContent(content string) string {
	if content == "" {
		return DefaultTitle
	}
	if utf8.RuneCountInString(content) <= maxDerivedTitleRunes {
		return content
	}
	runes := []rune(content)
	return string(runes[:maxDerivedTitleRunes]) + "..."
}
