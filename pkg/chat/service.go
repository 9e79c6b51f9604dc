package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hugohenrick/chat-mobile/internal/domain/conversation"
	"github.com/hugohenrick/chat-mobile/pkg/auth"
	"github.com/hugohenrick/chat-mobile/pkg/gemini"
	"github.com/hugohenrick/chat-mobile/pkg/logger"
)

// Recorder recebe as observações do serviço; metrics.Metrics o implementa
type Recorder interface {
	ObserveExchange(messageType, outcome string)
	ObserveGeneration(kind, outcome string, elapsed time.Duration)
	ObserveStoreError(operation string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveExchange(string, string)                  {}
func (nopRecorder) ObserveGeneration(string, string, time.Duration) {}
func (nopRecorder) ObserveStoreError(string)                        {}

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// SendMessageInput são os dados de uma troca de mensagens.
// ConversationID vazio cria uma conversa com título derivado do conteúdo.
type SendMessageInput struct {
	ConversationID string
	Content        string
	MessageType    conversation.MessageType
}

// Service implementa as operações de conversa e a troca de mensagens
type Service struct {
	repo      conversation.Repository
	generator gemini.Generator
	recorder  Recorder
	logger    logger.Logger
}

// NewService cria um novo serviço de chat; recorder pode ser nil
func NewService(repo conversation.Repository, generator gemini.Generator, recorder Recorder, log logger.Logger) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		repo:      repo,
		generator: generator,
		recorder:  recorder,
		logger:    log,
	}
}

// ListConversations retorna as conversas do usuário, mais recentes primeiro
func (s *Service) ListConversations(ctx context.Context, sess *auth.Session) ([]*conversation.Conversation, error) {
	if sess == nil {
		return nil, Unauthorized()
	}

	conversations, err := s.repo.ListConversations(ctx, sess.User.Sub)
	if err != nil {
		return nil, s.storeFailure("list_conversations", sess, err)
	}
	return conversations, nil
}

// ListMessages retorna as mensagens da conversa, mais antigas primeiro
func (s *Service) ListMessages(ctx context.Context, sess *auth.Session, conversationID string) ([]*conversation.Message, error) {
	if sess == nil {
		return nil, Unauthorized()
	}

	messages, err := s.repo.ListMessages(ctx, sess.User.Sub, conversationID)
	if err != nil {
		return nil, s.storeFailure("list_messages", sess, err)
	}
	return messages, nil
}

// CreateConversation cria uma conversa; título vazio vira "New Conversation"
func (s *Service) CreateConversation(ctx context.Context, sess *auth.Session, title string) (*conversation.Conversation, error) {
	if sess == nil {
		return nil, Unauthorized()
	}

	c, err := s.repo.CreateConversation(ctx, sess.User.Sub, title)
	if err != nil {
		return nil, s.storeFailure("create_conversation", sess, err)
	}

	s.logger.Info("Conversa criada", "sub", sess.User.Sub, "conversation_id", c.ID)
	return c, nil
}

// DeleteConversation remove a conversa se pertencer ao usuário.
// Conversas de outros usuários não são removidas e não geram erro.
func (s *Service) DeleteConversation(ctx context.Context, sess *auth.Session, conversationID string) error {
	if sess == nil {
		return Unauthorized()
	}

	n, err := s.repo.DeleteConversation(ctx, sess.User.Sub, conversationID)
	if err != nil {
		return s.storeFailure("delete_conversation", sess, err)
	}

	s.logger.Info("Conversa excluída", "sub", sess.User.Sub, "conversation_id", conversationID, "rows", n)
	return nil
}

// SendMessage executa a troca: grava a mensagem do usuário, chama a geração,
// grava a resposta do assistente e a retorna. Não há rollback: uma falha na
// geração ou na segunda gravação mantém a mensagem do usuário.
func (s *Service) SendMessage(ctx context.Context, sess *auth.Session, in SendMessageInput) (*conversation.Message, error) {
	if sess == nil {
		return nil, Unauthorized()
	}
	if in.MessageType == "" {
		in.MessageType = conversation.MessageTypeText
	}
	if !in.MessageType.IsValid() {
		return nil, BadRequest("invalid messageType", nil)
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, BadRequest("content must not be empty", nil)
	}

	msg, err := s.exchange(ctx, sess, in)
	if err != nil {
		s.recorder.ObserveExchange(string(in.MessageType), outcomeError)
		return nil, err
	}

	s.recorder.ObserveExchange(string(in.MessageType), outcomeSuccess)
	return msg, nil
}

func (s *Service) exchange(ctx context.Context, sess *auth.Session, in SendMessageInput) (*conversation.Message, error) {
	userID := sess.User.Sub

	conversationID := in.ConversationID
	if conversationID == "" {
		c, err := s.repo.CreateConversation(ctx, userID, conversation.TitleFromContent(in.Content))
		if err != nil {
			return nil, s.storeFailure("create_conversation", sess, err)
		}
		conversationID = c.ID
		s.logger.Info("Conversa criada pela primeira mensagem", "sub", userID, "conversation_id", conversationID)
	}

	userMsg := conversation.NewUserMessage(conversationID, in.Content, in.MessageType)
	if err := s.repo.CreateMessage(ctx, userID, userMsg); err != nil {
		return nil, s.storeFailure("create_user_message", sess, err)
	}

	reply, err := s.generate(ctx, in.MessageType, in.Content)
	if err != nil {
		s.logger.Error("Erro na geração da resposta",
			"sub", userID,
			"conversation_id", conversationID,
			"message_type", in.MessageType,
			"error", errors.Unwrap(err))
		return nil, Internal(err.Error(), err)
	}

	assistantMsg := conversation.NewAssistantMessage(conversationID, reply, in.MessageType)
	if err := s.repo.CreateMessage(ctx, userID, assistantMsg); err != nil {
		return nil, s.storeFailure("create_assistant_message", sess, err)
	}

	s.logger.Info("Troca de mensagens concluída",
		"sub", userID,
		"conversation_id", conversationID,
		"message_type", in.MessageType)

	return assistantMsg, nil
}

func (s *Service) generate(ctx context.Context, messageType conversation.MessageType, prompt string) (string, error) {
	start := time.Now()

	var (
		out  string
		err  error
		kind = gemini.KindText
	)
	if messageType == conversation.MessageTypeImage {
		kind = gemini.KindImage
		out, err = s.generator.GenerateImage(ctx, prompt)
	} else {
		out, err = s.generator.GenerateText(ctx, prompt)
	}

	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
		var genErr *gemini.GenerationError
		if !errors.As(err, &genErr) {
			err = &gemini.GenerationError{Kind: kind, Err: err}
		}
	}
	s.recorder.ObserveGeneration(string(kind), outcome, time.Since(start))

	return out, err
}

func (s *Service) storeFailure(op string, sess *auth.Session, err error) *Error {
	chatErr := fromStoreError(err)
	if chatErr.Code == CodeInternal {
		s.recorder.ObserveStoreError(op)
		s.logger.Error("Erro no banco de dados", "operation", op, "sub", sess.User.Sub, "error", err)
	} else {
		s.logger.Warn("Conversa não encontrada", "operation", op, "sub", sess.User.Sub)
	}
	return chatErr
}
