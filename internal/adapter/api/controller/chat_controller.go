package controller

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chat-mobile/internal/adapter/api/dto"
	"github.com/hugohenrick/chat-mobile/internal/adapter/api/rpc"
	"github.com/hugohenrick/chat-mobile/internal/domain/conversation"
	"github.com/hugohenrick/chat-mobile/pkg/auth"
	"github.com/hugohenrick/chat-mobile/pkg/chat"
	"github.com/hugohenrick/chat-mobile/pkg/logger"
)

// Nomes dos procedimentos expostos em /api/trpc
const (
	ProcGetConversations   = "chat.getConversations"
	ProcGetMessages        = "chat.getMessages"
	ProcCreateConversation = "chat.createConversation"
	ProcSendMessage        = "chat.sendMessage"
	ProcDeleteConversation = "chat.deleteConversation"
)

// ChatController expõe as operações de conversa como procedimentos RPC
type ChatController struct {
	service  *chat.Service
	provider auth.Provider
	logger   logger.Logger
}

// NewChatController cria uma nova instância de ChatController
func NewChatController(service *chat.Service, provider auth.Provider, log logger.Logger) *ChatController {
	return &ChatController{
		service:  service,
		provider: provider,
		logger:   log,
	}
}

// Register registra os procedimentos no router RPC
func (ctrl *ChatController) Register(r *rpc.Router) {
	r.Query(ProcGetConversations, ctrl.GetConversations)
	r.Query(ProcGetMessages, ctrl.GetMessages)
	r.Mutation(ProcCreateConversation, ctrl.CreateConversation)
	r.Mutation(ProcSendMessage, ctrl.SendMessage)
	r.Mutation(ProcDeleteConversation, ctrl.DeleteConversation)
}

// session resolve a sessão; procedimentos a verificam mesmo atrás do SessionGuard
func (ctrl *ChatController) session(c *gin.Context) *auth.Session {
	return auth.ResolveSession(c, ctrl.provider, ctrl.logger)
}

// GetConversations lista as conversas do usuário
func (ctrl *ChatController) GetConversations(c *gin.Context, _ json.RawMessage) (interface{}, error) {
	return ctrl.service.ListConversations(c.Request.Context(), ctrl.session(c))
}

// GetMessages lista as mensagens de uma conversa
func (ctrl *ChatController) GetMessages(c *gin.Context, input json.RawMessage) (interface{}, error) {
	sess := ctrl.session(c)
	if sess == nil {
		return nil, chat.Unauthorized()
	}

	var req dto.GetMessagesRequest
	if err := rpc.Bind(input, &req); err != nil {
		return nil, err
	}

	return ctrl.service.ListMessages(c.Request.Context(), sess, req.ConversationID)
}

// CreateConversation cria uma conversa
func (ctrl *ChatController) CreateConversation(c *gin.Context, input json.RawMessage) (interface{}, error) {
	sess := ctrl.session(c)
	if sess == nil {
		return nil, chat.Unauthorized()
	}

	var req dto.CreateConversationRequest
	if err := rpc.Bind(input, &req); err != nil {
		return nil, err
	}

	return ctrl.service.CreateConversation(c.Request.Context(), sess, req.Title)
}

// SendMessage executa uma troca de mensagens e retorna a resposta do assistente
func (ctrl *ChatController) SendMessage(c *gin.Context, input json.RawMessage) (interface{}, error) {
	sess := ctrl.session(c)
	if sess == nil {
		return nil, chat.Unauthorized()
	}

	var req dto.SendMessageRequest
	if err := rpc.Bind(input, &req); err != nil {
		return nil, err
	}

	return ctrl.service.SendMessage(c.Request.Context(), sess, chat.SendMessageInput{
		ConversationID: req.ConversationID,
		Content:        req.Content,
		MessageType:    conversation.MessageType(req.MessageType),
	})
}

// DeleteConversation remove uma conversa do usuário
func (ctrl *ChatController) DeleteConversation(c *gin.Context, input json.RawMessage) (interface{}, error) {
	sess := ctrl.session(c)
	if sess == nil {
		return nil, chat.Unauthorized()
	}

	var req dto.DeleteConversationRequest
	if err := rpc.Bind(input, &req); err != nil {
		return nil, err
	}

	if err := ctrl.service.DeleteConversation(c.Request.Context(), sess, req.ConversationID); err != nil {
		return nil, err
	}
	return dto.DeleteConversationResponse{Success: true}, nil
}

// HandleRPC godoc
// @Summary Chamada de procedimentos do chat
// @Description Executa procedimentos no formato tRPC. Consultas (chat.getConversations, chat.getMessages) usam GET com ?input=;
// @Description mutações (chat.createConversation, chat.sendMessage, chat.deleteConversation) usam POST com corpo JSON.
// @Description Com ?batch=1 os procedimentos são separados por vírgula e as entradas indexadas ("0", "1", ...).
// @Tags chat
// @Accept json
// @Produce json
// @Param procedures path string true "Procedimentos separados por vírgula"
// @Param batch query string false "1 para chamadas em lote"
// @Param input query string false "Entrada JSON das consultas"
// @Success 200 {array} object
// @Success 207 {array} object
// @Failure 400 {array} object
// @Failure 401 {array} object
// @Failure 500 {array} object
// @Router /api/trpc/{procedures} [get]
// @Router /api/trpc/{procedures} [post]
func HandleRPC(r *rpc.Router) gin.HandlerFunc {
	return r.Handle
}
