package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chat-mobile/internal/adapter/api/dto"
	"github.com/hugohenrick/chat-mobile/pkg/auth"
	"github.com/hugohenrick/chat-mobile/pkg/logger"
)

// AuthController gerencia as rotas /api/auth/*
type AuthController struct {
	provider auth.Provider
	logger   logger.Logger
}

// NewAuthController cria uma nova instância de AuthController
func NewAuthController(provider auth.Provider, log logger.Logger) *AuthController {
	return &AuthController{
		provider: provider,
		logger:   log,
	}
}

// Handle despacha /api/auth/:action conforme o método e a ação
func (ctrl *AuthController) Handle(c *gin.Context) {
	action := strings.Trim(c.Param("action"), "/")

	switch c.Request.Method {
	case http.MethodGet:
		switch action {
		case "login":
			ctrl.Login(c)
		case "callback":
			ctrl.Callback(c)
		case "logout":
			ctrl.Logout(c)
		case "me":
			ctrl.Me(c)
		default:
			ctrl.notFound(c)
		}
	case http.MethodPost:
		switch action {
		case "callback":
			ctrl.Callback(c)
		case "me":
			ctrl.methodNotAllowed(c)
		default:
			ctrl.notFound(c)
		}
	default:
		ctrl.methodNotAllowed(c)
	}
}

// Login redireciona para o provedor de identidade
// @Summary Inicia o login
// @Description Redireciona para a página de login do Auth0
// @Tags auth
// @Success 302 {string} string "Redirecionamento"
// @Failure 500 {object} dto.SimpleErrorResponse
// @Router /api/auth/login [get]
func (ctrl *AuthController) Login(c *gin.Context) {
	if err := ctrl.provider.StartLogin(c.Writer, c.Request); err != nil {
		ctrl.logger.Error("Erro ao iniciar login", "error", err)
		c.JSON(http.StatusInternalServerError, dto.NewSimpleErrorResponse("Internal server error"))
	}
}

// Callback conclui o login e redireciona para a página inicial
// @Summary Callback do login
// @Description Troca o código de autorização, grava a sessão e redireciona para /
// @Tags auth
// @Param code query string false "Código de autorização"
// @Param state query string false "State do login"
// @Success 302 {string} string "Redirecionamento"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/auth/callback [get]
// @Router /api/auth/callback [post]
func (ctrl *AuthController) Callback(c *gin.Context) {
	sess, err := ctrl.provider.HandleCallback(c.Writer, c.Request)
	if err != nil {
		status := http.StatusInternalServerError
		var cbErr *auth.CallbackError
		if errors.As(err, &cbErr) || errors.Is(err, auth.ErrStateMismatch) || errors.Is(err, auth.ErrMissingCode) {
			status = http.StatusBadRequest
		}
		ctrl.logger.Warn("Falha no callback de login", "status", status, "error", err)
		c.JSON(status, dto.NewErrorResponse(status, "Falha ao concluir login", err.Error()))
		return
	}

	ctrl.logger.Debug("Sessão criada", "sub", sess.User.Sub)
	c.Redirect(http.StatusFound, "/")
}

// Logout encerra a sessão
// @Summary Encerra a sessão
// @Description Remove a sessão local e redireciona para o logout do Auth0
// @Tags auth
// @Success 302 {string} string "Redirecionamento"
// @Router /api/auth/logout [get]
func (ctrl *AuthController) Logout(c *gin.Context) {
	target, err := ctrl.provider.EndSession(c.Writer, c.Request)
	if err != nil {
		ctrl.logger.Error("Erro ao encerrar sessão", "error", err)
		c.JSON(http.StatusInternalServerError, dto.NewSimpleErrorResponse("Internal server error"))
		return
	}
	c.Redirect(http.StatusFound, target)
}

// Me retorna o usuário da sessão atual
// @Summary Usuário atual
// @Description Retorna o perfil do usuário autenticado
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.SimpleErrorResponse
// @Router /api/auth/me [get]
func (ctrl *AuthController) Me(c *gin.Context) {
	sess := auth.ResolveSession(c, ctrl.provider, ctrl.logger)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, dto.NewSimpleErrorResponse("Not authenticated"))
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(sess.User))
}

func (ctrl *AuthController) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewSimpleErrorResponse("Not found"))
}

func (ctrl *AuthController) methodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, dto.NewSimpleErrorResponse("Method not allowed"))
}
