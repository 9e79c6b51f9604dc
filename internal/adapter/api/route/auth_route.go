package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chat-mobile/internal/adapter/api/controller"
)

// SetupAuthRoutes configura as rotas de autenticação.
// Todos os métodos chegam ao controller, que responde 404/405 quando cabível.
func SetupAuthRoutes(router *gin.RouterGroup, authController *controller.AuthController) {
	authRouter := router.Group("/auth")
	{
		authRouter.Any("/*action", authController.Handle)
	}
}
