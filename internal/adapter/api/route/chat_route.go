package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chat-mobile/internal/adapter/api/controller"
	"github.com/hugohenrick/chat-mobile/internal/adapter/api/rpc"
)

// SetupChatRoutes registra os procedimentos do chat e expõe /trpc/:procedures
func SetupChatRoutes(router *gin.RouterGroup, chatController *controller.ChatController, rpcRouter *rpc.Router) {
	chatController.Register(rpcRouter)

	trpcRouter := router.Group("/trpc")
	{
		trpcRouter.GET("/:procedures", controller.HandleRPC(rpcRouter))
		trpcRouter.POST("/:procedures", controller.HandleRPC(rpcRouter))
	}
}
