package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chat-mobile/internal/adapter/api/dto"
	"github.com/hugohenrick/chat-mobile/pkg/logger"
)

// Version é a versão reportada pelo health check
const Version = "1.0.0"

// Pinger é implementado por dependências que podem ser verificadas
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController atende o health check
type HealthController struct {
	db     Pinger
	logger logger.Logger
}

// NewHealthController cria o controller; db nil indica armazenamento em memória
func NewHealthController(db Pinger, log logger.Logger) *HealthController {
	return &HealthController{db: db, logger: log}
}

// Health godoc
// @Summary Health check
// @Description Verifica se a API está no ar e se o banco responde
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (ctrl *HealthController) Health(c *gin.Context) {
	resp := dto.HealthResponse{Status: "ok", Version: Version, Database: "memory"}

	if ctrl.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := ctrl.db.Ping(ctx); err != nil {
			ctrl.logger.Error("Banco de dados indisponível", "error", err)
			resp.Status = "degraded"
			resp.Database = "unavailable"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		resp.Database = "ok"
	}

	c.JSON(http.StatusOK, resp)
}
