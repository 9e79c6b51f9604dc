package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader é o cabeçalho usado para correlacionar requisições
const RequestIDHeader = "X-Request-ID"

// GinMiddleware registra cada requisição HTTP no logger informado
func GinMiddleware(log Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set("request_id", requestID)

		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).String(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("Requisição HTTP", kv...)
		case status >= 400:
			log.Warn("Requisição HTTP", kv...)
		default:
			log.Info("Requisição HTTP", kv...)
		}
	}
}
