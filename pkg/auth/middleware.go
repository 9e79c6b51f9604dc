package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chat-mobile/pkg/logger"
)

// LoginPath é o destino dos redirecionamentos de requisições sem sessão
const LoginPath = "/api/auth/login"

// excludedPrefixes são caminhos que não exigem sessão
var excludedPrefixes = []string{
	"/api/auth",
	"/health",
	"/metrics",
	"/swagger",
}

func isExcludedPath(path string) bool {
	for _, prefix := range excludedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// SessionGuard redireciona para o login as requisições sem sessão.
// Com sessão, ela fica disponível via CurrentSession e no contexto da requisição.
func SessionGuard(provider Provider, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isExcludedPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		sess := ResolveSession(c, provider, log)
		if sess == nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		if toucher, ok := provider.(SessionToucher); ok {
			if err := toucher.TouchSession(c.Writer, sess); err != nil {
				log.Warn("Erro ao renovar sessão", "sub", sess.User.Sub, "error", err)
			}
		}

		c.Next()
	}
}

// ResolveSession busca a sessão no provedor e a registra no contexto.
// Falhas são registradas e tratadas como ausência de sessão.
func ResolveSession(c *gin.Context, provider Provider, log logger.Logger) *Session {
	if sess := CurrentSession(c); sess != nil {
		return sess
	}

	sess, err := provider.GetSession(c.Request)
	if err != nil {
		log.Warn("Sessão inválida", "path", c.Request.URL.Path, "error", err)
		return nil
	}
	if sess == nil {
		return nil
	}

	c.Set(ginSessionKey, sess)
	c.Request = c.Request.WithContext(WithSession(c.Request.Context(), sess))
	return sess
}

// CurrentSession obtém a sessão registrada no contexto do Gin
func CurrentSession(c *gin.Context) *Session {
	if v, exists := c.Get(ginSessionKey); exists {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	return SessionFromContext(c.Request.Context())
}
