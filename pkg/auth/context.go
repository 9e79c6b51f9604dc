package auth

import (
	"context"
)

type contextKey string

const (
	// sessionKey é a chave usada para armazenar a sessão no contexto
	sessionKey contextKey = "auth_session"

	ginSessionKey = "auth_session"
)

// WithSession define a sessão no contexto
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext obtém a sessão do contexto
func SessionFromContext(ctx context.Context) *Session {
	if sess, ok := ctx.Value(sessionKey).(*Session); ok {
		return sess
	}
	return nil
}
