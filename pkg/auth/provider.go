package auth

import "net/http"

// Provider é a capacidade de identidade usada pela aplicação.
// A emissão e validação de tokens ficam a cargo do provedor externo.
type Provider interface {
	// GetSession retorna a sessão da requisição ou nil quando não há sessão
	GetSession(r *http.Request) (*Session, error)
	// StartLogin redireciona o usuário para o login do provedor
	StartLogin(w http.ResponseWriter, r *http.Request) error
	// HandleCallback conclui o login e grava a sessão
	HandleCallback(w http.ResponseWriter, r *http.Request) (*Session, error)
	// EndSession remove a sessão local e retorna a URL de logout do provedor
	EndSession(w http.ResponseWriter, r *http.Request) (string, error)
}

// SessionToucher é implementado por provedores com sessões deslizantes
type SessionToucher interface {
	TouchSession(w http.ResponseWriter, sess *Session) error
}
