package chat

import (
	"errors"
	"fmt"

	"github.com/hugohenrick/chat-mobile/internal/domain/conversation"
)

// Code é o código de erro exposto aos clientes
type Code string

const (
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeParseError         Code = "PARSE_ERROR"
	CodeNotFound           Code = "NOT_FOUND"
	CodeMethodNotSupported Code = "METHOD_NOT_SUPPORTED"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
)

// Error é o erro tipado retornado pelas operações do serviço.
// Message é seguro para o cliente; Err guarda a causa para o log.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unauthorized cria um erro de autenticação
func Unauthorized() *Error {
	return &Error{Code: CodeUnauthorized, Message: "UNAUTHORIZED"}
}

// BadRequest cria um erro de entrada inválida
func BadRequest(message string, err error) *Error {
	return &Error{Code: CodeBadRequest, Message: message, Err: err}
}

// NotFound cria um erro de recurso inexistente
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// Internal cria um erro interno com mensagem segura para o cliente
func Internal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

// AsError converte qualquer erro em *Error, tratando como interno o que não for tipado
func AsError(err error) *Error {
	var chatErr *Error
	if errors.As(err, &chatErr) {
		return chatErr
	}
	return Internal(err.Error(), err)
}

// fromStoreError traduz uma falha do repositório
func fromStoreError(err error) *Error {
	if errors.Is(err, conversation.ErrConversationNotFound) {
		return NotFound("Conversation not found")
	}
	var storeErr *conversation.StoreError
	if errors.As(err, &storeErr) {
		return Internal(storeErr.Message, err)
	}
	return Internal(err.Error(), err)
}
