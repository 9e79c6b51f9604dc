package conversation

import (
	"errors"
	"fmt"
)

// Erros específicos
var (
	ErrConversationNotFound = errors.New("conversation not found")
)

// StoreError representa uma falha reportada pelo banco de dados.
// Message carrega o texto original da falha.
type StoreError struct {
	Op      string
	Message string
	Err     error
}

// NewStoreError cria um StoreError a partir da falha original
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{
		Op:      op,
		Message: err.Error(),
		Err:     err,
	}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
