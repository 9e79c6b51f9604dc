package rpc

import (
	"net/http"

	"github.com/hugohenrick/chat-mobile/pkg/chat"
)

// jsonRPCCodes segue a numeração usada pelos clientes tRPC
var jsonRPCCodes = map[chat.Code]int{
	chat.CodeParseError:         -32700,
	chat.CodeBadRequest:         -32600,
	chat.CodeInternal:           -32603,
	chat.CodeUnauthorized:       -32001,
	chat.CodeNotFound:           -32004,
	chat.CodeMethodNotSupported: -32005,
}

var httpStatuses = map[chat.Code]int{
	chat.CodeParseError:         http.StatusBadRequest,
	chat.CodeBadRequest:         http.StatusBadRequest,
	chat.CodeInternal:           http.StatusInternalServerError,
	chat.CodeUnauthorized:       http.StatusUnauthorized,
	chat.CodeNotFound:           http.StatusNotFound,
	chat.CodeMethodNotSupported: http.StatusMethodNotAllowed,
}

// HTTPStatus retorna o status HTTP de um código de erro
func HTTPStatus(code chat.Code) int {
	if status, ok := httpStatuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func newErrorEnvelope(err *chat.Error, path string) errorEnvelope {
	code, ok := jsonRPCCodes[err.Code]
	if !ok {
		code = jsonRPCCodes[chat.CodeInternal]
	}
	return errorEnvelope{
		Error: errorPayload{
			JSON: errorShape{
				Message: err.Message,
				Code:    code,
				Data: errorData{
					Code:       string(err.Code),
					HTTPStatus: HTTPStatus(err.Code),
					Path:       path,
				},
			},
		},
	}
}
