package dto

// ErrorResponse representa a estrutura de resposta para erros
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SimpleErrorResponse é o formato {"error": "..."} das rotas de autenticação
type SimpleErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse representa a resposta do health check
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database,omitempty"`
}

// NewErrorResponse cria uma nova resposta de erro
func NewErrorResponse(code int, message, details string) ErrorResponse {
	return ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewSimpleErrorResponse cria uma resposta {"error": message}
func NewSimpleErrorResponse(message string) SimpleErrorResponse {
	return SimpleErrorResponse{Error: message}
}
