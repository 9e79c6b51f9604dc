package dto

import "github.com/hugohenrick/chat-mobile/pkg/auth"

// UserResponse representa o usuário da sessão atual
type UserResponse struct {
	Sub     string `json:"sub"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// NewUserResponse converte o usuário da sessão para a resposta
func NewUserResponse(u auth.User) UserResponse {
	return UserResponse{
		Sub:     u.Sub,
		Name:    u.Name,
		Email:   u.Email,
		Picture: u.Picture,
	}
}
