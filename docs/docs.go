// Package docs registra a documentação OpenAPI servida em /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/callback": {
            "get": {
                "description": "Troca o código de autorização, grava a sessão e redireciona para /",
                "tags": ["auth"],
                "summary": "Callback do login",
                "parameters": [
                    {"type": "string", "description": "Código de autorização", "name": "code", "in": "query"},
                    {"type": "string", "description": "State do login", "name": "state", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "Redirecionamento", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Troca o código de autorização, grava a sessão e redireciona para /",
                "tags": ["auth"],
                "summary": "Callback do login",
                "responses": {
                    "302": {"description": "Redirecionamento", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "get": {
                "description": "Redireciona para a página de login do Auth0",
                "tags": ["auth"],
                "summary": "Inicia o login",
                "responses": {
                    "302": {"description": "Redirecionamento", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.SimpleErrorResponse"}}
                }
            }
        },
        "/api/auth/logout": {
            "get": {
                "description": "Remove a sessão local e redireciona para o logout do Auth0",
                "tags": ["auth"],
                "summary": "Encerra a sessão",
                "responses": {
                    "302": {"description": "Redirecionamento", "schema": {"type": "string"}}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "description": "Retorna o perfil do usuário autenticado",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Usuário atual",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.UserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.SimpleErrorResponse"}}
                }
            }
        },
        "/api/trpc/{procedures}": {
            "get": {
                "description": "Consultas (chat.getConversations, chat.getMessages) com ?input=. Com ?batch=1 os procedimentos são separados por vírgula.",
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Chamada de procedimentos do chat",
                "parameters": [
                    {"type": "string", "description": "Procedimentos separados por vírgula", "name": "procedures", "in": "path", "required": true},
                    {"type": "string", "description": "1 para chamadas em lote", "name": "batch", "in": "query"},
                    {"type": "string", "description": "Entrada JSON das consultas", "name": "input", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}},
                    "207": {"description": "Multi-Status", "schema": {"type": "array", "items": {"type": "object"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "array", "items": {"type": "object"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "array", "items": {"type": "object"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "array", "items": {"type": "object"}}}
                }
            },
            "post": {
                "description": "Mutações (chat.createConversation, chat.sendMessage, chat.deleteConversation) com corpo JSON indexado por posição.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Chamada de procedimentos do chat",
                "parameters": [
                    {"type": "string", "description": "Procedimentos separados por vírgula", "name": "procedures", "in": "path", "required": true},
                    {"type": "string", "description": "1 para chamadas em lote", "name": "batch", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}},
                    "207": {"description": "Multi-Status", "schema": {"type": "array", "items": {"type": "object"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "array", "items": {"type": "object"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "array", "items": {"type": "object"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "array", "items": {"type": "object"}}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Verifica se a API está no ar e se o banco responde",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "version": {"type": "string"},
                "database": {"type": "string"}
            }
        },
        "dto.SimpleErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "dto.UserResponse": {
            "type": "object",
            "properties": {
                "sub": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "picture": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo contém as informações exportadas da documentação
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Chat Mobile API",
	Description:      "Backend do chat com IA: login via Auth0, conversas persistidas e respostas geradas pelo Gemini",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
