package main

// @title           Chat Mobile API
// @version         1.0
// @description     Backend do chat com IA: login via Auth0, conversas persistidas e respostas geradas pelo Gemini

// @contact.name   API Support

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name appSession
// @description Cookie de sessão emitido após o login em /api/auth/login
