package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/hugohenrick/chat-mobile/docs"
	"github.com/hugohenrick/chat-mobile/internal/adapter/api/controller"
	"github.com/hugohenrick/chat-mobile/internal/adapter/api/route"
	"github.com/hugohenrick/chat-mobile/internal/adapter/api/rpc"
	"github.com/hugohenrick/chat-mobile/internal/adapter/repository"
	"github.com/hugohenrick/chat-mobile/internal/domain/conversation"
	"github.com/hugohenrick/chat-mobile/internal/infrastructure/database"
	"github.com/hugohenrick/chat-mobile/pkg/auth"
	"github.com/hugohenrick/chat-mobile/pkg/chat"
	"github.com/hugohenrick/chat-mobile/pkg/config"
	"github.com/hugohenrick/chat-mobile/pkg/gemini"
	"github.com/hugohenrick/chat-mobile/pkg/logger"
	"github.com/hugohenrick/chat-mobile/pkg/metrics"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// App representa a aplicação e suas dependências
type App struct {
	config  *config.Config
	logger  logger.Logger
	router  *gin.Engine
	db      *database.PostgresDB
	metrics *metrics.Metrics

	authController   *controller.AuthController
	chatController   *controller.ChatController
	healthController *controller.HealthController
	rpcRouter        *rpc.Router
	provider         auth.Provider
}

// NewApp cria uma nova instância do aplicativo
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	m := metrics.New()

	repo, db, err := newConversationRepository(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	provider, err := auth.NewAuth0Provider(auth.Auth0Config{
		IssuerBaseURL: cfg.Auth0.IssuerBaseURL,
		ClientID:      cfg.Auth0.ClientID,
		ClientSecret:  cfg.Auth0.ClientSecret,
		BaseURL:       cfg.Auth0.BaseURL,
		Secret:        cfg.Auth0.Secret,
		Scopes:        cfg.Auth0.Scopes,
		Session: auth.SessionOptions{
			Absolute:   cfg.Auth0.SessionTTL,
			Inactivity: cfg.Auth0.Inactivity,
			Rolling:    cfg.Auth0.Rolling,
		},
	}, log)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("erro ao criar provedor de autenticação: %w", err)
	}

	generator := gemini.NewClient(gemini.Config{
		APIKey:              cfg.Gemini.APIKey,
		BaseURL:             cfg.Gemini.BaseURL,
		TextModel:           cfg.Gemini.TextModel,
		ImageModel:          cfg.Gemini.ImageModel,
		Timeout:             cfg.Gemini.Timeout,
		PlaceholderImageURL: cfg.Gemini.PlaceholderImageURL,
	}, log)

	chatService := chat.NewService(repo, generator, m, log)

	// Sem banco o health check reporta armazenamento em memória
	var pinger controller.Pinger
	if db != nil {
		pinger = db
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		config:           cfg,
		logger:           log,
		router:           gin.New(),
		db:               db,
		metrics:          m,
		authController:   controller.NewAuthController(provider, log),
		chatController:   controller.NewChatController(chatService, provider, log),
		healthController: controller.NewHealthController(pinger, log),
		rpcRouter:        rpc.NewRouter(log),
		provider:         provider,
	}
	app.setupMiddlewares()
	app.SetupRoutes()

	log.Info("Procedimentos RPC registrados", "procedures", strings.Join(app.rpcRouter.Procedures(), ","))

	return app, nil
}

// newConversationRepository escolhe o armazenamento: Postgres quando há
// DATABASE_URL, memória caso contrário.
func newConversationRepository(cfg config.DatabaseConfig, log logger.Logger) (conversation.Repository, *database.PostgresDB, error) {
	if cfg.URL == "" {
		log.Warn("DATABASE_URL não configurada, usando armazenamento em memória")
		return repository.NewMemoryConversationRepository(), nil, nil
	}

	if cfg.AutoMigrate {
		log.Info("Aplicando migrações", "path", cfg.MigrationsPath)
		if err := database.RunMigrations(cfg.MigrationsPath, cfg.URL); err != nil {
			return nil, nil, err
		}
	}

	dbConfig := database.NewPostgresConfigFromEnv()
	dbConfig.URL = cfg.URL
	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		return nil, nil, err
	}

	log.Info("Conectado ao banco de dados")
	return repository.NewPostgresConversationRepository(db.Pool()), db, nil
}

func (a *App) setupMiddlewares() {
	a.router.Use(gin.Recovery())
	a.router.Use(logger.GinMiddleware(a.logger))
	a.router.Use(a.metrics.GinMiddleware())
	a.router.Use(cors.New(a.corsConfig()))
	a.router.Use(auth.SessionGuard(a.provider, a.logger))
}

// corsConfig libera as origens configuradas ou, na falta delas, a própria aplicação
func (a *App) corsConfig() cors.Config {
	origins := a.config.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{a.config.Auth0.BaseURL}
	}

	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// SetupRoutes configura as rotas da aplicação
func (a *App) SetupRoutes() {
	a.router.GET("/health", a.healthController.Health)
	a.router.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	a.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := a.router.Group("/api")
	route.SetupAuthRoutes(api, a.authController)
	route.SetupChatRoutes(api, a.chatController, a.rpcRouter)
}

// GetRouter retorna o router da aplicação
func (a *App) GetRouter() *gin.Engine {
	return a.router
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
