package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hugohenrick/chat-mobile/pkg/config"
	"github.com/hugohenrick/chat-mobile/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		log.Warn("Arquivo .env não encontrado", "error", envErr)
	}

	// Criar aplicação
	app, err := NewApp(cfg, log)
	if err != nil {
		log.Error("Erro ao inicializar aplicação", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           app.GetRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Iniciar o servidor
	go func() {
		log.Info("Servidor iniciado", "addr", srv.Addr, "base_url", cfg.Auth0.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Erro no servidor HTTP", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Encerrando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Erro ao encerrar servidor", "error", err)
	}
}
