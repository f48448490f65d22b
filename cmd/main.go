package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vitormoschetta/go-chat-gateway/internal/config"
	"github.com/vitormoschetta/go-chat-gateway/internal/handler"
	"github.com/vitormoschetta/go-chat-gateway/internal/logging"
	"github.com/vitormoschetta/go-chat-gateway/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded")
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.Init(cfg)
	if err != nil {
		logger.Warn("could not open log file, logging to stderr", "file", cfg.LogFile, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Criar servidor
	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Criar handlers
	h := handler.NewHandler(srv)

	// Configurar rotas com os handlers
	srv.SetupRouter(h.HandleIndex, h.HandleScript, h.HandleStyles, h.HandleHealth, h.HandleChat)

	// Iniciar servidor
	if err := srv.Start(ctx); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
