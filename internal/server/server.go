package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vitormoschetta/go-chat-gateway/internal/config"
	"github.com/vitormoschetta/go-chat-gateway/internal/service"
)

// Server representa o servidor HTTP com todas as dependências
type Server struct {
	Config *config.Config
	Chat   *service.OpenRouterClient
	Logger *slog.Logger
	Router chi.Router
}

// NewServer cria uma nova instância do servidor
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := url.ParseRequestURI(cfg.OpenRouter.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid openrouter base url %q: %w", cfg.OpenRouter.BaseURL, err)
	}

	if !cfg.OpenRouter.HasAPIKey() {
		logger.Warn("OpenRouter API key not configured, /api/chat will answer with placeholder content",
			"env", "OPENROUTER_API_KEY")
	}

	if info, err := os.Stat(cfg.FrontendDir); err != nil || !info.IsDir() {
		logger.Warn("frontend directory not found, static routes will return 404", "dir", cfg.FrontendDir)
	}

	s := &Server{
		Config: cfg,
		Chat:   service.NewOpenRouterClient(cfg.OpenRouter),
		Logger: logger,
	}

	return s, nil
}

// SetupRouter configura as rotas e middlewares do Chi
func (s *Server) SetupRouter(
	handleIndex func(http.ResponseWriter, *http.Request),
	handleScript func(http.ResponseWriter, *http.Request),
	handleStyles func(http.ResponseWriter, *http.Request),
	handleHealth func(http.ResponseWriter, *http.Request),
	handleChat func(http.ResponseWriter, *http.Request),
) {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&slogFormatter{logger: s.Logger}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	// Frontend
	r.Get("/", handleIndex)
	r.Get("/webapp.js", handleScript)
	r.Get("/webapp-styles.css", handleStyles)

	r.Get("/health", handleHealth)

	// API Routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", handleChat)
	})

	s.Router = r
}

// Start inicia o servidor HTTP e bloqueia até ctx ser cancelado (graceful shutdown)
// ou até ListenAndServe falhar.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.Config.Addr(),
		Handler:      s.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.Config.OpenRouter.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)

	// Goroutine para iniciar o servidor
	go func() {
		s.Logger.Info("🚀 Go chat gateway listening", "addr", httpServer.Addr)
		s.Logger.Info("📌 Endpoints",
			"frontend", "GET / , /webapp.js , /webapp-styles.css",
			"health", "GET /health",
			"chat", "POST /api/chat",
		)
		s.Logger.Info(`💡 curl -X POST http://localhost` + httpServer.Addr + `/api/chat -H "Content-Type: application/json" -d '{"message":"Hello"}'`)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Aguardar sinal de interrupção
	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.Logger.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.Logger.Info("✅ Server stopped gracefully")
	return nil
}
