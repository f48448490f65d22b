package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vitormoschetta/go-chat-gateway/internal/config"
	"github.com/vitormoschetta/go-chat-gateway/internal/model"
)

// ErrMissingAPIKey indica que nenhuma credencial do OpenRouter foi configurada
var ErrMissingAPIKey = errors.New("openrouter api key not configured")

// StatusError representa uma resposta não-200 do upstream, com o corpo bruto
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API Error %d: %s", e.Code, e.Body)
}

// AuthenticatedTransport adiciona os headers de autenticação e atribuição às requisições HTTP
type AuthenticatedTransport struct {
	Base        http.RoundTripper
	Token       string
	HTTPReferer string
	XTitle      string
}

func (t *AuthenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clonar a requisição para não modificar a original
	reqCopy := req.Clone(req.Context())

	reqCopy.Header.Set("Authorization", "Bearer "+t.Token)
	if reqCopy.Header.Get("X-Request-Id") == "" {
		reqCopy.Header.Set("X-Request-Id", uuid.New().String())
	}
	if t.HTTPReferer != "" {
		reqCopy.Header.Set("HTTP-Referer", t.HTTPReferer)
	}
	if t.XTitle != "" {
		reqCopy.Header.Set("X-Title", t.XTitle)
	}

	slog.Debug("openrouter_request",
		"method", reqCopy.Method,
		"url", reqCopy.URL.String(),
		"request_id", reqCopy.Header.Get("X-Request-Id"),
	)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(reqCopy)
}

// maxResponseBytes limita quanto da resposta do upstream é lido
const maxResponseBytes = 4 << 20

// OpenRouterClient envia mensagens para a API de chat completions do OpenRouter
type OpenRouterClient struct {
	cfg              config.OpenRouterConfig
	httpClient       *http.Client
	maxResponseBytes int64
}

// NewOpenRouterClient cria o cliente. Sem chave configurada, Complete
// retorna ErrMissingAPIKey sem tocar a rede.
func NewOpenRouterClient(cfg config.OpenRouterConfig) *OpenRouterClient {
	return &OpenRouterClient{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: &AuthenticatedTransport{
				Base:        http.DefaultTransport,
				Token:       cfg.APIKey,
				HTTPReferer: cfg.HTTPReferer,
				XTitle:      cfg.XTitle,
			},
			Timeout: cfg.Timeout,
		},
		maxResponseBytes: maxResponseBytes,
	}
}

// Configured indica se o cliente tem uma chave utilizável
func (c *OpenRouterClient) Configured() bool {
	return c.cfg.HasAPIKey()
}

// Complete envia uma única mensagem de usuário e devolve choices[0].message.content.
//
// Erros possíveis:
//   - ErrMissingAPIKey quando não há chave
//   - *StatusError quando o upstream responde com status diferente de 200
//   - erros de transporte, timeout ou decodificação (wrapped)
func (c *OpenRouterClient) Complete(ctx context.Context, message, modelName string) (string, error) {
	if !c.Configured() {
		return "", ErrMissingAPIKey
	}

	reqBody := model.CompletionRequest{
		Model: c.cfg.ModelPrefix + modelName,
		Messages: []model.Message{
			{Role: "user", Content: message},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxResponseBytes {
		return "", fmt.Errorf("response body exceeds %d bytes", c.maxResponseBytes)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var apiResp model.CompletionResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	return apiResp.Choices[0].Message.Content, nil
}

// Reply chama Complete e converte qualquer falha em texto de placeholder.
// Nenhum caminho aqui vira erro HTTP: o chamador sempre responde 200.
func (c *OpenRouterClient) Reply(ctx context.Context, message, modelName string) string {
	content, err := c.Complete(ctx, message, modelName)
	if err == nil {
		return content
	}

	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		slog.Warn("openrouter_skipped_missing_key")
		return fmt.Sprintf("Go server received: %s (OpenRouter API key not configured)", message)
	case errors.As(err, &statusErr):
		slog.Warn("openrouter_non_200", "status", statusErr.Code)
		return statusErr.Error()
	default:
		slog.Error("openrouter_call_failed", "error", err)
		return fmt.Sprintf("Go server processed: %s (API call failed: %v)", message, err)
	}
}
