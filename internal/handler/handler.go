package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vitormoschetta/go-chat-gateway/internal/model"
	"github.com/vitormoschetta/go-chat-gateway/internal/server"
	"github.com/vitormoschetta/go-chat-gateway/internal/version"
)

// Handler contém as dependências necessárias para os handlers HTTP
type Handler struct {
	server *server.Server
}

// NewHandler cria uma nova instância do Handler
func NewHandler(srv *server.Server) *Handler {
	return &Handler{
		server: srv,
	}
}

// HandleIndex serve o index.html do frontend
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.serveFrontendFile(w, "index.html")
}

// HandleScript serve o webapp.js do frontend
func (h *Handler) HandleScript(w http.ResponseWriter, r *http.Request) {
	h.serveFrontendFile(w, "webapp.js")
}

// HandleStyles serve o webapp-styles.css do frontend
func (h *Handler) HandleStyles(w http.ResponseWriter, r *http.Request) {
	h.serveFrontendFile(w, "webapp-styles.css")
}

// name é sempre um dos três nomes fixos acima, nunca vem da URL
func (h *Handler) serveFrontendFile(w http.ResponseWriter, name string) {
	data, err := os.ReadFile(filepath.Join(h.server.Config.FrontendDir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: name + " not found"})
			return
		}
		h.server.Logger.Error("failed to read frontend file", "file", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.server.Logger.Warn("failed to write response", "file", name, "error", err)
	}
}

// HandleHealth retorna o status de saúde do servidor
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{
		Status:   "healthy",
		Platform: version.Platform,
		Version:  version.Version,
	})
}

// maxRequestBytes limita o corpo aceito em /api/chat
const maxRequestBytes = 1 << 20

// HandleChat encaminha a mensagem ao OpenRouter.
// Só falhas ao ler a própria requisição geram 500; problemas no upstream
// voltam como content com status 200.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	req, err := decodeChatRequest(w, r)
	if err != nil {
		h.server.Logger.Warn("error parsing chat request", "error", err)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	message := string(req.Message)
	modelName := string(req.Model)
	if modelName == "" {
		modelName = h.server.Config.OpenRouter.DefaultModel
	}

	h.server.Logger.Info("processing chat message", "model", modelName, "message_len", len(message))

	content := h.server.Chat.Reply(r.Context(), message, modelName)

	writeJSON(w, http.StatusOK, model.ChatResponse{
		Content: content,
		Model:   modelName,
	})
}

// decodeChatRequest exige Content-Type JSON e exatamente um objeto JSON no corpo
func decodeChatRequest(w http.ResponseWriter, r *http.Request) (*model.ChatRequest, error) {
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("unsupported content type %q, expected application/json", r.Header.Get("Content-Type"))
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))

	var req *model.ChatRequest
	if err := dec.Decode(&req); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.New("request body must be a JSON object")
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, errors.New("request body must contain a single JSON object")
		}
		return nil, fmt.Errorf("invalid data after JSON object: %w", err)
	}

	return req, nil
}

// isJSONContentType aceita application/json e tipos application/*+json
func isJSONContentType(header string) bool {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	return mediaType == "application/json" ||
		(strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
