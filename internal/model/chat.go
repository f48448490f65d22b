package model

import (
	"bytes"
	"encoding/json"
)

// Text aceita qualquer valor JSON. Strings são mantidas como estão, null vira "",
// e números, booleanos, arrays e objetos guardam o JSON compacto como texto.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*t = Text(buf.String())
	return nil
}

// ChatRequest representa a requisição para o endpoint de chat
type ChatRequest struct {
	Message Text `json:"message"`
	Model   Text `json:"model,omitempty"`
}

// ChatResponse representa a resposta do endpoint de chat
type ChatResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

// ErrorResponse é devolvida quando a requisição recebida não pode ser lida
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse representa o corpo fixo do /health
type HealthResponse struct {
	Status   string `json:"status"`
	Platform string `json:"platform"`
	Version  string `json:"version"`
}
