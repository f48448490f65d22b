package model

// Message é uma mensagem no formato chat-completions
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest é o corpo enviado ao OpenRouter
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// CompletionResponse contém apenas os campos lidos da resposta do OpenRouter
type CompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}
