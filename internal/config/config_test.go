package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "FRONTEND_DIR", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "DEFAULT_MODEL",
		"OPENROUTER_API_KEY", "OPENROUTER_BASE_URL", "OPENROUTER_TIMEOUT_SECONDS",
		"OPENROUTER_MODEL_PREFIX", "OPENROUTER_HTTP_REFERER", "OPENROUTER_X_TITLE",
		"OPENROUTER_MAX_TOKENS", "OPENROUTER_TEMPERATURE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != 8080 || cfg.Addr() != ":8080" {
		t.Errorf("expected port 8080, got %d (%s)", cfg.Port, cfg.Addr())
	}
	if cfg.FrontendDir != "frontend" {
		t.Errorf("expected frontend dir 'frontend', got %q", cfg.FrontendDir)
	}
	if cfg.OpenRouter.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("unexpected base url %q", cfg.OpenRouter.BaseURL)
	}
	if cfg.OpenRouter.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.OpenRouter.Timeout)
	}
	if cfg.OpenRouter.DefaultModel != "gpt-3.5-turbo" {
		t.Errorf("unexpected default model %q", cfg.OpenRouter.DefaultModel)
	}
	if cfg.OpenRouter.ModelPrefix != "openai/" {
		t.Errorf("unexpected model prefix %q", cfg.OpenRouter.ModelPrefix)
	}
	if cfg.OpenRouter.HasAPIKey() {
		t.Error("expected no API key by default")
	}
	if cfg.OpenRouter.Temperature != nil {
		t.Errorf("expected temperature unset, got %v", *cfg.OpenRouter.Temperature)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %q", cfg.LogLevel)
	}
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("OPENROUTER_BASE_URL", "http://localhost:9999/v1/")
	t.Setenv("OPENROUTER_TIMEOUT_SECONDS", "5")
	t.Setenv("OPENROUTER_TEMPERATURE", "0.7")
	t.Setenv("OPENROUTER_MAX_TOKENS", "150")
	t.Setenv("PORT", "9090")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !cfg.OpenRouter.HasAPIKey() || cfg.OpenRouter.APIKey != "sk-or-test" {
		t.Errorf("expected API key from env, got %q", cfg.OpenRouter.APIKey)
	}
	if cfg.OpenRouter.BaseURL != "http://localhost:9999/v1" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.OpenRouter.BaseURL)
	}
	if cfg.OpenRouter.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.OpenRouter.Timeout)
	}
	if cfg.OpenRouter.Temperature == nil || *cfg.OpenRouter.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", cfg.OpenRouter.Temperature)
	}
	if cfg.OpenRouter.MaxTokens != 150 {
		t.Errorf("expected max tokens 150, got %d", cfg.OpenRouter.MaxTokens)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")

	cfg, err := Load([]string{"--port", "7070", "--frontend-dir", "web", "--log-level", "debug"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("expected flag port 7070, got %d", cfg.Port)
	}
	if cfg.FrontendDir != "web" {
		t.Errorf("expected frontend dir 'web', got %q", cfg.FrontendDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "gateway.yaml")
	content := "port: 8181\ndefault_model: gpt-4o-mini\nopenrouter_x_title: Go Chat Gateway\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load([]string{"-c", path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != 8181 {
		t.Errorf("expected port from file, got %d", cfg.Port)
	}
	if cfg.OpenRouter.DefaultModel != "gpt-4o-mini" {
		t.Errorf("expected model from file, got %q", cfg.OpenRouter.DefaultModel)
	}
	if cfg.OpenRouter.XTitle != "Go Chat Gateway" {
		t.Errorf("expected X-Title from file, got %q", cfg.OpenRouter.XTitle)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	if _, err := Load([]string{"--unknown"}); err == nil {
		t.Error("expected error for unknown flag")
	}
	if _, err := Load([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("expected error for missing config file")
	}

	t.Setenv("OPENROUTER_TIMEOUT_SECONDS", "-1")
	if _, err := Load(nil); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestLoad_InvalidNumbers(t *testing.T) {
	tests := []struct {
		env   string
		value string
	}{
		{"OPENROUTER_TEMPERATURE", "hot"},
		{"OPENROUTER_MAX_TOKENS", "lots"},
		{"OPENROUTER_MAX_TOKENS", "-5"},
		{"OPENROUTER_TIMEOUT_SECONDS", "soon"},
		{"PORT", "http"},
	}
	for _, tt := range tests {
		t.Run(tt.env+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.env, tt.value)

			cfg, err := Load(nil)
			if err == nil {
				t.Fatalf("expected error, got config %+v", cfg)
			}
		})
	}
}

func TestLoad_TemperatureZeroIsKept(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_TEMPERATURE", "0")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.OpenRouter.Temperature == nil || *cfg.OpenRouter.Temperature != 0 {
		t.Fatalf("expected explicit temperature 0, got %v", cfg.OpenRouter.Temperature)
	}
}

func TestHasAPIKey(t *testing.T) {
	tests := map[string]bool{
		"":                true,
		"   ":             true,
		PlaceholderAPIKey: true,
		"sk-or-v1-abc":    false,
	}
	for key, missing := range tests {
		if got := (OpenRouterConfig{APIKey: key}).HasAPIKey(); got == missing {
			t.Errorf("HasAPIKey(%q) = %v", key, got)
		}
	}
}
