package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// PlaceholderAPIKey é o valor de exemplo do .env.example; tratado como chave ausente.
const PlaceholderAPIKey = "your_openrouter_api_key_here"

// Config reúne todas as configurações do gateway
type Config struct {
	Port        int
	FrontendDir string

	OpenRouter OpenRouterConfig

	LogLevel  string
	LogFormat string
	LogFile   string
}

// OpenRouterConfig contém a configuração do provedor upstream
type OpenRouterConfig struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	DefaultModel string
	ModelPrefix  string
	HTTPReferer  string
	XTitle       string
	MaxTokens    int
	Temperature  *float64
}

// HasAPIKey indica se existe uma credencial utilizável para o upstream
func (c OpenRouterConfig) HasAPIKey() bool {
	key := strings.TrimSpace(c.APIKey)
	return key != "" && key != PlaceholderAPIKey
}

// Addr retorna o endereço de escuta (todas as interfaces)
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("frontend_dir", "frontend")
	v.SetDefault("openrouter_base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter_timeout_seconds", 30)
	v.SetDefault("openrouter_model_prefix", "openai/")
	v.SetDefault("default_model", "gpt-3.5-turbo")
	v.SetDefault("openrouter_max_tokens", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_file", "")
}

// Load lê a configuração de flags, arquivo opcional e variáveis de ambiente.
// Precedência: flag > env > arquivo > default.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("gateway", pflag.ContinueOnError)
	cfgFile := fs.StringP("config", "c", "", "optional config file (yaml, json or toml)")
	fs.Int("port", 8080, "HTTP listen port")
	fs.String("frontend-dir", "frontend", "directory holding index.html, webapp.js and webapp-styles.css")
	fs.String("log-level", "info", "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"port":         "port",
		"frontend_dir": "frontend-dir",
		"log_level":    "log-level",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	if *cfgFile != "" {
		v.SetConfigFile(*cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", *cfgFile, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	timeoutSeconds, err := getInt(v, "openrouter_timeout_seconds")
	if err != nil {
		return nil, err
	}
	if timeoutSeconds <= 0 {
		return nil, fmt.Errorf("openrouter_timeout_seconds must be positive, got %d", timeoutSeconds)
	}

	port, err := getInt(v, "port")
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port %d", port)
	}

	maxTokens, err := getInt(v, "openrouter_max_tokens")
	if err != nil {
		return nil, err
	}
	if maxTokens < 0 {
		return nil, fmt.Errorf("openrouter_max_tokens must not be negative, got %d", maxTokens)
	}

	cfg := &Config{
		Port:        port,
		FrontendDir: v.GetString("frontend_dir"),
		OpenRouter: OpenRouterConfig{
			APIKey:       v.GetString("openrouter_api_key"),
			BaseURL:      strings.TrimRight(v.GetString("openrouter_base_url"), "/"),
			Timeout:      time.Duration(timeoutSeconds) * time.Second,
			DefaultModel: v.GetString("default_model"),
			ModelPrefix:  v.GetString("openrouter_model_prefix"),
			HTTPReferer:  v.GetString("openrouter_http_referer"),
			XTitle:       v.GetString("openrouter_x_title"),
			MaxTokens:    maxTokens,
		},
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogFile:   v.GetString("log_file"),
	}

	if v.IsSet("openrouter_temperature") {
		t, err := cast.ToFloat64E(v.Get("openrouter_temperature"))
		if err != nil {
			return nil, fmt.Errorf("invalid openrouter_temperature: %w", err)
		}
		cfg.OpenRouter.Temperature = &t
	}

	return cfg, nil
}

// getInt falha em vez de devolver 0 quando o valor não é numérico
func getInt(v *viper.Viper, key string) (int, error) {
	n, err := cast.ToIntE(v.Get(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
