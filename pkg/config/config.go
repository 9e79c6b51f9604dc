package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config reúne as configurações da aplicação lidas do ambiente.
// Valores ausentes nunca impedem a inicialização: viram vazio ou o padrão.
type Config struct {
	Server   ServerConfig
	Auth0    Auth0Config
	Gemini   GeminiConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig contém as configurações do servidor HTTP
type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// Auth0Config contém as configurações do provedor de identidade
type Auth0Config struct {
	IssuerBaseURL string
	ClientID      string
	ClientSecret  string
	BaseURL       string
	Secret        string
	Scopes        []string
	SessionTTL    time.Duration
	Inactivity    time.Duration
	Rolling       bool
}

// GeminiConfig contém as configurações do serviço de geração
type GeminiConfig struct {
	APIKey              string
	BaseURL             string
	TextModel           string
	ImageModel          string
	Timeout             time.Duration
	PlaceholderImageURL string
}

// DatabaseConfig contém a URL do banco; vazia seleciona o armazenamento em memória
type DatabaseConfig struct {
	URL            string
	MigrationsPath string
	AutoMigrate    bool
}

// LogConfig contém as configurações de log
type LogConfig struct {
	Level  string
	Format string
}

const (
	DefaultBaseURL             = "http://localhost:3000"
	DefaultGeminiBaseURL       = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel         = "gemini-1.5-flash"
	DefaultPlaceholderImageURL = "https://images.unsplash.com/photo-1581833971358-2c8b550f87b3?w=512&h=512&fit=crop&crop=center"
)

// Load lê a configuração das variáveis de ambiente
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth0: Auth0Config{
			IssuerBaseURL: strings.TrimSuffix(getEnv("AUTH0_ISSUER_BASE_URL", ""), "/"),
			ClientID:      getEnv("AUTH0_CLIENT_ID", ""),
			ClientSecret:  getEnv("AUTH0_CLIENT_SECRET", ""),
			BaseURL:       strings.TrimSuffix(getEnv("AUTH0_BASE_URL", DefaultBaseURL), "/"),
			Secret:        getEnv("AUTH0_SECRET", ""),
			Scopes:        strings.Fields(getEnv("AUTH0_SCOPE", "openid profile email")),
			SessionTTL:    getDuration("AUTH0_SESSION_ABSOLUTE_DURATION", 24*time.Hour),
			Inactivity:    getDuration("AUTH0_SESSION_INACTIVITY_DURATION", 7*24*time.Hour),
			Rolling:       getBool("AUTH0_SESSION_ROLLING", true),
		},
		Gemini: GeminiConfig{
			APIKey:              getEnv("GOOGLE_API_KEY", ""),
			BaseURL:             strings.TrimSuffix(getEnv("GEMINI_BASE_URL", DefaultGeminiBaseURL), "/"),
			TextModel:           getEnv("GEMINI_TEXT_MODEL", DefaultGeminiModel),
			ImageModel:          getEnv("GEMINI_IMAGE_MODEL", DefaultGeminiModel),
			Timeout:             getDuration("GEMINI_TIMEOUT", 30*time.Second),
			PlaceholderImageURL: getEnv("GEMINI_PLACEHOLDER_IMAGE_URL", DefaultPlaceholderImageURL),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
			AutoMigrate:    getBool("DB_AUTO_MIGRATE", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Addr retorna o endereço de escuta do servidor
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// getEnv retorna o valor de uma variável de ambiente ou um valor padrão
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration aceita tanto durações Go ("30s") quanto segundos inteiros
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
