package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseDriver string
	DatabaseURL    string
	RabbitMQURL    string
	FlowWorkers    int
	CORSOrigins    []string
	WebhookSecret  string
	PublicURL      string
	DashboardURL   string

	GeminiAPIKey string
	GeminiModel  string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	LogLevel string
	LogFile  string

	GatewayRPS         float64
	SessionTTL         time.Duration
	StatusPollInterval time.Duration
}

// Load lê o .env (se existir) e depois as variáveis de ambiente.
func Load() *Config {
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")

	return &Config{
		Port:           port,
		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RabbitMQURL:    getEnv("RABBITMQ_URL", ""),
		FlowWorkers:    getEnvInt("FLOW_WORKERS", 10),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		WebhookSecret:  getEnv("WEBHOOK_SECRET", ""),
		PublicURL:      strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:"+port), "/"),
		DashboardURL:   getEnv("DASHBOARD_URL", "http://localhost:5173"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		MailHost: getEnv("MAIL_HOST", ""),
		MailPort: getEnvInt("MAIL_PORT", 587),
		MailUser: getEnv("MAIL_USER", ""),
		MailPass: getEnv("MAIL_PASS", ""),
		MailFrom: getEnv("MAIL_FROM", "nao-responda@autoseller.ai"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		GatewayRPS:         getEnvFloat("GATEWAY_RPS", 5),
		SessionTTL:         getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		StatusPollInterval: getEnvDuration("STATUS_POLL_INTERVAL", time.Minute),
	}
}

func (c *Config) MailEnabled() bool {
	return c.MailHost != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
