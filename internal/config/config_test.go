package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_DRIVER", "GEMINI_MODEL", "CORS_ORIGINS", "MAIL_PORT", "GATEWAY_RPS", "SESSION_TTL", "MAIL_HOST", "PUBLIC_URL", "FLOW_WORKERS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 587, cfg.MailPort)
	assert.Equal(t, 5.0, cfg.GatewayRPS)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.MailEnabled())
	assert.Equal(t, "http://localhost:8080", cfg.PublicURL)
	assert.Equal(t, 10, cfg.FlowWorkers)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("CORS_ORIGINS", "http://a.com, http://b.com ,")
	t.Setenv("MAIL_PORT", "2525")
	t.Setenv("MAIL_HOST", "smtp.local")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("GATEWAY_RPS", "not-a-number")
	t.Setenv("PUBLIC_URL", "https://api.autoseller.ai/")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.CORSOrigins)
	assert.Equal(t, 2525, cfg.MailPort)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5.0, cfg.GatewayRPS)
	assert.True(t, cfg.MailEnabled())
	assert.Equal(t, "https://api.autoseller.ai", cfg.PublicURL)
}
