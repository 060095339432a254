package database

import (
	"context"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		business_name TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token      TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id              TEXT PRIMARY KEY,
		account_id      TEXT NOT NULL,
		phone           TEXT NOT NULL,
		name            TEXT NOT NULL DEFAULT '',
		sales_stage     TEXT NOT NULL,
		temperature     TEXT NOT NULL,
		status          TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL,
		last_activity   TIMESTAMPTZ NOT NULL,
		follow_up_count INTEGER NOT NULL DEFAULT 0,
		UNIQUE (account_id, phone)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id         TEXT PRIMARY KEY,
		lead_id    TEXT NOT NULL REFERENCES leads(id),
		direction  TEXT NOT NULL,
		type       TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_lead ON messages (lead_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS flows (
		id            TEXT PRIMARY KEY,
		account_id    TEXT NOT NULL,
		name          TEXT NOT NULL,
		trigger_stage TEXT NOT NULL,
		steps         JSONB NOT NULL,
		is_enabled    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id                   TEXT PRIMARY KEY,
		sales_prompt         TEXT NOT NULL,
		objection_scripts    JSONB NOT NULL,
		message_limit        INTEGER NOT NULL,
		used_messages        INTEGER NOT NULL DEFAULT 0,
		payment_link         TEXT NOT NULL DEFAULT '',
		business_name        TEXT NOT NULL DEFAULT '',
		whatsapp_api_key     TEXT NOT NULL DEFAULT '',
		whatsapp_instance_id TEXT NOT NULL DEFAULT '',
		whatsapp_server_url  TEXT NOT NULL DEFAULT '',
		connection_status    TEXT NOT NULL DEFAULT 'disconnected',
		is_active            BOOLEAN NOT NULL DEFAULT FALSE,
		is_test_mode         BOOLEAN NOT NULL DEFAULT TRUE,
		subscription_status  TEXT NOT NULL DEFAULT 'trial',
		last_error           TEXT NOT NULL DEFAULT '',
		updated_at           TIMESTAMPTZ NOT NULL
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		business_name TEXT NOT NULL DEFAULT '',
		created_at    DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token      TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		expires_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id              TEXT PRIMARY KEY,
		account_id      TEXT NOT NULL,
		phone           TEXT NOT NULL,
		name            TEXT NOT NULL DEFAULT '',
		sales_stage     TEXT NOT NULL,
		temperature     TEXT NOT NULL,
		status          TEXT NOT NULL,
		created_at      DATETIME NOT NULL,
		last_activity   DATETIME NOT NULL,
		follow_up_count INTEGER NOT NULL DEFAULT 0,
		UNIQUE (account_id, phone)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id         TEXT PRIMARY KEY,
		lead_id    TEXT NOT NULL REFERENCES leads(id),
		direction  TEXT NOT NULL,
		type       TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_lead ON messages (lead_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS flows (
		id            TEXT PRIMARY KEY,
		account_id    TEXT NOT NULL,
		name          TEXT NOT NULL,
		trigger_stage TEXT NOT NULL,
		steps         TEXT NOT NULL,
		is_enabled    BOOLEAN NOT NULL DEFAULT 0,
		created_at    DATETIME NOT NULL,
		updated_at    DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id                   TEXT PRIMARY KEY,
		sales_prompt         TEXT NOT NULL,
		objection_scripts    TEXT NOT NULL,
		message_limit        INTEGER NOT NULL,
		used_messages        INTEGER NOT NULL DEFAULT 0,
		payment_link         TEXT NOT NULL DEFAULT '',
		business_name        TEXT NOT NULL DEFAULT '',
		whatsapp_api_key     TEXT NOT NULL DEFAULT '',
		whatsapp_instance_id TEXT NOT NULL DEFAULT '',
		whatsapp_server_url  TEXT NOT NULL DEFAULT '',
		connection_status    TEXT NOT NULL DEFAULT 'disconnected',
		is_active            BOOLEAN NOT NULL DEFAULT 0,
		is_test_mode         BOOLEAN NOT NULL DEFAULT 1,
		subscription_status  TEXT NOT NULL DEFAULT 'trial',
		last_error           TEXT NOT NULL DEFAULT '',
		updated_at           DATETIME NOT NULL
	)`,
}

// Migrate cria as tabelas que faltam. É idempotente.
func Migrate(ctx context.Context, db *DB) error {
	schema := postgresSchema
	if db.Dialect == SQLite {
		schema = sqliteSchema
	}

	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("erro na migração %d: %w", i+1, err)
		}
	}
	return nil
}
