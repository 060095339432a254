package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/autoseller/internal/entity"
)

type SettingsRepository struct {
	DB *DB
}

func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

const settingsColumns = `id, sales_prompt, objection_scripts, message_limit, used_messages,
	payment_link, business_name, whatsapp_api_key, whatsapp_instance_id, whatsapp_server_url,
	connection_status, is_active, is_test_mode, subscription_status, last_error, updated_at`

func (r *SettingsRepository) Get(ctx context.Context, accountID string) (*entity.Settings, error) {
	query := `SELECT ` + settingsColumns + ` FROM settings WHERE id = $1`

	s, err := scanSettings(r.DB.QueryRowContext(ctx, r.DB.q(query), accountID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar configurações: %w", err)
	}
	return s, nil
}

// Upsert cria a linha ou atualiza os campos editáveis. used_messages,
// connection_status e last_error só entram no INSERT.
func (r *SettingsRepository) Upsert(ctx context.Context, s *entity.Settings) error {
	scripts := s.ObjectionScripts
	if scripts == nil {
		scripts = map[string]string{}
	}
	scriptsJSON, err := json.Marshal(scripts)
	if err != nil {
		return fmt.Errorf("erro ao converter scripts: %w", err)
	}

	query := `
		INSERT INTO settings (` + settingsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id)
		DO UPDATE SET
			sales_prompt = EXCLUDED.sales_prompt,
			objection_scripts = EXCLUDED.objection_scripts,
			message_limit = EXCLUDED.message_limit,
			payment_link = EXCLUDED.payment_link,
			business_name = EXCLUDED.business_name,
			whatsapp_api_key = EXCLUDED.whatsapp_api_key,
			whatsapp_instance_id = EXCLUDED.whatsapp_instance_id,
			whatsapp_server_url = EXCLUDED.whatsapp_server_url,
			is_active = EXCLUDED.is_active,
			is_test_mode = EXCLUDED.is_test_mode,
			subscription_status = EXCLUDED.subscription_status,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.DB.ExecContext(ctx, r.DB.q(query),
		s.ID,
		s.SalesPrompt,
		string(scriptsJSON),
		s.MessageLimit,
		s.UsedMessages,
		s.PaymentLink,
		s.BusinessName,
		s.WhatsAppAPIKey,
		s.WhatsAppInstanceID,
		s.WhatsAppServerURL,
		s.ConnectionStatus,
		s.IsActive,
		s.IsTestMode,
		s.SubscriptionStatus,
		s.LastError,
		s.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("erro ao salvar configurações: %w", err)
	}
	return nil
}

func (r *SettingsRepository) IncrementUsage(ctx context.Context, accountID string) error {
	query := `UPDATE settings SET used_messages = used_messages + 1, updated_at = $1 WHERE id = $2`
	return r.exec(ctx, "erro ao incrementar uso", query, time.Now().UTC(), accountID)
}

func (r *SettingsRepository) SetLastError(ctx context.Context, accountID, message string) error {
	query := `UPDATE settings SET last_error = $1, updated_at = $2 WHERE id = $3`
	return r.exec(ctx, "erro ao gravar last_error", query, message, time.Now().UTC(), accountID)
}

// ClearLastError só limpa se o valor ainda for o que foi lido; um erro novo
// gravado nesse meio tempo continua pendente.
func (r *SettingsRepository) ClearLastError(ctx context.Context, accountID, seen string) error {
	query := `UPDATE settings SET last_error = '', updated_at = $1 WHERE id = $2 AND last_error = $3`
	_, err := r.DB.ExecContext(ctx, r.DB.q(query), time.Now().UTC(), accountID, seen)
	if err != nil {
		return fmt.Errorf("erro ao limpar last_error: %w", err)
	}
	return nil
}

func (r *SettingsRepository) SetConnectionStatus(ctx context.Context, accountID string, status entity.ConnectionStatus) error {
	query := `UPDATE settings SET connection_status = $1, updated_at = $2 WHERE id = $3`
	return r.exec(ctx, "erro ao gravar status da conexão", query, string(status), time.Now().UTC(), accountID)
}

func (r *SettingsRepository) exec(ctx context.Context, msg, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, r.DB.q(query), args...)
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrSettingsNotFound
	}
	return nil
}

// ListActive devolve as contas com o WhatsApp ligado (usado pelo worker de status).
func (r *SettingsRepository) ListActive(ctx context.Context) ([]*entity.Settings, error) {
	query := `SELECT ` + settingsColumns + ` FROM settings WHERE is_active = $1 ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, r.DB.q(query), true)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar configurações ativas: %w", err)
	}
	defer rows.Close()

	var out []*entity.Settings
	for rows.Next() {
		s, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler configurações: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSettings(row rowScanner) (*entity.Settings, error) {
	var (
		s       entity.Settings
		scripts []byte
	)
	err := row.Scan(
		&s.ID,
		&s.SalesPrompt,
		&scripts,
		&s.MessageLimit,
		&s.UsedMessages,
		&s.PaymentLink,
		&s.BusinessName,
		&s.WhatsAppAPIKey,
		&s.WhatsAppInstanceID,
		&s.WhatsAppServerURL,
		&s.ConnectionStatus,
		&s.IsActive,
		&s.IsTestMode,
		&s.SubscriptionStatus,
		&s.LastError,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(scripts) > 0 {
		if err := json.Unmarshal(scripts, &s.ObjectionScripts); err != nil {
			return nil, fmt.Errorf("scripts inválidos: %w", err)
		}
	}
	return &s, nil
}
