package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/autoseller/internal/entity"
)

type LeadRepository struct {
	DB *DB
}

func NewLeadRepository(db *DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, account_id, phone, name, sales_stage, temperature, status, created_at, last_activity, follow_up_count`

// Upsert usa (account_id, phone) como chave. Se o telefone já existe na conta,
// o ID do registro salvo volta para o lead.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (account_id, phone)
		DO UPDATE SET
			name = EXCLUDED.name,
			sales_stage = EXCLUDED.sales_stage,
			temperature = EXCLUDED.temperature,
			status = EXCLUDED.status,
			last_activity = EXCLUDED.last_activity,
			follow_up_count = EXCLUDED.follow_up_count
		RETURNING id
	`

	err := r.DB.QueryRowContext(ctx, r.DB.q(query),
		lead.ID,
		lead.AccountID,
		lead.Phone,
		lead.Name,
		lead.SalesStage,
		lead.Temperature,
		lead.Status,
		lead.CreatedAt.UTC(),
		lead.LastActivity.UTC(),
		lead.FollowUpCount,
	).Scan(&lead.ID)
	if err != nil {
		return fmt.Errorf("erro ao salvar lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, accountID, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND account_id = $2`
	return r.findOne(ctx, query, id, accountID)
}

func (r *LeadRepository) FindByPhone(ctx context.Context, accountID, phone string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE account_id = $1 AND phone = $2`
	return r.findOne(ctx, query, accountID, phone)
}

func (r *LeadRepository) findOne(ctx context.Context, query string, args ...any) (*entity.Lead, error) {
	lead, err := scanLead(r.DB.QueryRowContext(ctx, r.DB.q(query), args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar lead: %w", err)
	}
	return lead, nil
}

// List ordena por atividade mais recente.
func (r *LeadRepository) List(ctx context.Context, accountID string) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE account_id = $1 ORDER BY last_activity DESC`

	rows, err := r.DB.QueryContext(ctx, r.DB.q(query), accountID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar leads: %w", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// Delete apaga as mensagens e depois o lead, na mesma transação.
func (r *LeadRepository) Delete(ctx context.Context, accountID, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	delMessages := `DELETE FROM messages WHERE lead_id IN (SELECT id FROM leads WHERE id = $1 AND account_id = $2)`
	if _, err := tx.ExecContext(ctx, r.DB.q(delMessages), id, accountID); err != nil {
		return fmt.Errorf("erro ao apagar mensagens do lead: %w", err)
	}

	res, err := tx.ExecContext(ctx, r.DB.q(`DELETE FROM leads WHERE id = $1 AND account_id = $2`), id, accountID)
	if err != nil {
		return fmt.Errorf("erro ao apagar lead: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(
		&l.ID,
		&l.AccountID,
		&l.Phone,
		&l.Name,
		&l.SalesStage,
		&l.Temperature,
		&l.Status,
		&l.CreatedAt,
		&l.LastActivity,
		&l.FollowUpCount,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
