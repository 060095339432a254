package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xavierca1/autoseller/internal/entity"
)

type FlowRepository struct {
	DB *DB
}

func NewFlowRepository(db *DB) *FlowRepository {
	return &FlowRepository{DB: db}
}

const flowColumns = `id, account_id, name, trigger_stage, steps, is_enabled, created_at, updated_at`

// Save grava o fluxo inteiro; os passos vão como JSON.
func (r *FlowRepository) Save(ctx context.Context, flow *entity.Flow) error {
	steps := flow.Steps
	if steps == nil {
		steps = []entity.FlowStep{}
	}
	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("erro ao converter passos: %w", err)
	}

	query := `
		INSERT INTO flows (` + flowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			trigger_stage = EXCLUDED.trigger_stage,
			steps = EXCLUDED.steps,
			is_enabled = EXCLUDED.is_enabled,
			updated_at = EXCLUDED.updated_at
		WHERE flows.account_id = EXCLUDED.account_id
	`
	_, err = r.DB.ExecContext(ctx, r.DB.q(query),
		flow.ID,
		flow.AccountID,
		flow.Name,
		flow.TriggerStage,
		string(stepsJSON),
		flow.IsEnabled,
		flow.CreatedAt.UTC(),
		flow.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("erro ao salvar fluxo: %w", err)
	}
	return nil
}

func (r *FlowRepository) FindByID(ctx context.Context, accountID, id string) (*entity.Flow, error) {
	query := `SELECT ` + flowColumns + ` FROM flows WHERE id = $1 AND account_id = $2`

	flow, err := scanFlow(r.DB.QueryRowContext(ctx, r.DB.q(query), id, accountID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrFlowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar fluxo: %w", err)
	}
	return flow, nil
}

// List mantém a ordem de criação: o primeiro fluxo habilitado do estágio vence.
func (r *FlowRepository) List(ctx context.Context, accountID string) ([]*entity.Flow, error) {
	query := `SELECT ` + flowColumns + ` FROM flows WHERE account_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, r.DB.q(query), accountID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar fluxos: %w", err)
	}
	defer rows.Close()

	var flows []*entity.Flow
	for rows.Next() {
		flow, err := scanFlow(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler fluxo: %w", err)
		}
		flows = append(flows, flow)
	}
	return flows, rows.Err()
}

func (r *FlowRepository) Delete(ctx context.Context, accountID, id string) error {
	res, err := r.DB.ExecContext(ctx, r.DB.q(`DELETE FROM flows WHERE id = $1 AND account_id = $2`), id, accountID)
	if err != nil {
		return fmt.Errorf("erro ao apagar fluxo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrFlowNotFound
	}
	return nil
}

func scanFlow(row rowScanner) (*entity.Flow, error) {
	var (
		f     entity.Flow
		steps []byte
	)
	err := row.Scan(&f.ID, &f.AccountID, &f.Name, &f.TriggerStage, &steps, &f.IsEnabled, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(steps, &f.Steps); err != nil {
		return nil, fmt.Errorf("passos inválidos no fluxo %s: %w", f.ID, err)
	}
	return &f, nil
}
