package database

import (
	"context"
	"fmt"

	"github.com/xavierca1/autoseller/internal/entity"
)

type MessageRepository struct {
	DB *DB
}

func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg *entity.Message) error {
	query := `
		INSERT INTO messages (id, lead_id, direction, type, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, r.DB.q(query),
		msg.ID,
		msg.LeadID,
		msg.Direction,
		msg.Type,
		msg.Content,
		msg.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("erro ao salvar mensagem: %w", err)
	}
	return nil
}

// ListByLead devolve a conversa em ordem cronológica. O ULID desempata
// mensagens gravadas no mesmo instante.
func (r *MessageRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Message, error) {
	query := `
		SELECT id, lead_id, direction, type, content, created_at
		FROM messages
		WHERE lead_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, r.DB.q(query), leadID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar mensagens: %w", err)
	}
	defer rows.Close()

	var msgs []*entity.Message
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.ID, &m.LeadID, &m.Direction, &m.Type, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler mensagem: %w", err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}
