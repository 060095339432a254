package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type FlowStep struct {
	ID      string      `json:"id"`
	Type    MessageType `json:"type"`
	Content string      `json:"content"`
	// Delay em milissegundos antes do envio do passo
	Delay int `json:"delay"`
}

func (s FlowStep) Wait() time.Duration {
	if s.Delay <= 0 {
		return 0
	}
	return time.Duration(s.Delay) * time.Millisecond
}

type Flow struct {
	ID           string     `json:"id"`
	AccountID    string     `json:"user_id"`
	Name         string     `json:"name"`
	TriggerStage SalesStage `json:"trigger_stage"`
	Steps        []FlowStep `json:"steps"`
	IsEnabled    bool       `json:"is_enabled"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// EnsureIDs preenche IDs ausentes do fluxo e dos passos.
func (f *Flow) EnsureIDs() {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	for i := range f.Steps {
		if f.Steps[i].ID == "" {
			f.Steps[i].ID = uuid.New().String()
		}
	}
}

// FindTriggeredFlow devolve o primeiro fluxo habilitado para o estágio.
func FindTriggeredFlow(flows []*Flow, stage SalesStage) *Flow {
	for _, f := range flows {
		if f.IsEnabled && f.TriggerStage == stage {
			return f
		}
	}
	return nil
}

type FlowRepositoryInterface interface {
	Save(ctx context.Context, flow *Flow) error
	FindByID(ctx context.Context, accountID, id string) (*Flow, error)
	List(ctx context.Context, accountID string) ([]*Flow, error)
	Delete(ctx context.Context, accountID, id string) error
}
