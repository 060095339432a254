package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type LeadTemperature string

const (
	TemperatureFrio   LeadTemperature = "frio"
	TemperatureMorno  LeadTemperature = "morno"
	TemperatureQuente LeadTemperature = "quente"
)

func (t LeadTemperature) Valid() bool {
	return t == TemperatureFrio || t == TemperatureMorno || t == TemperatureQuente
}

type LeadStatus string

const (
	LeadStatusAtivo      LeadStatus = "ativo"
	LeadStatusConvertido LeadStatus = "convertido"
	LeadStatusPerdido    LeadStatus = "perdido"
)

func (s LeadStatus) Valid() bool {
	return s == LeadStatusAtivo || s == LeadStatusConvertido || s == LeadStatusPerdido
}

type Lead struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"user_id"`
	Phone         string          `json:"phone"`
	Name          string          `json:"name"`
	SalesStage    SalesStage      `json:"sales_stage"`
	Temperature   LeadTemperature `json:"temperature"`
	Status        LeadStatus      `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	LastActivity  time.Time       `json:"last_activity"`
	FollowUpCount int             `json:"follow_up_count"`
}

// NewLead cria o lead no início do funil. O telefone não é normalizado,
// apenas aparado.
func NewLead(accountID, phone, name string) (*Lead, error) {
	phone = strings.TrimSpace(phone)
	if accountID == "" {
		return nil, errors.New("account_id is required")
	}
	if phone == "" {
		return nil, errors.New("phone is required")
	}

	now := time.Now().UTC()
	return &Lead{
		ID:           uuid.New().String(),
		AccountID:    accountID,
		Phone:        phone,
		Name:         strings.TrimSpace(name),
		SalesStage:   StageInicio,
		Temperature:  TemperatureFrio,
		Status:       LeadStatusAtivo,
		CreatedAt:    now,
		LastActivity: now,
	}, nil
}

// MoveTo aplica a transição de estágio e devolve true se houve mudança.
func (l *Lead) MoveTo(stage SalesStage) bool {
	if !stage.Valid() || stage == l.SalesStage {
		return false
	}
	l.SalesStage = stage
	if stage.IsClosing() {
		l.Temperature = TemperatureQuente
	}
	return true
}

func (l *Lead) Touch() {
	l.LastActivity = time.Now().UTC()
}

type LeadRepositoryInterface interface {
	Upsert(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, accountID, id string) (*Lead, error)
	FindByPhone(ctx context.Context, accountID, phone string) (*Lead, error)
	List(ctx context.Context, accountID string) ([]*Lead, error)
	Delete(ctx context.Context, accountID, id string) error
}
