package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/entity"
)

type CreateLeadInput struct {
	Phone string `json:"phone" validate:"required,phone_digits"`
	Name  string `json:"name" validate:"max=120"`
}

type UpdateLeadInput struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	SalesStage  *string `json:"sales_stage" validate:"omitempty,sales_stage"`
	Status      *string `json:"status" validate:"omitempty,oneof=ativo convertido perdido"`
	Temperature *string `json:"temperature" validate:"omitempty,oneof=frio morno quente"`
}

// LeadFilter restringe a listagem. Query casa com nome ou telefone, sem diferenciar maiúsculas.
type LeadFilter struct {
	Query  string `json:"q" validate:"max=120"`
	Status string `json:"status" validate:"omitempty,oneof=ativo convertido perdido"`
}

func (f LeadFilter) matches(lead *entity.Lead) bool {
	if f.Status != "" && lead.Status != entity.LeadStatus(f.Status) {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(lead.Name), q) || strings.Contains(lead.Phone, q)
}

type LeadService struct {
	Leads    entity.LeadRepositoryInterface
	Messages entity.MessageRepositoryInterface
	Engine   *FunnelEngine
	Log      logrus.FieldLogger
}

func NewLeadService(leads entity.LeadRepositoryInterface, messages entity.MessageRepositoryInterface, engine *FunnelEngine, log logrus.FieldLogger) *LeadService {
	return &LeadService{
		Leads:    leads,
		Messages: messages,
		Engine:   engine,
		Log:      log,
	}
}

// List devolve os leads da conta que passam no filtro, mais recentes primeiro.
func (s *LeadService) List(ctx context.Context, accountID string, filter LeadFilter) ([]*entity.Lead, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Status = strings.TrimSpace(filter.Status)
	if err := check(filter); err != nil {
		return nil, err
	}

	leads, err := s.Leads.List(ctx, accountID)
	if err != nil {
		return nil, dbError("erro ao listar leads", err)
	}

	matched := make([]*entity.Lead, 0, len(leads))
	for _, lead := range leads {
		if filter.matches(lead) {
			matched = append(matched, lead)
		}
	}
	return matched, nil
}

func (s *LeadService) Get(ctx context.Context, accountID, id string) (*entity.Lead, error) {
	lead, err := s.Leads.FindByID(ctx, accountID, id)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, notFound("lead não encontrado")
	}
	if err != nil {
		return nil, dbError("erro ao buscar lead", err)
	}
	return lead, nil
}

// Create cadastra um lead manual. Telefone já existente na conta é conflito.
func (s *LeadService) Create(ctx context.Context, accountID string, input CreateLeadInput) (*entity.Lead, error) {
	input.Phone = strings.TrimSpace(input.Phone)
	if err := check(input); err != nil {
		return nil, err
	}

	_, err := s.Leads.FindByPhone(ctx, accountID, input.Phone)
	if err == nil {
		return nil, &DomainError{Code: CodeConflict, Message: "já existe um lead com esse telefone"}
	}
	if !errors.Is(err, entity.ErrLeadNotFound) {
		return nil, dbError("erro ao buscar lead", err)
	}

	lead, err := entity.NewLead(accountID, input.Phone, input.Name)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}
	if err := s.Leads.Upsert(ctx, lead); err != nil {
		return nil, dbError("erro ao salvar lead", err)
	}

	s.Log.WithField("lead_id", lead.ID).Info("✅ Lead adicionado manualmente")
	return lead, nil
}

// Update muda nome, status e temperatura direto. Mudança de estágio passa pelo
// motor do funil para disparar o fluxo do novo estágio.
func (s *LeadService) Update(ctx context.Context, accountID, id string, input UpdateLeadInput) (*entity.Lead, error) {
	if err := check(input); err != nil {
		return nil, err
	}

	lead, err := s.Get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		lead.Name = strings.TrimSpace(*input.Name)
	}
	if input.Status != nil {
		lead.Status = entity.LeadStatus(*input.Status)
	}
	if input.Temperature != nil {
		lead.Temperature = entity.LeadTemperature(*input.Temperature)
	}

	if input.SalesStage != nil {
		stage, _ := entity.ParseSalesStage(*input.SalesStage)
		if _, err := s.Engine.MoveLead(ctx, lead, stage); err != nil {
			return nil, err
		}
	}

	if err := s.Leads.Upsert(ctx, lead); err != nil {
		return nil, dbError("erro ao salvar lead", err)
	}
	return lead, nil
}

// Delete apaga as mensagens antes do lead.
func (s *LeadService) Delete(ctx context.Context, accountID, id string) error {
	if _, err := s.Get(ctx, accountID, id); err != nil {
		return err
	}

	if err := s.Leads.Delete(ctx, accountID, id); err != nil {
		return dbError("erro ao excluir lead", err)
	}

	s.Log.WithField("lead_id", id).Info("🗑️ Lead excluído")
	return nil
}

// Conversation devolve as mensagens do lead em ordem cronológica.
func (s *LeadService) Conversation(ctx context.Context, accountID, id string) ([]*entity.Message, error) {
	if _, err := s.Get(ctx, accountID, id); err != nil {
		return nil, err
	}

	msgs, err := s.Messages.ListByLead(ctx, id)
	if err != nil {
		return nil, dbError("erro ao carregar conversa", err)
	}
	return msgs, nil
}
