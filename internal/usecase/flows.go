package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/entity"
)

type FlowStepInput struct {
	ID      string `json:"id"`
	Type    string `json:"type" validate:"required,message_type"`
	Content string `json:"content" validate:"required,max=4096"`
	Delay   int    `json:"delay" validate:"gte=0,lte=86400000"`
}

type SaveFlowInput struct {
	ID           string          `json:"id"`
	Name         string          `json:"name" validate:"required,max=120"`
	TriggerStage string          `json:"trigger_stage" validate:"required,sales_stage"`
	Steps        []FlowStepInput `json:"steps" validate:"dive"`
	IsEnabled    bool            `json:"is_enabled"`
}

type FlowService struct {
	Flows entity.FlowRepositoryInterface
	Log   logrus.FieldLogger
}

func NewFlowService(flows entity.FlowRepositoryInterface, log logrus.FieldLogger) *FlowService {
	return &FlowService{Flows: flows, Log: log}
}

func (s *FlowService) List(ctx context.Context, accountID string) ([]*entity.Flow, error) {
	flows, err := s.Flows.List(ctx, accountID)
	if err != nil {
		return nil, dbError("erro ao listar fluxos", err)
	}
	return flows, nil
}

func (s *FlowService) Get(ctx context.Context, accountID, id string) (*entity.Flow, error) {
	flow, err := s.Flows.FindByID(ctx, accountID, id)
	if errors.Is(err, entity.ErrFlowNotFound) {
		return nil, notFound("fluxo não encontrado")
	}
	if err != nil {
		return nil, dbError("erro ao buscar fluxo", err)
	}
	return flow, nil
}

// Save cria ou substitui o fluxo inteiro. Com ID informado o fluxo precisa
// existir na conta.
func (s *FlowService) Save(ctx context.Context, accountID string, input SaveFlowInput) (*entity.Flow, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := check(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	flow := &entity.Flow{CreatedAt: now}
	if input.ID != "" {
		existing, err := s.Get(ctx, accountID, input.ID)
		if err != nil {
			return nil, err
		}
		flow = existing
	}

	stage, _ := entity.ParseSalesStage(input.TriggerStage)
	flow.AccountID = accountID
	flow.Name = input.Name
	flow.TriggerStage = stage
	flow.IsEnabled = input.IsEnabled
	flow.UpdatedAt = now
	flow.Steps = make([]entity.FlowStep, 0, len(input.Steps))
	for _, st := range input.Steps {
		flow.Steps = append(flow.Steps, entity.FlowStep{
			ID:      st.ID,
			Type:    entity.MessageType(st.Type),
			Content: st.Content,
			Delay:   st.Delay,
		})
	}
	flow.EnsureIDs()

	if err := s.Flows.Save(ctx, flow); err != nil {
		return nil, dbError("erro ao salvar fluxo", err)
	}

	s.Log.WithFields(logrus.Fields{
		"flow_id": flow.ID,
		"trigger": flow.TriggerStage,
		"steps":   len(flow.Steps),
	}).Info("💾 Fluxo salvo")
	return flow, nil
}

func (s *FlowService) Toggle(ctx context.Context, accountID, id string, enabled bool) (*entity.Flow, error) {
	flow, err := s.Get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	flow.IsEnabled = enabled
	flow.UpdatedAt = time.Now().UTC()
	if err := s.Flows.Save(ctx, flow); err != nil {
		return nil, dbError("erro ao salvar fluxo", err)
	}
	return flow, nil
}

func (s *FlowService) Delete(ctx context.Context, accountID, id string) error {
	if _, err := s.Get(ctx, accountID, id); err != nil {
		return err
	}
	if err := s.Flows.Delete(ctx, accountID, id); err != nil {
		return dbError("erro ao excluir fluxo", err)
	}
	return nil
}
