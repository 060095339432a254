package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/entity"
	"github.com/xavierca1/autoseller/internal/infra/integration/gemini"
	"github.com/xavierca1/autoseller/internal/infra/metrics"
	"github.com/xavierca1/autoseller/internal/infra/queue"
)

const (
	FallbackReply = "Olá! Desculpe, tive uma instabilidade técnica momentânea. Pode repetir o que disse?"
	EmptyReply    = "Olá! Como posso te ajudar hoje?"
)

type InboundMessageInput struct {
	AccountID string `json:"-" validate:"required"`
	Phone     string `json:"phone" validate:"required,max=64"`
	Content   string `json:"content" validate:"required,max=65536"` // limite de texto do WhatsApp
}

type InboundMessageOutput struct {
	Lead         *entity.Lead `json:"lead"`
	Reply        string       `json:"reply"`
	StageChanged bool         `json:"stage_changed"`
	FlowID       string       `json:"flow_id,omitempty"`
}

type FunnelEngine struct {
	Leads      entity.LeadRepositoryInterface
	Messages   entity.MessageRepositoryInterface
	Flows      entity.FlowRepositoryInterface
	Settings   *SettingsService
	Generator  ReplyGenerator
	Sender     *MessageSender
	Dispatcher FlowDispatcher
	Log        logrus.FieldLogger
}

func NewFunnelEngine(
	leads entity.LeadRepositoryInterface,
	messages entity.MessageRepositoryInterface,
	flows entity.FlowRepositoryInterface,
	settings *SettingsService,
	generator ReplyGenerator,
	sender *MessageSender,
	dispatcher FlowDispatcher,
	log logrus.FieldLogger,
) *FunnelEngine {
	return &FunnelEngine{
		Leads:      leads,
		Messages:   messages,
		Flows:      flows,
		Settings:   settings,
		Generator:  generator,
		Sender:     sender,
		Dispatcher: dispatcher,
		Log:        log,
	}
}

// HandleInboundMessage processa uma mensagem do cliente de ponta a ponta.
// Com a cota esgotada devolve (nil, nil) e só registra o aviso.
func (e *FunnelEngine) HandleInboundMessage(ctx context.Context, input InboundMessageInput) (*InboundMessageOutput, error) {
	input.Phone = strings.TrimSpace(input.Phone)
	input.Content = strings.TrimSpace(input.Content)
	if err := check(input); err != nil {
		return nil, err
	}

	metrics.RecordInboundMessage()
	log := e.Log.WithFields(logrus.Fields{
		"account_id": input.AccountID,
		"phone":      input.Phone,
	})
	log.Info("📩 Mensagem recebida")

	// 1. Configurações e cota
	settings, err := e.Settings.Get(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if e.Settings.HaltOnQuota(ctx, settings, "inbound", settings.QuotaMessage()) {
		return nil, nil
	}

	// 2. Lead (cria no início do funil se for telefone novo)
	lead, err := e.findOrCreateLead(ctx, input.AccountID, input.Phone)
	if err != nil {
		return nil, err
	}

	// 3. Histórico antes da nova mensagem, para ela não aparecer duplicada no prompt
	history, err := e.Messages.ListByLead(ctx, lead.ID)
	if err != nil {
		return nil, dbError("erro ao carregar histórico", err)
	}

	inbound := entity.NewMessage(lead.ID, entity.DirectionInbound, entity.MessageText, input.Content)
	if err := e.Messages.Create(ctx, inbound); err != nil {
		return nil, dbError("erro ao salvar mensagem recebida", err)
	}

	// 4. Resposta do vendedor
	suggestion, reply := e.generate(ctx, settings, lead, history, input.Content)

	outbound := entity.NewMessage(lead.ID, entity.DirectionOutbound, entity.MessageText, reply)
	if err := e.Messages.Create(ctx, outbound); err != nil {
		return nil, dbError("erro ao salvar resposta", err)
	}

	e.Sender.Send(ctx, settings, lead.Phone, entity.MessageText, reply)

	// 5. Atualiza o lead com o que o modelo descobriu
	lead.Touch()
	fromStage := lead.SalesStage
	stageChanged := false
	if suggestion != nil {
		if suggestion.CustomerName != "" && lead.Name == "" {
			lead.Name = suggestion.CustomerName
		}
		stageChanged = e.applySuggestedStage(log, lead, suggestion.NextStage)
	}

	if err := e.Leads.Upsert(ctx, lead); err != nil {
		return nil, dbError("erro ao salvar lead", err)
	}

	out := &InboundMessageOutput{
		Lead:         lead,
		Reply:        reply,
		StageChanged: stageChanged,
	}
	if stageChanged {
		metrics.RecordStageTransition(string(fromStage), string(lead.SalesStage))
		log.WithFields(logrus.Fields{
			"from": fromStage,
			"to":   lead.SalesStage,
		}).Info("🔀 Lead mudou de estágio")
		out.FlowID = e.dispatchTriggeredFlow(ctx, lead)
	}

	return out, nil
}

// MoveLead aplica uma mudança manual de estágio e dispara o fluxo do novo
// estágio, como acontece na conversa.
func (e *FunnelEngine) MoveLead(ctx context.Context, lead *entity.Lead, stage entity.SalesStage) (string, error) {
	from := lead.SalesStage
	if !lead.MoveTo(stage) {
		return "", nil
	}
	lead.Touch()

	if err := e.Leads.Upsert(ctx, lead); err != nil {
		return "", dbError("erro ao salvar lead", err)
	}

	metrics.RecordStageTransition(string(from), string(stage))
	return e.dispatchTriggeredFlow(ctx, lead), nil
}

func (e *FunnelEngine) findOrCreateLead(ctx context.Context, accountID, phone string) (*entity.Lead, error) {
	lead, err := e.Leads.FindByPhone(ctx, accountID, phone)
	if err == nil {
		return lead, nil
	}
	if !errors.Is(err, entity.ErrLeadNotFound) {
		return nil, dbError("erro ao buscar lead", err)
	}

	lead, err = entity.NewLead(accountID, phone, "")
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}
	if err := e.Leads.Upsert(ctx, lead); err != nil {
		return nil, dbError("erro ao criar lead", err)
	}

	e.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"lead_id":    lead.ID,
	}).Info("🆕 Novo lead criado")
	return lead, nil
}

// generate nunca falha: erro do modelo vira a resposta de contingência, sem
// mudança de estágio e sem consumo de cota.
func (e *FunnelEngine) generate(ctx context.Context, settings *entity.Settings, lead *entity.Lead, history []*entity.Message, content string) (*gemini.GenerateOutput, string) {
	if e.Generator == nil {
		metrics.RecordGeneratorFallback()
		e.Log.Warn("⚠️ Gerador não configurado, usando resposta padrão")
		return nil, FallbackReply
	}

	out, err := e.Generator.Generate(ctx, gemini.GenerateInput{
		SystemInstruction: BuildSystemInstruction(settings, lead),
		History:           FormatHistory(history),
		Message:           content,
	})
	if err != nil {
		metrics.RecordGeneratorFallback()
		metrics.RecordIntegrationError("gemini")
		e.Log.WithError(err).WithField("lead_id", lead.ID).Error("❌ Gemini API Error")
		return nil, FallbackReply
	}

	if err := e.Settings.IncrementUsage(ctx, settings); err != nil {
		e.Log.WithError(err).Error("❌ Falha ao atualizar contador de uso")
	}

	reply := out.Reply
	if reply == "" {
		reply = EmptyReply
	}
	return out, reply
}

func (e *FunnelEngine) applySuggestedStage(log logrus.FieldLogger, lead *entity.Lead, suggested string) bool {
	if strings.TrimSpace(suggested) == "" {
		return false
	}

	stage, ok := entity.ParseSalesStage(suggested)
	if !ok {
		log.WithField("next_stage", suggested).Warn("⚠️ Estágio sugerido desconhecido, ignorando")
		return false
	}
	return lead.MoveTo(stage)
}

// dispatchTriggeredFlow enfileira o primeiro fluxo habilitado do estágio atual
// e devolve o ID dele, ou "" se nada foi disparado.
func (e *FunnelEngine) dispatchTriggeredFlow(ctx context.Context, lead *entity.Lead) string {
	log := e.Log.WithFields(logrus.Fields{
		"lead_id": lead.ID,
		"stage":   lead.SalesStage,
	})

	flows, err := e.Flows.List(ctx, lead.AccountID)
	if err != nil {
		log.WithError(err).Error("❌ Erro ao carregar fluxos")
		return ""
	}

	flow := entity.FindTriggeredFlow(flows, lead.SalesStage)
	if flow == nil {
		return ""
	}

	payload := queue.FlowRunPayload{
		AccountID:   lead.AccountID,
		LeadID:      lead.ID,
		FlowID:      flow.ID,
		Stage:       string(lead.SalesStage),
		RequestedAt: time.Now().UTC(),
	}
	if err := e.Dispatcher.DispatchFlow(ctx, payload); err != nil {
		log.WithError(err).Error("⚠️ CRITICAL: Estágio salvo, mas falha ao disparar fluxo")
		return ""
	}

	metrics.RecordFlowStarted()
	log.WithField("flow_id", flow.ID).Info("🚀 Fluxo automático disparado")
	return flow.ID
}
