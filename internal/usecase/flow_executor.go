package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/entity"
	"github.com/xavierca1/autoseller/internal/infra/metrics"
	"github.com/xavierca1/autoseller/internal/infra/queue"
)

// SleepFunc espera d ou até o contexto acabar.
type SleepFunc func(ctx context.Context, d time.Duration) error

type FlowExecutor struct {
	Leads    entity.LeadRepositoryInterface
	Flows    entity.FlowRepositoryInterface
	Messages entity.MessageRepositoryInterface
	Settings *SettingsService
	Sender   *MessageSender
	Sleep    SleepFunc
	Log      logrus.FieldLogger
}

func NewFlowExecutor(
	leads entity.LeadRepositoryInterface,
	flows entity.FlowRepositoryInterface,
	messages entity.MessageRepositoryInterface,
	settings *SettingsService,
	sender *MessageSender,
	log logrus.FieldLogger,
) *FlowExecutor {
	return &FlowExecutor{
		Leads:    leads,
		Flows:    flows,
		Messages: messages,
		Settings: settings,
		Sender:   sender,
		Sleep:    sleepContext,
		Log:      log,
	}
}

// Run atende um pedido da fila. Lead ou fluxo apagados nesse meio tempo não
// são erro: não há o que executar.
func (x *FlowExecutor) Run(ctx context.Context, payload queue.FlowRunPayload) error {
	log := x.Log.WithFields(logrus.Fields{
		"lead_id": payload.LeadID,
		"flow_id": payload.FlowID,
	})

	lead, err := x.Leads.FindByID(ctx, payload.AccountID, payload.LeadID)
	if errors.Is(err, entity.ErrLeadNotFound) {
		log.Warn("⚠️ Lead não existe mais, fluxo descartado")
		return nil
	}
	if err != nil {
		return dbError("erro ao carregar lead", err)
	}

	flow, err := x.Flows.FindByID(ctx, payload.AccountID, payload.FlowID)
	if errors.Is(err, entity.ErrFlowNotFound) {
		log.Warn("⚠️ Fluxo não existe mais, descartado")
		return nil
	}
	if err != nil {
		return dbError("erro ao carregar fluxo", err)
	}

	sent, err := x.Execute(ctx, lead, flow)
	log.WithField("steps_sent", sent).Info("🏁 Execução de fluxo encerrada")
	return err
}

// Execute envia os passos em ordem e devolve quantos foram enviados. Depois
// da espera de cada passo as configurações são relidas: cota esgotada ou
// conta pausada durante o fluxo abandonam o resto.
func (x *FlowExecutor) Execute(ctx context.Context, lead *entity.Lead, flow *entity.Flow) (int, error) {
	sleep := x.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	log := x.Log.WithFields(logrus.Fields{
		"lead_id": lead.ID,
		"flow_id": flow.ID,
	})

	settings, err := x.Settings.Get(ctx, lead.AccountID)
	if err != nil {
		return 0, err
	}
	if len(flow.Steps) > 0 && x.Settings.HaltOnQuota(ctx, settings, "flow", FlowQuotaMessage) {
		return 0, nil
	}
	startedActive := settings.IsActive

	sent := 0
	for i, step := range flow.Steps {
		if err := sleep(ctx, step.Wait()); err != nil {
			return sent, err
		}

		settings, err := x.Settings.Get(ctx, lead.AccountID)
		if err != nil {
			return sent, err
		}
		if x.Settings.HaltOnQuota(ctx, settings, "flow", FlowQuotaMessage) {
			return sent, nil
		}
		if startedActive && !settings.IsActive {
			log.WithField("step", i+1).Warn("⏸️ Conta pausada durante o fluxo, passos restantes descartados")
			return sent, nil
		}

		msg := entity.NewMessage(lead.ID, entity.DirectionOutbound, step.Type, step.Content)
		if err := x.Messages.Create(ctx, msg); err != nil {
			return sent, dbError("erro ao salvar passo do fluxo", err)
		}

		x.Sender.Send(ctx, settings, lead.Phone, msg.Type, step.Content)

		if err := x.Settings.IncrementUsage(ctx, settings); err != nil {
			return sent, err
		}

		sent++
		metrics.RecordFlowStepSent()
		log.WithFields(logrus.Fields{
			"step":  i + 1,
			"total": len(flow.Steps),
		}).Debug("📨 Passo do fluxo enviado")
	}
	return sent, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
