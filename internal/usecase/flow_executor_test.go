package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/autoseller/internal/entity"
	"github.com/xavierca1/autoseller/internal/infra/queue"
	"github.com/xavierca1/autoseller/internal/logger"
	"github.com/xavierca1/autoseller/internal/usecase"
)

type sleepRecorder struct {
	waits  []time.Duration
	failAt int
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	if r.failAt > 0 && len(r.waits) == r.failAt {
		return context.Canceled
	}
	return nil
}

func newExecutor(f *fixture, rec *sleepRecorder) *usecase.FlowExecutor {
	x := usecase.NewFlowExecutor(f.leads, f.flows, f.msgs, f.settings, f.sender, logger.Discard())
	x.Sleep = rec.sleep
	return x
}

func seedLead(t *testing.T, f *fixture) *entity.Lead {
	t.Helper()
	lead, err := entity.NewLead(accountID, "5511988887777", "Ana")
	require.NoError(t, err)
	require.NoError(t, f.leads.Upsert(context.Background(), lead))
	return lead
}

func threeStepFlow() *entity.Flow {
	return &entity.Flow{
		ID:           "flow-1",
		AccountID:    accountID,
		Name:         "Oferta",
		TriggerStage: entity.StageOferta,
		IsEnabled:    true,
		Steps: []entity.FlowStep{
			{ID: "s1", Type: entity.MessageText, Content: "Olha essa condição", Delay: 100},
			{ID: "s2", Type: entity.MessageImage, Content: "https://cdn.local/oferta.png", Delay: 0},
			{ID: "s3", Type: entity.MessageText, Content: "Posso te mandar o link?", Delay: 2000},
		},
	}
}

func TestFlowExecutor_SendsEveryStepWithDelays(t *testing.T) {
	f := newFixture(t, nil)
	lead := seedLead(t, f)
	rec := &sleepRecorder{}

	sent, err := newExecutor(f, rec).Execute(context.Background(), lead, threeStepFlow())
	require.NoError(t, err)
	assert.Equal(t, 3, sent)

	outbound := f.msgs.byDirection(entity.DirectionOutbound)
	require.Len(t, outbound, 3)
	assert.Equal(t, "Olha essa condição", outbound[0].Content)
	assert.Equal(t, entity.MessageImage, outbound[1].Type)
	assert.Equal(t, "Posso te mandar o link?", outbound[2].Content)

	assert.Equal(t, []time.Duration{100 * time.Millisecond, 0, 2 * time.Second}, rec.waits)
	assert.Equal(t, 3, f.settingsRepo.current(accountID).UsedMessages)
}

func TestFlowExecutor_StopsWhenQuotaRunsOut(t *testing.T) {
	f := newFixture(t, func(s *entity.Settings) {
		s.MessageLimit = 10
		s.UsedMessages = 8
	})
	lead := seedLead(t, f)
	rec := &sleepRecorder{}

	sent, err := newExecutor(f, rec).Execute(context.Background(), lead, threeStepFlow())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	current := f.settingsRepo.current(accountID)
	assert.Equal(t, 10, current.UsedMessages)
	assert.Equal(t, usecase.FlowQuotaMessage, current.LastError)
	assert.Len(t, f.msgs.byDirection(entity.DirectionOutbound), 2)
}

func TestFlowExecutor_CancellationStopsFlow(t *testing.T) {
	f := newFixture(t, nil)
	lead := seedLead(t, f)
	rec := &sleepRecorder{failAt: 2}

	sent, err := newExecutor(f, rec).Execute(context.Background(), lead, threeStepFlow())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sent)
	assert.Len(t, f.msgs.byDirection(entity.DirectionOutbound), 1)
}

func TestFlowExecutor_ActiveAccountUsesMediaEndpoint(t *testing.T) {
	f := newFixture(t, func(s *entity.Settings) {
		s.IsActive = true
		s.WhatsAppAPIKey = "key"
		s.WhatsAppServerURL = "https://evo.local"
		s.WhatsAppInstanceID = "inst"
	})
	lead := seedLead(t, f)

	f.gw.On("SendText", mock.Anything, mock.Anything, lead.Phone, mock.Anything).Return(nil).Twice()
	f.gw.On("SendMedia", mock.Anything, mock.Anything, lead.Phone, entity.MessageImage, "https://cdn.local/oferta.png").Return(nil).Once()

	sent, err := newExecutor(f, &sleepRecorder{}).Execute(context.Background(), lead, threeStepFlow())
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	f.gw.AssertExpectations(t)
}

func TestFlowExecutor_RunLoadsLeadAndFlow(t *testing.T) {
	f := newFixture(t, nil)
	lead := seedLead(t, f)
	flow := threeStepFlow()
	require.NoError(t, f.flows.Save(context.Background(), flow))

	err := newExecutor(f, &sleepRecorder{}).Run(context.Background(), queue.FlowRunPayload{
		AccountID: accountID,
		LeadID:    lead.ID,
		FlowID:    flow.ID,
	})
	require.NoError(t, err)
	assert.Len(t, f.msgs.byDirection(entity.DirectionOutbound), 3)
}

func TestFlowExecutor_RunIgnoresDeletedLead(t *testing.T) {
	f := newFixture(t, nil)

	err := newExecutor(f, &sleepRecorder{}).Run(context.Background(), queue.FlowRunPayload{
		AccountID: accountID,
		LeadID:    "gone",
		FlowID:    "flow-1",
	})
	assert.NoError(t, err)
	assert.Empty(t, f.msgs.byDirection(entity.DirectionOutbound))
}

func TestFlowExecutor_EmptyFlowSendsNothing(t *testing.T) {
	f := newFixture(t, nil)
	lead := seedLead(t, f)

	sent, err := newExecutor(f, &sleepRecorder{}).Execute(context.Background(), lead, &entity.Flow{ID: "empty", AccountID: accountID})
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestFlowExecutor_PauseDuringDelayStopsFlow(t *testing.T) {
	f := newFixture(t, configuredGateway)
	lead := seedLead(t, f)

	x := newExecutor(f, &sleepRecorder{})
	x.Sleep = func(ctx context.Context, d time.Duration) error {
		_, err := f.settings.Update(ctx, accountID, usecase.UpdateSettingsInput{IsActive: boolPtr(false)})
		return err
	}

	sent, err := x.Execute(context.Background(), lead, threeStepFlow())
	require.NoError(t, err)
	assert.Zero(t, sent)

	f.gw.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.msgs.byDirection(entity.DirectionOutbound))
	assert.False(t, f.settingsRepo.current(accountID).IsActive)
}

func TestFlowExecutor_KeepsOperatorEditsMadeDuringDelay(t *testing.T) {
	f := newFixture(t, nil)
	lead := seedLead(t, f)

	x := newExecutor(f, &sleepRecorder{})
	x.Sleep = func(ctx context.Context, d time.Duration) error {
		_, err := f.settings.Update(ctx, accountID, usecase.UpdateSettingsInput{
			PaymentLink: strPtr("https://pay.local/novo"),
		})
		return err
	}

	sent, err := x.Execute(context.Background(), lead, threeStepFlow())
	require.NoError(t, err)
	assert.Equal(t, 3, sent)

	current := f.settingsRepo.current(accountID)
	assert.Equal(t, "https://pay.local/novo", current.PaymentLink)
	assert.Equal(t, 3, current.UsedMessages)
}
