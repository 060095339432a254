package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/autoseller/internal/logger"
)

type MockFlowRunner struct {
	mock.Mock
}

func (m *MockFlowRunner) Run(ctx context.Context, payload FlowRunPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type fakeAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAck) Ack(bool) error {
	a.acked = true
	return nil
}

func (a *fakeAck) Nack(_ bool, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func newPayload() FlowRunPayload {
	return FlowRunPayload{
		AccountID:   "acc-1",
		LeadID:      "lead-1",
		FlowID:      "flow-1",
		Stage:       "oferta",
		RequestedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestWorkerAcksOnSuccess(t *testing.T) {
	runner := new(MockFlowRunner)
	runner.On("Run", mock.Anything, mock.MatchedBy(func(p FlowRunPayload) bool {
		return p.LeadID == "lead-1" && p.FlowID == "flow-1"
	})).Return(nil)

	w := NewWorker(nil, runner, 1, logger.Discard())
	body, _ := json.Marshal(newPayload())
	ack := &fakeAck{}

	w.process(context.Background(), body, ack)

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	runner.AssertExpectations(t)
}

func TestWorkerNacksOnRunnerError(t *testing.T) {
	runner := new(MockFlowRunner)
	runner.On("Run", mock.Anything, mock.Anything).Return(errors.New("lead sumiu"))

	w := NewWorker(nil, runner, 1, logger.Discard())
	body, _ := json.Marshal(newPayload())
	ack := &fakeAck{}

	w.process(context.Background(), body, ack)

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue, "falhas vão para a DLQ, sem requeue")
}

func TestWorkerNacksMalformedJSON(t *testing.T) {
	runner := new(MockFlowRunner)
	w := NewWorker(nil, runner, 1, logger.Discard())
	ack := &fakeAck{}

	w.process(context.Background(), []byte("{nope"), ack)

	assert.True(t, ack.nacked)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestFlowRunPayloadJSONKeys(t *testing.T) {
	body, err := json.Marshal(newPayload())
	assert.NoError(t, err)

	var data map[string]interface{}
	json.Unmarshal(body, &data)

	for _, field := range []string{"account_id", "lead_id", "flow_id", "stage", "requested_at"} {
		assert.Contains(t, data, field, "field %s is missing", field)
	}
}

// deliveryAcker implementa amqp.Acknowledger contando acks e nacks.
type deliveryAcker struct {
	mu    sync.Mutex
	acks  int
	nacks int
}

func (a *deliveryAcker) Ack(uint64, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks++
	return nil
}

func (a *deliveryAcker) Nack(uint64, bool, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks++
	return nil
}

func (a *deliveryAcker) Reject(uint64, bool) error {
	return a.Nack(0, false, false)
}

func (a *deliveryAcker) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acks, a.nacks
}

// gatedRunner segura cada Run até release ser fechado.
type gatedRunner struct {
	started chan string
	release chan struct{}
}

func (r *gatedRunner) Run(ctx context.Context, payload FlowRunPayload) error {
	r.started <- payload.LeadID
	select {
	case <-r.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func delivery(t *testing.T, acker amqp.Acknowledger, leadID string) amqp.Delivery {
	t.Helper()
	p := newPayload()
	p.LeadID = leadID
	body, err := json.Marshal(p)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: acker, Body: body}
}

func TestWorkerRunsFlowsConcurrently(t *testing.T) {
	runner := &gatedRunner{started: make(chan string, 2), release: make(chan struct{})}
	acker := &deliveryAcker{}
	w := NewWorker(nil, runner, 2, logger.Discard())

	msgs := make(chan amqp.Delivery, 2)
	msgs <- delivery(t, acker, "lead-1")
	msgs <- delivery(t, acker, "lead-2")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.serve(ctx, msgs) }()

	// os dois fluxos começam sem que o primeiro termine
	started := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-runner.started:
			started[id] = true
		case <-time.After(time.Second):
			t.Fatalf("só %d fluxo(s) iniciado(s) em paralelo", len(started))
		}
	}
	assert.True(t, started["lead-1"])
	assert.True(t, started["lead-2"])

	close(runner.release)
	assert.Eventually(t, func() bool {
		acks, _ := acker.counts()
		return acks == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker não encerrou")
	}
}

func TestWorkerRespectsConcurrencyLimit(t *testing.T) {
	runner := &gatedRunner{started: make(chan string, 2), release: make(chan struct{})}
	acker := &deliveryAcker{}
	w := NewWorker(nil, runner, 1, logger.Discard())

	msgs := make(chan amqp.Delivery, 2)
	msgs <- delivery(t, acker, "lead-1")
	msgs <- delivery(t, acker, "lead-2")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.serve(ctx, msgs)

	<-runner.started
	select {
	case id := <-runner.started:
		t.Fatalf("fluxo %s começou acima do limite", id)
	case <-time.After(50 * time.Millisecond):
	}

	close(runner.release)
	select {
	case <-runner.started:
	case <-time.After(time.Second):
		t.Fatal("segundo fluxo não começou após liberar o primeiro")
	}
}

func TestWorkerServeReturnsWhenChannelCloses(t *testing.T) {
	w := NewWorker(nil, new(MockFlowRunner), 1, logger.Discard())
	msgs := make(chan amqp.Delivery)
	close(msgs)

	err := w.serve(context.Background(), msgs)
	assert.Error(t, err)
}
