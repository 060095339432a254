package queue

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// InProcessDispatcher roda o fluxo numa goroutine quando não há RabbitMQ.
// Pedidos em andamento se perdem se o processo cair.
type InProcessDispatcher struct {
	ctx    context.Context
	runner FlowRunner
	log    logrus.FieldLogger
	wg     sync.WaitGroup
}

// NewInProcessDispatcher usa ctx como vida útil dos fluxos, não o contexto
// da requisição que os disparou.
func NewInProcessDispatcher(ctx context.Context, runner FlowRunner, log logrus.FieldLogger) *InProcessDispatcher {
	return &InProcessDispatcher{
		ctx:    ctx,
		runner: runner,
		log:    log,
	}
}

func (d *InProcessDispatcher) DispatchFlow(_ context.Context, payload FlowRunPayload) error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.runner.Run(d.ctx, payload); err != nil {
			d.log.WithError(err).WithFields(logrus.Fields{
				"lead_id": payload.LeadID,
				"flow_id": payload.FlowID,
			}).Error("❌ Falha no fluxo em processo")
		}
	}()
	return nil
}

// Wait bloqueia até todos os fluxos disparados terminarem.
func (d *InProcessDispatcher) Wait() {
	d.wg.Wait()
}
