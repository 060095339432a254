package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// FlowRunner executa um fluxo pedido pela fila.
type FlowRunner interface {
	Run(ctx context.Context, payload FlowRunPayload) error
}

// DefaultConcurrency é quantos fluxos rodam ao mesmo tempo por worker.
const DefaultConcurrency = 10

type Worker struct {
	Channel     *amqp.Channel
	Runner      FlowRunner
	Concurrency int
	Log         logrus.FieldLogger
}

// NewWorker roda até concurrency fluxos em paralelo; use o mesmo valor no
// prefetch do canal (NewRabbitMQ).
func NewWorker(ch *amqp.Channel, runner FlowRunner, concurrency int, log logrus.FieldLogger) *Worker {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Worker{
		Channel:     ch,
		Runner:      runner,
		Concurrency: concurrency,
		Log:         log,
	}
}

// Start consome a fila até o contexto ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Log.WithFields(logrus.Fields{
		"queue":       queueName,
		"concurrency": w.Concurrency,
	}).Info(" [*] Worker rodando e aguardando fluxos")

	return w.serve(ctx, msgs)
}

// serve despacha cada entrega numa goroutine, no máximo Concurrency por vez.
// Um fluxo com esperas longas não segura os das outras contas.
func (w *Worker) serve(ctx context.Context, msgs <-chan amqp.Delivery) error {
	limit := w.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			w.Log.Info("⚠️ Worker de fluxos encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal do RabbitMQ fechado")
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				// sem ack: o broker devolve a mensagem quando o canal fechar
				w.Log.Info("⚠️ Worker de fluxos encerrado")
				return nil
			}

			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				w.handle(ctx, d)
			}(d)
		}
	}
}

// Acknowledger é o subconjunto de amqp.Delivery usado pelo worker.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	w.process(ctx, d.Body, &d)
}

func (w *Worker) process(ctx context.Context, body []byte, ack Acknowledger) {
	var payload FlowRunPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		w.Log.WithError(err).Error("❌ [WORKER] JSON inválido")
		// mensagem malformada vai direto pra DLQ
		ack.Nack(false, false)
		return
	}

	log := w.Log.WithFields(logrus.Fields{
		"lead_id": payload.LeadID,
		"flow_id": payload.FlowID,
	})
	log.Info("⚙️ [WORKER] Executando fluxo")

	if err := w.Runner.Run(ctx, payload); err != nil {
		log.WithError(err).Error("❌ [WORKER] Falha no fluxo")
		ack.Nack(false, false)
		return
	}

	log.Info("✅ [WORKER] Fluxo concluído")
	ack.Ack(false)
}
