package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type StatusRefresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// Sweeper é qualquer limpeza periódica barata (ex.: rate limiter do webhook).
type Sweeper interface {
	Cleanup() int
}

// ConnectionStatusWorker sincroniza o connection_status das contas com o
// gateway de WhatsApp em intervalos fixos.
type ConnectionStatusWorker struct {
	refresher    StatusRefresher
	sweepers     []Sweeper
	tickInterval time.Duration
	log          logrus.FieldLogger
}

func NewConnectionStatusWorker(refresher StatusRefresher, interval time.Duration, log logrus.FieldLogger, sweepers ...Sweeper) *ConnectionStatusWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ConnectionStatusWorker{
		refresher:    refresher,
		sweepers:     sweepers,
		tickInterval: interval,
		log:          log,
	}
}

func (w *ConnectionStatusWorker) Start(ctx context.Context) {
	w.log.WithField("interval", w.tickInterval).Info("🕒 Worker de status do WhatsApp iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("⚠️ Worker de status do WhatsApp encerrado")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ConnectionStatusWorker) tick(ctx context.Context) {
	updated, err := w.refresher.RefreshAll(ctx)
	if err != nil && ctx.Err() == nil {
		w.log.WithError(err).Error("❌ Erro ao atualizar status das conexões")
	}
	if updated > 0 {
		w.log.Infof("✅ %d conexão(ões) com status atualizado", updated)
	}

	for _, s := range w.sweepers {
		if removed := s.Cleanup(); removed > 0 {
			w.log.Debugf("🧹 %d entrada(s) removidas", removed)
		}
	}
}
