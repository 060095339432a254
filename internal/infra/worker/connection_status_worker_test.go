package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/autoseller/internal/logger"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) RefreshAll(context.Context) (int, error) {
	r.calls.Add(1)
	return 1, r.err
}

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Cleanup() int {
	s.calls.Add(1)
	return 0
}

func TestConnectionStatusWorkerTicksUntilCancelled(t *testing.T) {
	refresher := &countingRefresher{}
	sweeper := &countingSweeper{}
	w := NewConnectionStatusWorker(refresher, 10*time.Millisecond, logger.Discard(), sweeper)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return refresher.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker não encerrou após cancelamento")
	}
	assert.Equal(t, refresher.calls.Load(), sweeper.calls.Load())
}

func TestConnectionStatusWorkerSurvivesErrors(t *testing.T) {
	refresher := &countingRefresher{err: errors.New("db fora")}
	w := NewConnectionStatusWorker(refresher, 0, logger.Discard())

	w.tick(context.Background())
	w.tick(context.Background())

	assert.Equal(t, int32(2), refresher.calls.Load())
	assert.Equal(t, time.Minute, w.tickInterval)
}
