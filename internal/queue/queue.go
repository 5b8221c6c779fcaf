package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
	"github.com/xxxsen/msgvault/internal/pkg/timeutil"
	"github.com/xxxsen/msgvault/internal/repo"
)

// Handler processes one persisted batch at a time. OnComplete fires exactly
// once per drain run that processed at least one batch, after the queue is
// empty.
type Handler interface {
	ProcessOne(ctx context.Context, payload json.RawMessage) error
	OnComplete(ctx context.Context)
}

// Worker drives a named durable FIFO of batches. Batch processing may span
// many drain invocations: an async dispatch right after enqueue, plus a
// recurring scheduler tick that also reclaims leases left behind by crashed
// workers. A batch is deleted only after its callback returns, so an
// interrupted batch is retried in full on the next run.
type Worker struct {
	name     string
	batches  *repo.BatchRepo
	locker   Locker
	handler  Handler
	leaseTTL time.Duration
}

func NewWorker(name string, batches *repo.BatchRepo, locker Locker, handler Handler, leaseTTL time.Duration) *Worker {
	return &Worker{
		name:     name,
		batches:  batches,
		locker:   locker,
		handler:  handler,
		leaseTTL: leaseTTL,
	}
}

func (w *Worker) Push(ctx context.Context, payload json.RawMessage) error {
	return w.batches.Enqueue(ctx, w.name, payload, timeutil.NowUnix())
}

func (w *Worker) Pending(ctx context.Context) (int, error) {
	return w.batches.Count(ctx, w.name)
}

// Dispatch signals that work is pending and returns immediately.
func (w *Worker) Dispatch() {
	go func() {
		if err := w.Drain(context.Background()); err != nil {
			logutil.GetLogger(context.Background()).Error("queue drain failed",
				zap.String("queue", w.name), zap.Error(err))
		}
	}()
}

// Drain processes batches until the queue is empty or the lease is lost.
// It returns immediately when another worker holds the lease.
func (w *Worker) Drain(ctx context.Context) error {
	token, ok, err := w.locker.Acquire(ctx, w.lockKey(), w.leaseTTL)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	defer func() {
		_ = w.locker.Release(context.Background(), w.lockKey(), token)
	}()

	logger := logutil.GetLogger(ctx).With(zap.String("queue", w.name))
	processed := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := w.batches.Oldest(ctx, w.name)
		if errors.Is(err, appErr.ErrNotFound) {
			break
		}
		if err != nil {
			return err
		}
		if err := w.handler.ProcessOne(ctx, batch.Payload); err != nil {
			// A batch that fails as a whole is dropped, not retried: it
			// would fail the same way on every subsequent lease.
			logger.Warn("batch task failed, dropping batch",
				zap.Int64("batch_id", batch.ID), zap.Error(err))
		}
		if err := w.batches.Delete(ctx, batch.ID); err != nil {
			return err
		}
		processed++
		_ = w.locker.Refresh(ctx, w.lockKey(), token, w.leaseTTL)
	}
	if processed > 0 {
		logger.Info("queue drained", zap.Int("batches", processed))
		w.handler.OnComplete(ctx)
	}
	return nil
}

func (w *Worker) lockKey() string {
	return "msgvault:queue:" + w.name + ":lock"
}
