package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"interview-prep/internal/app"
	"interview-prep/internal/platform/rabbitmq"
)

type SessionReconciler interface {
	ReconcileSession(ctx context.Context, sessionID uint) (bool, error)
}

// ReconcileWorker consumes reconcile jobs and repairs session indexes.
type ReconcileWorker struct {
	conn       *amqp.Connection
	reconciler SessionReconciler
	queueName  string
	logger     *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewReconcileWorker(conn *amqp.Connection, reconciler SessionReconciler, queueName string, logger *zap.Logger) *ReconcileWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileWorker{
		conn:       conn,
		reconciler: reconciler,
		queueName:  queueName,
		logger:     logger.Named("reconcile_worker"),
	}
}

func (w *ReconcileWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					w.logger.Warn("delivery channel closed")
					return
				}
				if w.Handle(workerCtx, d.Body) {
					_ = d.Ack(false)
				} else {
					_ = d.Nack(false, false)
				}
			}
		}
	}()

	w.logger.Info("reconcile worker started", zap.String("queue", w.queueName))
	return nil
}

// Handle processes one job body and reports whether it should be acked. A
// session deleted before the job ran counts as done.
func (w *ReconcileWorker) Handle(ctx context.Context, body []byte) bool {
	job, err := rabbitmq.DecodeReconcileJob(body)
	if err != nil {
		w.logger.Warn("drop malformed reconcile job", zap.Error(err))
		return false
	}

	changed, err := w.reconciler.ReconcileSession(ctx, job.SessionID)
	switch {
	case errors.Is(err, app.ErrSessionNotFound):
		w.logger.Info("reconcile skipped, session gone", zap.Uint("session_id", job.SessionID))
		return true
	case err != nil:
		w.logger.Error("reconcile session failed", zap.Uint("session_id", job.SessionID), zap.Error(err))
		return false
	}

	w.logger.Debug("reconcile done", zap.Uint("session_id", job.SessionID), zap.Bool("changed", changed))
	return true
}

func (w *ReconcileWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
