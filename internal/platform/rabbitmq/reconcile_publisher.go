package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ReconcileJob asks a worker to rebuild one session's question index.
type ReconcileJob struct {
	SessionID   uint      `json:"sessionId"`
	RequestedAt time.Time `json:"requestedAt"`
}

type ReconcilePublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewReconcilePublisher(conn *amqp.Connection, queueName string) *ReconcilePublisher {
	return &ReconcilePublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ReconcilePublisher) EnqueueReconcile(ctx context.Context, sessionID uint) error {
	payload, err := EncodeReconcileJob(ReconcileJob{SessionID: sessionID, RequestedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish reconcile job failed: %w", err)
	}
	return nil
}

func EncodeReconcileJob(job ReconcileJob) ([]byte, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal reconcile job failed: %w", err)
	}
	return payload, nil
}

func DecodeReconcileJob(body []byte) (ReconcileJob, error) {
	var job ReconcileJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, fmt.Errorf("unmarshal reconcile job failed: %w", err)
	}
	if job.SessionID == 0 {
		return job, fmt.Errorf("reconcile job missing session id")
	}
	return job, nil
}
