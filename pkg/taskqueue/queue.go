// Package taskqueue moves named actions onto a message channel and executes
// them on the consuming side. Delivery is fire-and-forget: the engine never
// waits for a background action, and a lost job surfaces through the failure
// records of whatever it was supposed to unblock.
package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/protocol"
)

const (
	// DefaultTopic carries every background action.
	DefaultTopic = "alur.tasks"

	// DefaultQueue is the logical queue jobs land on unless routed elsewhere.
	DefaultQueue = "default"

	metadataActionName = "action_name"
	metadataQueue      = "queue"
)

// WatermillQueue publishes jobs onto a watermill channel. Delayed jobs are
// held back on the publishing side: the message only hits the channel once
// its ETA passes.
type WatermillQueue struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

func NewWatermillQueue(publisher message.Publisher, topic string, logger *slog.Logger) *WatermillQueue {
	if topic == "" {
		topic = DefaultTopic
	}

	return &WatermillQueue{publisher: publisher, topic: topic, logger: logger}
}

func (q *WatermillQueue) Enqueue(ctx context.Context, actionName string, args models.ActionArguments, opts ...protocol.EnqueueOption) (protocol.JobHandle, error) {
	job := protocol.Job{
		ID:         uuid.New().String(),
		ActionName: actionName,
		Arguments:  args,
		Queue:      DefaultQueue,
	}

	for _, opt := range opts {
		opt(&job)
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return protocol.JobHandle{}, fmt.Errorf("failed to marshal job for action %s: %w", actionName, err)
	}

	msg := message.NewMessage(job.ID, payload)
	msg.Metadata.Set(metadataActionName, job.ActionName)
	msg.Metadata.Set(metadataQueue, job.Queue)

	handle := protocol.JobHandle{ID: job.ID, Queue: job.Queue, EnqueuedAt: time.Now()}

	if job.ETA != nil {
		if delay := time.Until(*job.ETA); delay > 0 {
			go q.publishAfter(msg, job, delay)

			return handle, nil
		}
	}

	if err := q.publisher.Publish(q.topic, msg); err != nil {
		return protocol.JobHandle{}, fmt.Errorf("failed to publish job %s: %w", job.ID, err)
	}

	return handle, nil
}

func (q *WatermillQueue) publishAfter(msg *message.Message, job protocol.Job, delay time.Duration) {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	<-timer.C

	if err := q.publisher.Publish(q.topic, msg); err != nil {
		q.logger.Error("Failed to publish delayed job",
			"job_id", job.ID, "action", job.ActionName, "error", err)
	}
}

func (q *WatermillQueue) Close() error {
	return q.publisher.Close()
}
