package taskqueue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/protocol"
	"github.com/arthadana/alur/pkg/registry"
)

// ActionExecutor re-invokes one named action from its argument tuple.
type ActionExecutor interface {
	ExecuteAction(ctx context.Context, actionName string, args models.ActionArguments) error
}

// Consumer drains the task topic and executes each job. Every message is
// acked, success or not: background actions are best-effort by contract, and
// a poisoned job must not wedge the topic.
type Consumer struct {
	subscriber message.Subscriber
	executor   ActionExecutor
	topic      string
	logger     *slog.Logger
}

func NewConsumer(subscriber message.Subscriber, executor ActionExecutor, topic string, logger *slog.Logger) *Consumer {
	if topic == "" {
		topic = DefaultTopic
	}

	return &Consumer{subscriber: subscriber, executor: executor, topic: topic, logger: logger}
}

// Run consumes jobs until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return err
	}

	c.logger.Info("Task consumer started", "topic", c.topic)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			c.handle(ctx, msg)
			msg.Ack()
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg *message.Message) {
	var job protocol.Job

	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		c.logger.Error("Dropping undecodable job",
			"message_id", msg.UUID, "error", err)

		return
	}

	if err := c.executor.ExecuteAction(ctx, job.ActionName, job.Arguments); err != nil {
		var deprecated *registry.DeprecatedActionError
		if errors.As(err, &deprecated) {
			c.logger.Error("Dropped job for deprecated action",
				"job_id", job.ID, "action", job.ActionName)

			return
		}

		c.logger.Error("Background action failed",
			"job_id", job.ID, "action", job.ActionName,
			"application_id", job.Arguments.ApplicationID, "error", err)

		return
	}

	c.logger.Debug("Background action completed",
		"job_id", job.ID, "action", job.ActionName,
		"application_id", job.Arguments.ApplicationID)
}
