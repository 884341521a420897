package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/arthadana/alur/pkg/channels/gochannel"
	"github.com/arthadana/alur/pkg/channels/kafka"
	"github.com/arthadana/alur/pkg/taskqueue"
)

// NewTaskChannel builds the publisher and subscriber pair for the task topic.
// kafka for production, gochannel for single-process runs.
func NewTaskChannel(provider, serviceName string, logger *slog.Logger) (message.Publisher, message.Subscriber, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "kafka":
		return kafka.CreateChannel(wmLogger, serviceName)
	case "gochannel":
		return gochannel.CreateChannel(wmLogger)
	default:
		return nil, nil, fmt.Errorf("unsupported task queue provider: %s", provider)
	}
}

// NewTaskQueue wraps the publisher end into the engine's task queue.
func NewTaskQueue(publisher message.Publisher, logger *slog.Logger) *taskqueue.WatermillQueue {
	return taskqueue.NewWatermillQueue(publisher, taskqueue.DefaultTopic, logger)
}
