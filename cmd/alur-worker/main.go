// Package main provides the background action worker: it drains the task
// topic and executes each enqueued action by name.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/arthadana/alur/pkg/cmd"
	"github.com/arthadana/alur/pkg/log"
	"github.com/arthadana/alur/pkg/otelhelper"
	"github.com/arthadana/alur/pkg/taskqueue"
)

func main() {
	logger := log.WithModule("worker")

	command := &cli.Command{
		Name:                  "alur-worker",
		Usage:                 "Execute background workflow actions",
		EnableShellCompletion: true,
		Flags:                 cmd.CommonFlags(),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.InfoContext(ctx, "Initializing alur worker")

			store, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			publisher, subscriber, err := cmd.NewTaskChannel(command.String("task-queue"), "alur-worker", logger)
			if err != nil {
				return err
			}

			queue := cmd.NewTaskQueue(publisher, logger)
			defer func() {
				if err := queue.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close task queue", "error", err)
				}
			}()

			locker, err := cmd.NewLocker(command.String("redis-url"))
			if err != nil {
				return err
			}

			var tracer trace.Tracer
			if command.Bool("tracing") {
				tracer, err = otelhelper.NewTracer(ctx, "alur-worker")
				if err != nil {
					return err
				}
			}

			collab := cmd.NewCollaborators(cmd.CollaboratorConfigFromCommand(command))

			engine, err := cmd.NewEngine(store, queue, collab, locker, tracer, logger)
			if err != nil {
				return err
			}

			consumer := taskqueue.NewConsumer(subscriber, engine.Dispatcher, taskqueue.DefaultTopic, logger)

			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			logger.InfoContext(ctx, "Worker stopped")

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
