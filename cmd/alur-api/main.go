package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/arthadana/alur/pkg/cmd"
	"github.com/arthadana/alur/pkg/log"
	"github.com/arthadana/alur/pkg/otelhelper"
	"github.com/arthadana/alur/pkg/replay"
	"go.opentelemetry.io/otel/trace"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "alur-api",
		Usage:                 "Serve the status workflow admin API",
		EnableShellCompletion: true,
		Flags: append(cmd.CommonFlags(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing alur API")

			store, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			publisher, _, err := cmd.NewTaskChannel(command.String("task-queue"), "alur-api", logger)
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
				tracer, err = otelhelper.NewTracer(ctx, "alur-api")
				if err != nil {
					return err
				}
			}

			collab := cmd.NewCollaborators(cmd.CollaboratorConfigFromCommand(command))

			engine, err := cmd.NewEngine(store, queue, collab, locker, tracer, logger)
			if err != nil {
				return err
			}

			recaller, err := replay.NewRecaller(store, engine.Dispatcher, logger)
			if err != nil {
				return err
			}

			api := NewAPI(logger, store, engine.Dispatcher, recaller)

			return api.Start(int(command.Int("port")))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}

