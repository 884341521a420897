// Package main provides the failure replayer: it sweeps the failure records
// on a schedule and re-invokes each recorded action.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/arthadana/alur/pkg/cmd"
	"github.com/arthadana/alur/pkg/log"
	"github.com/arthadana/alur/pkg/otelhelper"
	"github.com/arthadana/alur/pkg/replay"
)

func main() {
	logger := log.WithModule("replayer")

	command := &cli.Command{
		Name:                  "alur-replayer",
		Usage:                 "Replay failed workflow actions",
		EnableShellCompletion: true,
		Flags: append(cmd.CommonFlags(),
			&cli.StringFlag{
				Name:    "schedule",
				Usage:   "Cron schedule for recall sweeps",
				Value:   replay.DefaultSchedule,
				Sources: cli.EnvVars("RECALL_SCHEDULE"),
			},
			&cli.BoolFlag{
				Name:  "once",
				Usage: "Run a single sweep and exit",
			},
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing alur replayer")

			store, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			publisher, _, err := cmd.NewTaskChannel(command.String("task-queue"), "alur-replayer", logger)
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
				tracer, err = otelhelper.NewTracer(ctx, "alur-replayer")
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

			if command.Bool("once") {
				_, err := recaller.RecallAll(ctx)

				return err
			}

			scheduler, err := replay.NewScheduler(command.String("schedule"), recaller, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			scheduler.Start()
			<-ctx.Done()
			scheduler.Stop()

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
