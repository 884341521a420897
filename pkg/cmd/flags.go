package cmd

import (
	cli "github.com/urfave/cli/v3"
)

// CommonFlags are the flags every binary shares: storage, queue, lock,
// tracing and the boundary service endpoints.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "database-url",
			Usage:    "Database connection URL (postgres:// or memory://)",
			Required: true,
			Sources:  cli.EnvVars("DATABASE_URL"),
		},
		&cli.StringFlag{
			Name:    "task-queue",
			Usage:   "Task queue provider (kafka, gochannel)",
			Value:   "gochannel",
			Sources: cli.EnvVars("TASK_QUEUE"),
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "Redis URL for the dispatch lock (empty disables locking)",
			Sources: cli.EnvVars("REDIS_URL"),
		},
		&cli.BoolFlag{
			Name:    "tracing",
			Usage:   "Enable OpenTelemetry tracing",
			Sources: cli.EnvVars("TRACING_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "sms-url",
			Usage:   "SMS gateway base URL",
			Sources: cli.EnvVars("SMS_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "email-url",
			Usage:   "Email gateway base URL",
			Sources: cli.EnvVars("EMAIL_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "push-url",
			Usage:   "Push gateway base URL",
			Sources: cli.EnvVars("PUSH_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "bank-url",
			Usage:   "Bank name-validation service base URL",
			Sources: cli.EnvVars("BANK_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "disburse-url",
			Usage:   "Disbursement gateway base URL",
			Sources: cli.EnvVars("DISBURSE_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "dialer-url",
			Usage:   "Outbound dialer base URL",
			Sources: cli.EnvVars("DIALER_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "gateway-api-key",
			Usage:   "API key presented to the boundary services",
			Sources: cli.EnvVars("GATEWAY_API_KEY"),
		},
	}
}

// CollaboratorConfigFromCommand reads the boundary service endpoints off the
// parsed command line.
func CollaboratorConfigFromCommand(command *cli.Command) CollaboratorConfig {
	return CollaboratorConfig{
		SMSBaseURL:      command.String("sms-url"),
		EmailBaseURL:    command.String("email-url"),
		PushBaseURL:     command.String("push-url"),
		BankBaseURL:     command.String("bank-url"),
		DisburseBaseURL: command.String("disburse-url"),
		DialerBaseURL:   command.String("dialer-url"),
		APIKey:          command.String("gateway-api-key"),
	}
}
