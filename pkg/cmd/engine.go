package cmd

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/arthadana/alur/pkg/actions"
	"github.com/arthadana/alur/pkg/clients"
	"github.com/arthadana/alur/pkg/handlers"
	"github.com/arthadana/alur/pkg/lock"
	"github.com/arthadana/alur/pkg/persistence"
	"github.com/arthadana/alur/pkg/protocol"
	"github.com/arthadana/alur/pkg/registry"
	"github.com/arthadana/alur/pkg/workflow"
)

// Engine bundles the fully wired dispatch machinery a binary needs.
type Engine struct {
	Library    *actions.Library
	Handlers   *registry.HandlerRegistry
	Actions    *registry.ActionRegistry
	Dispatcher *workflow.Dispatcher
}

// NewEngine wires registries, action library, executor and dispatcher. Pass a
// nil tracer to run without tracing.
func NewEngine(
	store persistence.Persistence,
	queue protocol.TaskQueue,
	collab actions.Collaborators,
	locker lock.Locker,
	tracer trace.Tracer,
	logger *slog.Logger,
) (*Engine, error) {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("alur")
	}

	library := actions.NewLibrary(store, queue, collab, logger)

	actionRegistry := registry.NewActionRegistry()
	library.RegisterAll(actionRegistry)

	handlerRegistry := registry.NewHandlerRegistry(logger)
	handlers.RegisterAll(handlerRegistry, library)

	if err := handlerRegistry.Validate(); err != nil {
		return nil, err
	}

	executor := workflow.NewExecutor(handlerRegistry, tracer, logger)
	statuses := workflow.NewPersistenceStatusService(store, logger)
	dispatcher := workflow.NewDispatcher(store, statuses, executor, actionRegistry, locker, tracer, logger)

	return &Engine{
		Library:    library,
		Handlers:   handlerRegistry,
		Actions:    actionRegistry,
		Dispatcher: dispatcher,
	}, nil
}

// NewLocker returns the redis-backed dispatch lock, or the no-op lock when no
// redis URL is configured.
func NewLocker(redisURL string) (lock.Locker, error) {
	if redisURL == "" {
		return lock.NoopLocker{}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	return lock.NewRedisLocker(redis.NewClient(opts)), nil
}

// CollaboratorConfig points at the boundary services.
type CollaboratorConfig struct {
	SMSBaseURL      string
	EmailBaseURL    string
	PushBaseURL     string
	BankBaseURL     string
	DisburseBaseURL string
	DialerBaseURL   string
	APIKey          string
}

// NewCollaborators builds the HTTP boundary clients from their base URLs.
func NewCollaborators(cfg CollaboratorConfig) actions.Collaborators {
	return actions.Collaborators{
		SMS:       clients.NewHTTPSMSClient(cfg.SMSBaseURL, cfg.APIKey, 0),
		Email:     clients.NewHTTPEmailClient(cfg.EmailBaseURL, cfg.APIKey, 0),
		Push:      clients.NewHTTPPushClient(cfg.PushBaseURL, cfg.APIKey, 0),
		Bank:      clients.NewHTTPBankValidator(cfg.BankBaseURL, cfg.APIKey, 0),
		Disburser: clients.NewHTTPDisbursementGateway(cfg.DisburseBaseURL, cfg.APIKey, 0),
		Dialer:    clients.NewHTTPDialerClient(cfg.DialerBaseURL, cfg.APIKey, 0),
	}
}
