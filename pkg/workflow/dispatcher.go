package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/arthadana/alur/pkg/actions"
	"github.com/arthadana/alur/pkg/lock"
	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/otelhelper"
	"github.com/arthadana/alur/pkg/persistence"
	"github.com/arthadana/alur/pkg/protocol"
	"github.com/arthadana/alur/pkg/registry"
)

// dispatchLockTTL bounds how long a crashed dispatch can keep an application
// locked.
const dispatchLockTTL = 2 * time.Minute

// ErrSameStatus is returned for a dispatch that targets the status the
// application is already at.
var ErrSameStatus = errors.New("application is already at the requested status")

// Dispatcher drives one status transition through its full lifecycle:
// pre, status commit, async_task, post, after.
type Dispatcher struct {
	store    persistence.Persistence
	statuses protocol.StatusService
	executor *Executor
	actions  *registry.ActionRegistry
	nodes    *NodeCache
	locker   lock.Locker
	tracer   trace.Tracer
	logger   *slog.Logger
}

func NewDispatcher(
	store persistence.Persistence,
	statuses protocol.StatusService,
	executor *Executor,
	actionRegistry *registry.ActionRegistry,
	locker lock.Locker,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		store:    store,
		statuses: statuses,
		executor: executor,
		actions:  actionRegistry,
		nodes:    NewNodeCache(executor.registry),
		locker:   locker,
		tracer:   tracer,
		logger:   logger,
	}
}

// Dispatch moves the application to newStatus, running every matching handler
// phase on the way. The per-application lock serializes concurrent dispatches;
// a held lock fails fast with lock.ErrAlreadyLocked.
func (d *Dispatcher) Dispatch(ctx context.Context, applicationID int64, newStatus models.StatusCode, reason, note string) error {
	release, err := d.locker.Acquire(ctx, applicationID, dispatchLockTTL)
	if err != nil {
		return err
	}

	defer func() {
		if err := release(ctx); err != nil {
			d.logger.WarnContext(ctx, "Failed to release dispatch lock",
				"application_id", applicationID, "error", err)
		}
	}()

	return d.dispatch(ctx, applicationID, newStatus, reason, note)
}

// dispatch runs the transition under an already-held lock. Bank-account
// redirects re-enter here directly so they reuse the caller's lock.
func (d *Dispatcher) dispatch(ctx context.Context, applicationID int64, newStatus models.StatusCode, reason, note string) error {
	ctx, span := otelhelper.StartSpan(ctx, d.tracer, "workflow.dispatch",
		attribute.Int64(otelhelper.ApplicationIDKey, applicationID),
		attribute.Int(otelhelper.NewStatusKey, int(newStatus)),
		attribute.String(otelhelper.ChangeReasonKey, reason),
	)
	defer span.End()

	app, err := d.store.Applications().ByID(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("failed to load application %d: %w", applicationID, err)
	}

	if err := app.Validate(); err != nil {
		return err
	}

	if app.StatusCode == newStatus {
		return fmt.Errorf("application %d: %w (%d)", applicationID, ErrSameStatus, int(newStatus))
	}

	if !newStatus.IsKnown() {
		return fmt.Errorf("application %d: unknown destination status %d", applicationID, int(newStatus))
	}

	t := models.NewStatusTransition(app, app.StatusCode, newStatus, reason, note)
	workflowName := app.Variant.WorkflowName()
	node := d.nodes.Describe(workflowName, newStatus)

	d.logger.DebugContext(ctx, "Dispatching status transition",
		"application_id", applicationID, "workflow", workflowName,
		"old_status", int(app.StatusCode), "new_status", int(newStatus),
		"node_override", node.HasOverride)

	// Pre phase runs before the mutation and may veto it.
	if err := d.executor.RunPhase(ctx, t, workflowName, protocol.PhasePre); err != nil {
		otelhelper.SetError(span, err)

		if redirected, redirectErr := d.maybeRedirect(ctx, t, err); redirected {
			return redirectErr
		}

		return fmt.Errorf("transition of application %d to %d vetoed: %w",
			applicationID, int(newStatus), err)
	}

	oldStatus, err := d.statuses.ChangeStatus(ctx, applicationID, newStatus, reason)
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	t.OldStatusCode = oldStatus
	t.Application.StatusCode = newStatus

	// Async phase only enqueues; a failed enqueue must not undo a committed
	// transition, so it is logged and the dispatch continues.
	if err := d.executor.RunPhase(ctx, t, workflowName, protocol.PhaseAsyncTask); err != nil {
		d.logger.ErrorContext(ctx, "Async task phase failed",
			"application_id", applicationID, "error", err)
	}

	postErr := d.executor.RunPhase(ctx, t, workflowName, protocol.PhasePost)
	if postErr != nil {
		d.logger.ErrorContext(ctx, "Post phase failed",
			"application_id", applicationID, "error", postErr)
	}

	// The after phase anchors on the status being left and runs even when a
	// post handler failed, so cleanup of the old status always happens.
	if err := d.executor.RunPhase(ctx, t, workflowName, protocol.PhaseAfter); err != nil {
		d.logger.ErrorContext(ctx, "After phase failed",
			"application_id", applicationID, "error", err)
	}

	if postErr != nil {
		if redirected, redirectErr := d.maybeRedirect(ctx, t, postErr); redirected {
			return redirectErr
		}

		otelhelper.SetError(span, postErr)

		return postErr
	}

	return nil
}

// maybeRedirect reroutes the application when a bank validation failure asks
// for it, instead of leaving the application stuck mid-flow.
func (d *Dispatcher) maybeRedirect(ctx context.Context, t *models.StatusTransition, err error) (bool, error) {
	bankErr, ok := actions.AsInvalidBankAccount(err)
	if !ok || bankErr.RedirectStatus() == 0 {
		return false, nil
	}

	target := bankErr.RedirectStatus()

	d.logger.WarnContext(ctx, "Bank validation failed, redirecting application",
		"application_id", t.Application.ID,
		"redirect_status", int(target),
		"reason", bankErr.Reason)

	return true, d.dispatch(ctx, t.Application.ID, target, "name_validation_failed", bankErr.Reason)
}

// ExecuteAction re-invokes one named action from its persisted argument
// tuple. The background worker and the failure replay job both come through
// here.
func (d *Dispatcher) ExecuteAction(ctx context.Context, actionName string, args models.ActionArguments) error {
	ctx, span := otelhelper.StartSpan(ctx, d.tracer, "workflow.execute_action",
		attribute.String(otelhelper.ActionNameKey, actionName),
		attribute.Int64(otelhelper.ApplicationIDKey, args.ApplicationID),
	)
	defer span.End()

	fn, err := d.actions.Lookup(actionName)
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	app, err := d.store.Applications().ByID(ctx, args.ApplicationID)
	if err != nil {
		otelhelper.SetError(span, err)

		return fmt.Errorf("failed to load application %d for action %s: %w",
			args.ApplicationID, actionName, err)
	}

	t := models.NewStatusTransition(app, args.OldStatusCode, args.NewStatusCode,
		args.ChangeReason, args.Note)

	if err := fn(ctx, t); err != nil {
		otelhelper.SetError(span, err)

		return fmt.Errorf("action %s failed for application %d: %w",
			actionName, args.ApplicationID, err)
	}

	return nil
}
