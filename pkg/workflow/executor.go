// Package workflow runs status transitions: it resolves the handler chain for
// a transition, executes the four lifecycle phases in order, and commits the
// status mutation between the pre and async phases.
package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/otelhelper"
	"github.com/arthadana/alur/pkg/protocol"
	"github.com/arthadana/alur/pkg/registry"
)

// PhaseError reports which handler and phase a dispatch failed in.
type PhaseError struct {
	Phase   protocol.Phase
	Handler string
	Err     error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s phase of handler %s: %v", e.Phase, e.Handler, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// Executor runs one lifecycle phase across the resolved handler chain.
type Executor struct {
	registry *registry.HandlerRegistry
	tracer   trace.Tracer
	logger   *slog.Logger
}

func NewExecutor(reg *registry.HandlerRegistry, tracer trace.Tracer, logger *slog.Logger) *Executor {
	return &Executor{registry: reg, tracer: tracer, logger: logger}
}

// RunPhase resolves the handler chain for the phase and invokes each
// handler's phase method in resolution order. The chain is a sequential
// script: the first error stops it and the remaining handlers never run.
func (e *Executor) RunPhase(ctx context.Context, t *models.StatusTransition, workflowName string, phase protocol.Phase) error {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.phase",
		attribute.Int64(otelhelper.ApplicationIDKey, t.Application.ID),
		attribute.String(otelhelper.WorkflowNameKey, workflowName),
		attribute.String(otelhelper.PhaseKey, string(phase)),
		attribute.Int(otelhelper.OldStatusKey, int(t.OldStatusCode)),
		attribute.Int(otelhelper.NewStatusKey, int(t.NewStatusCode)),
	)
	defer span.End()

	handlers := e.registry.Resolve(t, workflowName, phase)

	for _, h := range handlers {
		e.logger.DebugContext(ctx, "Running handler phase",
			"handler", h.Name(), "phase", string(phase),
			"application_id", t.Application.ID)

		if err := e.invoke(ctx, h, t, phase); err != nil {
			otelhelper.SetError(span, err,
				attribute.String(otelhelper.HandlerNameKey, h.Name()))

			return &PhaseError{Phase: phase, Handler: h.Name(), Err: err}
		}
	}

	return nil
}

func (e *Executor) invoke(ctx context.Context, h protocol.Handler, t *models.StatusTransition, phase protocol.Phase) error {
	switch phase {
	case protocol.PhasePre:
		return h.Pre(ctx, t)
	case protocol.PhaseAsyncTask:
		return h.AsyncTask(ctx, t)
	case protocol.PhasePost:
		return h.Post(ctx, t)
	case protocol.PhaseAfter:
		return h.After(ctx, t)
	default:
		return fmt.Errorf("unknown phase %q", phase)
	}
}
