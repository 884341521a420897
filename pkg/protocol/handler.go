// Package protocol defines the contracts between the workflow engine and its
// handlers, actions and boundary collaborators.
package protocol

import (
	"context"

	"github.com/arthadana/alur/pkg/models"
)

// Phase is one of the four lifecycle phases a handler may implement.
type Phase string

const (
	// PhasePre runs before the status mutation is committed and may return
	// an error to abort the transition entirely.
	PhasePre Phase = "pre"

	// PhaseAsyncTask enqueues background work; it must not block on the
	// work itself.
	PhaseAsyncTask Phase = "async_task"

	// PhasePost runs after the status is committed. Post actions are
	// wrapped by the failure recorder so that raised errors leave a
	// durable replay record.
	PhasePost Phase = "post"

	// PhaseAfter runs last, for cleanup that may reference state set by
	// post actions of the same dispatch.
	PhaseAfter Phase = "after"
)

// Handler bundles up to four phase methods for a status/workflow/product
// scope. Handlers not interested in a phase inherit the no-op default by
// embedding BaseHandler.
type Handler interface {
	Name() string
	Pre(ctx context.Context, t *models.StatusTransition) error
	AsyncTask(ctx context.Context, t *models.StatusTransition) error
	Post(ctx context.Context, t *models.StatusTransition) error
	After(ctx context.Context, t *models.StatusTransition) error
}

// BaseHandler gives empty implementations for all four phases. Every concrete
// handler embeds it and overrides only the phases it needs.
type BaseHandler struct{}

func (BaseHandler) Pre(context.Context, *models.StatusTransition) error       { return nil }
func (BaseHandler) AsyncTask(context.Context, *models.StatusTransition) error { return nil }
func (BaseHandler) Post(context.Context, *models.StatusTransition) error      { return nil }
func (BaseHandler) After(context.Context, *models.StatusTransition) error     { return nil }
