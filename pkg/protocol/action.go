package protocol

import (
	"context"

	"github.com/arthadana/alur/pkg/models"
)

// ActionFunc is a single named business operation from the action library.
// Actions take only the ambient transition context and re-derive any other
// state they need, so a replayed invocation built from persisted arguments
// behaves like the original one.
type ActionFunc func(ctx context.Context, t *models.StatusTransition) error

// StatusService is the external status-mutation service. The engine treats
// ChangeStatus as atomic and authoritative; callers of the engine are
// responsible for serializing transitions per application.
type StatusService interface {
	ChangeStatus(ctx context.Context, applicationID int64, newStatus models.StatusCode, reason string) (models.StatusCode, error)
}
