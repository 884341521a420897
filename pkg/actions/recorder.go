package actions

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/persistence"
)

// FailureRecorder persists a replayable record for every post action that
// errors. Recording is best-effort: a storage failure while recording is
// logged and swallowed, because the original action error is the one the
// caller must see.
type FailureRecorder struct {
	store  persistence.Persistence
	logger *slog.Logger
}

func NewFailureRecorder(store persistence.Persistence, logger *slog.Logger) *FailureRecorder {
	return &FailureRecorder{store: store, logger: logger}
}

// Record writes the failure record for one failed post action. The argument
// tuple is taken from the transition verbatim; the replay job depends on its
// element order to rebuild the invocation.
func (r *FailureRecorder) Record(ctx context.Context, actionName string, t *models.StatusTransition, actionErr error) {
	r.logger.ErrorContext(ctx, "Post action failed",
		"action", actionName,
		"application_id", t.Application.ID,
		"old_status", int(t.OldStatusCode),
		"new_status", int(t.NewStatusCode),
		"error", actionErr)

	// Confirm the application still resolves before writing the record. A
	// record for a vanished application would never replay successfully, so
	// none is written.
	if _, err := r.store.Applications().ByID(ctx, t.Application.ID); err != nil {
		r.logger.WarnContext(ctx, "Skipping failure record for unresolvable application",
			"application_id", t.Application.ID, "error", err)

		return
	}

	fa := &models.FailureAction{
		ID:            uuid.New().String(),
		ApplicationID: t.Application.ID,
		ActionName:    actionName,
		ActionType:    models.FailureActionTypePost,
		Arguments:     t.Arguments(),
		ErrorMessage:  actionErr.Error(),
	}

	if err := r.store.FailureActions().Create(ctx, fa); err != nil {
		r.logger.ErrorContext(ctx, "Failed to persist failure record",
			"action", actionName, "application_id", t.Application.ID, "error", err)
	}
}
