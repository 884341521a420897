package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/persistence"
)

// PersistenceStatusService commits status mutations straight to storage. It
// stands in for the upstream platform service that owns the application row.
type PersistenceStatusService struct {
	store  persistence.Persistence
	logger *slog.Logger
}

func NewPersistenceStatusService(store persistence.Persistence, logger *slog.Logger) *PersistenceStatusService {
	return &PersistenceStatusService{store: store, logger: logger}
}

// ChangeStatus writes the new status and returns the status it replaced.
func (s *PersistenceStatusService) ChangeStatus(ctx context.Context, applicationID int64, newStatus models.StatusCode, reason string) (models.StatusCode, error) {
	app, err := s.store.Applications().ByID(ctx, applicationID)
	if err != nil {
		return 0, fmt.Errorf("failed to load application %d for status change: %w", applicationID, err)
	}

	oldStatus := app.StatusCode

	if err := s.store.Applications().UpdateStatus(ctx, applicationID, newStatus); err != nil {
		return 0, fmt.Errorf("failed to update status of application %d: %w", applicationID, err)
	}

	s.logger.InfoContext(ctx, "Application status changed",
		"application_id", applicationID,
		"old_status", int(oldStatus),
		"new_status", int(newStatus),
		"reason", reason)

	return oldStatus, nil
}
