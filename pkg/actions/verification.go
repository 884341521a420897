package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/persistence"
)

// ProcessDocumentsVerified runs the background follow-up of the
// documents-verified status: it opens the dialer queue entry for the
// verification call and notifies the customer. Handlers enqueue it; the
// worker invokes it by name.
func (l *Library) ProcessDocumentsVerified(ctx context.Context, t *models.StatusTransition) error {
	_, err := l.store.AutodialerQueues().ByApplicationAndStatus(ctx,
		t.Application.ID, models.StatusDocumentsVerified)
	if errors.Is(err, persistence.ErrAutodialerQueueNotFound) {
		entry := &models.AutodialerQueue{
			ApplicationID: t.Application.ID,
			StatusCode:    models.StatusDocumentsVerified,
		}

		if err := l.store.AutodialerQueues().Save(ctx, entry); err != nil {
			return fmt.Errorf("failed to queue application %d for verification call: %w",
				t.Application.ID, err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to load autodialer entry for application %d: %w",
			t.Application.ID, err)
	}

	return l.SendPushNotification(ctx, t)
}

// RecordStatusHistory appends the audit row for a committed transition. It
// runs for every status change, regardless of which handlers matched.
func (l *Library) RecordStatusHistory(ctx context.Context, t *models.StatusTransition) error {
	h := &models.StatusHistory{
		ApplicationID: t.Application.ID,
		OldStatusCode: t.OldStatusCode,
		NewStatusCode: t.NewStatusCode,
		ChangeReason:  t.ChangeReason,
		Note:          t.Note,
	}

	if err := l.store.StatusHistory().Create(ctx, h); err != nil {
		return fmt.Errorf("failed to record status history for application %d: %w",
			t.Application.ID, err)
	}

	return nil
}
