package actions

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/arthadana/alur/pkg/clients"
	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/persistence"
)

// SendLeadDataToPrimo pushes the application to the outbound dialer so an
// agent works it at the new status. Delivery failures propagate: a lead that
// never lands means the application silently stalls, so the failure must be
// recorded for replay.
func (l *Library) SendLeadDataToPrimo(ctx context.Context, t *models.StatusTransition) error {
	resp, err := l.collab.Dialer.SendLead(ctx, clients.Lead{
		ApplicationID: t.Application.ID,
		FullName:      t.Application.FullName,
		PhoneNumber:   t.Application.PhoneNumber,
		StatusCode:    int(t.NewStatusCode),
	})
	if err != nil {
		return fmt.Errorf("failed to send lead for application %d: %w", t.Application.ID, err)
	}

	if !resp.OK() {
		return fmt.Errorf("dialer rejected lead for application %d with status %d",
			t.Application.ID, resp.StatusCode)
	}

	l.logger.InfoContext(ctx, "Lead sent to dialer",
		"application_id", t.Application.ID, "status", int(t.NewStatusCode))

	return nil
}

// DeleteLeadDataFromPrimo removes the dialer lead once the application leaves
// the status the lead was created for. A lead the dialer no longer knows
// about is already the desired end state, so 404 is success.
func (l *Library) DeleteLeadDataFromPrimo(ctx context.Context, t *models.StatusTransition) error {
	resp, err := l.collab.Dialer.DeleteLead(ctx, t.Application.ID)
	if err != nil {
		return fmt.Errorf("failed to delete lead for application %d: %w", t.Application.ID, err)
	}

	if !resp.OK() && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("dialer refused lead deletion for application %d with status %d",
			t.Application.ID, resp.StatusCode)
	}

	return nil
}

// App122QueueSetCalled marks the documents-verified dialer queue entry as
// worked, so the application stops appearing in the agents' call list.
func (l *Library) App122QueueSetCalled(ctx context.Context, t *models.StatusTransition) error {
	entry, err := l.store.AutodialerQueues().ByApplicationAndStatus(ctx,
		t.Application.ID, models.StatusDocumentsVerified)
	if errors.Is(err, persistence.ErrAutodialerQueueNotFound) {
		// The application left 122 without ever being queued; nothing to mark.
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to load autodialer entry for application %d: %w", t.Application.ID, err)
	}

	if entry.IsAgentCalled {
		return nil
	}

	entry.IsAgentCalled = true

	if err := l.store.AutodialerQueues().Save(ctx, entry); err != nil {
		return fmt.Errorf("failed to mark autodialer entry called for application %d: %w",
			t.Application.ID, err)
	}

	return nil
}
