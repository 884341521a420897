package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/arthadana/alur/pkg/clients"
	"github.com/arthadana/alur/pkg/models"
)

// SendSMSStatusChange texts the customer about the status change. Applications
// without a phone number pass through silently.
func (l *Library) SendSMSStatusChange(ctx context.Context, t *models.StatusTransition) error {
	if t.Application.PhoneNumber == "" {
		return nil
	}

	message := fmt.Sprintf("Your application is now %s.", t.NewStatusCode.Name())

	resp, err := l.collab.SMS.Send(ctx, t.Application.PhoneNumber, message)
	if err != nil {
		return fmt.Errorf("failed to send status SMS for application %d: %w", t.Application.ID, err)
	}

	if !resp.OK() {
		l.logger.WarnContext(ctx, "Status SMS rejected by gateway",
			"application_id", t.Application.ID, "http_status", resp.StatusCode)
	}

	return nil
}

// SendEmailStatusChange emails the customer about the status change.
func (l *Library) SendEmailStatusChange(ctx context.Context, t *models.StatusTransition) error {
	if t.Application.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Application update: %s", t.NewStatusCode.Name())
	body := fmt.Sprintf("Hello %s, your application %d moved to %s.",
		t.Application.FullName, t.Application.ID, t.NewStatusCode.Name())

	resp, err := l.collab.Email.Send(ctx, t.Application.Email, subject, body)
	if err != nil {
		return fmt.Errorf("failed to send status email for application %d: %w", t.Application.ID, err)
	}

	if !resp.OK() {
		l.logger.WarnContext(ctx, "Status email rejected by gateway",
			"application_id", t.Application.ID, "http_status", resp.StatusCode)
	}

	return nil
}

// SendPushNotification pushes the status change to the customer's device.
// Push is pure best-effort: an auth failure against the push gateway is
// logged and swallowed rather than failing the transition.
func (l *Library) SendPushNotification(ctx context.Context, t *models.StatusTransition) error {
	title := "Application update"
	body := fmt.Sprintf("Your application is now %s.", t.NewStatusCode.Name())

	resp, err := l.collab.Push.Send(ctx, t.Application.CustomerID, title, body)
	if errors.Is(err, clients.ErrAuthFailed) {
		l.logger.WarnContext(ctx, "Push gateway auth failed, dropping notification",
			"application_id", t.Application.ID, "customer_id", t.Application.CustomerID)

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to send push for application %d: %w", t.Application.ID, err)
	}

	if !resp.OK() {
		l.logger.WarnContext(ctx, "Push rejected by gateway",
			"application_id", t.Application.ID, "http_status", resp.StatusCode)
	}

	return nil
}
