package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthadana/alur/pkg/clients"
	"github.com/arthadana/alur/pkg/models"
)

// ValidateBankName checks the application's bank account against the holder
// name. A mismatch is not a hard stop: the returned error carries the
// redirect flag so the dispatcher can park the application at the
// name-validate-failed status for manual correction.
func (l *Library) ValidateBankName(ctx context.Context, t *models.StatusTransition) error {
	app := t.Application

	if app.BankName == "" || app.BankAccountNumber == "" {
		return &InvalidBankAccountError{
			Reason:  fmt.Sprintf("application %d has no bank account on file", app.ID),
			GoTo175: true,
		}
	}

	result, err := l.collab.Bank.ValidateName(ctx, app.BankName, app.BankAccountNumber, app.FullName)
	if err != nil {
		return fmt.Errorf("name validation call failed for application %d: %w", app.ID, err)
	}

	if !result.Valid {
		return &InvalidBankAccountError{
			Reason:  result.Reason,
			GoTo175: true,
		}
	}

	if !strings.EqualFold(result.ValidatedName, app.FullName) {
		return &InvalidBankAccountError{
			Reason:  fmt.Sprintf("account is held by %q, expected %q", result.ValidatedName, app.FullName),
			GoTo175: true,
		}
	}

	l.logger.InfoContext(ctx, "Bank name validated",
		"application_id", app.ID, "bank", app.BankName)

	return nil
}

// TriggerDisbursement sends the disbursement order for the application's
// loan. The per-loan disbursement row is the idempotency anchor: a completed
// row short-circuits, so replaying this action never pays twice.
func (l *Library) TriggerDisbursement(ctx context.Context, t *models.StatusTransition) error {
	loan, err := l.store.Loans().ByApplicationID(ctx, t.Application.ID)
	if err != nil {
		return fmt.Errorf("failed to load loan for application %d: %w", t.Application.ID, err)
	}

	d, _, err := l.store.Disbursements().GetOrCreate(ctx, &models.Disbursement{
		LoanID:         loan.ID,
		Amount:         loan.Amount,
		DisburseStatus: models.DisburseStatusPending,
	})
	if err != nil {
		return fmt.Errorf("failed to load disbursement for loan %d: %w", loan.ID, err)
	}

	if d.DisburseStatus == models.DisburseStatusCompleted {
		l.logger.InfoContext(ctx, "Disbursement already_processed, skipping",
			"loan_id", loan.ID, "disbursement_id", d.ID, "external_id", d.ExternalID)

		return nil
	}

	result, err := l.collab.Disburser.Disburse(ctx, clients.DisburseRequest{
		LoanID:         loan.ID,
		Amount:         loan.Amount,
		BankName:       t.Application.BankName,
		AccountNumber:  t.Application.BankAccountNumber,
		AccountName:    t.Application.FullName,
		IdempotencyKey: fmt.Sprintf("loan-%d-disburse", loan.ID),
	})
	if err != nil {
		d.DisburseStatus = models.DisburseStatusFailed
		d.RetryCount++

		if saveErr := l.store.Disbursements().Save(ctx, d); saveErr != nil {
			l.logger.ErrorContext(ctx, "Failed to record disbursement failure",
				"disbursement_id", d.ID, "error", saveErr)
		}

		return fmt.Errorf("disbursement failed for loan %d: %w", loan.ID, err)
	}

	d.ExternalID = result.ExternalID
	if result.Status == "COMPLETED" {
		d.DisburseStatus = models.DisburseStatusCompleted
	} else {
		d.DisburseStatus = models.DisburseStatusInitiated
	}

	if err := l.store.Disbursements().Save(ctx, d); err != nil {
		return fmt.Errorf("failed to update disbursement %d: %w", d.ID, err)
	}

	l.logger.InfoContext(ctx, "Disbursement triggered",
		"loan_id", loan.ID, "external_id", result.ExternalID, "gateway_status", result.Status)

	return nil
}
