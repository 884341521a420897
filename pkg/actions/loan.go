package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/persistence"
)

// defaultLenderID is the platform's single balance-sheet lender. Multi-lender
// matchmaking lives outside the engine; assignment here is the fallback used
// when no upstream system picked a lender first.
const defaultLenderID int64 = 1

// CreateLoan materializes the loan record from the accepted offer. Keyed by
// application, so a replay observes the loan created the first time around.
func (l *Library) CreateLoan(ctx context.Context, t *models.StatusTransition) error {
	offer, err := l.store.Offers().AcceptedByApplicationID(ctx, t.Application.ID)
	if errors.Is(err, persistence.ErrOfferNotFound) {
		return NewBusinessRuleError("create_loan",
			"cannot create loan for application %d without an accepted offer", t.Application.ID)
	}

	if err != nil {
		return fmt.Errorf("failed to load offer for application %d: %w", t.Application.ID, err)
	}

	loan, created, err := l.store.Loans().GetOrCreate(ctx, &models.Loan{
		ApplicationID: t.Application.ID,
		CustomerID:    t.Application.CustomerID,
		Amount:        offer.Amount,
		Duration:      offer.Duration,
		Status:        models.LoanStatusInactive,
	})
	if err != nil {
		return fmt.Errorf("failed to create loan for application %d: %w", t.Application.ID, err)
	}

	if !created {
		l.logger.InfoContext(ctx, "Loan already exists, skipping create",
			"application_id", t.Application.ID, "loan_id", loan.ID)
	}

	if t.Application.LoanID == nil || *t.Application.LoanID != loan.ID {
		t.Application.LoanID = &loan.ID
		if err := l.store.Applications().Save(ctx, t.Application); err != nil {
			return fmt.Errorf("failed to link loan %d to application %d: %w",
				loan.ID, t.Application.ID, err)
		}
	}

	return nil
}

// GeneratePaymentSchedule derives the loan's repayment schedule from its
// amount and duration: equal monthly installments, remainder folded into the
// last one. A loan that already has a schedule is left alone, so the whole
// operation replays safely.
func (l *Library) GeneratePaymentSchedule(ctx context.Context, t *models.StatusTransition) error {
	loan, err := l.store.Loans().ByApplicationID(ctx, t.Application.ID)
	if err != nil {
		return fmt.Errorf("failed to load loan for application %d: %w", t.Application.ID, err)
	}

	if loan.Duration <= 0 {
		return NewBusinessRuleError("payment_schedule",
			"loan %d has no duration to schedule against", loan.ID)
	}

	existing, err := l.store.PaymentSchedules().ByLoanID(ctx, loan.ID)
	if err != nil {
		return fmt.Errorf("failed to load payment schedule for loan %d: %w", loan.ID, err)
	}

	if len(existing) > 0 {
		l.logger.InfoContext(ctx, "Payment schedule already exists, skipping",
			"loan_id", loan.ID, "installments", len(existing))

		return nil
	}

	base := loan.Amount / int64(loan.Duration)
	remainder := loan.Amount - base*int64(loan.Duration)
	firstDue := time.Now().AddDate(0, 1, 0)

	installments := make([]*models.PaymentInstallment, 0, loan.Duration)
	for i := 0; i < loan.Duration; i++ {
		amount := base
		if i == loan.Duration-1 {
			amount += remainder
		}

		installments = append(installments, &models.PaymentInstallment{
			LoanID:   loan.ID,
			Sequence: i + 1,
			Amount:   amount,
			DueDate:  firstDue.AddDate(0, i, 0),
		})
	}

	if err := l.store.PaymentSchedules().CreateAll(ctx, installments); err != nil {
		return fmt.Errorf("failed to create payment schedule for loan %d: %w", loan.ID, err)
	}

	l.logger.InfoContext(ctx, "Payment schedule generated",
		"loan_id", loan.ID, "installments", len(installments), "installment_amount", base)

	return nil
}

// AssignLender attaches a lender to the application's loan if none picked it
// up yet. Already-assigned loans pass through untouched.
func (l *Library) AssignLender(ctx context.Context, t *models.StatusTransition) error {
	loan, err := l.store.Loans().ByApplicationID(ctx, t.Application.ID)
	if err != nil {
		return fmt.Errorf("failed to load loan for application %d: %w", t.Application.ID, err)
	}

	if loan.LenderID != nil {
		l.logger.DebugContext(ctx, "Loan already has a lender",
			"loan_id", loan.ID, "lender_id", *loan.LenderID)

		return nil
	}

	lenderID := defaultLenderID
	loan.LenderID = &lenderID

	if err := l.store.Loans().Save(ctx, loan); err != nil {
		return fmt.Errorf("failed to assign lender to loan %d: %w", loan.ID, err)
	}

	l.logger.InfoContext(ctx, "Lender assigned",
		"loan_id", loan.ID, "lender_id", lenderID, "application_id", t.Application.ID)

	return nil
}

// UpdateLoanStatusActive flips the loan to ACTIVE once funds have gone out.
func (l *Library) UpdateLoanStatusActive(ctx context.Context, t *models.StatusTransition) error {
	loan, err := l.store.Loans().ByApplicationID(ctx, t.Application.ID)
	if err != nil {
		return fmt.Errorf("failed to load loan for application %d: %w", t.Application.ID, err)
	}

	if loan.Status == models.LoanStatusActive {
		return nil
	}

	loan.Status = models.LoanStatusActive

	if err := l.store.Loans().Save(ctx, loan); err != nil {
		return fmt.Errorf("failed to activate loan %d: %w", loan.ID, err)
	}

	return nil
}

// CreateLenderSignature opens the per-loan signature record during lender
// approval. Get-or-create: running it twice yields the same record.
func (l *Library) CreateLenderSignature(ctx context.Context, t *models.StatusTransition) error {
	loan, err := l.store.Loans().ByApplicationID(ctx, t.Application.ID)
	if err != nil {
		return fmt.Errorf("failed to load loan for application %d: %w", t.Application.ID, err)
	}

	sig, created, err := l.store.LenderSignatures().GetOrCreate(ctx, &models.LenderSignature{
		LoanID: loan.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to create lender signature for loan %d: %w", loan.ID, err)
	}

	if !created {
		l.logger.DebugContext(ctx, "Lender signature already exists",
			"loan_id", loan.ID, "signature_id", sig.ID)
	}

	return nil
}
