// Package persistence provides the storage abstraction for the entities the
// workflow engine reads and mutates.
package persistence

import (
	"context"

	"github.com/arthadana/alur/pkg/models"
)

// ApplicationRepository reads and writes loan applications.
type ApplicationRepository interface {
	ByID(ctx context.Context, id int64) (*models.Application, error)
	Save(ctx context.Context, app *models.Application) error
	UpdateStatus(ctx context.Context, id int64, status models.StatusCode) error
}

// LoanRepository manages the loan record created once an offer is accepted.
// GetOrCreate is keyed by application so re-runs never create a second loan.
type LoanRepository interface {
	ByID(ctx context.Context, id int64) (*models.Loan, error)
	ByApplicationID(ctx context.Context, applicationID int64) (*models.Loan, error)
	GetOrCreate(ctx context.Context, loan *models.Loan) (*models.Loan, bool, error)
	Save(ctx context.Context, loan *models.Loan) error
}

// DisbursementRepository manages the per-loan singleton disbursement row.
type DisbursementRepository interface {
	ByLoanID(ctx context.Context, loanID int64) (*models.Disbursement, error)
	GetOrCreate(ctx context.Context, d *models.Disbursement) (*models.Disbursement, bool, error)
	Save(ctx context.Context, d *models.Disbursement) error
}

// PaymentScheduleRepository manages a loan's repayment schedule. CreateAll
// writes the whole set in one transaction: a half-written schedule is worse
// than none.
type PaymentScheduleRepository interface {
	ByLoanID(ctx context.Context, loanID int64) ([]*models.PaymentInstallment, error)
	CreateAll(ctx context.Context, installments []*models.PaymentInstallment) error
}

// OfferRepository reads credit offers.
type OfferRepository interface {
	AcceptedByApplicationID(ctx context.Context, applicationID int64) (*models.Offer, error)
	Save(ctx context.Context, offer *models.Offer) error
}

// CreditScoreRepository reads the scoring result attached to an application.
type CreditScoreRepository interface {
	ByApplicationID(ctx context.Context, applicationID int64) (*models.CreditScore, error)
	Save(ctx context.Context, score *models.CreditScore) error
}

// LenderSignatureRepository manages the per-loan singleton signature record.
type LenderSignatureRepository interface {
	GetOrCreate(ctx context.Context, sig *models.LenderSignature) (*models.LenderSignature, bool, error)
	ByLoanID(ctx context.Context, loanID int64) (*models.LenderSignature, error)
}

// AutodialerQueueRepository manages outbound-dialer queue entries.
type AutodialerQueueRepository interface {
	ByApplicationAndStatus(ctx context.Context, applicationID int64, status models.StatusCode) (*models.AutodialerQueue, error)
	Save(ctx context.Context, entry *models.AutodialerQueue) error
}

// FailureActionRepository persists the replay records written by the failure
// recorder. All returns every record, oldest first; records are never marked
// resolved by the replay job.
type FailureActionRepository interface {
	Create(ctx context.Context, fa *models.FailureAction) error
	ByID(ctx context.Context, id string) (*models.FailureAction, error)
	All(ctx context.Context) ([]*models.FailureAction, error)
}

// StatusHistoryRepository appends the audit row per committed transition.
type StatusHistoryRepository interface {
	Create(ctx context.Context, h *models.StatusHistory) error
	ByApplicationID(ctx context.Context, applicationID int64) ([]*models.StatusHistory, error)
}

// Persistence bundles every repository behind one storage handle.
type Persistence interface {
	Applications() ApplicationRepository
	Loans() LoanRepository
	Disbursements() DisbursementRepository
	PaymentSchedules() PaymentScheduleRepository
	Offers() OfferRepository
	CreditScores() CreditScoreRepository
	LenderSignatures() LenderSignatureRepository
	AutodialerQueues() AutodialerQueueRepository
	FailureActions() FailureActionRepository
	StatusHistory() StatusHistoryRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
