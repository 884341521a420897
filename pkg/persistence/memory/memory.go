// Package memory provides an in-memory persistence implementation for tests
// and local development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/persistence"
)

// Store keeps every entity in process memory behind one mutex. It implements
// persistence.Persistence.
type Store struct {
	mu sync.RWMutex

	applications   map[int64]*models.Application
	loans          map[int64]*models.Loan
	disbursements  map[int64]*models.Disbursement
	installments   map[int64][]*models.PaymentInstallment
	offers         map[int64]*models.Offer
	creditScores   map[int64]*models.CreditScore
	signatures     map[int64]*models.LenderSignature
	dialerQueues   map[int64]*models.AutodialerQueue
	failureActions []*models.FailureAction
	statusHistory  []*models.StatusHistory

	nextID int64
}

func NewStore() *Store {
	return &Store{
		applications:  make(map[int64]*models.Application),
		loans:         make(map[int64]*models.Loan),
		disbursements: make(map[int64]*models.Disbursement),
		installments:  make(map[int64][]*models.PaymentInstallment),
		offers:        make(map[int64]*models.Offer),
		creditScores:  make(map[int64]*models.CreditScore),
		signatures:    make(map[int64]*models.LenderSignature),
		dialerQueues:  make(map[int64]*models.AutodialerQueue),
		nextID:        1,
	}
}

func (s *Store) Applications() persistence.ApplicationRepository       { return (*applicationRepo)(s) }
func (s *Store) Loans() persistence.LoanRepository                     { return (*loanRepo)(s) }
func (s *Store) Disbursements() persistence.DisbursementRepository     { return (*disbursementRepo)(s) }
func (s *Store) PaymentSchedules() persistence.PaymentScheduleRepository {
	return (*paymentScheduleRepo)(s)
}
func (s *Store) Offers() persistence.OfferRepository                   { return (*offerRepo)(s) }
func (s *Store) CreditScores() persistence.CreditScoreRepository       { return (*creditScoreRepo)(s) }
func (s *Store) LenderSignatures() persistence.LenderSignatureRepository {
	return (*lenderSignatureRepo)(s)
}
func (s *Store) AutodialerQueues() persistence.AutodialerQueueRepository {
	return (*autodialerQueueRepo)(s)
}
func (s *Store) FailureActions() persistence.FailureActionRepository { return (*failureActionRepo)(s) }
func (s *Store) StatusHistory() persistence.StatusHistoryRepository  { return (*statusHistoryRepo)(s) }

func (s *Store) HealthCheck(context.Context) error { return nil }
func (s *Store) Close(context.Context) error       { return nil }

func (s *Store) allocateID() int64 {
	id := s.nextID
	s.nextID++

	return id
}

type applicationRepo Store

func (r *applicationRepo) ByID(_ context.Context, id int64) (*models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.applications[id]
	if !ok {
		return nil, persistence.ErrApplicationNotFound
	}

	clone := *app

	return &clone, nil
}

func (r *applicationRepo) Save(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if app.ID == 0 {
		app.ID = (*Store)(r).allocateID()
		app.CreatedAt = time.Now()
	}

	app.UpdatedAt = time.Now()
	clone := *app
	r.applications[app.ID] = &clone

	return nil
}

func (r *applicationRepo) UpdateStatus(_ context.Context, id int64, status models.StatusCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.applications[id]
	if !ok {
		return persistence.ErrApplicationNotFound
	}

	app.StatusCode = status
	app.UpdatedAt = time.Now()

	return nil
}

type loanRepo Store

func (r *loanRepo) ByID(_ context.Context, id int64) (*models.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loan, ok := r.loans[id]
	if !ok {
		return nil, persistence.ErrLoanNotFound
	}

	clone := *loan

	return &clone, nil
}

func (r *loanRepo) ByApplicationID(_ context.Context, applicationID int64) (*models.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if loan := r.loanByApplication(applicationID); loan != nil {
		clone := *loan

		return &clone, nil
	}

	return nil, persistence.ErrLoanNotFound
}

func (r *loanRepo) loanByApplication(applicationID int64) *models.Loan {
	for _, loan := range r.loans {
		if loan.ApplicationID == applicationID {
			return loan
		}
	}

	return nil
}

func (r *loanRepo) GetOrCreate(_ context.Context, loan *models.Loan) (*models.Loan, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.loanByApplication(loan.ApplicationID); existing != nil {
		clone := *existing

		return &clone, false, nil
	}

	loan.ID = (*Store)(r).allocateID()
	loan.CreatedAt = time.Now()
	loan.UpdatedAt = loan.CreatedAt
	clone := *loan
	r.loans[loan.ID] = &clone

	return loan, true, nil
}

func (r *loanRepo) Save(_ context.Context, loan *models.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if loan.ID == 0 {
		loan.ID = (*Store)(r).allocateID()
		loan.CreatedAt = time.Now()
	}

	loan.UpdatedAt = time.Now()
	clone := *loan
	r.loans[loan.ID] = &clone

	return nil
}

type disbursementRepo Store

func (r *disbursementRepo) ByLoanID(_ context.Context, loanID int64) (*models.Disbursement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if d := r.disbursementByLoan(loanID); d != nil {
		clone := *d

		return &clone, nil
	}

	return nil, persistence.ErrDisbursementNotFound
}

func (r *disbursementRepo) disbursementByLoan(loanID int64) *models.Disbursement {
	for _, d := range r.disbursements {
		if d.LoanID == loanID {
			return d
		}
	}

	return nil
}

func (r *disbursementRepo) GetOrCreate(_ context.Context, d *models.Disbursement) (*models.Disbursement, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.disbursementByLoan(d.LoanID); existing != nil {
		clone := *existing

		return &clone, false, nil
	}

	d.ID = (*Store)(r).allocateID()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	clone := *d
	r.disbursements[d.ID] = &clone

	return d, true, nil
}

func (r *disbursementRepo) Save(_ context.Context, d *models.Disbursement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == 0 {
		d.ID = (*Store)(r).allocateID()
		d.CreatedAt = time.Now()
	}

	d.UpdatedAt = time.Now()
	clone := *d
	r.disbursements[d.ID] = &clone

	return nil
}

type paymentScheduleRepo Store

func (r *paymentScheduleRepo) ByLoanID(_ context.Context, loanID int64) ([]*models.PaymentInstallment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.installments[loanID]
	out := make([]*models.PaymentInstallment, 0, len(rows))

	for _, row := range rows {
		clone := *row
		out = append(out, &clone)
	}

	return out, nil
}

func (r *paymentScheduleRepo) CreateAll(_ context.Context, installments []*models.PaymentInstallment) error {
	if len(installments) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	loanID := installments[0].LoanID

	for _, row := range installments {
		row.ID = (*Store)(r).allocateID()
		if row.CreatedAt.IsZero() {
			row.CreatedAt = time.Now()
		}

		clone := *row
		r.installments[loanID] = append(r.installments[loanID], &clone)
	}

	return nil
}

type offerRepo Store

func (r *offerRepo) AcceptedByApplicationID(_ context.Context, applicationID int64) (*models.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, offer := range r.offers {
		if offer.ApplicationID == applicationID && offer.IsAccepted {
			clone := *offer

			return &clone, nil
		}
	}

	return nil, persistence.ErrOfferNotFound
}

func (r *offerRepo) Save(_ context.Context, offer *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offer.ID == 0 {
		offer.ID = (*Store)(r).allocateID()
		offer.CreatedAt = time.Now()
	}

	clone := *offer
	r.offers[offer.ID] = &clone

	return nil
}

type creditScoreRepo Store

func (r *creditScoreRepo) ByApplicationID(_ context.Context, applicationID int64) (*models.CreditScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, score := range r.creditScores {
		if score.ApplicationID == applicationID {
			clone := *score

			return &clone, nil
		}
	}

	return nil, persistence.ErrCreditScoreNotFound
}

func (r *creditScoreRepo) Save(_ context.Context, score *models.CreditScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if score.ID == 0 {
		score.ID = (*Store)(r).allocateID()
		score.CreatedAt = time.Now()
	}

	clone := *score
	r.creditScores[score.ID] = &clone

	return nil
}

type lenderSignatureRepo Store

func (r *lenderSignatureRepo) GetOrCreate(_ context.Context, sig *models.LenderSignature) (*models.LenderSignature, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.signatures {
		if existing.LoanID == sig.LoanID {
			clone := *existing

			return &clone, false, nil
		}
	}

	sig.ID = (*Store)(r).allocateID()
	sig.CreatedAt = time.Now()
	clone := *sig
	r.signatures[sig.ID] = &clone

	return sig, true, nil
}

func (r *lenderSignatureRepo) ByLoanID(_ context.Context, loanID int64) (*models.LenderSignature, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sig := range r.signatures {
		if sig.LoanID == loanID {
			clone := *sig

			return &clone, nil
		}
	}

	return nil, persistence.ErrLenderSignatureNotFound
}

type autodialerQueueRepo Store

func (r *autodialerQueueRepo) ByApplicationAndStatus(_ context.Context, applicationID int64, status models.StatusCode) (*models.AutodialerQueue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.dialerQueues {
		if entry.ApplicationID == applicationID && entry.StatusCode == status {
			clone := *entry

			return &clone, nil
		}
	}

	return nil, persistence.ErrAutodialerQueueNotFound
}

func (r *autodialerQueueRepo) Save(_ context.Context, entry *models.AutodialerQueue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == 0 {
		for _, existing := range r.dialerQueues {
			if existing.ApplicationID == entry.ApplicationID && existing.StatusCode == entry.StatusCode {
				entry.ID = existing.ID

				break
			}
		}
	}

	if entry.ID == 0 {
		entry.ID = (*Store)(r).allocateID()
		entry.CreatedAt = time.Now()
	}

	clone := *entry
	r.dialerQueues[entry.ID] = &clone

	return nil
}

type failureActionRepo Store

func (r *failureActionRepo) Create(_ context.Context, fa *models.FailureAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fa.CreatedAt.IsZero() {
		fa.CreatedAt = time.Now()
	}

	clone := *fa
	r.failureActions = append(r.failureActions, &clone)

	return nil
}

func (r *failureActionRepo) ByID(_ context.Context, id string) (*models.FailureAction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, fa := range r.failureActions {
		if fa.ID == id {
			clone := *fa

			return &clone, nil
		}
	}

	return nil, persistence.ErrFailureActionNotFound
}

func (r *failureActionRepo) All(_ context.Context) ([]*models.FailureAction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.FailureAction, 0, len(r.failureActions))
	for _, fa := range r.failureActions {
		clone := *fa
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out, nil
}

type statusHistoryRepo Store

func (r *statusHistoryRepo) Create(_ context.Context, h *models.StatusHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h.ID = (*Store)(r).allocateID()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}

	clone := *h
	r.statusHistory = append(r.statusHistory, &clone)

	return nil
}

func (r *statusHistoryRepo) ByApplicationID(_ context.Context, applicationID int64) ([]*models.StatusHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.StatusHistory

	for _, h := range r.statusHistory {
		if h.ApplicationID == applicationID {
			clone := *h
			out = append(out, &clone)
		}
	}

	return out, nil
}
