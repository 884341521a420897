package models

import "time"

// LoanStatus tracks the loan record created once an offer is accepted.
type LoanStatus string

const (
	LoanStatusInactive LoanStatus = "INACTIVE"
	LoanStatusActive   LoanStatus = "ACTIVE"
	LoanStatusPaidOff  LoanStatus = "PAID_OFF"
)

type Loan struct {
	ID            int64      `json:"id"`
	ApplicationID int64      `json:"application_id"`
	CustomerID    int64      `json:"customer_id"`
	LenderID      *int64     `json:"lender_id,omitempty"`
	Amount        int64      `json:"amount"`
	Duration      int        `json:"duration"`
	Status        LoanStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// DisburseStatus is the state of the disbursement row keyed by loan.
type DisburseStatus string

const (
	DisburseStatusPending   DisburseStatus = "PENDING"
	DisburseStatusInitiated DisburseStatus = "INITIATED"
	DisburseStatusCompleted DisburseStatus = "COMPLETED"
	DisburseStatusFailed    DisburseStatus = "FAILED"
)

// Disbursement is the per-loan singleton disbursement record. Lookups are
// get-or-create so a replayed action never creates a duplicate row.
type Disbursement struct {
	ID             int64          `json:"id"`
	LoanID         int64          `json:"loan_id"`
	Amount         int64          `json:"amount"`
	DisburseStatus DisburseStatus `json:"disburse_status"`
	ExternalID     string         `json:"external_id,omitempty"`
	RetryCount     int            `json:"retry_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// PaymentInstallment is one row of a loan's repayment schedule. Installments
// are generated once per loan, as a set; the (loan_id, sequence) pair is
// unique.
type PaymentInstallment struct {
	ID        int64     `json:"id"`
	LoanID    int64     `json:"loan_id"`
	Sequence  int       `json:"sequence"`
	Amount    int64     `json:"amount"`
	DueDate   time.Time `json:"due_date"`
	CreatedAt time.Time `json:"created_at"`
}

// Offer is a credit offer made to the customer.
type Offer struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	Amount        int64     `json:"amount"`
	Duration      int       `json:"duration"`
	IsAccepted    bool      `json:"is_accepted"`
	IsApproved    bool      `json:"is_approved"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreditScore is the scoring result attached to an application by the
// external scoring service.
type CreditScore struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	Score         string    `json:"score"`
	MatchesFalseRejectExperiment bool `json:"matches_false_reject_experiment"`
	CreatedAt     time.Time `json:"created_at"`
}

// LenderSignature is the per-loan singleton signature record created during
// lender approval.
type LenderSignature struct {
	ID        int64     `json:"id"`
	LoanID    int64     `json:"loan_id"`
	IsSigned  bool      `json:"is_signed"`
	CreatedAt time.Time `json:"created_at"`
}

// AutodialerQueue is an outbound-dialer queue entry for an application at a
// particular status.
type AutodialerQueue struct {
	ID            int64      `json:"id"`
	ApplicationID int64      `json:"application_id"`
	StatusCode    StatusCode `json:"status_code"`
	IsAgentCalled bool       `json:"is_agent_called"`
	CreatedAt     time.Time  `json:"created_at"`
}

// StatusHistory is the audit row written once per committed transition.
type StatusHistory struct {
	ID            int64      `json:"id"`
	ApplicationID int64      `json:"application_id"`
	OldStatusCode StatusCode `json:"old_status_code"`
	NewStatusCode StatusCode `json:"new_status_code"`
	ChangeReason  string     `json:"change_reason"`
	Note          string     `json:"note,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
