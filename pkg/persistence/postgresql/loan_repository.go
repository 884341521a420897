package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/persistence"
)

// LoanRepository handles loan rows. The application_id unique constraint
// backs the get-or-create contract.
type LoanRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewLoanRepository(db *sql.DB, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger}
}

const loanColumns = `id, application_id, customer_id, lender_id, amount, duration, status, created_at, updated_at`

func (r *LoanRepository) ByID(ctx context.Context, id int64) (*models.Loan, error) {
	return r.queryOne(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
}

func (r *LoanRepository) ByApplicationID(ctx context.Context, applicationID int64) (*models.Loan, error) {
	return r.queryOne(ctx, `SELECT `+loanColumns+` FROM loans WHERE application_id = $1`, applicationID)
}

func (r *LoanRepository) queryOne(ctx context.Context, query string, arg any) (*models.Loan, error) {
	loan, err := scanLoan(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrLoanNotFound
		}

		return nil, fmt.Errorf("failed to query loan: %w", err)
	}

	return loan, nil
}

// GetOrCreate inserts the loan unless one already exists for the application.
// The conflict path re-reads the existing row, so a replayed create-loan
// action observes the original loan instead of inserting a duplicate.
func (r *LoanRepository) GetOrCreate(ctx context.Context, loan *models.Loan) (*models.Loan, bool, error) {
	query := `
		INSERT INTO loans (application_id, customer_id, amount, duration, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (application_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		loan.ApplicationID, loan.CustomerID, loan.Amount, loan.Duration, string(loan.Status),
	).Scan(&loan.ID, &loan.CreatedAt, &loan.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		existing, lookupErr := r.ByApplicationID(ctx, loan.ApplicationID)
		if lookupErr != nil {
			return nil, false, fmt.Errorf("failed to load existing loan for application %d: %w",
				loan.ApplicationID, lookupErr)
		}

		return existing, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to insert loan for application %d: %w", loan.ApplicationID, err)
	}

	return loan, true, nil
}

func (r *LoanRepository) Save(ctx context.Context, loan *models.Loan) error {
	query := `
		UPDATE loans
		SET lender_id = $2, amount = $3, duration = $4, status = $5, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, loan.ID, loan.LenderID, loan.Amount, loan.Duration, string(loan.Status))
	if err != nil {
		return fmt.Errorf("failed to update loan %d: %w", loan.ID, err)
	}

	return rowsAffectedOrNotFound(result, persistence.ErrLoanNotFound)
}

func scanLoan(row rowScanner) (*models.Loan, error) {
	var (
		loan     models.Loan
		lenderID sql.NullInt64
		status   string
	)

	err := row.Scan(&loan.ID, &loan.ApplicationID, &loan.CustomerID, &lenderID, &loan.Amount,
		&loan.Duration, &status, &loan.CreatedAt, &loan.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if lenderID.Valid {
		loan.LenderID = &lenderID.Int64
	}

	loan.Status = models.LoanStatus(status)

	return &loan, nil
}

// DisbursementRepository handles the per-loan singleton disbursement row.
type DisbursementRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewDisbursementRepository(db *sql.DB, logger *slog.Logger) *DisbursementRepository {
	return &DisbursementRepository{db: db, logger: logger}
}

const disbursementColumns = `id, loan_id, amount, disburse_status, external_id, retry_count, created_at, updated_at`

func (r *DisbursementRepository) ByLoanID(ctx context.Context, loanID int64) (*models.Disbursement, error) {
	query := `SELECT ` + disbursementColumns + ` FROM disbursements WHERE loan_id = $1`

	d, err := scanDisbursement(r.db.QueryRowContext(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrDisbursementNotFound
		}

		return nil, fmt.Errorf("failed to query disbursement for loan %d: %w", loanID, err)
	}

	return d, nil
}

// GetOrCreate inserts the disbursement row unless the loan already has one.
func (r *DisbursementRepository) GetOrCreate(ctx context.Context, d *models.Disbursement) (*models.Disbursement, bool, error) {
	query := `
		INSERT INTO disbursements (loan_id, amount, disburse_status, external_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (loan_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		d.LoanID, d.Amount, string(d.DisburseStatus), d.ExternalID,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		existing, lookupErr := r.ByLoanID(ctx, d.LoanID)
		if lookupErr != nil {
			return nil, false, fmt.Errorf("failed to load existing disbursement for loan %d: %w",
				d.LoanID, lookupErr)
		}

		return existing, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to insert disbursement for loan %d: %w", d.LoanID, err)
	}

	return d, true, nil
}

func (r *DisbursementRepository) Save(ctx context.Context, d *models.Disbursement) error {
	query := `
		UPDATE disbursements
		SET amount = $2, disburse_status = $3, external_id = $4, retry_count = $5, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		d.ID, d.Amount, string(d.DisburseStatus), d.ExternalID, d.RetryCount)
	if err != nil {
		return fmt.Errorf("failed to update disbursement %d: %w", d.ID, err)
	}

	return rowsAffectedOrNotFound(result, persistence.ErrDisbursementNotFound)
}

func scanDisbursement(row rowScanner) (*models.Disbursement, error) {
	var (
		d      models.Disbursement
		status string
	)

	err := row.Scan(&d.ID, &d.LoanID, &d.Amount, &status, &d.ExternalID,
		&d.RetryCount, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	d.DisburseStatus = models.DisburseStatus(status)

	return &d, nil
}

// PaymentScheduleRepository handles a loan's repayment schedule rows.
type PaymentScheduleRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPaymentScheduleRepository(db *sql.DB, logger *slog.Logger) *PaymentScheduleRepository {
	return &PaymentScheduleRepository{db: db, logger: logger}
}

func (r *PaymentScheduleRepository) ByLoanID(ctx context.Context, loanID int64) ([]*models.PaymentInstallment, error) {
	query := `
		SELECT id, loan_id, sequence, amount, due_date, created_at
		FROM payment_installments
		WHERE loan_id = $1
		ORDER BY sequence
	`

	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment schedule for loan %d: %w", loanID, err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	var out []*models.PaymentInstallment

	for rows.Next() {
		var row models.PaymentInstallment

		err := rows.Scan(&row.ID, &row.LoanID, &row.Sequence, &row.Amount, &row.DueDate, &row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment installment: %w", err)
		}

		out = append(out, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment schedule for loan %d: %w", loanID, err)
	}

	return out, nil
}

// CreateAll inserts the whole schedule inside one transaction, so a failure
// mid-set leaves no partial schedule behind.
func (r *PaymentScheduleRepository) CreateAll(ctx context.Context, installments []*models.PaymentInstallment) error {
	if len(installments) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to open payment schedule transaction: %w", err)
	}

	query := `
		INSERT INTO payment_installments (loan_id, sequence, amount, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	for _, row := range installments {
		err := tx.QueryRowContext(ctx, query,
			row.LoanID, row.Sequence, row.Amount, row.DueDate,
		).Scan(&row.ID, &row.CreatedAt)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.ErrorContext(ctx, "failed to roll back payment schedule",
					"loan_id", row.LoanID, "error", rbErr)
			}

			return fmt.Errorf("failed to insert installment %d for loan %d: %w",
				row.Sequence, row.LoanID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment schedule for loan %d: %w",
			installments[0].LoanID, err)
	}

	return nil
}

// LenderSignatureRepository handles the per-loan singleton signature record.
type LenderSignatureRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewLenderSignatureRepository(db *sql.DB, logger *slog.Logger) *LenderSignatureRepository {
	return &LenderSignatureRepository{db: db, logger: logger}
}

func (r *LenderSignatureRepository) GetOrCreate(ctx context.Context, sig *models.LenderSignature) (*models.LenderSignature, bool, error) {
	query := `
		INSERT INTO lender_signatures (loan_id, is_signed)
		VALUES ($1, $2)
		ON CONFLICT (loan_id) DO NOTHING
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query, sig.LoanID, sig.IsSigned).Scan(&sig.ID, &sig.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		existing, lookupErr := r.ByLoanID(ctx, sig.LoanID)
		if lookupErr != nil {
			return nil, false, fmt.Errorf("failed to load existing lender signature for loan %d: %w",
				sig.LoanID, lookupErr)
		}

		return existing, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to insert lender signature for loan %d: %w", sig.LoanID, err)
	}

	return sig, true, nil
}

func (r *LenderSignatureRepository) ByLoanID(ctx context.Context, loanID int64) (*models.LenderSignature, error) {
	query := `SELECT id, loan_id, is_signed, created_at FROM lender_signatures WHERE loan_id = $1`

	var sig models.LenderSignature

	err := r.db.QueryRowContext(ctx, query, loanID).Scan(&sig.ID, &sig.LoanID, &sig.IsSigned, &sig.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrLenderSignatureNotFound
		}

		return nil, fmt.Errorf("failed to query lender signature for loan %d: %w", loanID, err)
	}

	return &sig, nil
}
