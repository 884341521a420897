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

// ApplicationRepository handles application rows.
type ApplicationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewApplicationRepository(db *sql.DB, logger *slog.Logger) *ApplicationRepository {
	return &ApplicationRepository{db: db, logger: logger}
}

const applicationColumns = `id, customer_id, status_code, workflow_variant, product_line_code,
	partner_name, loan_id, full_name, email, phone_number, bank_name, bank_account_number,
	created_at, updated_at`

// ByID retrieves one application.
func (r *ApplicationRepository) ByID(ctx context.Context, id int64) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	app, err := r.scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrApplicationNotFound
		}

		return nil, fmt.Errorf("failed to query application %d: %w", id, err)
	}

	return app, nil
}

// Save inserts or updates an application.
func (r *ApplicationRepository) Save(ctx context.Context, app *models.Application) error {
	if app.ID == 0 {
		query := `
			INSERT INTO applications (customer_id, status_code, workflow_variant, product_line_code,
				partner_name, loan_id, full_name, email, phone_number, bank_name, bank_account_number)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at, updated_at
		`

		err := r.db.QueryRowContext(ctx, query,
			app.CustomerID, int(app.StatusCode), string(app.Variant), int(app.ProductLineCode),
			app.PartnerName, app.LoanID, app.FullName, app.Email, app.PhoneNumber,
			app.BankName, app.BankAccountNumber,
		).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert application: %w", err)
		}

		return nil
	}

	query := `
		UPDATE applications
		SET customer_id = $2, status_code = $3, workflow_variant = $4, product_line_code = $5,
			partner_name = $6, loan_id = $7, full_name = $8, email = $9, phone_number = $10,
			bank_name = $11, bank_account_number = $12, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		app.ID, app.CustomerID, int(app.StatusCode), string(app.Variant), int(app.ProductLineCode),
		app.PartnerName, app.LoanID, app.FullName, app.Email, app.PhoneNumber,
		app.BankName, app.BankAccountNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update application %d: %w", app.ID, err)
	}

	return rowsAffectedOrNotFound(result, persistence.ErrApplicationNotFound)
}

// UpdateStatus sets only the status column.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.StatusCode) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status_code = $2, updated_at = NOW() WHERE id = $1`,
		id, int(status),
	)
	if err != nil {
		return fmt.Errorf("failed to update status of application %d: %w", id, err)
	}

	return rowsAffectedOrNotFound(result, persistence.ErrApplicationNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ApplicationRepository) scanApplication(row rowScanner) (*models.Application, error) {
	var (
		app     models.Application
		status  int
		variant string
		line    int
		loanID  sql.NullInt64
	)

	err := row.Scan(
		&app.ID, &app.CustomerID, &status, &variant, &line,
		&app.PartnerName, &loanID, &app.FullName, &app.Email, &app.PhoneNumber,
		&app.BankName, &app.BankAccountNumber, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	app.StatusCode = models.StatusCode(status)
	app.Variant = models.WorkflowVariant(variant)
	app.ProductLineCode = models.ProductLineCode(line)

	if loanID.Valid {
		app.LoanID = &loanID.Int64
	}

	return &app, nil
}

func rowsAffectedOrNotFound(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return notFound
	}

	return nil
}
