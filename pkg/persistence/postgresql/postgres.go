// Package postgresql provides the PostgreSQL persistence implementation for
// the workflow engine's entities.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	// Registers the postgres driver.
	_ "github.com/lib/pq"

	"github.com/arthadana/alur/pkg/persistence"
	"github.com/arthadana/alur/pkg/persistence/sqlbase"
)

// Store implements persistence.Persistence on PostgreSQL.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	applications  *ApplicationRepository
	loans         *LoanRepository
	disbursements *DisbursementRepository
	schedules     *PaymentScheduleRepository
	offers        *OfferRepository
	creditScores  *CreditScoreRepository
	signatures    *LenderSignatureRepository
	dialerQueues  *AutodialerQueueRepository
	failures      *FailureActionRepository
	history       *StatusHistoryRepository
}

// NewStore connects, runs migrations and wires every repository.
func NewStore(ctx context.Context, logger *slog.Logger, databaseURL string) (*Store, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	if err := database.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())
	if err := migrationManager.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewStoreWithDB(database, logger), nil
}

// NewStoreWithDB wires repositories around an existing connection. Used by
// tests that drive the store through sqlmock.
func NewStoreWithDB(database *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		db:            database,
		logger:        logger,
		applications:  NewApplicationRepository(database, logger),
		loans:         NewLoanRepository(database, logger),
		disbursements: NewDisbursementRepository(database, logger),
		schedules:     NewPaymentScheduleRepository(database, logger),
		offers:        NewOfferRepository(database, logger),
		creditScores:  NewCreditScoreRepository(database, logger),
		signatures:    NewLenderSignatureRepository(database, logger),
		dialerQueues:  NewAutodialerQueueRepository(database, logger),
		failures:      NewFailureActionRepository(database, logger),
		history:       NewStatusHistoryRepository(database, logger),
	}
}

func (s *Store) Applications() persistence.ApplicationRepository         { return s.applications }
func (s *Store) Loans() persistence.LoanRepository                       { return s.loans }
func (s *Store) Disbursements() persistence.DisbursementRepository       { return s.disbursements }
func (s *Store) PaymentSchedules() persistence.PaymentScheduleRepository { return s.schedules }
func (s *Store) Offers() persistence.OfferRepository                     { return s.offers }
func (s *Store) CreditScores() persistence.CreditScoreRepository         { return s.creditScores }
func (s *Store) LenderSignatures() persistence.LenderSignatureRepository { return s.signatures }
func (s *Store) AutodialerQueues() persistence.AutodialerQueueRepository { return s.dialerQueues }
func (s *Store) FailureActions() persistence.FailureActionRepository     { return s.failures }
func (s *Store) StatusHistory() persistence.StatusHistoryRepository      { return s.history }

// HealthCheck verifies the database connection is healthy.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close(context.Context) error {
	if s.db == nil {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}
