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

// OfferRepository reads credit offers.
type OfferRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewOfferRepository(db *sql.DB, logger *slog.Logger) *OfferRepository {
	return &OfferRepository{db: db, logger: logger}
}

func (r *OfferRepository) AcceptedByApplicationID(ctx context.Context, applicationID int64) (*models.Offer, error) {
	query := `
		SELECT id, application_id, amount, duration, is_accepted, is_approved, created_at
		FROM offers
		WHERE application_id = $1 AND is_accepted = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`

	var offer models.Offer

	err := r.db.QueryRowContext(ctx, query, applicationID).Scan(
		&offer.ID, &offer.ApplicationID, &offer.Amount, &offer.Duration,
		&offer.IsAccepted, &offer.IsApproved, &offer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrOfferNotFound
		}

		return nil, fmt.Errorf("failed to query accepted offer for application %d: %w", applicationID, err)
	}

	return &offer, nil
}

func (r *OfferRepository) Save(ctx context.Context, offer *models.Offer) error {
	query := `
		INSERT INTO offers (application_id, amount, duration, is_accepted, is_approved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		offer.ApplicationID, offer.Amount, offer.Duration, offer.IsAccepted, offer.IsApproved,
	).Scan(&offer.ID, &offer.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert offer for application %d: %w", offer.ApplicationID, err)
	}

	return nil
}

// CreditScoreRepository reads scoring results.
type CreditScoreRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewCreditScoreRepository(db *sql.DB, logger *slog.Logger) *CreditScoreRepository {
	return &CreditScoreRepository{db: db, logger: logger}
}

func (r *CreditScoreRepository) ByApplicationID(ctx context.Context, applicationID int64) (*models.CreditScore, error) {
	query := `
		SELECT id, application_id, score, matches_false_reject_experiment, created_at
		FROM credit_scores
		WHERE application_id = $1
	`

	var score models.CreditScore

	err := r.db.QueryRowContext(ctx, query, applicationID).Scan(
		&score.ID, &score.ApplicationID, &score.Score,
		&score.MatchesFalseRejectExperiment, &score.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrCreditScoreNotFound
		}

		return nil, fmt.Errorf("failed to query credit score for application %d: %w", applicationID, err)
	}

	return &score, nil
}

func (r *CreditScoreRepository) Save(ctx context.Context, score *models.CreditScore) error {
	query := `
		INSERT INTO credit_scores (application_id, score, matches_false_reject_experiment)
		VALUES ($1, $2, $3)
		ON CONFLICT (application_id) DO UPDATE
		SET score = EXCLUDED.score,
			matches_false_reject_experiment = EXCLUDED.matches_false_reject_experiment
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		score.ApplicationID, score.Score, score.MatchesFalseRejectExperiment,
	).Scan(&score.ID, &score.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save credit score for application %d: %w", score.ApplicationID, err)
	}

	return nil
}

// AutodialerQueueRepository handles outbound-dialer queue entries.
type AutodialerQueueRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewAutodialerQueueRepository(db *sql.DB, logger *slog.Logger) *AutodialerQueueRepository {
	return &AutodialerQueueRepository{db: db, logger: logger}
}

func (r *AutodialerQueueRepository) ByApplicationAndStatus(ctx context.Context, applicationID int64, status models.StatusCode) (*models.AutodialerQueue, error) {
	query := `
		SELECT id, application_id, status_code, is_agent_called, created_at
		FROM autodialer_queues
		WHERE application_id = $1 AND status_code = $2
	`

	var (
		entry      models.AutodialerQueue
		statusCode int
	)

	err := r.db.QueryRowContext(ctx, query, applicationID, int(status)).Scan(
		&entry.ID, &entry.ApplicationID, &statusCode, &entry.IsAgentCalled, &entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrAutodialerQueueNotFound
		}

		return nil, fmt.Errorf("failed to query autodialer queue for application %d status %d: %w",
			applicationID, int(status), err)
	}

	entry.StatusCode = models.StatusCode(statusCode)

	return &entry, nil
}

func (r *AutodialerQueueRepository) Save(ctx context.Context, entry *models.AutodialerQueue) error {
	query := `
		INSERT INTO autodialer_queues (application_id, status_code, is_agent_called)
		VALUES ($1, $2, $3)
		ON CONFLICT (application_id, status_code) DO UPDATE
		SET is_agent_called = EXCLUDED.is_agent_called
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		entry.ApplicationID, int(entry.StatusCode), entry.IsAgentCalled,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save autodialer queue entry for application %d: %w",
			entry.ApplicationID, err)
	}

	return nil
}

// StatusHistoryRepository appends audit rows per committed transition.
type StatusHistoryRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewStatusHistoryRepository(db *sql.DB, logger *slog.Logger) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: db, logger: logger}
}

func (r *StatusHistoryRepository) Create(ctx context.Context, h *models.StatusHistory) error {
	query := `
		INSERT INTO application_status_histories (application_id, old_status_code, new_status_code, change_reason, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		h.ApplicationID, int(h.OldStatusCode), int(h.NewStatusCode), h.ChangeReason, h.Note,
	).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert status history for application %d: %w", h.ApplicationID, err)
	}

	return nil
}

func (r *StatusHistoryRepository) ByApplicationID(ctx context.Context, applicationID int64) ([]*models.StatusHistory, error) {
	query := `
		SELECT id, application_id, old_status_code, new_status_code, change_reason, note, created_at
		FROM application_status_histories
		WHERE application_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status histories: %w", err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	var out []*models.StatusHistory

	for rows.Next() {
		var (
			h                    models.StatusHistory
			oldStatus, newStatus int
		)

		err := rows.Scan(&h.ID, &h.ApplicationID, &oldStatus, &newStatus, &h.ChangeReason, &h.Note, &h.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}

		h.OldStatusCode = models.StatusCode(oldStatus)
		h.NewStatusCode = models.StatusCode(newStatus)
		out = append(out, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status histories: %w", err)
	}

	return out, nil
}
