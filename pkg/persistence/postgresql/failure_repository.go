package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/persistence"
)

// FailureActionRepository persists the post-phase failure records. Arguments
// are stored as the fixed-order JSON array the replay job depends on.
type FailureActionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewFailureActionRepository(db *sql.DB, logger *slog.Logger) *FailureActionRepository {
	return &FailureActionRepository{db: db, logger: logger}
}

func (r *FailureActionRepository) Create(ctx context.Context, fa *models.FailureAction) error {
	arguments, err := json.Marshal(fa.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal failure action arguments: %w", err)
	}

	query := `
		INSERT INTO workflow_failure_actions (id, application_id, action_name, action_type, arguments, error_message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err = r.db.QueryRowContext(ctx, query,
		fa.ID, fa.ApplicationID, fa.ActionName, fa.ActionType, arguments, fa.ErrorMessage,
	).Scan(&fa.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert failure action for application %d: %w", fa.ApplicationID, err)
	}

	return nil
}

const failureActionColumns = `id, application_id, action_name, action_type, arguments, error_message, created_at`

func (r *FailureActionRepository) ByID(ctx context.Context, id string) (*models.FailureAction, error) {
	query := `SELECT ` + failureActionColumns + ` FROM workflow_failure_actions WHERE id = $1`

	fa, err := scanFailureAction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrFailureActionNotFound
		}

		return nil, fmt.Errorf("failed to query failure action %s: %w", id, err)
	}

	return fa, nil
}

func (r *FailureActionRepository) All(ctx context.Context) ([]*models.FailureAction, error) {
	query := `SELECT ` + failureActionColumns + ` FROM workflow_failure_actions ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query failure actions: %w", err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	var out []*models.FailureAction

	for rows.Next() {
		fa, err := scanFailureAction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan failure action: %w", err)
		}

		out = append(out, fa)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating failure actions: %w", err)
	}

	return out, nil
}

func scanFailureAction(row rowScanner) (*models.FailureAction, error) {
	var (
		fa        models.FailureAction
		arguments []byte
	)

	err := row.Scan(&fa.ID, &fa.ApplicationID, &fa.ActionName, &fa.ActionType,
		&arguments, &fa.ErrorMessage, &fa.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(arguments, &fa.Arguments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal failure action arguments: %w", err)
	}

	return &fa, nil
}
