// Package replay re-runs the actions captured in failure records. The sweep
// walks every record, rebuilds the invocation from the persisted argument
// tuple and invokes the action by name.
package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xeipuuv/gojsonschema"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/persistence"
	"github.com/arthadana/alur/pkg/registry"
)

// argumentsSchema pins the persisted tuple shape:
// [application_id, new_status_code, change_reason, note, old_status_code].
const argumentsSchema = `{
	"type": "array",
	"minItems": 5,
	"maxItems": 5,
	"items": [
		{"type": "integer"},
		{"type": "integer"},
		{"type": "string"},
		{"type": "string"},
		{"type": "integer"}
	]
}`

// ActionExecutor re-invokes one named action from its argument tuple.
type ActionExecutor interface {
	ExecuteAction(ctx context.Context, actionName string, args models.ActionArguments) error
}

// Stats summarizes one recall sweep.
type Stats struct {
	Total     int
	Replayed  int
	Failed    int
	Skipped   int
}

// Recaller sweeps the failure records and re-invokes each recorded action.
//
// Records are never deleted or marked resolved, not even after a successful
// replay: the table carries no resolution column, so every sweep re-runs the
// full backlog. Replayed actions are written to be idempotent for exactly
// this reason.
type Recaller struct {
	store    persistence.Persistence
	executor ActionExecutor
	schema   *gojsonschema.Schema
	logger   *slog.Logger
}

func NewRecaller(store persistence.Persistence, executor ActionExecutor, logger *slog.Logger) (*Recaller, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(argumentsSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile arguments schema: %w", err)
	}

	return &Recaller{store: store, executor: executor, schema: schema, logger: logger}, nil
}

// RecallAll replays every failure record, oldest first. One bad record never
// stops the sweep.
func (r *Recaller) RecallAll(ctx context.Context) (Stats, error) {
	records, err := r.store.FailureActions().All(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to list failure records: %w", err)
	}

	stats := Stats{Total: len(records)}

	for _, record := range records {
		switch err := r.Recall(ctx, record); {
		case err == nil:
			stats.Replayed++
		case errors.As(err, new(*registry.DeprecatedActionError)):
			stats.Skipped++

			r.logger.WarnContext(ctx, "Skipping record for deprecated action",
				"record_id", record.ID, "action", record.ActionName)
		default:
			stats.Failed++

			r.logger.ErrorContext(ctx, "Failure record replay failed",
				"record_id", record.ID, "action", record.ActionName,
				"application_id", record.ApplicationID, "error", err)
		}
	}

	r.logger.InfoContext(ctx, "Recall sweep finished",
		"total", stats.Total, "replayed", stats.Replayed,
		"failed", stats.Failed, "skipped", stats.Skipped)

	return stats, nil
}

// Recall replays a single failure record.
func (r *Recaller) Recall(ctx context.Context, record *models.FailureAction) error {
	if err := r.validateArguments(record); err != nil {
		return err
	}

	return r.executor.ExecuteAction(ctx, record.ActionName, record.Arguments)
}

func (r *Recaller) validateArguments(record *models.FailureAction) error {
	payload, err := json.Marshal(record.Arguments)
	if err != nil {
		return fmt.Errorf("record %s has unmarshalable arguments: %w", record.ID, err)
	}

	result, err := r.schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("failed to validate arguments of record %s: %w", record.ID, err)
	}

	if !result.Valid() {
		return fmt.Errorf("record %s has malformed arguments: %v", record.ID, result.Errors())
	}

	return nil
}
