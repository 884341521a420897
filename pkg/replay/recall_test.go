package replay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthadana/alur/pkg/log"
	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/persistence/memory"
	"github.com/arthadana/alur/pkg/registry"
)

type recordingExecutor struct {
	invoked []string
	errs    map[string]error
}

func (e *recordingExecutor) ExecuteAction(_ context.Context, actionName string, _ models.ActionArguments) error {
	e.invoked = append(e.invoked, actionName)

	return e.errs[actionName]
}

func seedRecord(t *testing.T, store *memory.Store, id, actionName string) {
	t.Helper()

	require.NoError(t, store.FailureActions().Create(context.Background(), &models.FailureAction{
		ID:            id,
		ApplicationID: 42,
		ActionName:    actionName,
		ActionType:    models.FailureActionTypePost,
		Arguments: models.ActionArguments{
			ApplicationID: 42,
			NewStatusCode: models.StatusDocumentsVerified,
			ChangeReason:  "system_triggered",
			OldStatusCode: models.StatusScrapedDataVerified,
		},
		ErrorMessage: "boom",
	}))
}

func TestRecallAllSweepsEveryRecord(t *testing.T) {
	store := memory.NewStore()
	executor := &recordingExecutor{
		errs: map[string]error{
			"retired_action": &registry.DeprecatedActionError{Name: "retired_action"},
			"broken_action":  errors.New("still failing"),
		},
	}

	seedRecord(t, store, "rec-1", "send_sms_status_change")
	seedRecord(t, store, "rec-2", "retired_action")
	seedRecord(t, store, "rec-3", "broken_action")

	recaller, err := NewRecaller(store, executor, log.Discard())
	require.NoError(t, err)

	stats, err := recaller.RecallAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{Total: 3, Replayed: 1, Failed: 1, Skipped: 1}, stats)
	assert.ElementsMatch(t, []string{"send_sms_status_change", "retired_action", "broken_action"}, executor.invoked)

	// Records stay in place after the sweep, replayed or not.
	records, err := store.FailureActions().All(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestRecallAllSecondSweepRerunsBacklog(t *testing.T) {
	store := memory.NewStore()
	executor := &recordingExecutor{}

	seedRecord(t, store, "rec-1", "send_sms_status_change")

	recaller, err := NewRecaller(store, executor, log.Discard())
	require.NoError(t, err)

	_, err = recaller.RecallAll(context.Background())
	require.NoError(t, err)
	_, err = recaller.RecallAll(context.Background())
	require.NoError(t, err)

	// No resolution marker exists, so the same record replays every sweep.
	assert.Equal(t, []string{"send_sms_status_change", "send_sms_status_change"}, executor.invoked)
}

func TestRecallPassesPersistedArguments(t *testing.T) {
	store := memory.NewStore()

	var got models.ActionArguments

	executor := &capturingExecutor{captured: &got}

	recaller, err := NewRecaller(store, executor, log.Discard())
	require.NoError(t, err)

	record := &models.FailureAction{
		ID:         "rec-9",
		ActionName: "record_status_history",
		ActionType: models.FailureActionTypePost,
		Arguments: models.ActionArguments{
			ApplicationID: 7,
			NewStatusCode: models.StatusActive,
			ChangeReason:  "r",
			Note:          "n",
			OldStatusCode: models.StatusFundDisbursalSuccessful,
		},
	}

	require.NoError(t, recaller.Recall(context.Background(), record))
	assert.Equal(t, record.Arguments, got)
}

type capturingExecutor struct {
	captured *models.ActionArguments
}

func (e *capturingExecutor) ExecuteAction(_ context.Context, _ string, args models.ActionArguments) error {
	*e.captured = args

	return nil
}
