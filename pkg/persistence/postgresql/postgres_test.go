package postgresql

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthadana/alur/pkg/log"
	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/persistence"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewStoreWithDB(db, log.Discard()), mock
}

func applicationRow(id int64) *sqlmock.Rows {
	now := time.Now()

	return sqlmock.NewRows([]string{
		"id", "customer_id", "status_code", "workflow_variant", "product_line_code",
		"partner_name", "loan_id", "full_name", "email", "phone_number",
		"bank_name", "bank_account_number", "created_at", "updated_at",
	}).AddRow(
		id, int64(7), 122, "julo_one", 1,
		"", nil, "Siti", "siti@example.com", "0812",
		"bca", "12345", now, now,
	)
}

func TestApplicationByID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM applications WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(applicationRow(42))

	app, err := store.Applications().ByID(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, int64(42), app.ID)
	assert.Equal(t, models.StatusDocumentsVerified, app.StatusCode)
	assert.Equal(t, models.VariantJuloOne, app.Variant)
	assert.Nil(t, app.LoanID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationByIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM applications WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Applications().ByID(context.Background(), 7)
	assert.ErrorIs(t, err, persistence.ErrApplicationNotFound)
	assert.True(t, persistence.IsNotFound(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusChecksAffectedRows(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE applications SET status_code = \$2`).
		WithArgs(int64(42), 124).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Applications().UpdateStatus(ctx, 42, models.StatusVerificationCallsSuccessful))

	mock.ExpectExec(`UPDATE applications SET status_code = \$2`).
		WithArgs(int64(99), 124).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Applications().UpdateStatus(ctx, 99, models.StatusVerificationCallsSuccessful)
	assert.ErrorIs(t, err, persistence.ErrApplicationNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFailureActionCreateStoresTupleJSON(t *testing.T) {
	store, mock := newMockStore(t)

	fa := &models.FailureAction{
		ID:            "rec-1",
		ApplicationID: 42,
		ActionName:    "send_sms_status_change",
		ActionType:    models.FailureActionTypePost,
		Arguments: models.ActionArguments{
			ApplicationID: 42,
			NewStatusCode: models.StatusBankNameValidated,
			ChangeReason:  "r",
			Note:          "n",
			OldStatusCode: models.StatusLenderApproval,
		},
		ErrorMessage: "boom",
	}

	// The arguments column carries the fixed-order array, not an object.
	mock.ExpectQuery(`INSERT INTO workflow_failure_actions`).
		WithArgs("rec-1", int64(42), "send_sms_status_change", "post",
			[]byte(`[42,172,"r","n",160]`), "boom").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	require.NoError(t, store.FailureActions().Create(context.Background(), fa))
	assert.False(t, fa.CreatedAt.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFailureActionAllDecodesArguments(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "application_id", "action_name", "action_type", "arguments", "error_message", "created_at",
	}).AddRow(
		"rec-1", int64(42), "send_sms_status_change", "post",
		[]byte(`[42,172,"r","n",160]`), "boom", time.Now(),
	)

	mock.ExpectQuery(`SELECT (.+) FROM workflow_failure_actions ORDER BY created_at`).
		WillReturnRows(rows)

	records, err := store.FailureActions().All(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, models.ActionArguments{
		ApplicationID: 42,
		NewStatusCode: models.StatusBankNameValidated,
		ChangeReason:  "r",
		Note:          "n",
		OldStatusCode: models.StatusLenderApproval,
	}, records[0].Arguments)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFailureActionAllRejectsMalformedArguments(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "application_id", "action_name", "action_type", "arguments", "error_message", "created_at",
	}).AddRow(
		"rec-2", int64(42), "send_sms_status_change", "post",
		[]byte(`[42,172,"r"]`), "boom", time.Now(),
	)

	mock.ExpectQuery(`SELECT (.+) FROM workflow_failure_actions ORDER BY created_at`).
		WillReturnRows(rows)

	_, err := store.FailureActions().All(context.Background())
	assert.Error(t, err)
}
